package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenWorkers != defaultConfig.ListenWorkers {
		t.Fatalf("Load(missing) = %+v, want default %+v", cfg, defaultConfig)
	}
}

func TestLoadEmptyFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := ioutil.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Listen) != len(defaultConfig.Listen) {
		t.Fatalf("Load(empty) = %+v, want default %+v", cfg, defaultConfig)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Config{
		Listen:        []string{"0.0.0.0:7000"},
		ListenWorkers: 4,
		PrivateKey:    "deadbeef",
		DHTBootstrap: []DHTNode{
			{NodeID: "", Address: "1.2.3.4:6881"},
		},
	}
	Save(path, cfg)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Listen) != 1 || got.Listen[0] != "0.0.0.0:7000" {
		t.Fatalf("Listen mismatch: %+v", got.Listen)
	}
	if got.ListenWorkers != 4 || got.PrivateKey != "deadbeef" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if len(got.DHTBootstrap) != 1 || got.DHTBootstrap[0].Address != "1.2.3.4:6881" {
		t.Fatalf("DHTBootstrap mismatch: %+v", got.DHTBootstrap)
	}
}
