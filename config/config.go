// Package config loads the YAML configuration this module runs on,
// mirroring the teacher's own Config.go: a package-level struct, a
// Load(filename) that falls back to built-in defaults when the file is
// missing or empty, and a Save that writes it back.
package config

import (
	"io/ioutil"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a client process: where to
// listen, the DHT bootstrap set, and dispatcher tuning.
type Config struct {
	LogFile string `yaml:"LogFile"`

	Listen        []string `yaml:"Listen"`        // IP:Port combinations for the UDP dispatcher
	ListenWorkers int      `yaml:"ListenWorkers"` // count of dispatcher instances to run

	PrivateKey string `yaml:"PrivateKey"` // hex-encoded identity private key

	DHTBootstrap []DHTNode `yaml:"DHTBootstrap"`

	Dispatcher DispatcherTuning `yaml:"Dispatcher"`

	TrackerAnnounceURLs []string `yaml:"TrackerAnnounceURLs"`
}

// DHTNode is a single bootstrap contact from the config's DHT seed list.
type DHTNode struct {
	NodeID  string `yaml:"NodeID"` // hex encoded, empty if unknown
	Address string `yaml:"Address"`
}

// DispatcherTuning mirrors dispatch.Config's fields so they can be set from
// YAML without the config package importing dispatch.
type DispatcherTuning struct {
	DatagramSize     int `yaml:"DatagramSize"`
	OutboundQueueCap int `yaml:"OutboundQueueCap"`
}

// defaultConfig is used whenever the target file is missing or empty,
// mirroring the teacher's embedded "Config Default.yaml" fallback.
var defaultConfig = Config{
	Listen:        []string{"0.0.0.0:6881"},
	ListenWorkers: 2,
	Dispatcher: DispatcherTuning{
		DatagramSize:     1 << 16,
		OutboundQueueCap: 4096,
	},
}

// Load reads the YAML configuration file at filename. If the file does not
// exist or is empty, it returns a copy of defaultConfig instead of erroring.
func Load(filename string) (Config, error) {
	var raw []byte

	stats, err := os.Stat(filename)
	switch {
	case err != nil && os.IsNotExist(err):
		return defaultConfig, nil
	case err != nil:
		return Config{}, err
	case stats.Size() == 0:
		return defaultConfig, nil
	}

	if raw, err = ioutil.ReadFile(filename); err != nil {
		return Config{}, err
	}

	cfg := defaultConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg back to filename as YAML, logging (not returning) any
// error, matching the teacher's fire-and-forget saveConfig.
func Save(filename string, cfg Config) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		log.Printf("config: error marshalling config: %v\n", err)
		return
	}
	if err := ioutil.WriteFile(filename, data, 0644); err != nil {
		log.Printf("config: error writing config %q: %v\n", filename, err)
	}
}
