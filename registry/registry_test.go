package registry

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Registry {
	t.Helper()
	dir := t.TempDir()
	reg, err := Open(filepath.Join(dir, "registry.pogreb"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { reg.Close() })
	return reg
}

func TestRegisterLookupRoundTrip(t *testing.T) {
	reg := openTemp(t)
	var hash [20]byte
	hash[0] = 0xAB

	if err := reg.Register(hash, []byte("d4:infod...ee")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	raw, err := reg.Lookup(hash)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if string(raw) != "d4:infod...ee" {
		t.Fatalf("Lookup returned %q", raw)
	}
}

func TestRegisterDuplicateRejected(t *testing.T) {
	reg := openTemp(t)
	var hash [20]byte
	hash[0] = 1

	if err := reg.Register(hash, []byte("a")); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := reg.Register(hash, []byte("b"))
	if _, ok := err.(*InvalidMetainfoExists); !ok {
		t.Fatalf("expected InvalidMetainfoExists, got %v", err)
	}
}

func TestLookupMissing(t *testing.T) {
	reg := openTemp(t)
	var hash [20]byte
	hash[0] = 2

	_, err := reg.Lookup(hash)
	if _, ok := err.(*InvalidMetainfoNotExists); !ok {
		t.Fatalf("expected InvalidMetainfoNotExists, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	reg := openTemp(t)
	var hash [20]byte
	hash[0] = 3

	if err := reg.Register(hash, []byte("a")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Remove(hash); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	_, err := reg.Lookup(hash)
	if _, ok := err.(*InvalidMetainfoNotExists); !ok {
		t.Fatalf("expected InvalidMetainfoNotExists after Remove, got %v", err)
	}
}

func TestRemoveMissing(t *testing.T) {
	reg := openTemp(t)
	var hash [20]byte
	hash[0] = 4

	err := reg.Remove(hash)
	if _, ok := err.(*InvalidMetainfoNotExists); !ok {
		t.Fatalf("expected InvalidMetainfoNotExists, got %v", err)
	}
}
