package identity

import (
	"testing"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

func TestNewProducesNonZeroNodeID(t *testing.T) {
	id, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if id.NodeID == (wire.Hash20{}) {
		t.Fatalf("expected a non-zero derived NodeID")
	}
}

func TestNewIsNotDeterministic(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.NodeID == b.NodeID {
		t.Fatalf("two fresh identities produced the same NodeID")
	}
}

func TestFromHexRoundTripsPrivateKey(t *testing.T) {
	original, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	restored, err := FromHex(original.ExportPrivateKeyHex())
	if err != nil {
		t.Fatalf("FromHex: %v", err)
	}

	if restored.NodeID != original.NodeID {
		t.Fatalf("NodeID mismatch after FromHex round trip: %x vs %x", restored.NodeID, original.NodeID)
	}
	if restored.ExportPrivateKeyHex() != original.ExportPrivateKeyHex() {
		t.Fatalf("private key mismatch after FromHex round trip")
	}
}

func TestDeriveNodeIDIsDeterministicForSameKey(t *testing.T) {
	id, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	again := deriveNodeID(id.PublicKey)
	if again != id.NodeID {
		t.Fatalf("deriveNodeID is not deterministic for the same public key: %x vs %x", again, id.NodeID)
	}
}

func TestFromHexRejectsInvalidHex(t *testing.T) {
	if _, err := FromHex("not-hex"); err == nil {
		t.Fatalf("expected an error for invalid hex input")
	}
}
