// Package identity derives a local DHT NodeId from a secp256k1 keypair,
// mirroring the teacher's peer-identity derivation (Peer ID.go:
// Secp256k1NewPrivateKey, ExportPrivateKey) but hashed down to the DHT's
// 20-byte NodeId instead of used as a raw public key.
package identity

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec"
	"lukechampine.com/blake3"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// Identity is a local peer's secp256k1 keypair plus its derived NodeId.
type Identity struct {
	PrivateKey *btcec.PrivateKey
	PublicKey  *btcec.PublicKey
	NodeID     wire.Hash20
}

// New generates a fresh keypair and derives its NodeId, mirroring the
// teacher's Secp256k1NewPrivateKey.
func New() (*Identity, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, err
	}
	return fromPrivateKey(key), nil
}

// FromHex restores an Identity from a hex-encoded private key, mirroring
// the teacher's initPeerID config-load path (Peer ID.go).
func FromHex(s string) (*Identity, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), raw)
	return fromPrivateKey(key), nil
}

func fromPrivateKey(key *btcec.PrivateKey) *Identity {
	pub := (*btcec.PublicKey)(&key.PublicKey)
	return &Identity{
		PrivateKey: key,
		PublicKey:  pub,
		NodeID:     deriveNodeID(pub),
	}
}

// ExportPrivateKeyHex mirrors the teacher's hex.EncodeToString(config save)
// path, for persisting the identity across restarts.
func (id *Identity) ExportPrivateKeyHex() string {
	return hex.EncodeToString(id.PrivateKey.Serialize())
}

// deriveNodeID hashes the compressed public key with BLAKE3 and truncates
// to the DHT's 20-byte NodeId width.
func deriveNodeID(pub *btcec.PublicKey) wire.Hash20 {
	sum := blake3.Sum256(pub.SerializeCompressed())
	var id wire.Hash20
	copy(id[:], sum[:20])
	return id
}
