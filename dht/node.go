package dht

import (
	"math/big"
	"time"

	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// Node is a known DHT participant: its identity, reachable endpoint, and
// when it was last considered responsive.
type Node struct {
	ID       wire.Hash20
	Endpoint wire.Endpoint
	LastSeen time.Time
}

// Distance returns the xor distance between a and b interpreted as a
// big-endian 160-bit unsigned integer (spec §3).
func Distance(a, b wire.Hash20) *big.Int {
	var xor [20]byte
	for i := range xor {
		xor[i] = a[i] ^ b[i]
	}
	return new(big.Int).SetBytes(xor[:])
}

func hasBit(n byte, pos uint) bool {
	pos = 7 - pos
	return n&(1<<pos) > 0
}

// bucketIndex returns the routing-table bucket that id2 falls into relative
// to id1, found by locating the first differing bit scanning MSB-first
// (ported from the teacher's getBucketIndexFromDifferingBit).
func bucketIndex(bits int, id1, id2 wire.Hash20) int {
	for j := 0; j < len(id1); j++ {
		xor := id1[j] ^ id2[j]
		for i := 0; i < 8; i++ {
			if hasBit(xor, uint(i)) {
				return bits - (j*8 + i) - 1
			}
		}
	}
	return 0 // identical ids: only expected during bootstrap
}
