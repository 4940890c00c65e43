// Package block implements the disk block data model referenced by the
// peer-wire Request/Piece/Cancel messages: metadata identifying a byte
// range within a piece, plus mutable and immutable block value types
// (spec §3). Actual storage is an external collaborator (Store) named
// only by interface here; reading/writing bytes to disk is out of scope.
package block

import (
	"github.com/da2ce7/bittorrent-infrastructure-project/wire"
)

// Metadata identifies a byte range within a piece of a torrent.
type Metadata struct {
	InfoHash    wire.Hash20
	PieceIndex  uint64
	BlockOffset uint64
	BlockLength int
}

// Mut is a block whose bytes are still being assembled (e.g. freshly read
// from the wire into a pool buffer). It converts to an immutable Block via
// Freeze, which consumes it.
type Mut struct {
	Metadata Metadata
	Data     []byte
}

// Freeze converts m into an immutable Block. m must not be used afterward;
// ownership of the backing array transfers to the returned Block.
func (m Mut) Freeze() Block {
	return Block{Metadata: m.Metadata, data: m.Data}
}

// Block pairs immutable bytes with the Metadata identifying where they
// belong. The zero value is not meaningful; construct via Mut.Freeze.
type Block struct {
	Metadata Metadata
	data     []byte
}

// Bytes returns the block's payload. Callers must not mutate the returned
// slice; it may be shared with a pool buffer still in use elsewhere.
func (b Block) Bytes() []byte { return b.data }

// Len returns len(b.Bytes()).
func (b Block) Len() int { return len(b.data) }

// Store is the external collaborator a disk/cache layer implements to
// persist and retrieve Blocks; this package defines only the contract.
type Store interface {
	Put(b Block) error
	Get(meta Metadata) (Block, bool, error)
	Has(meta Metadata) bool
}
