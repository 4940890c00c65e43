// Package registry is an embedded key-value registry of known .torrent
// metainfo, keyed by info hash. It is grounded on the teacher's
// store/Pogreb.go wrapper around github.com/akrylysov/pogreb, generalized
// to raise InvalidMetainfoExists/InvalidMetainfoNotExists at the
// discovery boundary instead of returning a bare found bool.
package registry

import (
	"io"
	"log"
	"sync"

	"github.com/akrylysov/pogreb"
)

// Registry is a pogreb-backed key/value store mapping info hash to raw
// bencoded metainfo bytes.
type Registry struct {
	mutex    sync.Mutex
	filename string
	db       *pogreb.DB
}

// Open opens (creating if necessary) the registry database at filename.
func Open(filename string) (*Registry, error) {
	pogreb.SetLogger(log.New(io.Discard, "", 0))

	db, err := pogreb.Open(filename, nil)
	if err != nil {
		return nil, err
	}

	return &Registry{filename: filename, db: db}, nil
}

// Close releases the underlying database handle.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Register stores raw, the bencoded metainfo dictionary, under infoHash. It
// returns InvalidMetainfoExists if infoHash is already registered.
func (r *Registry) Register(infoHash [20]byte, raw []byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	has, err := r.db.Has(infoHash[:])
	if err != nil {
		return err
	}
	if has {
		return &InvalidMetainfoExists{InfoHash: infoHash}
	}
	return r.db.Put(infoHash[:], raw)
}

// Lookup returns the raw metainfo registered under infoHash, or
// InvalidMetainfoNotExists if none is registered.
func (r *Registry) Lookup(infoHash [20]byte) ([]byte, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	raw, err := r.db.Get(infoHash[:])
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, &InvalidMetainfoNotExists{InfoHash: infoHash}
	}
	return raw, nil
}

// Remove deletes the registration for infoHash, or returns
// InvalidMetainfoNotExists if none is registered.
func (r *Registry) Remove(infoHash [20]byte) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	has, err := r.db.Has(infoHash[:])
	if err != nil {
		return err
	}
	if !has {
		return &InvalidMetainfoNotExists{InfoHash: infoHash}
	}
	return r.db.Delete(infoHash[:])
}
