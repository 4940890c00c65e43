package dispatch

import "sync"

// BufferPool is a grow-on-demand free list of fixed-size buffers (spec
// §4.6). Pop always returns a zeroed buffer of Size bytes; Push returns a
// used buffer to the free list for reuse. Len is for diagnostics only and
// must never be consulted for correctness.
type BufferPool struct {
	Size int

	mu   sync.Mutex
	free [][]byte
}

// NewBufferPool returns a pool that hands out buffers of size bytes.
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{Size: size}
}

// Pop returns a zeroed buffer, allocating a fresh one if the free list is
// empty.
func (p *BufferPool) Pop() []byte {
	p.mu.Lock()
	n := len(p.free)
	if n == 0 {
		p.mu.Unlock()
		return make([]byte, p.Size)
	}
	buf := p.free[n-1]
	p.free = p.free[:n-1]
	p.mu.Unlock()

	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Push returns buf to the free list. buf's capacity must be at least Size;
// callers must not use buf after calling Push.
func (p *BufferPool) Push(buf []byte) {
	if cap(buf) < p.Size {
		return
	}
	p.mu.Lock()
	p.free = append(p.free, buf[:p.Size])
	p.mu.Unlock()
}

// Len returns the number of buffers currently idle in the free list.
func (p *BufferPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
