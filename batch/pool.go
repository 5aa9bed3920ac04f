package batch

import (
	"bytes"
	"hash/fnv"
)

// Pool is a linear allocator for dynamic state: viewport, scissor,
// color calculator and blend tables the hardware reads through pointers.
// Identical allocations are deduplicated, so re-emitting an unchanged table
// costs only its pointer packet.
type Pool struct {
	data  []byte
	limit int
	seen  map[uint64][]uint32
}

// NewPool returns a pool of size bytes.
func NewPool(size int) *Pool {
	return &Pool{
		data:  make([]byte, 0, size),
		limit: size,
		seen:  make(map[uint64][]uint32),
	}
}

// Alloc copies src into the pool at an offset aligned to align bytes and
// returns that offset.
func (p *Pool) Alloc(src []byte, align uint32) (uint32, error) {
	h := fnv.New64a()
	h.Write(src)
	key := h.Sum64()
	for _, off := range p.seen[key] {
		end := int(off) + len(src)
		if off%align == 0 && end <= len(p.data) && bytes.Equal(p.data[off:end], src) {
			return off, nil
		}
	}

	start := alignUp(len(p.data), int(align))
	if start+len(src) > p.limit {
		return 0, ErrPoolExhausted
	}
	for len(p.data) < start {
		p.data = append(p.data, 0)
	}
	p.data = append(p.data, src...)
	off := uint32(start)
	p.seen[key] = append(p.seen[key], off)
	return off, nil
}

// Bytes returns the pool contents written so far.
func (p *Pool) Bytes() []byte { return p.data }

// Used returns the number of bytes allocated, padding included.
func (p *Pool) Used() int { return len(p.data) }

// Reset discards every allocation.
func (p *Pool) Reset() {
	p.data = p.data[:0]
	clear(p.seen)
}

func alignUp(n, a int) int { return (n + a - 1) / a * a }
