package batch

import (
	"encoding/binary"
	"log/slog"

	"honnef.co/go/safeish"

	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/hw"
)

var _ hwstate.Encoder = (*Buffer)(nil)

// Buffer is a bounded command buffer. It implements hwstate.Encoder.
type Buffer struct {
	data  []byte
	limit int
	pool  *Pool

	// blend is the pool offset of the last BLEND_STATE, consumed by
	// BLEND_STATE_POINTERS.
	blend    uint32
	hasBlend bool

	packets int
	log     *slog.Logger
}

// New returns a command buffer of size bytes whose dynamic state goes to
// pool. A nil pool gets a private 16 KiB pool.
func New(size int, pool *Pool) *Buffer {
	if pool == nil {
		pool = NewPool(16 << 10)
	}
	return &Buffer{
		data:  make([]byte, 0, size),
		limit: size,
		pool:  pool,
		log:   hwstate.Logger(),
	}
}

// Bytes returns the command stream written so far.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return len(b.data) }

// Packets returns the number of packets written.
func (b *Buffer) Packets() int { return b.packets }

// Pool returns the dynamic state pool the buffer writes to.
func (b *Buffer) Pool() *Pool { return b.pool }

// Reset empties the buffer. The pool is left alone; it may be shared by
// several buffers.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.packets = 0
	b.blend, b.hasBlend = 0, false
}

// EncodeGroup writes the packet of group g.
func (b *Buffer) EncodeGroup(g hw.Group, s *hw.State) error {
	switch {
	case g == hw.GroupBlendState:
		// BLEND_STATE has no command of its own; the pointer packet that
		// follows it carries the offset.
		tbl, al := tableBytes(g, s)
		off, err := b.alloc(g, tbl, al)
		if err != nil {
			return err
		}
		b.blend, b.hasBlend = off, true
		return nil

	case g == hw.GroupBlendStatePointers:
		if !b.hasBlend {
			// Nothing to point at in this buffer: re-derive it.
			tbl, al := tableBytes(hw.GroupBlendState, s)
			if err := b.reserve(packedLen(4)); err != nil {
				return err
			}
			off, err := b.alloc(g, tbl, al)
			if err != nil {
				return err
			}
			b.blend, b.hasBlend = off, true
		}
		return b.pointer(g, b.blend)

	case pooled(g):
		if err := b.reserve(packedLen(4)); err != nil {
			return err
		}
		tbl, al := tableBytes(g, s)
		off, err := b.alloc(g, tbl, al)
		if err != nil {
			return err
		}
		return b.pointer(g, off)
	}
	return b.write(stateOp(g), inlineBytes(s.Record(g)))
}

// EncodeBarrier writes a PIPE_CONTROL.
func (b *Buffer) EncodeBarrier(bits hw.PipeBits) error {
	return b.write(OpBarrier, binary.LittleEndian.AppendUint32(nil, uint32(bits)))
}

// EncodePrimitive writes a 3DPRIMITIVE.
func (b *Buffer) EncodePrimitive(p hw.Primitive3D) error {
	return b.write(OpPrimitive, safeish.AsBytes(&p))
}

func (b *Buffer) pointer(g hw.Group, off uint32) error {
	return b.write(pointerOp(g), binary.LittleEndian.AppendUint32(nil, off))
}

func (b *Buffer) alloc(g hw.Group, tbl []byte, align uint32) (uint32, error) {
	off, err := b.pool.Alloc(tbl, align)
	if err != nil {
		b.log.Debug("batch: dynamic state allocation failed",
			"group", g.String(), "size", len(tbl), "used", b.pool.Used(), "err", err)
	}
	return off, err
}

// reserve fails if n more bytes do not fit.
func (b *Buffer) reserve(n int) error {
	if len(b.data)+n > b.limit {
		b.log.Debug("batch: command buffer full", "need", n, "used", len(b.data), "limit", b.limit)
		return ErrOutOfSpace
	}
	return nil
}

func (b *Buffer) write(op Opcode, payload []byte) error {
	if len(payload) > maxPayload {
		panic("batch: " + op.String() + " payload too large")
	}
	if err := b.reserve(packedLen(len(payload))); err != nil {
		return err
	}
	b.data = appendPacket(b.data, op, payload)
	b.packets++
	return nil
}
