package batch

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/hwstate/hw"
)

// Opcode identifies a packet. State and pointer opcodes carry the group in
// their low byte.
type Opcode uint16

const (
	OpState     Opcode = 0x1000
	OpPointer   Opcode = 0x2000
	OpBarrier   Opcode = 0x3000
	OpPrimitive Opcode = 0x3001

	kindMask Opcode = 0xf000
)

// HeaderSize is the size in bytes of a packet header.
const HeaderSize = 4

// maxPayload is the largest payload, in bytes, a header can describe.
const maxPayload = 0xffff * 4

// Kind returns the opcode without its group byte.
func (op Opcode) Kind() Opcode {
	if op&kindMask == OpBarrier {
		return op
	}
	return op & kindMask
}

// Group returns the group a state or pointer opcode refers to.
func (op Opcode) Group() hw.Group { return hw.Group(op & 0xff) }

func (op Opcode) String() string {
	switch op.Kind() {
	case OpState:
		return op.Group().String()
	case OpPointer:
		return op.Group().String() + "_POINTER"
	case OpBarrier:
		return "PIPE_CONTROL"
	case OpPrimitive:
		return "3DPRIMITIVE"
	}
	return fmt.Sprintf("Opcode(%#x)", uint16(op))
}

func stateOp(g hw.Group) Opcode   { return OpState | Opcode(g) }
func pointerOp(g hw.Group) Opcode { return OpPointer | Opcode(g) }

// Packet is one decoded command.
type Packet struct {
	Op      Opcode
	Payload []byte
}

// Pointer returns the pool offset carried by a pointer packet.
func (p Packet) Pointer() uint32 { return binary.LittleEndian.Uint32(p.Payload) }

// Bits returns the barrier bits carried by a barrier packet.
func (p Packet) Bits() hw.PipeBits { return hw.PipeBits(binary.LittleEndian.Uint32(p.Payload)) }

func (p Packet) String() string {
	switch p.Op.Kind() {
	case OpPointer:
		return fmt.Sprintf("%s @%#x", p.Op, p.Pointer())
	case OpBarrier:
		return fmt.Sprintf("%s %s", p.Op, p.Bits())
	}
	return fmt.Sprintf("%s [%d bytes]", p.Op, len(p.Payload))
}

// packedLen returns the size of a packet with an n byte payload.
func packedLen(n int) int { return HeaderSize + alignUp(n, 4) }

// appendPacket appends a header and the dword-padded payload to dst.
func appendPacket(dst []byte, op Opcode, payload []byte) []byte {
	dwords := alignUp(len(payload), 4) / 4
	dst = binary.LittleEndian.AppendUint32(dst, uint32(op)<<16|uint32(dwords))
	dst = append(dst, payload...)
	for pad := dwords*4 - len(payload); pad > 0; pad-- {
		dst = append(dst, 0)
	}
	return dst
}

// Decode splits a command stream into packets. Payloads alias data and
// keep their dword padding.
func Decode(data []byte) ([]Packet, error) {
	var out []Packet
	for off := 0; off < len(data); {
		if len(data)-off < HeaderSize {
			return out, fmt.Errorf("%w: short header at %d", ErrCorrupt, off)
		}
		hdr := binary.LittleEndian.Uint32(data[off:])
		op, n := Opcode(hdr>>16), int(hdr&0xffff)*4
		off += HeaderSize
		if len(data)-off < n {
			return out, fmt.Errorf("%w: %s payload of %d bytes truncated at %d", ErrCorrupt, op, n, off)
		}
		out = append(out, Packet{Op: op, Payload: data[off : off+n]})
		off += n
	}
	return out, nil
}
