package batch

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/hwstate/hw"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{stateOp(hw.GroupRaster), "RASTER"},
		{pointerOp(hw.GroupScissor), "SCISSOR_POINTER"},
		{OpBarrier, "PIPE_CONTROL"},
		{OpPrimitive, "3DPRIMITIVE"},
		{Opcode(0x4000), "Opcode(0x4000)"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(%#x).String() = %q, want %q", uint16(tt.op), got, tt.want)
		}
	}
}

func TestOpcodeKind(t *testing.T) {
	if got := stateOp(hw.GroupClip).Kind(); got != OpState {
		t.Errorf("Kind() = %#x, want %#x", got, OpState)
	}
	if got := pointerOp(hw.GroupViewportCC).Group(); got != hw.GroupViewportCC {
		t.Errorf("Group() = %s, want %s", got, hw.GroupViewportCC)
	}
	if got := OpPrimitive.Kind(); got != OpPrimitive {
		t.Errorf("OpPrimitive.Kind() = %#x", got)
	}
}

func TestAppendPacketPadding(t *testing.T) {
	data := appendPacket(nil, stateOp(hw.GroupSF), []byte{1, 2, 3})
	if len(data) != 8 {
		t.Fatalf("len = %d, want 8", len(data))
	}
	hdr := binary.LittleEndian.Uint32(data)
	if want := uint32(stateOp(hw.GroupSF))<<16 | 1; hdr != want {
		t.Errorf("header = %#x, want %#x", hdr, want)
	}
	if data[7] != 0 {
		t.Errorf("padding byte = %d, want 0", data[7])
	}
}

func TestDecode(t *testing.T) {
	var data []byte
	data = appendPacket(data, OpBarrier, binary.LittleEndian.AppendUint32(nil, uint32(hw.PipeCSStall)))
	data = appendPacket(data, pointerOp(hw.GroupScissor), binary.LittleEndian.AppendUint32(nil, 0x40))
	data = appendPacket(data, stateOp(hw.GroupWM), nil)

	pkts, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(pkts) != 3 {
		t.Fatalf("Decode() = %d packets, want 3", len(pkts))
	}
	if got := pkts[0].Bits(); got != hw.PipeCSStall {
		t.Errorf("barrier bits = %v, want %v", got, hw.PipeCSStall)
	}
	if got := pkts[1].Pointer(); got != 0x40 {
		t.Errorf("pointer = %#x, want 0x40", got)
	}
	if pkts[2].Op != stateOp(hw.GroupWM) || len(pkts[2].Payload) != 0 {
		t.Errorf("packet 2 = %v", pkts[2])
	}
}

func TestDecodeCorrupt(t *testing.T) {
	full := appendPacket(nil, OpBarrier, []byte{1, 0, 0, 0, 2, 0, 0, 0})
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{1, 2}},
		{"truncated payload", full[:8]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data); !errors.Is(err, ErrCorrupt) {
				t.Errorf("Decode() error = %v, want %v", err, ErrCorrupt)
			}
		})
	}
}
