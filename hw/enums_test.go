package hw

import "testing"

func TestPrimPatchList(t *testing.T) {
	tests := []struct {
		n    uint32
		want Primitive
	}{
		{1, 0x20},
		{3, 0x22},
		{32, 0x3F},
	}
	for _, tt := range tests {
		if got := PrimPatchList(tt.n); got != tt.want {
			t.Errorf("PrimPatchList(%d) = %#x, want %#x", tt.n, got, tt.want)
		}
	}
}

func TestPrimPatchListPanics(t *testing.T) {
	for _, n := range []uint32{0, 33} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("PrimPatchList(%d) did not panic", n)
				}
			}()
			PrimPatchList(n)
		}()
	}
}

func TestPipeBitsString(t *testing.T) {
	tests := []struct {
		b    PipeBits
		want string
	}{
		{0, "none"},
		{PipeCSStall, "cs-stall"},
		{PipeDepthStall | PipeDepthCacheFlush, "depth-stall|depth-flush"},
		{PipePSSStallSync, "pss-sync"},
	}
	for _, tt := range tests {
		if got := tt.b.String(); got != tt.want {
			t.Errorf("PipeBits(%#x).String() = %q, want %q", uint32(tt.b), got, tt.want)
		}
	}
}

func TestStateReset(t *testing.T) {
	var s State
	s.Raster.CullMode = CullBack
	s.ViewportSFClip.Count = 4
	s.Blend.RTs[3].LogicOpEnable = true
	s.Baked[GroupVS] = Baked{Enabled: true, Key: 7}

	s.Reset()

	if s != (State{}) {
		t.Errorf("Reset() left non-zero records: %+v", s)
	}
}
