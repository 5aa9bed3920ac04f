package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/backend"
	"github.com/gogpu/hwstate/hw"
)

// fakePass records the calls forwarded to it.
type fakePass struct {
	viewports [][6]float32
	scissors  [][4]uint32
	blend     []gputypes.Color
	stencil   []uint32
	draws     [][4]uint32
}

func (p *fakePass) SetViewport(x, y, w, h, minDepth, maxDepth float32) {
	p.viewports = append(p.viewports, [6]float32{x, y, w, h, minDepth, maxDepth})
}

func (p *fakePass) SetScissorRect(x, y, w, h uint32) {
	p.scissors = append(p.scissors, [4]uint32{x, y, w, h})
}

func (p *fakePass) SetBlendConstant(c *gputypes.Color) { p.blend = append(p.blend, *c) }
func (p *fakePass) SetStencilReference(ref uint32)     { p.stencil = append(p.stencil, ref) }

func (p *fakePass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.draws = append(p.draws, [4]uint32{vertexCount, instanceCount, firstVertex, firstInstance})
}

func newFakeEncoder() (*Encoder, *fakePass) {
	fp := &fakePass{}
	return NewEncoder(NewRenderPass(fp)), fp
}

func TestPassStateString(t *testing.T) {
	tests := []struct {
		s    PassState
		want string
	}{
		{PassStateRecording, "Recording"},
		{PassStateEnded, "Ended"},
		{PassState(7), "Unknown(7)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("PassState(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

// ============================================================================
// RenderPass
// ============================================================================

func TestRenderPassEnded(t *testing.T) {
	p := NewRenderPass(nil)
	if err := p.End(); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if !p.IsEnded() {
		t.Error("IsEnded() = false after End")
	}
	if err := p.SetViewport(0, 0, 1, 1, 0, 1); !errors.Is(err, ErrPassEnded) {
		t.Errorf("SetViewport() error = %v, want %v", err, ErrPassEnded)
	}
	if err := p.Draw(3, 1, 0, 0); !errors.Is(err, ErrPassEnded) {
		t.Errorf("Draw() error = %v, want %v", err, ErrPassEnded)
	}
	if err := p.End(); !errors.Is(err, ErrPassEnded) {
		t.Errorf("second End() error = %v, want %v", err, ErrPassEnded)
	}
	if len(p.Commands()) != 0 {
		t.Errorf("Commands() = %v, want none", p.Commands())
	}
}

func TestRenderPassNilState(t *testing.T) {
	var p *RenderPass
	if p.State() != PassStateEnded {
		t.Errorf("nil State() = %v, want Ended", p.State())
	}
}

func TestRenderPassCorePass(t *testing.T) {
	// A core pass without a HAL encoder accepts and drops every call.
	p := NewRenderPass(&core.CoreRenderPassEncoder{})
	calls := []func() error{
		func() error { return p.SetViewport(0, 0, 64, 64, 0, 1) },
		func() error { return p.SetScissorRect(0, 0, 64, 64) },
		func() error { return p.SetBlendConstant(gputypes.Color{R: 1, A: 1}) },
		func() error { return p.SetStencilReference(0x80) },
		func() error { return p.Draw(3, 1, 0, 0) },
	}
	for i, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("call %d error = %v", i, err)
		}
	}
	cmds := p.Commands()
	if len(cmds) != len(calls) {
		t.Fatalf("Commands() = %d, want %d", len(cmds), len(calls))
	}
	if got := cmds[3].String(); got != "SetStencilReference(128)" {
		t.Errorf("cmds[3] = %q", got)
	}
	if got := cmds[1].String(); got != "SetScissorRect(0, 0, 64, 64)" {
		t.Errorf("cmds[1] = %q", got)
	}
}

// ============================================================================
// Replay
// ============================================================================

func TestEncoderViewport(t *testing.T) {
	tests := []struct {
		name string
		vp   hw.SFClipViewport
		api  hw.ClipAPIMode
		want [6]float32
	}{
		{
			name: "zero to one",
			vp:   hw.SFClipViewport{M00: 50, M11: 40, M30: 60, M31: 40, M22: 0.5, M32: 0.25},
			api:  hw.ClipAPID3D,
			want: [6]float32{10, 0, 100, 80, 0.25, 0.75},
		},
		{
			name: "negative one to one",
			vp:   hw.SFClipViewport{M00: 50, M11: 40, M30: 60, M31: 40, M22: 0.25, M32: 0.5},
			api:  hw.ClipAPIOGL,
			want: [6]float32{10, 0, 100, 80, 0.25, 0.75},
		},
		{
			name: "flipped y",
			vp:   hw.SFClipViewport{M00: 50, M11: -40, M30: 50, M31: 40, M22: 1},
			api:  hw.ClipAPID3D,
			want: [6]float32{0, 0, 100, 80, 0, 1},
		},
		{
			name: "unrestricted depth clamped",
			vp:   hw.SFClipViewport{M00: 8, M11: 8, M30: 8, M31: 8, M22: 4, M32: -1},
			api:  hw.ClipAPID3D,
			want: [6]float32{0, 0, 16, 16, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s hw.State
			s.Clip.APIMode = tt.api
			s.ViewportSFClip.Count = 1
			s.ViewportSFClip.Elem[0] = tt.vp

			enc, fp := newFakeEncoder()
			if err := enc.EncodeGroup(hw.GroupViewportSFClip, &s); err != nil {
				t.Fatalf("EncodeGroup() error = %v", err)
			}
			if len(fp.viewports) != 1 || fp.viewports[0] != tt.want {
				t.Errorf("SetViewport calls = %v, want [%v]", fp.viewports, tt.want)
			}
		})
	}
}

func TestEncoderViewportUnchanged(t *testing.T) {
	var s hw.State
	s.ViewportSFClip.Count = 1
	s.ViewportSFClip.Elem[0] = hw.SFClipViewport{M00: 1, M11: 1, M30: 1, M31: 1, M22: 1}

	enc, fp := newFakeEncoder()
	enc.EncodeGroup(hw.GroupViewportSFClip, &s)
	enc.EncodeGroup(hw.GroupViewportSFClip, &s)
	if len(fp.viewports) != 1 {
		t.Errorf("SetViewport called %d times for one viewport", len(fp.viewports))
	}

	// No viewports programmed: nothing to replay.
	enc, fp = newFakeEncoder()
	enc.EncodeGroup(hw.GroupViewportSFClip, &hw.State{})
	if len(fp.viewports) != 0 {
		t.Errorf("SetViewport calls = %v with an empty array", fp.viewports)
	}
}

func TestEncoderScissor(t *testing.T) {
	var s hw.State
	s.Scissor.Count = 1
	s.Scissor.Elem[0] = hw.ScissorRect{XMin: 10, YMin: 20, XMax: 109, YMax: 99}

	enc, fp := newFakeEncoder()
	if err := enc.EncodeGroup(hw.GroupScissor, &s); err != nil {
		t.Fatalf("EncodeGroup() error = %v", err)
	}
	s.Scissor.Elem[0] = hw.ScissorRect{XMin: 1, YMin: 1}
	enc.EncodeGroup(hw.GroupScissor, &s)

	want := [][4]uint32{{10, 20, 100, 80}, {0, 0, 0, 0}}
	if len(fp.scissors) != 2 || fp.scissors[0] != want[0] || fp.scissors[1] != want[1] {
		t.Errorf("SetScissorRect calls = %v, want %v", fp.scissors, want)
	}
}

func TestEncoderBlendConstantAndStencil(t *testing.T) {
	var s hw.State
	s.CCState = hw.CCState{
		BlendConstantColorRed: 0.5, BlendConstantColorGreen: 0.25,
		BlendConstantColorBlue: 1, BlendConstantColorAlpha: 0.75,
	}
	s.DepthStencil.StencilReferenceValue = 0x7f

	enc, fp := newFakeEncoder()
	enc.EncodeGroup(hw.GroupCCState, &s)
	enc.EncodeGroup(hw.GroupWMDepthStencil, &s)

	want := gputypes.Color{R: 0.5, G: 0.25, B: 1, A: 0.75}
	if len(fp.blend) != 1 || fp.blend[0] != want {
		t.Errorf("SetBlendConstant calls = %v, want [%v]", fp.blend, want)
	}
	if len(fp.stencil) != 1 || fp.stencil[0] != 0x7f {
		t.Errorf("SetStencilReference calls = %v, want [127]", fp.stencil)
	}
}

func TestEncoderSkipsPipelineState(t *testing.T) {
	enc, fp := newFakeEncoder()
	var s hw.State
	for _, g := range []hw.Group{hw.GroupRaster, hw.GroupRaster, hw.GroupPS} {
		if err := enc.EncodeGroup(g, &s); err != nil {
			t.Fatalf("EncodeGroup(%s) error = %v", g, err)
		}
	}
	if enc.Skipped(hw.GroupRaster) != 2 || enc.Skipped(hw.GroupPS) != 1 {
		t.Errorf("Skipped = RASTER:%d PS:%d, want 2 and 1", enc.Skipped(hw.GroupRaster), enc.Skipped(hw.GroupPS))
	}
	if len(enc.Pass().Commands()) != 0 || len(fp.draws) != 0 {
		t.Error("pipeline state replayed as pass commands")
	}
}

func TestEncoderPrimitives(t *testing.T) {
	p := hw.Primitive3D{Topology: hw.PrimTriList, VertexCountPerInstance: 3, InstanceCount: 1, StartVertexLocation: 6}

	enc, fp := newFakeEncoder()
	enc.EncodePrimitive(p)
	if len(fp.draws) != 0 {
		t.Errorf("Draw replayed with Draws unset: %v", fp.draws)
	}

	enc.Draws = true
	enc.EncodePrimitive(p)
	if want := [4]uint32{3, 1, 6, 0}; len(fp.draws) != 1 || fp.draws[0] != want {
		t.Errorf("Draw calls = %v, want [%v]", fp.draws, want)
	}
	if enc.Primitives() != 2 {
		t.Errorf("Primitives() = %d, want 2", enc.Primitives())
	}

	enc.EncodeBarrier(hw.PipeCSStall)
	if enc.Barriers() != 1 {
		t.Errorf("Barriers() = %d, want 1", enc.Barriers())
	}
}

func TestEncoderNilPass(t *testing.T) {
	enc := NewEncoder(nil)
	if err := enc.EncodeGroup(hw.GroupScissor, &hw.State{}); !errors.Is(err, ErrNilPass) {
		t.Errorf("EncodeGroup() error = %v, want %v", err, ErrNilPass)
	}
	if err := enc.EncodeBarrier(hw.PipeCSStall); !errors.Is(err, ErrNilPass) {
		t.Errorf("EncodeBarrier() error = %v, want %v", err, ErrNilPass)
	}
	if err := enc.EncodePrimitive(hw.Primitive3D{}); !errors.Is(err, ErrNilPass) {
		t.Errorf("EncodePrimitive() error = %v, want %v", err, ErrNilPass)
	}
}

// ============================================================================
// Flush
// ============================================================================

func newTestCache() *hwstate.Cache {
	c := hwstate.New(hwstate.CapsGen12())
	c.BindPipeline(&hwstate.Pipeline{
		Name:                 "native",
		Stages:               hwstate.StageVertex | hwstate.StageFragment,
		Dynamic:              hwstate.AllDyn(),
		Static:               hwstate.DefaultDynamicState(),
		RasterizationSamples: 1,
	})
	c.BeginRendering(hwstate.RenderTargets{
		Area: hwstate.Rect2D{Width: 640, Height: 480},
		Color: []hwstate.Attachment{{
			Format: gputypes.TextureFormatRGBA8Unorm, Width: 640, Height: 480, BytesPerPixel: 4,
		}},
		Samples: 1,
	})
	c.SetViewports([]hwstate.Viewport{{X: 10, Width: 100, Height: 80, MaxDepth: 1}})
	c.SetScissors([]hwstate.Rect2D{{X: 10, Width: 100, Height: 80}})
	c.SetBlendConstants([4]float32{0.5, 0.5, 0.5, 1})
	return c
}

func TestEncoderFlush(t *testing.T) {
	c := newTestCache()
	enc, fp := newFakeEncoder()
	if err := c.Flush(enc, hwstate.FlushOptions{}); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if want := [6]float32{10, 0, 100, 80, 0, 1}; len(fp.viewports) != 1 || fp.viewports[0] != want {
		t.Errorf("SetViewport calls = %v, want [%v]", fp.viewports, want)
	}
	if want := [4]uint32{10, 0, 100, 80}; len(fp.scissors) != 1 || fp.scissors[0] != want {
		t.Errorf("SetScissorRect calls = %v, want [%v]", fp.scissors, want)
	}
	if want := (gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}); len(fp.blend) != 1 || fp.blend[0] != want {
		t.Errorf("SetBlendConstant calls = %v, want [%v]", fp.blend, want)
	}

	// A second flush with nothing changed replays nothing.
	before := len(enc.Pass().Commands())
	if err := c.Flush(enc, hwstate.FlushOptions{}); err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	if after := len(enc.Pass().Commands()); after != before {
		t.Errorf("second Flush() replayed %d commands", after-before)
	}
}

func TestEncoderFlushEndedPass(t *testing.T) {
	c := newTestCache()
	enc, _ := newFakeEncoder()
	enc.Pass().End()

	err := c.Flush(enc, hwstate.FlushOptions{})
	if !errors.Is(err, ErrPassEnded) {
		t.Fatalf("Flush() error = %v, want %v", err, ErrPassEnded)
	}
	if !c.Dirty().Has(hw.GroupScissor) {
		t.Error("SCISSOR not left dirty after a failed Flush")
	}
}

// ============================================================================
// Registration
// ============================================================================

func TestBackendRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendNative) {
		t.Fatal("native backend not registered")
	}
	b := backend.Get(backend.BackendNative)
	if _, err := b.NewEncoder(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("NewEncoder() before Init error = %v, want %v", err, ErrNotInitialized)
	}
	if err := b.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer b.Close()

	fp := &fakePass{}
	b.(*Backend).SetPass(fp)
	enc, err := b.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if err := newTestCache().Flush(enc, hwstate.FlushOptions{}); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(fp.viewports) == 0 {
		t.Error("registered backend did not reach the attached pass")
	}
}
