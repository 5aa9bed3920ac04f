package hwstate

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// ============================================================================
// Test helpers
// ============================================================================

var errOutOfSpace = errors.New("test: out of space")

type callKind uint8

const (
	callGroup callKind = iota
	callBarrier
	callPrimitive
)

type encCall struct {
	kind  callKind
	group hw.Group
	rec   any
	bits  hw.PipeBits
	prim  hw.Primitive3D
}

// recordingEncoder records every call and keeps the last record encoded per
// group, which is what the hardware would hold.
type recordingEncoder struct {
	calls  []encCall
	hwView map[hw.Group]any

	// failAt is the 1-based call number that fails; zero never fails.
	failAt int
	n      int
}

func (e *recordingEncoder) fail() bool {
	e.n++
	return e.failAt != 0 && e.n == e.failAt
}

func (e *recordingEncoder) EncodeGroup(g hw.Group, s *hw.State) error {
	if e.fail() {
		return errOutOfSpace
	}
	rec := s.Record(g)
	e.calls = append(e.calls, encCall{kind: callGroup, group: g, rec: rec})
	if e.hwView == nil {
		e.hwView = make(map[hw.Group]any)
	}
	e.hwView[g] = rec
	return nil
}

func (e *recordingEncoder) EncodeBarrier(bits hw.PipeBits) error {
	if e.fail() {
		return errOutOfSpace
	}
	e.calls = append(e.calls, encCall{kind: callBarrier, bits: bits})
	return nil
}

func (e *recordingEncoder) EncodePrimitive(p hw.Primitive3D) error {
	if e.fail() {
		return errOutOfSpace
	}
	e.calls = append(e.calls, encCall{kind: callPrimitive, prim: p})
	return nil
}

// groups returns the encoded groups in call order.
func (e *recordingEncoder) groups() []hw.Group {
	var out []hw.Group
	for _, c := range e.calls {
		if c.kind == callGroup {
			out = append(out, c.group)
		}
	}
	return out
}

func (e *recordingEncoder) encoded(g hw.Group) bool {
	for _, got := range e.groups() {
		if got == g {
			return true
		}
	}
	return false
}

func (e *recordingEncoder) reset() {
	e.calls = nil
	e.n = 0
}

func testPipeline() *Pipeline {
	return &Pipeline{
		Name:   "test",
		Stages: StageVertex | StageFragment,
		Packets: map[hw.Group][]byte{
			hw.GroupURB: {1, 2, 3, 4},
			hw.GroupVS:  {0x10},
			hw.GroupSBE: {0x20},
			hw.GroupPS:  {0x30},
		},
		Dynamic:              AllDyn(),
		Static:               DefaultDynamicState(),
		VertexElements:       2,
		VertexBindings:       1,
		RasterizationSamples: 1,
	}
}

func testTargets() RenderTargets {
	return RenderTargets{
		Area: Rect2D{Width: 1920, Height: 1080},
		Color: []Attachment{{
			Format: gputypes.TextureFormatRGBA8Unorm, Width: 1920, Height: 1080,
			BytesPerPixel: 4,
		}},
		Depth: Attachment{
			Format: gputypes.TextureFormatDepth24PlusStencil8, Width: 1920, Height: 1080,
			BytesPerPixel: 4,
		},
		Samples: 1,
	}
}

func testViewports(n int) []Viewport {
	vps := make([]Viewport, n)
	for i := range vps {
		vps[i] = Viewport{X: float32(i * 100), Y: 0, Width: 100, Height: 100, MaxDepth: 1}
	}
	return vps
}

func testScissors(n int) []Rect2D {
	rs := make([]Rect2D, n)
	for i := range rs {
		rs[i] = Rect2D{X: int32(i * 100), Width: 100, Height: 100}
	}
	return rs
}

// newFlushedCache returns a cache with the test pipeline and targets bound
// and everything emitted.
func newFlushedCache(t *testing.T, caps Caps, opts ...CacheOption) *Cache {
	t.Helper()
	c := New(caps, opts...)
	c.BindPipeline(testPipeline())
	c.BeginRendering(testTargets())
	c.SetViewports(testViewports(1))
	c.SetScissors(testScissors(1))
	if err := c.Flush(&recordingEncoder{}, FlushOptions{}); err != nil {
		t.Fatalf("initial Flush() = %v", err)
	}
	return c
}

func flush(t *testing.T, c *Cache) *recordingEncoder {
	t.Helper()
	enc := &recordingEncoder{}
	if err := c.Flush(enc, FlushOptions{}); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	return enc
}

func update(t *testing.T, c *Cache) hw.GroupSet {
	t.Helper()
	if err := c.Update(); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	return c.Dirty()
}

func assertPanics(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}

// ============================================================================
// Construction and reset
// ============================================================================

func TestNewStartsFullyDirty(t *testing.T) {
	c := New(CapsGen12())
	if c.Dirty() != hw.AllGroups() {
		t.Errorf("Dirty() = %v, want all groups", c.Dirty())
	}
	if c.Pipeline() != nil {
		t.Error("Pipeline() != nil on a new cache")
	}
	if c.WorkaroundPhase() != PhaseSteady {
		t.Errorf("WorkaroundPhase() = %v, want %v", c.WorkaroundPhase(), PhaseSteady)
	}
	if c.Caps().Gen != Gen12 {
		t.Errorf("Caps().Gen = %v, want %v", c.Caps().Gen, Gen12)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := newFlushedCache(t, CapsGen12())
	c.SetCullMode(gputypes.CullModeBack)
	c.Reset()

	if c.Dirty() != hw.AllGroups() {
		t.Errorf("Dirty() after Reset = %v, want all groups", c.Dirty())
	}
	if c.Pipeline() != nil {
		t.Error("Pipeline() != nil after Reset")
	}
	if got := c.Dynamic(); !reflect.DeepEqual(got, DefaultDynamicState()) {
		t.Error("Dynamic() after Reset differs from DefaultDynamicState()")
	}
	if got := c.State(); !reflect.DeepEqual(got, hw.State{}) {
		t.Error("State() after Reset is not the zero record store")
	}
}

func TestFlushErrors(t *testing.T) {
	c := New(CapsGen12())
	if err := c.Flush(nil, FlushOptions{}); !errors.Is(err, ErrNilEncoder) {
		t.Errorf("Flush(nil) = %v, want %v", err, ErrNilEncoder)
	}
	if err := c.Flush(&recordingEncoder{}, FlushOptions{}); !errors.Is(err, ErrNoPipeline) {
		t.Errorf("Flush() without pipeline = %v, want %v", err, ErrNoPipeline)
	}
}

func TestBindPipelineNilPanics(t *testing.T) {
	c := New(CapsGen12())
	assertPanics(t, "BindPipeline(nil)", func() { c.BindPipeline(nil) })
}

func TestBindPipelineCopiesStaticState(t *testing.T) {
	c := newFlushedCache(t, CapsGen12())

	p := testPipeline()
	p.Dynamic = AllDyn() &^ DynOf(DynRSCullMode)
	p.Static.RS.CullMode = gputypes.CullModeBack
	c.BindPipeline(p)

	if got := c.Dynamic().RS.CullMode; got != gputypes.CullModeBack {
		t.Errorf("CullMode after bind = %v, want %v", got, gputypes.CullModeBack)
	}
	update(t, c)
	if got := c.State().Raster.CullMode; got != hw.CullBack {
		t.Errorf("Raster.CullMode = %v, want %v", got, hw.CullBack)
	}
}

func TestBindPipelineBakedGroups(t *testing.T) {
	c := newFlushedCache(t, CapsGen12())

	p := testPipeline()
	p.Packets[hw.GroupPS] = []byte{0x31}
	c.BindPipeline(p)

	dirty := c.Dirty()
	if !dirty.Has(hw.GroupPS) {
		t.Error("PS not dirty after binding a pipeline with a different PS packet")
	}
	if dirty.Has(hw.GroupVS) || dirty.Has(hw.GroupURB) {
		t.Errorf("Dirty() = %v, want identical packets to stay clean", dirty)
	}

	// Rebinding the same pointer is a no-op.
	c.BindPipeline(p)
	enc := flush(t, c)
	c.BindPipeline(p)
	enc.reset()
	if err := c.Flush(enc, FlushOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(enc.calls) != 0 {
		t.Errorf("rebinding the active pipeline emitted %v", enc.groups())
	}
}

// ============================================================================
// Testable properties
// ============================================================================

func TestPostPassClean(t *testing.T) {
	for _, caps := range []Caps{CapsGen9(), CapsGen11(), CapsGen12(), CapsGen125()} {
		t.Run(caps.Gen.String(), func(t *testing.T) {
			c := newFlushedCache(t, caps)
			if !c.Dirty().Empty() {
				t.Errorf("Dirty() after Flush = %v, want empty", c.Dirty())
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	c := newFlushedCache(t, CapsGen125())

	// Re-applying the current values changes nothing.
	d := c.Dynamic()
	c.SetCullMode(d.RS.CullMode)
	c.SetBlendConstants(d.CB.BlendConstants)
	c.SetViewports(d.VP.Viewports[:d.VP.ViewportCount])
	c.SetScissors(d.VP.Scissors[:d.VP.ScissorCount])
	c.SetLineWidth(d.RS.LineWidth)
	c.SetDepthCompare(d.DS.DepthCompare)

	enc := flush(t, c)
	if len(enc.calls) != 0 {
		t.Errorf("second Flush emitted %v, want nothing", enc.groups())
	}
}

func TestDiffMinimality(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Cache)
		want   hw.GroupSet
	}{
		{"blend constants", func(c *Cache) { c.SetBlendConstants([4]float32{0.5, 0.5, 0.5, 1}) },
			hw.SetOf(hw.GroupCCState)},
		{"cull mode", func(c *Cache) { c.SetCullMode(gputypes.CullModeBack) },
			hw.SetOf(hw.GroupRaster)},
		{"line width", func(c *Cache) { c.SetLineWidth(2) },
			hw.SetOf(hw.GroupSF)},
		{"sample mask", func(c *Cache) { c.SetSampleMask(0xf) },
			hw.SetOf(hw.GroupSampleMask)},
		{"stencil reference", func(c *Cache) { c.SetStencilReference(FaceFrontAndBack, 3) },
			hw.SetOf(hw.GroupWMDepthStencil)},
		{"depth bounds while disabled", func(c *Cache) { c.SetDepthBounds(0.2, 0.8) },
			0},
		{"color write mask", func(c *Cache) { c.SetColorWriteMask(0, gputypes.ColorWriteMaskRed) },
			hw.SetOf(hw.GroupBlendState)},
		// Lines leave the fill-mode rasterization path.
		{"topology", func(c *Cache) { c.SetPrimitiveTopology(gputypes.PrimitiveTopologyLineList) },
			hw.SetOf(hw.GroupClip, hw.GroupVFTopology, hw.GroupRaster)},
		{"primitive restart", func(c *Cache) { c.SetPrimitiveRestart(true) },
			hw.SetOf(hw.GroupVF)},
		{"index buffer", func(c *Cache) { c.BindIndexBuffer(0x1000, 0, 256, gputypes.IndexFormatUint32) },
			hw.SetOf(hw.GroupIndexBuffer)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFlushedCache(t, CapsGen12())
			tt.mutate(c)
			if got := update(t, c); got != tt.want {
				t.Errorf("Dirty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArrayGrowLaw(t *testing.T) {
	c := newFlushedCache(t, CapsGen12())

	c.SetViewports(testViewports(4))
	if !update(t, c).Has(hw.GroupViewportSFClip) {
		t.Fatal("growing 1 -> 4 did not dirty VIEWPORT_SF_CLIP")
	}
	flush(t, c)

	c.SetViewports(testViewports(2))
	dirty := update(t, c)
	if dirty.Has(hw.GroupViewportSFClip) || dirty.Has(hw.GroupViewportCC) {
		t.Errorf("shrinking 4 -> 2 dirtied %v", dirty)
	}
	if got := c.State().ViewportSFClip.Count; got != 4 {
		t.Errorf("stored count after shrink = %d, want 4", got)
	}
	flush(t, c)

	c.SetViewports(testViewports(5))
	if !update(t, c).Has(hw.GroupViewportSFClip) {
		t.Error("growing 2 -> 5 did not dirty VIEWPORT_SF_CLIP")
	}
	flush(t, c)

	// A changed element while shrinking re-emits with the smaller count.
	vps := testViewports(2)
	vps[0].Width = 50
	c.SetViewports(vps)
	if !update(t, c).Has(hw.GroupViewportSFClip) {
		t.Error("changed element did not dirty VIEWPORT_SF_CLIP")
	}
	if got := c.State().ViewportSFClip.Count; got != 2 {
		t.Errorf("stored count = %d, want 2", got)
	}
}

func TestScenario(t *testing.T) {
	c := New(CapsGen12())
	c.BeginRendering(testTargets())
	c.SetViewports(testViewports(4))
	c.SetScissors(testScissors(4))
	c.BindPipeline(testPipeline())
	enc := flush(t, c)
	if !enc.encoded(hw.GroupRaster) || !enc.encoded(hw.GroupBlendState) {
		t.Fatalf("first pass emitted %v, want RASTER and BLEND_STATE", enc.groups())
	}
	if !c.Dirty().Empty() {
		t.Fatalf("Dirty() = %v after pass", c.Dirty())
	}

	c.SetBlendConstants(c.Dynamic().CB.BlendConstants)
	if enc := flush(t, c); len(enc.calls) != 0 {
		t.Errorf("identical blend constant emitted %v", enc.groups())
	}

	c.SetViewports(testViewports(2))
	if enc := flush(t, c); enc.encoded(hw.GroupViewportSFClip) {
		t.Errorf("viewport count 4 -> 2 re-emitted VIEWPORT_SF_CLIP: %v", enc.groups())
	}

	c.SetViewports(testViewports(5))
	if enc := flush(t, c); !enc.encoded(hw.GroupViewportSFClip) {
		t.Errorf("viewport count 2 -> 5 did not re-emit VIEWPORT_SF_CLIP: %v", enc.groups())
	}
}

func TestFailureKeepsRemainderDirty(t *testing.T) {
	ref := New(CapsGen12())
	ref.BindPipeline(testPipeline())
	refEnc := flush(t, ref)
	order := refEnc.groups()

	c := New(CapsGen12())
	c.BindPipeline(testPipeline())
	enc := &recordingEncoder{failAt: 3}
	err := c.Flush(enc, FlushOptions{})
	if !errors.Is(err, errOutOfSpace) {
		t.Fatalf("Flush() = %v, want %v", err, errOutOfSpace)
	}

	for _, g := range order[:2] {
		if c.Dirty().Has(g) {
			t.Errorf("%s still dirty after being emitted", g)
		}
	}
	for _, g := range order[2:] {
		if !c.Dirty().Has(g) {
			t.Errorf("%s not dirty after failed pass", g)
		}
	}

	retry := flush(t, c)
	if got := retry.groups(); !reflect.DeepEqual(got, order[2:]) {
		t.Errorf("retry emitted %v, want %v", got, order[2:])
	}
}

func TestForceDirty(t *testing.T) {
	c := newFlushedCache(t, CapsGen12())
	enc := &recordingEncoder{}
	if err := c.Flush(enc, FlushOptions{ForceDirty: hw.SetOf(hw.GroupRaster)}); err != nil {
		t.Fatal(err)
	}
	if got := enc.groups(); !reflect.DeepEqual(got, []hw.Group{hw.GroupRaster}) {
		t.Errorf("forced pass emitted %v, want [RASTER]", got)
	}

	// ForceDirty applies to one pass only.
	if enc := flush(t, c); len(enc.calls) != 0 {
		t.Errorf("next pass emitted %v, want nothing", enc.groups())
	}
}

func TestWithForceReemit(t *testing.T) {
	c := newFlushedCache(t, CapsGen12(), WithForceReemit(hw.SetOf(hw.GroupSF)))
	for range 2 {
		if enc := flush(t, c); !enc.encoded(hw.GroupSF) {
			t.Errorf("pass emitted %v, want SF every time", enc.groups())
		}
	}
}

// TestRandomSequences drives random setter sequences and checks that every
// pass leaves the dirty set empty and that an immediate second pass emits
// nothing.
func TestRandomSequences(t *testing.T) {
	topologies := []gputypes.PrimitiveTopology{
		gputypes.PrimitiveTopologyTriangleList, gputypes.PrimitiveTopologyTriangleStrip,
		gputypes.PrimitiveTopologyLineList, gputypes.PrimitiveTopologyPointList,
	}
	compares := []gputypes.CompareFunction{
		gputypes.CompareFunctionLess, gputypes.CompareFunctionAlways,
		gputypes.CompareFunctionEqual, gputypes.CompareFunctionNever,
	}
	mutators := []func(c *Cache, r *rand.Rand){
		func(c *Cache, r *rand.Rand) { c.SetCullMode(gputypes.CullMode(r.IntN(3))) },
		func(c *Cache, r *rand.Rand) { c.SetFrontFace(gputypes.FrontFace(r.IntN(2))) },
		func(c *Cache, r *rand.Rand) { c.SetPolygonMode(PolygonMode(r.IntN(3))) },
		func(c *Cache, r *rand.Rand) { c.SetPrimitiveTopology(topologies[r.IntN(len(topologies))]) },
		func(c *Cache, r *rand.Rand) { c.SetLineWidth([]float32{1, 1.5, 2}[r.IntN(3)]) },
		func(c *Cache, r *rand.Rand) { c.SetViewports(testViewports(1 + r.IntN(6))) },
		func(c *Cache, r *rand.Rand) { c.SetScissors(testScissors(1 + r.IntN(6))) },
		func(c *Cache, r *rand.Rand) { c.SetDepthClamp(r.IntN(2) == 0) },
		func(c *Cache, r *rand.Rand) { c.SetDepthTestEnable(r.IntN(2) == 0) },
		func(c *Cache, r *rand.Rand) { c.SetDepthWriteEnable(r.IntN(2) == 0) },
		func(c *Cache, r *rand.Rand) { c.SetDepthCompare(compares[r.IntN(len(compares))]) },
		func(c *Cache, r *rand.Rand) { c.SetStencilTestEnable(r.IntN(2) == 0) },
		func(c *Cache, r *rand.Rand) { c.SetStencilWriteMask(FaceFrontAndBack, uint32(r.IntN(2))*0xff) },
		func(c *Cache, r *rand.Rand) { c.SetColorWriteEnables(uint8(r.IntN(2))) },
		func(c *Cache, r *rand.Rand) { c.SetSampleMask(uint32(r.IntN(16))) },
		func(c *Cache, r *rand.Rand) {
			v := []float32{0, 0.5, 1}[r.IntN(3)]
			c.SetBlendConstants([4]float32{v, v, v, v})
		},
		func(c *Cache, r *rand.Rand) { c.SetColorBlendEnable(0, r.IntN(2) == 0) },
		func(c *Cache, r *rand.Rand) { c.SetDepthClipNegativeOneToOne(r.IntN(2) == 0) },
		func(c *Cache, r *rand.Rand) { c.SetProvokingVertex(ProvokingVertex(r.IntN(2))) },
	}

	for _, caps := range []Caps{CapsGen9(), CapsGen11(), CapsGen12(), CapsGen125()} {
		t.Run(caps.Gen.String(), func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, uint64(caps.Gen)))
			c := newFlushedCache(t, caps)
			for range 200 {
				for range 1 + r.IntN(4) {
					mutators[r.IntN(len(mutators))](c, r)
				}
				flush(t, c)
				if !c.Dirty().Empty() {
					t.Fatalf("Dirty() after pass = %v", c.Dirty())
				}
				if enc := flush(t, c); len(enc.calls) != 0 {
					t.Fatalf("idle pass emitted %v", enc.groups())
				}
			}
		})
	}
}
