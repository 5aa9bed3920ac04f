package native

import (
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/hw"
)

var _ hwstate.Encoder = (*Encoder)(nil)

// Encoder is an hwstate.Encoder that replays records onto a RenderPass.
// Only element 0 of the viewport and scissor arrays is replayed; a wgpu
// pass has a single viewport.
type Encoder struct {
	pass *RenderPass
	log  *slog.Logger

	// Draws enables replay of raw primitives. The cache only issues them
	// as corrective draws that CLIP state makes invisible, and wgpu cannot
	// express that state, so they are dropped unless asked for.
	Draws bool

	viewport     [6]float32
	haveViewport bool

	skipped    [hw.GroupCount]int
	barriers   int
	primitives int
}

// NewEncoder returns an encoder replaying onto pass.
func NewEncoder(pass *RenderPass) *Encoder {
	return &Encoder{pass: pass, log: hwstate.Logger()}
}

// Pass returns the render pass the encoder replays onto.
func (e *Encoder) Pass() *RenderPass { return e.pass }

// Skipped returns how many packets of group g had no render pass
// equivalent.
func (e *Encoder) Skipped(g hw.Group) int { return e.skipped[g] }

// Barriers returns the number of barriers dropped.
func (e *Encoder) Barriers() int { return e.barriers }

// Primitives returns the number of raw primitives seen, replayed or not.
func (e *Encoder) Primitives() int { return e.primitives }

// EncodeGroup replays the record of group g.
func (e *Encoder) EncodeGroup(g hw.Group, s *hw.State) error {
	if e.pass == nil {
		return ErrNilPass
	}
	switch g {
	case hw.GroupViewportSFClip:
		return e.replayViewport(s)

	case hw.GroupScissor:
		if s.Scissor.Count == 0 {
			return nil
		}
		r := s.Scissor.Elem[0]
		if r.XMax < r.XMin || r.YMax < r.YMin {
			return e.pass.SetScissorRect(0, 0, 0, 0)
		}
		return e.pass.SetScissorRect(r.XMin, r.YMin, r.XMax-r.XMin+1, r.YMax-r.YMin+1)

	case hw.GroupCCState:
		cc := &s.CCState
		return e.pass.SetBlendConstant(gputypes.Color{
			R: float64(cc.BlendConstantColorRed),
			G: float64(cc.BlendConstantColorGreen),
			B: float64(cc.BlendConstantColorBlue),
			A: float64(cc.BlendConstantColorAlpha),
		})

	case hw.GroupWMDepthStencil:
		return e.pass.SetStencilReference(uint32(s.DepthStencil.StencilReferenceValue))
	}

	e.skipped[g]++
	e.log.Debug("native: no render pass equivalent", "group", g)
	return nil
}

// replayViewport issues SetViewport from the SF/clip transform. The
// transform is x' = M00*x + M30, so the origin is M30 - M00. Depth is
// z' = M22*z + M32 over the clip-space depth range the CLIP API mode
// selects.
func (e *Encoder) replayViewport(s *hw.State) error {
	if s.ViewportSFClip.Count == 0 {
		return nil
	}
	vp := &s.ViewportSFClip.Elem[0]
	w := 2 * abs32(vp.M00)
	h := 2 * abs32(vp.M11)
	minZ, maxZ := vp.M32, vp.M32+vp.M22
	if s.Clip.APIMode == hw.ClipAPIOGL {
		minZ = vp.M32 - vp.M22
	}
	args := [6]float32{vp.M30 - w/2, vp.M31 - h/2, w, h, clamp01(minZ), clamp01(maxZ)}
	if e.haveViewport && args == e.viewport {
		return nil
	}
	if err := e.pass.SetViewport(args[0], args[1], args[2], args[3], args[4], args[5]); err != nil {
		return err
	}
	e.viewport, e.haveViewport = args, true
	return nil
}

// EncodeBarrier drops the barrier; wgpu inserts its own.
func (e *Encoder) EncodeBarrier(bits hw.PipeBits) error {
	if e.pass == nil {
		return ErrNilPass
	}
	e.barriers++
	return nil
}

// EncodePrimitive replays p as a Draw when Draws is set.
func (e *Encoder) EncodePrimitive(p hw.Primitive3D) error {
	if e.pass == nil {
		return ErrNilPass
	}
	e.primitives++
	if !e.Draws {
		return nil
	}
	return e.pass.Draw(p.VertexCountPerInstance, p.InstanceCount, p.StartVertexLocation, p.StartInstanceLocation)
}

func abs32(v float32) float32 { return float32(math.Abs(float64(v))) }

func clamp01(v float32) float32 { return min(max(v, 0), 1) }
