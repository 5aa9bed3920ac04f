package batch

import (
	"honnef.co/go/safeish"

	"github.com/gogpu/hwstate/hw"
)

// Dynamic state alignment in the pool, in bytes.
const (
	viewportAlign = 64
	tableAlign    = 32
)

// pooled reports whether group g is written to the pool and referenced by a
// pointer packet rather than sent inline.
func pooled(g hw.Group) bool {
	switch g {
	case hw.GroupViewportSFClip, hw.GroupViewportCC, hw.GroupScissor,
		hw.GroupCCState, hw.GroupBlendState:
		return true
	}
	return false
}

// tableBytes returns the pool image of a pooled group and its alignment.
func tableBytes(g hw.Group, s *hw.State) ([]byte, uint32) {
	switch g {
	case hw.GroupViewportSFClip:
		return safeish.SliceCast[[]byte](s.ViewportSFClip.Elem[:s.ViewportSFClip.Count]), viewportAlign
	case hw.GroupViewportCC:
		return safeish.SliceCast[[]byte](s.ViewportCC.Elem[:s.ViewportCC.Count]), tableAlign
	case hw.GroupScissor:
		return safeish.SliceCast[[]byte](s.Scissor.Elem[:s.Scissor.Count]), tableAlign
	case hw.GroupCCState:
		return safeish.AsBytes(&s.CCState), viewportAlign
	case hw.GroupBlendState:
		b := &s.Blend
		out := []byte{flag(b.AlphaToCoverageEnable), flag(b.AlphaToOneEnable), flag(b.IndependentAlphaBlendEnable), 0}
		return append(out, safeish.SliceCast[[]byte](b.RTs[:])...), viewportAlign
	}
	panic("batch: " + g.String() + " is not dynamic state")
}

// inlineBytes returns the host-layout bytes of an inline record. A nil
// result is an empty packet.
func inlineBytes(rec any) []byte {
	switch r := rec.(type) {
	case hw.Baked:
		return safeish.AsBytes(&r)
	case hw.PrimitiveReplication:
		return safeish.AsBytes(&r)
	case hw.Clip:
		return safeish.AsBytes(&r)
	case hw.Streamout:
		return safeish.AsBytes(&r)
	case hw.VFTopology:
		return safeish.AsBytes(&r)
	case hw.VertexInput:
		return safeish.AsBytes(&r)
	case hw.TE:
		return safeish.AsBytes(&r)
	case hw.GS:
		return safeish.AsBytes(&r)
	case hw.CPS:
		return safeish.AsBytes(&r)
	case hw.SF:
		return safeish.AsBytes(&r)
	case hw.Raster:
		return safeish.AsBytes(&r)
	case hw.SampleMask:
		return safeish.AsBytes(&r)
	case hw.DepthStencil:
		return safeish.AsBytes(&r)
	case hw.DepthBounds:
		return safeish.AsBytes(&r)
	case hw.LineStipple:
		return safeish.AsBytes(&r)
	case hw.VF:
		return safeish.AsBytes(&r)
	case hw.IndexBuffer:
		return safeish.AsBytes(&r)
	case hw.VFG:
		return safeish.AsBytes(&r)
	case hw.SamplePattern:
		return safeish.AsBytes(&r)
	case hw.WM:
		return safeish.AsBytes(&r)
	case hw.PSBlend:
		return safeish.AsBytes(&r)
	case hw.DSWriteState:
		return safeish.AsBytes(&r)
	case hw.PMAFix:
		return safeish.AsBytes(&r)
	case hw.TBIMR:
		return safeish.AsBytes(&r)
	}
	return nil
}

func flag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
