package hwstate

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// AuxUsage is the auxiliary surface configuration of an attachment.
type AuxUsage uint8

const (
	AuxNone AuxUsage = iota
	AuxCCS
	AuxMCS
	AuxMCSCCS
	AuxHiZ
	AuxHiZCCS
)

func (a AuxUsage) hasCCS() bool { return a == AuxCCS || a == AuxMCSCCS || a == AuxHiZCCS }
func (a AuxUsage) hasMCS() bool { return a == AuxMCS || a == AuxMCSCCS }
func (a AuxUsage) hasHiZ() bool { return a == AuxHiZ || a == AuxHiZCCS }

// Attachment describes one render target surface. An attachment with an
// undefined format is absent.
type Attachment struct {
	Format        gputypes.TextureFormat
	Width, Height uint32

	// BytesPerPixel is the footprint of the main surface.
	BytesPerPixel uint32

	Aux AuxUsage
	// AuxBytesPerPixel is the footprint of the MCS or HiZ surface.
	AuxBytesPerPixel uint32
}

// Present reports whether the attachment is bound.
func (a Attachment) Present() bool { return a.Format != gputypes.TextureFormatUndefined }

// RenderTargets is the attachment set of a rendering scope.
type RenderTargets struct {
	Area    Rect2D
	Color   []Attachment
	Depth   Attachment
	Stencil Attachment
	Samples uint32
}

// renderTargets is the cache's fixed-size copy of RenderTargets.
type renderTargets struct {
	area       Rect2D
	colorCount uint32
	color      [hw.MaxRTs]Attachment
	depth      Attachment
	stencil    Attachment
	samples    uint32
	hasUintRT  bool
}

// depthStencilAspects reports which of depth and stencil the bound
// attachments provide.
func (rt *renderTargets) depthStencilAspects() (depth, stencil bool) {
	depth = rt.depth.Present() && rt.depth.Format.HasDepth()
	stencil = (rt.stencil.Present() && rt.stencil.Format.HasStencil()) ||
		(rt.depth.Present() && rt.depth.Format.HasStencil())
	return depth, stencil
}

func (rt *renderTargets) hizEnabled() bool {
	return rt.depth.Present() && rt.depth.Aux.hasHiZ()
}

// BeginRendering installs a new attachment set. It panics with more than
// hw.MaxRTs color attachments.
func (c *Cache) BeginRendering(rt RenderTargets) {
	if len(rt.Color) > hw.MaxRTs {
		panic("hwstate: too many color attachments")
	}
	if c.rt.area != rt.Area {
		c.cmdDirty |= CmdRenderArea
	}
	c.rt = renderTargets{
		area:       rt.Area,
		colorCount: uint32(len(rt.Color)),
		depth:      rt.Depth,
		stencil:    rt.Stencil,
		samples:    max(rt.Samples, 1),
	}
	copy(c.rt.color[:], rt.Color)
	for _, a := range rt.Color {
		if isIntegerFormat(a.Format) {
			c.rt.hasUintRT = true
		}
	}
	c.cmdDirty |= CmdRenderTargets
}

// isIntegerFormat reports whether f is a UINT or SINT color format.
func isIntegerFormat(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatR8Uint, gputypes.TextureFormatR8Sint,
		gputypes.TextureFormatR16Uint, gputypes.TextureFormatR16Sint,
		gputypes.TextureFormatRG8Uint, gputypes.TextureFormatRG8Sint,
		gputypes.TextureFormatR32Uint, gputypes.TextureFormatR32Sint,
		gputypes.TextureFormatRG16Uint, gputypes.TextureFormatRG16Sint,
		gputypes.TextureFormatRGBA8Uint, gputypes.TextureFormatRGBA8Sint,
		gputypes.TextureFormatRGB10A2Uint,
		gputypes.TextureFormatRG32Uint, gputypes.TextureFormatRG32Sint,
		gputypes.TextureFormatRGBA16Uint, gputypes.TextureFormatRGBA16Sint,
		gputypes.TextureFormatRGBA32Uint, gputypes.TextureFormatRGBA32Sint:
		return true
	}
	return false
}
