package hwstate

import (
	"math"

	"github.com/gogpu/hwstate/guardband"
	"github.com/gogpu/hwstate/hw"
)

// fbSizeMax is the largest framebuffer extent; a clip rectangle at least
// this large yields the default guardband.
const fbSizeMax = 1 << 14

// scissorMax is the largest coordinate a scissor rectangle can hold.
const scissorMax = 0xffff

// emptyScissor is the canonical rectangle that rejects every pixel.
var emptyScissor = hw.ScissorRect{YMin: 1, XMin: 1, YMax: 0, XMax: 0}

// sfClipViewport builds the SF/clip element of viewport i.
func (c *Cache) sfClipViewport(i uint32) hw.SFClipViewport {
	vp := &c.dyn.VP.Viewports[i]
	negOne := c.dyn.VP.NegativeOneToOne
	scale := float32(1)
	if negOne {
		scale = 0.5
	}

	e := hw.SFClipViewport{
		M00: vp.Width / 2,
		M11: vp.Height / 2,
		M22: (vp.MaxDepth - vp.MinDepth) * scale,
		M30: vp.X + vp.Width/2,
		M31: vp.Y + vp.Height/2,
		M32: vp.MinDepth,

		XMinViewport: vp.X,
		XMaxViewport: vp.X + vp.Width - 1,
		YMinViewport: min(vp.Y, vp.Y+vp.Height),
		YMaxViewport: max(vp.Y, vp.Y+vp.Height) - 1,
	}
	if negOne {
		e.M32 = (vp.MinDepth + vp.MaxDepth) * scale
	}
	if rate := c.opts.lowerDepthRangeRate; rate != 1 {
		e.M32 *= rate
	}

	gb := guardband.Default()
	r := guardband.Rect{XMax: fbSizeMax, YMax: fbSizeMax}
	area := c.rt.area
	if area.Width > 0 && area.Height > 0 {
		narrowRect(&r, area)
	}
	if i < c.dyn.VP.ScissorCount {
		narrowRect(&r, c.dyn.VP.Scissors[i])
	}
	// With no known bound below the maximum the result would be [-1, 1]
	// anyway, with less precision.
	if r.XMin > 0 || r.XMax < fbSizeMax || r.YMin > 0 || r.YMax < fbSizeMax {
		gb = guardband.Calculate(r, guardband.Transform{
			M00: e.M00, M11: e.M11, M30: e.M30, M31: e.M31,
		}, c.caps.GuardbandSize)
	}
	e.XMinClipGuardband = gb.XMin
	e.XMaxClipGuardband = gb.XMax
	e.YMinClipGuardband = gb.YMin
	e.YMaxClipGuardband = gb.YMax
	return e
}

// narrowRect intersects r with rect, treating negative offsets as zero.
func narrowRect(r *guardband.Rect, rect Rect2D) {
	x := int64(rect.X)
	y := int64(rect.Y)
	r.XMin = uint32(max(int64(r.XMin), x))
	r.XMax = uint32(max(min(int64(r.XMax), x+int64(rect.Width)), 0))
	r.YMin = uint32(max(int64(r.YMin), y))
	r.YMax = uint32(max(min(int64(r.YMax), y+int64(rect.Height)), 0))
}

// ccViewport returns the depth range element of viewport i.
func (c *Cache) ccViewport(i uint32) hw.CCViewport {
	lo, hi := float32(0), float32(1)
	if c.caps.DepthRangeUnrestricted {
		lo, hi = -math.MaxFloat32, math.MaxFloat32
	}
	if c.dyn.RS.DepthClampEnable {
		vp := &c.dyn.VP.Viewports[i]
		lo = min(vp.MinDepth, vp.MaxDepth)
		hi = max(vp.MinDepth, vp.MaxDepth)
	}
	return hw.CCViewport{MinimumDepth: lo, MaximumDepth: hi}
}

func (c *Cache) ruleViewports() {
	if !c.changed(CmdRenderArea, DynVPViewports, DynVPScissors,
		DynRSDepthClamp, DynVPNegativeOneToOne) {
		return
	}
	count := c.dyn.VP.ViewportCount

	setArray(c, hw.GroupViewportSFClip, &c.hw.ViewportSFClip.Count, count, func(i uint32) {
		set(c, hw.GroupViewportSFClip, &c.hw.ViewportSFClip.Elem[i], c.sfClipViewport(i))
	})
	setArray(c, hw.GroupViewportCC, &c.hw.ViewportCC.Count, count, func(i uint32) {
		set(c, hw.GroupViewportCC, &c.hw.ViewportCC.Elem[i], c.ccViewport(i))
	})
	if count > 0 {
		set(c, hw.GroupClip, &c.hw.Clip.MaximumVPIndex, count-1)
	}
}

// scissorRect intersects scissor i with its viewport and, on primary
// command buffers, with the render area.
func (c *Cache) scissorRect(i uint32) hw.ScissorRect {
	s := &c.dyn.VP.Scissors[i]
	if s.Width == 0 || s.Height == 0 {
		return emptyScissor
	}
	vp := &c.dyn.VP.Viewports[i]

	sx, sy := int64(s.X), int64(s.Y)
	ymin := max(sy, int64(min(vp.Y, vp.Y+vp.Height)), 0)
	xmin := max(sx, int64(vp.X), 0)
	ymax := min(sy+int64(s.Height)-1, int64(max(vp.Y, vp.Y+vp.Height))-1)
	xmax := min(sx+int64(s.Width)-1, int64(vp.X+vp.Width)-1)

	ymax = clampInt(ymax, 0, math.MaxInt16>>1)
	xmax = clampInt(xmax, 0, math.MaxInt16>>1)

	area := c.rt.area
	if c.opts.primary && area.Width > 0 && area.Height > 0 {
		ax, ay := int64(area.X), int64(area.Y)
		ymin = clampInt(ymin, ay, scissorMax)
		xmin = clampInt(xmin, ax, scissorMax)
		ymax = clampInt(ymax, 0, ay+int64(area.Height)-1)
		xmax = clampInt(xmax, 0, ax+int64(area.Width)-1)
	}

	return hw.ScissorRect{
		YMin: uint32(ymin), XMin: uint32(xmin),
		YMax: uint32(ymax), XMax: uint32(xmax),
	}
}

func clampInt(v, lo, hi int64) int64 { return min(max(v, lo), hi) }

func (c *Cache) ruleScissors() {
	if !c.changed(CmdRenderArea, DynVPScissors, DynVPViewports) {
		return
	}
	setArray(c, hw.GroupScissor, &c.hw.Scissor.Count, c.dyn.VP.ScissorCount, func(i uint32) {
		set(c, hw.GroupScissor, &c.hw.Scissor.Elem[i], c.scissorRect(i))
	})
}
