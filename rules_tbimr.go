package hwstate

import (
	"errors"
	"math/bits"

	"github.com/gogpu/hwstate/hw"
	"github.com/gogpu/hwstate/tileplan"
)

// ccsRatio is the main surface to CCS size ratio.
const ccsRatio = 256

// attachmentPixelSize is the tile cache footprint of one pixel of a, its
// auxiliary surfaces included.
func attachmentPixelSize(a *Attachment) uint32 {
	if !a.Present() {
		return 0
	}
	n := a.BytesPerPixel
	if a.Aux.hasMCS() || a.Aux.hasHiZ() {
		n += a.AuxBytesPerPixel
	}
	if a.Aux.hasCCS() {
		n += (a.BytesPerPixel + ccsRatio - 1) / ccsRatio
	}
	return n
}

// pixelSize approximates the tile cache footprint of one pixel as the sum
// over every bound surface.
func (rt *renderTargets) pixelSize() uint32 {
	var n uint32
	for i := range rt.colorCount {
		n += attachmentPixelSize(&rt.color[i])
	}
	n += attachmentPixelSize(&rt.depth)
	if rt.stencil != rt.depth {
		n += attachmentPixelSize(&rt.stencil)
	}
	return n
}

// framebufferSize is the extent covering the render area and every bound
// attachment.
func (rt *renderTargets) framebufferSize() (w, h uint32) {
	w = uint32(max(int64(rt.area.X)+int64(rt.area.Width), 0))
	h = uint32(max(int64(rt.area.Y)+int64(rt.area.Height), 0))
	grow := func(a *Attachment) {
		if a.Present() {
			w = max(w, a.Width)
			h = max(h, a.Height)
		}
	}
	for i := range rt.colorCount {
		grow(&rt.color[i])
	}
	grow(&rt.depth)
	grow(&rt.stencil)
	return w, h
}

// tbimrBatchSize encodes a batch of 128 polygons per slice.
func tbimrBatchSize(slices uint32) uint32 {
	n := (max(slices, 1) + 1) / 2 * 256
	return uint32(bits.Len32(n)-1) - 5
}

func (c *Cache) ruleTBIMR() {
	if !c.caps.AtLeast(Gen125) || !c.caps.TBIMR || !c.cmdDirty.Has(CmdRenderTargets) {
		return
	}
	fbw, fbh := c.rt.framebufferSize()
	plan, err := tileplan.Calculate(tileplan.Params{
		Width:           fbw,
		Height:          fbh,
		BlockWidth:      c.caps.HashingBlockWidth,
		BlockHeight:     c.caps.HashingBlockHeight,
		TargetFootprint: c.caps.TileCacheSize,
		PixelSize:       c.rt.pixelSize(),
		MaxHorizTiles:   tileplan.DefaultMaxTiles,
		MaxVertTiles:    tileplan.DefaultMaxTiles,
	})
	if err != nil {
		if !errors.Is(err, tileplan.ErrNoFootprint) && !errors.Is(err, tileplan.ErrEmptyFramebuffer) {
			panic(err)
		}
		c.log.Debug("hwstate: tbimr skipped", "err", err)
		set(c, hw.GroupTBIMRTilePassInfo, &c.hw.TBIMR.Use, false)
		return
	}

	// Tile passes only pay off when the framebuffer spans several tiles.
	if plan.TileWidth >= fbw && plan.TileHeight >= fbh {
		set(c, hw.GroupTBIMRTilePassInfo, &c.hw.TBIMR.Use, false)
		return
	}

	const g = hw.GroupTBIMRTilePassInfo
	t := &c.hw.TBIMR
	set(c, g, &t.TileRectangleHeight, plan.TileHeight)
	set(c, g, &t.TileRectangleWidth, plan.TileWidth)
	set(c, g, &t.VerticalTileCount, plan.VerticalCount)
	set(c, g, &t.HorizontalTileCount, plan.HorizontalCount)
	set(c, g, &t.BatchSize, tbimrBatchSize(c.caps.Slices))
	set(c, g, &t.TileBoxCheck, true)
	set(c, g, &t.Use, true)
	c.log.Debug("hwstate: tbimr enabled", "plan", plan.String())
}
