package hwstate

import (
	"fmt"

	"github.com/gogpu/hwstate/hw"
)

// Flush brings the command stream up to date: it runs the change
// propagation rules, applies the erratum workarounds the dirty set calls
// for and emits every dirty group to enc in emission order.
//
// On error the groups not yet emitted stay dirty; the command buffer enc
// writes into should be considered lost.
func (c *Cache) Flush(enc Encoder, opts FlushOptions) error {
	if enc == nil {
		return ErrNilEncoder
	}
	if err := c.Update(); err != nil {
		return err
	}
	c.dirty |= opts.ForceDirty | c.opts.forceReemit

	// SOL must be re-sent around a SO_DECL_LIST change.
	if c.caps.Has(Wa16011773973) && c.pipeline.UsesXFB && c.dirty.Has(hw.GroupSODeclList) {
		c.dirty.Set(hw.GroupStreamout)
	}
	// Gen11 latches the sample count from 3DSTATE_MULTISAMPLE on WM
	// programming.
	if c.caps.Gen == Gen11 && c.dirty.Has(hw.GroupWM) {
		c.dirty.Set(hw.GroupMultisample)
	}

	if c.caps.Has(Wa18020335297) && c.dirty.Has(hw.GroupViewportCC) && c.viewportSet {
		if err := c.viewportWorkaround(enc); err != nil {
			return err
		}
	}
	return c.emit(enc)
}

// emit is the emission pass.
func (c *Cache) emit(enc Encoder) error {
	n := 0
	for g := hw.Group(0); g < hw.GroupCount; g++ {
		if !c.dirty.Has(g) {
			continue
		}
		if err := c.emitGroup(enc, g); err != nil {
			err = fmt.Errorf("hwstate: emit %s: %w", g, err)
			c.log.Warn("hwstate: emission failed", "group", g.String(), "err", err)
			return err
		}
		c.dirty.Clear(g)
		n++
	}
	c.dirty = 0
	c.log.Debug("hwstate: emitted", "groups", n)
	return nil
}

// emitGroup serializes g together with the commands that must surround it.
func (c *Cache) emitGroup(enc Encoder, g hw.Group) error {
	if !c.caps.Supports(g) {
		return nil
	}

	switch g {
	case hw.GroupSODeclList:
		if c.caps.Has(Wa16011773973) && c.pipeline.UsesXFB {
			c.scratch.Streamout = hw.Streamout{}
			if err := enc.EncodeGroup(hw.GroupStreamout, &c.scratch); err != nil {
				return err
			}
		}
		if err := enc.EncodeGroup(g, &c.hw); err != nil {
			return err
		}
		if c.caps.AtLeast(Gen11) {
			return enc.EncodeBarrier(hw.PipeCSStall)
		}
		return nil

	case hw.GroupLineStipple:
		if err := enc.EncodeGroup(g, &c.hw); err != nil {
			return err
		}
		if c.caps.AtLeast(Gen11) {
			return enc.EncodeBarrier(hw.PipeCSStall)
		}
		return nil

	case hw.GroupCPS:
		if c.caps.AtLeast(Gen12) {
			if err := enc.EncodeBarrier(hw.PipePSSStallSync); err != nil {
				return err
			}
		}

	case hw.GroupViewportCC:
		if err := enc.EncodeGroup(g, &c.hw); err != nil {
			return err
		}
		c.viewportSet = true
		return nil

	case hw.GroupBlendState:
		if err := enc.EncodeGroup(g, &c.hw); err != nil {
			return err
		}
		c.dirty.Set(hw.GroupBlendStatePointers)
		return nil

	case hw.GroupWA18019816803:
		return enc.EncodeBarrier(hw.PipePSSStallSync)

	case hw.GroupPMAFix:
		return c.EnablePMAFix(enc, c.hw.PMAFix.Enable)

	case hw.GroupTBIMRTilePassInfo:
		if !c.hw.TBIMR.Use {
			return nil
		}
	}
	return enc.EncodeGroup(g, &c.hw)
}

// EnablePMAFix toggles the Gen9 stencil PMA optimization fix. The register
// write is fenced by the flushes the hardware requires on both sides;
// calling it with the current setting emits nothing. It is a no-op on
// other generations.
func (c *Cache) EnablePMAFix(enc Encoder, enable bool) error {
	if c.caps.Gen != Gen9 || c.pmaFix == enable {
		return nil
	}
	const flush = hw.PipeDepthCacheFlush | hw.PipeRenderTargetCacheFlush
	if err := enc.EncodeBarrier(flush | hw.PipeCSStall); err != nil {
		return err
	}
	c.scratch.PMAFix.Enable = enable
	if err := enc.EncodeGroup(hw.GroupPMAFix, &c.scratch); err != nil {
		return err
	}
	if err := enc.EncodeBarrier(flush | hw.PipeDepthStall); err != nil {
		return err
	}
	c.pmaFix = enable
	return nil
}
