package hwstate

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

func isMinMax(op gputypes.BlendOperation) bool {
	return op == gputypes.BlendOperationMin || op == gputypes.BlendOperationMax
}

// blendFactors returns the hardware source and destination factors of one
// blend component. MIN and MAX ignore the factors but the hardware still
// applies them before the function, so they are forced to ONE.
func blendFactors(b gputypes.BlendComponent) (src, dst hw.BlendFactor) {
	if isMinMax(b.Operation) {
		return hw.BlendFactorOne, hw.BlendFactorOne
	}
	return hwBlendFactor(b.SrcFactor), hwBlendFactor(b.DstFactor)
}

func usesDualSource(b gputypes.BlendState) bool {
	return isDualSourceFactor(b.Color.SrcFactor) || isDualSourceFactor(b.Color.DstFactor) ||
		isDualSourceFactor(b.Alpha.SrcFactor) || isDualSourceFactor(b.Alpha.DstFactor)
}

func (c *Cache) ruleBlend() {
	if !c.changed(CmdPipeline|CmdRenderTargets,
		DynCBLogicOp, DynCBColorWriteEnables, DynCBLogicOpEnable,
		DynMSAlphaToOne, DynMSAlphaToCoverage, DynCBWriteMasks,
		DynCBBlendEnables, DynCBBlendEquations) {
		return
	}
	cb := &c.dyn.CB
	attMask := uint8(1)<<c.rt.colorCount - 1
	hasWriteableRT := c.pipeline.Has(StageFragment) && cb.ColorWriteEnables&attMask != 0

	const g = hw.GroupBlendState
	b := &c.hw.Blend
	set(c, g, &b.AlphaToCoverageEnable, c.dyn.MS.AlphaToCoverage)
	set(c, g, &b.AlphaToOneEnable, c.dyn.MS.AlphaToOne)

	zeroWA := c.caps.Has(Wa14018912822) && c.pipeline.RasterizationSamples > 1
	independentAlpha := false
	colorZero, alphaZero := false, false

	for i := range uint32(hw.MaxRTs) {
		att := &cb.Attachments[i]
		rt := &b.RTs[i]

		writeDisabled := i >= c.rt.colorCount || cb.ColorWriteEnables&(1<<i) == 0
		set(c, g, &rt.WriteDisableAlpha, writeDisabled || att.WriteMask&gputypes.ColorWriteMaskAlpha == 0)
		set(c, g, &rt.WriteDisableRed, writeDisabled || att.WriteMask&gputypes.ColorWriteMaskRed == 0)
		set(c, g, &rt.WriteDisableGreen, writeDisabled || att.WriteMask&gputypes.ColorWriteMaskGreen == 0)
		set(c, g, &rt.WriteDisableBlue, writeDisabled || att.WriteMask&gputypes.ColorWriteMaskBlue == 0)

		set(c, g, &rt.LogicOpFunction, hwLogicOp(cb.LogicOp))
		set(c, g, &rt.LogicOpEnable, cb.LogicOpEnable)

		set(c, g, &rt.ColorClampRange, hw.ColorClampRTFormat)
		set(c, g, &rt.PreBlendColorClampEnable, true)
		set(c, g, &rt.PostBlendColorClampEnable, true)

		set(c, g, &rt.ColorBlendFunction, hwBlendFunction(att.Blend.Color.Operation))
		set(c, g, &rt.AlphaBlendFunction, hwBlendFunction(att.Blend.Alpha.Operation))

		if att.Blend.Color != att.Blend.Alpha {
			independentAlpha = true
		}

		// Blending with a second source the shader does not write hangs
		// the hardware.
		if c.pipeline.Has(StageFragment) && !c.pipeline.DualSourceBlend && usesDualSource(att.Blend) {
			c.log.Debug("hwstate: dual-source blend factor without dual-source output, blending disabled",
				"pipeline", c.pipeline.Name, "rt", i)
			set(c, g, &rt.ColorBufferBlendEnable, false)
		} else {
			set(c, g, &rt.ColorBufferBlendEnable, !cb.LogicOpEnable && att.BlendEnable)
		}

		src, dst := blendFactors(att.Blend.Color)
		srcA, dstA := blendFactors(att.Blend.Alpha)

		// A ZERO destination factor misbehaves with multisampling; a
		// constant factor with a zero constant is equivalent.
		if zeroWA {
			if dst == hw.BlendFactorZero {
				dst = hw.BlendFactorConstColor
				colorZero = true
			}
			if dstA == hw.BlendFactorZero {
				dstA = hw.BlendFactorConstAlpha
				alphaZero = true
			}
		}

		set(c, g, &rt.SourceBlendFactor, src)
		set(c, g, &rt.DestinationBlendFactor, dst)
		set(c, g, &rt.SourceAlphaBlendFactor, srcA)
		set(c, g, &rt.DestinationAlphaBlendFactor, dstA)
	}

	// The constants depend on the zero rewrite.
	if colorZero != c.colorBlendZero || alphaZero != c.alphaBlendZero {
		c.dynDirty.Set(DynCBBlendConstants)
	}
	c.colorBlendZero = colorZero
	c.alphaBlendZero = alphaZero

	set(c, g, &b.IndependentAlphaBlendEnable, independentAlpha)

	rt0 := &b.RTs[0]
	ps := &c.hw.PSBlend
	const pg = hw.GroupPSBlend
	dstA := rt0.DestinationAlphaBlendFactor
	if alphaZero {
		dstA = hw.BlendFactorConstColor
	}
	dst := rt0.DestinationBlendFactor
	if colorZero {
		dst = hw.BlendFactorConstColor
	}
	set(c, pg, &ps.HasWriteableRT, hasWriteableRT)
	set(c, pg, &ps.ColorBufferBlendEnable, rt0.ColorBufferBlendEnable)
	set(c, pg, &ps.SourceAlphaBlendFactor, rt0.SourceAlphaBlendFactor)
	set(c, pg, &ps.DestinationAlphaBlendFactor, dstA)
	set(c, pg, &ps.SourceBlendFactor, rt0.SourceBlendFactor)
	set(c, pg, &ps.DestinationBlendFactor, dst)
	set(c, pg, &ps.AlphaTestEnable, false)
	set(c, pg, &ps.IndependentAlphaBlendEnable, independentAlpha)
	set(c, pg, &ps.AlphaToCoverageEnable, c.dyn.MS.AlphaToCoverage)
}

func (c *Cache) ruleBlendConstants() {
	if !c.dynDirty.Has(DynCBBlendConstants) {
		return
	}
	k := c.dyn.CB.BlendConstants
	if c.colorBlendZero {
		k[0], k[1], k[2] = 0, 0, 0
	}
	if c.alphaBlendZero {
		k[3] = 0
	}
	cc := &c.hw.CCState
	set(c, hw.GroupCCState, &cc.BlendConstantColorRed, k[0])
	set(c, hw.GroupCCState, &cc.BlendConstantColorGreen, k[1])
	set(c, hw.GroupCCState, &cc.BlendConstantColorBlue, k[2])
	set(c, hw.GroupCCState, &cc.BlendConstantColorAlpha, k[3])
}
