package hwstate

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// dsState is the depth/stencil configuration after folding away tests and
// writes that cannot have an effect.
type dsState struct {
	depthTest, depthWrite bool
	depthCompare          gputypes.CompareFunction

	stencilTest, stencilWrite bool
	front, back               StencilFaceState
}

// optimizeStencilFace replaces ops that can never run with Keep and
// reports whether the face can still modify the stencil buffer.
func optimizeStencilFace(f *StencilFaceState, depthCompare gputypes.CompareFunction) bool {
	op := &f.Op
	if op.Compare == gputypes.CompareFunctionAlways {
		op.FailOp = gputypes.StencilOperationKeep
	}
	if op.Compare == gputypes.CompareFunctionNever || depthCompare == gputypes.CompareFunctionNever {
		op.PassOp = gputypes.StencilOperationKeep
	}
	if op.Compare == gputypes.CompareFunctionNever || depthCompare == gputypes.CompareFunctionAlways {
		op.DepthFailOp = gputypes.StencilOperationKeep
	}
	if f.WriteMask == 0 {
		op.PassOp = gputypes.StencilOperationKeep
		op.FailOp = gputypes.StencilOperationKeep
		op.DepthFailOp = gputypes.StencilOperationKeep
	}
	return op.FailOp != gputypes.StencilOperationKeep ||
		op.DepthFailOp != gputypes.StencilOperationKeep ||
		op.PassOp != gputypes.StencilOperationKeep
}

// optimizeDepthStencil resolves the logical depth/stencil state against the
// aspects the bound attachments provide.
func optimizeDepthStencil(ds *DepthStencilState, hasDepth, hasStencil bool) dsState {
	o := dsState{
		depthTest:    ds.DepthTestEnable && hasDepth,
		depthWrite:   ds.DepthWriteEnable,
		depthCompare: ds.DepthCompare,
		stencilTest:  ds.StencilTestEnable && hasStencil,
		stencilWrite: true,
		front:        ds.Front,
		back:         ds.Back,
	}

	if !o.depthTest {
		o.depthWrite = false
		o.depthCompare = gputypes.CompareFunctionAlways
	}
	if !o.stencilTest {
		o.stencilWrite = false
		o.front.Op.Compare = gputypes.CompareFunctionAlways
		o.back.Op.Compare = gputypes.CompareFunctionAlways
	}

	// A stencil test that always fails never reaches the depth test.
	if o.stencilTest &&
		o.front.Op.Compare == gputypes.CompareFunctionNever &&
		o.back.Op.Compare == gputypes.CompareFunctionNever {
		o.depthTest = false
		o.depthWrite = false
	}

	// EQUAL would write back the value already stored.
	if o.depthCompare == gputypes.CompareFunctionEqual {
		o.depthWrite = false
	}

	// The back face is only looked at once the front is known not to
	// write; a writing front face leaves the back ops as programmed.
	if !optimizeStencilFace(&o.front, o.depthCompare) &&
		!optimizeStencilFace(&o.back, o.depthCompare) {
		o.stencilWrite = false
	}

	if o.depthCompare == gputypes.CompareFunctionAlways && !o.depthWrite {
		o.depthTest = false
	}
	if o.front.Op.Compare == gputypes.CompareFunctionAlways &&
		o.back.Op.Compare == gputypes.CompareFunctionAlways &&
		!o.stencilWrite {
		o.stencilTest = false
	}
	return o
}

// wantStencilPMAFix reports whether the Gen9 stencil PMA optimization must
// be disabled for the current draw state.
func (c *Cache) wantStencilPMAFix(ds *dsState) bool {
	if !c.rt.hizEnabled() {
		return false
	}
	if !c.pipeline.Has(StageFragment) || c.pipeline.EarlyFragmentTests {
		return false
	}
	computedStencil := ds.stencilTest && c.pipeline.ComputedStencil
	if !computedStencil && !ds.stencilWrite {
		return false
	}
	killPixel := c.pipeline.KillPixel || c.dyn.MS.AlphaToCoverage
	return killPixel || c.pipeline.ComputedDepth
}

func (c *Cache) ruleDepthStencil() {
	pipelineDirty := c.caps.Gen == Gen9 && c.cmdDirty.Has(CmdPipeline)
	if !pipelineDirty && !c.changed(CmdRenderTargets,
		DynDSDepthTestEnable, DynDSDepthWriteEnable, DynDSDepthCompare,
		DynDSStencilTestEnable, DynDSStencilOp, DynDSStencilCompareMask,
		DynDSStencilWriteMask, DynDSStencilReference, DynMSAlphaToCoverage) {
		return
	}

	hasDepth, hasStencil := c.rt.depthStencilAspects()
	o := optimizeDepthStencil(&c.dyn.DS, hasDepth, hasStencil)

	const g = hw.GroupWMDepthStencil
	d := &c.hw.DepthStencil
	set(c, g, &d.DoubleSidedStencilEnable, true)

	set(c, g, &d.StencilTestMask, uint8(o.front.CompareMask&0xff))
	set(c, g, &d.StencilWriteMask, uint8(o.front.WriteMask&0xff))
	set(c, g, &d.BackfaceStencilTestMask, uint8(o.back.CompareMask&0xff))
	set(c, g, &d.BackfaceStencilWriteMask, uint8(o.back.WriteMask&0xff))
	set(c, g, &d.StencilReferenceValue, uint8(o.front.Reference&0xff))
	set(c, g, &d.BackfaceStencilReferenceValue, uint8(o.back.Reference&0xff))

	set(c, g, &d.DepthTestEnable, o.depthTest)
	set(c, g, &d.DepthBufferWriteEnable, o.depthWrite)
	set(c, g, &d.DepthTestFunction, hwCompareOp(o.depthCompare))

	set(c, g, &d.StencilTestEnable, o.stencilTest)
	set(c, g, &d.StencilBufferWriteEnable, o.stencilWrite)
	set(c, g, &d.StencilFailOp, hwStencilOp(o.front.Op.FailOp))
	set(c, g, &d.StencilPassDepthPassOp, hwStencilOp(o.front.Op.PassOp))
	set(c, g, &d.StencilPassDepthFailOp, hwStencilOp(o.front.Op.DepthFailOp))
	set(c, g, &d.StencilTestFunction, hwCompareOp(o.front.Op.Compare))
	set(c, g, &d.BackfaceStencilFailOp, hwStencilOp(o.back.Op.FailOp))
	set(c, g, &d.BackfaceStencilPassDepthPassOp, hwStencilOp(o.back.Op.PassOp))
	set(c, g, &d.BackfaceStencilPassDepthFailOp, hwStencilOp(o.back.Op.DepthFailOp))
	set(c, g, &d.BackfaceStencilTestFunction, hwCompareOp(o.back.Op.Compare))

	if c.caps.Gen == Gen9 {
		set(c, hw.GroupPMAFix, &c.hw.PMAFix.Enable, c.wantStencilPMAFix(&o))
	}

	if c.caps.AtLeast(Gen125) && c.caps.Has(Wa18019816803) {
		set(c, hw.GroupWA18019816803, &c.hw.DSWrite.Enabled, o.depthWrite || o.stencilWrite)
	}
}
