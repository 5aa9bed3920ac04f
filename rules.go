package hwstate

import (
	"fmt"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// rules are the change propagation rules in declaration order. Later rules
// may read record fields written by earlier ones in the same pass, so the
// order is fixed.
var rules = [...]func(*Cache){
	(*Cache).ruleStreamout,
	(*Cache).ruleTopology,
	(*Cache).ruleVertexInput,
	(*Cache).ruleCPS,
	(*Cache).ruleTessellation,
	(*Cache).ruleStripsAndFans,
	(*Cache).ruleClipAPIMode,
	(*Cache).ruleRaster,
	(*Cache).ruleSampleMask,
	(*Cache).ruleDepthStencil,
	(*Cache).ruleDepthBounds,
	(*Cache).ruleLineStipple,
	(*Cache).rulePrimitiveRestart,
	(*Cache).ruleSamplePattern,
	(*Cache).ruleForceThreadDispatch,
	(*Cache).ruleBlend,
	(*Cache).ruleBlendConstants,
	(*Cache).ruleViewports,
	(*Cache).ruleScissors,
	(*Cache).ruleTBIMR,
}

// Update runs the change propagation rules over the pending logical changes
// and consumes them. The record store and dirty set are updated; nothing
// is emitted.
func (c *Cache) Update() error {
	if c.pipeline == nil {
		return ErrNoPipeline
	}
	for _, r := range rules {
		r(c)
	}
	c.dynDirty = 0
	c.cmdDirty = 0
	return nil
}

// changed reports whether any of the command flags or logical fields
// changed since the last Update.
func (c *Cache) changed(cmd CmdDirty, bits ...DynBit) bool {
	return c.cmdDirty.Has(cmd) || c.dynDirty.Any(bits...)
}

// ============================================================================
// Geometry front end
// ============================================================================

// provokingSelects returns the strip/list and fan provoking vertex selects.
func provokingSelects(v ProvokingVertex) (triStrip, lineStrip, triFan uint8) {
	switch v {
	case ProvokingVertexFirst:
		return 0, 0, 1
	case ProvokingVertexLast:
		return 2, 1, 2
	}
	panic(fmt.Sprintf("hwstate: invalid provoking vertex mode %d", v))
}

func reorderMode(v ProvokingVertex) hw.ReorderMode {
	switch v {
	case ProvokingVertexFirst:
		return hw.ReorderLeading
	case ProvokingVertexLast:
		return hw.ReorderTrailing
	}
	panic(fmt.Sprintf("hwstate: invalid provoking vertex mode %d", v))
}

func (c *Cache) ruleStreamout() {
	if !c.changed(CmdPipeline|CmdXFBEnable|CmdOcclusionQueryActive,
		DynRSDiscard, DynRSStream, DynRSProvokingVertex) {
		return
	}
	so := &c.hw.Streamout
	set(c, hw.GroupStreamout, &so.RenderingDisable, c.dyn.RS.DiscardEnable)
	set(c, hw.GroupStreamout, &so.RenderStreamSelect, c.dyn.RS.Stream)

	// Without forced rendering the SO stage drops every primitive of a
	// pipeline with no depth/stencil test, which occlusion queries count.
	if c.caps.Has(Wa18022508906) {
		force := hw.ForceNormal
		if !so.RenderingDisable && c.occlusionQueries > 0 {
			force = hw.ForceOn
		}
		set(c, hw.GroupStreamout, &so.ForceRendering, force)
	}

	mode := reorderMode(c.dyn.RS.ProvokingVertex)
	set(c, hw.GroupStreamout, &so.ReorderMode, mode)
	setStage(c, hw.GroupGS, StageGeometry, &c.hw.GS.ReorderMode, mode)
}

func (c *Cache) ruleTopology() {
	if !c.changed(CmdPipeline, DynIATopology, DynTSPatchControlPoints) {
		return
	}
	var prim hw.Primitive
	if c.pipeline.Has(StageTessEval) {
		prim = hw.PrimPatchList(c.dyn.TS.PatchControlPoints)
	} else {
		prim = hwPrimitive(c.dyn.IA.Topology)
	}
	set(c, hw.GroupVFTopology, &c.hw.VFTopology.PrimitiveTopologyType, prim)
}

func (c *Cache) ruleVertexInput() {
	if !c.changed(CmdPipeline, DynVIBindingStrides) {
		return
	}
	vi := &c.hw.VertexInput
	set(c, hw.GroupVertexInput, &vi.ElementCount, c.pipeline.VertexElements)
	set(c, hw.GroupVertexInput, &vi.ValidBindings, c.pipeline.VertexBindings)
	set(c, hw.GroupVertexInput, &vi.Strides, c.dyn.VertexStrides)
}

// cpsStateStride is the size of one CPS_STATE array: one 8-byte entry per
// viewport.
const cpsStateStride = hw.MaxViewports * 8

func cpsSizeIndex(n uint32) uint32 {
	switch n {
	case 1:
		return 0
	case 2:
		return 1
	case 4:
		return 2
	}
	panic(fmt.Sprintf("hwstate: invalid fragment size %d", n))
}

// cpsStateOffset returns the offset of the CPS_STATE array matching fsr in
// the device's precomputed table. Offset zero is the disabled array.
func cpsStateOffset(gen Gen, enable bool, fsr FragmentShadingRate) uint32 {
	if !enable {
		return 0
	}
	off := 1 + cpsSizeIndex(fsr.Width)*3 + cpsSizeIndex(fsr.Height)
	if gen >= Gen125 {
		off += uint32(fsr.Combiners[0])*5*3*3 + uint32(fsr.Combiners[1])*3*3
	}
	return off * cpsStateStride
}

func (c *Cache) ruleCPS() {
	if !c.caps.FragmentShadingRate || !c.caps.AtLeast(Gen11) || !c.changed(CmdPipeline, DynFSR) {
		return
	}
	enable := c.pipeline.Has(StageFragment) && c.pipeline.CoarsePixelShading
	cps := &c.hw.CPS
	if c.caps.Gen == Gen11 {
		mode := hw.CPSModeNone
		if enable {
			mode = hw.CPSModeConstant
		}
		set(c, hw.GroupCPS, &cps.Mode, mode)
		set(c, hw.GroupCPS, &cps.MinSizeX, c.dyn.FSR.Width)
		set(c, hw.GroupCPS, &cps.MinSizeY, c.dyn.FSR.Height)
		return
	}
	set(c, hw.GroupCPS, &cps.StatePointer, cpsStateOffset(c.caps.Gen, enable, c.dyn.FSR))
}

func (c *Cache) ruleTessellation() {
	if !c.changed(CmdPipeline, DynTSDomainOrigin) {
		return
	}
	out := hw.TessOutputPoint
	if c.pipeline.Has(StageTessEval) {
		out = c.pipeline.TessOutput
		// The tessellator works lower-left; an upper-left domain flips
		// the winding.
		if c.dyn.TS.DomainOrigin == DomainOriginUpperLeft {
			switch out {
			case hw.TessOutputTriCCW:
				out = hw.TessOutputTriCW
			case hw.TessOutputTriCW:
				out = hw.TessOutputTriCCW
			}
		}
	}
	set(c, hw.GroupTE, &c.hw.TE.OutputTopology, out)
}

func (c *Cache) ruleStripsAndFans() {
	if c.dynDirty.Has(DynRSLineWidth) {
		set(c, hw.GroupSF, &c.hw.SF.LineWidth, c.dyn.RS.LineWidth)
	}

	if c.dynDirty.Has(DynRSProvokingVertex) {
		tri, line, fan := provokingSelects(c.dyn.RS.ProvokingVertex)
		set(c, hw.GroupSF, &c.hw.SF.TriangleStripListProvokingVertexSelect, tri)
		set(c, hw.GroupSF, &c.hw.SF.LineStripListProvokingVertexSelect, line)
		set(c, hw.GroupSF, &c.hw.SF.TriangleFanProvokingVertexSelect, fan)
		set(c, hw.GroupClip, &c.hw.Clip.TriangleStripListProvokingVertexSelect, tri)
		set(c, hw.GroupClip, &c.hw.Clip.LineStripListProvokingVertexSelect, line)
		set(c, hw.GroupClip, &c.hw.Clip.TriangleFanProvokingVertexSelect, fan)
	}

	// A float bias representation is the legacy r = 1 mode.
	if c.dynDirty.Has(DynRSDepthBiasFactors) {
		set(c, hw.GroupSF, &c.hw.SF.LegacyGlobalDepthBiasEnable,
			c.dyn.RS.DepthBias.Representation == DepthBiasFloat)
	}
}

func (c *Cache) ruleClipAPIMode() {
	if !c.dynDirty.Has(DynVPNegativeOneToOne) {
		return
	}
	mode := hw.ClipAPID3D
	if c.dyn.VP.NegativeOneToOne {
		mode = hw.ClipAPIOGL
	}
	set(c, hw.GroupClip, &c.hw.Clip.APIMode, mode)
}

// ============================================================================
// Rasterization
// ============================================================================

// resolveLineMode replaces LineModeDefault with the mode it stands for at
// the given sample count.
func resolveLineMode(m LineMode, samples uint32) LineMode {
	if m != LineModeDefault {
		return m
	}
	if samples > 1 {
		return LineModeRectangular
	}
	return LineModeBresenham
}

// rasterPolygonMode returns the polygon mode primitives effectively reach
// the rasterizer with: points and lines ignore the fill mode.
func rasterPolygonMode(p *Pipeline, mode PolygonMode, topology gputypes.PrimitiveTopology) PolygonMode {
	if p.Has(StageTessEval) && !p.Has(StageGeometry|StageMesh) {
		switch p.TessOutput {
		case hw.TessOutputPoint:
			return PolygonPoint
		case hw.TessOutputLine:
			return PolygonLine
		}
		return mode
	}
	if p.Has(StageGeometry | StageMesh) {
		topology = p.OutputTopology
	}
	switch topology {
	case gputypes.PrimitiveTopologyPointList:
		return PolygonPoint
	case gputypes.PrimitiveTopologyLineList, gputypes.PrimitiveTopologyLineStrip:
		return PolygonLine
	}
	return mode
}

// wideLineMSAAThreshold is the widest rectangular line Gen9 can draw with
// multisample rasterization and still match the expected line shape; wider
// lines fall back to parallelograms.
const wideLineMSAAThreshold = 1.0078125

// rasterizationMode derives the API mode and multisample rasterization
// enable.
func rasterizationMode(gen Gen, mode PolygonMode, line LineMode, width float32) (hw.RasterAPIMode, bool) {
	if mode != PolygonLine {
		return hw.RasterDX101, true
	}
	switch line {
	case LineModeRectangular:
		if gen <= Gen9 {
			return hw.RasterDX101, width < wideLineMSAAThreshold
		}
		return hw.RasterDX101, true
	case LineModeRectangularSmooth, LineModeBresenham:
		return hw.RasterDX9OGL, false
	}
	panic(fmt.Sprintf("hwstate: unsupported line rasterization mode %d", line))
}

func (c *Cache) ruleRaster() {
	if !c.changed(CmdPipeline|CmdRenderTargets,
		DynIATopology, DynRSCullMode, DynRSFrontFace,
		DynRSDepthBiasEnable, DynRSDepthBiasFactors, DynRSPolygonMode,
		DynRSLineMode, DynRSLineWidth, DynRSDepthClip, DynRSDepthClamp,
		DynRSConservativeMode) {
		return
	}
	rs := &c.dyn.RS
	line := resolveLineMode(rs.LineMode, c.pipeline.RasterizationSamples)
	mode := rasterPolygonMode(c.pipeline, rs.PolygonMode, c.dyn.IA.Topology)
	api, msaa := rasterizationMode(c.caps.Gen, mode, line, rs.LineWidth)

	// Antialiasing must be off with integer render targets, and on Gen12+
	// with more than one sample.
	aa := mode == PolygonLine && line == LineModeRectangularSmooth &&
		!c.rt.hasUintRT &&
		!(c.caps.AtLeast(Gen12) && c.rt.samples > 1)

	depthClip := rs.depthClipEnabled()

	set(c, hw.GroupClip, &c.hw.Clip.ClipEnable, true)
	set(c, hw.GroupClip, &c.hw.Clip.ViewportXYClipTestEnable, mode == PolygonFill)

	r := &c.hw.Raster
	set(c, hw.GroupRaster, &r.APIMode, api)
	set(c, hw.GroupRaster, &r.DXMultisampleRasterizationEnable, msaa)
	set(c, hw.GroupRaster, &r.AntialiasingEnable, aa)
	set(c, hw.GroupRaster, &r.CullMode, hwCullMode(rs.CullMode))
	set(c, hw.GroupRaster, &r.FrontWinding, hwWinding(rs.FrontFace))
	set(c, hw.GroupRaster, &r.GlobalDepthOffsetEnableSolid, rs.DepthBias.Enable)
	set(c, hw.GroupRaster, &r.GlobalDepthOffsetEnableWireframe, rs.DepthBias.Enable)
	set(c, hw.GroupRaster, &r.GlobalDepthOffsetEnablePoint, rs.DepthBias.Enable)
	set(c, hw.GroupRaster, &r.GlobalDepthOffsetConstant, rs.DepthBias.Constant)
	set(c, hw.GroupRaster, &r.GlobalDepthOffsetScale, rs.DepthBias.Slope)
	set(c, hw.GroupRaster, &r.GlobalDepthOffsetClamp, rs.DepthBias.Clamp)
	set(c, hw.GroupRaster, &r.FrontFaceFillMode, hwFillMode(rs.PolygonMode))
	set(c, hw.GroupRaster, &r.BackFaceFillMode, hwFillMode(rs.PolygonMode))
	set(c, hw.GroupRaster, &r.ViewportZFarClipTestEnable, depthClip)
	set(c, hw.GroupRaster, &r.ViewportZNearClipTestEnable, depthClip)
	set(c, hw.GroupRaster, &r.ConservativeRasterizationEnable, rs.ConservativeMode != ConservativeDisabled)
}

func (c *Cache) ruleSampleMask() {
	if !c.dynDirty.Has(DynMSSampleMask) {
		return
	}
	// The hardware mask is 16 bits wide.
	set(c, hw.GroupSampleMask, &c.hw.SampleMask.SampleMask, c.dyn.MS.SampleMask&0xffff)
}

// ============================================================================
// Depth bounds, stipple, vertex fetch
// ============================================================================

func (c *Cache) ruleDepthBounds() {
	if !c.caps.AtLeast(Gen12) || !c.dynDirty.Any(DynDSDepthBoundsEnable, DynDSDepthBounds) {
		return
	}
	db := &c.hw.DepthBounds
	set(c, hw.GroupDepthBounds, &db.Enable, c.dyn.DS.DepthBoundsEnable)
	// The bounds are only looked at while the test is enabled.
	if c.dyn.DS.DepthBoundsEnable {
		set(c, hw.GroupDepthBounds, &db.MinValue, c.dyn.DS.MinDepthBounds)
		set(c, hw.GroupDepthBounds, &db.MaxValue, c.dyn.DS.MaxDepthBounds)
	}
}

func (c *Cache) ruleLineStipple() {
	if !c.dynDirty.Any(DynRSLineStipple, DynRSLineStippleEnable) {
		return
	}
	st := &c.dyn.RS.LineStipple
	ls := &c.hw.LineStipple
	set(c, hw.GroupLineStipple, &ls.Pattern, uint32(st.Pattern))
	set(c, hw.GroupLineStipple, &ls.InverseRepeatCount, 1/float32(max(1, st.Factor)))
	set(c, hw.GroupLineStipple, &ls.RepeatCount, st.Factor)
	set(c, hw.GroupWM, &c.hw.WM.LineStippleEnable, st.Enable)
}

func (c *Cache) rulePrimitiveRestart() {
	vf := &c.hw.VF
	if c.changed(CmdRestartIndex, DynIAPrimitiveRestart) {
		set(c, hw.GroupVF, &vf.IndexedDrawCutIndexEnable, c.dyn.IA.PrimitiveRestart)
		set(c, hw.GroupVF, &vf.CutIndex, c.restartIndex)
		set(c, hw.GroupVF, &vf.GeometryDistributionEnable, c.caps.AtLeast(Gen125))
	}

	if c.cmdDirty.Has(CmdIndexBuffer) {
		set(c, hw.GroupIndexBuffer, &c.hw.IndexBuffer, c.indexBuffer)
	}

	if c.caps.AtLeast(Gen125) && c.dynDirty.Has(DynIAPrimitiveRestart) {
		set(c, hw.GroupVFG, &c.hw.VFG.ListCutIndexEnable, c.dyn.IA.PrimitiveRestart)
	}
}

// sampleCoord converts a sample position to 1/16 pixel units.
func sampleCoord(v float32) uint8 {
	return uint8(min(max(math.Floor(float64(v)*16), 0), 15))
}

func (c *Cache) ruleSamplePattern() {
	if !c.caps.SampleLocations || !c.dynDirty.Any(DynMSSampleLocations, DynMSSampleLocationsEnable) {
		return
	}
	ms := &c.dyn.MS
	var locs [32]uint8
	for i := uint32(0); i < ms.SampleCount; i++ {
		locs[2*i] = sampleCoord(ms.SampleLocations[i].X)
		locs[2*i+1] = sampleCoord(ms.SampleLocations[i].Y)
	}
	sp := &c.hw.SamplePattern
	set(c, hw.GroupSamplePattern, &sp.Enable, ms.SampleLocationsEnable)
	set(c, hw.GroupSamplePattern, &sp.Samples, ms.SampleCount)
	set(c, hw.GroupSamplePattern, &sp.Locations, locs)
}

// allColorWriteMasked reports whether no bound color attachment can be
// written.
func (c *Cache) allColorWriteMasked() bool {
	attMask := uint8(1)<<c.rt.colorCount - 1
	if c.dyn.CB.ColorWriteEnables&attMask == 0 {
		return true
	}
	for i := uint32(0); i < c.rt.colorCount; i++ {
		if c.dyn.CB.Attachments[i].WriteMask != gputypes.ColorWriteMaskNone {
			return false
		}
	}
	return true
}

func (c *Cache) ruleForceThreadDispatch() {
	if !c.changed(CmdPipeline|CmdRenderTargets, DynCBColorWriteEnables, DynCBWriteMasks) {
		return
	}
	// Dispatch fragment threads even with nothing to write, so that side
	// effects of the shader still happen.
	force := c.pipeline.Has(StageFragment) &&
		(c.pipeline.ForceFragmentThreadDispatch || c.allColorWriteMasked())
	mode := hw.ForceNormal
	if force {
		mode = hw.ForceOn
	}
	set(c, hw.GroupWM, &c.hw.WM.ForceThreadDispatchEnable, mode)
}
