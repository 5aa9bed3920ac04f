package hwstate

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// setDyn stores v into a logical state field and records b on change.
func setDyn[T comparable](c *Cache, b DynBit, field *T, v T) {
	if assign(field, v) {
		c.dynDirty.Set(b)
	}
}

// ============================================================================
// Input assembly and tessellation
// ============================================================================

func (c *Cache) SetPrimitiveTopology(t gputypes.PrimitiveTopology) {
	setDyn(c, DynIATopology, &c.dyn.IA.Topology, t)
}

func (c *Cache) SetPrimitiveRestart(enable bool) {
	setDyn(c, DynIAPrimitiveRestart, &c.dyn.IA.PrimitiveRestart, enable)
}

func (c *Cache) SetPatchControlPoints(n uint32) {
	setDyn(c, DynTSPatchControlPoints, &c.dyn.TS.PatchControlPoints, n)
}

func (c *Cache) SetTessellationDomainOrigin(o DomainOrigin) {
	setDyn(c, DynTSDomainOrigin, &c.dyn.TS.DomainOrigin, o)
}

// ============================================================================
// Viewports and scissors
// ============================================================================

// SetViewports replaces the viewport array. It panics with more than
// hw.MaxViewports viewports.
func (c *Cache) SetViewports(vps []Viewport) {
	if len(vps) > hw.MaxViewports {
		panic("hwstate: too many viewports")
	}
	setDyn(c, DynVPViewports, &c.dyn.VP.ViewportCount, uint32(len(vps)))
	for i, vp := range vps {
		setDyn(c, DynVPViewports, &c.dyn.VP.Viewports[i], vp)
	}
}

// SetScissors replaces the scissor array. It panics with more than
// hw.MaxViewports rectangles.
func (c *Cache) SetScissors(rects []Rect2D) {
	if len(rects) > hw.MaxViewports {
		panic("hwstate: too many scissors")
	}
	setDyn(c, DynVPScissors, &c.dyn.VP.ScissorCount, uint32(len(rects)))
	for i, r := range rects {
		setDyn(c, DynVPScissors, &c.dyn.VP.Scissors[i], r)
	}
}

// SetDepthClipNegativeOneToOne selects the [-1, 1] clip-space depth range.
func (c *Cache) SetDepthClipNegativeOneToOne(enable bool) {
	setDyn(c, DynVPNegativeOneToOne, &c.dyn.VP.NegativeOneToOne, enable)
}

// ============================================================================
// Rasterization
// ============================================================================

func (c *Cache) SetRasterizerDiscard(enable bool) {
	setDyn(c, DynRSDiscard, &c.dyn.RS.DiscardEnable, enable)
}

func (c *Cache) SetRasterizationStream(stream uint32) {
	setDyn(c, DynRSStream, &c.dyn.RS.Stream, stream)
}

func (c *Cache) SetDepthClamp(enable bool) {
	setDyn(c, DynRSDepthClamp, &c.dyn.RS.DepthClampEnable, enable)
}

func (c *Cache) SetDepthClip(mode DepthClipMode) {
	setDyn(c, DynRSDepthClip, &c.dyn.RS.DepthClip, mode)
}

func (c *Cache) SetPolygonMode(m PolygonMode) {
	setDyn(c, DynRSPolygonMode, &c.dyn.RS.PolygonMode, m)
}

func (c *Cache) SetCullMode(m gputypes.CullMode) {
	setDyn(c, DynRSCullMode, &c.dyn.RS.CullMode, m)
}

func (c *Cache) SetFrontFace(f gputypes.FrontFace) {
	setDyn(c, DynRSFrontFace, &c.dyn.RS.FrontFace, f)
}

func (c *Cache) SetDepthBiasEnable(enable bool) {
	setDyn(c, DynRSDepthBiasEnable, &c.dyn.RS.DepthBias.Enable, enable)
}

// SetDepthBias sets the depth bias factors; the enable is left untouched.
func (c *Cache) SetDepthBias(constant, slope, clamp float32, repr DepthBiasRepresentation) {
	b := DepthBias{
		Enable:         c.dyn.RS.DepthBias.Enable,
		Constant:       constant,
		Slope:          slope,
		Clamp:          clamp,
		Representation: repr,
	}
	setDyn(c, DynRSDepthBiasFactors, &c.dyn.RS.DepthBias, b)
}

func (c *Cache) SetLineWidth(w float32) {
	setDyn(c, DynRSLineWidth, &c.dyn.RS.LineWidth, w)
}

func (c *Cache) SetLineRasterizationMode(m LineMode) {
	setDyn(c, DynRSLineMode, &c.dyn.RS.LineMode, m)
}

func (c *Cache) SetLineStippleEnable(enable bool) {
	setDyn(c, DynRSLineStippleEnable, &c.dyn.RS.LineStipple.Enable, enable)
}

func (c *Cache) SetLineStipple(factor uint32, pattern uint16) {
	setDyn(c, DynRSLineStipple, &c.dyn.RS.LineStipple.Factor, factor)
	setDyn(c, DynRSLineStipple, &c.dyn.RS.LineStipple.Pattern, pattern)
}

func (c *Cache) SetProvokingVertex(v ProvokingVertex) {
	setDyn(c, DynRSProvokingVertex, &c.dyn.RS.ProvokingVertex, v)
}

func (c *Cache) SetConservativeRasterizationMode(m ConservativeMode) {
	setDyn(c, DynRSConservativeMode, &c.dyn.RS.ConservativeMode, m)
}

// SetFragmentShadingRate sets the pipeline shading rate and combiners.
func (c *Cache) SetFragmentShadingRate(width, height uint32, combiners [2]CombinerOp) {
	setDyn(c, DynFSR, &c.dyn.FSR, FragmentShadingRate{Width: width, Height: height, Combiners: combiners})
}

// ============================================================================
// Multisample
// ============================================================================

func (c *Cache) SetSampleMask(mask uint32) {
	setDyn(c, DynMSSampleMask, &c.dyn.MS.SampleMask, mask)
}

func (c *Cache) SetAlphaToCoverage(enable bool) {
	setDyn(c, DynMSAlphaToCoverage, &c.dyn.MS.AlphaToCoverage, enable)
}

func (c *Cache) SetAlphaToOne(enable bool) {
	setDyn(c, DynMSAlphaToOne, &c.dyn.MS.AlphaToOne, enable)
}

func (c *Cache) SetSampleLocationsEnable(enable bool) {
	setDyn(c, DynMSSampleLocationsEnable, &c.dyn.MS.SampleLocationsEnable, enable)
}

// SetSampleLocations sets custom sample positions. It panics with more than
// 16 positions.
func (c *Cache) SetSampleLocations(positions []SamplePosition) {
	var locs [16]SamplePosition
	if len(positions) > len(locs) {
		panic("hwstate: too many sample locations")
	}
	copy(locs[:], positions)
	setDyn(c, DynMSSampleLocations, &c.dyn.MS.SampleCount, uint32(len(positions)))
	setDyn(c, DynMSSampleLocations, &c.dyn.MS.SampleLocations, locs)
}

// ============================================================================
// Depth and stencil
// ============================================================================

func (c *Cache) SetDepthTestEnable(enable bool) {
	setDyn(c, DynDSDepthTestEnable, &c.dyn.DS.DepthTestEnable, enable)
}

func (c *Cache) SetDepthWriteEnable(enable bool) {
	setDyn(c, DynDSDepthWriteEnable, &c.dyn.DS.DepthWriteEnable, enable)
}

func (c *Cache) SetDepthCompare(f gputypes.CompareFunction) {
	setDyn(c, DynDSDepthCompare, &c.dyn.DS.DepthCompare, f)
}

func (c *Cache) SetDepthBoundsTestEnable(enable bool) {
	setDyn(c, DynDSDepthBoundsEnable, &c.dyn.DS.DepthBoundsEnable, enable)
}

func (c *Cache) SetDepthBounds(minDepth, maxDepth float32) {
	setDyn(c, DynDSDepthBounds, &c.dyn.DS.MinDepthBounds, minDepth)
	setDyn(c, DynDSDepthBounds, &c.dyn.DS.MaxDepthBounds, maxDepth)
}

func (c *Cache) SetStencilTestEnable(enable bool) {
	setDyn(c, DynDSStencilTestEnable, &c.dyn.DS.StencilTestEnable, enable)
}

// stencilFaces returns the face states selected by f.
func (c *Cache) stencilFaces(f StencilFace) []*StencilFaceState {
	faces := make([]*StencilFaceState, 0, 2)
	if f&FaceFront != 0 {
		faces = append(faces, &c.dyn.DS.Front)
	}
	if f&FaceBack != 0 {
		faces = append(faces, &c.dyn.DS.Back)
	}
	return faces
}

func (c *Cache) SetStencilOp(f StencilFace, op gputypes.StencilFaceState) {
	for _, s := range c.stencilFaces(f) {
		setDyn(c, DynDSStencilOp, &s.Op, op)
	}
}

func (c *Cache) SetStencilCompareMask(f StencilFace, mask uint32) {
	for _, s := range c.stencilFaces(f) {
		setDyn(c, DynDSStencilCompareMask, &s.CompareMask, mask)
	}
}

func (c *Cache) SetStencilWriteMask(f StencilFace, mask uint32) {
	for _, s := range c.stencilFaces(f) {
		setDyn(c, DynDSStencilWriteMask, &s.WriteMask, mask)
	}
}

func (c *Cache) SetStencilReference(f StencilFace, ref uint32) {
	for _, s := range c.stencilFaces(f) {
		setDyn(c, DynDSStencilReference, &s.Reference, ref)
	}
}

// ============================================================================
// Color blend
// ============================================================================

func (c *Cache) SetLogicOpEnable(enable bool) {
	setDyn(c, DynCBLogicOpEnable, &c.dyn.CB.LogicOpEnable, enable)
}

func (c *Cache) SetLogicOp(op LogicOp) {
	setDyn(c, DynCBLogicOp, &c.dyn.CB.LogicOp, op)
}

// SetColorWriteEnables sets the per-attachment color write enable bits.
func (c *Cache) SetColorWriteEnables(mask uint8) {
	setDyn(c, DynCBColorWriteEnables, &c.dyn.CB.ColorWriteEnables, mask)
}

// SetColorBlendEnable sets the blend enables of attachments first onwards.
func (c *Cache) SetColorBlendEnable(first int, enables ...bool) {
	for i, e := range enables {
		setDyn(c, DynCBBlendEnables, &c.dyn.CB.Attachments[first+i].BlendEnable, e)
	}
}

// SetColorBlendEquation sets the blend equations of attachments first
// onwards.
func (c *Cache) SetColorBlendEquation(first int, eqs ...gputypes.BlendState) {
	for i, eq := range eqs {
		setDyn(c, DynCBBlendEquations, &c.dyn.CB.Attachments[first+i].Blend, eq)
	}
}

// SetColorWriteMask sets the channel write masks of attachments first
// onwards.
func (c *Cache) SetColorWriteMask(first int, masks ...gputypes.ColorWriteMask) {
	for i, m := range masks {
		setDyn(c, DynCBWriteMasks, &c.dyn.CB.Attachments[first+i].WriteMask, m)
	}
}

func (c *Cache) SetBlendConstants(rgba [4]float32) {
	setDyn(c, DynCBBlendConstants, &c.dyn.CB.BlendConstants, rgba)
}

// ============================================================================
// Vertex input, index buffer and queries
// ============================================================================

// SetVertexBindingStrides sets the strides of bindings first onwards.
func (c *Cache) SetVertexBindingStrides(first int, strides ...uint32) {
	for i, s := range strides {
		setDyn(c, DynVIBindingStrides, &c.dyn.VertexStrides[first+i], s)
	}
}

// BindIndexBuffer binds an index buffer. The primitive restart index
// follows the index format.
func (c *Cache) BindIndexBuffer(buffer, offset, size uint64, format gputypes.IndexFormat) {
	ib := hw.IndexBuffer{Format: uint8(format), Buffer: buffer, Offset: offset, Size: size}
	if assign(&c.indexBuffer, ib) {
		c.cmdDirty |= CmdIndexBuffer
	}
	restart := uint32(0xffffffff)
	if format == gputypes.IndexFormatUint16 {
		restart = 0xffff
	}
	if assign(&c.restartIndex, restart) {
		c.cmdDirty |= CmdRestartIndex
	}
}

// BeginOcclusionQuery and EndOcclusionQuery track whether any occlusion
// query is active.
func (c *Cache) BeginOcclusionQuery() {
	c.occlusionQueries++
	if c.occlusionQueries == 1 {
		c.cmdDirty |= CmdOcclusionQueryActive
	}
}

func (c *Cache) EndOcclusionQuery() {
	if c.occlusionQueries == 0 {
		panic("hwstate: EndOcclusionQuery without BeginOcclusionQuery")
	}
	c.occlusionQueries--
	if c.occlusionQueries == 0 {
		c.cmdDirty |= CmdOcclusionQueryActive
	}
}

// BeginTransformFeedback and EndTransformFeedback re-run the rules that
// depend on transform feedback at the next Update.
func (c *Cache) BeginTransformFeedback() { c.cmdDirty |= CmdXFBEnable }

func (c *Cache) EndTransformFeedback() { c.cmdDirty |= CmdXFBEnable }
