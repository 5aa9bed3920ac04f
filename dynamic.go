package hwstate

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// Dual-source blend factors. gputypes stops at BlendFactorOneMinusConstant;
// these continue its numbering the way webgpu.h does for the
// dual-source-blending feature.
const (
	BlendFactorSrc1              gputypes.BlendFactor = 0x0E
	BlendFactorOneMinusSrc1      gputypes.BlendFactor = 0x0F
	BlendFactorSrc1Alpha         gputypes.BlendFactor = 0x10
	BlendFactorOneMinusSrc1Alpha gputypes.BlendFactor = 0x11
)

// isDualSourceFactor reports whether f reads the second fragment output.
func isDualSourceFactor(f gputypes.BlendFactor) bool {
	switch f {
	case BlendFactorSrc1, BlendFactorOneMinusSrc1, BlendFactorSrc1Alpha, BlendFactorOneMinusSrc1Alpha:
		return true
	}
	return false
}

// PolygonMode is the API polygon rasterization mode.
type PolygonMode uint8

const (
	PolygonFill PolygonMode = iota
	PolygonLine
	PolygonPoint
)

// LineMode is the API line rasterization mode.
type LineMode uint8

const (
	// LineModeDefault picks rectangular lines when multisampling and
	// Bresenham lines otherwise.
	LineModeDefault LineMode = iota
	LineModeRectangular
	LineModeBresenham
	LineModeRectangularSmooth
)

// ProvokingVertex selects the vertex whose flat attributes a primitive uses.
// Values other than the two declared are undefined and rejected.
type ProvokingVertex uint8

const (
	ProvokingVertexFirst ProvokingVertex = iota
	ProvokingVertexLast
)

// DomainOrigin is the tessellation domain origin.
type DomainOrigin uint8

const (
	DomainOriginUpperLeft DomainOrigin = iota
	DomainOriginLowerLeft
)

// DepthClipMode selects how depth clipping follows depth clamping.
type DepthClipMode uint8

const (
	// DepthClipNotClamp enables depth clipping exactly when depth clamping
	// is disabled.
	DepthClipNotClamp DepthClipMode = iota
	DepthClipDisabled
	DepthClipEnabled
)

// DepthBiasRepresentation selects how the constant depth bias is scaled.
type DepthBiasRepresentation uint8

const (
	DepthBiasLeastRepresentable DepthBiasRepresentation = iota
	DepthBiasLeastRepresentableForceUnorm
	DepthBiasFloat
)

// ConservativeMode is the conservative rasterization mode.
type ConservativeMode uint8

const (
	ConservativeDisabled ConservativeMode = iota
	ConservativeOverestimate
	ConservativeUnderestimate
)

// LogicOp is an API logic operation, in the conventional API order.
type LogicOp uint8

const (
	LogicOpClear LogicOp = iota
	LogicOpAnd
	LogicOpAndReverse
	LogicOpCopy
	LogicOpAndInverted
	LogicOpNoOp
	LogicOpXor
	LogicOpOr
	LogicOpNor
	LogicOpEquivalent
	LogicOpInvert
	LogicOpOrReverse
	LogicOpCopyInverted
	LogicOpOrInverted
	LogicOpNand
	LogicOpSet
)

// CombinerOp is a fragment shading rate combiner operation.
type CombinerOp uint8

const (
	CombinerKeep CombinerOp = iota
	CombinerReplace
	CombinerMin
	CombinerMax
	CombinerMul
)

// StencilFace selects the faces a stencil setter applies to.
type StencilFace uint8

const (
	FaceFront StencilFace = 1 << iota
	FaceBack

	FaceFrontAndBack = FaceFront | FaceBack
)

// Viewport is an API viewport.
type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// Rect2D is an integer rectangle: a scissor or a render area.
type Rect2D struct {
	X, Y          int32
	Width, Height uint32
}

// SamplePosition is a sample location in [0, 1) pixel units.
type SamplePosition struct {
	X, Y float32
}

// InputAssembly is the logical input assembly state.
type InputAssembly struct {
	Topology         gputypes.PrimitiveTopology
	PrimitiveRestart bool
}

// Tessellation is the logical tessellation state.
type Tessellation struct {
	PatchControlPoints uint32
	DomainOrigin       DomainOrigin
}

// ViewportState holds the viewport and scissor arrays. Only the first
// ViewportCount and ScissorCount entries are meaningful.
type ViewportState struct {
	ViewportCount    uint32
	Viewports        [hw.MaxViewports]Viewport
	ScissorCount     uint32
	Scissors         [hw.MaxViewports]Rect2D
	NegativeOneToOne bool
}

// DepthBias holds the depth bias enable and factors.
type DepthBias struct {
	Enable         bool
	Constant       float32
	Slope          float32
	Clamp          float32
	Representation DepthBiasRepresentation
}

// LineStipple holds the line stipple enable and pattern.
type LineStipple struct {
	Enable  bool
	Factor  uint32
	Pattern uint16
}

// Rasterization is the logical rasterizer state.
type Rasterization struct {
	DiscardEnable    bool
	Stream           uint32
	DepthClampEnable bool
	DepthClip        DepthClipMode
	PolygonMode      PolygonMode
	CullMode         gputypes.CullMode
	FrontFace        gputypes.FrontFace
	DepthBias        DepthBias
	LineWidth        float32
	LineMode         LineMode
	LineStipple      LineStipple
	ProvokingVertex  ProvokingVertex
	ConservativeMode ConservativeMode
}

// depthClipEnabled resolves DepthClipNotClamp against the clamp enable.
func (r *Rasterization) depthClipEnabled() bool {
	if r.DepthClip == DepthClipNotClamp {
		return !r.DepthClampEnable
	}
	return r.DepthClip == DepthClipEnabled
}

// FragmentShadingRate is the pipeline fragment shading rate state.
type FragmentShadingRate struct {
	Width, Height uint32
	Combiners     [2]CombinerOp
}

// Multisample is the logical multisample state.
type Multisample struct {
	SampleMask            uint32
	AlphaToCoverage       bool
	AlphaToOne            bool
	SampleLocationsEnable bool
	SampleCount           uint32
	SampleLocations       [16]SamplePosition
}

// StencilFaceState is the stencil configuration of one face.
type StencilFaceState struct {
	Op          gputypes.StencilFaceState
	CompareMask uint32
	WriteMask   uint32
	Reference   uint32
}

// DepthStencilState is the logical depth/stencil state.
type DepthStencilState struct {
	DepthTestEnable   bool
	DepthWriteEnable  bool
	DepthCompare      gputypes.CompareFunction
	DepthBoundsEnable bool
	MinDepthBounds    float32
	MaxDepthBounds    float32
	StencilTestEnable bool
	Front, Back       StencilFaceState
}

// BlendAttachment is the blend configuration of one color attachment.
type BlendAttachment struct {
	BlendEnable bool
	Blend       gputypes.BlendState
	WriteMask   gputypes.ColorWriteMask
}

// ColorBlend is the logical color blend state.
type ColorBlend struct {
	LogicOpEnable     bool
	LogicOp           LogicOp
	ColorWriteEnables uint8
	Attachments       [hw.MaxRTs]BlendAttachment
	BlendConstants    [4]float32
}

// DynamicState is the API-level logical state the rules translate into
// hardware records. It is plain data; changes are tracked with DynBits.
type DynamicState struct {
	IA  InputAssembly
	TS  Tessellation
	VP  ViewportState
	RS  Rasterization
	FSR FragmentShadingRate
	MS  Multisample
	DS  DepthStencilState
	CB  ColorBlend

	// VertexStrides are the per-binding vertex buffer strides.
	VertexStrides [hw.MaxVertexBindings]uint32
}

// DefaultDynamicState returns the state a fresh or reset cache starts from.
func DefaultDynamicState() DynamicState {
	face := StencilFaceState{
		Op:          gputypes.DefaultStencilFaceState(),
		CompareMask: 0xff,
		WriteMask:   0xff,
	}
	d := DynamicState{
		IA: InputAssembly{Topology: gputypes.PrimitiveTopologyTriangleList},
		TS: Tessellation{PatchControlPoints: 3},
		RS: Rasterization{
			CullMode:    gputypes.CullModeNone,
			FrontFace:   gputypes.FrontFaceCCW,
			LineWidth:   1,
			LineStipple: LineStipple{Factor: 1, Pattern: 0xffff},
		},
		FSR: FragmentShadingRate{Width: 1, Height: 1},
		MS:  Multisample{SampleMask: 0xffffffff, SampleCount: 1},
		DS: DepthStencilState{
			DepthCompare:   gputypes.CompareFunctionAlways,
			MaxDepthBounds: 1,
			Front:          face,
			Back:           face,
		},
		CB: ColorBlend{LogicOp: LogicOpCopy, ColorWriteEnables: 0xff},
	}
	for i := range d.CB.Attachments {
		d.CB.Attachments[i] = BlendAttachment{
			Blend:     gputypes.BlendStateReplace(),
			WriteMask: gputypes.ColorWriteMaskAll,
		}
	}
	return d
}

// DynBit identifies one field group of DynamicState for change tracking.
type DynBit uint8

const (
	DynIATopology DynBit = iota
	DynIAPrimitiveRestart
	DynTSPatchControlPoints
	DynTSDomainOrigin
	DynVPViewports
	DynVPScissors
	DynVPNegativeOneToOne
	DynRSDiscard
	DynRSStream
	DynRSDepthClamp
	DynRSDepthClip
	DynRSPolygonMode
	DynRSCullMode
	DynRSFrontFace
	DynRSDepthBiasEnable
	DynRSDepthBiasFactors
	DynRSLineWidth
	DynRSLineMode
	DynRSLineStippleEnable
	DynRSLineStipple
	DynRSProvokingVertex
	DynRSConservativeMode
	DynFSR
	DynMSSampleMask
	DynMSAlphaToCoverage
	DynMSAlphaToOne
	DynMSSampleLocationsEnable
	DynMSSampleLocations
	DynDSDepthTestEnable
	DynDSDepthWriteEnable
	DynDSDepthCompare
	DynDSDepthBoundsEnable
	DynDSDepthBounds
	DynDSStencilTestEnable
	DynDSStencilOp
	DynDSStencilCompareMask
	DynDSStencilWriteMask
	DynDSStencilReference
	DynCBLogicOpEnable
	DynCBLogicOp
	DynCBColorWriteEnables
	DynCBBlendEnables
	DynCBBlendEquations
	DynCBWriteMasks
	DynCBBlendConstants
	DynVIBindingStrides

	dynBitCount
)

var dynBitNames = [dynBitCount]string{
	DynIATopology:              "IA_TOPOLOGY",
	DynIAPrimitiveRestart:      "IA_PRIMITIVE_RESTART",
	DynTSPatchControlPoints:    "TS_PATCH_CONTROL_POINTS",
	DynTSDomainOrigin:          "TS_DOMAIN_ORIGIN",
	DynVPViewports:             "VP_VIEWPORTS",
	DynVPScissors:              "VP_SCISSORS",
	DynVPNegativeOneToOne:      "VP_NEGATIVE_ONE_TO_ONE",
	DynRSDiscard:               "RS_DISCARD",
	DynRSStream:                "RS_STREAM",
	DynRSDepthClamp:            "RS_DEPTH_CLAMP",
	DynRSDepthClip:             "RS_DEPTH_CLIP",
	DynRSPolygonMode:           "RS_POLYGON_MODE",
	DynRSCullMode:              "RS_CULL_MODE",
	DynRSFrontFace:             "RS_FRONT_FACE",
	DynRSDepthBiasEnable:       "RS_DEPTH_BIAS_ENABLE",
	DynRSDepthBiasFactors:      "RS_DEPTH_BIAS_FACTORS",
	DynRSLineWidth:             "RS_LINE_WIDTH",
	DynRSLineMode:              "RS_LINE_MODE",
	DynRSLineStippleEnable:     "RS_LINE_STIPPLE_ENABLE",
	DynRSLineStipple:           "RS_LINE_STIPPLE",
	DynRSProvokingVertex:       "RS_PROVOKING_VERTEX",
	DynRSConservativeMode:      "RS_CONSERVATIVE_MODE",
	DynFSR:                     "FSR",
	DynMSSampleMask:            "MS_SAMPLE_MASK",
	DynMSAlphaToCoverage:       "MS_ALPHA_TO_COVERAGE",
	DynMSAlphaToOne:            "MS_ALPHA_TO_ONE",
	DynMSSampleLocationsEnable: "MS_SAMPLE_LOCATIONS_ENABLE",
	DynMSSampleLocations:       "MS_SAMPLE_LOCATIONS",
	DynDSDepthTestEnable:       "DS_DEPTH_TEST_ENABLE",
	DynDSDepthWriteEnable:      "DS_DEPTH_WRITE_ENABLE",
	DynDSDepthCompare:          "DS_DEPTH_COMPARE",
	DynDSDepthBoundsEnable:     "DS_DEPTH_BOUNDS_ENABLE",
	DynDSDepthBounds:           "DS_DEPTH_BOUNDS",
	DynDSStencilTestEnable:     "DS_STENCIL_TEST_ENABLE",
	DynDSStencilOp:             "DS_STENCIL_OP",
	DynDSStencilCompareMask:    "DS_STENCIL_COMPARE_MASK",
	DynDSStencilWriteMask:      "DS_STENCIL_WRITE_MASK",
	DynDSStencilReference:      "DS_STENCIL_REFERENCE",
	DynCBLogicOpEnable:         "CB_LOGIC_OP_ENABLE",
	DynCBLogicOp:               "CB_LOGIC_OP",
	DynCBColorWriteEnables:     "CB_COLOR_WRITE_ENABLES",
	DynCBBlendEnables:          "CB_BLEND_ENABLES",
	DynCBBlendEquations:        "CB_BLEND_EQUATIONS",
	DynCBWriteMasks:            "CB_WRITE_MASKS",
	DynCBBlendConstants:        "CB_BLEND_CONSTANTS",
	DynVIBindingStrides:        "VI_BINDING_STRIDES",
}

func (b DynBit) String() string {
	if b < dynBitCount {
		return dynBitNames[b]
	}
	return fmt.Sprintf("DynBit(%d)", uint8(b))
}

// DynSet is a set of DynBits.
type DynSet uint64

// DynOf returns the set containing exactly the given bits.
func DynOf(bits ...DynBit) DynSet {
	var s DynSet
	for _, b := range bits {
		s.Set(b)
	}
	return s
}

// AllDyn returns the set of every DynBit.
func AllDyn() DynSet { return DynSet(1)<<dynBitCount - 1 }

// Set adds b to the set.
func (s *DynSet) Set(b DynBit) { *s |= 1 << b }

// Has reports whether b is in the set.
func (s DynSet) Has(b DynBit) bool { return s&(1<<b) != 0 }

// Any reports whether any of the given bits is in the set.
func (s DynSet) Any(bits ...DynBit) bool {
	for _, b := range bits {
		if s.Has(b) {
			return true
		}
	}
	return false
}

// CmdDirty are command-level change flags that are not tied to a single
// DynamicState field.
type CmdDirty uint8

const (
	CmdPipeline CmdDirty = 1 << iota
	CmdRenderTargets
	CmdRenderArea
	CmdIndexBuffer
	CmdRestartIndex
	CmdXFBEnable
	CmdOcclusionQueryActive

	cmdDirtyAll = CmdPipeline | CmdRenderTargets | CmdRenderArea | CmdIndexBuffer |
		CmdRestartIndex | CmdXFBEnable | CmdOcclusionQueryActive
)

// Has reports whether any bit of f is set in d.
func (d CmdDirty) Has(f CmdDirty) bool { return d&f != 0 }

// assign stores v into *dst and reports whether the value changed.
func assign[T comparable](dst *T, v T) bool {
	if *dst == v {
		return false
	}
	*dst = v
	return true
}

// copyField copies the fields tracked by b from src and reports whether any
// of them changed.
func (d *DynamicState) copyField(b DynBit, src *DynamicState) bool {
	switch b {
	case DynIATopology:
		return assign(&d.IA.Topology, src.IA.Topology)
	case DynIAPrimitiveRestart:
		return assign(&d.IA.PrimitiveRestart, src.IA.PrimitiveRestart)
	case DynTSPatchControlPoints:
		return assign(&d.TS.PatchControlPoints, src.TS.PatchControlPoints)
	case DynTSDomainOrigin:
		return assign(&d.TS.DomainOrigin, src.TS.DomainOrigin)
	case DynVPViewports:
		c := assign(&d.VP.ViewportCount, src.VP.ViewportCount)
		return assign(&d.VP.Viewports, src.VP.Viewports) || c
	case DynVPScissors:
		c := assign(&d.VP.ScissorCount, src.VP.ScissorCount)
		return assign(&d.VP.Scissors, src.VP.Scissors) || c
	case DynVPNegativeOneToOne:
		return assign(&d.VP.NegativeOneToOne, src.VP.NegativeOneToOne)
	case DynRSDiscard:
		return assign(&d.RS.DiscardEnable, src.RS.DiscardEnable)
	case DynRSStream:
		return assign(&d.RS.Stream, src.RS.Stream)
	case DynRSDepthClamp:
		return assign(&d.RS.DepthClampEnable, src.RS.DepthClampEnable)
	case DynRSDepthClip:
		return assign(&d.RS.DepthClip, src.RS.DepthClip)
	case DynRSPolygonMode:
		return assign(&d.RS.PolygonMode, src.RS.PolygonMode)
	case DynRSCullMode:
		return assign(&d.RS.CullMode, src.RS.CullMode)
	case DynRSFrontFace:
		return assign(&d.RS.FrontFace, src.RS.FrontFace)
	case DynRSDepthBiasEnable:
		return assign(&d.RS.DepthBias.Enable, src.RS.DepthBias.Enable)
	case DynRSDepthBiasFactors:
		enable := d.RS.DepthBias.Enable
		f := src.RS.DepthBias
		f.Enable = enable
		return assign(&d.RS.DepthBias, f)
	case DynRSLineWidth:
		return assign(&d.RS.LineWidth, src.RS.LineWidth)
	case DynRSLineMode:
		return assign(&d.RS.LineMode, src.RS.LineMode)
	case DynRSLineStippleEnable:
		return assign(&d.RS.LineStipple.Enable, src.RS.LineStipple.Enable)
	case DynRSLineStipple:
		c := assign(&d.RS.LineStipple.Factor, src.RS.LineStipple.Factor)
		return assign(&d.RS.LineStipple.Pattern, src.RS.LineStipple.Pattern) || c
	case DynRSProvokingVertex:
		return assign(&d.RS.ProvokingVertex, src.RS.ProvokingVertex)
	case DynRSConservativeMode:
		return assign(&d.RS.ConservativeMode, src.RS.ConservativeMode)
	case DynFSR:
		return assign(&d.FSR, src.FSR)
	case DynMSSampleMask:
		return assign(&d.MS.SampleMask, src.MS.SampleMask)
	case DynMSAlphaToCoverage:
		return assign(&d.MS.AlphaToCoverage, src.MS.AlphaToCoverage)
	case DynMSAlphaToOne:
		return assign(&d.MS.AlphaToOne, src.MS.AlphaToOne)
	case DynMSSampleLocationsEnable:
		return assign(&d.MS.SampleLocationsEnable, src.MS.SampleLocationsEnable)
	case DynMSSampleLocations:
		c := assign(&d.MS.SampleCount, src.MS.SampleCount)
		return assign(&d.MS.SampleLocations, src.MS.SampleLocations) || c
	case DynDSDepthTestEnable:
		return assign(&d.DS.DepthTestEnable, src.DS.DepthTestEnable)
	case DynDSDepthWriteEnable:
		return assign(&d.DS.DepthWriteEnable, src.DS.DepthWriteEnable)
	case DynDSDepthCompare:
		return assign(&d.DS.DepthCompare, src.DS.DepthCompare)
	case DynDSDepthBoundsEnable:
		return assign(&d.DS.DepthBoundsEnable, src.DS.DepthBoundsEnable)
	case DynDSDepthBounds:
		c := assign(&d.DS.MinDepthBounds, src.DS.MinDepthBounds)
		return assign(&d.DS.MaxDepthBounds, src.DS.MaxDepthBounds) || c
	case DynDSStencilTestEnable:
		return assign(&d.DS.StencilTestEnable, src.DS.StencilTestEnable)
	case DynDSStencilOp:
		c := assign(&d.DS.Front.Op, src.DS.Front.Op)
		return assign(&d.DS.Back.Op, src.DS.Back.Op) || c
	case DynDSStencilCompareMask:
		c := assign(&d.DS.Front.CompareMask, src.DS.Front.CompareMask)
		return assign(&d.DS.Back.CompareMask, src.DS.Back.CompareMask) || c
	case DynDSStencilWriteMask:
		c := assign(&d.DS.Front.WriteMask, src.DS.Front.WriteMask)
		return assign(&d.DS.Back.WriteMask, src.DS.Back.WriteMask) || c
	case DynDSStencilReference:
		c := assign(&d.DS.Front.Reference, src.DS.Front.Reference)
		return assign(&d.DS.Back.Reference, src.DS.Back.Reference) || c
	case DynCBLogicOpEnable:
		return assign(&d.CB.LogicOpEnable, src.CB.LogicOpEnable)
	case DynCBLogicOp:
		return assign(&d.CB.LogicOp, src.CB.LogicOp)
	case DynCBColorWriteEnables:
		return assign(&d.CB.ColorWriteEnables, src.CB.ColorWriteEnables)
	case DynCBBlendEnables:
		changed := false
		for i := range d.CB.Attachments {
			changed = assign(&d.CB.Attachments[i].BlendEnable, src.CB.Attachments[i].BlendEnable) || changed
		}
		return changed
	case DynCBBlendEquations:
		changed := false
		for i := range d.CB.Attachments {
			changed = assign(&d.CB.Attachments[i].Blend, src.CB.Attachments[i].Blend) || changed
		}
		return changed
	case DynCBWriteMasks:
		changed := false
		for i := range d.CB.Attachments {
			changed = assign(&d.CB.Attachments[i].WriteMask, src.CB.Attachments[i].WriteMask) || changed
		}
		return changed
	case DynCBBlendConstants:
		return assign(&d.CB.BlendConstants, src.CB.BlendConstants)
	case DynVIBindingStrides:
		return assign(&d.VertexStrides, src.VertexStrides)
	}
	panic(fmt.Sprintf("hwstate: unknown dynamic state bit %d", b))
}
