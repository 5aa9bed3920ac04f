package hw

// Hardware enumerations. Numeric values follow the 3D pipeline command
// encodings so that a packet encoder can copy them without translation.

// ClipAPIMode selects the clip-space depth convention of the clipper.
type ClipAPIMode uint8

const (
	ClipAPIOGL ClipAPIMode = 0 // depth in [-w, w]
	ClipAPID3D ClipAPIMode = 1 // depth in [0, w]
)

// ClipMode selects how the clipper treats primitives.
type ClipMode uint8

const (
	ClipModeNormal    ClipMode = 0
	ClipModeRejectAll ClipMode = 3
	ClipModeAcceptAll ClipMode = 4
)

// DistributionMode is the vertex-fetch geometry distribution policy.
type DistributionMode uint8

const (
	DistributionRR       DistributionMode = 0
	DistributionRRStrict DistributionMode = 1
)

// RasterAPIMode selects the rasterization rule table used together with the
// multisample rasterization enable bit.
type RasterAPIMode uint8

const (
	RasterDX9OGL RasterAPIMode = 0
	RasterDX100  RasterAPIMode = 1
	RasterDX101  RasterAPIMode = 2
)

// CullMode is the hardware face culling mode.
type CullMode uint8

const (
	CullBoth  CullMode = 0
	CullNone  CullMode = 1
	CullFront CullMode = 2
	CullBack  CullMode = 3
)

// Winding is the hardware front-face winding.
type Winding uint8

const (
	WindingCW  Winding = 0
	WindingCCW Winding = 1
)

// FillMode is the hardware polygon fill mode.
type FillMode uint8

const (
	FillSolid     FillMode = 0
	FillWireframe FillMode = 1
	FillPoint     FillMode = 2
)

// ReorderMode selects which vertex of a strip primitive is treated as leading
// by the stream-output and geometry stages.
type ReorderMode uint8

const (
	ReorderLeading  ReorderMode = 0
	ReorderTrailing ReorderMode = 1
)

// Primitive is a 3D primitive topology type.
type Primitive uint32

const (
	PrimPointList     Primitive = 0x01
	PrimLineList      Primitive = 0x02
	PrimLineStrip     Primitive = 0x03
	PrimTriList       Primitive = 0x04
	PrimTriStrip      Primitive = 0x05
	PrimTriFan        Primitive = 0x06
	PrimLineListAdj   Primitive = 0x09
	PrimLineStripAdj  Primitive = 0x0A
	PrimTriListAdj    Primitive = 0x0B
	PrimTriStripAdj   Primitive = 0x0C
	primPatchListBase Primitive = 0x20
)

// PrimPatchList returns the patch-list topology with n control points.
// n must be in [1, 32].
func PrimPatchList(n uint32) Primitive {
	if n < 1 || n > 32 {
		panic("hw: patch control point count out of range")
	}
	return primPatchListBase + Primitive(n-1)
}

// TessOutput is the tessellator output topology.
type TessOutput uint8

const (
	TessOutputPoint  TessOutput = 0
	TessOutputLine   TessOutput = 1
	TessOutputTriCW  TessOutput = 2
	TessOutputTriCCW TessOutput = 3
)

// CompareOp is a hardware comparison function.
type CompareOp uint8

const (
	CompareAlways       CompareOp = 0
	CompareNever        CompareOp = 1
	CompareLess         CompareOp = 2
	CompareEqual        CompareOp = 3
	CompareLessEqual    CompareOp = 4
	CompareGreater      CompareOp = 5
	CompareNotEqual     CompareOp = 6
	CompareGreaterEqual CompareOp = 7
)

// StencilOp is a hardware stencil operation.
type StencilOp uint8

const (
	StencilKeep     StencilOp = 0
	StencilZero     StencilOp = 1
	StencilReplace  StencilOp = 2
	StencilIncrSat  StencilOp = 3
	StencilDecrSat  StencilOp = 4
	StencilIncrWrap StencilOp = 5
	StencilDecrWrap StencilOp = 6
	StencilInvert   StencilOp = 7
)

// BlendFactor is a hardware blend factor.
type BlendFactor uint8

const (
	BlendFactorOne              BlendFactor = 0x01
	BlendFactorSrcColor         BlendFactor = 0x02
	BlendFactorSrcAlpha         BlendFactor = 0x03
	BlendFactorDstAlpha         BlendFactor = 0x04
	BlendFactorDstColor         BlendFactor = 0x05
	BlendFactorSrcAlphaSaturate BlendFactor = 0x06
	BlendFactorConstColor       BlendFactor = 0x07
	BlendFactorConstAlpha       BlendFactor = 0x08
	BlendFactorSrc1Color        BlendFactor = 0x09
	BlendFactorSrc1Alpha        BlendFactor = 0x0A
	BlendFactorZero             BlendFactor = 0x11
	BlendFactorInvSrcColor      BlendFactor = 0x12
	BlendFactorInvSrcAlpha      BlendFactor = 0x13
	BlendFactorInvDstAlpha      BlendFactor = 0x14
	BlendFactorInvDstColor      BlendFactor = 0x15
	BlendFactorInvConstColor    BlendFactor = 0x17
	BlendFactorInvConstAlpha    BlendFactor = 0x18
	BlendFactorInvSrc1Color     BlendFactor = 0x19
	BlendFactorInvSrc1Alpha     BlendFactor = 0x1A
)

// BlendFunction is a hardware blend equation.
type BlendFunction uint8

const (
	BlendAdd             BlendFunction = 0
	BlendSubtract        BlendFunction = 1
	BlendReverseSubtract BlendFunction = 2
	BlendMin             BlendFunction = 3
	BlendMax             BlendFunction = 4
)

// LogicOp is a hardware logic operation.
type LogicOp uint8

const (
	LogicOpClear        LogicOp = 0
	LogicOpNor          LogicOp = 1
	LogicOpAndInverted  LogicOp = 2
	LogicOpCopyInverted LogicOp = 3
	LogicOpAndReverse   LogicOp = 4
	LogicOpInvert       LogicOp = 5
	LogicOpXor          LogicOp = 6
	LogicOpNand         LogicOp = 7
	LogicOpAnd          LogicOp = 8
	LogicOpEquiv        LogicOp = 9
	LogicOpNoop         LogicOp = 10
	LogicOpOrInverted   LogicOp = 11
	LogicOpCopy         LogicOp = 12
	LogicOpOrReverse    LogicOp = 13
	LogicOpOr           LogicOp = 14
	LogicOpSet          LogicOp = 15
)

// ColorClamp selects the pre/post blend color clamp range.
type ColorClamp uint8

const (
	ColorClampUnorm    ColorClamp = 0
	ColorClampSnorm    ColorClamp = 1
	ColorClampRTFormat ColorClamp = 2
)

// ForceMode is a tri-state override used by several WM controls.
type ForceMode uint8

const (
	ForceNormal ForceMode = 0
	ForceOff    ForceMode = 1
	ForceOn     ForceMode = 2
)

// CPSMode is the coarse pixel shading mode.
type CPSMode uint8

const (
	CPSModeNone     CPSMode = 0
	CPSModeConstant CPSMode = 1
)

// PipeBits are the flush and stall bits of a pipeline synchronization
// barrier.
type PipeBits uint32

const (
	PipeCSStall PipeBits = 1 << iota
	PipeDepthStall
	PipeDepthCacheFlush
	PipeRenderTargetCacheFlush
	PipeTileCacheFlush
	PipePSSStallSync
)

// String returns a compact, '|' separated list of the set bits.
func (b PipeBits) String() string {
	if b == 0 {
		return "none"
	}
	names := [...]string{"cs-stall", "depth-stall", "depth-flush", "rt-flush", "tile-flush", "pss-sync"}
	s := ""
	for i, n := range names {
		if b&(1<<i) != 0 {
			if s != "" {
				s += "|"
			}
			s += n
		}
	}
	return s
}
