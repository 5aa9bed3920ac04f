package hwstate

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// Conversions from API enums to hardware encodings. An undefined or unknown
// input is a precondition violation and panics.

func hwCompareOp(f gputypes.CompareFunction) hw.CompareOp {
	switch f {
	case gputypes.CompareFunctionNever:
		return hw.CompareNever
	case gputypes.CompareFunctionLess:
		return hw.CompareLess
	case gputypes.CompareFunctionEqual:
		return hw.CompareEqual
	case gputypes.CompareFunctionLessEqual:
		return hw.CompareLessEqual
	case gputypes.CompareFunctionGreater:
		return hw.CompareGreater
	case gputypes.CompareFunctionNotEqual:
		return hw.CompareNotEqual
	case gputypes.CompareFunctionGreaterEqual:
		return hw.CompareGreaterEqual
	case gputypes.CompareFunctionAlways:
		return hw.CompareAlways
	}
	panic(fmt.Sprintf("hwstate: invalid compare function %d", f))
}

func hwStencilOp(op gputypes.StencilOperation) hw.StencilOp {
	switch op {
	case gputypes.StencilOperationKeep:
		return hw.StencilKeep
	case gputypes.StencilOperationZero:
		return hw.StencilZero
	case gputypes.StencilOperationReplace:
		return hw.StencilReplace
	case gputypes.StencilOperationInvert:
		return hw.StencilInvert
	case gputypes.StencilOperationIncrementClamp:
		return hw.StencilIncrSat
	case gputypes.StencilOperationDecrementClamp:
		return hw.StencilDecrSat
	case gputypes.StencilOperationIncrementWrap:
		return hw.StencilIncrWrap
	case gputypes.StencilOperationDecrementWrap:
		return hw.StencilDecrWrap
	}
	panic(fmt.Sprintf("hwstate: invalid stencil operation %d", op))
}

func hwBlendFactor(f gputypes.BlendFactor) hw.BlendFactor {
	switch f {
	case gputypes.BlendFactorZero:
		return hw.BlendFactorZero
	case gputypes.BlendFactorOne:
		return hw.BlendFactorOne
	case gputypes.BlendFactorSrc:
		return hw.BlendFactorSrcColor
	case gputypes.BlendFactorOneMinusSrc:
		return hw.BlendFactorInvSrcColor
	case gputypes.BlendFactorSrcAlpha:
		return hw.BlendFactorSrcAlpha
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return hw.BlendFactorInvSrcAlpha
	case gputypes.BlendFactorDst:
		return hw.BlendFactorDstColor
	case gputypes.BlendFactorOneMinusDst:
		return hw.BlendFactorInvDstColor
	case gputypes.BlendFactorDstAlpha:
		return hw.BlendFactorDstAlpha
	case gputypes.BlendFactorOneMinusDstAlpha:
		return hw.BlendFactorInvDstAlpha
	case gputypes.BlendFactorSrcAlphaSaturated:
		return hw.BlendFactorSrcAlphaSaturate
	case gputypes.BlendFactorConstant:
		return hw.BlendFactorConstColor
	case gputypes.BlendFactorOneMinusConstant:
		return hw.BlendFactorInvConstColor
	case BlendFactorSrc1:
		return hw.BlendFactorSrc1Color
	case BlendFactorOneMinusSrc1:
		return hw.BlendFactorInvSrc1Color
	case BlendFactorSrc1Alpha:
		return hw.BlendFactorSrc1Alpha
	case BlendFactorOneMinusSrc1Alpha:
		return hw.BlendFactorInvSrc1Alpha
	}
	panic(fmt.Sprintf("hwstate: invalid blend factor %d", f))
}

func hwBlendFunction(op gputypes.BlendOperation) hw.BlendFunction {
	switch op {
	case gputypes.BlendOperationAdd:
		return hw.BlendAdd
	case gputypes.BlendOperationSubtract:
		return hw.BlendSubtract
	case gputypes.BlendOperationReverseSubtract:
		return hw.BlendReverseSubtract
	case gputypes.BlendOperationMin:
		return hw.BlendMin
	case gputypes.BlendOperationMax:
		return hw.BlendMax
	}
	panic(fmt.Sprintf("hwstate: invalid blend operation %d", op))
}

var hwLogicOps = [...]hw.LogicOp{
	LogicOpClear:        hw.LogicOpClear,
	LogicOpAnd:          hw.LogicOpAnd,
	LogicOpAndReverse:   hw.LogicOpAndReverse,
	LogicOpCopy:         hw.LogicOpCopy,
	LogicOpAndInverted:  hw.LogicOpAndInverted,
	LogicOpNoOp:         hw.LogicOpNoop,
	LogicOpXor:          hw.LogicOpXor,
	LogicOpOr:           hw.LogicOpOr,
	LogicOpNor:          hw.LogicOpNor,
	LogicOpEquivalent:   hw.LogicOpEquiv,
	LogicOpInvert:       hw.LogicOpInvert,
	LogicOpOrReverse:    hw.LogicOpOrReverse,
	LogicOpCopyInverted: hw.LogicOpCopyInverted,
	LogicOpOrInverted:   hw.LogicOpOrInverted,
	LogicOpNand:         hw.LogicOpNand,
	LogicOpSet:          hw.LogicOpSet,
}

func hwLogicOp(op LogicOp) hw.LogicOp {
	if int(op) >= len(hwLogicOps) {
		panic(fmt.Sprintf("hwstate: invalid logic op %d", op))
	}
	return hwLogicOps[op]
}

func hwCullMode(m gputypes.CullMode) hw.CullMode {
	switch m {
	case gputypes.CullModeNone:
		return hw.CullNone
	case gputypes.CullModeFront:
		return hw.CullFront
	case gputypes.CullModeBack:
		return hw.CullBack
	}
	panic(fmt.Sprintf("hwstate: invalid cull mode %d", m))
}

func hwWinding(f gputypes.FrontFace) hw.Winding {
	switch f {
	case gputypes.FrontFaceCCW:
		return hw.WindingCCW
	case gputypes.FrontFaceCW:
		return hw.WindingCW
	}
	panic(fmt.Sprintf("hwstate: invalid front face %d", f))
}

func hwFillMode(m PolygonMode) hw.FillMode {
	switch m {
	case PolygonFill:
		return hw.FillSolid
	case PolygonLine:
		return hw.FillWireframe
	case PolygonPoint:
		return hw.FillPoint
	}
	panic(fmt.Sprintf("hwstate: invalid polygon mode %d", m))
}

func hwPrimitive(t gputypes.PrimitiveTopology) hw.Primitive {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return hw.PrimPointList
	case gputypes.PrimitiveTopologyLineList:
		return hw.PrimLineList
	case gputypes.PrimitiveTopologyLineStrip:
		return hw.PrimLineStrip
	case gputypes.PrimitiveTopologyTriangleList:
		return hw.PrimTriList
	case gputypes.PrimitiveTopologyTriangleStrip:
		return hw.PrimTriStrip
	}
	panic(fmt.Sprintf("hwstate: invalid primitive topology %d", t))
}
