package hw

import (
	"fmt"
	"structs"
)

const (
	// MaxViewports is the number of viewport and scissor slots.
	MaxViewports = 16

	// MaxRTs is the number of color render targets addressable by BLEND_STATE.
	MaxRTs = 8

	// MaxVertexBindings is the number of vertex buffer bindings.
	MaxVertexBindings = 33
)

// Baked is the record of a group whose packet is fully prepared when the
// pipeline is created. Key identifies the prepared packet contents.
type Baked struct {
	_ structs.HostLayout

	Enabled bool
	Key     uint64
}

// Clip is the clipper record.
type Clip struct {
	_ structs.HostLayout

	ClipEnable                             bool
	ClipMode                               ClipMode
	APIMode                                ClipAPIMode
	ViewportXYClipTestEnable               bool
	TriangleStripListProvokingVertexSelect uint8
	LineStripListProvokingVertexSelect     uint8
	TriangleFanProvokingVertexSelect       uint8
	MaximumVPIndex                         uint32
}

// Streamout is the stream-output record.
type Streamout struct {
	_ structs.HostLayout

	RenderingDisable   bool
	RenderStreamSelect uint32
	ReorderMode        ReorderMode
	ForceRendering     ForceMode
}

// SFClipViewport is one element of the SF/clip viewport array.
type SFClipViewport struct {
	_ structs.HostLayout

	M00, M11, M22 float32
	M30, M31, M32 float32

	XMinClipGuardband, XMaxClipGuardband float32
	YMinClipGuardband, YMaxClipGuardband float32

	XMinViewport, XMaxViewport float32
	YMinViewport, YMaxViewport float32
}

// ViewportSFClip is the SF/clip viewport array. Count is the number of
// elements programmed into the hardware table.
type ViewportSFClip struct {
	Count uint32
	Elem  [MaxViewports]SFClipViewport
}

// CCViewport is one element of the color-calculator viewport array.
type CCViewport struct {
	_ structs.HostLayout

	MinimumDepth float32
	MaximumDepth float32
}

// ViewportCC is the color-calculator viewport (depth range) array.
type ViewportCC struct {
	Count uint32
	Elem  [MaxViewports]CCViewport
}

// ScissorRect is one inclusive scissor rectangle. An empty rectangle has
// XMax < XMin or YMax < YMin.
type ScissorRect struct {
	_ structs.HostLayout

	YMin, XMin uint32
	YMax, XMax uint32
}

// Scissor is the scissor rectangle array.
type Scissor struct {
	Count uint32
	Elem  [MaxViewports]ScissorRect
}

// VFTopology is the vertex-fetch topology record.
type VFTopology struct {
	_ structs.HostLayout

	PrimitiveTopologyType Primitive
}

// VertexInput holds the vertex buffer binding strides the vertex elements
// are packed against.
type VertexInput struct {
	_ structs.HostLayout

	// ElementCount is the number of VERTEX_ELEMENT_STATE entries; zero
	// emits the pipeline's empty-input element.
	ElementCount  uint32
	ValidBindings uint64
	Strides       [MaxVertexBindings]uint32
}

// PrimitiveReplication is the multiview replication record.
type PrimitiveReplication struct {
	_ structs.HostLayout

	ReplicaMask uint32
}

// TE is the tessellation engine record.
type TE struct {
	_ structs.HostLayout

	OutputTopology TessOutput
}

// GS is the dynamic part of the geometry shader record.
type GS struct {
	_ structs.HostLayout

	ReorderMode ReorderMode
}

// CPS is the coarse pixel shading record.
type CPS struct {
	_ structs.HostLayout

	Mode         CPSMode
	MinSizeX     uint32
	MinSizeY     uint32
	StatePointer uint32
}

// SF is the strips-and-fans record.
type SF struct {
	_ structs.HostLayout

	LineWidth                              float32
	LegacyGlobalDepthBiasEnable            bool
	TriangleStripListProvokingVertexSelect uint8
	LineStripListProvokingVertexSelect     uint8
	TriangleFanProvokingVertexSelect       uint8
}

// Raster is the rasterizer record.
type Raster struct {
	_ structs.HostLayout

	APIMode                          RasterAPIMode
	DXMultisampleRasterizationEnable bool
	AntialiasingEnable               bool
	CullMode                         CullMode
	FrontWinding                     Winding
	GlobalDepthOffsetEnableSolid     bool
	GlobalDepthOffsetEnableWireframe bool
	GlobalDepthOffsetEnablePoint     bool
	GlobalDepthOffsetConstant        float32
	GlobalDepthOffsetScale           float32
	GlobalDepthOffsetClamp           float32
	FrontFaceFillMode                FillMode
	BackFaceFillMode                 FillMode
	ViewportZFarClipTestEnable       bool
	ViewportZNearClipTestEnable      bool
	ConservativeRasterizationEnable  bool
}

// CCState is the color-calculator record.
type CCState struct {
	_ structs.HostLayout

	BlendConstantColorRed   float32
	BlendConstantColorGreen float32
	BlendConstantColorBlue  float32
	BlendConstantColorAlpha float32
}

// SampleMask is the sample mask record.
type SampleMask struct {
	_ structs.HostLayout

	SampleMask uint32
}

// DepthStencil is the depth/stencil test record.
type DepthStencil struct {
	_ structs.HostLayout

	DoubleSidedStencilEnable bool

	StencilTestMask, StencilWriteMask                 uint8
	BackfaceStencilTestMask, BackfaceStencilWriteMask uint8
	StencilReferenceValue                             uint8
	BackfaceStencilReferenceValue                     uint8

	DepthTestEnable        bool
	DepthBufferWriteEnable bool
	DepthTestFunction      CompareOp

	StencilTestEnable        bool
	StencilBufferWriteEnable bool
	StencilFailOp            StencilOp
	StencilPassDepthPassOp   StencilOp
	StencilPassDepthFailOp   StencilOp
	StencilTestFunction      CompareOp

	BackfaceStencilFailOp          StencilOp
	BackfaceStencilPassDepthPassOp StencilOp
	BackfaceStencilPassDepthFailOp StencilOp
	BackfaceStencilTestFunction    CompareOp
}

// DepthBounds is the depth bounds test record.
type DepthBounds struct {
	_ structs.HostLayout

	Enable   bool
	MinValue float32
	MaxValue float32
}

// LineStipple is the line stipple record.
type LineStipple struct {
	_ structs.HostLayout

	Pattern            uint32
	InverseRepeatCount float32
	RepeatCount        uint32
}

// VF is the vertex-fetch control record.
type VF struct {
	_ structs.HostLayout

	GeometryDistributionEnable bool
	IndexedDrawCutIndexEnable  bool
	CutIndex                   uint32
}

// IndexBuffer is the index buffer binding record.
type IndexBuffer struct {
	_ structs.HostLayout

	Format uint8
	Buffer uint64
	Offset uint64
	Size   uint64
}

// VFG is the vertex-fetch geometry distribution record.
type VFG struct {
	_ structs.HostLayout

	DistributionMode   DistributionMode
	ListCutIndexEnable bool
}

// SamplePattern is the programmable sample location record.
type SamplePattern struct {
	_ structs.HostLayout

	Enable  bool
	Samples uint32
	// Locations holds up to 16 (x, y) pairs in 1/16 pixel units.
	Locations [32]uint8
}

// WM is the windower record.
type WM struct {
	_ structs.HostLayout

	LineStippleEnable         bool
	ForceThreadDispatchEnable ForceMode
}

// PSBlend is the pixel-shader blend summary record; it mirrors render
// target 0 of BLEND_STATE.
type PSBlend struct {
	_ structs.HostLayout

	HasWriteableRT              bool
	ColorBufferBlendEnable      bool
	SourceAlphaBlendFactor      BlendFactor
	DestinationAlphaBlendFactor BlendFactor
	SourceBlendFactor           BlendFactor
	DestinationBlendFactor      BlendFactor
	AlphaTestEnable             bool
	IndependentAlphaBlendEnable bool
	AlphaToCoverageEnable       bool
}

// BlendEntry is the blend configuration of one render target.
type BlendEntry struct {
	_ structs.HostLayout

	WriteDisableAlpha bool
	WriteDisableRed   bool
	WriteDisableGreen bool
	WriteDisableBlue  bool

	LogicOpFunction LogicOp
	LogicOpEnable   bool

	ColorBufferBlendEnable    bool
	ColorClampRange           ColorClamp
	PreBlendColorClampEnable  bool
	PostBlendColorClampEnable bool

	SourceBlendFactor           BlendFactor
	DestinationBlendFactor      BlendFactor
	ColorBlendFunction          BlendFunction
	SourceAlphaBlendFactor      BlendFactor
	DestinationAlphaBlendFactor BlendFactor
	AlphaBlendFunction          BlendFunction
}

// Blend is the BLEND_STATE record.
type Blend struct {
	AlphaToCoverageEnable       bool
	AlphaToOneEnable            bool
	IndependentAlphaBlendEnable bool
	RTs                         [MaxRTs]BlendEntry
}

// DSWriteState tracks whether any depth or stencil write is enabled; it is
// what the Wa_18019816803 flush keys on.
type DSWriteState struct {
	_ structs.HostLayout

	Enabled bool
}

// PMAFix is the stencil PMA optimization toggle.
type PMAFix struct {
	_ structs.HostLayout

	Enable bool
}

// TBIMR is the tile-based immediate mode rendering record.
type TBIMR struct {
	_ structs.HostLayout

	TileRectangleHeight uint32
	TileRectangleWidth  uint32
	VerticalTileCount   uint32
	HorizontalTileCount uint32
	BatchSize           uint32
	TileBoxCheck        bool
	// Use is the software-side decision to enable tile passes; it is not part
	// of the packet.
	Use bool
}

// State is the Record Store: the last known hardware-facing value of every
// state group. It is plain data; dirtiness is tracked outside it.
type State struct {
	Baked                [GroupCount]Baked
	PrimitiveReplication PrimitiveReplication

	Clip           Clip
	Streamout      Streamout
	ViewportSFClip ViewportSFClip
	ViewportCC     ViewportCC
	Scissor        Scissor
	VFTopology     VFTopology
	VertexInput    VertexInput
	TE             TE
	GS             GS
	CPS            CPS
	SF             SF
	Raster         Raster
	CCState        CCState
	SampleMask     SampleMask
	DepthStencil   DepthStencil
	DepthBounds    DepthBounds
	LineStipple    LineStipple
	VF             VF
	IndexBuffer    IndexBuffer
	VFG            VFG
	SamplePattern  SamplePattern
	WM             WM
	PSBlend        PSBlend
	Blend          Blend
	DSWrite        DSWriteState
	PMAFix         PMAFix
	TBIMR          TBIMR
}

// Reset restores every record to its zero value.
func (s *State) Reset() { *s = State{} }

// VertexAccess selects sequential or indexed vertex fetch for a primitive.
type VertexAccess uint8

const (
	AccessSequential VertexAccess = 0
	AccessRandom     VertexAccess = 1
)

// Primitive3D is a raw draw packet. It is only used by corrective sequences
// that bypass the record store; regular draws are outside the cache.
type Primitive3D struct {
	_ structs.HostLayout

	Topology               Primitive
	Access                 VertexAccess
	VertexCountPerInstance uint32
	StartVertexLocation    uint32
	InstanceCount          uint32
	StartInstanceLocation  uint32
	BaseVertexLocation     int32
}

// Record returns a copy of the record of group g. Pipeline-baked groups
// return their Baked entry; BLEND_STATE_POINTERS has no payload of its own
// and returns nil.
func (s *State) Record(g Group) any {
	switch g {
	case GroupPrimitiveReplication:
		return s.PrimitiveReplication
	case GroupClip:
		return s.Clip
	case GroupStreamout:
		return s.Streamout
	case GroupViewportSFClip:
		return s.ViewportSFClip
	case GroupViewportCC:
		return s.ViewportCC
	case GroupScissor:
		return s.Scissor
	case GroupVFTopology:
		return s.VFTopology
	case GroupVertexInput:
		return s.VertexInput
	case GroupTE:
		return s.TE
	case GroupGS:
		return s.GS
	case GroupCPS:
		return s.CPS
	case GroupSF:
		return s.SF
	case GroupRaster:
		return s.Raster
	case GroupCCState:
		return s.CCState
	case GroupSampleMask:
		return s.SampleMask
	case GroupWMDepthStencil:
		return s.DepthStencil
	case GroupDepthBounds:
		return s.DepthBounds
	case GroupLineStipple:
		return s.LineStipple
	case GroupVF:
		return s.VF
	case GroupIndexBuffer:
		return s.IndexBuffer
	case GroupVFG:
		return s.VFG
	case GroupSamplePattern:
		return s.SamplePattern
	case GroupWM:
		return s.WM
	case GroupPSBlend:
		return s.PSBlend
	case GroupBlendState:
		return s.Blend
	case GroupBlendStatePointers:
		return nil
	case GroupWA18019816803:
		return s.DSWrite
	case GroupPMAFix:
		return s.PMAFix
	case GroupTBIMRTilePassInfo:
		return s.TBIMR
	}
	if g.IsBaked() {
		return s.Baked[g]
	}
	panic(fmt.Sprintf("hw: no record for %s", g))
}
