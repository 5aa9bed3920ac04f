package hwstate

import (
	"hash/fnv"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate/hw"
)

// StageMask is a set of shader stages.
type StageMask uint8

const (
	StageVertex StageMask = 1 << iota
	StageTessControl
	StageTessEval
	StageGeometry
	StageFragment
	StageTask
	StageMesh
)

// Pipeline is the state a compiled graphics pipeline contributes to the
// cache. Pipelines are immutable once bound.
type Pipeline struct {
	// Name is used in log output only.
	Name string

	Stages StageMask

	// Packets are the pre-encoded payloads of the baked groups. A baked
	// group without a packet is emitted disabled.
	Packets map[hw.Group][]byte

	// Dynamic lists the DynamicState fields the pipeline leaves to the
	// command stream; every other field is installed from Static on bind.
	Dynamic DynSet
	Static  DynamicState

	ReplicaMask    uint32
	VertexElements uint32
	VertexBindings uint64 // mask of bindings the vertex elements read

	RasterizationSamples uint32

	// Fragment stage properties.
	DualSourceBlend             bool
	KillPixel                   bool
	ComputedDepth               bool
	ComputedStencil             bool
	EarlyFragmentTests          bool
	ForceFragmentThreadDispatch bool
	CoarsePixelShading          bool

	// TessOutput is the tessellator output topology in lower-left domain
	// origin terms.
	TessOutput hw.TessOutput

	// OutputTopology is the primitive type the last geometry or mesh stage
	// emits.
	OutputTopology gputypes.PrimitiveTopology

	UsesXFB bool
}

// Has reports whether any stage of s is active.
func (p *Pipeline) Has(s StageMask) bool { return p.Stages&s != 0 }

// IsMesh reports whether the pipeline uses the mesh shading path.
func (p *Pipeline) IsMesh() bool { return p.Has(StageMesh) }

// baked returns the record of baked group g.
func (p *Pipeline) baked(g hw.Group) hw.Baked {
	pkt, ok := p.Packets[g]
	if !ok {
		return hw.Baked{}
	}
	h := fnv.New64a()
	h.Write([]byte{byte(g)})
	h.Write(pkt)
	return hw.Baked{Enabled: true, Key: h.Sum64()}
}

// BindPipeline makes p the active pipeline. Static state of p overwrites the
// corresponding logical fields and baked groups whose payload differs become
// dirty. Rebinding the active pipeline is a no-op.
func (c *Cache) BindPipeline(p *Pipeline) {
	if p == nil {
		panic("hwstate: nil pipeline")
	}
	if c.pipeline == p {
		return
	}
	var prev StageMask
	if c.pipeline != nil {
		prev = c.pipeline.Stages
	}
	c.pipeline = p
	c.cmdDirty |= CmdPipeline

	for b := DynBit(0); b < dynBitCount; b++ {
		if p.Dynamic.Has(b) {
			continue
		}
		if c.dyn.copyField(b, &p.Static) {
			c.dynDirty.Set(b)
		}
	}

	for g := hw.Group(0); g < hw.GroupCount; g++ {
		if g.IsBaked() {
			set(c, g, &c.hw.Baked[g], p.baked(g))
		}
	}
	set(c, hw.GroupPrimitiveReplication, &c.hw.PrimitiveReplication.ReplicaMask, p.ReplicaMask)
	for _, sg := range stageGated {
		if (prev^p.Stages)&sg.stage != 0 {
			c.dirty.Set(sg.group)
		}
	}

	c.log.Debug("hwstate: pipeline bound", "pipeline", p.Name, "dirty", c.dirty.String())
}

// Pipeline returns the active pipeline, or nil.
func (c *Cache) Pipeline() *Pipeline { return c.pipeline }
