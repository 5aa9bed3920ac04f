package hwstate

import (
	"log/slog"

	"github.com/gogpu/hwstate/hw"
)

// Encoder serializes state groups into a command stream. Implementations
// are the packet writer of package batch and the replay encoder of
// backend/native.
//
// An error from any method is fatal to the command buffer being recorded;
// Flush returns it without clearing the groups it did not reach.
type Encoder interface {
	// EncodeGroup serializes the record of group g from s.
	EncodeGroup(g hw.Group, s *hw.State) error

	// EncodeBarrier emits a pipeline synchronization barrier.
	EncodeBarrier(bits hw.PipeBits) error

	// EncodePrimitive emits a raw draw.
	EncodePrimitive(p hw.Primitive3D) error
}

// Cache is the dynamic state cache of one command-recording context.
//
// A Cache is not safe for concurrent use; each recording thread owns its
// own. The Caps it was created with may be shared.
type Cache struct {
	caps Caps
	opts cacheOptions
	log  *slog.Logger

	// Logical state and its change tracking.
	dyn      DynamicState
	dynDirty DynSet
	cmdDirty CmdDirty

	pipeline *Pipeline
	rt       renderTargets

	indexBuffer      hw.IndexBuffer
	restartIndex     uint32
	occlusionQueries uint32

	// Record store and dirty set.
	hw    hw.State
	dirty hw.GroupSet

	// Derived values carried between passes.
	colorBlendZero bool
	alphaBlendZero bool
	viewportSet    bool
	pmaFix         bool

	wa      workaround
	scratch hw.State
}

// New creates a cache for a device with capabilities caps. The cache starts
// out reset: default logical state, every group dirty.
func New(caps Caps, opts ...CacheOption) *Cache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cache{caps: caps, opts: o}
	c.log = o.logger
	if c.log == nil {
		c.log = Logger()
	}
	c.Reset()
	return c
}

// Reset restores the state of a freshly created cache so the owning context
// can be reused. Every group is marked dirty for the next pass and no
// pipeline is bound.
func (c *Cache) Reset() {
	c.dyn = DefaultDynamicState()
	c.dynDirty = AllDyn()
	c.cmdDirty = cmdDirtyAll
	c.pipeline = nil
	c.rt = renderTargets{samples: 1}
	c.indexBuffer = hw.IndexBuffer{}
	c.restartIndex = 0xffffffff
	c.occlusionQueries = 0

	c.hw.Reset()
	c.dirty = hw.AllGroups()

	c.colorBlendZero = false
	c.alphaBlendZero = false
	c.viewportSet = false
	c.pmaFix = false
	c.wa = workaround{erratum: Wa18020335297, groups: c.opts.errata[Wa18020335297]}
}

// Caps returns the device capabilities the cache was created with.
func (c *Cache) Caps() Caps { return c.caps }

// Dynamic returns a copy of the logical state.
func (c *Cache) Dynamic() DynamicState { return c.dyn }

// State returns a copy of the record store.
func (c *Cache) State() hw.State { return c.hw }

// Dirty returns the groups the next emission pass will serialize.
func (c *Cache) Dirty() hw.GroupSet { return c.dirty }

// WorkaroundPhase returns the phase of the viewport workaround controller.
// Outside Flush it is always PhaseSteady.
func (c *Cache) WorkaroundPhase() WorkaroundPhase { return c.wa.phase }
