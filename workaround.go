package hwstate

import (
	"fmt"

	"github.com/gogpu/hwstate/hw"
)

// WorkaroundPhase is the phase of an erratum workaround around an emission
// pass.
type WorkaroundPhase uint8

const (
	// PhaseSteady is normal operation.
	PhaseSteady WorkaroundPhase = iota
	// PhaseSuppressed: the erratum's groups are withheld from the dirty set
	// while the restricted pass and the corrective sequence run.
	PhaseSuppressed
	// PhaseRestoring: the groups have been re-marked dirty and the normal
	// pass is about to run.
	PhaseRestoring
)

func (p WorkaroundPhase) String() string {
	switch p {
	case PhaseSteady:
		return "steady"
	case PhaseSuppressed:
		return "suppressed"
	case PhaseRestoring:
		return "restoring"
	}
	return fmt.Sprintf("WorkaroundPhase(%d)", uint8(p))
}

// workaround is the phase machine of one erratum. It only ever touches the
// dirty set; records are left alone so the cache keeps describing the real
// state while the hardware transiently holds the corrective values.
type workaround struct {
	erratum Erratum
	groups  hw.GroupSet

	phase   WorkaroundPhase
	cleared hw.GroupSet
}

func (w *workaround) expect(p WorkaroundPhase, op string) {
	if w.phase != p {
		panic(fmt.Sprintf("hwstate: %s %s in phase %s", w.erratum, op, w.phase))
	}
}

// suppress withholds the erratum's groups from dirty.
func (w *workaround) suppress(dirty *hw.GroupSet) {
	w.expect(PhaseSteady, "suppress")
	w.cleared = dirty.Intersect(w.groups)
	*dirty = dirty.Without(w.groups)
	w.phase = PhaseSuppressed
}

// restore re-marks every group of the erratum. The corrective sequence
// reprograms all of them, not only those that were dirty on entry.
func (w *workaround) restore(dirty *hw.GroupSet) {
	w.expect(PhaseSuppressed, "restore")
	*dirty = dirty.Union(w.groups)
	w.phase = PhaseRestoring
}

func (w *workaround) settle() {
	w.expect(PhaseRestoring, "settle")
	w.cleared = 0
	w.phase = PhaseSteady
}

// abort returns to PhaseSteady after a failed restricted pass or corrective
// sequence, re-marking the groups so a retry re-emits them.
func (w *workaround) abort(dirty *hw.GroupSet) {
	if w.phase == PhaseSuppressed {
		*dirty = dirty.Union(w.groups)
	}
	w.cleared = 0
	w.phase = PhaseSteady
}

// viewportWorkaround runs the Wa_18020335297 sequence: a restricted pass
// without the groups the dummy draw reprograms, the dummy draw itself, and
// the re-marking of those groups for the normal pass that follows.
func (c *Cache) viewportWorkaround(enc Encoder) error {
	// Mesh pipelines have no vertex front end to drain; a stall is enough.
	if c.pipeline.IsMesh() {
		if err := enc.EncodeBarrier(hw.PipeCSStall); err != nil {
			return fmt.Errorf("hwstate: %s stall: %w", c.wa.erratum, err)
		}
		return nil
	}

	c.wa.suppress(&c.dirty)
	c.log.Debug("hwstate: workaround", "erratum", c.wa.erratum.String(),
		"phase", c.wa.phase.String(), "suppressed", c.wa.cleared.String())

	if err := c.emit(enc); err != nil {
		c.wa.abort(&c.dirty)
		return err
	}
	if err := c.dummyDraw(enc); err != nil {
		c.wa.abort(&c.dirty)
		return fmt.Errorf("hwstate: %s dummy draw: %w", c.wa.erratum, err)
	}

	c.wa.restore(&c.dirty)
	c.log.Debug("hwstate: workaround", "erratum", c.wa.erratum.String(),
		"phase", c.wa.phase.String(), "dirty", c.dirty.String())
	c.wa.settle()
	return nil
}

// dummyDraw emits a draw that is rejected by the clipper, one per slice,
// with pipeline state built from scratch. Nothing of it is recorded in the
// record store.
func (c *Cache) dummyDraw(enc Encoder) error {
	s := &c.scratch
	s.Reset()

	var groups []hw.Group
	if c.caps.AtLeast(Gen125) {
		s.VFG.DistributionMode = hw.DistributionRRStrict
		s.VF.GeometryDistributionEnable = true
		groups = append(groups, hw.GroupVFG, hw.GroupVF)
	}
	if c.caps.AtLeast(Gen12) {
		s.PrimitiveReplication.ReplicaMask = 1
		groups = append(groups, hw.GroupPrimitiveReplication)
	}
	s.Raster.CullMode = hw.CullNone
	s.Raster.FrontFaceFillMode = hw.FillSolid
	s.Raster.BackFaceFillMode = hw.FillSolid
	groups = append(groups, hw.GroupRaster, hw.GroupVFStatistics, hw.GroupVFSGVS)
	if c.caps.AtLeast(Gen11) {
		groups = append(groups, hw.GroupVFSGVS2)
	}
	s.Clip.ClipEnable = true
	s.Clip.ClipMode = hw.ClipModeRejectAll
	s.VertexInput.ElementCount = 2
	s.VFTopology.PrimitiveTopologyType = hw.PrimTriList
	groups = append(groups,
		hw.GroupClip,
		hw.GroupVS, hw.GroupGS, hw.GroupHS, hw.GroupTE, hw.GroupDS,
		hw.GroupStreamout,
		hw.GroupVertexInput,
		hw.GroupVFTopology,
	)

	for _, g := range groups {
		if err := enc.EncodeGroup(g, s); err != nil {
			return err
		}
	}
	for range max(c.caps.Slices, 1) {
		err := enc.EncodePrimitive(hw.Primitive3D{
			Topology:               hw.PrimTriList,
			Access:                 hw.AccessSequential,
			VertexCountPerInstance: 3,
			InstanceCount:          1,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
