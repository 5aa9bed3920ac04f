package hwstate

import "github.com/gogpu/hwstate/hw"

// set stores v into the record field and marks g dirty when the value
// changed. It reports whether it did.
//
// Every write into the record store goes through set or setStage. Float
// fields compare with ==, so a NaN is never equal to itself and always
// dirties its group.
func set[T comparable](c *Cache, g hw.Group, field *T, v T) bool {
	if *field == v {
		return false
	}
	*field = v
	c.dirty.Set(g)
	return true
}

// setStage is set for a field that only matters while stage s is active.
// With the stage inactive the value is still stored, so that reactivating
// the stage compares against it, but g is not dirtied.
func setStage[T comparable](c *Cache, g hw.Group, s StageMask, field *T, v T) bool {
	if !c.pipeline.Has(s) {
		*field = v
		return false
	}
	return set(c, g, field, v)
}

// stageGated lists the groups written through setStage with their gating
// stage. BindPipeline re-marks a group when its stage turns on or off, since
// the value stored while inactive never reached the hardware.
var stageGated = [...]struct {
	stage StageMask
	group hw.Group
}{
	{StageGeometry, hw.GroupGS},
}

// setArray writes count elements with write and then applies the grow-only
// policy to the stored count: the group is (re)emitted when it is already
// dirty or when the count grew. A shrinking count alone leaves the group
// clean, since the stale entries past count are never read.
func setArray(c *Cache, g hw.Group, stored *uint32, count uint32, write func(i uint32)) {
	for i := uint32(0); i < count; i++ {
		write(i)
	}
	if c.dirty.Has(g) || *stored < count {
		*stored = count
		c.dirty.Set(g)
	}
}
