package hw

import (
	"testing"
)

func TestStateRecordCoversEveryGroup(t *testing.T) {
	var s State
	for g := Group(0); g < GroupCount; g++ {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Record(%s) panicked: %v", g, r)
				}
			}()
			rec := s.Record(g)
			if rec == nil && g != GroupBlendStatePointers {
				t.Errorf("Record(%s) = nil", g)
			}
		}()
	}
}

func TestStateRecordIsCopy(t *testing.T) {
	var s State
	s.Raster.CullMode = CullBack
	rec := s.Record(GroupRaster).(Raster)
	s.Raster.CullMode = CullFront
	if rec.CullMode != CullBack {
		t.Errorf("Record(RASTER).CullMode = %v, want %v", rec.CullMode, CullBack)
	}
}

func TestStateRecordBaked(t *testing.T) {
	var s State
	s.Baked[GroupPS] = Baked{Enabled: true, Key: 42}
	if got := s.Record(GroupPS).(Baked); got.Key != 42 || !got.Enabled {
		t.Errorf("Record(PS) = %+v, want {Enabled:true Key:42}", got)
	}
}
