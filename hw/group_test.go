package hw

import (
	"testing"
)

// =============================================================================
// Group
// =============================================================================

func TestGroupString(t *testing.T) {
	tests := []struct {
		g    Group
		want string
	}{
		{GroupURB, "URB"},
		{GroupViewportSFClip, "VIEWPORT_SF_CLIP"},
		{GroupBlendStatePointers, "BLEND_STATE_POINTERS"},
		{GroupTBIMRTilePassInfo, "TBIMR_TILE_PASS_INFO"},
		{GroupCount, "Group(45)"},
	}
	for _, tt := range tests {
		if got := tt.g.String(); got != tt.want {
			t.Errorf("Group(%d).String() = %q, want %q", uint8(tt.g), got, tt.want)
		}
	}
}

func TestGroupNamesComplete(t *testing.T) {
	seen := make(map[string]Group)
	for g := Group(0); g < GroupCount; g++ {
		name := groupNames[g]
		if name == "" {
			t.Errorf("group %d has no name", uint8(g))
			continue
		}
		if prev, ok := seen[name]; ok {
			t.Errorf("name %q used by both %d and %d", name, uint8(prev), uint8(g))
		}
		seen[name] = g
	}
}

func TestGroupCountFitsSet(t *testing.T) {
	if GroupCount > 64 {
		t.Fatalf("GroupCount = %d, does not fit a 64-bit GroupSet", GroupCount)
	}
}

func TestEmissionOrderDependencies(t *testing.T) {
	// Pairs (a, b) where a must be emitted before b.
	pairs := [][2]Group{
		{GroupBlendState, GroupBlendStatePointers},
		{GroupSODeclList, GroupClip},
		{GroupClip, GroupStreamout},
		{GroupViewportSFClip, GroupViewportCC},
		{GroupViewportCC, GroupScissor},
		{GroupVFTopology, GroupVertexInput},
		{GroupWMDepthStencil, GroupWA18019816803},
	}
	for _, p := range pairs {
		if p[0] >= p[1] {
			t.Errorf("%v must precede %v", p[0], p[1])
		}
	}
}

func TestIsBaked(t *testing.T) {
	for g := Group(0); g < GroupCount; g++ {
		want := g <= GroupTaskControl
		if got := g.IsBaked(); got != want {
			t.Errorf("%v.IsBaked() = %v, want %v", g, got, want)
		}
	}
}

// =============================================================================
// GroupSet
// =============================================================================

func TestGroupSetBasic(t *testing.T) {
	var s GroupSet
	if !s.Empty() {
		t.Fatal("zero GroupSet should be empty")
	}

	s.Set(GroupRaster)
	s.Set(GroupBlendState)
	s.Set(GroupRaster)

	if got := s.Count(); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if !s.Has(GroupRaster) || !s.Has(GroupBlendState) {
		t.Errorf("Has() missing members in %v", s)
	}
	if s.Has(GroupScissor) {
		t.Errorf("Has(SCISSOR) = true, want false")
	}

	s.Clear(GroupRaster)
	if s.Has(GroupRaster) {
		t.Error("Clear(RASTER) did not remove the group")
	}
	s.Clear(GroupRaster)
	if got := s.Count(); got != 1 {
		t.Errorf("Count() after double clear = %d, want 1", got)
	}
}

func TestGroupSetOps(t *testing.T) {
	a := SetOf(GroupVS, GroupHS, GroupRaster)
	b := SetOf(GroupHS, GroupScissor)

	if got, want := a.Union(b), SetOf(GroupVS, GroupHS, GroupRaster, GroupScissor); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
	if got, want := a.Intersect(b), SetOf(GroupHS); got != want {
		t.Errorf("Intersect = %v, want %v", got, want)
	}
	if got, want := a.Without(b), SetOf(GroupVS, GroupRaster); got != want {
		t.Errorf("Without = %v, want %v", got, want)
	}
}

func TestGroupSetGroupsOrdered(t *testing.T) {
	s := SetOf(GroupTBIMRTilePassInfo, GroupURB, GroupScissor, GroupClip)
	got := s.Groups()
	want := []Group{GroupURB, GroupClip, GroupScissor, GroupTBIMRTilePassInfo}
	if len(got) != len(want) {
		t.Fatalf("Groups() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Groups()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAllGroups(t *testing.T) {
	all := AllGroups()
	if got := all.Count(); got != int(GroupCount) {
		t.Errorf("AllGroups().Count() = %d, want %d", got, GroupCount)
	}
	for g := Group(0); g < GroupCount; g++ {
		if !all.Has(g) {
			t.Errorf("AllGroups() missing %v", g)
		}
	}
}

func TestGroupSetString(t *testing.T) {
	tests := []struct {
		s    GroupSet
		want string
	}{
		{0, "{}"},
		{SetOf(GroupRaster), "{RASTER}"},
		{SetOf(GroupBlendState, GroupRaster), "{RASTER, BLEND_STATE}"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
