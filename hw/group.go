// Package hw defines the hardware-facing side of the state cache: the state
// group tags, the dirty bitset over them, and the plain-data records that the
// packet encoder serializes.
//
// Nothing in this package knows about API-level state. Records are written by
// the cache in package hwstate and read by encoders (package batch,
// backend/native).
package hw

import (
	"fmt"
	"math/bits"
	"strings"
)

// Group identifies one hardware configuration record tracked as a single
// dirty-tracking unit.
//
// The declaration order is the emission order: an emission pass walks groups
// from GroupURB to GroupTBIMRTilePassInfo and serializes every dirty one.
// Later groups may depend on pointers programmed by earlier ones
// (BLEND_STATE must precede BLEND_STATE_POINTERS).
type Group uint8

const (
	GroupURB Group = iota
	GroupMultisample
	GroupPrimitiveReplication
	GroupVFSGVSInstancing
	GroupVFSGVS
	GroupVFSGVS2
	GroupVS
	GroupHS
	GroupDS
	GroupVFStatistics
	GroupSBE
	GroupSBESwiz
	GroupSODeclList
	GroupPS
	GroupPSExtra
	GroupMeshControl
	GroupTaskControl
	GroupClip
	GroupStreamout
	GroupViewportSFClip
	GroupViewportCC
	GroupScissor
	GroupVFTopology
	GroupVertexInput
	GroupTE
	GroupGS
	GroupCPS
	GroupSF
	GroupRaster
	GroupCCState
	GroupSampleMask
	GroupWMDepthStencil
	GroupDepthBounds
	GroupLineStipple
	GroupVF
	GroupIndexBuffer
	GroupVFG
	GroupSamplePattern
	GroupWM
	GroupPSBlend
	GroupBlendState
	GroupBlendStatePointers
	GroupWA18019816803
	GroupPMAFix
	GroupTBIMRTilePassInfo

	// GroupCount is the number of state groups.
	GroupCount
)

var groupNames = [GroupCount]string{
	GroupURB:                  "URB",
	GroupMultisample:          "MULTISAMPLE",
	GroupPrimitiveReplication: "PRIMITIVE_REPLICATION",
	GroupVFSGVSInstancing:     "VF_SGVS_INSTANCING",
	GroupVFSGVS:               "VF_SGVS",
	GroupVFSGVS2:              "VF_SGVS_2",
	GroupVS:                   "VS",
	GroupHS:                   "HS",
	GroupDS:                   "DS",
	GroupVFStatistics:         "VF_STATISTICS",
	GroupSBE:                  "SBE",
	GroupSBESwiz:              "SBE_SWIZ",
	GroupSODeclList:           "SO_DECL_LIST",
	GroupPS:                   "PS",
	GroupPSExtra:              "PS_EXTRA",
	GroupMeshControl:          "MESH_CONTROL",
	GroupTaskControl:          "TASK_CONTROL",
	GroupClip:                 "CLIP",
	GroupStreamout:            "STREAMOUT",
	GroupViewportSFClip:       "VIEWPORT_SF_CLIP",
	GroupViewportCC:           "VIEWPORT_CC",
	GroupScissor:              "SCISSOR",
	GroupVFTopology:           "VF_TOPOLOGY",
	GroupVertexInput:          "VERTEX_INPUT",
	GroupTE:                   "TE",
	GroupGS:                   "GS",
	GroupCPS:                  "CPS",
	GroupSF:                   "SF",
	GroupRaster:               "RASTER",
	GroupCCState:              "CC_STATE",
	GroupSampleMask:           "SAMPLE_MASK",
	GroupWMDepthStencil:       "WM_DEPTH_STENCIL",
	GroupDepthBounds:          "DEPTH_BOUNDS",
	GroupLineStipple:          "LINE_STIPPLE",
	GroupVF:                   "VF",
	GroupIndexBuffer:          "INDEX_BUFFER",
	GroupVFG:                  "VFG",
	GroupSamplePattern:        "SAMPLE_PATTERN",
	GroupWM:                   "WM",
	GroupPSBlend:              "PS_BLEND",
	GroupBlendState:           "BLEND_STATE",
	GroupBlendStatePointers:   "BLEND_STATE_POINTERS",
	GroupWA18019816803:        "WA_18019816803",
	GroupPMAFix:               "PMA_FIX",
	GroupTBIMRTilePassInfo:    "TBIMR_TILE_PASS_INFO",
}

// String returns the upper-case tag of the group.
func (g Group) String() string {
	if g < GroupCount {
		return groupNames[g]
	}
	return fmt.Sprintf("Group(%d)", uint8(g))
}

// Valid reports whether g names a real group.
func (g Group) Valid() bool { return g < GroupCount }

// IsBaked reports whether the group's record is produced at pipeline
// creation time and only swapped wholesale on pipeline bind.
func (g Group) IsBaked() bool {
	switch g {
	case GroupURB, GroupMultisample, GroupPrimitiveReplication,
		GroupVFSGVSInstancing, GroupVFSGVS, GroupVFSGVS2,
		GroupVS, GroupHS, GroupDS, GroupVFStatistics,
		GroupSBE, GroupSBESwiz, GroupSODeclList, GroupPS, GroupPSExtra,
		GroupMeshControl, GroupTaskControl:
		return true
	}
	return false
}

// GroupSet is a set of state groups, one bit per Group.
//
// The zero value is the empty set. GroupSet is a value type; methods with a
// pointer receiver mutate in place.
type GroupSet uint64

// SetOf returns the set containing exactly the given groups.
func SetOf(groups ...Group) GroupSet {
	var s GroupSet
	for _, g := range groups {
		s.Set(g)
	}
	return s
}

// AllGroups returns the set of every group.
func AllGroups() GroupSet { return GroupSet(1)<<GroupCount - 1 }

// Set adds g to the set.
func (s *GroupSet) Set(g Group) { *s |= 1 << g }

// Clear removes g from the set.
func (s *GroupSet) Clear(g Group) { *s &^= 1 << g }

// Has reports whether g is in the set.
func (s GroupSet) Has(g Group) bool { return s&(1<<g) != 0 }

// Union returns s ∪ o.
func (s GroupSet) Union(o GroupSet) GroupSet { return s | o }

// Intersect returns s ∩ o.
func (s GroupSet) Intersect(o GroupSet) GroupSet { return s & o }

// Without returns s \ o.
func (s GroupSet) Without(o GroupSet) GroupSet { return s &^ o }

// Empty reports whether no group is set.
func (s GroupSet) Empty() bool { return s == 0 }

// Count returns the number of groups in the set.
func (s GroupSet) Count() int { return bits.OnesCount64(uint64(s)) }

// Groups returns the members of s in emission order.
func (s GroupSet) Groups() []Group {
	out := make([]Group, 0, s.Count())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, Group(bits.TrailingZeros64(v)))
	}
	return out
}

// String formats the set as {A, B, C} in emission order.
func (s GroupSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, g := range s.Groups() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(g.String())
	}
	b.WriteByte('}')
	return b.String()
}
