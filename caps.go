package hwstate

import (
	"fmt"
	"strings"

	"github.com/gogpu/hwstate/guardband"
	"github.com/gogpu/hwstate/hw"
)

// Gen is a hardware generation, scaled by ten (Gen12.5 is 125).
type Gen uint16

const (
	Gen9   Gen = 90
	Gen11  Gen = 110
	Gen12  Gen = 120
	Gen125 Gen = 125
)

func (g Gen) String() string {
	if g%10 == 0 {
		return fmt.Sprintf("Gen%d", g/10)
	}
	return fmt.Sprintf("Gen%d.%d", g/10, g%10)
}

// Erratum identifies a hardware erratum with a software workaround.
type Erratum uint8

const (
	// Wa18020335297 requires a pipeline drain and a rejected dummy draw
	// before a viewport pointer can be reprogrammed.
	Wa18020335297 Erratum = iota
	// Wa16011773973 requires streamout to be disabled while the SO
	// declaration list is reprogrammed.
	Wa16011773973
	// Wa18019816803 requires a PSS stall sync whenever depth/stencil write
	// enablement toggles.
	Wa18019816803
	// Wa14018912822 rewrites zero blend factors to constant factors with a
	// zero constant when multisampling.
	Wa14018912822
	// Wa18022508906 forces streamout rendering on while occlusion queries
	// are active.
	Wa18022508906

	erratumCount
)

var erratumNames = [erratumCount]string{
	Wa18020335297: "Wa_18020335297",
	Wa16011773973: "Wa_16011773973",
	Wa18019816803: "Wa_18019816803",
	Wa14018912822: "Wa_14018912822",
	Wa18022508906: "Wa_18022508906",
}

func (e Erratum) String() string {
	if e < erratumCount {
		return erratumNames[e]
	}
	return fmt.Sprintf("Erratum(%d)", uint8(e))
}

// ErratumSet is a set of errata, one bit per Erratum.
type ErratumSet uint32

// ErrataOf returns the set containing exactly the given errata.
func ErrataOf(es ...Erratum) ErratumSet {
	var s ErratumSet
	for _, e := range es {
		s |= 1 << e
	}
	return s
}

// Has reports whether e is in the set.
func (s ErratumSet) Has(e Erratum) bool { return s&(1<<e) != 0 }

func (s ErratumSet) String() string {
	var names []string
	for e := Erratum(0); e < erratumCount; e++ {
		if s.Has(e) {
			names = append(names, e.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Caps are the capability flags of a device. A Caps value is read-only once
// handed to New and may be shared between any number of caches.
type Caps struct {
	Gen    Gen
	Errata ErratumSet

	// Extensions.
	MeshShading            bool
	FragmentShadingRate    bool
	SampleLocations        bool
	DepthRangeUnrestricted bool

	// Slices is the number of geometry slices; it sizes TBIMR batches and
	// the number of primitives a dummy draw issues.
	Slices uint32

	// TBIMR enables tile-based immediate mode rendering (Gen12.5).
	TBIMR bool

	// TileCacheSize is the cache footprint in bytes a TBIMR tile targets.
	TileCacheSize uint32

	// HashingBlockWidth and HashingBlockHeight are the pixel hashing block.
	HashingBlockWidth  uint32
	HashingBlockHeight uint32

	// GuardbandSize is the screen-space guardband half size.
	GuardbandSize float32
}

// AtLeast reports whether the device is generation g or newer.
func (c Caps) AtLeast(g Gen) bool { return c.Gen >= g }

// Has reports whether the device carries erratum e.
func (c Caps) Has(e Erratum) bool { return c.Errata.Has(e) }

// Supports reports whether group g exists on the device. Emission skips
// unsupported groups without clearing anything but their dirty bit.
func (c Caps) Supports(g hw.Group) bool {
	switch g {
	case hw.GroupVFSGVS2, hw.GroupCPS:
		return c.AtLeast(Gen11)
	case hw.GroupPrimitiveReplication, hw.GroupDepthBounds:
		return c.AtLeast(Gen12)
	case hw.GroupVFG:
		return c.AtLeast(Gen125)
	case hw.GroupMeshControl, hw.GroupTaskControl:
		return c.MeshShading
	case hw.GroupWA18019816803:
		return c.AtLeast(Gen125) && c.Has(Wa18019816803)
	case hw.GroupPMAFix:
		return c.Gen == Gen9
	case hw.GroupTBIMRTilePassInfo:
		return c.AtLeast(Gen125) && c.TBIMR
	}
	return true
}

func (c Caps) String() string {
	return fmt.Sprintf("%s errata=%s slices=%d", c.Gen, c.Errata, c.Slices)
}

// CapsGen9 returns the capabilities of a Gen9 device.
func CapsGen9() Caps {
	return Caps{
		Gen:                Gen9,
		Slices:             1,
		HashingBlockWidth:  16,
		HashingBlockHeight: 16,
		GuardbandSize:      guardband.SizeGen7,
	}
}

// CapsGen11 returns the capabilities of a Gen11 device.
func CapsGen11() Caps {
	c := CapsGen9()
	c.Gen = Gen11
	c.FragmentShadingRate = true
	c.SampleLocations = true
	return c
}

// CapsGen12 returns the capabilities of a Gen12 device.
func CapsGen12() Caps {
	c := CapsGen11()
	c.Gen = Gen12
	c.DepthRangeUnrestricted = true
	c.HashingBlockWidth = 32
	c.HashingBlockHeight = 32
	return c
}

// CapsGen125 returns the capabilities of a Gen12.5 device with every
// erratum known to the cache.
func CapsGen125() Caps {
	c := CapsGen12()
	c.Gen = Gen125
	c.Errata = ErrataOf(Wa18020335297, Wa16011773973, Wa18019816803, Wa14018912822, Wa18022508906)
	c.MeshShading = true
	c.Slices = 8
	c.TBIMR = true
	c.TileCacheSize = 3 << 20
	return c
}

// ErratumConfig maps an erratum to the dirty groups its workaround
// suppresses for the restricted pass and re-marks afterwards.
type ErratumConfig map[Erratum]hw.GroupSet

// DefaultErratumConfig returns the suppress lists known to the cache.
//
// The Wa_18020335297 list is every group the dummy draw reprograms; the
// restricted pass must not emit them because the dummy draw overwrites
// them anyway.
func DefaultErratumConfig() ErratumConfig {
	return ErratumConfig{
		Wa18020335297: hw.SetOf(
			hw.GroupVFG, hw.GroupVF, hw.GroupPrimitiveReplication,
			hw.GroupRaster, hw.GroupVFStatistics, hw.GroupVFSGVS,
			hw.GroupVFSGVS2, hw.GroupClip, hw.GroupStreamout,
			hw.GroupVertexInput, hw.GroupVFTopology,
			hw.GroupVS, hw.GroupGS, hw.GroupHS, hw.GroupTE, hw.GroupDS,
		),
	}
}
