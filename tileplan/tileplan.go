// Package tileplan partitions a framebuffer into hardware-bounded tiles so
// that the working set of one tile fits the on-chip tile cache.
//
// The search works in hashing-block units: the framebuffer is rounded up to
// whole blocks, a target tile area is derived from the cache footprint, and
// near-square candidate tiles are evaluated in both orientations. The plan
// with the fewest tiles that stays within the hardware tile-count limits
// wins; on ties the first (squarest) candidate is kept.
package tileplan

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	// ErrNoFootprint is returned when the per-pixel footprint is zero; the
	// caller should disable tiling instead of planning.
	ErrNoFootprint = errors.New("tileplan: zero per-pixel footprint")

	// ErrEmptyFramebuffer is returned for a framebuffer with no area.
	ErrEmptyFramebuffer = errors.New("tileplan: empty framebuffer")
)

// DefaultMaxTiles is the hardware limit on tiles per axis.
const DefaultMaxTiles = 32

// Params are the inputs of a tile search.
type Params struct {
	// Framebuffer size in pixels.
	Width, Height uint32

	// Hashing block size in pixels.
	BlockWidth, BlockHeight uint32

	// TargetFootprint is the number of cache bytes a tile may occupy.
	TargetFootprint uint32

	// PixelSize is the estimated cache footprint of one pixel in bytes.
	PixelSize uint32

	// MaxHorizTiles and MaxVertTiles are the hardware tile-count limits.
	MaxHorizTiles, MaxVertTiles uint32
}

// Plan is a tile layout in pixels.
type Plan struct {
	TileWidth, TileHeight uint32
	HorizontalCount       uint32
	VerticalCount         uint32
}

// Tiles returns the total number of tiles.
func (p Plan) Tiles() uint32 { return p.HorizontalCount * p.VerticalCount }

// CoversFramebuffer reports whether the plan degenerates to a single tile.
func (p Plan) CoversFramebuffer() bool { return p.Tiles() <= 1 }

func (p Plan) String() string {
	return fmt.Sprintf("%dx%d tiles of %dx%d px", p.HorizontalCount, p.VerticalCount, p.TileWidth, p.TileHeight)
}

// Calculate runs the tile search. Zero tile-count limits or block sizes are
// programming errors and panic.
func Calculate(p Params) (Plan, error) {
	if p.MaxHorizTiles == 0 || p.MaxVertTiles == 0 {
		panic("tileplan: zero tile count limit")
	}
	if p.BlockWidth == 0 || p.BlockHeight == 0 {
		panic("tileplan: zero hashing block size")
	}
	if p.PixelSize == 0 {
		return Plan{}, ErrNoFootprint
	}
	if p.Width == 0 || p.Height == 0 {
		return Plan{}, ErrEmptyFramebuffer
	}

	fbw := divRoundUp(uint64(p.Width), uint64(p.BlockWidth))
	fbh := divRoundUp(uint64(p.Height), uint64(p.BlockHeight))
	maxh := uint64(p.MaxHorizTiles)
	maxv := uint64(p.MaxVertTiles)

	blockBytes := uint64(p.PixelSize) * uint64(p.BlockWidth) * uint64(p.BlockHeight)
	minSurf := divRoundUp(fbw, maxh) * divRoundUp(fbh, maxv)
	surf := clamp(uint64(p.TargetFootprint)/blockBytes, minSurf, fbw*fbh)

	tw, th := search(surf, fbw, fbh, maxh, maxv)

	plan := Plan{
		TileWidth:  uint32(tw) * p.BlockWidth,
		TileHeight: uint32(th) * p.BlockHeight,
	}
	plan.HorizontalCount = divRoundUp(p.Width, plan.TileWidth)
	plan.VerticalCount = divRoundUp(p.Height, plan.TileHeight)
	return plan, nil
}

// search returns the tile size in blocks for a target area of surf blocks
// over a fbw x fbh block framebuffer.
func search(surf, fbw, fbh, maxh, maxv uint64) (tw, th uint64) {
	// Fallback for when no near-square candidate fits the limits: the
	// narrowest legal tile, stretched until it reaches the target area.
	tw = divRoundUp(fbw, maxh)
	th = min(max(divRoundUp(surf, tw), divRoundUp(fbh, maxv)), fbh)
	tw = min(max(divRoundUp(surf, th), tw), fbw)
	best := uint64(math.MaxUint64)

	root := math.Sqrt(float64(surf))
	lo := max(isqrt(surf), divRoundUp(surf, max(fbw, fbh)), 1)
	hi := uint64(math.Ceil(root * math.Sqrt2))

	for major := lo; major <= hi; {
		minor := divRoundUp(surf, major)

		// Major axis horizontal.
		hc, vc := divRoundUp(fbw, major), divRoundUp(fbh, minor)
		if hc <= maxh && vc <= maxv && hc*vc < best {
			best, tw, th = hc*vc, major, minor
		}
		// Major axis vertical.
		hc2, vc2 := divRoundUp(fbw, minor), divRoundUp(fbh, major)
		if hc2 <= maxh && vc2 <= maxv && hc2*vc2 < best {
			best, tw, th = hc2*vc2, minor, major
		}

		if best == 1 {
			break
		}

		next := uint64(math.MaxUint64)
		next = min(next, nextMajorCount(fbw, hc), nextMajorCount(fbh, vc2))
		next = min(next, nextMinorCount(surf, fbh, vc), nextMinorCount(surf, fbw, hc2))
		if next == math.MaxUint64 {
			break
		}
		major = max(next, major+1)
	}
	return tw, th
}

// nextMajorCount returns the smallest major length at which ceil(l/major)
// drops below c, or MaxUint64 if it cannot.
func nextMajorCount(l, c uint64) uint64 {
	if c <= 1 {
		return math.MaxUint64
	}
	return divRoundUp(l, c-1)
}

// nextMinorCount returns the smallest major length at which the count along
// the minor axis, ceil(l/ceil(surf/major)), grows beyond c.
func nextMinorCount(surf, l, c uint64) uint64 {
	n := divRoundUp(l, c) - 1
	if n == 0 {
		return math.MaxUint64
	}
	return divRoundUp(surf, n)
}

func isqrt(v uint64) uint64 {
	r := uint64(math.Sqrt(float64(v)))
	for r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

func divRoundUp[T constraints.Integer](x, y T) T {
	return (x + y - 1) / y
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
