// Package guardband derives clip-space guardband bounds from a viewport
// transform.
//
// The guardband is the region outside the viewport in which primitives are
// passed to the rasterizer unclipped. It has a fixed screen-space size that
// depends on the hardware generation; the calculator centers it on the union
// of the clip rectangle and the viewport and maps it back into clip space.
package guardband

import "fmt"

// Screen-space guardband extents per generation.
const (
	SizeGen7 float32 = 16384 // Gen7 and later
	SizeGen6 float32 = 8192
)

// Rect is a clip rectangle in pixels.
type Rect struct {
	XMin, XMax uint32
	YMin, YMax uint32
}

// Transform is the x/y part of a viewport transform: the half extents (M00,
// M11) and the center (M30, M31).
type Transform struct {
	M00, M11 float32
	M30, M31 float32
}

// Bounds are guardband bounds in normalized device coordinates.
type Bounds struct {
	XMin, XMax float32
	YMin, YMax float32
}

// Default returns the [-1, 1] guardband used when no narrower render area is
// known.
func Default() Bounds { return Bounds{XMin: -1, XMax: 1, YMin: -1, YMax: 1} }

func (b Bounds) String() string {
	return fmt.Sprintf("x[%g, %g] y[%g, %g]", b.XMin, b.XMax, b.YMin, b.YMax)
}

// Calculate returns the guardband for the clip rectangle r under viewport
// transform vp, using a screen-space guardband of the given half size.
//
// A viewport with a zero scale rasterizes nothing; the result is then the
// zero Bounds.
func Calculate(r Rect, vp Transform, size float32) Bounds {
	if vp.M00 == 0 || vp.M11 == 0 {
		return Bounds{}
	}

	// Screen-space bounding box of the clip rectangle and the viewport.
	xmin := min(float32(r.XMin), vp.M30-vp.M00, vp.M30+vp.M00)
	xmax := max(float32(r.XMax), vp.M30-vp.M00, vp.M30+vp.M00)
	ymin := min(float32(r.YMin), vp.M31-vp.M11, vp.M31+vp.M11)
	ymax := max(float32(r.YMax), vp.M31-vp.M11, vp.M31+vp.M11)

	cx := (xmin + xmax) / 2
	cy := (ymin + ymax) / 2

	b := Bounds{
		XMin: (cx - size - vp.M30) / vp.M00,
		XMax: (cx + size - vp.M30) / vp.M00,
	}

	// A flipped viewport (negative M11) inverts the Y relationship.
	y0 := (cy - size - vp.M31) / vp.M11
	y1 := (cy + size - vp.M31) / vp.M11
	b.YMin, b.YMax = min(y0, y1), max(y0, y1)
	return b
}
