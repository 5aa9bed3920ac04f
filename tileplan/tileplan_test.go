package tileplan

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestCalculateSquare(t *testing.T) {
	p := Params{
		Width: 1024, Height: 1024,
		BlockWidth: 32, BlockHeight: 32,
		TargetFootprint: 4 * 32 * 32 * 64,
		PixelSize:       4,
		MaxHorizTiles:   DefaultMaxTiles, MaxVertTiles: DefaultMaxTiles,
	}
	got, err := Calculate(p)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	want := Plan{TileWidth: 256, TileHeight: 256, HorizontalCount: 4, VerticalCount: 4}
	if got != want {
		t.Errorf("Calculate() = %v, want %v", got, want)
	}
}

func TestCalculateSingleTile(t *testing.T) {
	p := Params{
		Width: 64, Height: 64,
		BlockWidth: 32, BlockHeight: 32,
		TargetFootprint: 1 << 20,
		PixelSize:       4,
		MaxHorizTiles:   DefaultMaxTiles, MaxVertTiles: DefaultMaxTiles,
	}
	got, err := Calculate(p)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !got.CoversFramebuffer() {
		t.Errorf("Calculate() = %v, want a single tile", got)
	}
	if got.TileWidth < p.Width || got.TileHeight < p.Height {
		t.Errorf("tile %dx%d smaller than framebuffer %dx%d", got.TileWidth, got.TileHeight, p.Width, p.Height)
	}
}

func TestCalculateHitsLimits(t *testing.T) {
	p := Params{
		Width: 4096, Height: 4096,
		BlockWidth: 32, BlockHeight: 32,
		TargetFootprint: 1,
		PixelSize:       16,
		MaxHorizTiles:   DefaultMaxTiles, MaxVertTiles: DefaultMaxTiles,
	}
	got, err := Calculate(p)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.HorizontalCount > p.MaxHorizTiles || got.VerticalCount > p.MaxVertTiles {
		t.Fatalf("Calculate() = %v exceeds the %d tile limits", got, DefaultMaxTiles)
	}
	// The limits force at least 4x4 blocks. A 5x4 block tile needs 26x32
	// tiles, fewer than the 32x32 of the square one, so it wins.
	want := Plan{TileWidth: 160, TileHeight: 128, HorizontalCount: 26, VerticalCount: 32}
	if got != want {
		t.Errorf("Calculate() = %v, want %v", got, want)
	}
}

func TestCalculateErrors(t *testing.T) {
	base := Params{
		Width: 256, Height: 256,
		BlockWidth: 32, BlockHeight: 32,
		TargetFootprint: 1 << 16,
		PixelSize:       4,
		MaxHorizTiles:   DefaultMaxTiles, MaxVertTiles: DefaultMaxTiles,
	}

	p := base
	p.PixelSize = 0
	if _, err := Calculate(p); !errors.Is(err, ErrNoFootprint) {
		t.Errorf("zero pixel size: err = %v, want %v", err, ErrNoFootprint)
	}

	p = base
	p.Height = 0
	if _, err := Calculate(p); !errors.Is(err, ErrEmptyFramebuffer) {
		t.Errorf("empty framebuffer: err = %v, want %v", err, ErrEmptyFramebuffer)
	}
}

func TestCalculatePanicsOnZeroLimit(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Calculate() with zero MaxHorizTiles did not panic")
		}
	}()
	Calculate(Params{Width: 1, Height: 1, BlockWidth: 32, BlockHeight: 32, PixelSize: 1, MaxVertTiles: 32})
}

// TestCalculateBound checks the tile-count limits and the area bound over
// random inputs.
func TestCalculateBound(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		p := Params{
			Width:           1 + rng.Uint32N(16384),
			Height:          1 + rng.Uint32N(16384),
			BlockWidth:      []uint32{8, 16, 32}[rng.IntN(3)],
			BlockHeight:     []uint32{8, 16, 32}[rng.IntN(3)],
			TargetFootprint: 1 + rng.Uint32N(4<<20),
			PixelSize:       1 + rng.Uint32N(32),
			MaxHorizTiles:   1 + rng.Uint32N(32),
			MaxVertTiles:    1 + rng.Uint32N(32),
		}
		got, err := Calculate(p)
		if err != nil {
			t.Fatalf("Calculate(%+v) error = %v", p, err)
		}
		if got.HorizontalCount > p.MaxHorizTiles || got.VerticalCount > p.MaxVertTiles {
			t.Fatalf("Calculate(%+v) = %v exceeds limits", p, got)
		}
		if got.HorizontalCount == 0 || got.VerticalCount == 0 {
			t.Fatalf("Calculate(%+v) = %v has zero tiles", p, got)
		}

		fbw := divRoundUp(uint64(p.Width), uint64(p.BlockWidth))
		fbh := divRoundUp(uint64(p.Height), uint64(p.BlockHeight))
		blockBytes := uint64(p.PixelSize) * uint64(p.BlockWidth) * uint64(p.BlockHeight)
		target := min(uint64(p.TargetFootprint)/blockBytes, fbw*fbh)
		tw := uint64(got.TileWidth / p.BlockWidth)
		th := uint64(got.TileHeight / p.BlockHeight)
		// Within one tile's slack of the target area.
		if area := tw * th; area+tw+th < target {
			t.Fatalf("Calculate(%+v) = %v: area %d blocks well below target %d", p, got, area, target)
		}
	}
}

func TestSearchDeterministic(t *testing.T) {
	a1, b1 := search(300, 60, 34, 32, 32)
	a2, b2 := search(300, 60, 34, 32, 32)
	if a1 != a2 || b1 != b2 {
		t.Errorf("search not deterministic: %dx%d vs %dx%d", a1, b1, a2, b2)
	}
}
