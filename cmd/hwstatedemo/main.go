// Command hwstatedemo replays a short state sequence through a cache and
// prints the commands each flush emits.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/backend"
	_ "github.com/gogpu/hwstate/backend/native"
	"github.com/gogpu/hwstate/batch"
	"github.com/gogpu/hwstate/hw"
	"github.com/gogpu/hwstate/shaderinfo"
)

const fragmentWGSL = `
@fragment
fn fs_main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    if (color.a < 0.01) {
        discard;
    }
    return color;
}
`

func main() {
	var (
		name    = flag.String("backend", "", "encoder backend (batch, native, null; empty picks the default)")
		gen     = flag.String("gen", "12.5", "device generation (9, 11, 12, 12.5)")
		verbose = flag.Bool("v", false, "log cache diagnostics to stderr")
	)
	flag.Parse()

	if *verbose {
		hwstate.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	caps, err := capsFor(*gen)
	if err != nil {
		log.Fatal(err)
	}

	b, err := backend.Open(*name)
	if err != nil {
		log.Fatalf("backend %q: %v", *name, err)
	}
	defer b.Close()

	shaders := shaderinfo.NewCache(0)
	frag, err := shaders.Inspect(fragmentWGSL, "")
	if err != nil {
		log.Fatalf("inspect shader: %v", err)
	}
	p := &hwstate.Pipeline{
		Name:   "A",
		Stages: hwstate.StageVertex,
		Packets: map[hw.Group][]byte{
			hw.GroupVS: {0x01},
			hw.GroupPS: {0x02},
		},
		Dynamic:              hwstate.AllDyn(),
		Static:               hwstate.DefaultDynamicState(),
		VertexElements:       1,
		VertexBindings:       1,
		RasterizationSamples: 1,
	}
	frag.Apply(p)

	c := hwstate.New(caps)
	c.BindPipeline(p)
	c.BeginRendering(hwstate.RenderTargets{
		Area: hwstate.Rect2D{Width: 1280, Height: 720},
		Color: []hwstate.Attachment{{
			Format: gputypes.TextureFormatRGBA8Unorm, Width: 1280, Height: 720, BytesPerPixel: 4,
		}},
		Depth: hwstate.Attachment{
			Format: gputypes.TextureFormatDepth32Float, Width: 1280, Height: 720, BytesPerPixel: 4,
		},
		Samples: 1,
	})
	c.SetViewports(viewports(4))
	c.SetScissors(scissors(4))
	c.SetBlendConstants([4]float32{0, 0, 0, 1})

	fmt.Printf("backend %s, %s\n", b.Name(), caps)

	steps := []struct {
		title string
		apply func()
	}{
		{"bind pipeline A", func() {}},
		{"identical blend constant", func() { c.SetBlendConstants([4]float32{0, 0, 0, 1}) }},
		{"viewport count 4 -> 2", func() { c.SetViewports(viewports(2)) }},
		{"viewport count 2 -> 5", func() { c.SetViewports(viewports(5)) }},
	}
	for i, step := range steps {
		step.apply()
		enc, err := b.NewEncoder()
		if err != nil {
			log.Fatalf("new encoder: %v", err)
		}
		tr := &tracer{next: enc}
		if err := c.Flush(tr, hwstate.FlushOptions{}); err != nil {
			log.Fatalf("pass %d: %v", i+1, err)
		}
		fmt.Printf("\npass %d: %s (%d commands)\n", i+1, step.title, len(tr.lines))
		for _, line := range tr.lines {
			fmt.Println("  " + line)
		}
		if buf, ok := enc.(*batch.Buffer); ok {
			fmt.Printf("  -- %d bytes, pool %d bytes\n", buf.Len(), buf.Pool().Used())
		}
	}
}

// tracer forwards to next and keeps one line per call.
type tracer struct {
	next  hwstate.Encoder
	lines []string
}

func (t *tracer) EncodeGroup(g hw.Group, s *hw.State) error {
	t.lines = append(t.lines, g.String())
	return t.next.EncodeGroup(g, s)
}

func (t *tracer) EncodeBarrier(bits hw.PipeBits) error {
	t.lines = append(t.lines, "PIPE_CONTROL "+bits.String())
	return t.next.EncodeBarrier(bits)
}

func (t *tracer) EncodePrimitive(p hw.Primitive3D) error {
	t.lines = append(t.lines, fmt.Sprintf("3DPRIMITIVE %d vertices", p.VertexCountPerInstance))
	return t.next.EncodePrimitive(p)
}

func capsFor(gen string) (hwstate.Caps, error) {
	switch strings.TrimPrefix(gen, "gen") {
	case "9":
		return hwstate.CapsGen9(), nil
	case "11":
		return hwstate.CapsGen11(), nil
	case "12":
		return hwstate.CapsGen12(), nil
	case "12.5", "125":
		return hwstate.CapsGen125(), nil
	}
	return hwstate.Caps{}, fmt.Errorf("unknown generation %q", gen)
}

func viewports(n int) []hwstate.Viewport {
	vps := make([]hwstate.Viewport, n)
	for i := range vps {
		vps[i] = hwstate.Viewport{X: float32(i * 320), Width: 320, Height: 360, MaxDepth: 1}
	}
	return vps
}

func scissors(n int) []hwstate.Rect2D {
	rs := make([]hwstate.Rect2D, n)
	for i := range rs {
		rs[i] = hwstate.Rect2D{X: int32(i * 320), Width: 320, Height: 360}
	}
	return rs
}
