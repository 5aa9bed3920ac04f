// Package hwstate is a GPU dynamic state cache and command emission engine.
//
// # Overview
//
// A command-recording layer feeds API-level state changes (blend,
// rasterizer, viewport, depth/stencil, topology) into a Cache. The cache
// translates them into hardware-facing records, keeps the last value of
// each record and tracks which records differ from what the command stream
// holds. A flush serializes only those records, in a fixed order, through
// an Encoder.
//
//	c := hwstate.New(hwstate.CapsGen125())
//	c.BindPipeline(pipeline)
//	c.BeginRendering(targets)
//	c.SetViewports(viewports)
//	c.SetBlendConstants([4]float32{1, 1, 1, 1})
//	if err := c.Flush(enc, hwstate.FlushOptions{}); err != nil {
//	    // the command buffer enc writes into is lost
//	}
//
// # State Groups
//
// Hardware state is split into groups (package hw). Each group is one dirty
// tracking unit and one packet. Records are only ever written through a
// compare-and-set, so writing an unchanged value never dirties anything;
// flushing twice with identical inputs emits nothing the second time.
//
// Viewport and scissor arrays follow a grow-only policy: shrinking the
// array with unchanged leading entries does not re-emit it, growing it
// does.
//
// # Change Propagation
//
// Setters record logical changes only. Flush (or Update) runs the change
// propagation rules in a fixed order; each rule recomputes the records it
// owns when one of its inputs changed.
//
// # Errata
//
// Device generations and their errata are described by Caps. Some errata
// need extra commands around certain groups (stalls, flushes); one needs a
// dummy draw before viewport pointers can be reprogrammed. That sequence is
// driven by a small phase machine (see WorkaroundPhase) that only ever
// touches the dirty set, so the cache's view of the hardware stays correct.
//
// # Logging
//
// The package logs through log/slog. By default nothing is logged; use
// SetLogger or WithLogger to enable output. Debug covers pipeline binds,
// workaround phases and tile decisions; Warn covers encoder failures.
//
// # Thread Safety
//
// A Cache belongs to one recording thread. Caps values are read-only and
// may be shared.
package hwstate
