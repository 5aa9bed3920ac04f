// Package backend provides a pluggable registry of command emission
// backends.
//
// A backend hands out hwstate.Encoder values. The cache in package hwstate
// decides which state groups to emit and in which order; the encoder
// decides what an emitted group becomes: packed bytes in a command buffer,
// calls on a wgpu render pass, or nothing at all.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The null backend is registered on import of this package; the others
// register when their package is linked in:
//
//	import (
//		_ "github.com/gogpu/hwstate/backend/native"
//		_ "github.com/gogpu/hwstate/batch"
//	)
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	enc, err := b.NewEncoder()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := cache.Flush(enc, hwstate.FlushOptions{}); err != nil {
//		log.Fatal(err)
//	}
//
// # Available Backends
//
// - "batch": packed command buffer plus dynamic state pool
// - "native": replay onto a gogpu/wgpu core render pass
// - "null": counts packets and drops them (always available)
package backend
