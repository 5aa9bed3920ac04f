// Package native replays emitted hardware state onto a gogpu/wgpu render
// pass.
//
// WebGPU exposes a small slice of the dynamic state a Cache tracks: the
// viewport, the scissor rectangle, the blend constant and the stencil
// reference. Encoder translates the records of those groups back into
// render pass calls; every other group is baked into the wgpu pipeline and
// is only counted. Barriers are left to wgpu's own tracking.
//
//	pass := commandEncoder.BeginRenderPass(desc) // *core.CoreRenderPassEncoder
//	enc := native.NewEncoder(native.NewRenderPass(pass))
//	if err := cache.Flush(enc, hwstate.FlushOptions{}); err != nil {
//		return err
//	}
package native
