package native

import (
	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/backend"
)

// Backend hands out replay encoders. Each encoder gets its own RenderPass
// over the attached wgpu pass; with no pass attached the encoders only
// keep a command log.
type Backend struct {
	initialized bool
	pass        Pass
}

// init registers the native backend on package import.
func init() {
	backend.Register(backend.BackendNative, func() backend.EncoderBackend {
		return &Backend{}
	})
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendNative
}

// Init initializes the backend.
func (b *Backend) Init() error {
	b.initialized = true
	return nil
}

// Close detaches the pass.
func (b *Backend) Close() {
	b.pass = nil
	b.initialized = false
}

// SetPass attaches the wgpu pass new encoders replay onto.
func (b *Backend) SetPass(p Pass) { b.pass = p }

// NewEncoder returns a replay encoder over a fresh RenderPass.
func (b *Backend) NewEncoder() (hwstate.Encoder, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	return NewEncoder(NewRenderPass(b.pass)), nil
}
