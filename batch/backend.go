package batch

import (
	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/backend"
)

// Default sizes used by the registered backend.
const (
	DefaultBufferSize = 64 << 10
	DefaultPoolSize   = 16 << 10
)

// Backend hands out Buffers that share one dynamic state pool.
type Backend struct {
	bufferSize int
	poolSize   int
	pool       *Pool
}

// init registers the batch backend on package import.
func init() {
	backend.Register(backend.BackendBatch, func() backend.EncoderBackend {
		return NewBackend(DefaultBufferSize, DefaultPoolSize)
	})
}

// NewBackend returns a backend whose buffers hold bufferSize bytes and
// whose shared pool holds poolSize bytes.
func NewBackend(bufferSize, poolSize int) *Backend {
	return &Backend{bufferSize: bufferSize, poolSize: poolSize}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return backend.BackendBatch
}

// Init allocates the shared pool.
func (b *Backend) Init() error {
	b.pool = NewPool(b.poolSize)
	return nil
}

// Close drops the pool.
func (b *Backend) Close() {
	b.pool = nil
}

// Pool returns the shared pool, or nil before Init.
func (b *Backend) Pool() *Pool { return b.pool }

// NewEncoder returns an empty Buffer backed by the shared pool.
func (b *Backend) NewEncoder() (hwstate.Encoder, error) {
	if b.pool == nil {
		return nil, backend.ErrNotInitialized
	}
	return New(b.bufferSize, b.pool), nil
}
