package backend

import (
	"errors"

	"github.com/gogpu/hwstate"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when an encoder is requested before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend name constants.
const (
	// BackendBatch is the name of the packet-writing backend (package batch).
	BackendBatch = "batch"
	// BackendNative is the name of the wgpu core replay backend.
	BackendNative = "native"
	// BackendNull is the name of the backend that counts and drops packets.
	BackendNull = "null"
)

// EncoderBackend is the interface for command emission backends.
// A backend owns whatever storage its encoders write into and hands out
// hwstate.Encoder values that a Cache flushes through.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type EncoderBackend interface {
	// Name returns the backend identifier (e.g., "batch", "native").
	Name() string

	// Init prepares the backend. It must be called before NewEncoder.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// NewEncoder returns an encoder for one command buffer.
	NewEncoder() (hwstate.Encoder, error)
}
