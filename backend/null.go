package backend

import (
	"github.com/gogpu/hwstate"
	"github.com/gogpu/hwstate/hw"
)

// NullBackend hands out encoders that count what they are given and keep
// nothing. It is always registered and is the fallback when no other
// backend is linked in.
type NullBackend struct {
	initialized bool
}

// init registers the null backend on package import.
func init() {
	Register(BackendNull, func() EncoderBackend {
		return &NullBackend{}
	})
}

// NewNullBackend creates a new null backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{}
}

// Name returns the backend identifier.
func (b *NullBackend) Name() string {
	return BackendNull
}

// Init initializes the backend.
func (b *NullBackend) Init() error {
	b.initialized = true
	return nil
}

// Close releases all backend resources.
func (b *NullBackend) Close() {
	b.initialized = false
}

// NewEncoder returns a fresh counting encoder.
func (b *NullBackend) NewEncoder() (hwstate.Encoder, error) {
	if !b.initialized {
		return nil, ErrNotInitialized
	}
	return &CountingEncoder{}, nil
}

// CountingEncoder is an hwstate.Encoder that only counts calls.
type CountingEncoder struct {
	Groups     [hw.GroupCount]int
	Barriers   int
	Primitives int
}

// EncodeGroup counts one packet of group g.
func (e *CountingEncoder) EncodeGroup(g hw.Group, _ *hw.State) error {
	e.Groups[g]++
	return nil
}

// EncodeBarrier counts one barrier.
func (e *CountingEncoder) EncodeBarrier(hw.PipeBits) error {
	e.Barriers++
	return nil
}

// EncodePrimitive counts one draw.
func (e *CountingEncoder) EncodePrimitive(hw.Primitive3D) error {
	e.Primitives++
	return nil
}

// Packets returns the total number of group packets seen.
func (e *CountingEncoder) Packets() int {
	n := 0
	for _, c := range e.Groups {
		n += c
	}
	return n
}
