package hwstate

import "errors"

var (
	// ErrNoPipeline is returned by Flush before any pipeline was bound.
	ErrNoPipeline = errors.New("hwstate: no pipeline bound")

	// ErrNilEncoder is returned by Flush when called with a nil encoder.
	ErrNilEncoder = errors.New("hwstate: encoder must not be nil")
)
