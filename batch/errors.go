package batch

import "errors"

// Errors returned by Buffer, Pool and Decode.
var (
	// ErrOutOfSpace is returned when a packet does not fit in the command buffer.
	ErrOutOfSpace = errors.New("batch: command buffer out of space")

	// ErrPoolExhausted is returned when dynamic state does not fit in the pool.
	ErrPoolExhausted = errors.New("batch: dynamic state pool exhausted")

	// ErrCorrupt is returned by Decode for a truncated or malformed stream.
	ErrCorrupt = errors.New("batch: corrupt command stream")
)
