package native

import "errors"

// Package errors for the native backend.
var (
	// ErrNotInitialized is returned when an encoder is requested before Init.
	ErrNotInitialized = errors.New("native: backend not initialized")

	// ErrPassEnded is returned when commands are recorded on an ended pass.
	ErrPassEnded = errors.New("native: render pass has already ended")

	// ErrNilPass is returned when an encoder is created without a render pass.
	ErrNilPass = errors.New("native: render pass is nil")
)
