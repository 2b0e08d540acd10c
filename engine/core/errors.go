package core

import "errors"

var (
	// ErrWindowNotInitialized is returned by calls that need an open surface
	// before Start has run.
	ErrWindowNotInitialized = errors.New("core: window not initialized")
	// ErrObjectDisposed is returned by calls made after shutdown.
	ErrObjectDisposed = errors.New("core: object disposed")
	// ErrInvalidArgument covers nil drawables and out-of-range indices.
	ErrInvalidArgument = errors.New("core: invalid argument")
	// ErrUnsupportedOperation is returned when a drawable, button or backend
	// lacks an optional capability.
	ErrUnsupportedOperation = errors.New("core: unsupported operation")
	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("core: already started")
)
