package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for configuration and output.
var (
	// ErrInvalidConfig indicates a run configuration that fails validation.
	ErrInvalidConfig = errors.New("gravsnap: invalid configuration")

	// ErrUnknownLayout indicates an attractor layout name that is not recognised.
	ErrUnknownLayout = errors.New("gravsnap: unknown attractor layout")

	// ErrUnknownPolicy indicates a frame-sequencing policy name that is not recognised.
	ErrUnknownPolicy = errors.New("gravsnap: unknown sequencing policy")

	// ErrUnknownForceLaw indicates a force law name that is not recognised.
	ErrUnknownForceLaw = errors.New("gravsnap: unknown force law")

	// ErrUnknownColorMode indicates a colorization mode name that is not recognised.
	ErrUnknownColorMode = errors.New("gravsnap: unknown color mode")

	// ErrOutputDir indicates a save directory that is missing or not a directory.
	ErrOutputDir = errors.New("gravsnap: bad output directory")

	// ErrSinkClosed is returned by sinks that receive a frame after closing.
	ErrSinkClosed = errors.New("gravsnap: frame sink closed")
)

// FieldError wraps ErrInvalidConfig with the offending field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidConfig
}

// FrameError reports a failure while handing frame Index to a sink.
type FrameError struct {
	Index   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Index, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
