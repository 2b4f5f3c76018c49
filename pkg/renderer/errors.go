package renderer

import "errors"

var (
	// ErrInvalidConfig is returned when a render configuration cannot produce an image
	ErrInvalidConfig = errors.New("renderer: invalid configuration")

	// ErrInterrupted is returned when a render is cancelled before every tile completes
	ErrInterrupted = errors.New("renderer: render interrupted")
)
