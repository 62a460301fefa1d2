package game

import "errors"

// Failures returned by the engine and the services built on it.
// Detail is attached with fmt.Errorf("%w: ...") so callers match with errors.Is.
var (
	ErrNotFound     = errors.New("room not found")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("concurrent update conflict")
)
