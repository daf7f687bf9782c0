package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidRange     = errors.New("invalid n-gram range")
	ErrInsufficientData = errors.New("insufficient data")
	ErrEmptySignal      = errors.New("signal produced no candidates")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrNotFound         = errors.New("not found")
)
