package loader

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidDocument  = errors.New("invalid model document")
	ErrUnsupportedLayer = errors.New("unsupported layer type")
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrMissingTensor    = errors.New("missing tensor")
	ErrUnsupportedDType = errors.New("unsupported dtype")
	ErrOutOfBounds      = errors.New("tensor extends beyond data section")
	ErrHeaderTooLarge   = errors.New("header exceeds maximum size")
)

// LayerError reports a failure while building or filling one layer.
type LayerError struct {
	Index int    // Position of the layer in the model.
	Type  string // Layer type, e.g. "gru".
	Err   error
}

// Error implements the error interface.
func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %d (%s): %v", e.Index, e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *LayerError) Unwrap() error { return e.Err }

func shapeErr(what string, want, got any) error {
	return fmt.Errorf("%w: %s: expected %v, got %v", ErrShapeMismatch, what, want, got)
}
