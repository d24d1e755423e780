package harness

import "errors"

// Common errors.
var (
	ErrInvalidSuite = errors.New("invalid test suite")
	ErrUnknownTest  = errors.New("unknown test")
	ErrDataMismatch = errors.New("reference data mismatch")
	ErrCheckFailed  = errors.New("check failed")
)
