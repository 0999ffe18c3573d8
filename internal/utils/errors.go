package utils

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, matching the error taxonomy of kinds (not types):
// every failure path wraps one of these with call-site context via WrapError,
// so callers can branch with errors.Is regardless of wrapping depth.
var (
	ErrIoError              = errors.New("io error")
	ErrInvalidSuperblock    = errors.New("invalid superblock")
	ErrUnsupportedVersion   = errors.New("unsupported version")
	ErrUnsupportedDatatype  = errors.New("unsupported datatype")
	ErrUnsupportedLayout    = errors.New("unsupported layout")
	ErrCorruptHeader        = errors.New("corrupt header")
	ErrCorruptFile          = errors.New("corrupt file")
	ErrNotFound             = errors.New("not found")
	ErrWrongObjectKind      = errors.New("wrong object kind")
	ErrWrongRank            = errors.New("wrong rank")
	ErrValueOutOfRange      = errors.New("value out of range")
	ErrUndefined            = errors.New("undefined")
	ErrNoConverter          = errors.New("no converter")
	ErrUnknownRequiredMsg   = errors.New("unknown required message")
	ErrCyclicContinuation   = errors.New("cyclic continuation")
)

// H5Error represents a structured HDF5 error: a short call-site context
// wrapping a cause, which is often one of the sentinels above.
type H5Error struct {
	Context string
	Cause   error
}

// Error implements the error interface.
func (e *H5Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Context, e.Cause)
}

// WrapError creates a contextual error.
func WrapError(context string, cause error) error {
	if cause == nil {
		return nil
	}
	return &H5Error{
		Context: context,
		Cause:   cause,
	}
}

// Unwrap provides compatibility with errors.Unwrap().
func (e *H5Error) Unwrap() error {
	return e.Cause
}
