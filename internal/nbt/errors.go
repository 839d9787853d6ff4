package nbt

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput       = errors.New("empty input")
	ErrCorrupt          = errors.New("corrupt data")
	ErrUnexpectedEOF    = errors.New("unexpected end of data")
	ErrMaxDepthExceeded = errors.New("max nesting depth exceeded")
	ErrInvalidLength    = errors.New("invalid length")
	ErrUnknownTagType   = errors.New("unknown tag type")
	ErrInvalidStructure = errors.New("invalid structure")
)

// OffsetError annotates a decode failure with the byte offset that was
// active when the failure occurred.
type OffsetError struct {
	Offset int
	Err    error
}

func (e *OffsetError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *OffsetError) Unwrap() error { return e.Err }

func errAt(offset int, err error) error {
	return &OffsetError{Offset: offset, Err: err}
}

func errAtf(offset int, sentinel error, format string, args ...any) error {
	return &OffsetError{
		Offset: offset,
		Err:    fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel),
	}
}
