package chunk

import (
	"errors"
	"fmt"
)

// Errors reported by chunk decoding, validation and serialization.
var (
	// ErrUnknownCritical is returned for an unregistered critical tag.
	ErrUnknownCritical = errors.New("chunk: unknown critical chunk")

	// ErrBadLength is returned when the payload length is not one of the
	// lengths legal for the tag.
	ErrBadLength = errors.New("chunk: invalid payload length")

	// ErrBadField is returned when a field holds an out-of-range value.
	ErrBadField = errors.New("chunk: invalid field value")

	// ErrEntryCount is returned when repeated entries do not tile the
	// payload exactly.
	ErrEntryCount = errors.New("chunk: entries do not match payload length")

	// ErrBadCRC is returned when the stored CRC does not match the payload.
	ErrBadCRC = errors.New("chunk: CRC mismatch")

	// ErrTooLarge is returned when a payload exceeds the length limit.
	ErrTooLarge = errors.New("chunk: payload exceeds maximum length")

	// ErrImageSize is returned when declared image dimensions exceed the
	// configured pixel budget.
	ErrImageSize = errors.New("chunk: image size exceeds limit")

	// ErrCompressed is returned when a compressed field cannot be inflated.
	ErrCompressed = errors.New("chunk: bad compressed field")
)

// Error describes a failure tied to one chunk.
type Error struct {
	Tag    Tag
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Tag)
	}
	return fmt.Sprintf("%v (%s): %s", e.Err, e.Tag, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(tag Tag, err error, format string, args ...any) *Error {
	return &Error{Tag: tag, Err: err, Detail: fmt.Sprintf(format, args...)}
}

func lengthError(tag Tag, n int) *Error {
	return newError(tag, ErrBadLength, "%d bytes", n)
}

func fieldError(tag Tag, field string, v any) *Error {
	return newError(tag, ErrBadField, "%s = %v", field, v)
}
