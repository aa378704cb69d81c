package rlp

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnexpectedString indicates that a list was expected but a string header was found.
	ErrUnexpectedString = errors.New("rlp: expected list, found string")

	// ErrUnexpectedList indicates that a string or scalar was expected but a list header was found.
	ErrUnexpectedList = errors.New("rlp: expected string, found list")

	// ErrListLengthMismatch indicates that the payload length declared by a list header does not
	// match the number of bytes consumed by its items. It is carried by *ListLengthMismatchError.
	ErrListLengthMismatch = errors.New("rlp: list length mismatch")

	// ErrInputTooShort indicates that fewer bytes remain than a header or declared payload requires.
	ErrInputTooShort = errors.New("rlp: input too short")

	// ErrLeadingZero indicates a multi-byte length field or integer payload with a leading zero byte.
	ErrLeadingZero = errors.New("rlp: leading zero byte")

	// ErrNonCanonicalSize indicates a form that is valid but not minimal: a long header for a
	// payload shorter than 56 bytes, or a single byte below 0x80 wrapped in a string header.
	ErrNonCanonicalSize = errors.New("rlp: non-canonical size")

	// ErrOverflow indicates a decoded value that does not fit the target type.
	ErrOverflow = errors.New("rlp: value overflows target type")

	// ErrUnexpectedLength indicates a string whose length differs from a fixed-size target.
	ErrUnexpectedLength = errors.New("rlp: unexpected length for fixed-size value")

	// ErrTrailingData is returned by strict decoders when bytes remain after the top-level item.
	ErrTrailingData = errors.New("rlp: trailing data after value")

	// ErrItemTooLarge is returned by Reader when an item exceeds the configured maximum size.
	ErrItemTooLarge = errors.New("rlp: item exceeds maximum size")

	// ErrDepthLimit is returned when nesting exceeds a caller-provided depth limit.
	ErrDepthLimit = errors.New("rlp: nesting depth limit exceeded")

	// ErrNilIO indicates that NewReader/NewWriter was called with a nil io.Reader/io.Writer.
	ErrNilIO = errors.New("rlp: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeMismatch indicates an Encoder whose Size() disagrees with the bytes it appended.
	// This is always a bug in the Encoder implementation.
	ErrSizeMismatch = errors.New("rlp: encoder size does not match encoded length")

	// ErrNilValue is returned when encoding a nil interface value.
	ErrNilValue = errors.New("rlp: cannot encode nil value")

	// ErrDecodeTarget is returned when the decode target is not a non-nil pointer.
	ErrDecodeTarget = errors.New("rlp: decode target must be a non-nil pointer")

	// ErrUnbounded is returned by MarshalFixed for types without a static size bound.
	ErrUnbounded = errors.New("rlp: type has no static size bound")
)

// ListLengthMismatchError reports a list whose declared payload length differs from the
// bytes its items actually consumed.
type ListLengthMismatchError struct {
	Expected uint64 // payload length declared by the header
	Got      uint64 // bytes consumed by the decoded items
}

func (e *ListLengthMismatchError) Error() string {
	return fmt.Sprintf("rlp: list length mismatch: expected %d, got %d", e.Expected, e.Got)
}

// Is makes errors.Is(err, ErrListLengthMismatch) hold.
func (e *ListLengthMismatchError) Is(target error) bool {
	return target == ErrListLengthMismatch
}

// UnsupportedTypeError is returned by the reflection codec for Go types that have no
// RLP representation.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return "rlp: unsupported type " + e.Type.String()
}
