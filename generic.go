package rlp

import (
	"fmt"
	"io"
)

// Encode returns the encoding of v in a buffer of exactly v.Size() bytes.
func Encode(v Encoder) []byte {
	return v.AppendRLP(make([]byte, 0, v.Size()))
}

// Length returns the encoded size of v. It is shorthand for v.Size().
func Length(v Encoder) int {
	return v.Size()
}

// Decode decodes the first value in b into a fresh T and reports how many bytes it
// consumed. Trailing bytes are left to the caller.
func Decode[T any, PT interface {
	*T
	Decoder
}](b []byte) (T, int, error) {
	var v T
	c := NewCursor(b)
	if err := PT(&v).DecodeRLP(c); err != nil {
		var zero T
		return zero, c.Offset(), err
	}
	return v, c.Offset(), nil
}

// DecodeExact is like Decode but requires b to hold exactly one value.
func DecodeExact[T any, PT interface {
	*T
	Decoder
}](b []byte) (T, error) {
	v, n, err := Decode[T, PT](b)
	if err != nil {
		return v, err
	}
	if n < len(b) {
		var zero T
		return zero, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(b)-n)
	}
	return v, nil
}

// MarshalBinaryGeneric provides a generic `encoding.BinaryMarshaler` implementation.
// It also verifies that the encoder honors its own Size.
func MarshalBinaryGeneric[T Encoder](v T) ([]byte, error) {
	expectedSize := v.Size()
	buf := v.AppendRLP(make([]byte, 0, expectedSize))
	if len(buf) != expectedSize {
		return nil, fmt.Errorf("%w: expected %d bytes, but encoded %d", ErrSizeMismatch, expectedSize, len(buf))
	}
	return buf, nil
}

// UnmarshalBinaryGeneric provides a generic `UnmarshalBinary` for Decoders.
// data must hold exactly one value; trailing bytes are rejected to prevent parsing
// ambiguous or potentially malicious payloads. v is decoded into a copy first, so it
// is left untouched on error.
func UnmarshalBinaryGeneric[T any, PT interface {
	*T
	Decoder
}](v PT, data []byte) error {
	tmp, err := DecodeExact[T, PT](data)
	if err != nil {
		return err
	}
	*v = tmp
	return nil
}

// MarshalToGeneric provides a fallback implementation for the MarshalTo method.
// It encodes into p[:0] and fails with io.ErrShortBuffer if p is too small.
func MarshalToGeneric[T Encoder](v T, p []byte) (int, error) {
	size := v.Size()
	if len(p) < size {
		return 0, io.ErrShortBuffer
	}
	out := v.AppendRLP(p[:0])
	if len(out) != size {
		return len(out), fmt.Errorf("%w: expected %d bytes, but encoded %d", ErrSizeMismatch, size, len(out))
	}
	return size, nil
}

// WriteToGeneric provides a generic `io.WriterTo` implementation.
func WriteToGeneric[T Encoder](v T, w io.Writer) (int64, error) {
	wr, err := NewWriter(w)
	if err != nil {
		return 0, err
	}
	wr.WriteValue(v)
	return wr.Result()
}

// ReadFromGeneric provides a generic `io.ReaderFrom` implementation. It reads exactly
// one item from r, with the default item size limit, and decodes it into v.
func ReadFromGeneric[T Decoder](v T, r io.Reader) (int64, error) {
	rd, err := NewReader(r)
	if err != nil {
		return 0, err
	}
	err = rd.DecodeItem(v)
	return rd.Count(), err
}
