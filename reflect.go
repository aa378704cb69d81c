package rlp

import (
	"fmt"
	"reflect"
)

// Marshal returns the canonical encoding of v.
//
// Supported values are bool, unsigned integers, strings, byte slices and byte arrays
// (as strings), other slices and arrays (as lists), structs (as lists of their exported
// fields in declaration order), pointers, uint256.Int and any type implementing Encoder.
// A field tagged `rlp:"-"` is skipped.
//
// A nil pointer encodes as an empty list if its element encodes as a list, and as an
// empty string otherwise. Unmarshal turns that empty value back into a nil pointer.
func Marshal(v any) ([]byte, error) {
	rv, info, err := encodeInfo(v)
	if err != nil {
		return nil, err
	}
	size := info.size(rv)
	out := info.append(make([]byte, 0, size), rv)
	if len(out) != size {
		return nil, fmt.Errorf("%w: %v: size %d, encoded %d", ErrSizeMismatch, rv.Type(), size, len(out))
	}
	return out, nil
}

// AppendMarshal appends the canonical encoding of v to dst.
func AppendMarshal(dst []byte, v any) ([]byte, error) {
	rv, info, err := encodeInfo(v)
	if err != nil {
		return dst, err
	}
	return info.append(dst, rv), nil
}

// SizeOf returns the encoded size of v.
func SizeOf(v any) (int, error) {
	rv, info, err := encodeInfo(v)
	if err != nil {
		return 0, err
	}
	return info.size(rv), nil
}

func encodeInfo(v any) (reflect.Value, *typeinfo, error) {
	if v == nil {
		return reflect.Value{}, nil, ErrNilValue
	}
	rv := reflect.ValueOf(v)
	info := cachedTypeInfo(rv.Type())
	if info.encErr != nil {
		return reflect.Value{}, nil, info.encErr
	}
	return rv, info, nil
}

// DecodeOptions configures the reflection decoder. The zero value imposes no nesting limit.
type DecodeOptions struct {
	// MaxDepth bounds list nesting. Zero or negative means unlimited.
	MaxDepth int
}

// Unmarshal decodes b, which must hold exactly one encoded value, into the value
// pointed to by v. The target is only written if decoding succeeds.
//
// Decode errors are wrapped with the offset at which decoding stopped, so compare
// them with errors.Is rather than ==. Use DecodeValue for the unwrapped error.
func Unmarshal(b []byte, v any) error {
	return DecodeOptions{}.Unmarshal(b, v)
}

// DecodeValue decodes the value at c into the value pointed to by v and advances c
// past it. Bytes after the value are left for the caller.
func DecodeValue(c *Cursor, v any) error {
	return DecodeOptions{}.Decode(c, v)
}

// Unmarshal is like the package-level Unmarshal, with options.
func (o DecodeOptions) Unmarshal(b []byte, v any) error {
	c := NewCursor(b)
	if err := o.Decode(c, v); err != nil {
		return fmt.Errorf("%w (at offset %d)", err, c.Offset())
	}
	if n := c.Available(); n > 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, n)
	}
	return nil
}

// Decode is like DecodeValue, with options.
func (o DecodeOptions) Decode(c *Cursor, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrDecodeTarget
	}
	t := rv.Type().Elem()
	info := cachedTypeInfo(t)
	if info.decErr != nil {
		return info.decErr
	}
	tmp := reflect.New(t).Elem()
	s := decodeState{c: c, maxDepth: o.MaxDepth}
	if err := info.decode(&s, tmp); err != nil {
		return err
	}
	rv.Elem().Set(tmp)
	return nil
}
