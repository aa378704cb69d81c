package rlp

import (
	"fmt"
	"io"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// maxSizeCache avoids walking a type with reflection on every bound lookup.
// A negative entry means the type has no static bound.
var maxSizeCache = xsync.NewMap[reflect.Type, int]()

// MaxListSize returns the largest encoded size of a list whose items have the given
// bounds: LengthOfLength(sum) + sum.
func MaxListSize(bounds ...int) int {
	sum := 0
	for _, b := range bounds {
		sum += b
	}
	return ListSize(sum)
}

// MaxSizeOf returns the static upper bound of the encoded size of any value of type t.
// ok is false for types whose size is unbounded: strings, slices, recursive types and
// Encoders that do not implement MaxSizer.
//
// The result is cached, so only the first call for a type pays for reflection.
func MaxSizeOf(t reflect.Type) (n int, ok bool) {
	if n, ok := maxSizeCache.Load(t); ok {
		return n, n >= 0
	}
	n = maxSize(t, make(map[reflect.Type]bool))
	maxSizeCache.Store(t, n)
	return n, n >= 0
}

// MaxSizeFor is the generic form of MaxSizeOf.
func MaxSizeFor[T any]() (int, bool) {
	return MaxSizeOf(reflect.TypeFor[T]())
}

func maxSize(t reflect.Type, seen map[reflect.Type]bool) int {
	if seen[t] {
		return -1
	}
	seen[t] = true
	defer delete(seen, t)

	switch {
	case t == uint256Type, t.Kind() == reflect.Pointer && t.Elem() == uint256Type:
		return MaxUint256Size
	case t == bigIntType, t.Kind() == reflect.Pointer && t.Elem() == bigIntType:
		return -1
	case reflect.PointerTo(t).Implements(maxSizerType):
		return reflect.New(t).Interface().(MaxSizer).MaxSize()
	case t.Kind() == reflect.Pointer && t.Implements(maxSizerType):
		return reflect.New(t.Elem()).Interface().(MaxSizer).MaxSize()
	case t.Implements(encoderType), reflect.PointerTo(t).Implements(encoderType):
		return -1
	}

	switch t.Kind() {
	case reflect.Bool:
		return 1
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Uintptr:
		w := int(t.Size())
		return LengthOfLength(uint64(w)) + w
	case reflect.Array:
		n := t.Len()
		if t.Elem().Kind() == reflect.Uint8 {
			return LengthOfLength(uint64(n)) + n
		}
		elem := maxSize(t.Elem(), seen)
		if elem < 0 {
			return -1
		}
		return ListSize(elem * n)
	case reflect.Struct:
		indexes, err := structFields(t)
		if err != nil {
			return -1
		}
		bounds := make([]int, len(indexes))
		for i, index := range indexes {
			if bounds[i] = maxSize(t.Field(index).Type, seen); bounds[i] < 0 {
				return -1
			}
		}
		return MaxListSize(bounds...)
	case reflect.Pointer:
		return maxSize(t.Elem(), seen)
	}
	return -1
}

// EncodeFixed encodes v into buf without allocating. buf must have a capacity of at
// least v.MaxSize(); its length is ignored. The returned slice aliases buf and has no
// spare capacity, so appending to it cannot overwrite bytes past the encoding.
func EncodeFixed[T FixedEncoder](v T, buf []byte) ([]byte, error) {
	bound := v.MaxSize()
	if cap(buf) < bound {
		return nil, io.ErrShortBuffer
	}
	out := v.AppendRLP(buf[:0])
	n := len(out)
	if n > bound {
		return nil, fmt.Errorf("%w: %d bytes exceed bound %d", ErrSizeMismatch, n, bound)
	}
	return out[:n:n], nil
}

// NewFixedBuffer returns an empty buffer whose capacity is the bound of T, ready for
// EncodeFixed or MarshalFixed. ok is false if T has no static bound.
func NewFixedBuffer[T any]() (buf []byte, ok bool) {
	n, ok := MaxSizeFor[T]()
	if !ok {
		return nil, false
	}
	return make([]byte, 0, n), true
}

// MarshalFixed is the reflective form of EncodeFixed for any value whose type has a
// static bound (see MaxSizeOf).
func MarshalFixed(v any, buf []byte) ([]byte, error) {
	rv, info, err := encodeInfo(v)
	if err != nil {
		return nil, err
	}
	bound, ok := MaxSizeOf(rv.Type())
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnbounded, rv.Type())
	}
	if cap(buf) < bound {
		return nil, io.ErrShortBuffer
	}
	out := info.append(buf[:0], rv)
	n := len(out)
	if n > bound {
		return nil, fmt.Errorf("%w: %d bytes exceed bound %d", ErrSizeMismatch, n, bound)
	}
	return out[:n:n], nil
}
