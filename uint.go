package rlp

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// widthOf returns the byte width of T.
func widthOf[T constraints.Unsigned]() int {
	return bits.Len64(uint64(^T(0))) / 8
}

// UintSize returns the encoded size of v.
func UintSize[T constraints.Unsigned](v T) int {
	if v < EmptyStringCode {
		return 1
	}
	return 1 + byteWidth(uint64(v))
}

// MaxUintSize returns the largest encoded size of any value of type T.
func MaxUintSize[T constraints.Unsigned]() int {
	w := widthOf[T]()
	return LengthOfLength(uint64(w)) + w
}

// AppendUint appends the canonical encoding of v: 0x80 for zero, the bare byte below
// 0x80, otherwise a string of the minimal big-endian bytes.
func AppendUint[T constraints.Unsigned](dst []byte, v T) []byte {
	switch {
	case v == 0:
		return append(dst, EmptyStringCode)
	case v < EmptyStringCode:
		return append(dst, byte(v))
	default:
		w := byteWidth(uint64(v))
		dst = append(dst, EmptyStringCode+byte(w))
		return appendBigEndian(dst, uint64(v), w)
	}
}

// DecodeUint decodes a canonical integer that must fit in T.
func DecodeUint[T constraints.Unsigned](c *Cursor) (T, error) {
	v, err := decodeUint(c, widthOf[T]())
	return T(v), err
}

// decodeUint decodes a canonical integer of at most width bytes.
func decodeUint(c *Cursor, width int) (uint64, error) {
	p, err := readString(c)
	if err != nil {
		return 0, err
	}
	return uintFromBytes(p, width)
}

func uintFromBytes(p []byte, width int) (uint64, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if p[0] == 0 {
		return 0, ErrLeadingZero
	}
	if len(p) > width {
		return 0, ErrOverflow
	}
	var v uint64
	for _, b := range p {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// AppendBool appends false as 0x80 and true as 0x01.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 0x01)
	}
	return append(dst, EmptyStringCode)
}

// DecodeBool decodes a boolean. Integers other than 0 and 1 overflow.
func DecodeBool(c *Cursor) (bool, error) {
	v, err := decodeUint(c, 1)
	if err != nil {
		return false, err
	}
	if v > 1 {
		return false, ErrOverflow
	}
	return v == 1, nil
}

// Named unsigned integers for composing lists and hand-written aggregates.
type (
	Uint8  uint8
	Uint16 uint16
	Uint32 uint32
	Uint64 uint64
)

var (
	_ FixedEncoder = Uint8(0)
	_ FixedEncoder = Uint16(0)
	_ FixedEncoder = Uint32(0)
	_ FixedEncoder = Uint64(0)
	_ Decoder      = (*Uint64)(nil)
)

func (u Uint8) Size() int                   { return UintSize(u) }
func (u Uint8) MaxSize() int                { return MaxUintSize[uint8]() }
func (u Uint8) AppendRLP(dst []byte) []byte { return AppendUint(dst, u) }

func (u *Uint8) DecodeRLP(c *Cursor) error {
	v, err := DecodeUint[Uint8](c)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u Uint16) Size() int                   { return UintSize(u) }
func (u Uint16) MaxSize() int                { return MaxUintSize[uint16]() }
func (u Uint16) AppendRLP(dst []byte) []byte { return AppendUint(dst, u) }

func (u *Uint16) DecodeRLP(c *Cursor) error {
	v, err := DecodeUint[Uint16](c)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u Uint32) Size() int                   { return UintSize(u) }
func (u Uint32) MaxSize() int                { return MaxUintSize[uint32]() }
func (u Uint32) AppendRLP(dst []byte) []byte { return AppendUint(dst, u) }

func (u *Uint32) DecodeRLP(c *Cursor) error {
	v, err := DecodeUint[Uint32](c)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

func (u Uint64) Size() int                   { return UintSize(u) }
func (u Uint64) MaxSize() int                { return MaxUintSize[uint64]() }
func (u Uint64) AppendRLP(dst []byte) []byte { return AppendUint(dst, u) }

func (u *Uint64) DecodeRLP(c *Cursor) error {
	v, err := DecodeUint[Uint64](c)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
