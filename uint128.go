package rlp

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// Uint128 is an unsigned 128-bit integer, encoded like any other fixed-width integer.
type Uint128 struct {
	Hi, Lo uint64
}

var (
	_ FixedEncoder = Uint128{}
	_ Codec        = (*Uint128)(nil)
)

// NewUint128 returns v as a Uint128.
func NewUint128(v uint64) Uint128 { return Uint128{Lo: v} }

func (u Uint128) IsZero() bool { return u.Hi == 0 && u.Lo == 0 }

// BitLen returns the number of bits required to represent u.
func (u Uint128) BitLen() int {
	if u.Hi != 0 {
		return 64 + bits.Len64(u.Hi)
	}
	return bits.Len64(u.Lo)
}

// Bytes16 returns the big-endian representation of u.
func (u Uint128) Bytes16() [16]byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], u.Hi)
	binary.BigEndian.PutUint64(b[8:], u.Lo)
	return b
}

func (u Uint128) String() string {
	if u.Hi == 0 {
		return fmt.Sprintf("%#x", u.Lo)
	}
	return fmt.Sprintf("%#x%016x", u.Hi, u.Lo)
}

func (u Uint128) Size() int {
	if u.Hi == 0 && u.Lo < EmptyStringCode {
		return 1
	}
	return 1 + (u.BitLen()+7)/8
}

func (u Uint128) MaxSize() int { return LengthOfLength(16) + 16 }

func (u Uint128) AppendRLP(dst []byte) []byte {
	if u.Hi == 0 {
		return AppendUint(dst, u.Lo)
	}
	b := u.Bytes16()
	w := (u.BitLen() + 7) / 8
	dst = append(dst, EmptyStringCode+byte(w))
	return append(dst, b[16-w:]...)
}

func (u *Uint128) DecodeRLP(c *Cursor) error {
	p, err := readString(c)
	if err != nil {
		return err
	}
	if len(p) > 0 && p[0] == 0 {
		return ErrLeadingZero
	}
	if len(p) > 16 {
		return ErrOverflow
	}
	var b [16]byte
	copy(b[16-len(p):], p)
	u.Hi = binary.BigEndian.Uint64(b[:8])
	u.Lo = binary.BigEndian.Uint64(b[8:])
	return nil
}

func (u *Uint128) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(u)
}

func (u *Uint128) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(u, data)
}

func (u *Uint128) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(u, buf)
}

func (u *Uint128) WriteTo(w io.Writer) (int64, error) {
	return WriteToGeneric(u, w)
}

func (u *Uint128) ReadFrom(r io.Reader) (int64, error) {
	return ReadFromGeneric(u, r)
}
