package rlp

import "github.com/holiman/uint256"

// MaxUint256Size is the largest encoded size of a 256-bit integer.
const MaxUint256Size = 1 + 32

// Uint256Size returns the encoded size of v. A nil v encodes as zero.
func Uint256Size(v *uint256.Int) int {
	if v == nil || (v.IsUint64() && v.Uint64() < EmptyStringCode) {
		return 1
	}
	return 1 + v.ByteLen()
}

// AppendUint256 appends the canonical encoding of v. A nil v encodes as zero.
func AppendUint256(dst []byte, v *uint256.Int) []byte {
	if v == nil {
		return append(dst, EmptyStringCode)
	}
	if v.IsUint64() {
		return AppendUint(dst, v.Uint64())
	}
	b := v.Bytes32()
	w := v.ByteLen()
	dst = append(dst, EmptyStringCode+byte(w))
	return append(dst, b[32-w:]...)
}

// DecodeUint256 decodes a canonical integer of at most 32 bytes into dst.
// dst is left unchanged on error.
func DecodeUint256(c *Cursor, dst *uint256.Int) error {
	p, err := readString(c)
	if err != nil {
		return err
	}
	if len(p) > 0 && p[0] == 0 {
		return ErrLeadingZero
	}
	if len(p) > 32 {
		return ErrOverflow
	}
	dst.SetBytes(p)
	return nil
}
