package rlp

// BytesSize returns the encoded size of the byte string b.
func BytesSize(b []byte) int {
	if len(b) == 1 && b[0] < EmptyStringCode {
		return 1
	}
	return LengthOfLength(uint64(len(b))) + len(b)
}

// AppendBytes appends b as an RLP string. A single byte below 0x80 is its own encoding.
func AppendBytes(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < EmptyStringCode {
		return append(dst, b[0])
	}
	dst = Header{PayloadLen: uint64(len(b))}.AppendRLP(dst)
	return append(dst, b...)
}

// StringSize returns the encoded size of s.
func StringSize(s string) int {
	if len(s) == 1 && s[0] < EmptyStringCode {
		return 1
	}
	return LengthOfLength(uint64(len(s))) + len(s)
}

// AppendString appends s as an RLP string.
func AppendString(dst []byte, s string) []byte {
	if len(s) == 1 && s[0] < EmptyStringCode {
		return append(dst, s[0])
	}
	dst = Header{PayloadLen: uint64(len(s))}.AppendRLP(dst)
	return append(dst, s...)
}

// DecodeBytes decodes a string and returns a copy of its payload.
func DecodeBytes(c *Cursor) ([]byte, error) {
	p, err := readString(c)
	if err != nil {
		return nil, err
	}
	b := make([]byte, len(p))
	copy(b, p)
	return b, nil
}

// DecodeBytesRef decodes a string and returns its payload without copying.
// The result aliases the cursor's buffer.
func DecodeBytesRef(c *Cursor) ([]byte, error) {
	return readString(c)
}

// DecodeString decodes a string payload into a Go string.
func DecodeString(c *Cursor) (string, error) {
	p, err := readString(c)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// DecodeFixedBytes decodes a string whose payload must be exactly len(dst) bytes, as
// for [N]byte values. dst is left unchanged on error.
func DecodeFixedBytes(c *Cursor, dst []byte) error {
	p, err := readString(c)
	if err != nil {
		return err
	}
	if len(p) != len(dst) {
		return ErrUnexpectedLength
	}
	copy(dst, p)
	return nil
}

// Bytes is a byte string for composing lists and hand-written aggregates.
type Bytes []byte

// String is a text string encoded as an RLP byte string.
type String string

var (
	_ Item = (*Bytes)(nil)
	_ Item = (*String)(nil)
)

func (b Bytes) Size() int                    { return BytesSize(b) }
func (b Bytes) AppendRLP(dst []byte) []byte  { return AppendBytes(dst, b) }
func (s String) Size() int                   { return StringSize(string(s)) }
func (s String) AppendRLP(dst []byte) []byte { return AppendString(dst, string(s)) }

func (b *Bytes) DecodeRLP(c *Cursor) error {
	v, err := DecodeBytes(c)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

func (s *String) DecodeRLP(c *Cursor) error {
	v, err := DecodeString(c)
	if err != nil {
		return err
	}
	*s = String(v)
	return nil
}
