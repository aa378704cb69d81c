package rlp

import "math/bits"

const (
	// EmptyStringCode is the encoding of the empty string and of integer zero.
	EmptyStringCode = 0x80
	// EmptyListCode is the encoding of the empty list.
	EmptyListCode = 0xC0

	stringLongCode = 0xB7
	listLongCode   = 0xF7

	// payloads shorter than this use the single-byte header form
	shortLimit = 56
)

// Header is the length prefix in front of every string and list payload.
type Header struct {
	List       bool   // list header (0xC0-0xFF) rather than string header (0x80-0xBF)
	PayloadLen uint64 // bytes following the header, not counting the header itself
}

// LengthOfLength returns the size of the header for a payload of n bytes.
func LengthOfLength(n uint64) int {
	if n < shortLimit {
		return 1
	}
	return 1 + byteWidth(n)
}

// byteWidth returns the number of bytes of the minimal big-endian form of v.
func byteWidth(v uint64) int {
	return (bits.Len64(v) + 7) / 8
}

// appendBigEndian appends the low w bytes of v, most significant first.
func appendBigEndian(dst []byte, v uint64, w int) []byte {
	for i := w - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

// Size returns the encoded size of the header alone.
func (h Header) Size() int {
	return LengthOfLength(h.PayloadLen)
}

// AppendRLP appends the encoded header to dst.
func (h Header) AppendRLP(dst []byte) []byte {
	if h.PayloadLen < shortLimit {
		code := byte(EmptyStringCode)
		if h.List {
			code = EmptyListCode
		}
		return append(dst, code+byte(h.PayloadLen))
	}
	code := byte(stringLongCode)
	if h.List {
		code = listLongCode
	}
	w := byteWidth(h.PayloadLen)
	dst = append(dst, code+byte(w))
	return appendBigEndian(dst, h.PayloadLen, w)
}

// DecodeHeader reads a header from c.
//
// A single byte below 0x80 is its own payload: DecodeHeader reports it as a string of
// length one and leaves the cursor on that byte.
func DecodeHeader(c *Cursor) (Header, error) {
	start := c.N
	h, err := decodeHeaderPrefix(c)
	if err != nil {
		return h, err
	}
	// 0x81 followed by a byte below 0x80 must have been the bare byte
	if !h.List && h.PayloadLen == 1 && c.N != start {
		b, err := c.PeekByte()
		if err != nil {
			return h, err
		}
		if b < EmptyStringCode {
			return h, ErrNonCanonicalSize
		}
	}
	return h, nil
}

// PeekHeader decodes the header at the cursor without advancing. It also returns the
// size of the header in bytes (zero for a single literal byte).
func PeekHeader(c *Cursor) (Header, int, error) {
	tmp := *c
	h, err := DecodeHeader(&tmp)
	return h, tmp.N - c.N, err
}

// decodeHeaderPrefix decodes the header bytes only. The single-byte canonical check
// needs the first payload byte and is left to the caller.
func decodeHeaderPrefix(c *Cursor) (Header, error) {
	b, err := c.PeekByte()
	if err != nil {
		return Header{}, err
	}
	switch {
	case b < EmptyStringCode:
		return Header{PayloadLen: 1}, nil
	case b <= stringLongCode:
		c.N++
		return Header{PayloadLen: uint64(b - EmptyStringCode)}, nil
	case b < EmptyListCode:
		c.N++
		n, err := readLength(c, int(b-stringLongCode))
		return Header{PayloadLen: n}, err
	case b <= listLongCode:
		c.N++
		return Header{List: true, PayloadLen: uint64(b - EmptyListCode)}, nil
	default:
		c.N++
		n, err := readLength(c, int(b-listLongCode))
		return Header{List: true, PayloadLen: n}, err
	}
}

// readLength reads the w-byte big-endian length field of a long header.
func readLength(c *Cursor, w int) (uint64, error) {
	p, err := c.Next(uint64(w))
	if err != nil {
		return 0, err
	}
	if p[0] == 0 {
		return 0, ErrLeadingZero
	}
	var n uint64
	for _, b := range p {
		n = n<<8 | uint64(b)
	}
	if n < shortLimit {
		return 0, ErrNonCanonicalSize
	}
	return n, nil
}

// readString reads a string header and returns its payload, aliasing the input.
func readString(c *Cursor) ([]byte, error) {
	h, err := DecodeHeader(c)
	if err != nil {
		return nil, err
	}
	if h.List {
		return nil, ErrUnexpectedList
	}
	return c.Next(h.PayloadLen)
}
