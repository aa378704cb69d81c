package rlp

import "fmt"

// RawValue holds one complete encoded value. It is copied into encodings verbatim and
// captured verbatim by decoding, which lets callers defer or skip decoding parts of a
// structure.
type RawValue []byte

var _ Item = (*RawValue)(nil)

func (r RawValue) Size() int                   { return len(r) }
func (r RawValue) AppendRLP(dst []byte) []byte { return append(dst, r...) }

// DecodeRLP captures a copy of the next encoded value, header included.
func (r *RawValue) DecodeRLP(c *Cursor) error {
	start := c.N
	h, err := DecodeHeader(c)
	if err != nil {
		return err
	}
	if _, err := c.Next(h.PayloadLen); err != nil {
		return err
	}
	*r = append(RawValue(nil), c.B[start:c.N]...)
	return nil
}

// Kind is the shape of an encoded value.
type Kind int8

const (
	KindByte Kind = iota
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "Byte"
	case KindString:
		return "String"
	case KindList:
		return "List"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// Split returns the kind and content of the first value in b and the bytes after it.
// For KindByte the content is the byte itself.
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	c := Cursor{B: b}
	h, err := DecodeHeader(&c)
	if err != nil {
		return 0, nil, b, err
	}
	headerLen := c.N
	content, err = c.Next(h.PayloadLen)
	if err != nil {
		return 0, nil, b, err
	}
	switch {
	case h.List:
		k = KindList
	case headerLen == 0:
		k = KindByte
	default:
		k = KindString
	}
	return k, content, b[c.N:], nil
}

// SplitString splits b into the content of a string and any remaining bytes.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k == KindList {
		return nil, b, ErrUnexpectedList
	}
	return content, rest, nil
}

// SplitList splits b into the content of a list and any remaining bytes.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != KindList {
		return nil, b, ErrUnexpectedString
	}
	return content, rest, nil
}

// SplitUint64 decodes an integer at the beginning of b and returns the remaining bytes.
func SplitUint64(b []byte) (x uint64, rest []byte, err error) {
	content, rest, err := SplitString(b)
	if err != nil {
		return 0, b, err
	}
	x, err = uintFromBytes(content, 8)
	if err != nil {
		return 0, b, err
	}
	return x, rest, nil
}

// CountValues counts the encoded values in b, typically the content of a list.
func CountValues(b []byte) (int, error) {
	n := 0
	for ; len(b) > 0; n++ {
		_, _, rest, err := Split(b)
		if err != nil {
			return 0, err
		}
		b = rest
	}
	return n, nil
}

// Validate checks that b holds exactly one canonical value, descending into lists.
func Validate(b []byte) error {
	return DecodeOptions{}.Validate(b)
}

// Validate is like the package-level Validate, with options.
func (o DecodeOptions) Validate(b []byte) error {
	rest, err := o.validate(b, 0)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, len(rest))
	}
	return nil
}

func (o DecodeOptions) validate(b []byte, depth int) ([]byte, error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, err
	}
	if k != KindList {
		return rest, nil
	}
	if depth++; o.MaxDepth > 0 && depth > o.MaxDepth {
		return nil, ErrDepthLimit
	}
	for len(content) > 0 {
		if content, err = o.validate(content, depth); err != nil {
			return nil, err
		}
	}
	return rest, nil
}
