package rlp

import "encoding"

// Sizer is an interface for types that can report their encoded size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// Size returns the exact number of bytes AppendRLP appends.
	Size() int
}

// Encoder is implemented by values with a canonical RLP encoding.
//
// Size must equal the number of bytes AppendRLP appends for the same value. List
// headers are computed from Size, so a disagreement corrupts every enclosing list.
type Encoder interface {
	Sizer

	// AppendRLP appends the canonical encoding to dst and returns the extended slice.
	// If cap(dst)-len(dst) >= Size(), it does not allocate.
	AppendRLP(dst []byte) []byte
}

// Decoder is implemented by pointers to values that can be reconstructed from RLP.
type Decoder interface {
	// DecodeRLP consumes exactly the bytes of one encoded value and leaves c on the
	// first unconsumed byte.
	DecodeRLP(c *Cursor) error
}

// MaxSizer is implemented by types whose encoding has a static upper bound.
type MaxSizer interface {
	// MaxSize returns LengthOfLength(L)+L for the largest possible payload L.
	MaxSize() int
}

// FixedEncoder is an Encoder with a static size bound, usable with EncodeFixed.
type FixedEncoder interface {
	Encoder
	MaxSizer
}

// Item is the element constraint of List.
type Item interface {
	Encoder
	Decoder
}

// Codec aggregates all encoding and decoding interfaces.
// A type implementing Codec is a complete, self-sizing RLP encoder/decoder.
type Codec interface {
	Encoder
	Decoder
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}
