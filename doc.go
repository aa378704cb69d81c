// Package rlp implements the canonical Recursive Length Prefix encoding.
//
// RLP serializes unsigned integers, byte strings, fixed-size byte arrays and ordered
// lists of such values. Every value has exactly one valid encoding, and the decoder
// rejects any input that is not in that form, so two different byte strings never
// decode to the same value.
//
// The first byte of every encoded item selects its class:
//
//	0x00-0x7F  single byte, the value is the byte itself
//	0x80-0xB7  string of 0-55 bytes, length = byte - 0x80
//	0xB8-0xBF  long string, byte - 0xB7 big-endian length bytes follow
//	0xC0-0xF7  list with 0-55 payload bytes, length = byte - 0xC0
//	0xF8-0xFF  long list, byte - 0xF7 big-endian length bytes follow
//
// Types take part in encoding by implementing Encoder (Size and AppendRLP) and
// Decoder (DecodeRLP). Struct types without hand-written methods can use Marshal and
// Unmarshal, which enumerate exported fields in declaration order.
//
// Encoding a value is total: it never fails. Decoding returns the first violated rule
// as one of the Err* sentinels (or *ListLengthMismatchError), unwrapped, so callers can
// compare with errors.Is.
package rlp
