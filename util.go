package rlp

import "io"

// Ptr returns a pointer to a copy of v, for building List items inline.
func Ptr[T any](v T) *T { return &v }

// discard skips exactly n bytes of r. It fails with io.EOF if r ends first.
func discard(r io.Reader, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}
	return io.CopyN(io.Discard, r, n)
}

// byteReader adapts an io.Reader to io.ByteReader without read-ahead, so a Reader
// never consumes bytes beyond the item it returns.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReader) Read(p []byte) (int, error) { return b.r.Read(p) }

func (b *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(b.r, b.buf[:]); err != nil {
		return 0, err
	}
	return b.buf[0], nil
}
