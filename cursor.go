package rlp

// Cursor is a read position over an immutable byte slice. Decoders advance it past
// exactly the bytes that belong to them. A Cursor never copies or modifies B.
type Cursor struct {
	B []byte // source slice
	N int    // current read position
}

// NewCursor creates a new Cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{B: b}
}

// ReadByte implements the [io.ByteReader] interface.
func (c *Cursor) ReadByte() (byte, error) {
	if c.N >= len(c.B) {
		return 0, ErrInputTooShort
	}
	b := c.B[c.N]
	c.N++
	return b, nil
}

// PeekByte returns the next byte without advancing.
func (c *Cursor) PeekByte() (byte, error) {
	if c.N >= len(c.B) {
		return 0, ErrInputTooShort
	}
	return c.B[c.N], nil
}

// Next returns the next n bytes and advances past them. The result aliases B.
func (c *Cursor) Next(n uint64) ([]byte, error) {
	if n > uint64(c.Available()) {
		return nil, ErrInputTooShort
	}
	p := c.B[c.N : c.N+int(n)]
	c.N += int(n)
	return p, nil
}

// Sub returns a cursor bounded to the next n bytes and advances c past them.
func (c *Cursor) Sub(n uint64) (*Cursor, error) {
	p, err := c.Next(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{B: p}, nil
}

// Reset allows the underlying byte slice to be reused.
func (c *Cursor) Reset() { c.N = 0 }

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int { return c.N }

// Size returns the size of the underlying byte slice.
func (c *Cursor) Size() int { return len(c.B) }

// Available returns the number of bytes available for reading.
func (c *Cursor) Available() int {
	length := len(c.B) - c.N
	if length <= 0 {
		return 0
	}
	return length
}

// Rest returns the unread bytes without advancing.
func (c *Cursor) Rest() []byte {
	if c.N >= len(c.B) {
		return nil
	}
	return c.B[c.N:]
}
