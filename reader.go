package rlp

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMaxItemSize is the item size limit of a Reader created without one.
const DefaultMaxItemSize = 32 << 20

// ReaderOptions configures a Reader. The zero value selects the defaults.
type ReaderOptions struct {
	// MaxItemSize bounds the encoded size of one item, header included.
	// Zero or negative selects DefaultMaxItemSize.
	MaxItemSize int64

	// MaxDepth bounds list nesting in Decode. Zero or negative means unlimited.
	MaxDepth int
}

// Reader reads a stream of concatenated top-level items.
//
// A Reader never reads past the end of the item it returns, so the underlying reader
// can be handed on afterwards. For throughput, pass a reader that implements
// io.ByteReader (such as a *bufio.Reader); otherwise header bytes are read one at a time.
//
// Framing errors are sticky: after one, every read returns it. io.EOF is returned only
// at a clean item boundary; a stream that ends inside an item fails with ErrInputTooShort.
type Reader struct {
	r     io.Reader
	br    io.ByteReader
	opts  ReaderOptions
	count int64 // total bytes read
	items int64 // complete items read
	err   error // first error encountered.
}

// NewReader creates a new Reader with the default options.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderOptions(r, ReaderOptions{})
}

// NewReaderOptions creates a new Reader with the given options.
func NewReaderOptions(r io.Reader, opts ReaderOptions) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if opts.MaxItemSize <= 0 {
		opts.MaxItemSize = DefaultMaxItemSize
	}
	rd := &Reader{r: r, opts: opts}
	if br, ok := r.(io.ByteReader); ok {
		rd.br = br
	} else {
		adapter := &byteReader{r: r}
		rd.r, rd.br = adapter, adapter
	}
	return rd, nil
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Items() int64 { return r.items }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

func (r *Reader) readByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err == nil {
		r.count++
	}
	return b, err
}

func (r *Reader) readFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.count += int64(n)
	return err
}

// truncated converts an end of stream inside an item into ErrInputTooShort.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrInputTooShort, io.ErrUnexpectedEOF)
	}
	return err
}

// readHeader reads the header bytes of the next item into buf and returns them with
// the number of payload bytes still to be read. A literal byte is its own header and
// has no payload left.
func (r *Reader) readHeader(buf *[9]byte) ([]byte, uint64, error) {
	b, err := r.readByte()
	if err != nil {
		return nil, 0, err
	}
	buf[0] = b
	if b < EmptyStringCode {
		return buf[:1], 0, nil
	}

	n := 1
	switch {
	case b > stringLongCode && b < EmptyListCode:
		n += int(b - stringLongCode)
	case b > listLongCode:
		n += int(b - listLongCode)
	}
	if err := r.readFull(buf[1:n]); err != nil {
		return nil, 0, truncated(err)
	}
	c := Cursor{B: buf[:n]}
	h, err := decodeHeaderPrefix(&c)
	if err != nil {
		return nil, 0, err
	}
	return buf[:n], h.PayloadLen, nil
}

func (r *Reader) checkSize(header int, payload uint64) error {
	limit := uint64(r.opts.MaxItemSize)
	if payload > limit || uint64(header)+payload > limit {
		return fmt.Errorf("%w: %d payload bytes, limit %d", ErrItemTooLarge, payload, limit)
	}
	return nil
}

// ReadItem reads the next complete item, header included. The returned slice is owned
// by the caller.
func (r *Reader) ReadItem() (RawValue, error) {
	if r.err != nil {
		return nil, r.err
	}
	var buf [9]byte
	hdr, payload, err := r.readHeader(&buf)
	if err != nil {
		r.setError(err)
		return nil, r.err
	}
	if err := r.checkSize(len(hdr), payload); err != nil {
		r.setError(err)
		return nil, r.err
	}

	item := make(RawValue, len(hdr)+int(payload))
	copy(item, hdr)
	if err := r.readFull(item[len(hdr):]); err != nil {
		r.setError(truncated(err))
		return nil, r.err
	}
	// 0x81 followed by a byte below 0x80 must have been the bare byte
	if len(item) == 2 && item[0] == EmptyStringCode+1 && item[1] < EmptyStringCode {
		r.setError(ErrNonCanonicalSize)
		return nil, r.err
	}
	r.items++
	return item, nil
}

// Skip discards the next item without buffering its payload. Only the header is
// checked; the payload is not validated.
func (r *Reader) Skip() error {
	if r.err != nil {
		return r.err
	}
	var buf [9]byte
	_, payload, err := r.readHeader(&buf)
	if err != nil {
		r.setError(err)
		return r.err
	}
	if payload > uint64(1<<63-1) {
		r.setError(fmt.Errorf("%w: %d payload bytes", ErrItemTooLarge, payload))
		return r.err
	}
	n, err := discard(r.r, int64(payload))
	r.count += n
	if err != nil {
		r.setError(truncated(err))
		return r.err
	}
	r.items++
	return nil
}

// Decode reads the next item and decodes it into the value pointed to by v with the
// reflection codec. A decode failure is returned but is not sticky: the stream is
// still positioned on the next item.
func (r *Reader) Decode(v any) error {
	item, err := r.ReadItem()
	if err != nil {
		return err
	}
	return DecodeOptions{MaxDepth: r.opts.MaxDepth}.Unmarshal(item, v)
}

// DecodeItem reads the next item and decodes it with d, which must consume it exactly.
// Like Decode, a decode failure is not sticky.
func (r *Reader) DecodeItem(d Decoder) error {
	item, err := r.ReadItem()
	if err != nil {
		return err
	}
	c := NewCursor(item)
	if err := d.DecodeRLP(c); err != nil {
		return err
	}
	if n := c.Available(); n > 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, n)
	}
	return nil
}
