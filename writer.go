package rlp

import (
	"bufio"
	"bytes"
	"io"

	"github.com/holiman/uint256"
)

// Writer writes encoded values to a stream. It tracks the first error that occurs;
// after an error, all subsequent write operations become no-ops.
//
// A Writer buffers its output unless the destination already buffers (a *bufio.Writer,
// a *bytes.Buffer or another *Writer). Call Flush or Result when done.
type Writer struct {
	w     io.Writer
	bw    *bufio.Writer // owned buffer; nil when writing straight through
	count int64         // total bytes written
	err   error         // first error encountered. Subsequent writes become no-ops.
}

// NewWriterSize creates a new Writer with a specified buffer size.
// It avoids double-buffering when w already buffers.
func NewWriterSize(w io.Writer, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}

	switch w.(type) {
	case *Writer, *bufio.Writer, *bytes.Buffer:
		return &Writer{w: w}, nil
	}

	// default use bufio
	bw := bufio.NewWriterSize(w, size)
	return &Writer{w: bw, bw: bw}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterSize(w, 0)
}

// Write implements the io.Writer interface. The bytes are written verbatim.
func (w *Writer) Write(buf []byte) (int, error) {
	if len(buf) == 0 || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	w.count += int64(n)
	if err == nil && n < len(buf) {
		err = io.ErrShortWrite
	}
	w.setError(err)
	return n, w.err
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.bw == nil || w.err != nil {
		return w.err
	}
	w.setError(w.bw.Flush())
	return w.err
}

// WriteRaw writes an already encoded value verbatim.
func (w *Writer) WriteRaw(raw RawValue) {
	_, _ = w.Write(raw)
}

// WriteHeader writes a string or list header. The caller writes the payload.
func (w *Writer) WriteHeader(h Header) {
	if w.err != nil {
		return
	}
	var buf [9]byte
	_, _ = w.Write(h.AppendRLP(buf[:0]))
}

// WriteListHeader writes the header of a list whose items take payload bytes.
func (w *Writer) WriteListHeader(payload int) {
	w.WriteHeader(Header{List: true, PayloadLen: uint64(payload)})
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if w.err != nil {
		return
	}
	var buf [1]byte
	_, _ = w.Write(AppendBool(buf[:0], v))
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [9]byte
	_, _ = w.Write(AppendUint(buf[:0], v))
}

func (w *Writer) WriteUint256(v *uint256.Int) {
	if w.err != nil {
		return
	}
	var buf [MaxUint256Size]byte
	_, _ = w.Write(AppendUint256(buf[:0], v))
}

// WriteBytes writes b as a string.
func (w *Writer) WriteBytes(b []byte) {
	if w.err != nil {
		return
	}
	if len(b) == 1 && b[0] < EmptyStringCode {
		_, _ = w.Write(b)
		return
	}
	w.WriteHeader(Header{PayloadLen: uint64(len(b))})
	_, _ = w.Write(b)
}

// WriteString writes s as a string.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if len(s) == 1 && s[0] < EmptyStringCode {
		_, _ = w.Write([]byte{s[0]})
		return
	}
	w.WriteHeader(Header{PayloadLen: uint64(len(s))})
	if w.err != nil || s == "" {
		return
	}
	n, err := io.WriteString(w.w, s)
	w.count += int64(n)
	w.setError(err)
}

// WriteValue encodes v through a pooled scratch buffer and writes it.
func (w *Writer) WriteValue(v Encoder) {
	if w.err != nil {
		return
	}
	if v == nil {
		w.setError(ErrNilValue)
		return
	}
	scratch := getScratch()
	defer putScratch(scratch)

	size := v.Size()
	out := v.AppendRLP((*scratch)[:0])
	*scratch = out
	if len(out) != size {
		w.setError(ErrSizeMismatch)
		return
	}
	_, _ = w.Write(out)
}

// Marshal encodes v with the reflection codec and writes it.
func (w *Writer) Marshal(v any) {
	if w.err != nil {
		return
	}
	scratch := getScratch()
	defer putScratch(scratch)

	out, err := AppendMarshal((*scratch)[:0], v)
	*scratch = out
	if err != nil {
		w.setError(err)
		return
	}
	_, _ = w.Write(out)
}
