package rlp

import (
	"io"
	"reflect"
)

// ListSize returns the encoded size of a list whose items take payload bytes.
func ListSize(payload int) int {
	return LengthOfLength(uint64(payload)) + payload
}

// AppendListHeader appends the header of a list whose items take payload bytes.
func AppendListHeader(dst []byte, payload int) []byte {
	return Header{List: true, PayloadLen: uint64(payload)}.AppendRLP(dst)
}

// listPayload sums the encoded sizes of items.
func listPayload[T Encoder](items []T) int {
	payload := 0
	for _, item := range items {
		payload += item.Size()
	}
	return payload
}

// ListLength returns the encoded size of items as a list.
func ListLength[T Encoder](items []T) int {
	return ListSize(listPayload(items))
}

// AppendList appends items as a list: the header, then each item in order.
func AppendList[T Encoder](dst []byte, items []T) []byte {
	dst = AppendListHeader(dst, listPayload(items))
	for _, item := range items {
		dst = item.AppendRLP(dst)
	}
	return dst
}

// EncodeList returns the encoding of items as a list.
func EncodeList[T Encoder](items []T) []byte {
	return AppendList(make([]byte, 0, ListLength(items)), items)
}

// DecodeList decodes a list of known arity, such as a struct. fn decodes the fields in
// declaration order from c. The fields are not bounded by the list header; afterwards
// the bytes they consumed must equal the declared payload length, so a payload with
// more or fewer fields than fn reads fails with *ListLengthMismatchError.
func DecodeList(c *Cursor, fn func(c *Cursor) error) error {
	h, err := DecodeHeader(c)
	if err != nil {
		return err
	}
	if !h.List {
		return ErrUnexpectedString
	}
	start := c.N
	if err := fn(c); err != nil {
		return err
	}
	if got := uint64(c.N - start); got != h.PayloadLen {
		return &ListLengthMismatchError{Expected: h.PayloadLen, Got: got}
	}
	return nil
}

// DecodeListItems decodes a list of unknown arity. fn is called once per item with a
// cursor bounded to the list payload, until the payload is exactly consumed. An item
// that would overrun the payload fails with ErrInputTooShort.
func DecodeListItems(c *Cursor, fn func(c *Cursor) error) error {
	h, err := DecodeHeader(c)
	if err != nil {
		return err
	}
	if !h.List {
		return ErrUnexpectedString
	}
	sub, err := c.Sub(h.PayloadLen)
	if err != nil {
		return err
	}
	for sub.Available() > 0 {
		before := sub.N
		if err := fn(sub); err != nil {
			return err
		}
		if sub.N == before {
			return &ListLengthMismatchError{Expected: h.PayloadLen, Got: uint64(sub.N)}
		}
	}
	return nil
}

// List is a homogeneous RLP list. T is normally a pointer type such as *Uint64 or a
// pointer to a struct implementing Item.
type List[T Item] struct {
	Items []T
}

// Statically ensure that List implements Codec.
var _ Codec = (*List[*Uint64])(nil)

// NewList creates a new List codec with the given items.
func NewList[T Item](items ...T) *List[T] {
	return &List[T]{Items: items}
}

func (l *List[T]) Len() int { return len(l.Items) }

// Size returns the encoded size of the list, header included.
func (l *List[T]) Size() int {
	return ListLength(l.Items)
}

func (l *List[T]) AppendRLP(dst []byte) []byte {
	return AppendList(dst, l.Items)
}

// DecodeRLP replaces Items with the decoded list. Items is untouched on error.
func (l *List[T]) DecodeRLP(c *Cursor) error {
	var items []T
	err := DecodeListItems(c, func(c *Cursor) error {
		item := newItem[T]()
		if err := item.DecodeRLP(c); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return err
	}
	l.Items = items
	return nil
}

// newItem creates a new instance of the concrete type T for decoding into.
func newItem[T Item]() T {
	var item T
	elemType := reflect.TypeOf(item)
	if elemType != nil && elemType.Kind() == reflect.Pointer {
		return reflect.New(elemType.Elem()).Interface().(T)
	}
	return item
}

// --- Boilerplate implementations ---

func (l *List[T]) MarshalBinary() ([]byte, error) {
	return MarshalBinaryGeneric(l)
}

func (l *List[T]) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(l, data)
}

func (l *List[T]) MarshalTo(buf []byte) (int, error) {
	return MarshalToGeneric(l, buf)
}

func (l *List[T]) WriteTo(w io.Writer) (int64, error) {
	return WriteToGeneric(l, w)
}

func (l *List[T]) ReadFrom(r io.Reader) (int64, error) {
	return ReadFromGeneric(l, r)
}
