package rlp

import (
	"fmt"
	"math/big"
	"reflect"
	"sync"

	"github.com/holiman/uint256"
	"github.com/puzpuzpuz/xsync/v4"
)

var (
	encoderType  = reflect.TypeFor[Encoder]()
	decoderType  = reflect.TypeFor[Decoder]()
	maxSizerType = reflect.TypeFor[MaxSizer]()
	uint256Type  = reflect.TypeFor[uint256.Int]()
	bigIntType   = reflect.TypeFor[big.Int]()
)

// typeCache avoids rebuilding field plans with reflection on every call.
// Plans are immutable once stored, so concurrent readers need no locking.
var typeCache = xsync.NewMap[reflect.Type, *typeinfo]()

// typeMu serializes plan generation so that a recursive type resolves to a single plan.
var typeMu sync.Mutex

// typeinfo is the cached encode/decode plan for one Go type.
type typeinfo struct {
	size   func(v reflect.Value) int
	append func(dst []byte, v reflect.Value) []byte
	decode func(s *decodeState, v reflect.Value) error // v is always addressable

	encErr error
	decErr error

	// deps are the plans this one encodes through. Their errors become this plan's
	// errors once generation finishes.
	deps []*typeinfo
}

// decodeState carries the cursor and the optional nesting limit through a decode.
type decodeState struct {
	c        *Cursor
	depth    int
	maxDepth int
}

func (s *decodeState) enter() error {
	s.depth++
	if s.maxDepth > 0 && s.depth > s.maxDepth {
		return ErrDepthLimit
	}
	return nil
}

func (s *decodeState) leave() { s.depth-- }

// cachedTypeInfo returns the plan for t, generating it on first use.
func cachedTypeInfo(t reflect.Type) *typeinfo {
	if info, ok := typeCache.Load(t); ok {
		return info
	}
	typeMu.Lock()
	defer typeMu.Unlock()

	building := make(map[reflect.Type]*typeinfo)
	info := genTypeInfo(t, building)
	propagateErrors(building)
	// Publish only complete plans.
	for bt, bi := range building {
		typeCache.Store(bt, bi)
	}
	return info
}

// propagateErrors copies errors from each plan's dependencies until nothing changes.
// A recursive reference is generated before its target is complete, so errors found
// later in the cycle cannot be copied eagerly.
func propagateErrors(building map[reflect.Type]*typeinfo) {
	for changed := true; changed; {
		changed = false
		for _, info := range building {
			for _, dep := range info.deps {
				if info.encErr == nil && dep.encErr != nil {
					info.encErr, changed = dep.encErr, true
				}
				if info.decErr == nil && dep.decErr != nil {
					info.decErr, changed = dep.decErr, true
				}
			}
		}
	}
}

func genTypeInfo(t reflect.Type, building map[reflect.Type]*typeinfo) *typeinfo {
	if info, ok := typeCache.Load(t); ok {
		return info
	}
	if info, ok := building[t]; ok {
		// Recursive reference; the plan is filled in before it is ever called.
		return info
	}
	info := new(typeinfo)
	building[t] = info
	info.generate(t, building)
	return info
}

func (info *typeinfo) unsupported(t reflect.Type) {
	err := &UnsupportedTypeError{Type: t}
	info.encErr, info.decErr = err, err
}

func (info *typeinfo) generate(t reflect.Type, building map[reflect.Type]*typeinfo) {
	ptr := reflect.PointerTo(t)
	switch {
	case t == uint256Type:
		info.makeUint256()
		return
	case t.Kind() == reflect.Pointer && t.Elem() == uint256Type:
		info.makeUint256Ptr()
		return
	case t == bigIntType, t.Kind() == reflect.Pointer && t.Elem() == bigIntType:
		info.unsupported(t)
		return
	case t.Kind() == reflect.Interface:
		// The dynamic type is unknown here and a nil value has no encoding.
		info.unsupported(t)
		return
	case t.Implements(encoderType), ptr.Implements(encoderType),
		t.Implements(decoderType), ptr.Implements(decoderType):
		info.makeInterface(t)
		return
	}

	switch t.Kind() {
	case reflect.Bool:
		info.makeBool()
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Uintptr:
		info.makeUint(int(t.Size()))
	case reflect.String:
		info.makeString()
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			info.makeByteSlice()
		} else {
			info.makeSlice(t, genTypeInfo(t.Elem(), building))
		}
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			info.makeByteArray(t)
		} else {
			info.makeArray(t, genTypeInfo(t.Elem(), building))
		}
	case reflect.Struct:
		info.makeStruct(t, building)
	case reflect.Pointer:
		info.makePointer(t, genTypeInfo(t.Elem(), building))
	default:
		info.unsupported(t)
	}
}

func (info *typeinfo) makeUint256() {
	info.size = func(v reflect.Value) int {
		x := v.Interface().(uint256.Int)
		return Uint256Size(&x)
	}
	info.append = func(dst []byte, v reflect.Value) []byte {
		x := v.Interface().(uint256.Int)
		return AppendUint256(dst, &x)
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		return DecodeUint256(s.c, v.Addr().Interface().(*uint256.Int))
	}
}

func (info *typeinfo) makeUint256Ptr() {
	info.size = func(v reflect.Value) int {
		return Uint256Size(v.Interface().(*uint256.Int))
	}
	info.append = func(dst []byte, v reflect.Value) []byte {
		return AppendUint256(dst, v.Interface().(*uint256.Int))
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		x := new(uint256.Int)
		if err := DecodeUint256(s.c, x); err != nil {
			return err
		}
		v.Set(reflect.ValueOf(x))
		return nil
	}
}

// makeInterface delegates to the type's own Encoder and Decoder methods. A type that
// implements only one side cannot be used for the other.
func (info *typeinfo) makeInterface(t reflect.Type) {
	ptr := reflect.PointerTo(t)

	switch {
	case t.Kind() == reflect.Pointer && t.Implements(encoderType):
		elem := t.Elem()
		encoder := func(v reflect.Value) Encoder {
			if v.IsNil() {
				return reflect.New(elem).Interface().(Encoder)
			}
			return v.Interface().(Encoder)
		}
		info.size = func(v reflect.Value) int { return encoder(v).Size() }
		info.append = func(dst []byte, v reflect.Value) []byte { return encoder(v).AppendRLP(dst) }
	case t.Implements(encoderType):
		info.size = func(v reflect.Value) int { return v.Interface().(Encoder).Size() }
		info.append = func(dst []byte, v reflect.Value) []byte { return v.Interface().(Encoder).AppendRLP(dst) }
	case ptr.Implements(encoderType):
		encoder := func(v reflect.Value) Encoder {
			if !v.CanAddr() {
				tmp := reflect.New(t)
				tmp.Elem().Set(v)
				return tmp.Interface().(Encoder)
			}
			return v.Addr().Interface().(Encoder)
		}
		info.size = func(v reflect.Value) int { return encoder(v).Size() }
		info.append = func(dst []byte, v reflect.Value) []byte { return encoder(v).AppendRLP(dst) }
	default:
		info.encErr = &UnsupportedTypeError{Type: t}
	}

	switch {
	case ptr.Implements(decoderType):
		info.decode = func(s *decodeState, v reflect.Value) error {
			return v.Addr().Interface().(Decoder).DecodeRLP(s.c)
		}
	case t.Kind() == reflect.Pointer && t.Implements(decoderType):
		elem := t.Elem()
		info.decode = func(s *decodeState, v reflect.Value) error {
			x := reflect.New(elem)
			if err := x.Interface().(Decoder).DecodeRLP(s.c); err != nil {
				return err
			}
			v.Set(x)
			return nil
		}
	default:
		info.decErr = &UnsupportedTypeError{Type: t}
	}
}

func (info *typeinfo) makeBool() {
	info.size = func(reflect.Value) int { return 1 }
	info.append = func(dst []byte, v reflect.Value) []byte { return AppendBool(dst, v.Bool()) }
	info.decode = func(s *decodeState, v reflect.Value) error {
		b, err := DecodeBool(s.c)
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	}
}

func (info *typeinfo) makeUint(width int) {
	info.size = func(v reflect.Value) int { return UintSize(v.Uint()) }
	info.append = func(dst []byte, v reflect.Value) []byte { return AppendUint(dst, v.Uint()) }
	info.decode = func(s *decodeState, v reflect.Value) error {
		x, err := decodeUint(s.c, width)
		if err != nil {
			return err
		}
		v.SetUint(x)
		return nil
	}
}

func (info *typeinfo) makeString() {
	info.size = func(v reflect.Value) int { return StringSize(v.String()) }
	info.append = func(dst []byte, v reflect.Value) []byte { return AppendString(dst, v.String()) }
	info.decode = func(s *decodeState, v reflect.Value) error {
		str, err := DecodeString(s.c)
		if err != nil {
			return err
		}
		v.SetString(str)
		return nil
	}
}

func (info *typeinfo) makeByteSlice() {
	info.size = func(v reflect.Value) int { return BytesSize(v.Bytes()) }
	info.append = func(dst []byte, v reflect.Value) []byte { return AppendBytes(dst, v.Bytes()) }
	info.decode = func(s *decodeState, v reflect.Value) error {
		b, err := DecodeBytes(s.c)
		if err != nil {
			return err
		}
		v.SetBytes(b)
		return nil
	}
}

func (info *typeinfo) makeByteArray(t reflect.Type) {
	n := t.Len()
	info.size = func(v reflect.Value) int {
		if n == 1 && v.Index(0).Uint() < EmptyStringCode {
			return 1
		}
		return LengthOfLength(uint64(n)) + n
	}
	info.append = func(dst []byte, v reflect.Value) []byte {
		if v.CanAddr() {
			return AppendBytes(dst, v.Bytes())
		}
		if n == 1 && v.Index(0).Uint() < EmptyStringCode {
			return append(dst, byte(v.Index(0).Uint()))
		}
		dst = Header{PayloadLen: uint64(n)}.AppendRLP(dst)
		for i := range n {
			dst = append(dst, byte(v.Index(i).Uint()))
		}
		return dst
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		return DecodeFixedBytes(s.c, v.Bytes())
	}
}

func (info *typeinfo) makeSlice(t reflect.Type, elem *typeinfo) {
	info.deps = []*typeinfo{elem}
	info.size = func(v reflect.Value) int {
		payload := 0
		for i := range v.Len() {
			payload += elem.size(v.Index(i))
		}
		return ListSize(payload)
	}
	info.append = func(dst []byte, v reflect.Value) []byte {
		payload := 0
		for i := range v.Len() {
			payload += elem.size(v.Index(i))
		}
		dst = AppendListHeader(dst, payload)
		for i := range v.Len() {
			dst = elem.append(dst, v.Index(i))
		}
		return dst
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		if err := s.enter(); err != nil {
			return err
		}
		defer s.leave()

		out := reflect.MakeSlice(t, 0, 0)
		outer := s.c
		defer func() { s.c = outer }()
		err := DecodeListItems(outer, func(c *Cursor) error {
			s.c = c
			item := reflect.New(t.Elem()).Elem()
			if err := elem.decode(s, item); err != nil {
				return err
			}
			out = reflect.Append(out, item)
			return nil
		})
		if err != nil {
			return err
		}
		v.Set(out)
		return nil
	}
}

// makeArray encodes non-byte arrays as lists that must hold exactly t.Len() items.
func (info *typeinfo) makeArray(t reflect.Type, elem *typeinfo) {
	n := t.Len()
	info.deps = []*typeinfo{elem}
	info.size = func(v reflect.Value) int {
		payload := 0
		for i := range n {
			payload += elem.size(v.Index(i))
		}
		return ListSize(payload)
	}
	info.append = func(dst []byte, v reflect.Value) []byte {
		payload := 0
		for i := range n {
			payload += elem.size(v.Index(i))
		}
		dst = AppendListHeader(dst, payload)
		for i := range n {
			dst = elem.append(dst, v.Index(i))
		}
		return dst
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		if err := s.enter(); err != nil {
			return err
		}
		defer s.leave()

		i := 0
		outer := s.c
		defer func() { s.c = outer }()
		err := DecodeListItems(outer, func(c *Cursor) error {
			if i >= n {
				return ErrUnexpectedLength
			}
			s.c = c
			if err := elem.decode(s, v.Index(i)); err != nil {
				return err
			}
			i++
			return nil
		})
		if err != nil {
			return err
		}
		if i != n {
			return ErrUnexpectedLength
		}
		return nil
	}
}

type field struct {
	index int
	name  string
	info  *typeinfo
}

// structFields returns the indexes of the fields that take part in encoding: exported
// fields in declaration order, minus those tagged `rlp:"-"`.
func structFields(t reflect.Type) ([]int, error) {
	var indexes []int
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		switch tag := f.Tag.Get("rlp"); tag {
		case "":
		case "-":
			continue
		default:
			return nil, fmt.Errorf("rlp: invalid struct tag %q for %v.%s", tag, t, f.Name)
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}

func (info *typeinfo) makeStruct(t reflect.Type, building map[reflect.Type]*typeinfo) {
	indexes, err := structFields(t)
	if err != nil {
		info.encErr, info.decErr = err, err
		return
	}
	fields := make([]field, len(indexes))
	for i, index := range indexes {
		f := t.Field(index)
		fields[i] = field{index: index, name: f.Name, info: genTypeInfo(f.Type, building)}
		info.deps = append(info.deps, fields[i].info)
	}

	payload := func(v reflect.Value) int {
		n := 0
		for _, f := range fields {
			n += f.info.size(v.Field(f.index))
		}
		return n
	}
	info.size = func(v reflect.Value) int { return ListSize(payload(v)) }
	info.append = func(dst []byte, v reflect.Value) []byte {
		dst = AppendListHeader(dst, payload(v))
		for _, f := range fields {
			dst = f.info.append(dst, v.Field(f.index))
		}
		return dst
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		if err := s.enter(); err != nil {
			return err
		}
		defer s.leave()

		return DecodeList(s.c, func(*Cursor) error {
			for _, f := range fields {
				if err := f.info.decode(s, v.Field(f.index)); err != nil {
					return err
				}
			}
			return nil
		})
	}
}

// makePointer encodes a nil pointer as the empty value of its element's shape: 0xC0 for
// structs and lists, 0x80 for everything else. Decoding that empty value yields nil,
// which also terminates self-referential types.
func (info *typeinfo) makePointer(t reflect.Type, elem *typeinfo) {
	info.deps = []*typeinfo{elem}
	nilCode := byte(EmptyStringCode)
	if isListKind(t.Elem()) {
		nilCode = EmptyListCode
	}
	info.size = func(v reflect.Value) int {
		if v.IsNil() {
			return 1
		}
		return elem.size(v.Elem())
	}
	info.append = func(dst []byte, v reflect.Value) []byte {
		if v.IsNil() {
			return append(dst, nilCode)
		}
		return elem.append(dst, v.Elem())
	}
	info.decode = func(s *decodeState, v reflect.Value) error {
		if b, err := s.c.PeekByte(); err == nil && b == nilCode {
			s.c.N++
			v.SetZero()
			return nil
		}
		x := reflect.New(t.Elem())
		if err := elem.decode(s, x.Elem()); err != nil {
			return err
		}
		v.Set(x)
		return nil
	}
}

// isListKind reports whether values of t encode as lists.
func isListKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Struct:
		return t != uint256Type
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() != reflect.Uint8
	}
	return false
}
