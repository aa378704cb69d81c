package rlp

import (
	"encoding/hex"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// account mirrors a four-field state account: a nonce, a balance and two hashes.
type account struct {
	Nonce       uint8
	Balance     Uint128
	StorageRoot uint256.Int
	CodeHash    uint256.Int
}

const accountHex = "f84d" +
	"05" +
	"8901deadbeefbaadcafe" +
	"a056e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421" +
	"a0c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"

func testAccount() account {
	return account{
		Nonce:       5,
		Balance:     Uint128{Hi: 0x01, Lo: 0xdeadbeefbaadcafe},
		StorageRoot: *uint256.MustFromHex("0x56e81f171bcc55a6ff8345e692c0f86e5b48e01b996cadc001622fb5e363b421"),
		CodeHash:    *uint256.MustFromHex("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
	}
}

func TestMarshalAccount(t *testing.T) {
	acc := testAccount()
	b, err := Marshal(acc)
	require.NoError(t, err)
	assert.Equal(t, accountHex, hex.EncodeToString(b))

	size, err := SizeOf(&acc)
	require.NoError(t, err)
	assert.Equal(t, len(b), size)

	var got account
	require.NoError(t, Unmarshal(b, &got))
	assert.Equal(t, acc, got)
}

type animal struct {
	Name string
}

type tagged struct {
	A      uint16
	Cached string `rlp:"-"`
	hidden uint64
	B      []byte
}

type nested struct {
	Flag   bool
	Items  []animal
	Hash   [4]byte
	Tiny   [1]byte
	Pair   [2]uint32
	Next   *nested
	Raw    RawValue
	Amount *uint256.Int
}

func TestMarshalValues(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want string
	}{
		{"bool true", true, "01"},
		{"bool false", false, "80"},
		{"uint", uint(1024), "820400"},
		{"string", "dog", "83646f67"},
		{"empty string", "", "80"},
		{"bytes", []byte{0xab, 0xba}, "82abba"},
		{"byte array", [3]byte{1, 2, 3}, "83010203"},
		{"single byte array", [1]byte{0x05}, "05"},
		{"single high byte array", [1]byte{0x80}, "8180"},
		{"uint slice", []uint64{0xffccb5, 0xffc0b5}, "c883ffccb583ffc0b5"},
		{"string slice", []string{"cat", "dog"}, "c88363617483646f67"},
		{"empty slice", []uint{}, "c0"},
		{"nil slice", []uint(nil), "c0"},
		{"struct", animal{Name: "dog"}, "c483646f67"},
		{"pointer", &animal{Name: "dog"}, "c483646f67"},
		{"nil pointer", (*animal)(nil), "c0"},
		{"nil uint pointer", (*uint64)(nil), "80"},
		{"tagged", tagged{A: 1, Cached: "x", hidden: 9, B: []byte{2}}, "c20102"},
		{"uint256", uint256.NewInt(0x400), "820400"},
		{"nil uint256", (*uint256.Int)(nil), "80"},
		{"uint128", NewUint128(0x80), "8180"},
		{"raw", RawValue{0xc1, 0xc0}, "c1c0"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Marshal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, hex.EncodeToString(b))

			size, err := SizeOf(tc.in)
			require.NoError(t, err)
			assert.Equal(t, len(b), size)

			appended, err := AppendMarshal([]byte{0xff}, tc.in)
			require.NoError(t, err)
			assert.Equal(t, append([]byte{0xff}, b...), appended)
		})
	}
}

func TestRoundTripNested(t *testing.T) {
	in := nested{
		Flag:  true,
		Items: []animal{{Name: "cat"}, {Name: "dog"}},
		Hash:  [4]byte{0xde, 0xad, 0xbe, 0xef},
		Tiny:  [1]byte{0x7f},
		Pair:  [2]uint32{1, 0xffffffff},
		Next: &nested{
			Items:  []animal{},
			Raw:    RawValue{0x80},
			Amount: uint256.NewInt(0),
		},
		Raw:    RawValue{0xc2, 0x01, 0x02},
		Amount: new(uint256.Int).SetAllOne(),
	}
	b, err := Marshal(&in)
	require.NoError(t, err)

	var got nested
	require.NoError(t, Unmarshal(b, &got))
	assert.Equal(t, in.Flag, got.Flag)
	assert.Equal(t, in.Items, got.Items)
	assert.Equal(t, in.Hash, got.Hash)
	assert.Equal(t, in.Tiny, got.Tiny)
	assert.Equal(t, in.Pair, got.Pair)
	assert.Equal(t, in.Raw, got.Raw)
	assert.Equal(t, in.Amount, got.Amount)
	require.NotNil(t, got.Next)
	assert.Equal(t, RawValue{0x80}, got.Next.Raw)
	assert.True(t, got.Next.Amount.IsZero())
	assert.Nil(t, got.Next.Next)

	again, err := Marshal(&got)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestUnmarshalErrors(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		target any
		err    error
	}{
		{"trailing data", "0102", new(uint8), ErrTrailingData},
		{"overflow", "820100", new(uint8), ErrOverflow},
		{"leading zero", "00", new(uint64), ErrLeadingZero},
		{"list for string", "c0", new(string), ErrUnexpectedList},
		{"string for struct", "83646f67", new(animal), ErrUnexpectedString},
		{"extra field", "c6836361748180", new(animal), ErrListLengthMismatch},
		{"missing field", "c0", new(animal), ErrInputTooShort},
		{"short byte array", "83010203", new([4]byte), ErrUnexpectedLength},
		{"array too long", "c3010203", new([2]uint32), ErrUnexpectedLength},
		{"array too short", "c101", new([2]uint32), ErrUnexpectedLength},
		{"bool overflow", "02", new(bool), ErrOverflow},
		{"wrapped byte", "8105", new([]byte), ErrNonCanonicalSize},
		{"item overruns list", "c2820102", new([]uint64), ErrInputTooShort},
		{"uint256 overflow", "a1" + "01" + hex.EncodeToString(make([]byte, 32)), new(uint256.Int), ErrOverflow},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Unmarshal(unhex(t, tc.input), tc.target)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestUnmarshalLeavesTargetOnError(t *testing.T) {
	got := animal{Name: "cat"}
	err := Unmarshal(unhex(t, "c5836361748180"), &got)
	require.Error(t, err)
	assert.Equal(t, animal{Name: "cat"}, got)
}

func TestUnmarshalTarget(t *testing.T) {
	assert.ErrorIs(t, Unmarshal([]byte{0x80}, animal{}), ErrDecodeTarget)
	assert.ErrorIs(t, Unmarshal([]byte{0x80}, (*animal)(nil)), ErrDecodeTarget)
	assert.ErrorIs(t, Unmarshal([]byte{0x80}, nil), ErrDecodeTarget)
}

func TestUnsupportedTypes(t *testing.T) {
	var unsupported *UnsupportedTypeError
	for _, v := range []any{
		int(1),
		1.5,
		map[string]uint{},
		struct{ F func() }{},
		big.NewInt(1),
		[]chan int{},
	} {
		_, err := Marshal(v)
		assert.ErrorAs(t, err, &unsupported, "%T", v)
	}

	_, err := Marshal(nil)
	assert.ErrorIs(t, err, ErrNilValue)

	_, err = Marshal(struct {
		A uint `rlp:"tail"`
	}{})
	assert.ErrorContains(t, err, "invalid struct tag")
}

func TestUnmarshalErrorOffset(t *testing.T) {
	err := Unmarshal(unhex(t, "820100"), new(uint8))
	require.ErrorIs(t, err, ErrOverflow)
	assert.NotEqual(t, ErrOverflow, err)
	assert.ErrorContains(t, err, "(at offset 3)")

	// DecodeValue returns the rule violation as is.
	err = DecodeValue(NewCursor(unhex(t, "820100")), new(uint8))
	assert.Equal(t, ErrOverflow, err)
}

type withEncoder struct {
	E Encoder
}

func TestInterfaceFieldUnsupported(t *testing.T) {
	var unsupported *UnsupportedTypeError
	for _, v := range []any{
		withEncoder{},
		withEncoder{E: Uint64(1)},
		&withEncoder{},
		[]Encoder{nil},
	} {
		_, err := Marshal(v)
		assert.ErrorAs(t, err, &unsupported, "%T", v)
		_, err = SizeOf(v)
		assert.ErrorAs(t, err, &unsupported, "%T", v)
	}
	assert.ErrorAs(t, Unmarshal(unhex(t, "c101"), new(withEncoder)), &unsupported)
}

// badNode and badLink are recursive types with a field the codec cannot handle.
type badNode struct {
	Next *badNode
	Bad  int
}

type badLink struct {
	Next []badLink
	Bad  int
}

func TestRecursiveUnsupportedField(t *testing.T) {
	var unsupported *UnsupportedTypeError

	// Struct plan first, then the wrappers around it.
	_, err := Marshal(badNode{})
	require.ErrorAs(t, err, &unsupported)
	_, err = SizeOf(&badNode{})
	assert.ErrorAs(t, err, &unsupported)
	_, err = Marshal([]badNode{{}})
	assert.ErrorAs(t, err, &unsupported)
	_, err = Marshal([2]*badNode{})
	assert.ErrorAs(t, err, &unsupported)
	assert.ErrorAs(t, Unmarshal(unhex(t, "c2c080"), new(*badNode)), &unsupported)

	// Wrapper plan first, then the struct.
	_, err = SizeOf([]badLink{{}})
	require.ErrorAs(t, err, &unsupported)
	_, err = Marshal(badLink{})
	assert.ErrorAs(t, err, &unsupported)
	_, err = Marshal(&badLink{Next: []badLink{{}}})
	assert.ErrorAs(t, err, &unsupported)
}

func TestDecodeValueLeavesRest(t *testing.T) {
	c := NewCursor(unhex(t, "c483646f6701"))
	var a animal
	require.NoError(t, DecodeValue(c, &a))
	assert.Equal(t, "dog", a.Name)
	assert.Equal(t, 1, c.Available())
}

// tree is recursive through a slice.
type tree struct {
	Value    uint
	Children []tree
}

func TestRecursiveType(t *testing.T) {
	in := tree{Value: 1, Children: []tree{{Value: 2}, {Value: 3, Children: []tree{{Value: 4}}}}}
	b, err := Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, "cb01c9c202c0c503c3c204c0", hex.EncodeToString(b))

	var got tree
	require.NoError(t, Unmarshal(b, &got))
	assert.Equal(t, uint(4), got.Children[1].Children[0].Value)
}

func TestDepthLimit(t *testing.T) {
	deep := tree{Value: 1, Children: []tree{{Value: 2, Children: []tree{{Value: 3}}}}}
	b, err := Marshal(deep)
	require.NoError(t, err)

	var got tree
	// tree, Children, tree, Children, tree, Children: six levels.
	require.NoError(t, DecodeOptions{MaxDepth: 6}.Unmarshal(b, &got))
	err = DecodeOptions{MaxDepth: 5}.Unmarshal(b, &got)
	assert.ErrorIs(t, err, ErrDepthLimit)
}

func TestConcurrentTypeCache(t *testing.T) {
	type fresh struct {
		A uint32
		B []string
		C *fresh
	}
	in := fresh{A: 1, B: []string{"x"}, C: &fresh{A: 2}}
	want, err := Marshal(in)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := Marshal(in)
			if err == nil && hex.EncodeToString(b) != hex.EncodeToString(want) {
				err = errors.New("encodings differ")
			}
			var out fresh
			if err == nil {
				err = Unmarshal(b, &out)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
}
