package rlp

import (
	"encoding/hex"
	"reflect"
	"strings"
	"testing"

	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Byte-for-byte agreement with go-ethereum on the types both codecs share.

type confAccount struct {
	Nonce   uint64
	Balance *uint256.Int
	Root    [32]byte
	Code    []byte
}

type confHeader struct {
	Parent  [32]byte
	Number  uint64
	Extra   string
	Uncles  []confAccount
	Flags   []bool
	Payload [][]byte
}

func conformanceValues() []any {
	root := [32]byte{0x56, 0xe8, 0x1f, 0x17}
	acc := confAccount{Nonce: 9, Balance: uint256.NewInt(1e18), Root: root, Code: []byte{0x60, 0x80}}
	return []any{
		uint64(0),
		uint64(0x7f),
		uint64(0x80),
		uint64(1 << 40),
		^uint64(0),
		uint32(0xffffffff),
		uint8(0),
		true,
		false,
		"",
		"a",
		"\x80",
		strings.Repeat("x", 55),
		strings.Repeat("x", 56),
		strings.Repeat("y", 1024),
		[]byte{},
		[]byte{0x00},
		[]byte{0x7f},
		[]byte{0xff},
		[20]byte{0x01},
		[1]byte{0x05},
		[]uint64{},
		[]uint64{1, 2, 3, 0x400},
		[]string{"cat", "dog"},
		[][]string{{}, {"a"}, {"b", "c"}},
		uint256.NewInt(0),
		new(uint256.Int).SetAllOne(),
		acc,
		&acc,
		(*confAccount)(nil),
		(*uint64)(nil),
		confHeader{
			Parent:  root,
			Number:  17_000_000,
			Extra:   strings.Repeat("z", 60),
			Uncles:  []confAccount{acc, {Balance: uint256.NewInt(0)}},
			Flags:   []bool{true, false},
			Payload: [][]byte{{1}, {}, []byte(strings.Repeat("p", 70))},
		},
	}
}

func TestConformanceEncode(t *testing.T) {
	for _, v := range conformanceValues() {
		want, err := gethrlp.EncodeToBytes(v)
		require.NoError(t, err, "%T", v)

		got, err := Marshal(v)
		require.NoError(t, err, "%T", v)
		assert.Equal(t, hex.EncodeToString(want), hex.EncodeToString(got), "%T %v", v, v)
	}
}

func TestConformanceDecode(t *testing.T) {
	for _, v := range conformanceValues() {
		typ := reflect.TypeOf(v)
		if typ.Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil() {
			// go-ethereum allocates on decode unless the field carries its "nil" tag.
			continue
		}
		enc, err := gethrlp.EncodeToBytes(v)
		require.NoError(t, err)

		want := reflect.New(typ)
		require.NoError(t, gethrlp.DecodeBytes(enc, want.Interface()), "%T", v)
		got := reflect.New(typ)
		require.NoError(t, Unmarshal(enc, got.Interface()), "%T", v)

		// Compare through the encodings: empty and nil slices decode differently.
		wantEnc, err := gethrlp.EncodeToBytes(want.Interface())
		require.NoError(t, err)
		gotEnc, err := gethrlp.EncodeToBytes(got.Interface())
		require.NoError(t, err)
		assert.Equal(t, wantEnc, gotEnc, "%T", v)
	}
}

func TestConformanceRejects(t *testing.T) {
	testCases := []struct {
		input  string
		target func() any
	}{
		{"00", func() any { return new(uint64) }},
		{"8200ff", func() any { return new(uint64) }},
		{"8105", func() any { return new([]byte) }},
		{"b800", func() any { return new(string) }},
		{"b90038" + strings.Repeat("61", 56), func() any { return new(string) }},
		{"f800", func() any { return new([]uint64) }},
		{"89010000000000000000", func() any { return new(uint64) }},
		{"02", func() any { return new(bool) }},
		{"c0", func() any { return new(string) }},
		{"83646f67", func() any { return new([]string) }},
		{"0102", func() any { return new(uint64) }},
		{"c2820102", func() any { return new([]uint64) }},
	}
	for _, tc := range testCases {
		b := unhex(t, tc.input)
		assert.Error(t, gethrlp.DecodeBytes(b, tc.target()), "go-ethereum accepted %s", tc.input)
		assert.Error(t, Unmarshal(b, tc.target()), "accepted %s", tc.input)
	}
}

func TestConformanceSplit(t *testing.T) {
	b, err := gethrlp.EncodeToBytes([]any{"cat", uint64(1024), []string{"x"}})
	require.NoError(t, err)

	wantContent, wantRest, err := gethrlp.SplitList(b)
	require.NoError(t, err)
	content, rest, err := SplitList(b)
	require.NoError(t, err)
	assert.Equal(t, wantContent, content)
	assert.Equal(t, wantRest, rest)

	wantN, err := gethrlp.CountValues(content)
	require.NoError(t, err)
	n, err := CountValues(content)
	require.NoError(t, err)
	assert.Equal(t, wantN, n)
}
