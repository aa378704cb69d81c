package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/oy3o/rlp"
)

// node is one decoded item of the input, with its position in the input.
type node struct {
	Kind   rlp.Kind
	Offset int     // offset of the header
	Size   int     // encoded size, header included
	Data   []byte  // content of a byte or string
	Items  []*node // items of a list
}

// parse builds the tree of the first item in b, which starts at offset in the input.
func parse(b []byte, offset, depth, maxDepth int) (*node, []byte, error) {
	kind, content, rest, err := rlp.Split(b)
	if err != nil {
		return nil, b, fmt.Errorf("offset %d: %w", offset, err)
	}
	n := &node{Kind: kind, Offset: offset, Size: len(b) - len(rest)}
	if kind != rlp.KindList {
		n.Data = content
		return n, rest, nil
	}
	if depth++; maxDepth > 0 && depth > maxDepth {
		return nil, b, fmt.Errorf("offset %d: %w", offset, rlp.ErrDepthLimit)
	}
	pos := offset + n.Size - len(content)
	for len(content) > 0 {
		child, next, err := parse(content, pos, depth, maxDepth)
		if err != nil {
			return nil, b, err
		}
		pos += child.Size
		content = next
		n.Items = append(n.Items, child)
	}
	return n, rest, nil
}

// value converts the tree to plain Go values: lists become []any and strings either
// stay []byte or become 0x-prefixed hex text.
func (n *node) value(hexStrings bool) any {
	if n.Kind == rlp.KindList {
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = item.value(hexStrings)
		}
		return items
	}
	if hexStrings {
		return "0x" + hex.EncodeToString(n.Data)
	}
	return n.Data
}

func printable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range string(b) {
		if c == unicode.ReplacementChar || !unicode.IsPrint(c) {
			return false
		}
	}
	return true
}

func writeTree(w io.Writer, n *node, indent int) error {
	pad := strings.Repeat("  ", indent)
	var err error
	switch n.Kind {
	case rlp.KindList:
		_, err = fmt.Fprintf(w, "%slist [%d] @%d (%d bytes)\n", pad, len(n.Items), n.Offset, n.Size)
		for _, item := range n.Items {
			if err != nil {
				break
			}
			err = writeTree(w, item, indent+1)
		}
	case rlp.KindByte:
		_, err = fmt.Fprintf(w, "%sbyte 0x%02x @%d\n", pad, n.Data[0], n.Offset)
	default:
		if printable(n.Data) {
			_, err = fmt.Fprintf(w, "%sstring 0x%x %q @%d\n", pad, n.Data, n.Data, n.Offset)
		} else {
			_, err = fmt.Fprintf(w, "%sstring 0x%x @%d\n", pad, n.Data, n.Offset)
		}
	}
	return err
}

// formatter writes one parsed item in an output format.
type formatter func(w io.Writer, n *node) error

func newFormatter(format string) (formatter, error) {
	switch format {
	case "tree":
		return func(w io.Writer, n *node) error { return writeTree(w, n, 0) }, nil
	case "json":
		return func(w io.Writer, n *node) error {
			return json.NewEncoder(w).Encode(n.value(true))
		}, nil
	case "yaml":
		return func(w io.Writer, n *node) error {
			out, err := yaml.Marshal(n.value(true))
			if err != nil {
				return err
			}
			if _, err := w.Write(append([]byte("---\n"), out...)); err != nil {
				return err
			}
			return nil
		}, nil
	case "cbor", "cbor-diag":
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		diag := format == "cbor-diag"
		return func(w io.Writer, n *node) error {
			out, err := em.Marshal(n.value(false))
			if err != nil {
				return err
			}
			if diag {
				text, err := cbor.Diagnose(out)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, text)
				return err
			}
			_, err = w.Write(out)
			return err
		}, nil
	}
	return nil, fmt.Errorf("unknown format %q (want tree, json, yaml, cbor or cbor-diag)", format)
}
