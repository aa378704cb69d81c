// rlpdump validates RLP input and prints its structure.
//
// Input is read from the named files, or from stdin when none are given. By default the
// whole input must be exactly one canonical item; with --stream it may be any number of
// concatenated items. Output formats:
//
//	tree       indented listing with offsets (default)
//	json       lists as arrays, strings as 0x-prefixed hex
//	yaml       as json, one document per item
//	cbor       deterministic CBOR: lists as arrays, strings as byte strings
//	cbor-diag  the CBOR output in diagnostic notation
package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oy3o/rlp"
)

type config struct {
	hex      bool
	format   string
	maxSize  int64
	maxDepth int
	stream   bool
	verbose  bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cfg config
	flagSet := pflag.NewFlagSet("rlpdump", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&cfg.hex, "hex", false, "input is hex text (whitespace and 0x prefixes are ignored)")
	flagSet.StringVarP(&cfg.format, "format", "f", "tree", "output format: tree, json, yaml, cbor or cbor-diag")
	flagSet.Int64Var(&cfg.maxSize, "max-size", rlp.DefaultMaxItemSize, "maximum encoded size of one item in bytes")
	flagSet.IntVar(&cfg.maxDepth, "max-depth", 256, "maximum list nesting (0 for unlimited)")
	flagSet.BoolVar(&cfg.stream, "stream", false, "input is a sequence of concatenated items")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "log progress to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	logger := newLogger(cfg.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	format, err := newFormatter(cfg.format)
	if err != nil {
		return err
	}

	in, closeInput, err := openInput(flagSet.Args(), stdin)
	if err != nil {
		return err
	}
	defer closeInput()

	if cfg.hex {
		// Size limits apply to the decoded bytes, not to the text.
		in = newHexReader(in)
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	d := &dumper{cfg: cfg, format: format, out: out, logger: logger}
	if cfg.stream {
		err = d.dumpStream(in)
	} else {
		err = d.dumpSingle(in)
	}
	if err != nil {
		logger.Error("invalid input", zap.Error(err))
		return err
	}
	return out.Flush()
}

func newLogger(verbose bool, w io.Writer) *zap.Logger {
	level := zapcore.WarnLevel
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		level = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func openInput(paths []string, stdin io.Reader) (io.Reader, func(), error) {
	if len(paths) == 0 {
		return stdin, func() {}, nil
	}
	readers := make([]io.Reader, 0, len(paths))
	files := make([]*os.File, 0, len(paths))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	return io.MultiReader(readers...), closeAll, nil
}

// readLimited reads all of r, failing with rlp.ErrItemTooLarge past limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w: input exceeds %d bytes", rlp.ErrItemTooLarge, limit)
	}
	return b, nil
}

// hexDigits strips whitespace and the 0x prefix of each word from hex text.
type hexDigits struct {
	r         *bufio.Reader
	wordStart bool
}

func (h *hexDigits) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		c, err := h.r.ReadByte()
		if err != nil {
			return n, err
		}
		switch c {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			h.wordStart = true
			continue
		case '0':
			if h.wordStart {
				if next, err := h.r.Peek(1); err == nil && (next[0] == 'x' || next[0] == 'X') {
					_, _ = h.r.Discard(1)
					h.wordStart = false
					continue
				}
			}
		}
		h.wordStart = false
		p[n] = c
		n++
	}
	return n, nil
}

// hexReader decodes hex text as it is read.
type hexReader struct {
	dec io.Reader
}

func newHexReader(r io.Reader) io.Reader {
	return &hexReader{dec: hex.NewDecoder(&hexDigits{r: bufio.NewReader(r), wordStart: true})}
}

func (h *hexReader) Read(p []byte) (int, error) {
	n, err := h.dec.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("invalid hex input: %w", err)
	}
	return n, err
}

type dumper struct {
	cfg    config
	format formatter
	out    io.Writer
	logger *zap.Logger
}

// dumpSingle requires the whole input to be exactly one item.
func (d *dumper) dumpSingle(in io.Reader) error {
	b, err := readLimited(in, d.cfg.maxSize)
	if err != nil {
		return err
	}
	d.logger.Debug("read input", zap.Int("size", len(b)))
	n, rest, err := parse(b, 0, 0, d.cfg.maxDepth)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("offset %d: %w: %d bytes", n.Size, rlp.ErrTrailingData, len(rest))
	}
	return d.format(d.out, n)
}

// dumpStream prints every item of a stream of concatenated items.
func (d *dumper) dumpStream(in io.Reader) error {
	r, err := rlp.NewReaderOptions(bufio.NewReader(in), rlp.ReaderOptions{
		MaxItemSize: d.cfg.maxSize,
		MaxDepth:    d.cfg.maxDepth,
	})
	if err != nil {
		return err
	}
	for {
		offset := r.Count()
		item, err := r.ReadItem()
		if err == io.EOF {
			d.logger.Debug("end of stream", zap.Int64("items", r.Items()), zap.Int64("bytes", r.Count()))
			return nil
		}
		if err != nil {
			return fmt.Errorf("item %d at offset %d: %w", r.Items(), offset, err)
		}
		d.logger.Debug("read item", zap.Int64("offset", offset), zap.Int("size", len(item)))

		n, _, err := parse(item, int(offset), 0, d.cfg.maxDepth)
		if err != nil {
			return fmt.Errorf("item %d: %w", r.Items()-1, err)
		}
		if err := d.format(d.out, n); err != nil {
			return err
		}
	}
}
