// Package source opens the input streams merged by imex.
//
// Every stream here yields strings and reports read failures through Err,
// which imex.Streams turns into a fatal STREAM_READ_FAILED error instead of
// silent exhaustion.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/imex/internal/imex"
)

// Split selects how an input is cut into items.
type Split string

const (
	// SplitLines yields one item per line, without the line terminator.
	SplitLines Split = "lines"
	// SplitChars yields one item per UTF-8 encoded rune.
	SplitChars Split = "chars"
)

// ParseSplit validates a split mode name. The empty string means lines.
func ParseSplit(s string) (Split, error) {
	switch Split(s) {
	case "", SplitLines:
		return SplitLines, nil
	case SplitChars:
		return SplitChars, nil
	default:
		return "", fmt.Errorf("unknown split mode %q: must be %q or %q", s, SplitLines, SplitChars)
	}
}

// Default maximum item size; bufio.Scanner's own default is 64KiB.
const defaultMaxItemSize = 1024 * 1024

type options struct {
	normalize   bool
	maxItemSize int
}

// Option configures a scanned stream.
type Option func(*options)

// WithNormalize applies Unicode NFC normalization to every item.
func WithNormalize() Option {
	return func(o *options) { o.normalize = true }
}

// WithMaxItemSize bounds the size of a single item in bytes.
// n <= 0 keeps the default.
func WithMaxItemSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxItemSize = n
		}
	}
}

// ScanStream is a forward-only stream over a reader.
//
// A leading byte order mark is honoured: a UTF-8 BOM is dropped and UTF-16
// input is decoded to UTF-8.
type ScanStream struct {
	sc        *bufio.Scanner
	normalize bool
	err       error
	done      bool
}

var _ imex.Stream[string] = (*ScanStream)(nil)

// Lines returns a stream yielding one item per line of r.
// Both "\n" and "\r\n" terminate a line.
func Lines(r io.Reader, opts ...Option) *ScanStream {
	return newScanStream(r, bufio.ScanLines, opts)
}

// Runes returns a stream yielding one item per rune of r.
func Runes(r io.Reader, opts ...Option) *ScanStream {
	return newScanStream(r, bufio.ScanRunes, opts)
}

// New returns a stream over r cut according to split.
func New(r io.Reader, split Split, opts ...Option) *ScanStream {
	if split == SplitChars {
		return Runes(r, opts...)
	}
	return Lines(r, opts...)
}

func newScanStream(r io.Reader, split bufio.SplitFunc, opts []Option) *ScanStream {
	o := options{maxItemSize: defaultMaxItemSize}
	for _, opt := range opts {
		opt(&o)
	}

	decoded := transform.NewReader(r, xunicode.BOMOverride(transform.Nop))
	sc := bufio.NewScanner(decoded)
	sc.Buffer(make([]byte, 0, min(4096, o.maxItemSize)), o.maxItemSize)
	sc.Split(split)

	return &ScanStream{sc: sc, normalize: o.normalize}
}

// Next implements imex.Stream.
func (s *ScanStream) Next() (string, bool) {
	if s.done {
		return "", false
	}
	if !s.sc.Scan() {
		s.done = true
		s.err = s.sc.Err()
		return "", false
	}
	item := s.sc.Text()
	if s.normalize {
		item = norm.NFC.String(item)
	}
	return item, true
}

// Err returns the read error that ended the stream, if any.
func (s *ScanStream) Err() error {
	return s.err
}

// Chars returns a stream over the runes of s.
func Chars(s string, opts ...Option) *ScanStream {
	return Runes(strings.NewReader(s), opts...)
}

// Files is a set of opened input files.
type Files struct {
	Paths   []string
	Streams []imex.Stream[string]
	closers []io.Closer
}

// Close closes every opened file.
func (f *Files) Close() error {
	var errs []error
	for _, c := range f.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	f.closers = nil
	return errors.Join(errs...)
}

// OpenFiles opens each path as a stream, in order. The path "-" reads stdin
// and may appear at most once. On error, files opened so far are closed.
func OpenFiles(paths []string, split Split, stdin io.Reader, opts ...Option) (*Files, error) {
	files := &Files{Paths: paths}
	usedStdin := false

	for _, path := range paths {
		if path == "-" {
			if usedStdin {
				files.Close()
				return nil, errors.New("standard input (-) can only be used once")
			}
			usedStdin = true
			files.Streams = append(files.Streams, New(stdin, split, opts...))
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			files.Close()
			return nil, fmt.Errorf("open input: %w", err)
		}
		files.closers = append(files.closers, f)
		files.Streams = append(files.Streams, New(f, split, opts...))
	}

	return files, nil
}
