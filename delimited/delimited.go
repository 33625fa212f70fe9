// Package delimited reads tab or comma separated text files into objects,
// one object per line.
package delimited

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/randeepbydesign/readfilesfast/internal/logging"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrSourceUnavailable indicates the file could not be opened or read.
var ErrSourceUnavailable = errors.New("source unavailable")

// Separator is the field delimiter of a file.
type Separator rune

const (
	Tab   Separator = '\t'
	Comma Separator = ','
)

// ParseSeparator accepts "tab", "comma", "\t" or ",".
func ParseSeparator(s string) (Separator, error) {
	if s == "\t" {
		return Tab, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tab", `\t`, "tsv":
		return Tab, nil
	case "comma", ",", "csv":
		return Comma, nil
	}
	return 0, fmt.Errorf("unknown separator %q", s)
}

// LineMapper converts the fields of one line into a T.
type LineMapper[T any] func(fields []string) (T, error)

// LineError reports the line a mapping failure happened on.
type LineError struct {
	Line int // 1-based line of the record in the file
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

type options struct {
	separator  Separator
	skipHeader bool
	encoding   encoding.Encoding
	logger     *zap.Logger
}

// Option configures a Source.
type Option func(*options)

// WithSeparator sets the field delimiter (default: Tab).
func WithSeparator(sep Separator) Option {
	return func(o *options) { o.separator = sep }
}

// WithSkipHeader discards the first line.
func WithSkipHeader() Option {
	return func(o *options) { o.skipHeader = true }
}

// WithEncoding decodes the file from enc instead of UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(o *options) { o.encoding = enc }
}

// WithLogger sets the logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Encoding resolves a charset name to an encoding. Empty and "utf-8" mean
// UTF-8 with an optional byte order mark.
func Encoding(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "latin1", "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "iso-8859-15", "latin-9":
		return charmap.ISO8859_15, nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252, nil
	case "utf-16", "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM), nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}

// Source reads a delimited text file.
type Source[T any] struct {
	name   string
	open   func() (io.ReadCloser, error)
	mapper LineMapper[T]
	opts   options
}

// NewSource creates a Source for the file at path.
func NewSource[T any](path string, mapper LineMapper[T], opts ...Option) *Source[T] {
	return newSource(path, func() (io.ReadCloser, error) { return os.Open(path) }, mapper, opts)
}

// NewReaderSource creates a Source over r. r is consumed by the first run.
func NewReaderSource[T any](r io.Reader, mapper LineMapper[T], opts ...Option) *Source[T] {
	return newSource("<reader>", func() (io.ReadCloser, error) { return io.NopCloser(r), nil }, mapper, opts)
}

func newSource[T any](name string, open func() (io.ReadCloser, error), mapper LineMapper[T], opts []Option) *Source[T] {
	o := options{separator: Tab}
	for _, opt := range opts {
		opt(&o)
	}
	return &Source[T]{name: name, open: open, mapper: mapper, opts: o}
}

// DeserializeList maps every line in order. The first read or mapping error
// aborts with the line it happened on.
func (s *Source[T]) DeserializeList(ctx context.Context) ([]T, error) {
	if s.mapper == nil {
		return nil, errors.New("delimited: no line mapper configured")
	}
	log := logging.FromZap(s.opts.logger).With("source", s.name)

	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	var in io.Reader = f
	if s.opts.encoding != nil {
		in = transform.NewReader(f, s.opts.encoding.NewDecoder())
	}

	r := csv.NewReader(in)
	r.Comma = rune(s.opts.separator)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var out []T
	first := true
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		if first {
			first = false
			if s.opts.skipHeader {
				continue
			}
		}

		v, err := s.mapper(fields)
		if err != nil {
			line, _ := r.FieldPos(0)
			return nil, &LineError{Line: line, Err: err}
		}
		out = append(out, v)
	}

	log.Info("returning converted objects", "count", len(out))
	return out, nil
}
