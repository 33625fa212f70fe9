// Package jsonfile reads a file holding a JSON array into a list of objects.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/randeepbydesign/readfilesfast/internal/logging"
	"go.uber.org/zap"
)

// ErrSourceUnavailable indicates the file could not be opened or decoded.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source decodes a JSON array of T. Object fields without a matching struct
// field are ignored.
type Source[T any] struct {
	name   string
	open   func() (io.ReadCloser, error)
	logger *zap.Logger
}

// NewSource creates a Source for the file at path.
func NewSource[T any](path string) *Source[T] {
	return &Source[T]{name: path, open: func() (io.ReadCloser, error) { return os.Open(path) }}
}

// NewReaderSource creates a Source over r. r is consumed by the first run.
func NewReaderSource[T any](r io.Reader) *Source[T] {
	return &Source[T]{name: "<reader>", open: func() (io.ReadCloser, error) { return io.NopCloser(r), nil }}
}

// WithLogger sets the logger used for diagnostics and returns s.
func (s *Source[T]) WithLogger(l *zap.Logger) *Source[T] {
	s.logger = l
	return s
}

// DeserializeList decodes the whole file. A JSON null yields an empty list.
func (s *Source[T]) DeserializeList(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logging.FromZap(s.logger)

	f, err := s.open()
	if err != nil {
		log.Error("couldn't load file", "source", s.name, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer f.Close()

	var out []T
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		log.Error("decode json list", "source", s.name, "error", err)
		return nil, fmt.Errorf("%w: decode %s: %w", ErrSourceUnavailable, s.name, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
