// Package readfilesfast reads spreadsheets, delimited text and JSON files into
// lists of domain objects.
//
// Each source lives in its own package (excel, delimited, jsonfile) and
// satisfies DataSource. Profiles (package profile) describe a source in YAML;
// Run executes one, optionally caching the result in a snapshot file.
package readfilesfast

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"

	"github.com/randeepbydesign/readfilesfast/delimited"
	"github.com/randeepbydesign/readfilesfast/excel"
	"github.com/randeepbydesign/readfilesfast/internal/logging"
	"github.com/randeepbydesign/readfilesfast/jsonfile"
	"github.com/randeepbydesign/readfilesfast/profile"
	"github.com/randeepbydesign/readfilesfast/snapshot"
	"go.uber.org/zap"
)

// DataSource produces the full list of objects of one source.
type DataSource[T any] interface {
	DeserializeList(ctx context.Context) ([]T, error)
}

var (
	_ DataSource[excel.Row] = (*excel.DataSource[excel.Row])(nil)
	_ DataSource[[]string]  = (*delimited.Source[[]string])(nil)
	_ DataSource[any]       = (*jsonfile.Source[any])(nil)
	_ DataSource[excel.Row] = sourceFunc[excel.Row](nil)
)

func init() {
	// concrete types a profile run can put in a snapshot
	gob.Register(map[string]string{})
	gob.Register(map[string]any{})
	gob.Register([]any{})
	gob.Register([]string{})
}

type sourceFunc[T any] func(ctx context.Context) ([]T, error)

func (f sourceFunc[T]) DeserializeList(ctx context.Context) ([]T, error) {
	return f(ctx)
}

// Erase adapts a typed source to one producing any.
func Erase[T any](src DataSource[T]) DataSource[any] {
	return sourceFunc[any](func(ctx context.Context) ([]any, error) {
		list, err := src.DeserializeList(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(list))
		for i, v := range list {
			out[i] = v
		}
		return out, nil
	})
}

// FromProfile builds the source a profile describes. Workbooks with a header
// map each group to header name → text; headerless workbooks and delimited
// files yield each row's fields as []string; JSON files yield their elements.
func FromProfile(p *profile.Profile, logger *zap.Logger) (DataSource[any], error) {
	switch p.FormatOf() {
	case profile.FormatXLSX:
		opts, err := p.ExcelOptions(logger)
		if err != nil {
			return nil, err
		}
		if p.WithoutHeader {
			return Erase[[]string](excel.NewDataSource(p.File, rowFields(), opts...)), nil
		}
		return Erase[map[string]string](excel.NewDataSource(p.File, excel.ToMap(), opts...)), nil

	case profile.FormatCSV, profile.FormatTSV:
		opts, err := p.DelimitedOptions(logger)
		if err != nil {
			return nil, err
		}
		return Erase[[]string](delimited.NewSource(p.File, func(fields []string) ([]string, error) {
			return fields, nil
		}, opts...)), nil

	case profile.FormatJSON:
		return jsonfile.NewSource[any](p.File).WithLogger(logger), nil
	}
	return nil, fmt.Errorf("unsupported format %q", p.FormatOf())
}

func rowFields() excel.Mapper[[]string] {
	return excel.MapperFunc[[]string](func(g excel.RowGroup) ([]string, bool, error) {
		r, ok := g.First()
		if !ok {
			return nil, false, nil
		}
		return r.Strings(), true, nil
	})
}

// Run executes a profile. When the profile names a snapshot file that exists,
// its contents are returned instead of reading the source; otherwise the
// result is written to it.
func Run(ctx context.Context, p *profile.Profile, logger *zap.Logger) ([]any, error) {
	log := logging.FromZap(logger).With("profile", p.Name)

	if p.Snapshot != "" {
		cached, err := snapshot.Load[[]any](p.Snapshot)
		switch {
		case err == nil:
			log.Info("loaded snapshot", "path", p.Snapshot, "count", len(cached))
			return cached, nil
		case !errors.Is(err, fs.ErrNotExist):
			log.Warn("ignoring unreadable snapshot", "path", p.Snapshot, "error", err)
		}
	}

	src, err := FromProfile(p, logger)
	if err != nil {
		return nil, err
	}
	out, err := src.DeserializeList(ctx)
	if err != nil {
		return nil, fmt.Errorf("run profile %s: %w", p.Name, err)
	}

	if p.Snapshot != "" {
		if err := snapshot.Save(p.Snapshot, out); err != nil {
			return nil, err
		}
		log.Debug("saved snapshot", "path", p.Snapshot)
	}
	return out, nil
}
