package excel

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/randeepbydesign/readfilesfast/internal/logging"
)

// Report summarizes one ingestion run.
type Report struct {
	RunID    string
	Sheets   []string
	Stats    GroupStats
	Rejected int // groups the mapper declined
	Mapped   int
}

// DataSource ingests a workbook into a list of T: sheets are extracted,
// grouped by key across all selected sheets and each group is mapped.
type DataSource[T any] struct {
	name   string
	open   func(*Options) (Workbook, error)
	mapper Mapper[T]
	opts   *Options
}

// NewDataSource creates a DataSource reading the xlsx file at path.
func NewDataSource[T any](path string, mapper Mapper[T], opts ...Option) *DataSource[T] {
	return newDataSource(path, func(o *Options) (Workbook, error) {
		return OpenFile(path, o.excelizeOptions()...)
	}, mapper, opts)
}

// NewReaderDataSource creates a DataSource reading an xlsx workbook from r.
// r is consumed by the first run.
func NewReaderDataSource[T any](r io.Reader, mapper Mapper[T], opts ...Option) *DataSource[T] {
	return newDataSource("<reader>", func(o *Options) (Workbook, error) {
		return OpenReader(r, o.excelizeOptions()...)
	}, mapper, opts)
}

// NewWorkbookDataSource creates a DataSource over workbooks produced by open.
// Each run calls open once and closes what it returns.
func NewWorkbookDataSource[T any](name string, open func() (Workbook, error), mapper Mapper[T], opts ...Option) *DataSource[T] {
	return newDataSource(name, func(*Options) (Workbook, error) { return open() }, mapper, opts)
}

func newDataSource[T any](name string, open func(*Options) (Workbook, error), mapper Mapper[T], opts []Option) *DataSource[T] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &DataSource[T]{name: name, open: open, mapper: mapper, opts: o}
}

// Read ingests the xlsx file at path.
func Read[T any](ctx context.Context, path string, mapper Mapper[T], opts ...Option) ([]T, error) {
	return NewDataSource(path, mapper, opts...).DeserializeList(ctx)
}

// Ingest runs one ingestion over an already opened workbook and closes it.
func Ingest[T any](ctx context.Context, wb Workbook, mapper Mapper[T], opts ...Option) ([]T, error) {
	return NewWorkbookDataSource("<workbook>", func() (Workbook, error) { return wb, nil }, mapper, opts...).DeserializeList(ctx)
}

// DeserializeList runs the ingestion and returns the mapped objects.
func (d *DataSource[T]) DeserializeList(ctx context.Context) ([]T, error) {
	out, _, err := d.Ingest(ctx)
	return out, err
}

// Ingest runs the ingestion. The workbook is opened once and closed exactly
// once before Ingest returns, whatever the outcome.
func (d *DataSource[T]) Ingest(ctx context.Context) (out []T, rep Report, err error) {
	if d.mapper == nil {
		return nil, rep, fmt.Errorf("%w: no mapper configured", ErrMappingPrecondition)
	}

	rep.RunID = uuid.NewString()
	log := logging.FromZap(d.opts.logger).With("run_id", rep.RunID, "source", d.name)

	wb, err := d.open(d.opts)
	if err != nil {
		return nil, rep, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			log.Warn("close workbook", "error", cerr)
		}
	}()

	sheets, err := d.opts.sheets(wb)
	if err != nil {
		return nil, rep, err
	}
	for _, s := range sheets {
		rep.Sheets = append(rep.Sheets, s.Name())
	}
	log.Info("reading workbook", "sheets", wb.SheetNames(), "selected", rep.Sheets)

	if err := ctx.Err(); err != nil {
		return nil, rep, err
	}

	counter := d.opts.counter
	if counter == nil {
		counter = NewCounter()
	}
	aggregator := NewAggregator(
		NewExtractor(NewCoercer(wb.Date1904(), log), !d.opts.noHeader),
		NewGrouper(log, d.opts.lenientHeaders),
	)
	groups, stats, err := aggregator.Aggregate(sheets, d.opts.keyFactory(counter))
	rep.Stats = stats
	if err != nil {
		return nil, rep, err
	}

	out = make([]T, 0, len(groups))
	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, rep, err
		}
		v, ok, err := d.mapper.Map(g)
		if err != nil {
			return nil, rep, fmt.Errorf("map group %d of %d: %w", i+1, len(groups), err)
		}
		if !ok {
			rep.Rejected++
			continue
		}
		out = append(out, v)
	}
	rep.Mapped = len(out)

	log.Info("ingestion finished",
		"rows", stats.Input, "groups", stats.Groups, "dropped", stats.Dropped,
		"malformed", len(stats.Errors), "rejected", rep.Rejected, "mapped", rep.Mapped)
	return out, rep, nil
}

// SheetNamesOf opens the workbook at path and returns its sheet names in order.
func SheetNamesOf(path string, opts ...Option) ([]string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	wb, err := OpenFile(path, o.excelizeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer wb.Close()
	return wb.SheetNames(), nil
}
