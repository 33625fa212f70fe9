package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Options holds configuration for a DataSource.
type Options struct {
	sheets         SheetSelector
	keyFactory     func(*Counter) KeyFunc
	counter        *Counter
	logger         *zap.Logger
	lenientHeaders bool
	noHeader       bool
	password       string
}

func defaultOptions() *Options {
	return &Options{
		sheets:     FirstSheet(),
		keyFactory: UniqueRow,
	}
}

// Option configures a DataSource.
type Option func(*Options)

// WithSheets selects the sheets to read (default: FirstSheet).
func WithSheets(sel SheetSelector) Option {
	return func(o *Options) { o.sheets = sel }
}

// WithKey sets the grouping key. A nil key disables grouping: each selected
// sheet is handed to the mapper as one group.
func WithKey(key KeyFunc) Option {
	return func(o *Options) { o.keyFactory = func(*Counter) KeyFunc { return key } }
}

// WithUniqueRows makes every row its own group (the default). The counter is
// fresh for each run unless WithCounter shares one.
func WithUniqueRows() Option {
	return func(o *Options) { o.keyFactory = UniqueRow }
}

// WithCounter shares c across runs for UniqueRow keys instead of starting a
// fresh counter per run.
func WithCounter(c *Counter) Option {
	return func(o *Options) { o.counter = c }
}

// WithLogger sets the logger for diagnostics (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithLenientHeaders uses the first sheet's header when selected sheets have
// different headers instead of failing with ErrHeaderMismatch.
func WithLenientHeaders(lenient bool) Option {
	return func(o *Options) { o.lenientHeaders = lenient }
}

// WithoutHeader treats the first row of every sheet as data.
func WithoutHeader() Option {
	return func(o *Options) { o.noHeader = true }
}

// WithPassword opens encrypted workbooks.
func WithPassword(password string) Option {
	return func(o *Options) { o.password = password }
}

func (o *Options) excelizeOptions() []excelize.Options {
	if o.password == "" {
		return nil
	}
	return []excelize.Options{{Password: o.password}}
}

// SheetSelector picks the sheets of a workbook to ingest, in order.
type SheetSelector func(Workbook) ([]Sheet, error)

// FirstSheet selects the first sheet.
func FirstSheet() SheetSelector {
	return SheetsAt(0)
}

// SheetsAt selects sheets by 0-based position.
func SheetsAt(indices ...int) SheetSelector {
	return func(wb Workbook) ([]Sheet, error) {
		names := wb.SheetNames()
		sheets := make([]Sheet, 0, len(indices))
		for _, i := range indices {
			if i < 0 || i >= len(names) {
				return nil, fmt.Errorf("%w: sheet index %d out of range (workbook has %d sheets)", ErrSourceUnavailable, i, len(names))
			}
			s, err := wb.Sheet(names[i])
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
			sheets = append(sheets, s)
		}
		return sheets, nil
	}
}

// SheetsNamed selects sheets by name.
func SheetsNamed(names ...string) SheetSelector {
	return func(wb Workbook) ([]Sheet, error) {
		sheets := make([]Sheet, 0, len(names))
		for _, name := range names {
			s, err := wb.Sheet(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
			}
			sheets = append(sheets, s)
		}
		return sheets, nil
	}
}

// AllSheets selects every sheet in workbook order.
func AllSheets() SheetSelector {
	return func(wb Workbook) ([]Sheet, error) {
		names := wb.SheetNames()
		idx := make([]int, len(names))
		for i := range names {
			idx[i] = i
		}
		return SheetsAt(idx...)(wb)
	}
}
