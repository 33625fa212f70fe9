package excel

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/xuri/excelize/v2"
)

// MemoryWorkbook is a Workbook held entirely in memory.
type MemoryWorkbook struct {
	sheets   []*MemorySheet
	date1904 bool
	closed   atomic.Int32
}

// NewMemoryWorkbook creates a workbook from sheets in order.
func NewMemoryWorkbook(sheets ...*MemorySheet) *MemoryWorkbook {
	return &MemoryWorkbook{sheets: sheets}
}

// SetDate1904 switches the workbook to the 1904 date system.
func (wb *MemoryWorkbook) SetDate1904(on bool) {
	wb.date1904 = on
}

func (wb *MemoryWorkbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, s := range wb.sheets {
		names[i] = s.name
	}
	return names
}

func (wb *MemoryWorkbook) Sheet(name string) (Sheet, error) {
	for _, s := range wb.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, excelize.ErrSheetNotExist{SheetName: name}
}

func (wb *MemoryWorkbook) Date1904() bool {
	return wb.date1904
}

func (wb *MemoryWorkbook) Close() error {
	wb.closed.Add(1)
	return nil
}

// CloseCount returns how many times Close was called.
func (wb *MemoryWorkbook) CloseCount() int {
	return int(wb.closed.Load())
}

// MemorySheet is a Sheet held in memory.
type MemorySheet struct {
	name string
	rows [][]Cell
	err  error
}

// NewMemorySheet builds a sheet from Go values, one slice per physical row.
// nil is a blank cell, strings are text, integers and floats are numbers,
// bools are booleans, time.Time is a date and a Cell is used as given.
// A nil row is a row without declared cells.
func NewMemorySheet(name string, rows ...[]any) *MemorySheet {
	s := &MemorySheet{name: name, rows: make([][]Cell, len(rows))}
	for r, vals := range rows {
		cells := make([]Cell, len(vals))
		for c, v := range vals {
			cells[c] = toCell(NewCellRef(name, r, c), v)
		}
		s.rows[r] = cells
	}
	return s
}

// NewFailingSheet returns a sheet whose Rows always fails with err.
func NewFailingSheet(name string, err error) *MemorySheet {
	return &MemorySheet{name: name, err: err}
}

func (s *MemorySheet) Name() string {
	return s.name
}

func (s *MemorySheet) Rows() ([][]Cell, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func toCell(ref CellRef, v any) Cell {
	switch x := v.(type) {
	case nil:
		return NewCell(ref, "", CellBlank)
	case Cell:
		x.Ref = ref
		return x
	case string:
		return NewCell(ref, x, CellString)
	case bool:
		return NewCell(ref, strconv.FormatBool(x), CellBoolean)
	case time.Time:
		return NewCell(ref, x.Format(time.RFC3339Nano), CellDate)
	case float64:
		return NewCell(ref, strconv.FormatFloat(x, 'g', -1, 64), CellNumber)
	case float32:
		return NewCell(ref, strconv.FormatFloat(float64(x), 'g', -1, 32), CellNumber)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return NewCell(ref, fmt.Sprint(x), CellNumber)
	default:
		return NewCell(ref, fmt.Sprint(x), CellString)
	}
}
