package excel

import (
	"fmt"
	"io"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Workbook is an ordered set of sheets. It is owned by one ingestion call and
// closed exactly once at its end.
type Workbook interface {
	SheetNames() []string
	Sheet(name string) (Sheet, error)
	Date1904() bool
	Close() error
}

// Sheet exposes the raw rows of one worksheet. The outer slice is indexed by
// 0-based physical row; a row's cells are indexed by 0-based column up to its
// last declared cell. Rows that do not exist are empty slices.
type Sheet interface {
	Name() string
	Rows() ([][]Cell, error)
}

// ExcelizeWorkbook implements Workbook using excelize.
type ExcelizeWorkbook struct {
	file     *excelize.File
	date1904 bool

	mu      sync.Mutex
	numFmts map[int]numFmt // style ID → number format
}

type numFmt struct {
	id   int
	code string
}

// NewExcelizeWorkbook wraps an opened excelize file.
func NewExcelizeWorkbook(f *excelize.File) (*ExcelizeWorkbook, error) {
	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, fmt.Errorf("read workbook properties: %w", err)
	}
	wb := &ExcelizeWorkbook{
		file:    f,
		numFmts: make(map[int]numFmt),
	}
	if props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// OpenFile opens an xlsx file. Options such as Password are passed to excelize.
func OpenFile(path string, opts ...excelize.Options) (*ExcelizeWorkbook, error) {
	f, err := excelize.OpenFile(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	wb, err := NewExcelizeWorkbook(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// OpenReader opens an xlsx workbook from r.
func OpenReader(r io.Reader, opts ...excelize.Options) (*ExcelizeWorkbook, error) {
	f, err := excelize.OpenReader(r, opts...)
	if err != nil {
		return nil, fmt.Errorf("open workbook reader: %w", err)
	}
	wb, err := NewExcelizeWorkbook(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// SheetNames returns all sheet names in workbook order.
func (wb *ExcelizeWorkbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

// Sheet returns the named sheet, or excelize.ErrSheetNotExist.
func (wb *ExcelizeWorkbook) Sheet(name string) (Sheet, error) {
	idx, err := wb.file.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, excelize.ErrSheetNotExist{SheetName: name}
	}
	return &excelizeSheet{wb: wb, name: wb.file.GetSheetList()[idx]}, nil
}

// Date1904 reports whether the workbook uses the 1904 date system.
func (wb *ExcelizeWorkbook) Date1904() bool {
	return wb.date1904
}

// Close closes the underlying excelize file.
func (wb *ExcelizeWorkbook) Close() error {
	return wb.file.Close()
}

// File returns the underlying excelize file for advanced operations.
func (wb *ExcelizeWorkbook) File() *excelize.File {
	return wb.file
}

// numFmt returns the number format of a style, caching lookups per workbook.
func (wb *ExcelizeWorkbook) numFmt(styleID int) numFmt {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if nf, ok := wb.numFmts[styleID]; ok {
		return nf
	}
	var nf numFmt
	if style, err := wb.file.GetStyle(styleID); err == nil && style != nil {
		nf.id = style.NumFmt
		if style.CustomNumFmt != nil {
			nf.code = *style.CustomNumFmt
		}
	}
	wb.numFmts[styleID] = nf
	return nf
}

type excelizeSheet struct {
	wb   *ExcelizeWorkbook
	name string
}

func (s *excelizeSheet) Name() string {
	return s.name
}

// Rows reads raw (unformatted) values and resolves each cell's stored type,
// formula and number format.
func (s *excelizeSheet) Rows() ([][]Cell, error) {
	f := s.wb.file
	rows, err := f.GetRows(s.name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", s.name, err)
	}

	out := make([][]Cell, len(rows))
	for rowIdx, row := range rows {
		cells := make([]Cell, len(row))
		for colIdx, raw := range row {
			cell, err := s.readCell(NewCellRef(s.name, rowIdx, colIdx), raw)
			if err != nil {
				return nil, err
			}
			cells[colIdx] = cell
		}
		out[rowIdx] = cells
	}
	return out, nil
}

func (s *excelizeSheet) readCell(ref CellRef, raw string) (Cell, error) {
	f := s.wb.file
	name := ref.CellName()

	xt, err := f.GetCellType(s.name, name)
	if err != nil {
		return Cell{}, fmt.Errorf("cell type of %s: %w", ref, err)
	}
	cell := Cell{Ref: ref, Value: raw, Type: fromExcelizeType(xt, raw)}

	// Formulas with a numeric cached result carry no type attribute, so the
	// formula itself has to be looked up for every cell.
	formula, err := f.GetCellFormula(s.name, name)
	if err == nil && formula != "" {
		cell.CachedType = cell.Type
		cell.Type = CellFormula
		cell.Formula = formula
	}

	if cell.Type == CellNumber || cell.CachedType == CellNumber {
		if styleID, err := f.GetCellStyle(s.name, name); err == nil {
			nf := s.wb.numFmt(styleID)
			cell.NumFmt, cell.CustomNumFmt = nf.id, nf.code
		}
	}
	return cell, nil
}

// fromExcelizeType maps excelize's stored type. Numbers are usually stored
// without a type attribute, which excelize reports as CellTypeUnset.
func fromExcelizeType(t excelize.CellType, raw string) CellType {
	switch t {
	case excelize.CellTypeBool:
		return CellBoolean
	case excelize.CellTypeDate:
		return CellDate
	case excelize.CellTypeError:
		return CellError
	case excelize.CellTypeFormula, excelize.CellTypeInlineString, excelize.CellTypeSharedString:
		return CellString
	case excelize.CellTypeNumber:
		return CellNumber
	default:
		if raw == "" {
			return CellBlank
		}
		return CellNumber
	}
}
