package excel

import "fmt"

// Extractor turns the raw rows of one sheet into a RowGroup.
type Extractor struct {
	coercer *Coercer
	header  bool
}

// NewExtractor creates an Extractor. With header set, the first physical row
// of each sheet becomes RowGroup.Header.
func NewExtractor(coercer *Coercer, header bool) *Extractor {
	if coercer == nil {
		coercer = NewCoercer(false, nil)
	}
	return &Extractor{coercer: coercer, header: header}
}

// Extract reads a sheet with header capture and the 1900 date system.
func Extract(s Sheet) (RowGroup, error) {
	return NewExtractor(nil, true).Extract(s)
}

// Extract reads every row of s. Rows are padded with Absent to the widest
// row of the sheet; rows without any declared cell are skipped.
func (x *Extractor) Extract(s Sheet) (RowGroup, error) {
	raw, err := s.Rows()
	if err != nil {
		return RowGroup{}, fmt.Errorf("%w: read sheet %q: %w", ErrSourceUnavailable, s.Name(), err)
	}

	width := 0
	for _, cells := range raw {
		width = max(width, len(cells))
	}

	var group RowGroup
	wantHeader := x.header
	for idx, cells := range raw {
		if len(cells) == 0 {
			continue
		}
		row := x.convert(s.Name(), idx, cells, width)
		if wantHeader {
			group.Header = &row
			wantHeader = false
			continue
		}
		group.Rows = append(group.Rows, row)
	}
	return group, nil
}

func (x *Extractor) convert(sheet string, idx int, cells []Cell, width int) Row {
	values := make([]Value, width)
	for col, c := range cells {
		if c.Ref == (CellRef{}) {
			c.Ref = NewCellRef(sheet, idx, col)
		}
		values[col] = x.coercer.Coerce(c)
	}
	return Row{Sheet: sheet, Index: idx, Values: values}
}
