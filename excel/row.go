package excel

// Row is one extracted sheet row. Besides its coerced cells it carries the
// sheet it came from and its 0-based physical row index, which is exposed as
// a trailing synthetic cell: Cell(len(Values)) == Number(Index).
// Rows are immutable once extracted.
type Row struct {
	Sheet  string
	Index  int
	Values []Value
}

// NewRow creates a Row from already coerced values.
func NewRow(sheet string, index int, values ...Value) Row {
	return Row{Sheet: sheet, Index: index, Values: values}
}

// Len returns the number of cells including the row-index slot.
func (r Row) Len() int {
	return len(r.Values) + 1
}

// Width returns the number of data cells, excluding the row-index slot.
func (r Row) Width() int {
	return len(r.Values)
}

// Cell returns the value at column i. The index one past the last data
// column holds the row index; anything out of range is Absent.
func (r Row) Cell(i int) Value {
	switch {
	case i >= 0 && i < len(r.Values):
		return r.Values[i]
	case i == len(r.Values):
		return Number(float64(r.Index))
	default:
		return Absent()
	}
}

// Ref returns the reference of column col in this row.
func (r Row) Ref(col int) CellRef {
	return NewCellRef(r.Sheet, r.Index, col)
}

// IsEmpty reports whether every data cell is Absent.
func (r Row) IsEmpty() bool {
	for _, v := range r.Values {
		if !v.IsAbsent() {
			return false
		}
	}
	return true
}

// Strings renders every data cell with Value.String.
func (r Row) Strings() []string {
	out := make([]string, len(r.Values))
	for i, v := range r.Values {
		out[i] = v.String()
	}
	return out
}

// sameCells compares data cells only; sheet and index are provenance.
func (r Row) sameCells(o Row) bool {
	if len(r.Values) != len(o.Values) {
		return false
	}
	for i := range r.Values {
		if !r.Values[i].Equal(o.Values[i]) {
			return false
		}
	}
	return true
}
