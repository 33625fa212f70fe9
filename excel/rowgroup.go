package excel

import "strings"

// RowGroup is an optional header plus the ordered rows sharing one grouping
// key. The header is never itself one of Rows.
type RowGroup struct {
	Header *Row
	Rows   []Row
}

// NewRowGroup creates a RowGroup. A nil header means the group has none.
func NewRowGroup(header *Row, rows []Row) RowGroup {
	return RowGroup{Header: header, Rows: rows}
}

// HasHeader reports whether a header row is attached.
func (g RowGroup) HasHeader() bool {
	return g.Header != nil
}

// Len returns the number of rows in the group.
func (g RowGroup) Len() int {
	return len(g.Rows)
}

// First returns the first row of the group.
func (g RowGroup) First() (Row, bool) {
	if len(g.Rows) == 0 {
		return Row{}, false
	}
	return g.Rows[0], true
}

// HeaderNames renders the header's data cells as strings, or nil without a header.
func (g RowGroup) HeaderNames() []string {
	if g.Header == nil {
		return nil
	}
	return g.Header.Strings()
}

// ColumnIndex resolves a header name to its column position. Matching is
// exact first, then case-insensitive.
func (g RowGroup) ColumnIndex(name string) (int, bool) {
	if g.Header == nil {
		return 0, false
	}
	names := g.Header.Strings()
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return i, true
		}
	}
	return 0, false
}

// Field returns the value under the named column of the group's first row.
func (g RowGroup) Field(name string) (Value, bool) {
	idx, ok := g.ColumnIndex(name)
	if !ok {
		return Absent(), false
	}
	first, ok := g.First()
	if !ok {
		return Absent(), false
	}
	return first.Cell(idx), true
}
