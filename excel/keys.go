package excel

import (
	"fmt"
	"sync/atomic"
)

// KeyFunc extracts the grouping key of a row. A nil key, an empty string or
// an Absent/empty-text Value excludes the row from grouping. An error or a
// panic marks the row malformed: it is dropped and reported.
type KeyFunc func(Row) (any, error)

// FirstColumn keys a row by its first cell.
func FirstColumn() KeyFunc {
	return ColumnAt(0)
}

// ColumnAt keys a row by the cell at column n. n may address the trailing
// row-index slot; anything beyond it is an error.
func ColumnAt(n int) KeyFunc {
	return func(r Row) (any, error) {
		if n < 0 || n >= r.Len() {
			return nil, fmt.Errorf("column %d out of range for row of %d cells", n, r.Len())
		}
		return r.Cell(n), nil
	}
}

// Counter is a sequence shared by the rows of one ingestion run.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns the current value and advances the counter.
func (c *Counter) Next() int64 {
	return c.n.Add(1) - 1
}

// Value returns the next value Next would hand out.
func (c *Counter) Value() int64 {
	return c.n.Load()
}

// UniqueRow keys every row by the next counter value, so every row becomes
// its own group. A nil counter gets a fresh one owned by the returned KeyFunc.
func UniqueRow(c *Counter) KeyFunc {
	if c == nil {
		c = NewCounter()
	}
	return func(Row) (any, error) {
		return c.Next(), nil
	}
}
