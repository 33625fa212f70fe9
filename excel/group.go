package excel

import (
	"fmt"
	"reflect"
	"time"

	"github.com/randeepbydesign/readfilesfast/internal/logging"
)

// GroupStats accounts for every input row of a grouping pass:
// Input == Grouped + Dropped.
type GroupStats struct {
	Input   int
	Grouped int
	Dropped int         // rows with no key plus rows in Errors
	Errors  []*RowError // rows whose key function failed
	Groups  int
}

// Grouper partitions rows into RowGroups by key.
//
// Groups are emitted in the order their key was first seen and rows keep
// their encounter order inside a group. Callers should rely on group
// membership only; the emission order is a convenience of this implementation.
type Grouper struct {
	log            *logging.Logger
	lenientHeaders bool
}

// NewGrouper creates a Grouper. With lenientHeaders, divergent headers across
// input groups resolve to the first one instead of failing.
func NewGrouper(log *logging.Logger, lenientHeaders bool) *Grouper {
	if log == nil {
		log = logging.Nop()
	}
	return &Grouper{log: log, lenientHeaders: lenientHeaders}
}

// Group partitions headerless rows by key.
func (g *Grouper) Group(rows []Row, key KeyFunc) ([]RowGroup, GroupStats) {
	return g.partition(nil, rows, key)
}

// GroupGroups flattens several pre-extracted groups, typically one per sheet,
// and partitions their rows by key across all of them. The first header found
// is attached to every emitted group. A nil key returns the input unchanged.
func (g *Grouper) GroupGroups(groups []RowGroup, key KeyFunc) ([]RowGroup, GroupStats, error) {
	if key == nil || len(groups) == 0 {
		var stats GroupStats
		for _, grp := range groups {
			stats.Input += len(grp.Rows)
			stats.Grouped += len(grp.Rows)
		}
		stats.Groups = len(groups)
		return groups, stats, nil
	}

	header, err := g.representativeHeader(groups)
	if err != nil {
		return nil, GroupStats{}, err
	}

	n := 0
	for _, grp := range groups {
		n += len(grp.Rows)
	}
	rows := make([]Row, 0, n)
	for _, grp := range groups {
		rows = append(rows, grp.Rows...)
	}

	out, stats := g.partition(header, rows, key)
	return out, stats, nil
}

func (g *Grouper) partition(header *Row, rows []Row, key KeyFunc) ([]RowGroup, GroupStats) {
	stats := GroupStats{Input: len(rows)}
	buckets := make(map[any]int)
	var out []RowGroup

	for _, row := range rows {
		k, ok, err := rowKey(key, row)
		if err != nil {
			rowErr := &RowError{Ref: row.Ref(0), Err: fmt.Errorf("%w: %w", ErrMalformedRow, err)}
			g.log.Error("unable to process row", "sheet", row.Sheet, "row", row.Index, "error", err)
			stats.Errors = append(stats.Errors, rowErr)
			stats.Dropped++
			continue
		}
		if !ok {
			stats.Dropped++
			continue
		}

		idx, seen := buckets[k]
		if !seen {
			idx = len(out)
			buckets[k] = idx
			out = append(out, RowGroup{Header: header})
		}
		out[idx].Rows = append(out[idx].Rows, row)
		stats.Grouped++
	}

	stats.Groups = len(out)
	g.log.Debug("rows grouped", "input", stats.Input, "groups", stats.Groups, "dropped", stats.Dropped)
	return out, stats
}

// representativeHeader returns the first non-nil header. Any later header
// with different cells is an ErrHeaderMismatch unless headers are lenient.
func (g *Grouper) representativeHeader(groups []RowGroup) (*Row, error) {
	var header *Row
	for _, grp := range groups {
		if grp.Header == nil {
			continue
		}
		if header == nil {
			header = grp.Header
			continue
		}
		if sameHeader(*header, *grp.Header) {
			continue
		}
		if !g.lenientHeaders {
			return nil, fmt.Errorf("%w: %q has %v, %q has %v", ErrHeaderMismatch,
				header.Sheet, trimmedNames(*header), grp.Header.Sheet, trimmedNames(*grp.Header))
		}
		g.log.Warn("sheet header differs from the first header, using the first",
			"first_sheet", header.Sheet, "sheet", grp.Header.Sheet)
	}
	return header, nil
}

// rowKey evaluates key on row and normalizes the result into a map key.
// ok is false when the row has no usable key.
func rowKey(key KeyFunc, row Row) (k any, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			k, ok, err = nil, false, fmt.Errorf("key function panicked: %v", r)
		}
	}()

	raw, err := key(row)
	if err != nil {
		return nil, false, err
	}
	return normalizeKey(raw)
}

func normalizeKey(raw any) (any, bool, error) {
	switch v := raw.(type) {
	case nil:
		return nil, false, nil
	case string:
		return v, v != "", nil
	case Value:
		if v.IsAbsent() || (v.Kind() == KindText && v.Str() == "") {
			return nil, false, nil
		}
		return v.Key(), true, nil
	case time.Time:
		return Date(v).Key(), true, nil
	}
	if !reflect.ValueOf(raw).Comparable() {
		return nil, false, fmt.Errorf("key of type %T is not comparable", raw)
	}
	return raw, true, nil
}

// sameHeader compares header cells, ignoring trailing Absent padding.
func sameHeader(a, b Row) bool {
	a.Values, b.Values = trimAbsent(a.Values), trimAbsent(b.Values)
	return a.sameCells(b)
}

func trimAbsent(values []Value) []Value {
	n := len(values)
	for n > 0 && values[n-1].IsAbsent() {
		n--
	}
	return values[:n]
}

func trimmedNames(r Row) []string {
	r.Values = trimAbsent(r.Values)
	return r.Strings()
}
