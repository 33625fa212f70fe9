package excel

import "fmt"

// Mapper folds one RowGroup into at most one T. Returning ok == false rejects
// the group, which is skipped. A non-nil error aborts the ingestion.
type Mapper[T any] interface {
	Map(g RowGroup) (v T, ok bool, err error)
}

// MapperFunc adapts a function to the Mapper interface.
type MapperFunc[T any] func(g RowGroup) (T, bool, error)

// Map calls f(g).
func (f MapperFunc[T]) Map(g RowGroup) (T, bool, error) {
	return f(g)
}

// Identity returns the first row of each group and rejects empty groups.
// Use it when grouping is only organizational.
func Identity() Mapper[Row] {
	return MapperFunc[Row](func(g RowGroup) (Row, bool, error) {
		r, ok := g.First()
		return r, ok, nil
	})
}

// AllRows returns every row of each group and rejects empty groups.
func AllRows() Mapper[[]Row] {
	return MapperFunc[[]Row](func(g RowGroup) ([]Row, bool, error) {
		return g.Rows, len(g.Rows) > 0, nil
	})
}

// ToMap maps the first row of a group to header name → Value.String().
// Columns with a blank header are left out. A group without a header, or with
// a header that names two columns the same, fails with ErrMappingPrecondition.
func ToMap() Mapper[map[string]string] {
	return MapperFunc[map[string]string](toMap)
}

func toMap(g RowGroup) (map[string]string, bool, error) {
	if !g.HasHeader() {
		return nil, false, fmt.Errorf("%w: headers required to render map", ErrMappingPrecondition)
	}
	first, ok := g.First()
	if !ok {
		return nil, false, nil
	}

	names := g.Header.Strings()
	out := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if _, dup := out[name]; dup {
			return nil, false, fmt.Errorf("%w: duplicate header %q in sheet %q", ErrMappingPrecondition, name, g.Header.Sheet)
		}
		out[name] = first.Cell(i).String()
	}
	return out, true, nil
}
