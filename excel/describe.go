package excel

import (
	"fmt"
	"strings"
)

// Describe opens the workbook at path and returns a human-readable summary of
// its sheets: data row count, width and header. Useful when writing profiles.
func Describe(path string, opts ...Option) (string, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	wb, err := OpenFile(path, o.excelizeOptions()...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer wb.Close()
	return DescribeWorkbook(path, wb, !o.noHeader)
}

// DescribeWorkbook summarizes every sheet of wb under the given title.
func DescribeWorkbook(title string, wb Workbook, header bool) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Workbook: %s\n", title)
	if wb.Date1904() {
		b.WriteString("  date system: 1904\n")
	}

	x := NewExtractor(NewCoercer(wb.Date1904(), nil), header)
	for i, name := range wb.SheetNames() {
		s, err := wb.Sheet(name)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		g, err := x.Extract(s)
		if err != nil {
			return "", err
		}
		describeSheet(&b, i, name, g)
	}
	return b.String(), nil
}

// describeSheet writes one line per sheet plus its header columns:
//
//	[0] People: 12 rows x 3 columns
//	    A Name
//	    B Age
func describeSheet(b *strings.Builder, idx int, name string, g RowGroup) {
	width := 0
	if g.Header != nil {
		width = g.Header.Width()
	}
	for _, r := range g.Rows {
		width = max(width, r.Width())
	}
	fmt.Fprintf(b, "  [%d] %s: %d rows x %d columns\n", idx, name, len(g.Rows), width)

	for col, h := range trimmedNamesOf(g) {
		if h == "" {
			h = "(blank)"
		}
		fmt.Fprintf(b, "      %s %s\n", ColToName(col), h)
	}
}

func trimmedNamesOf(g RowGroup) []string {
	if g.Header == nil {
		return nil
	}
	return trimmedNames(*g.Header)
}
