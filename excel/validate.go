package excel

import (
	"fmt"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // ingestion will fail or drop data
	SeverityWarning                 // ingestion may produce unexpected results
)

// ValidationIssue is a single problem found while checking a workbook.
type ValidationIssue struct {
	Severity Severity
	CellRef  CellRef
	Message  string
}

// String formats the issue as "[ERROR] Sheet1!A2: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.CellRef, v.Message)
}

// Validate checks the workbook at path against opts without mapping anything.
// A non-nil error means the workbook or its sheets could not be read at all.
func Validate(path string, opts ...Option) ([]ValidationIssue, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	wb, err := OpenFile(path, o.excelizeOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer wb.Close()
	return ValidateWorkbook(wb, opts...)
}

// ValidateWorkbook reports header problems of the selected sheets and rows
// the configured key cannot handle.
func ValidateWorkbook(wb Workbook, opts ...Option) ([]ValidationIssue, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	sheets, err := o.sheets(wb)
	if err != nil {
		return nil, err
	}

	x := NewExtractor(NewCoercer(wb.Date1904(), nil), !o.noHeader)
	groups := make([]RowGroup, 0, len(sheets))
	var issues []ValidationIssue
	for _, s := range sheets {
		g, err := x.Extract(s)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
		issues = append(issues, validateHeader(s.Name(), g, o.noHeader)...)
		if len(g.Rows) == 0 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  NewCellRef(s.Name(), 0, 0),
				Message:  "sheet has no data rows",
			})
		}
	}
	issues = append(issues, validateHeadersAgree(groups, o.lenientHeaders)...)

	counter := o.counter
	if counter == nil {
		counter = NewCounter()
	}
	if key := o.keyFactory(counter); key != nil {
		_, stats, err := NewGrouper(nil, true).GroupGroups(groups, key)
		if err != nil {
			return nil, err
		}
		for _, rowErr := range stats.Errors {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				CellRef:  rowErr.Ref,
				Message:  rowErr.Err.Error(),
			})
		}
		if dropped := stats.Dropped - len(stats.Errors); dropped > 0 {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				CellRef:  NewCellRef(sheets[0].Name(), 0, 0),
				Message:  fmt.Sprintf("%d rows have an empty key and will be skipped", dropped),
			})
		}
	}
	return issues, nil
}

// validateHeader flags blank and duplicate header names, which name-based
// mappers such as ToMap cannot use.
func validateHeader(sheet string, g RowGroup, noHeader bool) []ValidationIssue {
	if noHeader {
		return nil
	}
	if g.Header == nil {
		return []ValidationIssue{{
			Severity: SeverityWarning,
			CellRef:  NewCellRef(sheet, 0, 0),
			Message:  "sheet is empty, no header found",
		}}
	}

	var issues []ValidationIssue
	seen := make(map[string]int)
	for col, name := range trimmedNames(*g.Header) {
		ref := g.Header.Ref(col)
		if strings.TrimSpace(name) == "" {
			issues = append(issues, ValidationIssue{SeverityWarning, ref, "blank header cell, column will not be mapped by name"})
			continue
		}
		if first, dup := seen[name]; dup {
			issues = append(issues, ValidationIssue{SeverityError, ref,
				fmt.Sprintf("duplicate header %q (first in column %s)", name, ColToName(first))})
			continue
		}
		seen[name] = col
	}
	return issues
}

func validateHeadersAgree(groups []RowGroup, lenient bool) []ValidationIssue {
	var first *Row
	var issues []ValidationIssue
	for _, g := range groups {
		if g.Header == nil {
			continue
		}
		if first == nil {
			first = g.Header
			continue
		}
		if sameHeader(*first, *g.Header) {
			continue
		}
		sev := SeverityError
		if lenient {
			sev = SeverityWarning
		}
		issues = append(issues, ValidationIssue{
			Severity: sev,
			CellRef:  g.Header.Ref(0),
			Message:  fmt.Sprintf("header %v differs from %q header %v", trimmedNames(*g.Header), first.Sheet, trimmedNames(*first)),
		})
	}
	return issues
}
