package excel

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable indicates the workbook or a selected sheet could not
	// be opened or read. It always aborts ingestion.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrMalformedRow indicates a row whose key could not be computed. Such
	// rows are dropped from grouping and reported, never returned to callers
	// as a failure of the whole ingestion.
	ErrMalformedRow = errors.New("malformed row")

	// ErrMappingPrecondition indicates a mapper received a group it cannot
	// structurally handle, such as a name-based mapper without a header.
	ErrMappingPrecondition = errors.New("mapping precondition failed")

	// ErrHeaderMismatch indicates the selected sheets carry different headers.
	ErrHeaderMismatch = errors.New("sheets have different headers")
)

// RowError describes a row dropped during grouping.
type RowError struct {
	Ref CellRef // sheet and row of the dropped row; Col is always 0
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %s: %v", e.Ref, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
