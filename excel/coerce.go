package excel

import (
	"strconv"
	"strings"
	"time"

	"github.com/randeepbydesign/readfilesfast/internal/logging"
	"github.com/xuri/excelize/v2"
)

// isoDateLayouts are tried in order for ISO 8601 (t="d") cells.
var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"20060102T150405.999",
	"2006-01-02",
}

// Coercer converts raw cells into Values. Type mismatches are reported on
// the logger at warn level and coerce to Absent; Coerce never fails.
type Coercer struct {
	date1904 bool
	log      *logging.Logger
}

// NewCoercer creates a Coercer. date1904 selects the 1904 date system for
// date-formatted serial numbers.
func NewCoercer(date1904 bool, log *logging.Logger) *Coercer {
	if log == nil {
		log = logging.Nop()
	}
	return &Coercer{date1904: date1904, log: log}
}

// Coerce converts a cell using the 1900 date system and no diagnostics.
func Coerce(c Cell) Value {
	return NewCoercer(false, nil).Coerce(c)
}

// Coerce converts a single cell. Formula cells are coerced by the type of
// their cached result and are never evaluated.
func (co *Coercer) Coerce(c Cell) Value {
	t := c.Type
	if t == CellFormula {
		if c.Value == "" {
			return Absent()
		}
		t = c.CachedType
		if t == CellFormula || t == CellBlank {
			t = CellString // "str" cached results
		}
	}

	switch t {
	case CellNumber:
		return co.number(c)
	case CellString:
		return Text(strings.TrimSpace(c.Value))
	case CellBoolean:
		return co.boolean(c)
	case CellDate:
		return co.isoDate(c)
	default:
		// blank, error, unknown
		return Absent()
	}
}

func (co *Coercer) number(c Cell) Value {
	raw := strings.TrimSpace(c.Value)
	if raw == "" {
		return Absent()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		co.log.Warn("cell is not numeric", "cell", c.Ref.String(), "value", c.Value)
		return Absent()
	}
	if !IsDateFormat(c.NumFmt, c.CustomNumFmt) {
		return Number(f)
	}
	tm, err := excelize.ExcelDateToTime(f, co.date1904)
	if err != nil {
		co.log.Warn("date formatted cell out of range", "cell", c.Ref.String(), "value", c.Value, "error", err)
		return Number(f)
	}
	return Date(tm)
}

func (co *Coercer) boolean(c Cell) Value {
	switch strings.ToLower(strings.TrimSpace(c.Value)) {
	case "1", "true":
		return Bool(true)
	case "0", "false":
		return Bool(false)
	}
	co.log.Warn("cell is not boolean", "cell", c.Ref.String(), "value", c.Value)
	return Absent()
}

func (co *Coercer) isoDate(c Cell) Value {
	raw := strings.TrimSpace(c.Value)
	if raw == "" {
		return Absent()
	}
	for _, layout := range isoDateLayouts {
		if tm, err := time.Parse(layout, raw); err == nil {
			return Date(tm)
		}
	}
	co.log.Warn("cell is not an ISO 8601 date", "cell", c.Ref.String(), "value", c.Value)
	return Absent()
}
