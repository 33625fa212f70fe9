package excel

import (
	"testing"
	"time"

	"github.com/randeepbydesign/readfilesfast/internal/logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var ref = NewCellRef("S", 0, 0)

func TestCoerce(t *testing.T) {
	dateCell := NewCell(ref, "45000", CellNumber)
	dateCell.NumFmt = 14

	customDate := NewCell(ref, "45000.5", CellNumber)
	customDate.NumFmt = 164
	customDate.CustomNumFmt = "yyyy-mm-dd hh:mm"

	currency := NewCell(ref, "12.5", CellNumber)
	currency.NumFmt = 164
	currency.CustomNumFmt = `"USD" #,##0.00`

	formulaNum := NewCell(ref, "3", CellFormula)
	formulaNum.CachedType = CellNumber
	formulaNum.Formula = "1+2"

	formulaStr := NewCell(ref, " ok ", CellFormula)
	formulaStr.Formula = `"ok"`

	formulaEmpty := NewCell(ref, "", CellFormula)
	formulaEmpty.Formula = "A1"

	tests := []struct {
		name string
		cell Cell
		want Value
	}{
		{"number", NewCell(ref, "36", CellNumber), Number(36)},
		{"number with spaces", NewCell(ref, " 1.5 ", CellNumber), Number(1.5)},
		{"empty number", NewCell(ref, "", CellNumber), Absent()},
		{"not numeric", NewCell(ref, "abc", CellNumber), Absent()},
		{"builtin date format", dateCell, Date(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC))},
		{"custom date format", customDate, Date(time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC))},
		{"quoted literal is not a date", currency, Number(12.5)},
		{"string trimmed", NewCell(ref, "  Ada ", CellString), Text("Ada")},
		{"empty string", NewCell(ref, "", CellString), Text("")},
		{"bool true", NewCell(ref, "1", CellBoolean), Bool(true)},
		{"bool false word", NewCell(ref, "FALSE", CellBoolean), Bool(false)},
		{"bool garbage", NewCell(ref, "maybe", CellBoolean), Absent()},
		{"iso date", NewCell(ref, "2024-02-29", CellDate), Date(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))},
		{"iso datetime", NewCell(ref, "2024-02-29T10:30:00", CellDate), Date(time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC))},
		{"bad iso date", NewCell(ref, "yesterday", CellDate), Absent()},
		{"blank", NewCell(ref, "", CellBlank), Absent()},
		{"error", NewCell(ref, "#DIV/0!", CellError), Absent()},
		{"formula numeric result", formulaNum, Number(3)},
		{"formula string result", formulaStr, Text("ok")},
		{"formula without result", formulaEmpty, Absent()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.cell)
			assert.True(t, tt.want.Equal(got), "want %v (%s), got %v (%s)", tt.want, tt.want.Kind(), got, got.Kind())
		})
	}
}

func TestCoerce_Date1904(t *testing.T) {
	c := NewCell(ref, "45000", CellNumber)
	c.NumFmt = 14

	d1900 := NewCoercer(false, nil).Coerce(c)
	d1904 := NewCoercer(true, nil).Coerce(c)
	assert.Equal(t, KindDate, d1904.Kind())
	assert.Equal(t, 1462*24*time.Hour, d1904.Time().Sub(d1900.Time()))
}

func TestCoerce_NegativeDateFallsBackToNumber(t *testing.T) {
	c := NewCell(ref, "-1", CellNumber)
	c.NumFmt = 14
	assert.True(t, Number(-1).Equal(Coerce(c)))
}

func TestCoerce_WarnsOnMismatch(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	co := NewCoercer(false, logging.FromZap(zap.New(core)))

	v := co.Coerce(NewCell(NewCellRef("People", 3, 1), "n/a", CellNumber))
	assert.True(t, v.IsAbsent())

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "cell is not numeric", entries[0].Message)
		assert.Equal(t, "People!B4", entries[0].ContextMap()["cell"])
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		id   int
		code string
		want bool
	}{
		{0, "", false},
		{2, "", false},
		{14, "", true},
		{22, "", true},
		{27, "", true},
		{45, "", true},
		{49, "", false},
		{58, "", true},
		{164, "yyyy-mm-dd", true},
		{164, "h:mm AM/PM", true},
		{164, "#,##0.00", false},
		{164, `"days" 0`, false},
		{164, `[Red]0.00`, false},
		{164, `0\d`, false},
		{164, `_-* #,##0_-`, false},
		{164, "[$-409]mmm d", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsDateFormat(tt.id, tt.code), "id=%d code=%q", tt.id, tt.code)
	}
}
