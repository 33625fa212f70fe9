package excel

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writePeople saves a workbook with a header, a date-formatted number, a
// boolean and a formula with a cached result.
func writePeople(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Name", "Born", "Active", "Label", "Age"}))
	require.NoError(t, f.SetCellStr("Sheet1", "A2", "Ada"))
	require.NoError(t, f.SetCellFloat("Sheet1", "B2", 45000, -1, 64))
	require.NoError(t, f.SetCellBool("Sheet1", "C2", true))
	require.NoError(t, f.SetCellDefault("Sheet1", "D2", "3"))
	require.NoError(t, f.SetCellFormula("Sheet1", "D2", "1+2"))
	require.NoError(t, f.SetCellInt("Sheet1", "E2", 36))

	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", style))

	_, err = f.NewSheet("Extra")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Extra", "A1", &[]any{"Name", "Born", "Active", "Label", "Age"}))
	require.NoError(t, f.SetSheetRow("Extra", "A2", &[]any{"Grace"}))

	path := filepath.Join(t.TempDir(), "people.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelizeWorkbook_ReadCells(t *testing.T) {
	wb, err := OpenFile(writePeople(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Sheet1", "Extra"}, wb.SheetNames())
	assert.False(t, wb.Date1904())

	s, err := wb.Sheet("sheet1")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", s.Name())

	rows, err := s.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	data := rows[1]
	require.Len(t, data, 5)
	assert.Equal(t, CellString, data[0].Type)
	assert.Equal(t, CellNumber, data[1].Type)
	assert.Equal(t, 14, data[1].NumFmt)
	assert.Equal(t, CellBoolean, data[2].Type)
	assert.Equal(t, CellFormula, data[3].Type)
	assert.Equal(t, CellString, data[3].CachedType)
	assert.Equal(t, "1+2", data[3].Formula)
	assert.Equal(t, "D2", data[3].Ref.CellName())

	g, err := Extract(s)
	require.NoError(t, err)
	require.Len(t, g.Rows, 1)
	r := g.Rows[0]
	assert.Equal(t, Text("Ada"), r.Cell(0))
	assert.True(t, Date(time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)).Equal(r.Cell(1)))
	assert.Equal(t, Bool(true), r.Cell(2))
	assert.Equal(t, Text("3"), r.Cell(3), "excelize stores formula results as t=\"str\"")
	assert.Equal(t, Number(36), r.Cell(4))
}

func TestExcelizeWorkbook_MissingSheet(t *testing.T) {
	wb, err := OpenFile(writePeople(t))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Sheet("Nope")
	var notExist excelize.ErrSheetNotExist
	assert.ErrorAs(t, err, &notExist)
}

func TestExcelizeWorkbook_Date1904(t *testing.T) {
	f := excelize.NewFile()
	on := true
	require.NoError(t, f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &on}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	wb, err := OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	assert.True(t, wb.Date1904())
}

func TestOpenFile_Missing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestSheetNamesOf(t *testing.T) {
	names, err := SheetNamesOf(writePeople(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Extra"}, names)

	_, err = SheetNamesOf("missing.xlsx")
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}
