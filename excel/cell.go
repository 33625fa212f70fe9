package excel

// CellType is the stored type of a spreadsheet cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellDate
	CellFormula
	CellError
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellDate:
		return "Date"
	case CellFormula:
		return "Formula"
	case CellError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Cell is one raw cell as a Sheet hands it over, before coercion.
type Cell struct {
	Ref          CellRef  // cell position
	Type         CellType // stored type
	Value        string   // stored value, or the cached result for formula cells
	Formula      string   // formula text without leading "=", if any
	CachedType   CellType // type of the cached result when Type == CellFormula
	NumFmt       int      // built-in number format id
	CustomNumFmt string   // custom number format code, when NumFmt is not built in
}

// NewCell creates a Cell with a reference, stored value, and type.
func NewCell(ref CellRef, value string, cellType CellType) Cell {
	return Cell{Ref: ref, Value: value, Type: cellType}
}

// IsFormulaCell returns true if this cell contains a formula.
func (c Cell) IsFormulaCell() bool {
	return c.Type == CellFormula || c.Formula != ""
}
