// Package profile loads YAML ingestion profiles. A profile names a source
// file, its format and, for workbooks, how sheets are selected and rows keyed:
//
//	file: ${DATA_DIR}/orders.xlsx
//	format: xlsx
//	sheets:
//	  names: [Jan, Feb]
//	key:
//	  type: column
//	  column: B
//	lenient_headers: true
//
// ${VAR} references are expanded from the environment before parsing.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/randeepbydesign/readfilesfast/delimited"
	"github.com/randeepbydesign/readfilesfast/excel"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Formats understood by Format.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
	FormatJSON = "json"
)

// Key types.
const (
	KeyUniqueRow   = "unique_row"
	KeyFirstColumn = "first_column"
	KeyColumn      = "column"
	KeyExpr        = "expr"
	KeyNone        = "none"
)

// Profile is one ingestion job.
type Profile struct {
	Name           string            `yaml:"name"`
	File           string            `yaml:"file"`
	Format         string            `yaml:"format"`
	Password       string            `yaml:"password"`
	Sheets         Sheets            `yaml:"sheets"`
	Key            Key               `yaml:"key"`
	WithoutHeader  bool              `yaml:"without_header"`
	LenientHeaders bool              `yaml:"lenient_headers"`
	Delimited      DelimitedSettings `yaml:"delimited"`
	Snapshot       string            `yaml:"snapshot"`
}

// Sheets selects workbook sheets. At most one field may be set; none means
// the first sheet.
type Sheets struct {
	Names   []string `yaml:"names"`
	Indices []int    `yaml:"indices"`
	All     bool     `yaml:"all"`
}

// Key describes the grouping key. Column is a column letter ("B") or a
// 0-based column number ("1").
type Key struct {
	Type   string `yaml:"type"`
	Column string `yaml:"column"`
	Expr   string `yaml:"expr"`
}

// DelimitedSettings configures csv and tsv sources.
type DelimitedSettings struct {
	SkipHeader bool   `yaml:"skip_header"`
	Encoding   string `yaml:"encoding"`
}

// Load reads and validates the profile at path. A relative File is resolved
// against the profile's directory.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	if p.File != "" && !filepath.IsAbs(p.File) {
		p.File = filepath.Join(filepath.Dir(path), p.File)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes and validates a profile document.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// FormatOf returns the profile's format, falling back to the file extension.
func (p *Profile) FormatOf() string {
	if f := strings.ToLower(strings.TrimSpace(p.Format)); f != "" {
		return f
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p.File), "."))
	switch ext {
	case "xlsx", "xlsm", "xltx", "xltm":
		return FormatXLSX
	case "txt":
		return FormatTSV
	}
	return ext
}

// Validate checks the profile for contradictory or unknown settings.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.File) == "" {
		return fmt.Errorf("file is required")
	}
	switch p.FormatOf() {
	case FormatXLSX, FormatCSV, FormatTSV, FormatJSON:
	default:
		return fmt.Errorf("unsupported format %q", p.FormatOf())
	}

	set := 0
	if len(p.Sheets.Names) > 0 {
		set++
	}
	if len(p.Sheets.Indices) > 0 {
		set++
	}
	if p.Sheets.All {
		set++
	}
	if set > 1 {
		return fmt.Errorf("sheets: names, indices and all are mutually exclusive")
	}

	switch p.Key.Type {
	case "", KeyUniqueRow, KeyFirstColumn, KeyNone:
	case KeyColumn:
		if _, err := p.Key.column(); err != nil {
			return fmt.Errorf("key: %w", err)
		}
	case KeyExpr:
		if strings.TrimSpace(p.Key.Expr) == "" {
			return fmt.Errorf("key: expr is required for type %q", KeyExpr)
		}
	default:
		return fmt.Errorf("key: unknown type %q", p.Key.Type)
	}

	if p.Delimited.Encoding != "" {
		if _, err := delimited.Encoding(p.Delimited.Encoding); err != nil {
			return fmt.Errorf("delimited: %w", err)
		}
	}
	return nil
}

func (k Key) column() (int, error) {
	c := strings.TrimSpace(k.Column)
	if c == "" {
		return 0, fmt.Errorf("column is required for type %q", KeyColumn)
	}
	if n, err := strconv.Atoi(c); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("column %d is negative", n)
		}
		return n, nil
	}
	return excel.NameToCol(c)
}

// KeyFunc builds the grouping key. ok is false when the profile asks for the
// default per-row key, which the caller should leave to excel's defaults.
func (k Key) KeyFunc() (key excel.KeyFunc, ok bool, err error) {
	switch k.Type {
	case "", KeyUniqueRow:
		return nil, false, nil
	case KeyNone:
		return nil, true, nil
	case KeyFirstColumn:
		return excel.FirstColumn(), true, nil
	case KeyColumn:
		n, err := k.column()
		if err != nil {
			return nil, false, err
		}
		return excel.ColumnAt(n), true, nil
	case KeyExpr:
		f, err := excel.KeyExpr(k.Expr)
		if err != nil {
			return nil, false, err
		}
		return f, true, nil
	}
	return nil, false, fmt.Errorf("unknown key type %q", k.Type)
}

// SheetSelector returns the selector for the configured sheets.
func (s Sheets) SheetSelector() excel.SheetSelector {
	switch {
	case s.All:
		return excel.AllSheets()
	case len(s.Names) > 0:
		return excel.SheetsNamed(s.Names...)
	case len(s.Indices) > 0:
		return excel.SheetsAt(s.Indices...)
	}
	return excel.FirstSheet()
}

// ExcelOptions translates the profile into workbook ingestion options.
func (p *Profile) ExcelOptions(logger *zap.Logger) ([]excel.Option, error) {
	opts := []excel.Option{
		excel.WithSheets(p.Sheets.SheetSelector()),
		excel.WithLenientHeaders(p.LenientHeaders),
	}
	key, ok, err := p.Key.KeyFunc()
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, excel.WithKey(key))
	}
	if p.WithoutHeader {
		opts = append(opts, excel.WithoutHeader())
	}
	if p.Password != "" {
		opts = append(opts, excel.WithPassword(p.Password))
	}
	if logger != nil {
		opts = append(opts, excel.WithLogger(logger))
	}
	return opts, nil
}

// DelimitedOptions translates the profile into delimited source options.
func (p *Profile) DelimitedOptions(logger *zap.Logger) ([]delimited.Option, error) {
	sep := delimited.Tab
	if p.FormatOf() == FormatCSV {
		sep = delimited.Comma
	}
	opts := []delimited.Option{delimited.WithSeparator(sep)}
	if p.Delimited.SkipHeader {
		opts = append(opts, delimited.WithSkipHeader())
	}
	if p.Delimited.Encoding != "" {
		enc, err := delimited.Encoding(p.Delimited.Encoding)
		if err != nil {
			return nil, err
		}
		opts = append(opts, delimited.WithEncoding(enc))
	}
	if logger != nil {
		opts = append(opts, delimited.WithLogger(logger))
	}
	return opts, nil
}
