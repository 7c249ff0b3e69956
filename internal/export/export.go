package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCSV, FormatXLSX}

// ParseFormat resolves a format name, case-insensitively. "yml" is YAML and
// "" is JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want json, yaml, csv, or xlsx)", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for f, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// Flat reports whether f loses nesting and pagination.
func (f Format) Flat() bool {
	return f == FormatCSV || f == FormatXLSX
}

// WriteResult encodes a search result. JSON and YAML include pagination;
// CSV and XLSX hold only the result rows.
func WriteResult(w io.Writer, f Format, sheet string, res *core.SearchResult) error {
	if f.Flat() {
		return WriteRows(w, f, sheet, res.Results)
	}
	return encode(w, f, res)
}

// WriteRows encodes rows. JSON and YAML produce a list of objects.
func WriteRows(w io.Writer, f Format, sheet string, rows []*core.Row) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, Flatten(rows))
	case FormatXLSX:
		return writeXLSX(w, sheet, Flatten(rows))
	default:
		if rows == nil {
			rows = []*core.Row{}
		}
		return encode(w, f, rows)
	}
}

// WriteRow encodes a single row, or null when row is nil.
func WriteRow(w io.Writer, f Format, sheet string, row *core.Row) error {
	if f.Flat() {
		var rows []*core.Row
		if row != nil {
			rows = append(rows, row)
		}
		return WriteRows(w, f, sheet, rows)
	}
	return encode(w, f, row)
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q cannot encode nested values", f)
}

func writeCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = v.Raw()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// maxSheetNameLen is the longest worksheet name spreadsheet apps accept.
const maxSheetNameLen = 31

func writeXLSX(w io.Writer, sheet string, t *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	name := worksheetName(sheet)
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}

	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("create worksheet writer: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	header := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = excelize.Cell{StyleID: bold, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write xlsx row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush xlsx: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// cellValue converts a scalar to the Go value excelize stores natively.
func cellValue(v core.Value) any {
	switch v.Kind() {
	case core.KindNumber:
		f, _ := v.Float()
		return f
	case core.KindBool:
		b, _ := v.BoolValue()
		return b
	case core.KindString:
		s, _ := v.Str()
		return s
	}
	return nil
}

// worksheetName makes sheet usable as a worksheet name.
func worksheetName(sheet string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, sheet)
	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetNameLen {
		name = string(r[:maxSheetNameLen])
	}
	return name
}
