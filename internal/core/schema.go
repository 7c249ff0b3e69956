package core

// schema.go turns the raw row matrix of a sheet into a schema plus data rows.
//
// A raw sheet starts with three header rows:
//
//	key,0,1,2,...          index row, dropped
//	#,Name,{Key},Icon[0]   field names; first cell relabeled to the identifier
//	int32,str,int32,Item   field types; a type naming a linkable sheet marks a reference
//
// followed by the data rows. Column positions are preserved throughout, so
// empty field names still occupy their slot.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultIdentifier is the name given to the first column of every sheet.
const DefaultIdentifier = "ID"

// SheetData is the parsed, not yet materialized form of a sheet.
// It is what the cache stores, so it is shared and must not be mutated.
type SheetData struct {
	Name     string
	Fields   []string   // field names, braces stripped
	Types    []string   // per-column type names
	Rows     [][]string // data rows aligned with Fields
	Checksum uint64     // content hash of the raw CSV, used for HTTP validators
}

// fieldRef is the decoded form of a field name.
type fieldRef struct {
	name  string // plain name, or array base name
	index int    // array position, -1 for plain fields
}

func (f fieldRef) isArray() bool { return f.index >= 0 }

var fieldMemo memo[fieldRef]

// parseFieldName splits "Base[n]" into ("Base", n). Names without a valid
// non-negative integral index are plain fields.
func parseFieldName(name string) fieldRef {
	return fieldMemo.get(name, func(s string) fieldRef {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			return fieldRef{name: s, index: -1}
		}
		end := strings.IndexByte(s[open:], ']')
		if end < 0 {
			return fieldRef{name: s, index: -1}
		}
		idx, err := strconv.Atoi(s[open+1 : open+end])
		if err != nil || idx < 0 {
			return fieldRef{name: s, index: -1}
		}
		return fieldRef{name: s[:open], index: idx}
	})
}

// stripKeyBraces removes the braces marking the key field, e.g. "{Key}" -> "Key".
func stripKeyBraces(name string) string {
	if !strings.ContainsAny(name, "{}") {
		return name
	}
	return strings.NewReplacer("{", "", "}", "").Replace(name)
}

// ReadSheet tokenizes raw CSV text into rows of cells. A UTF-8 byte order
// mark is dropped and invalid UTF-8 is replaced before tokenizing.
func ReadSheet(r io.Reader) ([][]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1 // alignment is checked by ExtractSchema
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, &ParseError{Row: pe.StartLine - 1, Details: pe.Err.Error()}
		}
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rows, nil
}

// ExtractSchema splits a raw row matrix into field names, field types, and
// data rows. identifier replaces the first field name; empty means DefaultIdentifier.
// The input matrix is not modified.
func ExtractSchema(name string, raw [][]string, identifier string) (*SheetData, error) {
	if identifier == "" {
		identifier = DefaultIdentifier
	}
	if len(raw) < 3 {
		return nil, &ParseError{
			Sheet:   name,
			Row:     -1,
			Details: fmt.Sprintf("%d rows, want at least 3 header rows", len(raw)),
		}
	}

	header := raw[1]
	if len(header) == 0 {
		return nil, &ParseError{Sheet: name, Row: 1, Details: "empty field name row"}
	}

	fields := make([]string, len(header))
	for i, f := range header {
		fields[i] = stripKeyBraces(f)
	}
	fields[0] = identifier

	types := raw[2]
	if len(types) != len(fields) {
		return nil, &ParseError{
			Sheet:   name,
			Row:     2,
			Details: fmt.Sprintf("%d type cells, want %d", len(types), len(fields)),
		}
	}

	data := raw[3:]
	for i, row := range data {
		if len(row) != len(fields) {
			return nil, &ParseError{
				Sheet:   name,
				Row:     i + 3,
				Details: fmt.Sprintf("%d cells, want %d", len(row), len(fields)),
			}
		}
	}

	return &SheetData{
		Name:   name,
		Fields: fields,
		Types:  append([]string(nil), types...),
		Rows:   data,
	}, nil
}
