// Package export renders materialized rows as JSON, YAML, CSV, or XLSX.
//
// JSON and YAML keep the nested shape of rows. CSV and XLSX are flat, so
// nested rows and lists are spread over dotted columns: a row
// {ID:1, Icon:[10,11], ClassJob:{Name:"Gladiator"}} becomes the columns
// ID, Icon.0, Icon.1, ClassJob.Name.
package export

import (
	"strconv"

	"github.com/JonMunkholm/sheetresolver/internal/core"
)

// Table is a flat rendering of rows: column names plus one value per column
// per row. Cells a row does not have are null.
type Table struct {
	Columns []string
	Rows    [][]core.Value
}

// Flatten spreads rows over dotted columns. Columns appear in the order they
// are first seen. Nil rows are skipped.
func Flatten(rows []*core.Row) *Table {
	t := &Table{}
	index := make(map[string]int)
	flat := make([]map[string]core.Value, 0, len(rows))

	for _, row := range rows {
		if row == nil {
			continue
		}
		cells := make(map[string]core.Value)
		flattenRow(row, "", func(col string, v core.Value) {
			if _, ok := index[col]; !ok {
				index[col] = len(t.Columns)
				t.Columns = append(t.Columns, col)
			}
			cells[col] = v
		})
		flat = append(flat, cells)
	}

	t.Rows = make([][]core.Value, len(flat))
	for i, cells := range flat {
		out := make([]core.Value, len(t.Columns))
		for col, v := range cells {
			out[index[col]] = v
		}
		t.Rows[i] = out
	}
	return t
}

func flattenRow(row *core.Row, prefix string, emit func(string, core.Value)) {
	for _, key := range row.Keys() {
		v, _ := row.Get(key)
		flattenValue(v, join(prefix, key), emit)
	}
}

func flattenValue(v core.Value, col string, emit func(string, core.Value)) {
	switch v.Kind() {
	case core.KindRow:
		r, _ := v.Row()
		flattenRow(r, col, emit)
	case core.KindList:
		items, _ := v.Items()
		for i, item := range items {
			flattenValue(item, join(col, strconv.Itoa(i)), emit)
		}
	default:
		emit(col, v)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + core.PathSeparator + key
}
