package core

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nestedRow returns {A:1, B:{C:2, D:3}, L:[10, {E:4}]}.
func nestedRow() *Row {
	b := NewRow()
	b.Set("C", Number(2))
	b.Set("D", Number(3))

	e := NewRow()
	e.Set("E", Number(4))

	row := NewRow()
	row.Set("A", Number(1))
	row.Set("B", RowValue(b))
	row.Set("L", List(Number(10), RowValue(e)))
	return row
}

func TestLookup(t *testing.T) {
	row := nestedRow()

	tests := []struct {
		path string
		want Value
		ok   bool
	}{
		{"A", Number(1), true},
		{"B.C", Number(2), true},
		{"L.0", Number(10), true},
		{"L.1.E", Number(4), true},
		{"L.2", Value{}, false},
		{"L.x", Value{}, false},
		{"B.X", Value{}, false},
		{"A.B", Value{}, false},
		{"Missing", Value{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := Lookup(row, tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v", got.Interface())
			}
		})
	}

	_, ok := Lookup(nil, "A")
	assert.False(t, ok)
}

func projectJSON(t *testing.T, row *Row, columns ...string) string {
	t.Helper()
	out, err := json.Marshal(Project(row, columns))
	require.NoError(t, err)
	return string(out)
}

func TestProject(t *testing.T) {
	row := nestedRow()

	tests := []struct {
		name    string
		columns []string
		want    string
	}{
		{"top level and nested leaf", []string{"A", "B.C"}, `{"A":1,"B":{"C":2}}`},
		{"shared prefix merges", []string{"B.C", "B.D"}, `{"B":{"C":2,"D":3}}`},
		{"whole field wins over later sub path", []string{"B", "B.C"}, `{"B":{"C":2,"D":3}}`},
		{"list item through index", []string{"L.1.E"}, `{"L":{"1":{"E":4}}}`},
		{"missing leaf leaves empty intermediate", []string{"B.X"}, `{"B":{}}`},
		{"missing intermediate", []string{"X.Y"}, `{"X":{}}`},
		{"missing top level field", []string{"Nope"}, `{}`},
		{"no columns", nil, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, projectJSON(t, row, tt.columns...))
		})
	}
}

func TestProject_KeepsColumnOrder(t *testing.T) {
	got := Project(nestedRow(), []string{"B.D", "A"})
	assert.Equal(t, []string{"B", "A"}, got.Keys())
}

func TestProject_DoesNotModifySource(t *testing.T) {
	row := nestedRow()
	_ = Project(row, []string{"B.C"})

	b, ok := Lookup(row, "B")
	require.True(t, ok)
	inner, _ := b.Row()
	assert.Equal(t, []string{"C", "D"}, inner.Keys())
}
