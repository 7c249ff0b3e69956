package core

// value.go defines the typed cell value produced by materialization.
//
// A Value is one of: null, number (float64), bool, string, a nested Row
// (result of reference resolution), or an ordered list of values (array
// fields). The zero Value is null.

import (
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindString
	KindRow
	KindList
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindRow:
		return "row"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a tagged variant holding one materialized cell.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  string
	row  *Row
	list []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// RowValue wraps a resolved row. A nil row is null.
func RowValue(r *Row) Value {
	if r == nil {
		return Null()
	}
	return Value{kind: KindRow, row: r}
}

// List returns a list value holding vs.
func List(vs ...Value) Value {
	if vs == nil {
		vs = []Value{}
	}
	return Value{kind: KindList, list: vs}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// BoolValue returns the boolean payload and whether v is a bool.
func (v Value) BoolValue() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Row returns the nested row and whether v holds one.
func (v Value) Row() (*Row, bool) { return v.row, v.kind == KindRow }

// Items returns the list elements and whether v is a list.
func (v Value) Items() ([]Value, bool) { return v.list, v.kind == KindList }

// Index returns v as a non-negative integral row index.
// Nulls, non-numbers, negatives and fractional numbers are not indexes.
func (v Value) Index() (int, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if v.num < 0 || v.num != math.Trunc(v.num) || v.num > math.MaxInt32 {
		return 0, false
	}
	return int(v.num), true
}

// Raw renders a scalar back to the cell text that coerces to it.
// Rows and lists have no cell form and render as "".
func (v Value) Raw() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		if v.b {
			return literalTrue
		}
		return literalFalse
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Interface converts v to plain Go values (nil, float64, bool, string,
// map[string]any, []any) for encoders that do not know about Value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindString:
		return v.str
	case KindRow:
		return v.row.Map()
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports strict equality: same kind and same scalar payload.
// Rows and lists compare by identity of their backing storage.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.str == o.str
	case KindRow:
		return v.row == o.row
	case KindList:
		return len(v.list) > 0 && len(o.list) > 0 && &v.list[0] == &o.list[0]
	}
	return false
}

// MarshalJSON encodes v as its natural JSON form. Non-finite numbers encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return []byte("null"), nil
		}
		return strconv.AppendFloat(nil, v.num, 'f', -1, 64), nil
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindString:
		return json.Marshal(v.str)
	case KindRow:
		return v.row.MarshalJSON()
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML lets yaml.v3 encode v.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindRow:
		return v.row.MarshalYAML()
	case KindList:
		return v.list, nil
	case KindNumber:
		return v.num, nil
	case KindBool:
		return v.b, nil
	case KindString:
		return v.str, nil
	default:
		return nil, nil
	}
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
