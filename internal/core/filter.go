package core

import (
	"fmt"
	"math"
	"strings"
)

// operatorChars are the characters that may form a filter operator.
const operatorChars = "<=>"

// ParseFilters parses expressions of the form field<op>value.
//
// The operator spans from the first to the last operator character in the
// expression, so "Level>=50" yields ">=" and the value is everything after
// it, coerced like a cell. An expression with no operator character is an
// ErrMalformedFilter. A span that is not one of the five known operators
// parses, but the resulting filter never matches.
func ParseFilters(exprs []string) ([]Filter, error) {
	filters := make([]Filter, 0, len(exprs))
	for _, expr := range exprs {
		f, err := ParseFilter(expr)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// ParseFilter parses a single filter expression. See ParseFilters.
func ParseFilter(expr string) (Filter, error) {
	start := strings.IndexAny(expr, operatorChars)
	if start < 0 {
		return Filter{}, fmt.Errorf("%w: %q has no comparison operator", ErrMalformedFilter, expr)
	}
	end := strings.LastIndexAny(expr, operatorChars)

	return Filter{
		FieldName: expr[:start],
		Operator:  Operator(expr[start : end+1]),
		Value:     Coerce(expr[end+1:]),
	}, nil
}

// Valid reports whether op is one of the known comparisons.
func (op Operator) Valid() bool {
	switch op {
	case OpEqual, OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

// Match reports whether row satisfies f. A path that does not exist in the
// row fails every operator.
func (f Filter) Match(row *Row) bool {
	v, ok := Lookup(row, f.FieldName)
	if !ok {
		return false
	}
	return Compare(v, f.Operator, f.Value)
}

// MatchAll reports whether row satisfies every filter. No filters always match.
func MatchAll(row *Row, filters []Filter) bool {
	for _, f := range filters {
		if !f.Match(row) {
			return false
		}
	}
	return true
}

// Compare evaluates lhs op rhs.
//
// Equality is strict: both sides must have the same kind and payload.
// Ordering compares numerically when both sides are numbers, bools, or
// nulls (false and null count as 0, true as 1), and lexically when both
// are strings. Any other pairing is false.
func Compare(lhs Value, op Operator, rhs Value) bool {
	if op == OpEqual {
		return lhs.Equal(rhs)
	}
	if !op.Valid() {
		return false
	}

	var c int
	if a, ok := numeric(lhs); ok {
		b, ok := numeric(rhs)
		if !ok {
			return false
		}
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}
		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	} else if a, ok := lhs.Str(); ok {
		b, ok := rhs.Str()
		if !ok {
			return false
		}
		c = strings.Compare(a, b)
	} else {
		return false
	}

	switch op {
	case OpGreater:
		return c > 0
	case OpGreaterEqual:
		return c >= 0
	case OpLess:
		return c < 0
	case OpLessEqual:
		return c <= 0
	}
	return false
}

func numeric(v Value) (float64, bool) {
	switch v.Kind() {
	case KindNumber:
		f, _ := v.Float()
		return f, true
	case KindBool:
		if b, _ := v.BoolValue(); b {
			return 1, true
		}
		return 0, true
	case KindNull:
		return 0, true
	}
	return 0, false
}
