package core

import (
	"strconv"
	"strings"
)

// PathSeparator splits nested field paths such as "ItemResult.Name".
const PathSeparator = "."

// SplitPath splits a dotted field path into its segments.
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// Lookup walks a dotted path through nested rows and lists. Segments address
// row fields by name and list items by decimal position. It reports false
// when any segment is missing, including a walk through a null or scalar.
func Lookup(row *Row, path string) (Value, bool) {
	return lookupSegments(RowValue(row), SplitPath(path))
}

func lookupSegments(cur Value, segments []string) (Value, bool) {
	for _, seg := range segments {
		next, ok := child(cur, seg)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// child returns the field or item named seg inside v.
func child(v Value, seg string) (Value, bool) {
	switch v.Kind() {
	case KindRow:
		r, _ := v.Row()
		return r.Get(seg)
	case KindList:
		items, _ := v.Items()
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(items) {
			return Value{}, false
		}
		return items[i], true
	}
	return Value{}, false
}
