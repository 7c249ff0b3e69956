package core

// Project returns a new row holding only the given dotted paths of row.
//
// A single-segment path copies the field as is, nested rows and lists
// included. A longer path rebuilds just the chain of rows leading to its
// leaf, so {A:1, B:{C:2, D:3}} projected on ["A", "B.C"] is {A:1, B:{C:2}}.
// Paths sharing a prefix share the rebuilt rows. Intermediate rows are
// created even when the source has no such path; a missing leaf is left out.
// A path below a field already copied whole adds nothing.
func Project(row *Row, columns []string) *Row {
	out := NewRow()
	// built tracks the rows Project created, as opposed to copied values.
	built := map[*Row]bool{out: true}

	for _, col := range columns {
		segments := SplitPath(col)
		if len(segments) == 1 {
			if v, ok := row.Get(col); ok {
				out.Set(col, v)
			}
			continue
		}

		dst := out
		src := RowValue(row)
		srcOK := true
		for _, seg := range segments[:len(segments)-1] {
			next, ok := intermediate(dst, seg, built)
			if !ok {
				dst = nil
				break
			}
			dst = next
			if srcOK {
				src, srcOK = child(src, seg)
			}
		}
		if dst == nil || !srcOK {
			continue
		}

		leaf := segments[len(segments)-1]
		if v, ok := child(src, leaf); ok {
			dst.Set(leaf, v)
		}
	}
	return out
}

// intermediate returns the projected row stored under seg in dst, creating
// it if needed. It reports false when seg already holds a copied value.
func intermediate(dst *Row, seg string, built map[*Row]bool) (*Row, bool) {
	if v, ok := dst.Get(seg); ok {
		r, isRow := v.Row()
		if !isRow || !built[r] {
			return nil, false
		}
		return r, true
	}
	r := NewRow()
	built[r] = true
	dst.Set(seg, RowValue(r))
	return r, true
}
