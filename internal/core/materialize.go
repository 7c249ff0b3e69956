package core

// materialize.go builds typed rows from parsed sheet data.
//
// Array columns ("Foo[0]", "Foo[1]", ...) are gathered into one list under
// the base name. Columns whose type names a linkable sheet hold row indexes;
// while depth remains they are replaced by the referenced row, fetched with
// depth-1. Depth is the only bound on recursion: cyclic references are
// followed until it runs out.

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// reference is a cell that points at a row of another sheet.
type reference struct {
	field string // plain field name or array base name
	slot  int    // array position, -1 for plain fields
	sheet string
	index Value
	row   *Row
}

// materialize builds every row of data. Rows resolve concurrently when
// references may be followed; order is preserved.
func (s *Service) materialize(ctx context.Context, data *SheetData, depth int) ([]*Row, error) {
	rows := make([]*Row, len(data.Rows))

	if depth == 0 {
		for i, cells := range data.Rows {
			row, err := s.buildRow(ctx, data, cells, 0)
			if err != nil {
				return nil, err
			}
			rows[i] = row
		}
		return rows, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, cells := range data.Rows {
		g.Go(func() error {
			row, err := s.buildRow(gctx, data, cells, depth)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

// buildRow materializes one data row. cells must be aligned with data.Fields.
func (s *Service) buildRow(ctx context.Context, data *SheetData, cells []string, depth int) (*Row, error) {
	row := NewRow()
	arrays := make(map[string][]Value)
	var refs []*reference

	for col, name := range data.Fields {
		if name == "" {
			continue
		}
		value := Coerce(cells[col])
		field := parseFieldName(name)

		if field.isArray() {
			if _, ok := arrays[field.name]; !ok {
				// Reserve the key position; the list is stored once complete.
				row.Set(field.name, Null())
			}
			arrays[field.name] = setArrayItem(arrays[field.name], field.index, value)
		} else {
			row.Set(field.name, value)
		}

		if depth > 0 && s.linkable.Contains(data.Types[col]) {
			refs = append(refs, &reference{
				field: field.name,
				slot:  field.index,
				sheet: data.Types[col],
				index: value,
			})
		}
	}

	if len(refs) > 0 {
		if err := s.resolveReferences(ctx, refs, depth-1); err != nil {
			return nil, fmt.Errorf("resolve %s references: %w", data.Name, err)
		}
		for _, ref := range refs {
			resolved := RowValue(ref.row)
			if ref.slot >= 0 {
				arrays[ref.field][ref.slot] = resolved
			} else {
				row.Set(ref.field, resolved)
			}
		}
	}

	for name, items := range arrays {
		row.Set(name, List(items...))
	}
	return row, nil
}

// resolveReferences fetches the target row of every reference concurrently.
// Indexes that are not valid row positions resolve to nil.
func (s *Service) resolveReferences(ctx context.Context, refs []*reference, depth int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, ref := range refs {
		idx, ok := ref.index.Index()
		if !ok {
			continue
		}
		g.Go(func() error {
			row, err := s.GetSheetItem(gctx, ref.sheet, idx, depth)
			if err != nil {
				return err
			}
			ref.row = row
			return nil
		})
	}
	return g.Wait()
}

// setArrayItem stores v at position idx, growing items with nulls as needed.
func setArrayItem(items []Value, idx int, v Value) []Value {
	if idx >= len(items) {
		grown := make([]Value, idx+1)
		copy(grown, items)
		items = grown
	}
	items[idx] = v
	return items
}
