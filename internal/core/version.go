package core

import (
	"context"
	"encoding/binary"
	"sort"

	"github.com/zeebo/xxh3"
)

// Version returns a content hash over a sheet and every sheet its rows can
// pull in within depth reference hops. It changes when any of those sheets
// is reloaded with different content, so it is suitable as an HTTP
// validator for materialized responses. Negative depths are treated as zero.
func (s *Service) Version(ctx context.Context, name string, depth int) (uint64, error) {
	sums := make(map[string]uint64)
	if err := s.collectChecksums(ctx, name, clampDepth(depth), make(map[string]int), sums); err != nil {
		return 0, err
	}

	names := make([]string, 0, len(sums))
	for n := range sums {
		names = append(names, n)
	}
	sort.Strings(names)

	h := xxh3.New()
	var buf [8]byte
	for _, n := range names {
		_, _ = h.WriteString(n)
		binary.LittleEndian.PutUint64(buf[:], sums[n])
		_, _ = h.Write(buf[:])
	}
	return h.Sum64(), nil
}

// collectChecksums records the checksum of name and, while depth remains, of
// the sheets it references. seen holds the largest depth each sheet was
// visited with; a sheet is revisited only with more depth to spend.
func (s *Service) collectChecksums(ctx context.Context, name string, depth int, seen map[string]int, sums map[string]uint64) error {
	if d, ok := seen[name]; ok && d >= depth {
		return nil
	}
	seen[name] = depth

	data, err := s.GetSheetData(ctx, name)
	if err != nil {
		return err
	}
	sums[name] = data.Checksum

	if depth == 0 {
		return nil
	}
	for _, target := range s.referencedSheets(data) {
		if err := s.collectChecksums(ctx, target, depth-1, seen, sums); err != nil {
			return err
		}
	}
	return nil
}

// referencedSheets lists, in column order, the linkable sheets that at least
// one data row of data points into. These are the sheets materialization
// would fetch.
func (s *Service) referencedSheets(data *SheetData) []string {
	var out []string
	added := make(map[string]bool)
	for col, typ := range data.Types {
		if data.Fields[col] == "" || added[typ] || !s.linkable.Contains(typ) {
			continue
		}
		for _, cells := range data.Rows {
			if _, ok := Coerce(cells[col]).Index(); ok {
				out = append(out, typ)
				added[typ] = true
				break
			}
		}
	}
	return out
}
