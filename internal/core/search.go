package core

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"
)

// NameField is the field the search term is matched against.
const NameField = "Name"

// Search materializes a sheet and returns the rows that match opts, in sheet
// order. Rows are kept when their Name is within ScoreThreshold edits of the
// search term (case-insensitive) and every filter matches, then projected to
// Columns when any are given. All matches are returned on a single page.
func (s *Service) Search(ctx context.Context, sheet string, opts SearchOptions) (*SearchResult, error) {
	opts = opts.Validate()

	// Parse before fetching so a bad expression costs nothing.
	filters, err := ParseFilters(opts.Filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.GetSheet(ctx, sheet, opts.Depth())
	if err != nil {
		return nil, err
	}

	threshold := opts.Threshold()
	results := make([]*Row, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		if opts.SearchTerm != "" && nameDistance(row, opts.SearchTerm) > threshold {
			continue
		}
		if !MatchAll(row, filters) {
			continue
		}
		if len(opts.Columns) > 0 {
			row = Project(row, opts.Columns)
		}
		results = append(results, row)
	}

	s.logger.Debug("sheet searched",
		"sheet", sheet,
		"term", opts.SearchTerm,
		"filters", len(filters),
		"rows", len(rows),
		"results", len(results),
	)

	return &SearchResult{
		Pagination: SinglePage(len(results)),
		Results:    results,
	}, nil
}

// nameDistance is the edit distance between the row's lower-cased Name and
// term. A missing or non-string Name counts as empty.
func nameDistance(row *Row, term string) int {
	name := ""
	if v, ok := row.Get(NameField); ok {
		name, _ = v.Str()
	}
	return levenshtein.ComputeDistance(strings.ToLower(name), term)
}
