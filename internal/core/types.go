package core

import "strings"

// DefaultScoreThreshold is the largest edit distance a name may be from the
// search term and still match, when the caller does not say otherwise.
const DefaultScoreThreshold = 1

// SearchOptions configures Service.Search. The zero value returns every row
// resolved at DefaultRecurseDepth.
type SearchOptions struct {
	SearchTerm     string   // matched against each row's Name; empty means no name filter
	ScoreThreshold *int     // nil means DefaultScoreThreshold
	Columns        []string // dotted paths to project; empty means whole rows
	Filters        []string // raw filter expressions such as "Level>=50"
	RecurseDepth   *int     // nil means DefaultRecurseDepth
}

// IntOption returns a pointer to n for the optional fields of SearchOptions.
func IntOption(n int) *int { return &n }

// Validate returns a copy of o with defaults filled in and the search term
// normalized. It never fails; negative depths become zero.
func (o SearchOptions) Validate() SearchOptions {
	out := o
	out.SearchTerm = strings.ToLower(strings.TrimSpace(o.SearchTerm))

	threshold := DefaultScoreThreshold
	if o.ScoreThreshold != nil {
		threshold = *o.ScoreThreshold
	}
	out.ScoreThreshold = &threshold

	depth := DefaultRecurseDepth
	if o.RecurseDepth != nil {
		depth = clampDepth(*o.RecurseDepth)
	}
	out.RecurseDepth = &depth

	if out.Columns == nil {
		out.Columns = []string{}
	}
	if out.Filters == nil {
		out.Filters = []string{}
	}
	return out
}

// Threshold returns the effective score threshold.
func (o SearchOptions) Threshold() int {
	if o.ScoreThreshold == nil {
		return DefaultScoreThreshold
	}
	return *o.ScoreThreshold
}

// Depth returns the effective recursion depth.
func (o SearchOptions) Depth() int {
	if o.RecurseDepth == nil {
		return DefaultRecurseDepth
	}
	return clampDepth(*o.RecurseDepth)
}

// Pagination describes the single page a search returns.
type Pagination struct {
	Page           int `json:"Page" yaml:"Page"`
	PageNext       int `json:"PageNext" yaml:"PageNext"`
	PagePrev       int `json:"PagePrev" yaml:"PagePrev"`
	PageTotal      int `json:"PageTotal" yaml:"PageTotal"`
	Results        int `json:"Results" yaml:"Results"`
	ResultsPerPage int `json:"ResultsPerPage" yaml:"ResultsPerPage"`
	ResultsTotal   int `json:"ResultsTotal" yaml:"ResultsTotal"`
}

// SinglePage returns pagination for n results all on one page.
func SinglePage(n int) Pagination {
	return Pagination{
		Page:           1,
		PageNext:       1,
		PagePrev:       1,
		PageTotal:      1,
		Results:        n,
		ResultsPerPage: n,
		ResultsTotal:   n,
	}
}

// SearchResult is the response of Service.Search.
type SearchResult struct {
	Pagination Pagination `json:"Pagination" yaml:"Pagination"`
	Results    []*Row     `json:"Results" yaml:"Results"`
}

// Operator is a filter comparison.
type Operator string

const (
	OpEqual        Operator = "="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
)

// Filter is a parsed filter expression.
type Filter struct {
	FieldName string   // dotted path into the row
	Operator  Operator // one of the Op constants
	Value     Value    // coerced right-hand side
}
