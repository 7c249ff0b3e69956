package core

import (
	"context"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(t *testing.T, rows []*Row) []string {
	t.Helper()
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		v, ok := r.Get("Name")
		require.True(t, ok)
		s, _ := v.Str()
		out = append(out, s)
	}
	return out
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		opts SearchOptions
		want []string
	}{
		{
			name: "no options returns every row",
			opts: SearchOptions{},
			want: []string{"Potion", "Hi-Potion", "Ether"},
		},
		{
			name: "term within default threshold",
			opts: SearchOptions{SearchTerm: "  POTIONS "},
			want: []string{"Potion"},
		},
		{
			name: "wider threshold",
			opts: SearchOptions{SearchTerm: "potion", ScoreThreshold: IntOption(3)},
			want: []string{"Potion", "Hi-Potion"},
		},
		{
			name: "explicit zero threshold is exact",
			opts: SearchOptions{SearchTerm: "potio", ScoreThreshold: IntOption(0)},
			want: []string{},
		},
		{
			name: "numeric filter",
			opts: SearchOptions{Filters: []string{"Level>=30"}},
			want: []string{"Hi-Potion", "Ether"},
		},
		{
			name: "filter through a resolved reference",
			opts: SearchOptions{Filters: []string{"ItemUICategory.Name=Reagent"}},
			want: []string{"Hi-Potion"},
		},
		{
			name: "filters combine",
			opts: SearchOptions{SearchTerm: "potion", ScoreThreshold: IntOption(3), Filters: []string{"Level<10"}},
			want: []string{"Potion"},
		},
		{
			name: "absent field never matches",
			opts: SearchOptions{Filters: []string{"Rarity>0"}},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, newFakeSource())

			res, err := svc.Search(context.Background(), "Item", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(t, res.Results))
			assert.Equal(t, SinglePage(len(tt.want)), res.Pagination)
		})
	}
}

func TestSearch_Columns(t *testing.T) {
	svc := newTestService(t, newFakeSource())

	res, err := svc.Search(context.Background(), "Item", SearchOptions{
		SearchTerm: "potion",
		Columns:    []string{"Name", "ItemUICategory.Name"},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)

	out, err := json.Marshal(res.Results[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Name":"Potion","ItemUICategory":{"Name":"Medicine"}}`, string(out))
}

func TestSearch_DepthZeroKeepsIndexes(t *testing.T) {
	src := newFakeSource()
	svc := newTestService(t, src)

	res, err := svc.Search(context.Background(), "Item", SearchOptions{
		Filters:      []string{"ItemUICategory=1"},
		RecurseDepth: IntOption(0),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi-Potion"}, names(t, res.Results))
	assert.Equal(t, 1, src.total())
}

func TestSearch_MalformedFilterFetchesNothing(t *testing.T) {
	src := newFakeSource()
	svc := newTestService(t, src)

	_, err := svc.Search(context.Background(), "Item", SearchOptions{Filters: []string{"Level"}})
	assert.ErrorIs(t, err, ErrMalformedFilter)
	assert.Equal(t, 0, src.total())
}

func TestSearch_UnknownSheet(t *testing.T) {
	svc := newTestService(t, newFakeSource())

	_, err := svc.Search(context.Background(), "Nope", SearchOptions{})
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestSearchOptions_Validate(t *testing.T) {
	got := SearchOptions{SearchTerm: "  Hi-Potion ", RecurseDepth: IntOption(-2)}.Validate()

	assert.Equal(t, "hi-potion", got.SearchTerm)
	assert.Equal(t, DefaultScoreThreshold, got.Threshold())
	assert.Equal(t, 0, got.Depth())
	assert.NotNil(t, got.Columns)
	assert.NotNil(t, got.Filters)

	assert.Equal(t, DefaultRecurseDepth, SearchOptions{}.Depth())
	assert.Equal(t, 4, SearchOptions{ScoreThreshold: IntOption(4)}.Threshold())
}
