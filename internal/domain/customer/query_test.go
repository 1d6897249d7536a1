package customer

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(id int64, first, last, email string) CustomerSummary {
	return CustomerSummary{
		ID:         id,
		FirstName:  first,
		LastName:   last,
		Email:      email,
		Status:     StatusActive,
		CreatedAt:  time.Date(2024, 1, int(id%27)+1, 0, 0, 0, 0, time.UTC),
		TotalSpent: decimal.Zero,
		Segment:    SegmentBasic,
	}
}

func TestSearchQuery_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   SearchQuery
		want SearchQuery
	}{
		{
			name: "zero value gets defaults",
			in:   SearchQuery{},
			want: SearchQuery{Status: StatusAll, SortBy: SortByName, SortDirection: Ascending, Page: 1, PageSize: DefaultPageSize},
		},
		{
			name: "whitespace term is cleared",
			in:   SearchQuery{Term: "   "},
			want: SearchQuery{Status: StatusAll, SortBy: SortByName, SortDirection: Ascending, Page: 1, PageSize: DefaultPageSize},
		},
		{
			name: "page below one clamps to one",
			in:   SearchQuery{Page: -3, PageSize: 20},
			want: SearchQuery{Status: StatusAll, SortBy: SortByName, SortDirection: Ascending, Page: 1, PageSize: 20},
		},
		{
			name: "page size above max clamps to max",
			in:   SearchQuery{Page: 2, PageSize: 5000},
			want: SearchQuery{Status: StatusAll, SortBy: SortByName, SortDirection: Ascending, Page: 2, PageSize: MaxPageSize},
		},
		{
			name: "unrecognized sort field falls back to name",
			in:   SearchQuery{SortBy: SortField("bogus"), SortDirection: SortDirection("sideways")},
			want: SearchQuery{Status: StatusAll, SortBy: SortByName, SortDirection: Ascending, Page: 1, PageSize: DefaultPageSize},
		},
		{
			name: "status filter is lowercased",
			in:   SearchQuery{Status: "Inactive"},
			want: SearchQuery{Status: "inactive", SortBy: SortByName, SortDirection: Ascending, Page: 1, PageSize: DefaultPageSize},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestSearchQuery_Matches(t *testing.T) {
	s := summary(1, "Alice", "Johnson", "alice.j@example.com")
	s.Phone = "555-0101"

	t.Run("blank term applies no text filter", func(t *testing.T) {
		q := SearchQuery{}.Normalize()
		assert.True(t, q.Matches(s))
	})

	t.Run("matches substrings case-insensitively", func(t *testing.T) {
		for _, term := range []string{"alice", "JOHN", "example.com", "555"} {
			q := SearchQuery{Term: term}.Normalize()
			assert.True(t, q.Matches(s), "term %q", term)
		}
	})

	t.Run("non-matching term filters out", func(t *testing.T) {
		q := SearchQuery{Term: "zebra"}.Normalize()
		assert.False(t, q.Matches(s))
	})

	t.Run("status filter", func(t *testing.T) {
		q := SearchQuery{Status: "inactive"}.Normalize()
		assert.False(t, q.Matches(s))

		q = SearchQuery{Status: "active"}.Normalize()
		assert.True(t, q.Matches(s))

		q = SearchQuery{Status: "All"}.Normalize()
		assert.True(t, q.Matches(s))
	})
}

func TestSortSummaries_NameTieBreak(t *testing.T) {
	items := []CustomerSummary{
		summary(1, "Zoe", "Smith", "zoe@example.com"),
		summary(2, "Adam", "Smith", "adam@example.com"),
		summary(3, "Bea", "Jones", "bea@example.com"),
	}

	t.Run("ascending", func(t *testing.T) {
		sorted := append([]CustomerSummary(nil), items...)
		SortSummaries(sorted, SortByName, Ascending)
		assert.Equal(t, []int64{3, 2, 1}, ids(sorted))
	})

	t.Run("descending inverts both keys", func(t *testing.T) {
		sorted := append([]CustomerSummary(nil), items...)
		SortSummaries(sorted, SortByName, Descending)
		assert.Equal(t, []int64{1, 2, 3}, ids(sorted))
	})
}

func TestSortSummaries_LastOrderHandlesMissing(t *testing.T) {
	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := summary(1, "A", "A", "a@example.com")
	a.LastOrderDate = &d2
	b := summary(2, "B", "B", "b@example.com") // no orders
	c := summary(3, "C", "C", "c@example.com")
	c.LastOrderDate = &d1

	items := []CustomerSummary{a, b, c}
	SortSummaries(items, SortByLastOrder, Ascending)
	assert.Equal(t, []int64{2, 3, 1}, ids(items))

	SortSummaries(items, SortByLastOrder, Descending)
	assert.Equal(t, []int64{1, 3, 2}, ids(items))
}

func TestSearch_PaginationInvariant(t *testing.T) {
	var candidates []CustomerSummary
	for i := int64(1); i <= 47; i++ {
		candidates = append(candidates, summary(i, fmt.Sprintf("F%02d", i), fmt.Sprintf("L%02d", i), fmt.Sprintf("u%d@example.com", i)))
	}

	q := SearchQuery{PageSize: 10}.Normalize()

	var collected []int64
	page := 1
	for {
		q.Page = page
		result := Search(candidates, q)
		assert.LessOrEqual(t, len(result.Items), q.PageSize)
		assert.Equal(t, 47, result.Total)
		assert.Equal(t, 5, result.TotalPages)
		if len(result.Items) == 0 {
			break
		}
		collected = append(collected, ids(result.Items)...)
		page++
	}

	// Concatenating all pages reproduces the full sorted set exactly once.
	require.Len(t, collected, 47)
	seen := make(map[int64]bool)
	for _, id := range collected {
		assert.False(t, seen[id], "id %d appeared twice", id)
		seen[id] = true
	}
}

func TestSearch_PageBeyondEndIsEmpty(t *testing.T) {
	candidates := []CustomerSummary{summary(1, "A", "A", "a@example.com")}
	q := SearchQuery{Page: 9, PageSize: 10}.Normalize()

	result := Search(candidates, q)
	assert.Empty(t, result.Items)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.TotalPages)
}

func TestSearch_CeilPageCount(t *testing.T) {
	var candidates []CustomerSummary
	for i := int64(1); i <= 21; i++ {
		candidates = append(candidates, summary(i, "F", fmt.Sprintf("L%02d", i), fmt.Sprintf("u%d@example.com", i)))
	}

	q := SearchQuery{PageSize: 10}.Normalize()
	result := Search(candidates, q)
	assert.Equal(t, 3, result.TotalPages)
}

func ids(items []CustomerSummary) []int64 {
	out := make([]int64, len(items))
	for i, s := range items {
		out[i] = s.ID
	}
	return out
}
