package customer

import (
	"sort"
	"strings"
)

// SortField enumerates the supported sort keys
type SortField string

const (
	SortByName        SortField = "name"
	SortByCreatedDate SortField = "created_date"
	SortByLastOrder   SortField = "last_order"
)

// SortDirection enumerates sort directions
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Pagination bounds
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	StatusAll       = "all"
)

// SearchQuery is the caller-supplied query shape for customer search.
// Zero values normalize to the documented defaults.
type SearchQuery struct {
	Term          string        `json:"term"`
	Status        string        `json:"status"`
	SortBy        SortField     `json:"sort_by"`
	SortDirection SortDirection `json:"sort_direction"`
	Page          int           `json:"page"`
	PageSize      int           `json:"page_size"`
}

// Normalize clamps and defaults the query in place and returns it.
// A blank or whitespace-only term means "no text filter"; it is neither
// an error nor a short-circuit. Unrecognized sort fields fall back to name.
func (q SearchQuery) Normalize() SearchQuery {
	q.Term = strings.TrimSpace(q.Term)

	switch strings.ToLower(q.Status) {
	case "", StatusAll:
		q.Status = StatusAll
	default:
		q.Status = strings.ToLower(q.Status)
	}

	switch q.SortBy {
	case SortByName, SortByCreatedDate, SortByLastOrder:
	default:
		q.SortBy = SortByName
	}

	switch q.SortDirection {
	case Ascending, Descending:
	default:
		q.SortDirection = Ascending
	}

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	} else if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}

	return q
}

// Matches reports whether a summary passes the query's filters.
// The text filter matches case-insensitively against first name, last
// name, email and phone with substring semantics.
func (q SearchQuery) Matches(s CustomerSummary) bool {
	if q.Status != StatusAll && string(s.Status) != q.Status {
		return false
	}
	if q.Term == "" {
		return true
	}
	term := strings.ToLower(q.Term)
	return strings.Contains(strings.ToLower(s.FirstName), term) ||
		strings.Contains(strings.ToLower(s.LastName), term) ||
		strings.Contains(strings.ToLower(s.Email), term) ||
		strings.Contains(strings.ToLower(s.Phone), term)
}

// SortSummaries orders summaries by the query's sort field and direction.
// Name sorts by last name with first name as tie-break. Last-order sorts
// customers without orders as if their key were minimal.
func SortSummaries(items []CustomerSummary, field SortField, dir SortDirection) {
	less := func(a, b CustomerSummary) bool {
		switch field {
		case SortByCreatedDate:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case SortByLastOrder:
			switch {
			case a.LastOrderDate == nil && b.LastOrderDate == nil:
			case a.LastOrderDate == nil:
				return true
			case b.LastOrderDate == nil:
				return false
			case !a.LastOrderDate.Equal(*b.LastOrderDate):
				return a.LastOrderDate.Before(*b.LastOrderDate)
			}
		default: // SortByName
			al, bl := strings.ToLower(a.LastName), strings.ToLower(b.LastName)
			if al != bl {
				return al < bl
			}
			af, bf := strings.ToLower(a.FirstName), strings.ToLower(b.FirstName)
			if af != bf {
				return af < bf
			}
		}
		// Stable final tie-break so pagination is deterministic.
		return a.ID < b.ID
	}

	sort.SliceStable(items, func(i, j int) bool {
		if dir == Descending {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// SearchPage is one page of search results
type SearchPage struct {
	Items      []CustomerSummary `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Search applies filter, sort and page slicing over the candidate set.
// The query must already be normalized. The input slice is not mutated.
func Search(candidates []CustomerSummary, q SearchQuery) SearchPage {
	matched := make([]CustomerSummary, 0, len(candidates))
	for _, s := range candidates {
		if q.Matches(s) {
			matched = append(matched, s)
		}
	}

	SortSummaries(matched, q.SortBy, q.SortDirection)

	total := len(matched)
	totalPages := total / q.PageSize
	if total%q.PageSize > 0 {
		totalPages++
	}

	start := (q.Page - 1) * q.PageSize
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	return SearchPage{
		Items:      matched[start:end],
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}
