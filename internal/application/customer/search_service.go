package customer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// SearchService answers customer search queries over the summary
// projection, memoizing whole result pages in the result cache.
type SearchService struct {
	analytics customer.AnalyticsRepository
	cache     cache.ResultCache
	logger    *zap.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(analytics customer.AnalyticsRepository, rc cache.ResultCache, logger *zap.Logger) *SearchService {
	return &SearchService{
		analytics: analytics,
		cache:     rc,
		logger:    logger,
	}
}

// Search runs a normalized search query. Results are served from the
// cache when an identical query ran within the last cache.SearchTTL;
// otherwise the summaries are fetched, filtered, sorted and paged, and
// the page is stored as a JSON snapshot. Cache failures degrade to a
// plain query, never to an error.
func (s *SearchService) Search(ctx context.Context, q customer.SearchQuery) (*customer.SearchPage, error) {
	q = q.Normalize()
	key := s.cacheKey(q)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("search cache read failed", zap.Error(err))
	} else if ok {
		var page customer.SearchPage
		if err := json.Unmarshal(data, &page); err == nil {
			return &page, nil
		}
		s.logger.Warn("search cache entry corrupt, recomputing", zap.String("key", key))
	}

	summaries, err := s.analytics.FetchSummaries(ctx)
	if err != nil {
		return nil, err
	}

	page := customer.Search(summaries, q)

	// A cancelled request must never publish its partial work.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if data, err := json.Marshal(page); err == nil {
		if err := s.cache.Set(ctx, key, data, cache.SearchTTL); err != nil {
			s.logger.Warn("search cache write failed", zap.Error(err))
		}
	}

	return &page, nil
}

func (s *SearchService) cacheKey(q customer.SearchQuery) string {
	return cache.Fingerprint("search",
		q.Term,
		q.Status,
		string(q.SortBy),
		string(q.SortDirection),
		fmt.Sprintf("%d", q.Page),
		fmt.Sprintf("%d", q.PageSize),
	)
}
