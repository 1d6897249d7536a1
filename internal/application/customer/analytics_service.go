package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/domain/shared"
	"github.com/crmlite/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// Analytics query bounds
const (
	DefaultTopCount  = 10
	MaxTopCount      = 100
	DefaultRevMonths = 12
	MaxRevMonths     = 60
)

// AnalyticsService serves the heavier aggregate queries, each memoized
// under its own TTL.
type AnalyticsService struct {
	analytics customer.AnalyticsRepository
	cache     cache.ResultCache
	logger    *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(analytics customer.AnalyticsRepository, rc cache.ResultCache, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		analytics: analytics,
		cache:     rc,
		logger:    logger,
	}
}

// TopCustomers returns the count highest-spending customers, cached for
// cache.TopSpendTTL per distinct count.
func (s *AnalyticsService) TopCustomers(ctx context.Context, count int) ([]customer.TopCustomer, error) {
	if count <= 0 {
		count = DefaultTopCount
	}
	if count > MaxTopCount {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("count must be at most %d", MaxTopCount))
	}

	key := cache.Fingerprint("topspend", fmt.Sprintf("%d", count))
	if data, ok := s.cachedGet(ctx, key); ok {
		var top []customer.TopCustomer
		if err := json.Unmarshal(data, &top); err == nil {
			return top, nil
		}
	}

	top, err := s.analytics.TopCustomersBySpend(ctx, count)
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []customer.TopCustomer{}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.cachedSet(ctx, key, top, cache.TopSpendTTL)

	return top, nil
}

// RevenueByMonth returns per-month revenue buckets over the trailing
// months window, cached for cache.AnalyticsTTL per distinct window.
func (s *AnalyticsService) RevenueByMonth(ctx context.Context, months int) ([]customer.MonthlyRevenue, error) {
	if months <= 0 {
		months = DefaultRevMonths
	}
	if months > MaxRevMonths {
		return nil, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("months must be at most %d", MaxRevMonths))
	}

	key := cache.Fingerprint("revenue", fmt.Sprintf("%d", months))
	if data, ok := s.cachedGet(ctx, key); ok {
		var rev []customer.MonthlyRevenue
		if err := json.Unmarshal(data, &rev); err == nil {
			return rev, nil
		}
	}

	rev, err := s.analytics.MonthlyRevenue(ctx, months)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		rev = []customer.MonthlyRevenue{}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.cachedSet(ctx, key, rev, cache.AnalyticsTTL)

	return rev, nil
}

func (s *AnalyticsService) cachedGet(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("analytics cache read failed", zap.Error(err))
		return nil, false
	}
	return data, ok
}

func (s *AnalyticsService) cachedSet(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		s.logger.Warn("analytics cache write failed", zap.Error(err))
	}
}
