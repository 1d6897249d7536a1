package customer

import (
	"context"
	"testing"
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAnalyticsRepository is a mock implementation of customer.AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) FetchSummaries(ctx context.Context) ([]customer.CustomerSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.CustomerSummary), args.Error(1)
}

func (m *MockAnalyticsRepository) TopCustomersBySpend(ctx context.Context, count int) ([]customer.TopCustomer, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.TopCustomer), args.Error(1)
}

func (m *MockAnalyticsRepository) MonthlyRevenue(ctx context.Context, months int) ([]customer.MonthlyRevenue, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.MonthlyRevenue), args.Error(1)
}

func testSummaries() []customer.CustomerSummary {
	return []customer.CustomerSummary{
		{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
			Status: customer.StatusActive, TotalSpent: decimal.NewFromInt(250)},
		{ID: 2, FirstName: "John", LastName: "Smith", Email: "john@example.com",
			Status: customer.StatusInactive, TotalSpent: decimal.NewFromInt(50)},
	}
}

func TestSearchService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("second identical query is served from cache", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewSearchService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		repo.On("FetchSummaries", ctx).Return(testSummaries(), nil).Once()

		q := customer.SearchQuery{Term: "doe"}

		first, err := svc.Search(ctx, q)
		require.NoError(t, err)
		require.Len(t, first.Items, 1)

		second, err := svc.Search(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, first.Items, second.Items)

		repo.AssertNumberOfCalls(t, "FetchSummaries", 1)
	})

	t.Run("different parameters use different cache entries", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewSearchService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		repo.On("FetchSummaries", ctx).Return(testSummaries(), nil)

		_, err := svc.Search(ctx, customer.SearchQuery{Term: "doe"})
		require.NoError(t, err)
		_, err = svc.Search(ctx, customer.SearchQuery{Term: "smith"})
		require.NoError(t, err)

		repo.AssertNumberOfCalls(t, "FetchSummaries", 2)
	})

	t.Run("status filter applies alongside the term", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewSearchService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		repo.On("FetchSummaries", ctx).Return(testSummaries(), nil)

		page, err := svc.Search(ctx, customer.SearchQuery{Status: "inactive"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(2), page.Items[0].ID)
	})

	t.Run("cancelled context never populates the cache", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		store := cache.NewMemoryResultCache()
		svc := NewSearchService(repo, store, zap.NewNop())

		cancelCtx, cancel := context.WithCancel(context.Background())
		// Cancel while the summary fetch is in flight.
		repo.On("FetchSummaries", cancelCtx).Run(func(args mock.Arguments) {
			cancel()
		}).Return(testSummaries(), nil)

		_, err := svc.Search(cancelCtx, customer.SearchQuery{Term: "doe"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("cached page is a snapshot, not a live reference", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewSearchService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		summaries := testSummaries()
		repo.On("FetchSummaries", ctx).Return(summaries, nil).Once()

		first, err := svc.Search(ctx, customer.SearchQuery{Term: "doe"})
		require.NoError(t, err)

		// Mutating the returned page must not leak into later cache hits.
		first.Items[0].FirstName = "mutated"

		second, err := svc.Search(ctx, customer.SearchQuery{Term: "doe"})
		require.NoError(t, err)
		assert.Equal(t, "Jane", second.Items[0].FirstName)
	})
}

func TestAnalyticsService_TopCustomers(t *testing.T) {
	ctx := context.Background()

	t.Run("caches per count", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewAnalyticsService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		top := []customer.TopCustomer{
			{CustomerID: 1, FullName: "Jane Doe", TotalSpent: decimal.NewFromInt(250)},
		}
		repo.On("TopCustomersBySpend", ctx, 5).Return(top, nil).Once()
		repo.On("TopCustomersBySpend", ctx, 10).Return(top, nil).Once()

		_, err := svc.TopCustomers(ctx, 5)
		require.NoError(t, err)
		_, err = svc.TopCustomers(ctx, 5)
		require.NoError(t, err)
		_, err = svc.TopCustomers(ctx, 0) // defaults to 10
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("rejects oversized count", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewAnalyticsService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		_, err := svc.TopCustomers(ctx, MaxTopCount+1)
		require.Error(t, err)
		repo.AssertNotCalled(t, "TopCustomersBySpend", mock.Anything, mock.Anything)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		repo := new(MockAnalyticsRepository)
		svc := NewAnalyticsService(repo, cache.NewMemoryResultCache(), zap.NewNop())

		repo.On("TopCustomersBySpend", ctx, 3).Return([]customer.TopCustomer{}, nil)

		top, err := svc.TopCustomers(ctx, 3)
		require.NoError(t, err)
		assert.NotNil(t, top)
		assert.Empty(t, top)
	})
}

func TestAnalyticsService_RevenueByMonth(t *testing.T) {
	ctx := context.Background()

	repo := new(MockAnalyticsRepository)
	svc := NewAnalyticsService(repo, cache.NewMemoryResultCache(), zap.NewNop())

	rev := []customer.MonthlyRevenue{
		{Year: 2026, Month: time.July, OrderCount: 3, Revenue: decimal.NewFromInt(900)},
	}
	repo.On("MonthlyRevenue", ctx, 12).Return(rev, nil).Once()

	first, err := svc.RevenueByMonth(ctx, 0) // defaults to 12
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, time.July, first[0].Month)

	second, err := svc.RevenueByMonth(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	repo.AssertExpectations(t)
}
