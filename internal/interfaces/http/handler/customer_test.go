package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	customerapp "github.com/crmlite/backend/internal/application/customer"
	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/domain/shared"
	"github.com/crmlite/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockRepository is a mock implementation of customer.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, c *customer.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) CreateWithAddress(ctx context.Context, c *customer.Customer, addr *customer.Address) error {
	args := m.Called(ctx, c, addr)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

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

type testEnv struct {
	engine    *gin.Engine
	repo      *MockRepository
	analytics *MockAnalyticsRepository
}

func newTestEnv() *testEnv {
	repo := new(MockRepository)
	analytics := new(MockAnalyticsRepository)

	service := customerapp.NewService(repo, nil)
	searchService := customerapp.NewSearchService(analytics, cache.NewMemoryResultCache(), zap.NewNop())

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewCustomerHandler(service, searchService).RegisterRoutes(api)

	return &testEnv{engine: engine, repo: repo, analytics: analytics}
}

func (e *testEnv) request(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCustomerHandler_Create(t *testing.T) {
	t.Run("creates a customer", func(t *testing.T) {
		env := newTestEnv()
		env.repo.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(false, nil)
		env.repo.On("Save", mock.Anything, mock.AnythingOfType("*customer.Customer")).Return(nil)

		w := env.request(http.MethodPost, "/api/v1/customers",
			`{"first_name":"Jane","last_name":"Doe","email":"jane@example.com"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decode(t, w)
		assert.True(t, resp.Success)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		env := newTestEnv()
		env.repo.On("ExistsByEmail", mock.Anything, "jane@example.com").Return(true, nil)

		w := env.request(http.MethodPost, "/api/v1/customers",
			`{"first_name":"Jane","last_name":"Doe","email":"jane@example.com"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_ALREADY_EXISTS", resp.Error.Code)
	})

	t.Run("missing required fields is a bad request", func(t *testing.T) {
		env := newTestEnv()

		w := env.request(http.MethodPost, "/api/v1/customers", `{"first_name":"Jane"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerHandler_GetByID(t *testing.T) {
	t.Run("unknown customer is a 404", func(t *testing.T) {
		env := newTestEnv()
		env.repo.On("FindByID", mock.Anything, int64(42)).Return(nil, shared.ErrNotFound)

		w := env.request(http.MethodGet, "/api/v1/customers/42", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "ERR_NOT_FOUND", resp.Error.Code)
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		env := newTestEnv()

		w := env.request(http.MethodGet, "/api/v1/customers/abc", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerHandler_Delete(t *testing.T) {
	env := newTestEnv()
	env.repo.On("Delete", mock.Anything, int64(7)).Return(nil)

	w := env.request(http.MethodDelete, "/api/v1/customers/7", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCustomerHandler_Search(t *testing.T) {
	summaries := []customer.CustomerSummary{
		{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
			Status: customer.StatusActive, TotalSpent: decimal.NewFromInt(250)},
		{ID: 2, FirstName: "John", LastName: "Smith", Email: "john@example.com",
			Status: customer.StatusActive, TotalSpent: decimal.NewFromInt(50)},
	}

	t.Run("returns a page with meta", func(t *testing.T) {
		env := newTestEnv()
		env.analytics.On("FetchSummaries", mock.Anything).Return(summaries, nil)

		w := env.request(http.MethodGet, "/api/v1/customers/search?q=doe", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 10, resp.Meta.PageSize)
	})

	t.Run("page zero is rejected", func(t *testing.T) {
		env := newTestEnv()

		w := env.request(http.MethodGet, "/api/v1/customers/search?page=0", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("oversized page size is rejected", func(t *testing.T) {
		env := newTestEnv()

		w := env.request(http.MethodGet, "/api/v1/customers/search?page_size=101", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown sort field falls back to name order", func(t *testing.T) {
		env := newTestEnv()
		env.analytics.On("FetchSummaries", mock.Anything).Return(summaries, nil)

		w := env.request(http.MethodGet, "/api/v1/customers/search?sort_by=bogus", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
	})

	t.Run("unknown status matches nothing", func(t *testing.T) {
		env := newTestEnv()
		env.analytics.On("FetchSummaries", mock.Anything).Return(summaries, nil)

		w := env.request(http.MethodGet, "/api/v1/customers/search?status=frozen", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(0), resp.Meta.Total)
	})
}

func TestAnalyticsHandler(t *testing.T) {
	newAnalyticsEnv := func() (*gin.Engine, *MockAnalyticsRepository) {
		analytics := new(MockAnalyticsRepository)
		service := customerapp.NewAnalyticsService(analytics, cache.NewMemoryResultCache(), zap.NewNop())
		engine := gin.New()
		api := engine.Group("/api/v1")
		NewAnalyticsHandler(service).RegisterRoutes(api)
		return engine, analytics
	}

	t.Run("top customers", func(t *testing.T) {
		engine, analytics := newAnalyticsEnv()
		analytics.On("TopCustomersBySpend", mock.Anything, 3).Return([]customer.TopCustomer{
			{CustomerID: 1, FullName: "Jane Doe", TotalSpent: decimal.NewFromInt(250)},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/top-customers?count=3", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("oversized count is rejected", func(t *testing.T) {
		engine, _ := newAnalyticsEnv()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/top-customers?count=101", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
