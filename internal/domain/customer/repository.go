package customer

import (
	"context"

	"github.com/crmlite/backend/internal/domain/shared"
)

// Repository is the store boundary for customer aggregates.
// Not-found conditions surface as shared.ErrNotFound, never as nil results.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, c *Customer) error
	// CreateWithAddress persists a customer and its address inside one
	// transaction; neither row survives a failure of the other.
	CreateWithAddress(ctx context.Context, c *Customer, addr *Address) error
	Delete(ctx context.Context, id int64) error
}

// GraphRepository fetches flattened join rows for graph reconstruction
type GraphRepository interface {
	// FetchGraphRows returns the wide LEFT JOIN result for one customer,
	// ordered by customer, address, order and item id.
	FetchGraphRows(ctx context.Context, customerID int64) ([]FlatRow, error)
	// FetchAllGraphRows returns the flattened rows for every customer.
	FetchAllGraphRows(ctx context.Context) ([]FlatRow, error)
}

// AnalyticsRepository computes aggregate projections in the store
type AnalyticsRepository interface {
	FetchSummaries(ctx context.Context) ([]CustomerSummary, error)
	TopCustomersBySpend(ctx context.Context, count int) ([]TopCustomer, error)
	MonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenue, error)
}
