package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormAnalyticsRepository implements customer.AnalyticsRepository using GORM.
// All projections are computed in the store with aggregate joins; the Go
// side only classifies and reshapes.
type GormAnalyticsRepository struct {
	db *gorm.DB
}

// NewGormAnalyticsRepository creates a new GormAnalyticsRepository
func NewGormAnalyticsRepository(db *gorm.DB) *GormAnalyticsRepository {
	return &GormAnalyticsRepository{db: db}
}

const summarySelect = `
SELECT
    c.id, c.first_name, c.last_name, c.email, c.phone, c.status, c.created_at,
    COALESCE(SUM(i.quantity * i.unit_price), 0) AS total_spent,
    COUNT(DISTINCT o.id) AS order_count,
    MAX(o.order_date) AS last_order_date
FROM customers c
LEFT JOIN orders o ON o.customer_id = c.id
LEFT JOIN order_items i ON i.order_id = o.id
GROUP BY c.id, c.first_name, c.last_name, c.email, c.phone, c.status, c.created_at`

// FetchSummaries returns the per-customer aggregate projection for every
// customer, in id order
func (r *GormAnalyticsRepository) FetchSummaries(ctx context.Context) ([]customer.CustomerSummary, error) {
	rows, err := r.db.WithContext(ctx).Raw(summarySelect + `
ORDER BY c.id`).Rows()
	if err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}
	defer rows.Close()

	var summaries []customer.CustomerSummary
	for rows.Next() {
		var (
			s          customer.CustomerSummary
			phone      sql.NullString
			totalSpent decimal.Decimal
			lastOrder  sql.NullTime
		)
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &phone,
			&s.Status, &s.CreatedAt, &totalSpent, &s.OrderCount, &lastOrder); err != nil {
			return nil, fmt.Errorf("summary row scan failed: %w", err)
		}

		s.Phone = phone.String
		s.TotalSpent = totalSpent
		if lastOrder.Valid {
			t := lastOrder.Time
			s.LastOrderDate = &t
		}
		s.Segment = customer.ClassifySpend(totalSpent)
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary rows iteration failed: %w", err)
	}

	return summaries, nil
}

// TopCustomersBySpend returns the count highest-spending customers
func (r *GormAnalyticsRepository) TopCustomersBySpend(ctx context.Context, count int) ([]customer.TopCustomer, error) {
	if count < 1 {
		count = 1
	}

	query := `
SELECT
    c.id,
    c.first_name, c.last_name, c.email,
    COALESCE(SUM(i.quantity * i.unit_price), 0) AS total_spent,
    COUNT(DISTINCT o.id) AS order_count
FROM customers c
LEFT JOIN orders o ON o.customer_id = c.id
LEFT JOIN order_items i ON i.order_id = o.id
GROUP BY c.id, c.first_name, c.last_name, c.email
ORDER BY total_spent DESC, c.id ASC
LIMIT ?`

	rows, err := r.db.WithContext(ctx).Raw(query, count).Rows()
	if err != nil {
		return nil, fmt.Errorf("top customers query failed: %w", err)
	}
	defer rows.Close()

	var top []customer.TopCustomer
	for rows.Next() {
		var (
			t          customer.TopCustomer
			firstName  string
			lastName   string
			totalSpent decimal.Decimal
		)
		if err := rows.Scan(&t.CustomerID, &firstName, &lastName, &t.Email, &totalSpent, &t.OrderCount); err != nil {
			return nil, fmt.Errorf("top customer row scan failed: %w", err)
		}
		t.FullName = strings.TrimSpace(firstName + " " + lastName)
		t.TotalSpent = totalSpent
		top = append(top, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top customers iteration failed: %w", err)
	}

	return top, nil
}

// MonthlyRevenue returns revenue buckets for the trailing months window
func (r *GormAnalyticsRepository) MonthlyRevenue(ctx context.Context, months int) ([]customer.MonthlyRevenue, error) {
	if months < 1 {
		months = 1
	}
	cutoff := time.Now().AddDate(0, -months, 0)

	query := `
SELECT
    EXTRACT(YEAR FROM o.order_date)::int AS year,
    EXTRACT(MONTH FROM o.order_date)::int AS month,
    COUNT(DISTINCT o.id) AS order_count,
    COALESCE(SUM(i.quantity * i.unit_price), 0) AS revenue
FROM orders o
LEFT JOIN order_items i ON i.order_id = o.id
WHERE o.order_date >= ?
GROUP BY 1, 2
ORDER BY 1, 2`

	rows, err := r.db.WithContext(ctx).Raw(query, cutoff).Rows()
	if err != nil {
		return nil, fmt.Errorf("monthly revenue query failed: %w", err)
	}
	defer rows.Close()

	var buckets []customer.MonthlyRevenue
	for rows.Next() {
		var (
			year    int
			month   int
			orders  int
			revenue decimal.Decimal
		)
		if err := rows.Scan(&year, &month, &orders, &revenue); err != nil {
			return nil, fmt.Errorf("monthly revenue row scan failed: %w", err)
		}
		buckets = append(buckets, customer.MonthlyRevenue{
			Year:       year,
			Month:      time.Month(month),
			OrderCount: orders,
			Revenue:    revenue,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("monthly revenue iteration failed: %w", err)
	}

	return buckets, nil
}

// Ensure interface conformance
var _ customer.AnalyticsRepository = (*GormAnalyticsRepository)(nil)
