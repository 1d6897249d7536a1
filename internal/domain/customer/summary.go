package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// Segment classifies a customer by lifetime spend
type Segment string

const (
	SegmentPremium  Segment = "premium"
	SegmentStandard Segment = "standard"
	SegmentBasic    Segment = "basic"
)

// Spend thresholds for segment classification
var (
	premiumThreshold  = decimal.NewFromInt(1000)
	standardThreshold = decimal.NewFromInt(100)
)

// ClassifySpend maps a lifetime spend to a segment
func ClassifySpend(totalSpent decimal.Decimal) Segment {
	switch {
	case totalSpent.GreaterThanOrEqual(premiumThreshold):
		return SegmentPremium
	case totalSpent.GreaterThanOrEqual(standardThreshold):
		return SegmentStandard
	default:
		return SegmentBasic
	}
}

// CustomerSummary is a read-only projection computed per query.
// It is never persisted; the cache holds transient copies only.
type CustomerSummary struct {
	ID            int64           `json:"id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Status        CustomerStatus  `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	OrderCount    int             `json:"order_count"`
	LastOrderDate *time.Time      `json:"last_order_date,omitempty"`
	Segment       Segment         `json:"segment"`
}

// Summarize computes the projection from a fully reconstructed customer
func Summarize(c *Customer) CustomerSummary {
	total := decimal.Zero
	var last *time.Time
	for i := range c.Orders {
		total = total.Add(c.Orders[i].ItemsTotal())
		d := c.Orders[i].OrderDate
		if last == nil || d.After(*last) {
			t := d
			last = &t
		}
	}
	return CustomerSummary{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		Phone:         c.Phone,
		Status:        c.Status,
		CreatedAt:     c.CreatedAt,
		TotalSpent:    total,
		OrderCount:    len(c.Orders),
		LastOrderDate: last,
		Segment:       ClassifySpend(total),
	}
}

// TopCustomer is the top-N-by-spend analytics projection
type TopCustomer struct {
	CustomerID int64           `json:"customer_id"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	OrderCount int             `json:"order_count"`
}

// MonthlyRevenue is one month's revenue bucket for analytics
type MonthlyRevenue struct {
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}
