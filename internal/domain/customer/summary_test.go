package customer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderItem_LineTotal(t *testing.T) {
	item := OrderItem{Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")}
	assert.True(t, item.LineTotal().Equal(decimal.RequireFromString("37.50")))
}

func TestSummarize(t *testing.T) {
	d1 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	c := &Customer{
		ID:        1,
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Status:    StatusActive,
		Orders: []Order{
			{ID: 10, OrderDate: d2, Items: []OrderItem{
				{Quantity: 2, UnitPrice: decimal.RequireFromString("100.00")},
			}},
			{ID: 11, OrderDate: d1, Items: []OrderItem{
				{Quantity: 1, UnitPrice: decimal.RequireFromString("50.00")},
			}},
		},
	}

	s := Summarize(c)
	assert.True(t, s.TotalSpent.Equal(decimal.RequireFromString("250.00")))
	assert.Equal(t, 2, s.OrderCount)
	require.NotNil(t, s.LastOrderDate)
	assert.True(t, s.LastOrderDate.Equal(d2))
	assert.Equal(t, SegmentStandard, s.Segment)
}

func TestSummarize_NoOrders(t *testing.T) {
	c := &Customer{ID: 2, Email: "empty@example.com"}
	s := Summarize(c)
	assert.True(t, s.TotalSpent.IsZero())
	assert.Zero(t, s.OrderCount)
	assert.Nil(t, s.LastOrderDate)
	assert.Equal(t, SegmentBasic, s.Segment)
}

func TestClassifySpend(t *testing.T) {
	tests := []struct {
		spend string
		want  Segment
	}{
		{"0", SegmentBasic},
		{"99.99", SegmentBasic},
		{"100", SegmentStandard},
		{"999.99", SegmentStandard},
		{"1000", SegmentPremium},
		{"250000", SegmentPremium},
	}

	for _, tt := range tests {
		t.Run(tt.spend, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySpend(decimal.RequireFromString(tt.spend)))
		})
	}
}
