package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status tag of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"order_id"`
	ProductName string          `gorm:"type:varchar(200);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity multiplied by unit price
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a customer order with its line items.
// TotalAmount is denormalized at write time; ItemsTotal recomputes it
// from the line items when the full graph is loaded.
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID  int64           `gorm:"not null;index" json:"customer_id"`
	OrderDate   time.Time       `gorm:"not null;index" json:"order_date"`
	Status      OrderStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	Items       []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// ItemsTotal sums the line totals of all items
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
