package customer

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerColumns is the customer column group of a flattened join row.
// The customer table drives the join, so this group is present on every row.
type CustomerColumns struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Status      CustomerStatus
	CreatedAt   time.Time
}

// AddressColumns is the address column group of a flattened join row
type AddressColumns struct {
	ID         int64
	CustomerID int64
	Street     string
	City       string
	State      string
	ZipCode    string
	Country    string
	Type       AddressType
	IsPrimary  bool
}

// OrderColumns is the order column group of a flattened join row
type OrderColumns struct {
	ID          int64
	CustomerID  int64
	OrderDate   time.Time
	Status      OrderStatus
	TotalAmount decimal.Decimal
}

// OrderItemColumns is the order-item column group of a flattened join row
type OrderItemColumns struct {
	ID          int64
	OrderID     int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// FlatRow is one row of the wide LEFT JOIN result:
// customers -> addresses -> orders -> order_items.
// The outer-joined groups are nil when the join found no match, so
// absence is explicit rather than conflated with a null field value.
type FlatRow struct {
	Customer CustomerColumns
	Address  *AddressColumns
	Order    *OrderColumns
	Item     *OrderItemColumns
}
