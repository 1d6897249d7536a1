package customer

import (
	"fmt"

	"github.com/crmlite/backend/internal/domain/shared"
)

// GraphReader rebuilds the Customer -> Addresses / Orders -> Items hierarchy
// from a flattened join result. It is a single-pass, order-preserving
// construction: customers, addresses, orders and items all keep the order
// in which they were first seen in the input rows, and a recurring id is
// never materialized twice.
//
// Orders are held as heap allocations until Customers() is called, so item
// appends can never land in a stale slice backing array.
type GraphReader struct {
	customers  map[int64]*Customer
	orders     map[int64]*Order
	orderIDs   map[int64][]int64 // customer id -> order ids, first-seen order
	addresses  map[int64]bool
	items      map[int64]bool
	customerID []int64
}

// NewGraphReader creates a reader scoped to a single aggregation call
func NewGraphReader() *GraphReader {
	return &GraphReader{
		customers: make(map[int64]*Customer),
		orders:    make(map[int64]*Order),
		orderIDs:  make(map[int64][]int64),
		addresses: make(map[int64]bool),
		items:     make(map[int64]bool),
	}
}

// ReadAll consumes rows in order and returns the deduplicated customers.
// A malformed customer group is a data-integrity error for the whole call.
func ReadAll(rows []FlatRow) ([]*Customer, error) {
	r := NewGraphReader()
	for i, row := range rows {
		if err := r.Read(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return r.Customers(), nil
}

// Read processes a single flattened row
func (r *GraphReader) Read(row FlatRow) error {
	if err := checkCustomerColumns(row.Customer); err != nil {
		return err
	}

	cust, ok := r.customers[row.Customer.ID]
	if !ok {
		// First occurrence creates the instance; later rows with the
		// same id must not overwrite already-populated fields.
		cust = &Customer{
			ID:          row.Customer.ID,
			FirstName:   row.Customer.FirstName,
			LastName:    row.Customer.LastName,
			Email:       row.Customer.Email,
			Phone:       row.Customer.Phone,
			DateOfBirth: row.Customer.DateOfBirth,
			Status:      row.Customer.Status,
			CreatedAt:   row.Customer.CreatedAt,
			Addresses:   []Address{},
			Orders:      []Order{},
		}
		r.customers[cust.ID] = cust
		r.customerID = append(r.customerID, cust.ID)
	}

	if row.Address != nil && !r.addresses[row.Address.ID] {
		r.addresses[row.Address.ID] = true
		cust.Addresses = append(cust.Addresses, Address{
			ID:         row.Address.ID,
			CustomerID: row.Address.CustomerID,
			Street:     row.Address.Street,
			City:       row.Address.City,
			State:      row.Address.State,
			ZipCode:    row.Address.ZipCode,
			Country:    row.Address.Country,
			Type:       row.Address.Type,
			IsPrimary:  row.Address.IsPrimary,
		})
	}

	if row.Order != nil {
		order, ok := r.orders[row.Order.ID]
		if !ok {
			order = &Order{
				ID:          row.Order.ID,
				CustomerID:  row.Order.CustomerID,
				OrderDate:   row.Order.OrderDate,
				Status:      row.Order.Status,
				TotalAmount: row.Order.TotalAmount,
				Items:       []OrderItem{},
			}
			r.orders[order.ID] = order
			r.orderIDs[cust.ID] = append(r.orderIDs[cust.ID], order.ID)
		}

		if row.Item != nil && !r.items[row.Item.ID] {
			r.items[row.Item.ID] = true
			order.Items = append(order.Items, OrderItem{
				ID:          row.Item.ID,
				OrderID:     row.Item.OrderID,
				ProductName: row.Item.ProductName,
				Quantity:    row.Item.Quantity,
				UnitPrice:   row.Item.UnitPrice,
			})
		}
	}

	return nil
}

// Customers returns the reconstructed customers in first-seen order,
// with each customer's orders attached in first-seen order.
func (r *GraphReader) Customers() []*Customer {
	result := make([]*Customer, 0, len(r.customerID))
	for _, id := range r.customerID {
		cust := r.customers[id]
		ids := r.orderIDs[id]
		cust.Orders = make([]Order, 0, len(ids))
		for _, orderID := range ids {
			cust.Orders = append(cust.Orders, *r.orders[orderID])
		}
		result = append(result, cust)
	}
	return result
}

// checkCustomerColumns validates the required customer group of a row
func checkCustomerColumns(c CustomerColumns) error {
	if c.ID == 0 {
		return fmt.Errorf("%w: customer id is missing", shared.ErrDataIntegrity)
	}
	if c.Email == "" {
		return fmt.Errorf("%w: customer %d has no email", shared.ErrDataIntegrity, c.ID)
	}
	return nil
}
