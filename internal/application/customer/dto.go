package customer

import (
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for date-only fields
const dateLayout = "2006-01-02"

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	FirstName   string                `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string                `json:"last_name" binding:"required,min=1,max=100"`
	Email       string                `json:"email" binding:"required,email,max=200"`
	Phone       string                `json:"phone" binding:"max=50"`
	DateOfBirth string                `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Status      string                `json:"status" binding:"omitempty,oneof=active inactive"`
	Address     *CreateAddressRequest `json:"address"`
}

// CreateAddressRequest is the optional address created with a customer
type CreateAddressRequest struct {
	Street    string `json:"street" binding:"required,max=200"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"max=100"`
	ZipCode   string `json:"zip_code" binding:"max=20"`
	Country   string `json:"country" binding:"max=100"`
	Type      string `json:"type" binding:"omitempty,oneof=home billing shipping"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateCustomerRequest represents a partial customer update.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CustomerResponse represents a customer in API responses, without the
// owned collections.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID        int64  `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	Type      string `json:"type"`
	IsPrimary bool   `json:"is_primary"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order with its lines in API responses
type OrderResponse struct {
	ID          int64               `json:"id"`
	OrderDate   time.Time           `json:"order_date"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
}

// CustomerDetailResponse is the full reconstructed customer graph
type CustomerDetailResponse struct {
	CustomerResponse
	Addresses []AddressResponse `json:"addresses"`
	Orders    []OrderResponse   `json:"orders"`
}

// CustomerListFilter represents filter options for the plain customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	City     string `form:"city"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    c.Status.String(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.DateOfBirth != nil {
		resp.DateOfBirth = c.DateOfBirth.Format(dateLayout)
	}
	return resp
}

// ToCustomerDetailResponse converts a reconstructed customer graph to a
// detail DTO. Empty collections marshal as [], never null.
func ToCustomerDetailResponse(c *customer.Customer) CustomerDetailResponse {
	detail := CustomerDetailResponse{
		CustomerResponse: ToCustomerResponse(c),
		Addresses:        make([]AddressResponse, 0, len(c.Addresses)),
		Orders:           make([]OrderResponse, 0, len(c.Orders)),
	}
	for _, a := range c.Addresses {
		detail.Addresses = append(detail.Addresses, AddressResponse{
			ID:        a.ID,
			Street:    a.Street,
			City:      a.City,
			State:     a.State,
			ZipCode:   a.ZipCode,
			Country:   a.Country,
			Type:      string(a.Type),
			IsPrimary: a.IsPrimary,
		})
	}
	for i := range c.Orders {
		o := &c.Orders[i]
		or := OrderResponse{
			ID:          o.ID,
			OrderDate:   o.OrderDate,
			Status:      o.Status.String(),
			TotalAmount: o.ItemsTotal(),
			Items:       make([]OrderItemResponse, 0, len(o.Items)),
		}
		for _, item := range o.Items {
			or.Items = append(or.Items, OrderItemResponse{
				ID:          item.ID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				LineTotal:   item.LineTotal(),
			})
		}
		detail.Orders = append(detail.Orders, or)
	}
	return detail
}
