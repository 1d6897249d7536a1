package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements customer.Repository and
// customer.GraphRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID without loading the object graph
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByEmail finds a customer by the email business key
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var c customer.Customer
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ExistsByEmail checks if a customer with the given email exists
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&customer.Customer{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll finds customers matching the filter, without object graphs
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	var customers []customer.Customer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&customer.Customer{}), filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&customer.Customer{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a customer row. Owned collections are persisted
// through their own write paths, never as a side effect of Save.
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

// CreateWithAddress persists a customer and its address atomically.
// A failure of either insert rolls back both.
func (r *GormCustomerRepository) CreateWithAddress(ctx context.Context, c *customer.Customer, addr *customer.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(c).Error; err != nil {
			return fmt.Errorf("failed to create customer: %w", err)
		}
		if addr != nil {
			addr.CustomerID = c.ID
			if err := tx.Create(addr).Error; err != nil {
				return fmt.Errorf("failed to create address: %w", err)
			}
		}
		return nil
	})
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&customer.Customer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// graphSelect is the wide LEFT JOIN that fans out one row per order-item,
// repeating customer, address and order columns per match.
const graphSelect = `
SELECT
    c.id, c.first_name, c.last_name, c.email, c.phone, c.date_of_birth, c.status, c.created_at,
    a.id, a.customer_id, a.street, a.city, a.state, a.zip_code, a.country, a.type, a.is_primary,
    o.id, o.customer_id, o.order_date, o.status, o.total_amount,
    i.id, i.order_id, i.product_name, i.quantity, i.unit_price
FROM customers c
LEFT JOIN addresses a ON a.customer_id = c.id
LEFT JOIN orders o ON o.customer_id = c.id
LEFT JOIN order_items i ON i.order_id = o.id`

// FetchGraphRows returns the flattened join rows for one customer.
// Zero rows means the customer does not exist.
func (r *GormCustomerRepository) FetchGraphRows(ctx context.Context, customerID int64) ([]customer.FlatRow, error) {
	query := graphSelect + `
WHERE c.id = ?
ORDER BY c.id, a.id, o.id, i.id`

	flat, err := r.scanGraphRows(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	if len(flat) == 0 {
		return nil, shared.ErrNotFound
	}
	return flat, nil
}

// FetchAllGraphRows returns the flattened join rows for every customer
func (r *GormCustomerRepository) FetchAllGraphRows(ctx context.Context) ([]customer.FlatRow, error) {
	query := graphSelect + `
ORDER BY c.id, a.id, o.id, i.id`
	return r.scanGraphRows(ctx, query)
}

// scanGraphRows scans the wide result into FlatRow values, mapping the
// outer-joined column groups to nil when the join found no match
func (r *GormCustomerRepository) scanGraphRows(ctx context.Context, query string, args ...interface{}) ([]customer.FlatRow, error) {
	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("graph query failed: %w", err)
	}
	defer rows.Close()

	var flat []customer.FlatRow
	for rows.Next() {
		var (
			custID    sql.NullInt64
			firstName sql.NullString
			lastName  sql.NullString
			email     sql.NullString
			phone     sql.NullString
			dob       sql.NullTime
			status    sql.NullString
			createdAt sql.NullTime

			addrID      sql.NullInt64
			addrCustID  sql.NullInt64
			street      sql.NullString
			city        sql.NullString
			state       sql.NullString
			zipCode     sql.NullString
			country     sql.NullString
			addrType    sql.NullString
			isPrimary   sql.NullBool
			orderID     sql.NullInt64
			orderCustID sql.NullInt64
			orderDate   sql.NullTime
			orderStatus sql.NullString
			totalAmount decimal.NullDecimal
			itemID      sql.NullInt64
			itemOrderID sql.NullInt64
			productName sql.NullString
			quantity    sql.NullInt64
			unitPrice   decimal.NullDecimal
		)

		if err := rows.Scan(
			&custID, &firstName, &lastName, &email, &phone, &dob, &status, &createdAt,
			&addrID, &addrCustID, &street, &city, &state, &zipCode, &country, &addrType, &isPrimary,
			&orderID, &orderCustID, &orderDate, &orderStatus, &totalAmount,
			&itemID, &itemOrderID, &productName, &quantity, &unitPrice,
		); err != nil {
			return nil, fmt.Errorf("graph row scan failed: %w", err)
		}

		row := customer.FlatRow{
			Customer: customer.CustomerColumns{
				ID:        custID.Int64,
				FirstName: firstName.String,
				LastName:  lastName.String,
				Email:     email.String,
				Phone:     phone.String,
				Status:    customer.CustomerStatus(status.String),
				CreatedAt: createdAt.Time,
			},
		}
		if dob.Valid {
			t := dob.Time
			row.Customer.DateOfBirth = &t
		}

		if addrID.Valid {
			row.Address = &customer.AddressColumns{
				ID:         addrID.Int64,
				CustomerID: addrCustID.Int64,
				Street:     street.String,
				City:       city.String,
				State:      state.String,
				ZipCode:    zipCode.String,
				Country:    country.String,
				Type:       customer.AddressType(addrType.String),
				IsPrimary:  isPrimary.Bool,
			}
		}

		if orderID.Valid {
			row.Order = &customer.OrderColumns{
				ID:          orderID.Int64,
				CustomerID:  orderCustID.Int64,
				OrderDate:   orderDate.Time,
				Status:      customer.OrderStatus(orderStatus.String),
				TotalAmount: totalAmount.Decimal,
			}
		}

		if itemID.Valid {
			row.Item = &customer.OrderItemColumns{
				ID:          itemID.Int64,
				OrderID:     itemOrderID.Int64,
				ProductName: productName.String,
				Quantity:    int(quantity.Int64),
				UnitPrice:   unitPrice.Decimal,
			}
		}

		flat = append(flat, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("graph rows iteration failed: %w", err)
	}

	return flat, nil
}

// applyFilter applies search, filters, ordering and pagination
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("last_name ASC, first_name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies search and filters only
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "city":
			query = query.Where("id IN (SELECT customer_id FROM addresses WHERE city = ?)", value)
		}
	}

	return query
}

// Ensure interface conformance
var (
	_ customer.Repository      = (*GormCustomerRepository)(nil)
	_ customer.GraphRepository = (*GormCustomerRepository)(nil)
)
