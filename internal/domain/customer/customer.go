package customer

import (
	"regexp"
	"strings"
	"time"

	"github.com/crmlite/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	StatusActive   CustomerStatus = "active"
	StatusInactive CustomerStatus = "inactive"
)

// IsValid checks if the status is a recognized CustomerStatus
func (s CustomerStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

// String returns the string representation of CustomerStatus
func (s CustomerStatus) String() string {
	return string(s)
}

// ParseStatus parses a status value case-insensitively.
// Unknown values surface as a validation error, not a silent default.
func ParseStatus(value string) (CustomerStatus, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "active":
		return StatusActive, nil
	case "inactive":
		return StatusInactive, nil
	default:
		return "", shared.NewDomainError("INVALID_STATUS", "Status must be 'active' or 'inactive'")
	}
}

// AddressType tags the purpose of an address
type AddressType string

const (
	AddressTypeBilling  AddressType = "billing"
	AddressTypeShipping AddressType = "shipping"
	AddressTypeHome     AddressType = "home"
)

// Address represents a customer postal address.
// At most one address per customer is treated as primary for display;
// the store does not enforce this as a hard constraint.
type Address struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	Street     string      `gorm:"type:varchar(200)" json:"street"`
	City       string      `gorm:"type:varchar(100)" json:"city"`
	State      string      `gorm:"type:varchar(100)" json:"state"`
	ZipCode    string      `gorm:"type:varchar(20)" json:"zip_code"`
	Country    string      `gorm:"type:varchar(100)" json:"country"`
	Type       AddressType `gorm:"type:varchar(20);not null;default:'home'" json:"type"`
	IsPrimary  bool        `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt  time.Time   `json:"created_at"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// Customer is the aggregate root for customer-related operations.
// Email is the business key used to detect real-world duplicates.
type Customer struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName   string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName    string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Email       string         `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	Phone       string         `gorm:"type:varchar(50);index" json:"phone"`
	DateOfBirth *time.Time     `gorm:"type:date" json:"date_of_birth,omitempty"`
	Status      CustomerStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Addresses   []Address      `gorm:"foreignKey:CustomerID" json:"addresses"`
	Orders      []Order        `gorm:"foreignKey:CustomerID" json:"orders"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields validated
func NewCustomer(firstName, lastName, email string) (*Customer, error) {
	if err := ValidateName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := ValidateName("last_name", lastName); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(email),
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
		Addresses: []Address{},
		Orders:    []Order{},
	}, nil
}

// FullName returns the display name
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// SetContact updates phone and email after validation
func (c *Customer) SetContact(phone, email string) error {
	if phone != "" {
		if err := ValidatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := ValidateEmail(email); err != nil {
			return err
		}
		c.Email = strings.ToLower(email)
	}
	c.Phone = phone
	c.UpdatedAt = time.Now()
	return nil
}

// SetDateOfBirth validates and sets the date of birth against the current date
func (c *Customer) SetDateOfBirth(dob time.Time) error {
	if err := ValidateDateOfBirth(dob, time.Now()); err != nil {
		return err
	}
	d := dob
	c.DateOfBirth = &d
	c.UpdatedAt = time.Now()
	return nil
}

// Activate marks the customer active
func (c *Customer) Activate() {
	c.Status = StatusActive
	c.UpdatedAt = time.Now()
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() {
	c.Status = StatusInactive
	c.UpdatedAt = time.Now()
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == StatusActive
}

// PrimaryAddress returns the first address flagged primary, or nil
func (c *Customer) PrimaryAddress() *Address {
	for i := range c.Addresses {
		if c.Addresses[i].IsPrimary {
			return &c.Addresses[i]
		}
	}
	return nil
}

// Validation helpers

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)

// ValidateName validates a required name field
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return shared.NewDomainError("REQUIRED_FIELD", field+" is required")
	}
	if len(value) > 100 {
		return shared.NewDomainError("INVALID_NAME", field+" cannot exceed 100 characters")
	}
	return nil
}

// ValidateEmail validates the email business key format
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return shared.NewDomainError("REQUIRED_FIELD", "email is required")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidatePhone validates a phone number
func ValidatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone number cannot exceed 50 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

// ValidateDateOfBirth checks the age window against a reference date.
// Exactly 18 years old is valid; exactly 120 years old is valid;
// anything younger or older is not.
func ValidateDateOfBirth(dob, ref time.Time) error {
	if dob.After(ref) {
		return shared.NewDomainError("INVALID_DATE_OF_BIRTH", "Date of birth cannot be in the future")
	}
	youngest := ref.AddDate(-18, 0, 0)
	oldest := ref.AddDate(-120, 0, 0)
	if dob.After(youngest) {
		return shared.NewDomainError("INVALID_DATE_OF_BIRTH", "Customer must be at least 18 years old")
	}
	if dob.Before(oldest) {
		return shared.NewDomainError("INVALID_DATE_OF_BIRTH", "Customer cannot be older than 120 years")
	}
	return nil
}
