package customer

import (
	"context"
	"strings"
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/domain/shared"
)

// Service handles customer lifecycle operations
type Service struct {
	repo      customer.Repository
	graphRepo customer.GraphRepository
}

// NewService creates a new Service
func NewService(repo customer.Repository, graphRepo customer.GraphRepository) *Service {
	return &Service{
		repo:      repo,
		graphRepo: graphRepo,
	}
}

// Create creates a new customer, optionally with its first address in
// the same transaction.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
	}

	c, err := customer.NewCustomer(req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		if err := c.SetContact(req.Phone, req.Email); err != nil {
			return nil, err
		}
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Date of birth must use YYYY-MM-DD format")
		}
		if err := c.SetDateOfBirth(dob); err != nil {
			return nil, err
		}
	}

	if req.Status != "" {
		status, err := customer.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		c.Status = status
	}

	if req.Address != nil {
		addr := &customer.Address{
			Street:    req.Address.Street,
			City:      req.Address.City,
			State:     req.Address.State,
			ZipCode:   req.Address.ZipCode,
			Country:   req.Address.Country,
			Type:      customer.AddressType(req.Address.Type),
			IsPrimary: req.Address.IsPrimary,
		}
		if addr.Type == "" {
			addr.Type = customer.AddressTypeHome
		}
		if err := s.repo.CreateWithAddress(ctx, c, addr); err != nil {
			return nil, err
		}
	} else if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID retrieves a customer without its collections
func (s *Service) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetDetails retrieves one customer with its full address and order
// graph, reconstructed from the flattened join rows.
func (s *Service) GetDetails(ctx context.Context, id int64) (*CustomerDetailResponse, error) {
	rows, err := s.graphRepo.FetchGraphRows(ctx, id)
	if err != nil {
		return nil, err
	}

	customers, err := customer.ReadAll(rows)
	if err != nil {
		return nil, err
	}
	if len(customers) != 1 {
		return nil, shared.ErrDataIntegrity
	}

	detail := ToCustomerDetailResponse(customers[0])
	return &detail, nil
}

// Update applies a partial update to a customer
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Stored emails are lowercase, so the changed-email check must be
	// case-insensitive or resubmitting your own email in different case
	// would count your own row as a conflict.
	if req.Email != nil && !strings.EqualFold(*req.Email, c.Email) {
		exists, err := s.repo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
		}
	}

	if req.FirstName != nil {
		if err := customer.ValidateName("first name", *req.FirstName); err != nil {
			return nil, err
		}
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if err := customer.ValidateName("last name", *req.LastName); err != nil {
			return nil, err
		}
		c.LastName = *req.LastName
	}
	if req.Phone != nil || req.Email != nil {
		phone := c.Phone
		if req.Phone != nil {
			phone = *req.Phone
		}
		email := c.Email
		if req.Email != nil {
			email = *req.Email
		}
		if err := c.SetContact(phone, email); err != nil {
			return nil, err
		}
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_DATE", "Date of birth must use YYYY-MM-DD format")
		}
		if err := c.SetDateOfBirth(dob); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		status, err := customer.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		c.Status = status
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Delete removes a customer
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List retrieves customers matching the filter, without object graphs
func (s *Service) List(ctx context.Context, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	f := shared.DefaultFilter()
	f.Search = filter.Search
	f.OrderBy = "last_name"
	f.OrderDir = "asc"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.City != "" {
		f.Filters["city"] = filter.City
	}

	customers, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i]))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}
