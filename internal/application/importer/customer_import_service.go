package importer

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/domain/shared"
	"github.com/crmlite/backend/internal/infrastructure/csvio"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dateLayout is the date-only format accepted in CSV files
const dateLayout = "2006-01-02"

// Customer CSV column names. FirstName, LastName and Email are required;
// the rest are optional per row.
const (
	ColFirstName   = "FirstName"
	ColLastName    = "LastName"
	ColEmail       = "Email"
	ColPhone       = "Phone"
	ColStatus      = "Status"
	ColDateOfBirth = "DateOfBirth"
	ColStreet      = "Street"
	ColCity        = "City"
	ColState       = "State"
	ColZipCode     = "ZipCode"
	ColCountry     = "Country"
)

var requiredColumns = []string{ColFirstName, ColLastName, ColEmail}

var exportColumns = []string{
	ColFirstName, ColLastName, ColEmail, ColPhone, ColStatus, ColDateOfBirth,
	ColStreet, ColCity, ColState, ColZipCode, ColCountry,
}

// ImportResult represents the outcome of a customer CSV import
type ImportResult struct {
	ImportID     string           `json:"import_id"`
	TotalRows    int              `json:"total_rows"`
	ImportedRows int              `json:"imported_rows"`
	ErrorRows    int              `json:"error_rows"`
	Errors       []csvio.RowError `json:"errors,omitempty"`
	IsTruncated  bool             `json:"is_truncated,omitempty"`
	TotalErrors  int              `json:"total_errors,omitempty"`
}

// CustomerImportService handles customer bulk import from CSV
type CustomerImportService struct {
	repo         customer.Repository
	maxRowErrors int
	logger       *zap.Logger
}

// NewCustomerImportService creates a new CustomerImportService.
// maxRowErrors caps how many row error details are retained per import.
func NewCustomerImportService(repo customer.Repository, maxRowErrors int, logger *zap.Logger) *CustomerImportService {
	return &CustomerImportService{
		repo:         repo,
		maxRowErrors: maxRowErrors,
		logger:       logger,
	}
}

// Import reads customers from a CSV stream and persists the valid rows.
// A failing row is recorded and skipped; the batch continues. Rows whose
// email duplicates an earlier row in the same file, or an existing
// customer, are rejected. Context cancellation aborts between rows.
func (s *CustomerImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	parser, err := csvio.NewParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.MissingHeaders(requiredColumns); len(missing) > 0 {
		return nil, shared.NewDomainError("MISSING_COLUMNS",
			"CSV is missing required columns: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, csvio.ErrNoDataRows
	}

	result := &ImportResult{ImportID: uuid.NewString(), TotalRows: len(rows)}
	rowErrors := csvio.NewErrorCollection(s.maxRowErrors)
	seenEmails := make(map[string]bool, len(rows))

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if s.importRow(ctx, row, seenEmails, rowErrors) {
			result.ImportedRows++
		} else {
			result.ErrorRows++
		}
	}

	result.Errors = rowErrors.Errors()
	result.IsTruncated = rowErrors.IsTruncated()
	result.TotalErrors = rowErrors.TotalCount()

	s.logger.Info("customer import finished",
		zap.String("import_id", result.ImportID),
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.ImportedRows),
		zap.Int("failed", result.ErrorRows),
	)

	return result, nil
}

// importRow validates and persists one row, reporting success
func (s *CustomerImportService) importRow(ctx context.Context, row *csvio.Row, seenEmails map[string]bool, rowErrors *csvio.ErrorCollection) bool {
	line := row.LineNumber
	ok := true

	firstName := row.Get(ColFirstName)
	if firstName == "" {
		rowErrors.AddRequired(line, ColFirstName)
		ok = false
	}
	lastName := row.Get(ColLastName)
	if lastName == "" {
		rowErrors.AddRequired(line, ColLastName)
		ok = false
	}

	email := strings.ToLower(row.Get(ColEmail))
	switch {
	case email == "":
		rowErrors.AddRequired(line, ColEmail)
		ok = false
	case customer.ValidateEmail(email) != nil:
		rowErrors.AddFormat(line, ColEmail, "invalid email address", email)
		ok = false
	case seenEmails[email]:
		rowErrors.AddDuplicate(line, ColEmail, email, false)
		ok = false
	default:
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			rowErrors.Add(csvio.NewRowError(line, ColEmail, csvio.ErrCodeCSVParsing, err.Error()))
			ok = false
		} else if exists {
			rowErrors.AddDuplicate(line, ColEmail, email, true)
			ok = false
		}
	}

	phone := row.Get(ColPhone)
	if phone != "" {
		if err := customer.ValidatePhone(phone); err != nil {
			rowErrors.AddFormat(line, ColPhone, err.Error(), phone)
			ok = false
		}
	}

	var status customer.CustomerStatus
	if raw := row.Get(ColStatus); raw != "" {
		parsed, err := customer.ParseStatus(raw)
		if err != nil {
			rowErrors.AddInvalid(line, ColStatus, "status must be active or inactive", raw)
			ok = false
		} else {
			status = parsed
		}
	}

	var dob *time.Time
	if raw := row.Get(ColDateOfBirth); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			rowErrors.AddFormat(line, ColDateOfBirth, "date must use YYYY-MM-DD format", raw)
			ok = false
		} else if err := customer.ValidateDateOfBirth(parsed, time.Now()); err != nil {
			rowErrors.AddInvalid(line, ColDateOfBirth, err.Error(), raw)
			ok = false
		} else {
			dob = &parsed
		}
	}

	if !ok {
		return false
	}

	c, err := customer.NewCustomer(firstName, lastName, email)
	if err != nil {
		rowErrors.AddInvalid(line, "", err.Error(), "")
		return false
	}
	if phone != "" {
		if err := c.SetContact(phone, email); err != nil {
			rowErrors.AddInvalid(line, ColPhone, err.Error(), phone)
			return false
		}
	}
	if status != "" {
		c.Status = status
	}
	if dob != nil {
		c.DateOfBirth = dob
	}

	addr := rowAddress(row)
	if addr != nil {
		err = s.repo.CreateWithAddress(ctx, c, addr)
	} else {
		err = s.repo.Save(ctx, c)
	}
	if err != nil {
		s.logger.Warn("failed to persist imported customer",
			zap.Int("line", line), zap.Error(err))
		rowErrors.Add(csvio.NewRowError(line, "", csvio.ErrCodeCSVParsing, err.Error()))
		return false
	}

	seenEmails[email] = true
	return true
}

// rowAddress builds the row's address, or nil when no address columns
// carry a value.
func rowAddress(row *csvio.Row) *customer.Address {
	street := row.Get(ColStreet)
	city := row.Get(ColCity)
	if street == "" && city == "" {
		return nil
	}
	return &customer.Address{
		Street:    street,
		City:      city,
		State:     row.Get(ColState),
		ZipCode:   row.Get(ColZipCode),
		Country:   row.Get(ColCountry),
		Type:      customer.AddressTypeHome,
		IsPrimary: true,
	}
}
