package importer

import (
	"context"
	"io"

	"github.com/crmlite/backend/internal/domain/customer"
	"github.com/crmlite/backend/internal/infrastructure/csvio"
)

// CustomerExportService writes customers back out as CSV using the same
// column set the importer accepts, so an export round-trips.
type CustomerExportService struct {
	graphRepo customer.GraphRepository
}

// NewCustomerExportService creates a new CustomerExportService
func NewCustomerExportService(graphRepo customer.GraphRepository) *CustomerExportService {
	return &CustomerExportService{graphRepo: graphRepo}
}

// Export writes every customer as one CSV row. The primary address
// fills the address columns; customers without one leave them blank.
// Returns the number of data rows written.
func (s *CustomerExportService) Export(ctx context.Context, w io.Writer) (int, error) {
	rows, err := s.graphRepo.FetchAllGraphRows(ctx)
	if err != nil {
		return 0, err
	}
	customers, err := customer.ReadAll(rows)
	if err != nil {
		return 0, err
	}

	cw := csvio.NewWriter(w, exportColumns)
	for _, c := range customers {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		dob := ""
		if c.DateOfBirth != nil {
			dob = c.DateOfBirth.Format(dateLayout)
		}
		record := []string{
			c.FirstName, c.LastName, c.Email, c.Phone, c.Status.String(), dob,
			"", "", "", "", "",
		}
		if addr := c.PrimaryAddress(); addr != nil {
			record[6] = addr.Street
			record[7] = addr.City
			record[8] = addr.State
			record[9] = addr.ZipCode
			record[10] = addr.Country
		}
		if err := cw.WriteRecord(record); err != nil {
			return 0, err
		}
	}
	if err := cw.Flush(); err != nil {
		return 0, err
	}
	return len(customers), nil
}
