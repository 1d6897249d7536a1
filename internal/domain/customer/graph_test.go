package customer

import (
	"errors"
	"testing"
	"time"

	"github.com/crmlite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func custCols(id int64, email string) CustomerColumns {
	return CustomerColumns{
		ID:        id,
		FirstName: "First",
		LastName:  "Last",
		Email:     email,
		Status:    StatusActive,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func addrCols(id, customerID int64, city string) *AddressColumns {
	return &AddressColumns{ID: id, CustomerID: customerID, City: city, Type: AddressTypeHome}
}

func orderCols(id, customerID int64, day int) *OrderColumns {
	return &OrderColumns{
		ID:         id,
		CustomerID: customerID,
		OrderDate:  time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Status:     OrderStatusCompleted,
	}
}

func itemCols(id, orderID int64, qty int, price string) *OrderItemColumns {
	return &OrderItemColumns{
		ID:          id,
		OrderID:     orderID,
		ProductName: "Widget",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
	}
}

func TestReadAll_ReconstructsHierarchy(t *testing.T) {
	// Customer 1 with addresses {A1,A2} and orders {O1(I1,I2), O2(I3)},
	// fanned out over the cartesian LEFT JOIN.
	rows := []FlatRow{
		{Customer: custCols(1, "c1@example.com"), Address: addrCols(1, 1, "Springfield"), Order: orderCols(10, 1, 1), Item: itemCols(100, 10, 2, "10.00")},
		{Customer: custCols(1, "c1@example.com"), Address: addrCols(1, 1, "Springfield"), Order: orderCols(10, 1, 1), Item: itemCols(101, 10, 1, "5.50")},
		{Customer: custCols(1, "c1@example.com"), Address: addrCols(1, 1, "Springfield"), Order: orderCols(11, 1, 2), Item: itemCols(102, 11, 3, "2.00")},
		{Customer: custCols(1, "c1@example.com"), Address: addrCols(2, 1, "Shelbyville"), Order: orderCols(10, 1, 1), Item: itemCols(100, 10, 2, "10.00")},
		{Customer: custCols(1, "c1@example.com"), Address: addrCols(2, 1, "Shelbyville"), Order: orderCols(10, 1, 1), Item: itemCols(101, 10, 1, "5.50")},
		{Customer: custCols(1, "c1@example.com"), Address: addrCols(2, 1, "Shelbyville"), Order: orderCols(11, 1, 2), Item: itemCols(102, 11, 3, "2.00")},
	}

	customers, err := ReadAll(rows)
	require.NoError(t, err)
	require.Len(t, customers, 1)

	c := customers[0]
	assert.Equal(t, int64(1), c.ID)
	require.Len(t, c.Addresses, 2)
	assert.Equal(t, "Springfield", c.Addresses[0].City)
	assert.Equal(t, "Shelbyville", c.Addresses[1].City)

	require.Len(t, c.Orders, 2)
	assert.Equal(t, int64(10), c.Orders[0].ID)
	assert.Equal(t, int64(11), c.Orders[1].ID)
	require.Len(t, c.Orders[0].Items, 2)
	require.Len(t, c.Orders[1].Items, 1)
	assert.Equal(t, int64(100), c.Orders[0].Items[0].ID)
	assert.Equal(t, int64(101), c.Orders[0].Items[1].ID)
	assert.Equal(t, int64(102), c.Orders[1].Items[0].ID)
}

func TestReadAll_NeverDuplicatesOrderAcrossItems(t *testing.T) {
	// Two order-items on the same order id=10 plus one on id=11 must
	// yield exactly one Order(10), never two instances.
	rows := []FlatRow{
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(10, 1, 1), Item: itemCols(100, 10, 1, "1.00")},
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(10, 1, 1), Item: itemCols(101, 10, 1, "1.00")},
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(11, 1, 2), Item: itemCols(102, 11, 1, "1.00")},
	}

	customers, err := ReadAll(rows)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Len(t, customers[0].Orders, 2)
	assert.Len(t, customers[0].Orders[0].Items, 2)
	assert.Len(t, customers[0].Orders[1].Items, 1)
}

func TestReadAll_ItemOrderingIndependence(t *testing.T) {
	// Item rows of the same order arriving interleaved must still
	// attach to one order instance each, deduplicated by id.
	rows := []FlatRow{
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(10, 1, 1), Item: itemCols(100, 10, 1, "1.00")},
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(11, 1, 2), Item: itemCols(102, 11, 1, "1.00")},
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(10, 1, 1), Item: itemCols(101, 10, 1, "1.00")},
		{Customer: custCols(1, "c1@example.com"), Order: orderCols(10, 1, 1), Item: itemCols(100, 10, 1, "1.00")},
	}

	customers, err := ReadAll(rows)
	require.NoError(t, err)
	require.Len(t, customers[0].Orders, 2)
	assert.Equal(t, []int64{100, 101}, []int64{customers[0].Orders[0].Items[0].ID, customers[0].Orders[0].Items[1].ID})
	assert.Len(t, customers[0].Orders[1].Items, 1)
}

func TestReadAll_EmptyCollectionsNotNil(t *testing.T) {
	rows := []FlatRow{
		{Customer: custCols(5, "lonely@example.com")},
	}

	customers, err := ReadAll(rows)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.NotNil(t, customers[0].Addresses)
	assert.NotNil(t, customers[0].Orders)
	assert.Empty(t, customers[0].Addresses)
	assert.Empty(t, customers[0].Orders)
}

func TestReadAll_PreservesFirstSeenCustomerOrder(t *testing.T) {
	rows := []FlatRow{
		{Customer: custCols(3, "c3@example.com")},
		{Customer: custCols(1, "c1@example.com")},
		{Customer: custCols(3, "c3@example.com")},
		{Customer: custCols(2, "c2@example.com")},
	}

	customers, err := ReadAll(rows)
	require.NoError(t, err)
	require.Len(t, customers, 3)
	assert.Equal(t, int64(3), customers[0].ID)
	assert.Equal(t, int64(1), customers[1].ID)
	assert.Equal(t, int64(2), customers[2].ID)
}

func TestReadAll_FirstOccurrenceWins(t *testing.T) {
	second := custCols(1, "c1@example.com")
	second.FirstName = "Changed"

	rows := []FlatRow{
		{Customer: custCols(1, "c1@example.com")},
		{Customer: second},
	}

	customers, err := ReadAll(rows)
	require.NoError(t, err)
	assert.Equal(t, "First", customers[0].FirstName)
}

func TestReadAll_MalformedRows(t *testing.T) {
	t.Run("missing customer id", func(t *testing.T) {
		rows := []FlatRow{
			{Customer: custCols(1, "ok@example.com")},
			{Customer: CustomerColumns{Email: "noid@example.com"}},
		}

		customers, err := ReadAll(rows)
		assert.Nil(t, customers)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrDataIntegrity))
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("missing email", func(t *testing.T) {
		rows := []FlatRow{
			{Customer: CustomerColumns{ID: 7}},
		}

		_, err := ReadAll(rows)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrDataIntegrity))
	})
}
