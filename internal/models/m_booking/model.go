package m_booking

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the bookings table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a booking.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			BookingID,
			Code,
			CustomerID,
			CenterID,
			OfficeID,
			Status,
			DateFrom,
			DateTo,
			Total,
			Price,
			IsPriceTbc,
			IsLocked,
			IsFromChannel,
			IsCancelled,
			PaymentRef,
			Version,
			CreatedAt,
			UpdatedAt,
		},
		[]interface{}{
			data.BookingID,
			data.Code,
			data.CustomerID,
			data.CenterID,
			data.OfficeID,
			data.Status,
			data.DateFrom,
			data.DateTo,
			data.Total,
			data.Price,
			data.IsPriceTbc,
			data.IsLocked,
			data.IsFromChannel,
			data.IsCancelled,
			data.PaymentRef,
			data.Version,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific booking
// fields. The updates map contains field names as keys and new values;
// the version column and the UpdatedAt timestamp are always bumped.
func (m *Model) UpdateMut(bookingID string, version int64, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	updates[Version] = version + 1
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, BookingID)
	values = append(values, bookingID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a booking. Owned rows
// in the child tables are removed through ON DELETE CASCADE foreign keys.
func (m *Model) DeleteMut(bookingID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{bookingID})
}
