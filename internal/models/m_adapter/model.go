package m_adapter

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the price_adapters table.
const (
	TableName = "price_adapters"

	AdapterID        = "adapter_id"
	BookingID        = "booking_id"
	GroupID          = "group_id"
	LineID           = "line_id"
	AdapterType      = "adapter_type"
	Value            = "value"
	IsManualDiscount = "is_manual_discount"
	DiscountID       = "discount_id"
	Origin           = "origin"
	CreatedAt        = "created_at"
)

// Data represents the database model for the price_adapters table. A null
// LineID marks a group-level adapter (pack pricing).
type Data struct {
	AdapterID        string
	BookingID        string
	GroupID          string
	LineID           spanner.NullString
	AdapterType      string
	Value            float64
	IsManualDiscount bool
	DiscountID       spanner.NullString
	Origin           spanner.NullString
	CreatedAt        time.Time
}

// Model provides a facade for type-safe operations on the price_adapters
// table. Automatic adapters are replaced as a set on every discount
// evaluation; only insert and delete are needed.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an adapter.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			AdapterID, BookingID, GroupID, LineID,
			AdapterType, Value, IsManualDiscount, DiscountID, Origin,
			CreatedAt,
		},
		[]interface{}{
			data.AdapterID, data.BookingID, data.GroupID, data.LineID,
			data.AdapterType, data.Value, data.IsManualDiscount, data.DiscountID, data.Origin,
			spanner.CommitTimestamp,
		},
	)
}

// DeleteMut creates a Spanner mutation for deleting an adapter.
func (m *Model) DeleteMut(adapterID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{adapterID})
}
