package m_line

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the booking_lines table.
type Data struct {
	LineID             string
	BookingID          string
	GroupID            string
	ProductID          string
	ProductModelID     string
	LineOrder          int64
	Qty                int64
	HasOwnQty          bool
	QtyVars            string
	UnitPrice          float64
	HasManualUnitPrice bool
	VatRate            float64
	HasManualVatRate   bool
	PriceID            spanner.NullString
	IsPriceTbc         bool
	Discount           float64
	FreeQty            int64
	Total              float64
	Price              float64
	FareBenefit        float64
	ServiceDate        spanner.NullTime
	TimeSlotID         spanner.NullString
	ActivityID         spanner.NullString
	IsAutosale         bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Model provides a facade for type-safe operations on the booking_lines
// table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a line.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			LineID, BookingID, GroupID, ProductID, ProductModelID, LineOrder,
			Qty, HasOwnQty, QtyVars,
			UnitPrice, HasManualUnitPrice, VatRate, HasManualVatRate,
			PriceID, IsPriceTbc,
			Discount, FreeQty, Total, Price, FareBenefit,
			ServiceDate, TimeSlotID, ActivityID, IsAutosale,
			CreatedAt, UpdatedAt,
		},
		[]interface{}{
			data.LineID, data.BookingID, data.GroupID, data.ProductID, data.ProductModelID, data.LineOrder,
			data.Qty, data.HasOwnQty, data.QtyVars,
			data.UnitPrice, data.HasManualUnitPrice, data.VatRate, data.HasManualVatRate,
			data.PriceID, data.IsPriceTbc,
			data.Discount, data.FreeQty, data.Total, data.Price, data.FareBenefit,
			data.ServiceDate, data.TimeSlotID, data.ActivityID, data.IsAutosale,
			spanner.CommitTimestamp, spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific line fields.
func (m *Model) UpdateMut(lineID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)
	columns = append(columns, LineID)
	values = append(values, lineID)
	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}
	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a line.
func (m *Model) DeleteMut(lineID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{lineID})
}
