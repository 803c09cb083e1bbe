package m_consumption

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the consumptions table.
// ScheduleFrom and ScheduleTo are seconds from midnight on ConsumptionDate.
type Data struct {
	ConsumptionID   string
	BookingID       string
	CenterID        string
	GroupID         string
	LineID          spanner.NullString
	ConsumptionType string
	ConsumptionDate time.Time
	ScheduleFrom    int64
	ScheduleTo      int64
	RentalUnitID    spanner.NullString
	ProductID       spanner.NullString
	ProductModelID  spanner.NullString
	IsAccommodation bool
	IsMeal          bool
	Qty             int64
	Description     spanner.NullString
	Disclaimed      bool
	CreatedAt       time.Time
}

// Model provides a facade for type-safe operations on the consumptions
// table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a consumption.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			ConsumptionID, BookingID, CenterID, GroupID, LineID,
			ConsumptionType, ConsumptionDate, ScheduleFrom, ScheduleTo,
			RentalUnitID, ProductID, ProductModelID,
			IsAccommodation, IsMeal, Qty, Description, Disclaimed,
			CreatedAt,
		},
		[]interface{}{
			data.ConsumptionID, data.BookingID, data.CenterID, data.GroupID, data.LineID,
			data.ConsumptionType, data.ConsumptionDate, data.ScheduleFrom, data.ScheduleTo,
			data.RentalUnitID, data.ProductID, data.ProductModelID,
			data.IsAccommodation, data.IsMeal, data.Qty, data.Description, data.Disclaimed,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating consumption fields.
// Only the user-editable flags go through here; the scheduler replaces
// stale entries wholesale.
func (m *Model) UpdateMut(consumptionID string, updates map[string]interface{}) *spanner.Mutation {
	cols := []string{ConsumptionID}
	vals := []interface{}{consumptionID}
	for col, val := range updates {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	return spanner.Update(TableName, cols, vals)
}

// DeleteMut creates a Spanner mutation for deleting a consumption.
func (m *Model) DeleteMut(consumptionID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{consumptionID})
}
