package m_activity

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the booking_activities table.
const (
	TableName = "booking_activities"

	ActivityID     = "activity_id"
	GroupID        = "group_id"
	LineID         = "line_id"
	ProductModelID = "product_model_id"
	ActivityDate   = "activity_date"
	TimeSlotID     = "time_slot_id"
	Moment         = "moment"
	EmployeeID     = "employee_id"
	ProviderIDs    = "provider_ids"
	RentalUnitID   = "rental_unit_id"
	IsVirtual      = "is_virtual"
	Counter        = "counter"
	CounterTotal   = "counter_total"
	CreatedAt      = "created_at"
)

// Data represents the database model for the booking_activities table.
type Data struct {
	ActivityID     string
	GroupID        string
	LineID         spanner.NullString
	ProductModelID string
	ActivityDate   time.Time
	TimeSlotID     spanner.NullString
	Moment         string
	EmployeeID     spanner.NullString
	ProviderIDs    []string
	RentalUnitID   spanner.NullString
	IsVirtual      bool
	Counter        int64
	CounterTotal   int64
	CreatedAt      time.Time
}

// Model provides a facade for type-safe operations on the booking_activities
// table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation writing an activity. Counters are
// renumbered on every reschedule, so upsert keeps ids stable.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{
			ActivityID, GroupID, LineID, ProductModelID,
			ActivityDate, TimeSlotID, Moment,
			EmployeeID, ProviderIDs, RentalUnitID,
			IsVirtual, Counter, CounterTotal, CreatedAt,
		},
		[]interface{}{
			data.ActivityID, data.GroupID, data.LineID, data.ProductModelID,
			data.ActivityDate, data.TimeSlotID, data.Moment,
			data.EmployeeID, data.ProviderIDs, data.RentalUnitID,
			data.IsVirtual, data.Counter, data.CounterTotal, spanner.CommitTimestamp,
		},
	)
}

// DeleteMut creates a Spanner mutation for deleting an activity.
func (m *Model) DeleteMut(activityID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{activityID})
}
