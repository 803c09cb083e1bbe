package m_group

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the booking_line_groups table.
// Time-of-day columns store seconds since midnight.
type Data struct {
	GroupID              string
	BookingID            string
	Name                 string
	GroupType            string
	DateFrom             time.Time
	DateTo               time.Time
	TimeFrom             int64
	TimeTo               int64
	NbPers               int64
	NbChildren           int64
	RateClassID          string
	HasPack              bool
	PackID               spanner.NullString
	IsLocked             bool
	HasLockedRentalUnits bool
	Total                float64
	Price                float64
	FareBenefit          float64
	IsPriceTbc           bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Model provides a facade for type-safe operations on the
// booking_line_groups table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a group.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{
			GroupID, BookingID, Name, GroupType,
			DateFrom, DateTo, TimeFrom, TimeTo,
			NbPers, NbChildren, RateClassID,
			HasPack, PackID, IsLocked, HasLockedRentalUnits,
			Total, Price, FareBenefit, IsPriceTbc,
			CreatedAt, UpdatedAt,
		},
		[]interface{}{
			data.GroupID, data.BookingID, data.Name, data.GroupType,
			data.DateFrom, data.DateTo, data.TimeFrom, data.TimeTo,
			data.NbPers, data.NbChildren, data.RateClassID,
			data.HasPack, data.PackID, data.IsLocked, data.HasLockedRentalUnits,
			data.Total, data.Price, data.FareBenefit, data.IsPriceTbc,
			spanner.CommitTimestamp, spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific group fields.
func (m *Model) UpdateMut(groupID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}
	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)
	columns = append(columns, GroupID)
	values = append(values, groupID)
	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}
	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a group.
func (m *Model) DeleteMut(groupID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{groupID})
}
