package m_assignment

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the rental_unit_assignments table.
const (
	TableName = "rental_unit_assignments"

	AssignmentID = "assignment_id"
	GroupID      = "group_id"
	SPMID        = "spm_id"
	RentalUnitID = "rental_unit_id"
	Qty          = "qty"
	IsLocked     = "is_locked"
	CreatedAt    = "created_at"
)

// Data represents the database model for the rental_unit_assignments table.
type Data struct {
	AssignmentID string
	GroupID      string
	SPMID        string
	RentalUnitID string
	Qty          int64
	IsLocked     bool
	CreatedAt    time.Time
}

// Model provides a facade for type-safe operations on the
// rental_unit_assignments table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation writing an assignment. Rows kept
// across a replan retain their id, so the write tolerates existing rows.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{AssignmentID, GroupID, SPMID, RentalUnitID, Qty, IsLocked, CreatedAt},
		[]interface{}{data.AssignmentID, data.GroupID, data.SPMID, data.RentalUnitID, data.Qty, data.IsLocked, spanner.CommitTimestamp},
	)
}

// UpdateMut creates a Spanner mutation for updating assignment fields.
// Used for lock toggles; reallocation replaces the set instead.
func (m *Model) UpdateMut(assignmentID string, updates map[string]interface{}) *spanner.Mutation {
	cols := []string{AssignmentID}
	vals := []interface{}{assignmentID}
	for col, val := range updates {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	return spanner.Update(TableName, cols, vals)
}

// DeleteMut creates a Spanner mutation for deleting an assignment.
func (m *Model) DeleteMut(assignmentID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{assignmentID})
}
