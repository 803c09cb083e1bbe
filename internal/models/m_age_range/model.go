package m_age_range

import (
	"cloud.google.com/go/spanner"
)

// Field name constants for the age_range_assignments table.
const (
	TableName = "age_range_assignments"

	AssignmentID = "assignment_id"
	GroupID      = "group_id"
	AgeRangeID   = "age_range_id"
	Qty          = "qty"
	IsChildren   = "is_children"
)

// Data represents the database model for the age_range_assignments table.
type Data struct {
	AssignmentID string
	GroupID      string
	AgeRangeID   string
	Qty          int64
	IsChildren   bool
}

// Model provides a facade for type-safe operations on the
// age_range_assignments table. Assignments are replaced as a set, so the
// model only exposes insert and delete-by-group.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an assignment.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{AssignmentID, GroupID, AgeRangeID, Qty, IsChildren},
		[]interface{}{data.AssignmentID, data.GroupID, data.AgeRangeID, data.Qty, data.IsChildren},
	)
}

// DeleteMut creates a Spanner mutation for deleting one assignment. The
// table is keyed (group_id, assignment_id), interleaved in its group.
func (m *Model) DeleteMut(groupID, assignmentID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{groupID, assignmentID})
}

// DeleteByGroupMut creates a Spanner mutation removing every assignment of
// a group.
func (m *Model) DeleteByGroupMut(groupID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{groupID}.AsPrefix())
}
