package m_task

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the scheduled_tasks table.
const (
	TableName = "scheduled_tasks"

	TaskName  = "task_name"
	TaskType  = "task_type"
	Payload   = "payload"
	DueAt     = "due_at"
	CreatedAt = "created_at"
)

// Data represents the database model for the scheduled_tasks table.
// TaskName is the primary key, so resubmitting a task with the same name
// replaces the pending one instead of queueing a duplicate.
type Data struct {
	TaskName  string
	TaskType  string
	Payload   spanner.NullJSON
	DueAt     time.Time
	CreatedAt time.Time
}

// Model provides a facade for type-safe operations on the scheduled_tasks
// table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a Spanner mutation that inserts the task or replaces a
// pending task with the same name.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{TaskName, TaskType, Payload, DueAt, CreatedAt},
		[]interface{}{data.TaskName, data.TaskType, data.Payload, data.DueAt, spanner.CommitTimestamp},
	)
}

// DeleteMut creates a Spanner mutation for deleting a task once drained.
func (m *Model) DeleteMut(taskName string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{taskName})
}
