package m_outbox

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the outbox_events table. Payload
// holds the serialized domain event; AggregateID is the booking id so the
// relay can key messages per booking.
type Data struct {
	EventID      string
	EventType    string
	AggregateID  string
	Payload      spanner.NullJSON
	Status       string
	CreatedAt    time.Time
	ProcessedAt  spanner.NullTime
	RetryCount   int64
	ErrorMessage spanner.NullString
}

// Model provides a facade for type-safe operations on the outbox_events
// table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting an outbox event. New
// events always start pending with a zero retry count.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{EventID, EventType, AggregateID, Payload, Status, CreatedAt, RetryCount},
		[]interface{}{data.EventID, data.EventType, data.AggregateID, data.Payload, StatusPending, spanner.CommitTimestamp, int64(0)},
	)
}

// MarkProcessingMut claims an event for the relay.
func (m *Model) MarkProcessingMut(eventID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status},
		[]interface{}{eventID, StatusProcessing},
	)
}

// MarkCompletedMut records a successful publish.
func (m *Model) MarkCompletedMut(eventID string) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, ProcessedAt},
		[]interface{}{eventID, StatusCompleted, spanner.CommitTimestamp},
	)
}

// MarkFailedMut records a failed publish attempt. The caller decides whether
// the event goes back to pending or ends up failed for good.
func (m *Model) MarkFailedMut(eventID, status, errMsg string, retryCount int64) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{EventID, Status, RetryCount, ErrorMessage},
		[]interface{}{eventID, status, retryCount, spanner.NullString{StringVal: errMsg, Valid: errMsg != ""}},
	)
}

// DeleteMut creates a Spanner mutation for deleting an outbox event.
func (m *Model) DeleteMut(eventID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{eventID})
}
