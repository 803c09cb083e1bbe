package contracts

import (
	"cloud.google.com/go/spanner"

	"github.com/discope/booking-service/internal/app/booking/domain"
)

// OutboxEvent is an enriched domain event ready for persistence and later
// relay to the message broker.
type OutboxEvent struct {
	EventID     string
	EventType   string
	AggregateID string
	Payload     string // JSON
	Status      string
}

// OutboxRepository persists domain events in the same transaction as the
// aggregates that produced them.
type OutboxRepository interface {
	// InsertMut creates a mutation for inserting an outbox event.
	InsertMut(event *OutboxEvent) *spanner.Mutation

	// EnrichEvent converts a domain event to an outbox event with metadata.
	EnrichEvent(event domain.DomainEvent, payload string) *OutboxEvent
}
