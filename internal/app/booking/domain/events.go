package domain

import "time"

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// BookingCreatedEvent is emitted when a booking is created.
type BookingCreatedEvent struct {
	BookingID  string
	Code       int64
	CustomerID string
	CenterID   string
	CreatedAt  time.Time
}

func (e *BookingCreatedEvent) EventType() string   { return "booking.created" }
func (e *BookingCreatedEvent) AggregateID() string { return e.BookingID }

// BookingStatusChangedEvent is emitted on every status transition.
type BookingStatusChangedEvent struct {
	BookingID string
	From      BookingStatus
	To        BookingStatus
	ChangedAt time.Time
}

func (e *BookingStatusChangedEvent) EventType() string   { return "booking.status_changed" }
func (e *BookingStatusChangedEvent) AggregateID() string { return e.BookingID }

// BookingDeletedEvent is emitted when a quote booking is deleted.
type BookingDeletedEvent struct {
	BookingID string
	DeletedAt time.Time
}

func (e *BookingDeletedEvent) EventType() string   { return "booking.deleted" }
func (e *BookingDeletedEvent) AggregateID() string { return e.BookingID }

// UnitsUnassignedEvent is emitted when the allocator cannot cover a
// group's required capacity; back office follows up manually.
type UnitsUnassignedEvent struct {
	BookingID        string
	GroupID          string
	RequiredCapacity int
	DetectedAt       time.Time
}

func (e *UnitsUnassignedEvent) EventType() string   { return "booking.units_unassigned" }
func (e *UnitsUnassignedEvent) AggregateID() string { return e.BookingID }

// PriceTbcEvent is emitted when a line price had to be resolved from a
// pending price list.
type PriceTbcEvent struct {
	BookingID string
	LineID    string
	PriceID   string
}

func (e *PriceTbcEvent) EventType() string   { return "booking.price_tbc" }
func (e *PriceTbcEvent) AggregateID() string { return e.BookingID }
