package contracts

import (
	"context"
	"time"
)

// BookingDTO is the flattened read shape of a booking for the back
// office.
type BookingDTO struct {
	BookingID       string
	Code            int64
	PaymentRef      string
	DisplayRef      string
	CustomerID      string
	CenterID        string
	Status          string
	DateFrom        time.Time
	DateTo          time.Time
	Total           float64
	Price           float64
	IsPriceTbc      bool
	IsLocked        bool
	NbPers          int
	GroupCount      int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GroupDTO is the read shape of one booking line group.
type GroupDTO struct {
	GroupID     string
	Name        string
	GroupType   string
	DateFrom    time.Time
	DateTo      time.Time
	NbPers      int
	NbChildren  int
	Total       float64
	Price       float64
	FareBenefit float64
}

// ConsumptionDTO is the read shape of one planning entry.
type ConsumptionDTO struct {
	ConsumptionID string
	BookingID     string
	GroupID       string
	Type          string
	Date          time.Time
	ScheduleFrom  string
	ScheduleTo    string
	RentalUnitID  string
	ProductID     string
	Qty           int
	Description   string
}

// ListFilter bounds booking list queries.
type ListFilter struct {
	CenterID string
	Status   string
	PageSize int
}

// ReadModel serves the query side of the back office, bypassing the
// domain layer.
type ReadModel interface {
	GetBookingByID(ctx context.Context, bookingID string) (*BookingDTO, error)
	ListBookings(ctx context.Context, filter *ListFilter) ([]*BookingDTO, error)
	ListGroups(ctx context.Context, bookingID string) ([]*GroupDTO, error)
	ListConsumptions(ctx context.Context, bookingID string) ([]*ConsumptionDTO, error)
}
