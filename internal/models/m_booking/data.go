package m_booking

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the bookings table.
type Data struct {
	BookingID     string
	Code          int64
	CustomerID    string
	CenterID      string
	OfficeID      string
	Status        string
	DateFrom      spanner.NullTime
	DateTo        spanner.NullTime
	Total         float64
	Price         float64
	IsPriceTbc    bool
	IsLocked      bool
	IsFromChannel bool
	IsCancelled   bool
	PaymentRef    string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
