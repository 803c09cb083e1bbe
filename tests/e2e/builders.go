package e2e

import (
	"time"

	"github.com/discope/booking-service/internal/app/booking/usecases/create_booking"
)

// BookingBuilder helps create bookings for tests with a fluent interface
type BookingBuilder struct {
	customerID string
	centerID   string
	officeID   string
	groupName  string
	groupType  string
	dateFrom   time.Time
	rateClass  string
}

// NewBookingBuilder creates a new builder with default values
func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		customerID: "cust-1",
		centerID:   "center-1",
		officeID:   "office-1",
	}
}

// WithCustomer sets the customer identifier
func (b *BookingBuilder) WithCustomer(customerID string) *BookingBuilder {
	b.customerID = customerID
	return b
}

// WithCenter sets the center identifier
func (b *BookingBuilder) WithCenter(centerID string) *BookingBuilder {
	b.centerID = centerID
	return b
}

// WithOffice sets the office whose code sequence the booking draws from
func (b *BookingBuilder) WithOffice(officeID string) *BookingBuilder {
	b.officeID = officeID
	return b
}

// WithSojourn adds an initial sojourn group starting on the given date
func (b *BookingBuilder) WithSojourn(name string, dateFrom time.Time) *BookingBuilder {
	b.groupName = name
	b.groupType = "sojourn"
	b.dateFrom = dateFrom
	return b
}

// WithRateClass sets the rate class of the initial group
func (b *BookingBuilder) WithRateClass(rateClassID string) *BookingBuilder {
	b.rateClass = rateClassID
	return b
}

// Build creates the create_booking.Request
func (b *BookingBuilder) Build() *create_booking.Request {
	return &create_booking.Request{
		CustomerID: b.customerID,
		CenterID:   b.centerID,
		OfficeID:   b.officeID,
		GroupName:  b.groupName,
		GroupType:  b.groupType,
		DateFrom:   b.dateFrom,
		RateClass:  b.rateClass,
	}
}
