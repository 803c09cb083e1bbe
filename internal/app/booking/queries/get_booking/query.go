package get_booking

import (
	"context"

	"github.com/discope/booking-service/internal/app/booking/contracts"
)

// Request contains the booking ID to retrieve.
type Request struct {
	BookingID string
}

// Response bundles the booking with its groups.
type Response struct {
	Booking *contracts.BookingDTO
	Groups  []*contracts.GroupDTO
}

// Query handles the get booking query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new get booking query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a booking and its groups by ID.
func (q *Query) Execute(ctx context.Context, req *Request) (*Response, error) {
	booking, err := q.readModel.GetBookingByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	groups, err := q.readModel.ListGroups(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	return &Response{Booking: booking, Groups: groups}, nil
}
