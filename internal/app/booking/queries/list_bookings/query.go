package list_bookings

import (
	"context"

	"github.com/discope/booking-service/internal/app/booking/contracts"
)

// Request contains filtering and pagination parameters.
type Request struct {
	CenterID string
	Status   string
	PageSize int
}

// Query handles the list bookings query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list bookings query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves a filtered list of bookings.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.BookingDTO, error) {
	filter := &contracts.ListFilter{
		CenterID: req.CenterID,
		Status:   req.Status,
		PageSize: req.PageSize,
	}

	return q.readModel.ListBookings(ctx, filter)
}
