package list_consumptions

import (
	"context"

	"github.com/discope/booking-service/internal/app/booking/contracts"
)

// Request contains the booking whose planning entries are listed.
type Request struct {
	BookingID string
}

// Query handles the list consumptions query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list consumptions query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{
		readModel: readModel,
	}
}

// Execute retrieves every planning entry of a booking, ordered by date
// and schedule.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*contracts.ConsumptionDTO, error) {
	return q.readModel.ListConsumptions(ctx, req.BookingID)
}
