package delete_booking

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
)

// Request removes a quote booking and everything it owns.
type Request struct {
	BookingID string
}

// Interactor handles the delete booking use case.
type Interactor struct {
	bookings  contracts.BookingRepository
	outbox    contracts.OutboxRepository
	committer *committer.Committer
	clock     clock.Clock
}

// NewInteractor creates a new delete booking interactor.
func NewInteractor(
	bookings contracts.BookingRepository,
	outbox contracts.OutboxRepository,
	cmt *committer.Committer,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		bookings:  bookings,
		outbox:    outbox,
		committer: cmt,
		clock:     clk,
	}
}

// Execute deletes the booking. Child rows follow through the cascading
// foreign keys, so one mutation covers the whole file. Only quotes can be
// deleted, and never bookings imported from a channel manager.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	booking, err := i.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return err
	}
	version, err := i.bookings.Version(ctx, req.BookingID)
	if err != nil {
		return err
	}

	if err := booking.CanDelete(); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.Add(i.bookings.DeleteMut(req.BookingID))

	event := &domain.BookingDeletedEvent{
		BookingID: req.BookingID,
		DeletedAt: i.clock.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	plan.Add(i.outbox.InsertMut(i.outbox.EnrichEvent(event, string(payload))))

	return i.committer.ApplyWithVersionCheck(ctx, req.BookingID, version, plan)
}
