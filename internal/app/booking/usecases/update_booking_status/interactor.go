package update_booking_status

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
)

// Request moves a booking along its status chain.
type Request struct {
	BookingID string
	Status    domain.BookingStatus
}

// Interactor handles the update booking status use case.
type Interactor struct {
	bookings  contracts.BookingRepository
	outbox    contracts.OutboxRepository
	committer *committer.Committer
	clock     clock.Clock
}

// NewInteractor creates a new update booking status interactor.
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

// Execute performs the transition. A confirmed booking with every overdue
// funding paid advances further to validated in the same commit.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	booking, err := i.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return err
	}
	version, err := i.bookings.Version(ctx, req.BookingID)
	if err != nil {
		return err
	}
	defer booking.ClearEvents()

	if err := booking.TransitionTo(req.Status); err != nil {
		return err
	}

	if booking.Status() == domain.StatusConfirmed {
		fundings, err := i.bookings.Fundings(ctx, req.BookingID)
		if err != nil {
			return err
		}
		booking.ReviewFundings(fundings, i.clock.Now())
	}

	plan := committer.NewPlan()
	plan.Add(i.bookings.UpdateMut(booking, version))

	for _, event := range booking.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outbox.InsertMut(i.outbox.EnrichEvent(event, string(payload))))
	}

	return i.committer.ApplyWithVersionCheck(ctx, req.BookingID, version, plan)
}
