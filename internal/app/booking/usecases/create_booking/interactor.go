package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
)

// Request contains the data needed to open a new booking file.
type Request struct {
	CustomerID string
	CenterID   string
	OfficeID   string

	// Optional initial group. When GroupName is empty the booking starts
	// without groups.
	GroupName string
	GroupType string
	DateFrom  time.Time
	RateClass string
}

// Response returns the identifiers of the created booking.
type Response struct {
	BookingID  string
	Code       int64
	PaymentRef string
}

// Interactor handles the create booking use case.
type Interactor struct {
	bookings  contracts.BookingRepository
	groups    contracts.GroupRepository
	outbox    contracts.OutboxRepository
	settings  contracts.SettingsRepository
	committer *committer.Committer
	clock     clock.Clock
}

// NewInteractor creates a new create booking interactor.
func NewInteractor(
	bookings contracts.BookingRepository,
	groups contracts.GroupRepository,
	outbox contracts.OutboxRepository,
	settings contracts.SettingsRepository,
	cmt *committer.Committer,
	clk clock.Clock,
) *Interactor {
	return &Interactor{
		bookings:  bookings,
		groups:    groups,
		outbox:    outbox,
		settings:  settings,
		committer: cmt,
		clock:     clk,
	}
}

// Execute opens a booking in quote status, reserving the next code of the
// office sequence.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	code, err := i.bookings.NextCode(ctx, req.OfficeID)
	if err != nil {
		return nil, err
	}

	now := i.clock.Now()
	booking, err := domain.NewBooking(uuid.New().String(), code, req.CustomerID, req.CenterID, req.OfficeID, now, i.clock)
	if err != nil {
		return nil, err
	}
	defer booking.ClearEvents()

	plan := committer.NewPlan()
	plan.Add(i.bookings.InsertMut(booking))

	if req.GroupName != "" {
		checkin, err := i.settings.CheckinTime(ctx, req.CenterID)
		if err != nil {
			return nil, err
		}
		checkout, err := i.settings.CheckoutTime(ctx, req.CenterID)
		if err != nil {
			return nil, err
		}

		group, err := domain.NewBookingLineGroup(
			uuid.New().String(), booking.ID(), req.GroupName,
			domain.GroupType(req.GroupType), req.DateFrom,
			checkin, checkout, req.RateClass, i.clock,
		)
		if err != nil {
			return nil, err
		}
		plan.AddMultiple(i.groups.InsertMut(group))
	}

	for _, event := range booking.DomainEvents() {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outbox.InsertMut(i.outbox.EnrichEvent(event, string(payload))))
	}

	if err := i.committer.Apply(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to commit booking creation: %w", err)
	}

	return &Response{
		BookingID:  booking.ID(),
		Code:       booking.Code(),
		PaymentRef: booking.PaymentRef(),
	}, nil
}
