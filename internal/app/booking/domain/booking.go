package domain

import (
	"fmt"
	"time"

	"github.com/discope/booking-service/internal/pkg/clock"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusQuote         BookingStatus = "quote"
	StatusOption        BookingStatus = "option"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusValidated     BookingStatus = "validated"
	StatusCheckedIn     BookingStatus = "checkedin"
	StatusCheckedOut    BookingStatus = "checkedout"
	StatusInvoiced      BookingStatus = "invoiced"
	StatusDebitBalance  BookingStatus = "debit_balance"
	StatusCreditBalance BookingStatus = "credit_balance"
	StatusBalanced      BookingStatus = "balanced"
)

// allowedTransitions lists the reachable statuses from each state.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusQuote:         {StatusOption, StatusConfirmed},
	StatusOption:        {StatusQuote, StatusConfirmed},
	StatusConfirmed:     {StatusValidated, StatusCheckedIn},
	StatusValidated:     {StatusCheckedIn},
	StatusCheckedIn:     {StatusCheckedOut},
	StatusCheckedOut:    {StatusInvoiced},
	StatusInvoiced:      {StatusDebitBalance, StatusCreditBalance, StatusBalanced},
	StatusDebitBalance:  {StatusBalanced},
	StatusCreditBalance: {StatusBalanced},
}

// paymentRefPrefix is the fixed prefix of the Belgian structured
// communication used as payment reference.
const paymentRefPrefix = 150

// Funding is an expected payment installment of a booking.
type Funding struct {
	ID        string
	BookingID string
	DueDate   time.Time
	Amount    float64
	IsPaid    bool
}

// Booking is the root aggregate of a reservation file. Date span, totals
// and the TBC flag are derived from the owned groups and lines; the
// aggregate only stores the last computed values.
type Booking struct {
	id         string
	code       int64
	customerID string
	centerID   string
	officeID   string
	status     BookingStatus

	dateFrom time.Time
	dateTo   time.Time

	total      float64
	price      float64
	isPriceTbc bool

	// isLocked is set once a contract has been emitted; afterwards prices
	// of existing products are copied rather than re-resolved.
	isLocked bool

	// isFromChannel marks bookings imported from an external channel
	// manager; those are never deleted locally.
	isFromChannel bool

	isCancelled bool

	paymentRef string

	createdAt time.Time
	updatedAt time.Time

	clock   clock.Clock
	changes *ChangeTracker
	events  []DomainEvent
}

// NewBooking creates a booking in quote status. The numeric code comes
// from the center office sequence and determines the payment reference.
func NewBooking(id string, code int64, customerID, centerID, officeID string, now time.Time, clk clock.Clock) (*Booking, error) {
	if customerID == "" {
		return nil, FieldErrors{"customer_id": "a customer is required"}
	}
	if centerID == "" {
		return nil, FieldErrors{"center_id": "a center is required"}
	}

	b := &Booking{
		id:         id,
		code:       code,
		customerID: customerID,
		centerID:   centerID,
		officeID:   officeID,
		status:     StatusQuote,
		paymentRef: PaymentReference(code),
		createdAt:  now,
		updatedAt:  now,
		clock:      clk,
		changes:    NewChangeTracker(),
	}
	b.changes.MarkDirty(FieldStatus, FieldCustomer, FieldPaymentRef)
	b.recordEvent(&BookingCreatedEvent{
		BookingID:  id,
		Code:       code,
		CustomerID: customerID,
		CenterID:   centerID,
		CreatedAt:  now,
	})
	return b, nil
}

// ReconstructBooking reconstitutes a booking loaded from storage.
func ReconstructBooking(
	id string, code int64,
	customerID, centerID, officeID string,
	status BookingStatus,
	dateFrom, dateTo time.Time,
	total, price float64,
	isPriceTbc, isLocked, isFromChannel, isCancelled bool,
	paymentRef string,
	createdAt, updatedAt time.Time,
	clk clock.Clock,
) *Booking {
	return &Booking{
		id: id, code: code,
		customerID: customerID, centerID: centerID, officeID: officeID,
		status:   status,
		dateFrom: dateFrom, dateTo: dateTo,
		total: total, price: price,
		isPriceTbc: isPriceTbc, isLocked: isLocked,
		isFromChannel: isFromChannel, isCancelled: isCancelled,
		paymentRef: paymentRef,
		createdAt:  createdAt, updatedAt: updatedAt,
		clock:   clk,
		changes: NewChangeTracker(),
	}
}

// Getters
func (b *Booking) ID() string                  { return b.id }
func (b *Booking) Code() int64                 { return b.code }
func (b *Booking) CustomerID() string          { return b.customerID }
func (b *Booking) CenterID() string            { return b.centerID }
func (b *Booking) OfficeID() string            { return b.officeID }
func (b *Booking) Status() BookingStatus       { return b.status }
func (b *Booking) DateFrom() time.Time         { return b.dateFrom }
func (b *Booking) DateTo() time.Time           { return b.dateTo }
func (b *Booking) Total() float64              { return b.total }
func (b *Booking) Price() float64              { return b.price }
func (b *Booking) IsPriceTbc() bool            { return b.isPriceTbc }
func (b *Booking) IsLocked() bool              { return b.isLocked }
func (b *Booking) IsCancelled() bool           { return b.isCancelled }
func (b *Booking) PaymentRef() string          { return b.paymentRef }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
func (b *Booking) Changes() *ChangeTracker     { return b.changes }
func (b *Booking) DomainEvents() []DomainEvent { return b.events }

// SetCustomer changes the customer. Rejected once a contract exists.
func (b *Booking) SetCustomer(customerID string) error {
	if b.isLocked {
		return FieldErrors{"customer_id": "cannot change customer after contract emission"}
	}
	if customerID == "" {
		return FieldErrors{"customer_id": "a customer is required"}
	}
	b.customerID = customerID
	b.changes.MarkDirty(FieldCustomer)
	return nil
}

// TransitionTo moves the booking along the status machine.
func (b *Booking) TransitionTo(next BookingStatus) error {
	for _, s := range allowedTransitions[b.status] {
		if s == next {
			prev := b.status
			b.status = next
			b.changes.MarkDirty(FieldStatus)
			b.recordEvent(&BookingStatusChangedEvent{
				BookingID: b.id,
				From:      prev,
				To:        next,
				ChangedAt: b.clock.Now(),
			})
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, next)
}

// ReviewFundings auto-advances a confirmed booking to validated once every
// funding with a past due date is paid. Returns true when the transition
// happened.
func (b *Booking) ReviewFundings(fundings []Funding, now time.Time) bool {
	if b.status != StatusConfirmed {
		return false
	}
	for _, f := range fundings {
		if f.DueDate.Before(now) && !f.IsPaid {
			return false
		}
	}
	return b.TransitionTo(StatusValidated) == nil
}

// Cancel flags the booking as cancelled without deleting it.
func (b *Booking) Cancel() {
	if b.isCancelled {
		return
	}
	b.isCancelled = true
	b.changes.MarkDirty(FieldStatus)
}

// Lock marks the booking as covered by an emitted contract.
func (b *Booking) Lock() {
	if b.isLocked {
		return
	}
	b.isLocked = true
	b.changes.MarkDirty(FieldIsLocked)
}

// CanDelete checks the hard deletion guard: only quotes that did not come
// from an external channel may be removed.
func (b *Booking) CanDelete() error {
	if b.status != StatusQuote {
		return ErrBookingNotQuote
	}
	if b.isFromChannel {
		return ErrBookingFromChannel
	}
	return nil
}

// RefreshDateSpan recomputes the derived date span as the min/max over the
// owned groups.
func (b *Booking) RefreshDateSpan(groups []*BookingLineGroup) {
	if len(groups) == 0 {
		return
	}
	from, to := groups[0].DateFrom(), groups[0].DateTo()
	for _, g := range groups[1:] {
		if g.DateFrom().Before(from) {
			from = g.DateFrom()
		}
		if g.DateTo().After(to) {
			to = g.DateTo()
		}
	}
	if !from.Equal(b.dateFrom) {
		b.dateFrom = from
		b.changes.MarkDirty(FieldDateFrom)
	}
	if !to.Equal(b.dateTo) {
		b.dateTo = to
		b.changes.MarkDirty(FieldDateTo)
	}
}

// RefreshTotals recomputes the derived sums from the owned groups.
func (b *Booking) RefreshTotals(groups []*BookingLineGroup) {
	var total, price float64
	tbc := false
	for _, g := range groups {
		total += g.Total()
		price += g.Price()
		tbc = tbc || g.IsPriceTbc()
	}
	total = Round4(total)
	price = Round2(price)
	if total != b.total {
		b.total = total
		b.changes.MarkDirty(FieldTotal)
	}
	if price != b.price {
		b.price = price
		b.changes.MarkDirty(FieldPrice)
	}
	if tbc != b.isPriceTbc {
		b.isPriceTbc = tbc
		b.changes.MarkDirty(FieldIsPriceTbc)
	}
}

func (b *Booking) recordEvent(event DomainEvent) {
	b.events = append(b.events, event)
}

// ClearEvents drops recorded events after they have been published.
func (b *Booking) ClearEvents() {
	b.events = nil
}

// RecordEvent attaches an externally built event to the aggregate so it
// flows through the same outbox path as internal ones.
func (b *Booking) RecordEvent(event DomainEvent) {
	b.recordEvent(event)
}

// PaymentReference computes the Belgian structured communication for a
// booking code: control = ((76 * prefix) + code) mod 97, with 0 mapped to
// 97, rendered as prefix(3) + code(7) + control(2) digits.
func PaymentReference(code int64) string {
	control := ((76 * paymentRefPrefix) + code) % 97
	if control == 0 {
		control = 97
	}
	return fmt.Sprintf("%3d%07d%02d", paymentRefPrefix, code%10000000, control)
}

// FormatPaymentReference renders the display form +++XXX/XXXX/XXXXX+++.
func FormatPaymentReference(ref string) string {
	if len(ref) != 12 {
		return ref
	}
	return "+++" + ref[0:3] + "/" + ref[3:7] + "/" + ref[7:12] + "+++"
}
