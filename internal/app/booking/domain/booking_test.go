package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/pkg/clock"
)

func newTestBooking(t *testing.T, status BookingStatus) *Booking {
	t.Helper()
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))
	now := clk.Now()
	return ReconstructBooking(
		"bkg-1", 42,
		"cust-1", "center-1", "office-1",
		status,
		now, now.AddDate(0, 0, 5),
		0, 0,
		false, false, false, false,
		PaymentReference(42),
		now, now,
		clk,
	)
}

func TestNewBooking(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))

	t.Run("starts as a quote with a payment reference", func(t *testing.T) {
		b, err := NewBooking("bkg-1", 42, "cust-1", "center-1", "office-1", clk.Now(), clk)
		require.NoError(t, err)

		assert.Equal(t, StatusQuote, b.Status())
		assert.Equal(t, PaymentReference(42), b.PaymentRef())

		events := b.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "booking.created", events[0].EventType())
	})

	t.Run("requires a customer and a center", func(t *testing.T) {
		_, err := NewBooking("bkg-1", 42, "", "center-1", "office-1", clk.Now(), clk)
		var fe FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "customer_id")

		_, err = NewBooking("bkg-1", 42, "cust-1", "", "office-1", clk.Now(), clk)
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "center_id")
	})
}

func TestBooking_TransitionTo(t *testing.T) {
	t.Run("follows the allowed path", func(t *testing.T) {
		b := newTestBooking(t, StatusQuote)

		require.NoError(t, b.TransitionTo(StatusOption))
		require.NoError(t, b.TransitionTo(StatusConfirmed))
		require.NoError(t, b.TransitionTo(StatusValidated))
		require.NoError(t, b.TransitionTo(StatusCheckedIn))
		require.NoError(t, b.TransitionTo(StatusCheckedOut))
		require.NoError(t, b.TransitionTo(StatusInvoiced))
		require.NoError(t, b.TransitionTo(StatusBalanced))
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		b := newTestBooking(t, StatusQuote)
		err := b.TransitionTo(StatusInvoiced)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, StatusQuote, b.Status())
	})

	t.Run("option can fall back to quote", func(t *testing.T) {
		b := newTestBooking(t, StatusOption)
		require.NoError(t, b.TransitionTo(StatusQuote))
	})

	t.Run("records a status change event", func(t *testing.T) {
		b := newTestBooking(t, StatusQuote)
		require.NoError(t, b.TransitionTo(StatusConfirmed))

		events := b.DomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "booking.status_changed", events[0].EventType())
	})
}

func TestBooking_ReviewFundings(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("advances to validated once overdue fundings are paid", func(t *testing.T) {
		b := newTestBooking(t, StatusConfirmed)
		fundings := []Funding{
			{ID: "f-1", DueDate: now.AddDate(0, 0, -10), Amount: 500, IsPaid: true},
			{ID: "f-2", DueDate: now.AddDate(0, 0, 30), Amount: 500, IsPaid: false},
		}

		assert.True(t, b.ReviewFundings(fundings, now))
		assert.Equal(t, StatusValidated, b.Status())
	})

	t.Run("stays confirmed while an overdue funding is unpaid", func(t *testing.T) {
		b := newTestBooking(t, StatusConfirmed)
		fundings := []Funding{
			{ID: "f-1", DueDate: now.AddDate(0, 0, -10), Amount: 500, IsPaid: false},
		}

		assert.False(t, b.ReviewFundings(fundings, now))
		assert.Equal(t, StatusConfirmed, b.Status())
	})

	t.Run("only applies to confirmed bookings", func(t *testing.T) {
		b := newTestBooking(t, StatusQuote)
		assert.False(t, b.ReviewFundings(nil, now))
		assert.Equal(t, StatusQuote, b.Status())
	})
}

func TestBooking_CanDelete(t *testing.T) {
	t.Run("quotes can be deleted", func(t *testing.T) {
		b := newTestBooking(t, StatusQuote)
		assert.NoError(t, b.CanDelete())
	})

	t.Run("non-quotes are protected", func(t *testing.T) {
		b := newTestBooking(t, StatusConfirmed)
		assert.ErrorIs(t, b.CanDelete(), ErrBookingNotQuote)
	})

	t.Run("channel imports are protected", func(t *testing.T) {
		clk := clock.NewMockClock(time.Now().UTC())
		b := ReconstructBooking("bkg-1", 1, "cust-1", "center-1", "office-1",
			StatusQuote, time.Time{}, time.Time{}, 0, 0,
			false, false, true, false, "", time.Time{}, time.Time{}, clk)
		assert.ErrorIs(t, b.CanDelete(), ErrBookingFromChannel)
	})
}

func TestBooking_SetCustomer(t *testing.T) {
	t.Run("locked booking keeps its customer", func(t *testing.T) {
		b := newTestBooking(t, StatusConfirmed)
		b.Lock()

		err := b.SetCustomer("cust-2")
		var fe FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "cust-1", b.CustomerID())
	})
}

func TestPaymentReference(t *testing.T) {
	t.Run("control digits follow the mod 97 rule", func(t *testing.T) {
		ref := PaymentReference(1)
		// (76 x 150 + 1) mod 97 = 52
		assert.Equal(t, "150000000152", ref)
	})

	t.Run("zero control maps to 97", func(t *testing.T) {
		// Find a code whose raw control is 0: (11400 + code) mod 97 == 0.
		code := int64(97*118 - 11400) // 46
		ref := PaymentReference(code)
		assert.Equal(t, "97", ref[10:])
	})

	t.Run("display form wraps with the structured pattern", func(t *testing.T) {
		assert.Equal(t, "+++150/0000/00152+++", FormatPaymentReference(PaymentReference(1)))
	})
}
