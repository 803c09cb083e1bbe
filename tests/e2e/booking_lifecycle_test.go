package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/queries/get_booking"
	"github.com/discope/booking-service/internal/app/booking/queries/list_consumptions"
	"github.com/discope/booking-service/internal/app/booking/usecases/delete_booking"
	"github.com/discope/booking-service/internal/app/booking/usecases/set_line_product"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_age_ranges"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_booking_status"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_group_dates"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/tests/testutil"
)

// TestBookingLifecycle drives one booking from quote to confirmed: create
// with a sojourn group, set the stay window and composition, attach an
// accommodation product, then verify the derived totals, the generated
// planning and the status transitions.
func TestBookingLifecycle(t *testing.T) {
	services, cleanup := setupTest(t, clock.NewRealClock())
	defer cleanup()

	ctx := context.Background()

	// Seed the catalog of center-1.
	testutil.SeedCheckTimes(t, services.Client, "center-1", "50400", "36000")
	fixture := testutil.CreateTestProduct(t, services.Client, testutil.ProductSpec{
		Name:             "Standard night",
		AccountingMethod: "person",
		IsAccommodation:  true,
		IsRentalUnit:     true,
		Capacity:         4,
		Amount:           120,
		VatRate:          0.1,
		CenterID:         "center-1",
		CategoryID:       "cat-dorm",
	})
	testutil.CreateTestRentalUnit(t, services.Client, "center-1", "cat-dorm", 4)
	adultRange := testutil.CreateTestAgeRange(t, services.Client, "Adults", 18, 99, false)

	dateFrom := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	// Create the quote with its initial sojourn group.
	created, err := services.CreateBooking.Execute(ctx, NewBookingBuilder().
		WithCustomer("cust-42").
		WithSojourn("Summer stay", dateFrom).
		Build())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Code)
	assert.NotEmpty(t, created.PaymentRef)

	testutil.AssertOutboxEvent(t, services.Client, "booking.created")

	booking := fetchBooking(t, services, created.BookingID)
	require.Len(t, booking.Groups, 1)
	assert.Equal(t, string(domain.StatusQuote), booking.Booking.Status)
	groupID := booking.Groups[0].GroupID

	// Three nights.
	err = services.UpdateDates.Execute(ctx, &update_group_dates.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		DateFrom:  dateFrom,
		DateTo:    dateFrom.AddDate(0, 0, 3),
		TimeFrom:  domain.DefaultCheckinTime,
		TimeTo:    domain.DefaultCheckoutTime,
	})
	require.NoError(t, err)

	// Two adults.
	err = services.UpdateAges.Execute(ctx, &update_age_ranges.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		Ranges:    []update_age_ranges.RangeInput{{AgeRangeID: adultRange, Qty: 2}},
	})
	require.NoError(t, err)

	// Attach the accommodation, the whole cascade replays.
	err = services.SetProduct.Execute(ctx, &set_line_product.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		ProductID: fixture.ProductID,
	})
	require.NoError(t, err)

	booking = fetchBooking(t, services, created.BookingID)
	assert.Equal(t, 2, booking.Groups[0].NbPers)
	assert.Greater(t, booking.Booking.Total, 0.0, "totals follow from the resolved price")
	assert.False(t, booking.Booking.IsPriceTbc)

	// The planning is generated and the unit assigned.
	entries, err := services.ListConsumptions.Execute(ctx, &list_consumptions.Request{BookingID: created.BookingID})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assigned := false
	for _, entry := range entries {
		if entry.RentalUnitID != "" {
			assigned = true
		}
	}
	assert.True(t, assigned, "the accommodation entries carry the allocated unit")

	// quote -> option -> confirmed.
	for _, next := range []domain.BookingStatus{domain.StatusOption, domain.StatusConfirmed} {
		err = services.UpdateStatus.Execute(ctx, &update_booking_status.Request{
			BookingID: created.BookingID,
			Status:    next,
		})
		require.NoError(t, err)
	}

	booking = fetchBooking(t, services, created.BookingID)
	assert.Equal(t, string(domain.StatusConfirmed), booking.Booking.Status)
	testutil.AssertOutboxEvent(t, services.Client, "booking.status_changed")

	// A confirmed booking is no longer deletable.
	err = services.DeleteBooking.Execute(ctx, &delete_booking.Request{BookingID: created.BookingID})
	assert.ErrorIs(t, err, domain.ErrBookingNotQuote)
}

// TestBookingDeletion verifies a quote can be removed and takes its
// children and planning with it.
func TestBookingDeletion(t *testing.T) {
	services, cleanup := setupTest(t, clock.NewRealClock())
	defer cleanup()

	ctx := context.Background()

	created, err := services.CreateBooking.Execute(ctx, NewBookingBuilder().
		WithSojourn("Weekend", time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)).
		Build())
	require.NoError(t, err)

	err = services.DeleteBooking.Execute(ctx, &delete_booking.Request{BookingID: created.BookingID})
	require.NoError(t, err)

	_, err = services.GetBooking.Execute(ctx, &get_booking.Request{BookingID: created.BookingID})
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	testutil.AssertOutboxEvent(t, services.Client, "booking.deleted")
	testutil.AssertRowCount(t, services.Client, "booking_line_groups", 0)
}

// TestStatusTransitionGuard verifies an illegal jump is rejected.
func TestStatusTransitionGuard(t *testing.T) {
	services, cleanup := setupTest(t, clock.NewRealClock())
	defer cleanup()

	ctx := context.Background()

	created, err := services.CreateBooking.Execute(ctx, NewBookingBuilder().Build())
	require.NoError(t, err)

	err = services.UpdateStatus.Execute(ctx, &update_booking_status.Request{
		BookingID: created.BookingID,
		Status:    domain.StatusValidated,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func fetchBooking(t *testing.T, services *Services, bookingID string) *get_booking.Response {
	t.Helper()

	resp, err := services.GetBooking.Execute(context.Background(), &get_booking.Request{BookingID: bookingID})
	require.NoError(t, err)
	return resp
}
