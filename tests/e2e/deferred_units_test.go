package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/queries/list_consumptions"
	"github.com/discope/booking-service/internal/app/booking/usecases/set_line_product"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_age_ranges"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_group_dates"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/tests/testutil"
)

// TestDeferredUnitAssignment exhausts the center's units so the
// allocation soft-fails, then frees capacity and lets the scheduled
// check re-run the allocation.
func TestDeferredUnitAssignment(t *testing.T) {
	mockClock := clock.NewMockClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	services, cleanup := setupTest(t, mockClock)
	defer cleanup()

	ctx := context.Background()

	testutil.SeedCheckTimes(t, services.Client, "center-1", "50400", "36000")
	fixture := testutil.CreateTestProduct(t, services.Client, testutil.ProductSpec{
		Name:             "Dorm night",
		AccountingMethod: "person",
		IsAccommodation:  true,
		IsRentalUnit:     true,
		Capacity:         4,
		Amount:           80,
		CenterID:         "center-1",
		CategoryID:       "cat-dorm",
	})
	adultRange := testutil.CreateTestAgeRange(t, services.Client, "Adults", 18, 99, false)

	dateFrom := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	created, err := services.CreateBooking.Execute(ctx, NewBookingBuilder().
		WithSojourn("Overbooked stay", dateFrom).
		Build())
	require.NoError(t, err)

	booking := fetchBooking(t, services, created.BookingID)
	groupID := booking.Groups[0].GroupID

	require.NoError(t, services.UpdateDates.Execute(ctx, &update_group_dates.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		DateFrom:  dateFrom,
		DateTo:    dateFrom.AddDate(0, 0, 2),
	}))
	require.NoError(t, services.UpdateAges.Execute(ctx, &update_age_ranges.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		Ranges:    []update_age_ranges.RangeInput{{AgeRangeID: adultRange, Qty: 2}},
	}))

	// No unit of cat-dorm exists yet: the product attaches, the planning
	// generates, but nothing is assigned.
	require.NoError(t, services.SetProduct.Execute(ctx, &set_line_product.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		ProductID: fixture.ProductID,
	}))

	entries, err := services.ListConsumptions.Execute(ctx, &list_consumptions.Request{BookingID: created.BookingID})
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.Empty(t, entry.RentalUnitID, "no unit can be assigned while the center is full")
	}

	testutil.AssertRowCount(t, services.Client, "scheduled_tasks", 1)
	testutil.AssertOutboxEvent(t, services.Client, "booking.units_unassigned")

	// Capacity shows up before the deferred check fires.
	testutil.CreateTestRentalUnit(t, services.Client, "center-1", "cat-dorm", 4)
	mockClock.Advance(16 * time.Minute)

	result, err := services.CheckUnits.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Resolved)
	testutil.AssertRowCount(t, services.Client, "scheduled_tasks", 0)

	entries, err = services.ListConsumptions.Execute(ctx, &list_consumptions.Request{BookingID: created.BookingID})
	require.NoError(t, err)
	assigned := false
	for _, entry := range entries {
		if entry.RentalUnitID != "" {
			assigned = true
		}
	}
	assert.True(t, assigned, "the re-run allocation picks up the new unit")
}
