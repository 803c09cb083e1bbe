package e2e

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/iterator"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/usecases/set_line_product"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_age_ranges"
	"github.com/discope/booking-service/internal/app/booking/usecases/update_group_dates"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/tests/testutil"
)

// TestManualAssignmentSurvivesReplan verifies that an office running with
// manual unit assignment keeps its existing assignments through further
// recomputes: the replan must not wipe rows the allocator never rebuilt.
func TestManualAssignmentSurvivesReplan(t *testing.T) {
	services, cleanup := setupTest(t, clock.NewRealClock())
	defer cleanup()

	ctx := context.Background()

	testutil.SeedCheckTimes(t, services.Client, "center-1", "50400", "36000")
	fixture := testutil.CreateTestProduct(t, services.Client, testutil.ProductSpec{
		Name:             "Dorm night",
		AccountingMethod: "person",
		IsAccommodation:  true,
		IsRentalUnit:     true,
		Capacity:         4,
		Amount:           95,
		VatRate:          0.1,
		CenterID:         "center-1",
		CategoryID:       "cat-dorm",
	})
	testutil.CreateTestRentalUnit(t, services.Client, "center-1", "cat-dorm", 4)
	adultRange := testutil.CreateTestAgeRange(t, services.Client, "Adults", 18, 99, false)

	dateFrom := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)

	created, err := services.CreateBooking.Execute(ctx, NewBookingBuilder().
		WithSojourn("Autumn stay", dateFrom).
		Build())
	require.NoError(t, err)

	booking := fetchBooking(t, services, created.BookingID)
	groupID := booking.Groups[0].GroupID

	err = services.UpdateDates.Execute(ctx, &update_group_dates.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		DateFrom:  dateFrom,
		DateTo:    dateFrom.AddDate(0, 0, 3),
		TimeFrom:  domain.DefaultCheckinTime,
		TimeTo:    domain.DefaultCheckoutTime,
	})
	require.NoError(t, err)

	err = services.UpdateAges.Execute(ctx, &update_age_ranges.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		Ranges:    []update_age_ranges.RangeInput{{AgeRangeID: adultRange, Qty: 2}},
	})
	require.NoError(t, err)

	err = services.SetProduct.Execute(ctx, &set_line_product.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		ProductID: fixture.ProductID,
	})
	require.NoError(t, err)

	before := fetchAssignments(t, services.Client, groupID)
	require.Len(t, before, 1, "the allocator assigned a unit")

	// From here on the office assigns units by hand.
	testutil.SeedOfficePreferences(t, services.Client, "office-1", true, false)

	// A date change recomputes everything but skips reallocation.
	err = services.UpdateDates.Execute(ctx, &update_group_dates.Request{
		BookingID: created.BookingID,
		GroupID:   groupID,
		DateFrom:  dateFrom,
		DateTo:    dateFrom.AddDate(0, 0, 4),
		TimeFrom:  domain.DefaultCheckinTime,
		TimeTo:    domain.DefaultCheckoutTime,
	})
	require.NoError(t, err)

	after := fetchAssignments(t, services.Client, groupID)
	require.Len(t, after, 1, "the manual assignment survives the replan")
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[0].RentalUnitID, after[0].RentalUnitID)
}

type assignmentRow struct {
	ID           string
	RentalUnitID string
}

func fetchAssignments(t *testing.T, client *spanner.Client, groupID string) []assignmentRow {
	t.Helper()

	stmt := spanner.Statement{
		SQL: "SELECT assignment_id, rental_unit_id FROM rental_unit_assignments " +
			"WHERE group_id = @group_id ORDER BY assignment_id",
		Params: map[string]interface{}{"group_id": groupID},
	}

	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	var out []assignmentRow
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		require.NoError(t, err)

		var a assignmentRow
		require.NoError(t, row.Columns(&a.ID, &a.RentalUnitID))
		out = append(out, a)
	}
	return out
}
