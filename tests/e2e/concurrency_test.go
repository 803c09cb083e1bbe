package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/usecases/update_group_dates"
	"github.com/discope/booking-service/internal/pkg/clock"
	"github.com/discope/booking-service/internal/pkg/committer"
	"github.com/discope/booking-service/tests/testutil"
)

// TestConcurrentGroupDateChanges runs two date changes on the same booking
// at once. The center lock serializes the allocation section and the
// version check rejects the write planned against the stale snapshot, so
// at most one wins per loaded version; a conflict surfaces as
// ErrVersionConflict and never as a partial write.
func TestConcurrentGroupDateChanges(t *testing.T) {
	services, cleanup := setupTest(t, clock.NewRealClock())
	defer cleanup()

	ctx := context.Background()

	testutil.SeedCheckTimes(t, services.Client, "center-1", "50400", "36000")
	dateFrom := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	created, err := services.CreateBooking.Execute(ctx, NewBookingBuilder().
		WithSojourn("Race window", dateFrom).
		Build())
	require.NoError(t, err)

	booking := fetchBooking(t, services, created.BookingID)
	require.Len(t, booking.Groups, 1)
	groupID := booking.Groups[0].GroupID

	request := func(nights int) *update_group_dates.Request {
		return &update_group_dates.Request{
			BookingID: created.BookingID,
			GroupID:   groupID,
			DateFrom:  dateFrom,
			DateTo:    dateFrom.AddDate(0, 0, nights),
		}
	}

	var wg sync.WaitGroup
	var err1, err2 error

	wg.Add(2)
	go func() {
		defer wg.Done()
		err1 = services.UpdateDates.Execute(ctx, request(2))
	}()
	go func() {
		defer wg.Done()
		err2 = services.UpdateDates.Execute(ctx, request(5))
	}()
	wg.Wait()

	if err1 != nil && err2 != nil {
		t.Fatalf("both date changes failed: err1=%v err2=%v", err1, err2)
	}
	for _, raceErr := range []error{err1, err2} {
		if raceErr != nil {
			assert.ErrorIs(t, raceErr, committer.ErrVersionConflict)
		}
	}

	// The surviving window is one of the two requested, never a mix.
	booking = fetchBooking(t, services, created.BookingID)
	dateTo := booking.Groups[0].DateTo.UTC()
	assert.Contains(t, []time.Time{dateFrom.AddDate(0, 0, 2), dateFrom.AddDate(0, 0, 5)}, dateTo)
}
