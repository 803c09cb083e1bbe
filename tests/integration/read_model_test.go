//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/repo"
	"github.com/discope/booking-service/tests/testutil"
)

func insertTestBooking(t *testing.T, client *spanner.Client, code int64, centerID string) string {
	t.Helper()

	ctx := context.Background()
	clk := testutil.NewFixedClock(time.Now().UTC())
	bookings := repo.NewBookingRepo(client, clk)

	id := uuid.New().String()
	booking, err := domain.NewBooking(id, code, "cust-1", centerID, "office-1", clk.Now(), clk)
	require.NoError(t, err)

	_, err = client.Apply(ctx, []*spanner.Mutation{bookings.InsertMut(booking)})
	require.NoError(t, err)
	return id
}

func TestReadModel_GetBookingByID(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	bookingID := insertTestBooking(t, client, 1001, "center-1")

	readModel := repo.NewReadModel(client)
	dto, err := readModel.GetBookingByID(ctx, bookingID)
	require.NoError(t, err)

	assert.Equal(t, bookingID, dto.BookingID)
	assert.Equal(t, int64(1001), dto.Code)
	assert.Equal(t, "center-1", dto.CenterID)
	assert.Equal(t, string(domain.StatusQuote), dto.Status)
	assert.Equal(t, 0, dto.GroupCount)
}

func TestReadModel_GetBookingByID_NotFound(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	readModel := repo.NewReadModel(client)
	_, err := readModel.GetBookingByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestReadModel_ListBookings_CenterFilter(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	insertTestBooking(t, client, 1001, "center-1")
	insertTestBooking(t, client, 1002, "center-1")
	insertTestBooking(t, client, 1003, "center-2")

	readModel := repo.NewReadModel(client)

	all, err := readModel.ListBookings(ctx, &contracts.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := readModel.ListBookings(ctx, &contracts.ListFilter{CenterID: "center-1"})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, dto := range filtered {
		assert.Equal(t, "center-1", dto.CenterID)
	}
}

func TestReadModel_ListBookings_PageSize(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		insertTestBooking(t, client, 1000+i, "center-1")
	}

	readModel := repo.NewReadModel(client)
	page, err := readModel.ListBookings(ctx, &contracts.ListFilter{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestReadModel_ListConsumptions_Ordering(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	bookingID := insertTestBooking(t, client, 1001, "center-1")

	consumptions := repo.NewConsumptionRepo(client)
	day1 := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	muts := []*spanner.Mutation{
		consumptions.InsertMut(domain.Consumption{
			ID: uuid.New().String(), BookingID: bookingID, CenterID: "center-1",
			Type: domain.ConsumptionBook, Date: day2,
			ScheduleFrom: domain.DefaultCheckinTime, ScheduleTo: domain.DefaultCheckoutTime,
			Qty: 2,
		}),
		consumptions.InsertMut(domain.Consumption{
			ID: uuid.New().String(), BookingID: bookingID, CenterID: "center-1",
			Type: domain.ConsumptionBook, Date: day1,
			ScheduleFrom: domain.DefaultCheckinTime, ScheduleTo: domain.DefaultCheckoutTime,
			Qty: 2,
		}),
	}
	_, err := client.Apply(ctx, muts)
	require.NoError(t, err)

	readModel := repo.NewReadModel(client)
	entries, err := readModel.ListConsumptions(ctx, bookingID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Returned in planning order, earliest date first.
	assert.Equal(t, day1, entries[0].Date.UTC())
	assert.Equal(t, day2, entries[1].Date.UTC())
}
