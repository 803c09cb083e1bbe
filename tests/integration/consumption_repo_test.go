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

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/app/booking/repo"
	"github.com/discope/booking-service/tests/testutil"
)

func insertTestGroup(t *testing.T, client *spanner.Client, bookingID string, dateFrom time.Time) string {
	t.Helper()

	ctx := context.Background()
	clk := testutil.NewFixedClock(time.Now().UTC())
	groups := repo.NewGroupRepo(client, clk)

	group, err := domain.NewBookingLineGroup(
		uuid.New().String(), bookingID, "Test group", domain.GroupSojourn,
		dateFrom, domain.DefaultCheckinTime, domain.DefaultCheckoutTime, "", clk,
	)
	require.NoError(t, err)

	_, err = client.Apply(ctx, groups.InsertMut(group))
	require.NoError(t, err)
	return group.ID()
}

func TestConsumptionRepository_MealsByGroup(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	dateFrom := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	bookingID := insertTestBooking(t, client, 1001, "center-1")
	groupID := insertTestGroup(t, client, bookingID, dateFrom)

	// Out of order on purpose, the read comes back by date.
	testutil.CreateTestMeal(t, client, groupID, dateFrom.AddDate(0, 0, 1), "AM", "breakfast", "")
	testutil.CreateTestMeal(t, client, groupID, dateFrom, "lunch", "hot", "main hall")

	consumptions := repo.NewConsumptionRepo(client)
	meals, err := consumptions.MealsByGroup(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, meals, 2)

	assert.Equal(t, dateFrom, meals[0].Date.UTC())
	assert.Equal(t, domain.TimeSlotMoment("lunch"), meals[0].Moment)
	assert.Equal(t, "hot", meals[0].Type)
	assert.Equal(t, "main hall", meals[0].Place)
	assert.Equal(t, dateFrom.AddDate(0, 0, 1), meals[1].Date.UTC())
}

func TestConsumptionRepository_ReplaceForGroup(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	dateFrom := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)

	bookingID := insertTestBooking(t, client, 1001, "center-1")
	groupID := insertTestGroup(t, client, bookingID, dateFrom)

	consumptions := repo.NewConsumptionRepo(client)
	entry := domain.Consumption{
		ID: uuid.New().String(), BookingID: bookingID, CenterID: "center-1", GroupID: groupID,
		Type: domain.ConsumptionBook, Date: dateFrom,
		ScheduleFrom: domain.DefaultCheckinTime, ScheduleTo: domain.DefaultCheckoutTime,
		Qty: 2, IsAccommodation: true,
	}
	_, err := client.Apply(ctx, []*spanner.Mutation{consumptions.InsertMut(entry)})
	require.NoError(t, err)

	entries, err := consumptions.ListByGroup(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ConsumptionBook, entries[0].Type)
	assert.True(t, entries[0].IsAccommodation)
}
