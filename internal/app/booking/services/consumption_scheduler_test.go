package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/clock"
)

func schedulerFixture(t *testing.T) (*ConsumptionScheduler, *fakeCatalog, *fakeRentalUnitCatalog, *fakeSettings) {
	t.Helper()
	catalog := newFakeCatalog()
	units := newFakeRentalUnitCatalog()
	settings := newFakeSettings()
	scheduler := NewConsumptionScheduler(catalog, settings, NewRentalUnitAllocator(units))
	return scheduler, catalog, units, settings
}

func contentKeys(consumptions []domain.Consumption) []string {
	keys := make([]string, len(consumptions))
	for i, c := range consumptions {
		keys[i] = c.ContentKey()
	}
	sort.Strings(keys)
	return keys
}

func TestConsumptionScheduler_OccupancyPass(t *testing.T) {
	ctx := context.Background()
	scheduler, _, units, _ := schedulerFixture(t)
	units.units["u-room"] = domain.RentalUnit{ID: "u-room", CenterID: "center-1", Capacity: 4, IsAccommodation: true}
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	booking := testBooking(t, clk)
	group := testGroup(t, domain.GroupSojourn, 2, []domain.AgeRangeAssignment{
		{ID: "ara-1", AgeRangeID: "adult", Qty: 4},
	})

	in := ScheduleInput{
		Booking: booking,
		Group:   group,
		SPMs: []domain.SojournProductModel{
			{ID: "spm-1", GroupID: group.ID(), ProductModelID: "pm-night", IsAccommodation: true, QtyPers: 4},
		},
		Assignments: []domain.RentalUnitAssignment{
			{ID: "rua-1", GroupID: group.ID(), SPMID: "spm-1", RentalUnitID: "u-room", Qty: 4},
		},
	}

	out, err := scheduler.Generate(ctx, in)
	require.NoError(t, err)

	// Two nights yield three day entries for the one assigned unit.
	require.Len(t, out, 3)

	assert.Equal(t, domain.DefaultCheckinTime, out[0].ScheduleFrom)
	assert.Equal(t, domain.EndOfDay, out[0].ScheduleTo)
	assert.Equal(t, domain.Midnight, out[1].ScheduleFrom)
	assert.Equal(t, domain.EndOfDay, out[1].ScheduleTo)
	assert.Equal(t, domain.Midnight, out[2].ScheduleFrom)
	assert.Equal(t, domain.DefaultCheckoutTime, out[2].ScheduleTo)

	for i, c := range out {
		assert.Equal(t, domain.ConsumptionBook, c.Type)
		assert.Equal(t, "u-room", c.RentalUnitID)
		assert.Equal(t, 4, c.Qty)
		assert.True(t, c.IsAccommodation)
		assert.Equal(t, group.DateFrom().AddDate(0, 0, i), c.Date)
	}
}

func TestConsumptionScheduler_OccupancyBlocksRelatedUnits(t *testing.T) {
	ctx := context.Background()
	scheduler, _, units, _ := schedulerFixture(t)
	units.units["u-building"] = domain.RentalUnit{ID: "u-building", CenterID: "center-1", Capacity: 20, CanPartialRent: true, ChildrenIDs: []string{"u-room"}}
	units.units["u-room"] = domain.RentalUnit{ID: "u-room", CenterID: "center-1", Capacity: 4, ParentID: "u-building"}
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	booking := testBooking(t, clk)
	group := testGroup(t, domain.GroupSojourn, 1, []domain.AgeRangeAssignment{
		{ID: "ara-1", AgeRangeID: "adult", Qty: 4},
	})

	out, err := scheduler.Generate(ctx, ScheduleInput{
		Booking: booking,
		Group:   group,
		SPMs: []domain.SojournProductModel{
			{ID: "spm-1", GroupID: group.ID(), ProductModelID: "pm-night", IsAccommodation: true, QtyPers: 4},
		},
		Assignments: []domain.RentalUnitAssignment{
			{ID: "rua-1", GroupID: group.ID(), SPMID: "spm-1", RentalUnitID: "u-room", Qty: 4},
		},
	})
	require.NoError(t, err)

	// One book plus one part entry per day, two days.
	require.Len(t, out, 4)
	var parts int
	for _, c := range out {
		if c.Type == domain.ConsumptionPart {
			parts++
			assert.Equal(t, "u-building", c.RentalUnitID)
		}
	}
	assert.Equal(t, 2, parts)
}

func TestConsumptionScheduler_ServicePass(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	t.Run("repeatable meal line yields one entry per day with metadata", func(t *testing.T) {
		scheduler, catalog, _, _ := schedulerFixture(t)
		catalog.models["pm-lunch"] = domain.ProductModel{
			ID: "pm-lunch", IsSchedulable: true, IsRepeatable: true, IsMeal: true,
			ScheduleFrom: 12 * 3600, ScheduleTo: 13 * 3600,
		}
		catalog.slots["ts-lunch"] = domain.TimeSlot{ID: "ts-lunch", Moment: domain.MomentLunch, From: 12 * 3600, To: 13 * 3600}

		booking := testBooking(t, clk)
		group := testGroup(t, domain.GroupSojourn, 3, []domain.AgeRangeAssignment{
			{ID: "ara-1", AgeRangeID: "adult", Qty: 4},
		})
		line := domain.NewBookingLine("ln-lunch", booking.ID(), group.ID(), "p-lunch", "pm-lunch", 0, clk)
		line.SetDerivedQty(12) // 4 persons x 3 days
		line.SetServiceSchedule(time.Time{}, "ts-lunch")

		out, err := scheduler.Generate(ctx, ScheduleInput{
			Booking: booking,
			Group:   group,
			Lines:   []*domain.BookingLine{line},
			Models:  map[string]domain.ProductModel{"pm-lunch": catalog.models["pm-lunch"]},
			Meals: []domain.BookingMeal{
				{ID: "m-1", GroupID: group.ID(), Date: group.DateFrom(), Moment: domain.MomentLunch, Type: "hot", Place: "refectory"},
			},
			Preferences: []domain.MealPreference{
				{ID: "mp-1", GroupID: group.ID(), Type: "vegetarian", Qty: 2},
			},
		})
		require.NoError(t, err)

		require.Len(t, out, 3)
		for i, c := range out {
			assert.True(t, c.IsMeal)
			assert.Equal(t, 4, c.Qty)
			assert.Equal(t, group.DateFrom().AddDate(0, 0, i), c.Date)
			assert.Equal(t, domain.TimeOfDay(12*3600), c.ScheduleFrom)
		}
		assert.Contains(t, out[0].Description, "hot (refectory)")
		assert.Contains(t, out[0].Description, "2 x vegetarian")
		assert.Contains(t, out[0].Description, "4 x adult")
		// The pinned meal record only matches the first day.
		assert.NotContains(t, out[1].Description, "hot")
	})

	t.Run("negative offset schedules from the departure day", func(t *testing.T) {
		scheduler, catalog, _, _ := schedulerFixture(t)
		catalog.models["pm-cleanup"] = domain.ProductModel{
			ID: "pm-cleanup", IsSchedulable: true, ScheduleOffset: -1,
			ScheduleFrom: 8 * 3600, ScheduleTo: 10 * 3600,
		}

		booking := testBooking(t, clk)
		group := testGroup(t, domain.GroupSojourn, 3, []domain.AgeRangeAssignment{
			{ID: "ara-1", AgeRangeID: "adult", Qty: 4},
		})
		line := domain.NewBookingLine("ln-clean", booking.ID(), group.ID(), "p-clean", "pm-cleanup", 0, clk)
		line.SetDerivedQty(1)

		out, err := scheduler.Generate(ctx, ScheduleInput{
			Booking: booking,
			Group:   group,
			Lines:   []*domain.BookingLine{line},
			Models:  map[string]domain.ProductModel{"pm-cleanup": catalog.models["pm-cleanup"]},
		})
		require.NoError(t, err)

		require.Len(t, out, 1)
		assert.Equal(t, group.DateTo(), out[0].Date)
	})

	t.Run("zero-quantity days are skipped", func(t *testing.T) {
		scheduler, catalog, _, _ := schedulerFixture(t)
		catalog.models["pm-snack"] = domain.ProductModel{ID: "pm-snack", IsSchedulable: true, IsRepeatable: true}

		booking := testBooking(t, clk)
		group := testGroup(t, domain.GroupSojourn, 3, []domain.AgeRangeAssignment{
			{ID: "ara-1", AgeRangeID: "adult", Qty: 2},
		})
		line := domain.NewBookingLine("ln-snack", booking.ID(), group.ID(), "p-snack", "pm-snack", 0, clk)
		line.SetDerivedQty(6)
		line.SetQtyVars(`[-2,0,0]`)

		out, err := scheduler.Generate(ctx, ScheduleInput{
			Booking: booking,
			Group:   group,
			Lines:   []*domain.BookingLine{line},
			Models:  map[string]domain.ProductModel{"pm-snack": catalog.models["pm-snack"]},
		})
		require.NoError(t, err)

		require.Len(t, out, 2)
		assert.Equal(t, group.DateFrom().AddDate(0, 0, 1), out[0].Date)
		assert.Equal(t, group.DateFrom().AddDate(0, 0, 2), out[1].Date)
	})
}

func TestConsumptionScheduler_ActivityPass(t *testing.T) {
	ctx := context.Background()
	scheduler, catalog, _, _ := schedulerFixture(t)
	catalog.models["pm-kayak"] = domain.ProductModel{ID: "pm-kayak", Name: "Kayak", IsSchedulable: true, IsActivity: true}
	catalog.slots["ts-am"] = domain.TimeSlot{ID: "ts-am", Moment: domain.MomentMorning, From: 9 * 3600, To: 12 * 3600}
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	booking := testBooking(t, clk)
	group := testGroup(t, domain.GroupCamp, 3, []domain.AgeRangeAssignment{
		{ID: "ara-1", AgeRangeID: "child", Qty: 10, IsChildren: true},
	})
	line := domain.NewBookingLine("ln-kayak", booking.ID(), group.ID(), "p-kayak", "pm-kayak", 0, clk)
	line.SetDerivedQty(10)

	activityDate := group.DateFrom().AddDate(0, 0, 1)
	out, err := scheduler.Generate(ctx, ScheduleInput{
		Booking: booking,
		Group:   group,
		Lines:   []*domain.BookingLine{line},
		Models:  map[string]domain.ProductModel{"pm-kayak": catalog.models["pm-kayak"]},
		Activities: []*domain.BookingActivity{
			{ID: "act-1", GroupID: group.ID(), LineID: "ln-kayak", ProductModelID: "pm-kayak",
				ActivityDate: activityDate, TimeSlotID: "ts-am", Moment: domain.MomentMorning},
		},
	})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, activityDate, out[0].Date)
	assert.Equal(t, domain.TimeOfDay(9*3600), out[0].ScheduleFrom)
	assert.Equal(t, domain.TimeOfDay(12*3600), out[0].ScheduleTo)
	assert.Equal(t, 10, out[0].Qty)
	assert.Equal(t, "Kayak", out[0].Description)
}

func TestConsumptionScheduler_Idempotence(t *testing.T) {
	ctx := context.Background()
	scheduler, catalog, units, _ := schedulerFixture(t)
	units.units["u-room"] = domain.RentalUnit{ID: "u-room", CenterID: "center-1", Capacity: 4, IsAccommodation: true}
	catalog.models["pm-lunch"] = domain.ProductModel{ID: "pm-lunch", IsSchedulable: true, IsRepeatable: true, IsMeal: true, ScheduleFrom: 12 * 3600, ScheduleTo: 13 * 3600}
	clk := clock.NewMockClock(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))

	booking := testBooking(t, clk)
	group := testGroup(t, domain.GroupSojourn, 2, []domain.AgeRangeAssignment{
		{ID: "ara-1", AgeRangeID: "adult", Qty: 4},
	})
	line := domain.NewBookingLine("ln-lunch", booking.ID(), group.ID(), "p-lunch", "pm-lunch", 0, clk)
	line.SetDerivedQty(8)

	in := ScheduleInput{
		Booking: booking,
		Group:   group,
		Lines:   []*domain.BookingLine{line},
		Models:  map[string]domain.ProductModel{"pm-lunch": catalog.models["pm-lunch"]},
		SPMs: []domain.SojournProductModel{
			{ID: "spm-1", GroupID: group.ID(), ProductModelID: "pm-night", IsAccommodation: true, QtyPers: 4},
		},
		Assignments: []domain.RentalUnitAssignment{
			{ID: "rua-1", GroupID: group.ID(), SPMID: "spm-1", RentalUnitID: "u-room", Qty: 4},
		},
	}

	first, err := scheduler.Generate(ctx, in)
	require.NoError(t, err)
	second, err := scheduler.Generate(ctx, in)
	require.NoError(t, err)

	// Ids differ between runs but the content-level identity must not.
	assert.Equal(t, contentKeys(first), contentKeys(second))
}
