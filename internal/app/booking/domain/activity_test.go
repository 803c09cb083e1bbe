package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshActivityCounters(t *testing.T) {
	day1 := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	activities := []*BookingActivity{
		{ID: "act-pm", ProductModelID: "pm-kayak", ActivityDate: day1, Moment: MomentAfternoon},
		{ID: "act-am-2", ProductModelID: "pm-kayak", ActivityDate: day2, Moment: MomentMorning},
		{ID: "act-am-1", ProductModelID: "pm-kayak", ActivityDate: day1, Moment: MomentMorning},
		{ID: "act-other", ProductModelID: "pm-hike", ActivityDate: day2, Moment: MomentAfternoon},
	}

	RefreshActivityCounters(activities)

	byID := make(map[string]*BookingActivity)
	for _, a := range activities {
		byID[a.ID] = a
	}

	assert.Equal(t, 1, byID["act-am-1"].Counter)
	assert.Equal(t, 2, byID["act-pm"].Counter)
	assert.Equal(t, 3, byID["act-am-2"].Counter)
	assert.Equal(t, 3, byID["act-am-1"].CounterTotal)

	// Counters are numbered per product model.
	assert.Equal(t, 1, byID["act-other"].Counter)
	assert.Equal(t, 1, byID["act-other"].CounterTotal)
}

func TestValidateActivityMoment(t *testing.T) {
	day := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	t.Run("full-day activity needs a half-day slot", func(t *testing.T) {
		err := ValidateActivityMoment(&BookingActivity{ID: "act-1", ActivityDate: day, Moment: MomentEvening}, nil, true)
		var fe FieldErrors
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe, "time_slot_id")
	})

	t.Run("same date and moment conflicts with a sibling", func(t *testing.T) {
		sibling := &BookingActivity{ID: "act-1", ActivityDate: day, Moment: MomentMorning}
		candidate := &BookingActivity{ID: "act-2", ActivityDate: day, Moment: MomentMorning}

		err := ValidateActivityMoment(candidate, []*BookingActivity{sibling}, false)
		var fe FieldErrors
		require.ErrorAs(t, err, &fe)
	})

	t.Run("same moment on another day is fine", func(t *testing.T) {
		sibling := &BookingActivity{ID: "act-1", ActivityDate: day, Moment: MomentMorning}
		candidate := &BookingActivity{ID: "act-2", ActivityDate: day.AddDate(0, 0, 1), Moment: MomentMorning}

		assert.NoError(t, ValidateActivityMoment(candidate, []*BookingActivity{sibling}, false))
	})

	t.Run("an activity does not conflict with itself", func(t *testing.T) {
		self := &BookingActivity{ID: "act-1", ActivityDate: day, Moment: MomentMorning}
		assert.NoError(t, ValidateActivityMoment(self, []*BookingActivity{self}, false))
	})
}
