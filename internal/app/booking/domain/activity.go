package domain

import (
	"sort"
	"time"
)

// BookingActivity groups the lines that jointly represent one schedulable
// activity occurrence: the main line plus virtual sibling occurrences for
// full-day or multi-day activities, and linked transport or supply lines.
type BookingActivity struct {
	ID       string
	GroupID  string
	LineID   string

	ProductModelID string

	ActivityDate time.Time
	TimeSlotID   string
	Moment       TimeSlotMoment

	EmployeeID   string
	ProviderIDs  []string
	RentalUnitID string

	// IsVirtual marks sibling occurrences generated for full-day or
	// multi-day activities.
	IsVirtual bool

	// Counter is the ordinal position among same-product-model activities
	// of the group; CounterTotal the size of that set.
	Counter      int
	CounterTotal int
}

// momentOrder fixes the intra-day ordering of activity moments.
var momentOrder = map[TimeSlotMoment]int{
	MomentMorning:   0,
	MomentLunch:     1,
	MomentAfternoon: 2,
	MomentDiner:     3,
	MomentEvening:   4,
}

// RefreshActivityCounters renumbers the activities of a group per product
// model, ordered by date then moment. Must be re-run whenever an activity
// date or time slot changes.
func RefreshActivityCounters(activities []*BookingActivity) {
	byModel := make(map[string][]*BookingActivity)
	for _, a := range activities {
		byModel[a.ProductModelID] = append(byModel[a.ProductModelID], a)
	}
	for _, group := range byModel {
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].ActivityDate.Equal(group[j].ActivityDate) {
				return group[i].ActivityDate.Before(group[j].ActivityDate)
			}
			return momentOrder[group[i].Moment] < momentOrder[group[j].Moment]
		})
		for i, a := range group {
			a.Counter = i + 1
			a.CounterTotal = len(group)
		}
	}
}

// ValidateActivityMoment rejects schedule positions that cannot host the
// activity: full-day activities must sit on AM or PM, and two activities
// of a group cannot share the same date and moment.
func ValidateActivityMoment(candidate *BookingActivity, siblings []*BookingActivity, isFullDay bool) error {
	if isFullDay && candidate.Moment != MomentMorning && candidate.Moment != MomentAfternoon {
		return FieldErrors{"time_slot_id": "full-day activity must use an AM or PM slot"}
	}
	for _, s := range siblings {
		if s.ID == candidate.ID {
			continue
		}
		if s.ActivityDate.Equal(candidate.ActivityDate) && s.Moment == candidate.Moment {
			return FieldErrors{"time_slot_id": "moment conflicts with another activity"}
		}
	}
	return nil
}
