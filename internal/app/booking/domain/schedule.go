package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a moment within a day expressed as seconds since midnight.
// Check-in and check-out times, schedule windows and time-slot boundaries
// all use this representation.
type TimeOfDay int

const (
	Midnight   TimeOfDay = 0
	EndOfDay   TimeOfDay = 24 * 3600
	SecondsDay           = 24 * 3600
)

// At anchors the time of day on a calendar date (UTC).
func (t TimeOfDay) At(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return d.Add(time.Duration(t) * time.Second)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/3600, (int(t)%3600)/60)
}

// ParseTimeOfDay reads an "HH:MM" clock value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(s, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 || (hours == 24 && minutes != 0) {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay(hours*3600 + minutes*60), nil
}

// TimeSlotMoment identifies a named portion of the day used to schedule
// activities and meals.
type TimeSlotMoment string

const (
	MomentMorning   TimeSlotMoment = "AM"
	MomentLunch     TimeSlotMoment = "L"
	MomentAfternoon TimeSlotMoment = "PM"
	MomentDiner     TimeSlotMoment = "D"
	MomentEvening   TimeSlotMoment = "EV"
)

// TimeSlot is a configured schedule window for a moment of the day.
type TimeSlot struct {
	ID     string
	Moment TimeSlotMoment
	Name   string
	Order  int
	From   TimeOfDay
	To     TimeOfDay
}

// Overlaps reports whether two half-open time ranges intersect.
// Touching ranges do not conflict: a checkout at the exact moment of
// another booking's checkin leaves the unit free.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	maxFrom := aFrom
	if bFrom.After(maxFrom) {
		maxFrom = bFrom
	}
	minTo := aTo
	if bTo.Before(minTo) {
		minTo = bTo
	}
	return maxFrom.Before(minTo)
}

// DaysBetween counts whole days from one date to another, ignoring the
// time-of-day component of both.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f) / (24 * time.Hour))
}
