package domain

import (
	"fmt"
	"time"
)

// ConsumptionType qualifies one planning entry.
type ConsumptionType string

const (
	// ConsumptionBook is actual occupancy or service delivery.
	ConsumptionBook ConsumptionType = "book"
	// ConsumptionLink fully blocks a unit structurally tied to a booked one.
	ConsumptionLink ConsumptionType = "link"
	// ConsumptionPart advisory-blocks a partially rentable ancestor unit.
	ConsumptionPart ConsumptionType = "part"
	// ConsumptionOOO takes a unit out of order, independent of bookings.
	ConsumptionOOO ConsumptionType = "ooo"
)

// Consumption is one day-and-time-slot entry of the planning. The set of
// consumptions of a group is ephemeral: it is deleted and regenerated
// whenever the generating group or lines change.
type Consumption struct {
	ID        string
	BookingID string
	CenterID  string
	GroupID   string
	LineID    string

	Type ConsumptionType

	Date         time.Time
	ScheduleFrom TimeOfDay
	ScheduleTo   TimeOfDay

	RentalUnitID string
	ProductID    string
	ProductModelID string

	IsAccommodation bool
	IsMeal          bool

	Qty int

	// Description carries the meal metadata (age-range and preference
	// breakdown) or the activity label.
	Description string

	// Overridable user fields, kept across regenerations by id match only
	// when explicitly copied by the scheduler caller.
	Disclaimed bool
}

// ContentKey is a deterministic identity of the entry ignoring the
// generated id, used to compare regenerated sets.
func (c Consumption) ContentKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d|%d|%s|%s|%d|%t|%s",
		c.GroupID, c.LineID, c.Type, c.RentalUnitID, c.ProductID,
		c.ScheduleFrom, c.ScheduleTo, c.Date.Format("2006-01-02"),
		c.ProductModelID, c.Qty, c.IsAccommodation, c.Description)
}

// TimeRange anchors the schedule window on the entry date.
func (c Consumption) TimeRange() (time.Time, time.Time) {
	return c.ScheduleFrom.At(c.Date), c.ScheduleTo.At(c.Date)
}

// BookedPeriod is an occupied span of a rental unit, as read back from
// existing consumptions and assignments when scanning for availability.
type BookedPeriod struct {
	RentalUnitID string
	From         time.Time
	To           time.Time
}
