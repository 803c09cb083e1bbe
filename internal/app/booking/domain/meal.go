package domain

import "time"

// BookingMeal pins down the type and place of one meal moment of a group.
// The consumption scheduler attaches the matching record to generated meal
// entries.
type BookingMeal struct {
	ID      string
	GroupID string
	Date    time.Time
	Moment  TimeSlotMoment
	Type    string
	Place   string
}

// MealPreference is a dietary breakdown declared for a group (vegetarian,
// allergies, ...). Preferences feed the descriptive metadata of meal
// consumptions.
type MealPreference struct {
	ID      string
	GroupID string
	Type    string
	Qty     int
}
