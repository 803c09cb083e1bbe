package domain

// CenterOfficePreferences are the per-office feature flags consulted by
// the engines.
type CenterOfficePreferences struct {
	OfficeID string

	// RentalUnitsManualAssignment disables automatic reallocation; units
	// are only ever assigned by hand.
	RentalUnitsManualAssignment bool

	// FreebiesManualAssignment suppresses automatic freebie discounts.
	FreebiesManualAssignment bool
}

// Default schedule settings applied when a center does not override them.
const (
	DefaultCheckinTime  TimeOfDay = 14 * 3600
	DefaultCheckoutTime TimeOfDay = 10 * 3600
)
