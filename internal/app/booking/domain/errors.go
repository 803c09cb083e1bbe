package domain

import "errors"

// Domain errors as sentinel values
var (
	// ErrNotFound is the generic lookup miss for catalog entities that
	// have no dedicated sentinel.
	ErrNotFound = errors.New("entity not found")

	// Booking errors
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingNotQuote      = errors.New("booking can only be deleted while in quote status")
	ErrBookingLocked        = errors.New("booking is locked by an emitted contract")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrBookingFromChannel   = errors.New("booking originates from an external channel and cannot be deleted")
	ErrCustomerChangeLocked = errors.New("cannot change customer after contract emission")

	// Group errors
	ErrGroupNotFound    = errors.New("booking line group not found")
	ErrInvalidDateRange = errors.New("group end date must not precede start date")
	ErrGroupLocked      = errors.New("group is locked")
	ErrInvalidAgeRange  = errors.New("age range assignment quantity must be positive")
	ErrUnknownGroupType = errors.New("unknown group type")

	// Line errors
	ErrLineNotFound       = errors.New("booking line not found")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrInvalidQuantity    = errors.New("quantity must not be negative")
	ErrActivitySlotNeeded = errors.New("full-day activity must use an AM or PM slot")
	ErrActivityConflict   = errors.New("moment conflicts with another activity")

	// Allocation errors
	ErrNoAvailability = errors.New("no rental unit availability for the requested capacity")

	// Pricing errors
	ErrPriceNotFound = errors.New("no applicable price found")
)

// FieldErrors maps a field name to a human-readable rejection reason.
// Pre-condition checks return these instead of opaque errors so callers
// can surface per-field messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	for field, reason := range fe {
		return field + ": " + reason
	}
	return "validation failed"
}

// HasErrors returns true when at least one field was rejected.
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}
