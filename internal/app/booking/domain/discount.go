package domain

import "time"

// Operand is one of the booking-derived values a discount condition can
// test. The set is closed; conditions over anything else are rejected at
// load time.
type Operand string

const (
	OperandCountBooking24 Operand = "count_booking_24"
	OperandCountBooking12 Operand = "count_booking_12"
	OperandDuration       Operand = "duration"
	OperandNbPers         Operand = "nb_pers"
	OperandNbChildren     Operand = "nb_children"
	OperandNbAdults       Operand = "nb_adults"
	OperandSeason         Operand = "season"
)

// Operator is a comparison applied between an operand and a condition
// value. Conditions are interpreted with an explicit switch, never by
// evaluating built-up expressions.
type Operator string

const (
	OpGT  Operator = ">"
	OpGTE Operator = ">="
	OpLT  Operator = "<"
	OpLTE Operator = "<="
	OpEQ  Operator = "="
)

// Condition is one (operand, operator, value) test of a discount or
// autosale rule.
type Condition struct {
	Operand  Operand
	Operator Operator
	Value    float64
}

// OperandValues is a snapshot of every operand computed from the booking
// and group context.
type OperandValues map[Operand]float64

// Holds interprets the condition against the snapshot. An operand missing
// from the snapshot fails the condition.
func (c Condition) Holds(values OperandValues) bool {
	v, ok := values[c.Operand]
	if !ok {
		return false
	}
	switch c.Operator {
	case OpGT:
		return v > c.Value
	case OpGTE:
		return v >= c.Value
	case OpLT:
		return v < c.Value
	case OpLTE:
		return v <= c.Value
	case OpEQ:
		return v == c.Value
	default:
		return false
	}
}

// DiscountType distinguishes how a rule modifies the price.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
	DiscountFreebie DiscountType = "freebie"
)

// DiscountList selects the rules applicable for one category over a date
// range. RateMin is always granted; accumulated percent rules are clipped
// at RateMax.
type DiscountList struct {
	ID         string
	Name       string
	CategoryID string
	DateFrom   time.Time
	DateTo     time.Time
	RateMin    float64
	RateMax    float64
}

// Covers reports whether the list applies on the given date.
func (dl DiscountList) Covers(date time.Time) bool {
	return !date.Before(dl.DateFrom) && !date.After(dl.DateTo)
}

// DiscountRule is one conditional discount of a list. All conditions must
// hold for the rule to apply.
type DiscountRule struct {
	ID             string
	DiscountListID string
	Type           DiscountType
	Value          float64
	Conditions     []Condition

	// Freebie rules only: operand capping the granted free quantity and
	// whether the freebie scales with the stay duration.
	ValueMax        Operand
	ScaleByDuration bool
}

// AppliesTo evaluates every condition of the rule (AND) against the
// snapshot.
func (r DiscountRule) AppliesTo(values OperandValues) bool {
	for _, c := range r.Conditions {
		if !c.Holds(values) {
			return false
		}
	}
	return true
}

// AutosaleScope tells whether an autosale product is appended at booking
// or group level.
type AutosaleScope string

const (
	AutosaleBooking AutosaleScope = "booking"
	AutosaleGroup   AutosaleScope = "group"
)

// AutosaleList selects automatic sale rules over a date range.
type AutosaleList struct {
	ID       string
	Name     string
	DateFrom time.Time
	DateTo   time.Time
}

// Covers reports whether the list applies on the given date.
func (al AutosaleList) Covers(date time.Time) bool {
	return !date.Before(al.DateFrom) && !date.After(al.DateTo)
}

// AutosaleRule appends a whole product when its conditions hold.
type AutosaleRule struct {
	ID             string
	AutosaleListID string
	ProductID      string
	Scope          AutosaleScope
	HasOwnQty      bool
	OwnQty         int
	Conditions     []Condition
}

// AppliesTo evaluates every condition of the rule (AND) against the
// snapshot.
func (r AutosaleRule) AppliesTo(values OperandValues) bool {
	for _, c := range r.Conditions {
		if !c.Holds(values) {
			return false
		}
	}
	return true
}
