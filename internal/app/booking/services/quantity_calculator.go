// Package services holds the pricing, quantity, allocation and planning
// engines. They are pure domain services: state comes in through
// arguments and repository reads, results come back as values; usecases
// turn them into mutations.
package services

import (
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// QuantityCalculator derives line quantities from the accounting method
// of the product model and the group composition.
type QuantityCalculator struct{}

// NewQuantityCalculator creates a QuantityCalculator.
func NewQuantityCalculator() *QuantityCalculator {
	return &QuantityCalculator{}
}

// NbRepeat resolves the number of repeat units (days) of a line.
// Precedence: product fixed duration, then sojourn nights (floored at 1),
// then event nights+1, then 1. Non-repeatable models never repeat.
func (qc *QuantityCalculator) NbRepeat(model domain.ProductModel, group *domain.BookingLineGroup) int {
	if model.HasDuration && model.Duration > 0 {
		return model.Duration
	}
	if !model.IsRepeatable {
		return 1
	}
	switch group.Type() {
	case domain.GroupSojourn, domain.GroupCamp:
		n := group.NbNights()
		if n < 1 {
			n = 1
		}
		return n
	case domain.GroupEvent:
		return group.NbNights() + 1
	default:
		return 1
	}
}

// NbPers resolves the person count feeding a line's quantity. Products
// restricted to one age range use that bracket's assignment instead of
// the whole group, unless the group's pack already selects a single age
// range.
func (qc *QuantityCalculator) NbPers(product domain.Product, group *domain.BookingLineGroup, packSelectsAgeRange bool) int {
	if product.HasAgeRange && !packSelectsAgeRange {
		return group.AgeRangeQty(product.AgeRangeID)
	}
	return group.NbPers()
}

// Compute applies the accounting-method rules:
//
//	unit:         qty = nb_repeat
//	accomodation: repeatable  -> nb_repeat * ceil(nb_pers/capacity) when
//	              0 < capacity < nb_pers, else nb_repeat
//	              one-shot    -> ceil(nb_pers/capacity), else 1
//	person:       repeatable accommodation with capacity -> nb_repeat *
//	              ceil(nb_pers/capacity); repeatable otherwise ->
//	              nb_pers * nb_repeat; one-shot -> nb_pers
func (qc *QuantityCalculator) Compute(method domain.AccountingMethod, nbRepeat, nbPers int, isRepeatable, isAccommodation bool, capacity int) int {
	switch method {
	case domain.MethodUnit:
		return nbRepeat

	case domain.MethodAccomodation:
		if isRepeatable {
			if capacity > 0 && capacity < nbPers {
				return nbRepeat * ceilDiv(nbPers, capacity)
			}
			return nbRepeat
		}
		if capacity > 0 {
			return ceilDiv(nbPers, capacity)
		}
		return 1

	case domain.MethodPerson:
		if isRepeatable {
			if isAccommodation && capacity > 0 {
				return nbRepeat * ceilDiv(nbPers, capacity)
			}
			return nbPers * nbRepeat
		}
		return nbPers

	default:
		return nbRepeat
	}
}

// LineQty derives the full quantity of a line, honouring has_own_qty and
// day-by-day variation deltas.
func (qc *QuantityCalculator) LineQty(line *domain.BookingLine, product domain.Product, model domain.ProductModel, group *domain.BookingLineGroup, packSelectsAgeRange bool) int {
	if line.HasOwnQty() {
		return line.Qty()
	}
	nbRepeat := qc.NbRepeat(model, group)
	nbPers := qc.NbPers(product, group, packSelectsAgeRange)
	base := qc.Compute(model.AccountingMethod, nbRepeat, nbPers, model.IsRepeatable, model.IsAccommodation, model.Capacity)
	if !model.IsRepeatable || line.QtyVars() == "" {
		return base
	}
	// With variation deltas the quantity becomes the sum of per-day
	// quantities; days forced to zero drop out entirely.
	perDay := qc.PerDayQtys(base, nbRepeat, line.QtyDeltas(nbRepeat))
	total := 0
	for _, q := range perDay {
		total += q
	}
	return total
}

// PerDayQtys spreads a repeatable quantity over its repeat days and
// applies the signed deltas. Negative results clamp to zero; a zero day
// suppresses consumption generation for that day.
func (qc *QuantityCalculator) PerDayQtys(baseQty, nbRepeat int, deltas []int) []int {
	if nbRepeat <= 0 {
		return nil
	}
	perDay := baseQty / nbRepeat
	if perDay*nbRepeat != baseQty {
		// Non-divisible bases round each day's share up, so the
		// per-day total can exceed the base before deltas apply.
		perDay = ceilDiv(baseQty, nbRepeat)
	}
	out := make([]int, nbRepeat)
	for i := 0; i < nbRepeat; i++ {
		q := perDay
		if i < len(deltas) {
			q += deltas[i]
		}
		if q < 0 {
			q = 0
		}
		out[i] = q
	}
	return out
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
