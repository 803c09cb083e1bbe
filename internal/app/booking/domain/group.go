package domain

import (
	"time"

	"github.com/discope/booking-service/internal/pkg/clock"
)

// GroupType distinguishes the kinds of booking line groups.
type GroupType string

const (
	GroupSimple  GroupType = "simple"
	GroupSojourn GroupType = "sojourn"
	GroupEvent   GroupType = "event"
	GroupCamp    GroupType = "camp"
)

// BookingLineGroup is a sojourn, event or camp within a booking. It owns
// its lines, age-range assignments, rental-unit buckets and automatic
// price adapters; nb_pers and the money aggregates are derived.
type BookingLineGroup struct {
	id        string
	bookingID string
	name      string
	groupType GroupType

	dateFrom time.Time
	dateTo   time.Time
	timeFrom TimeOfDay
	timeTo   TimeOfDay

	nbPers     int
	nbChildren int
	ageRanges  []AgeRangeAssignment

	rateClassID string

	hasPack bool
	packID  string

	isLocked             bool
	hasLockedRentalUnits bool

	total       float64
	price       float64
	fareBenefit float64
	isPriceTbc  bool

	clock   clock.Clock
	changes *ChangeTracker
}

// NewBookingLineGroup creates a group with a one-night default span
// starting at the given date.
func NewBookingLineGroup(id, bookingID, name string, groupType GroupType, dateFrom time.Time, checkin, checkout TimeOfDay, rateClassID string, clk clock.Clock) (*BookingLineGroup, error) {
	switch groupType {
	case GroupSimple, GroupSojourn, GroupEvent, GroupCamp:
	default:
		return nil, ErrUnknownGroupType
	}
	g := &BookingLineGroup{
		id:          id,
		bookingID:   bookingID,
		name:        name,
		groupType:   groupType,
		dateFrom:    dateFrom,
		dateTo:      dateFrom.AddDate(0, 0, 1),
		timeFrom:    checkin,
		timeTo:      checkout,
		rateClassID: rateClassID,
		clock:       clk,
		changes:     NewChangeTracker(),
	}
	g.changes.MarkDirty(FieldGroupType, FieldDateFrom, FieldDateTo, FieldTimeFrom, FieldTimeTo)
	return g, nil
}

// ReconstructBookingLineGroup reconstitutes a group loaded from storage.
func ReconstructBookingLineGroup(
	id, bookingID, name string,
	groupType GroupType,
	dateFrom, dateTo time.Time,
	timeFrom, timeTo TimeOfDay,
	ageRanges []AgeRangeAssignment,
	rateClassID string,
	hasPack bool, packID string,
	isLocked, hasLockedRentalUnits bool,
	total, price, fareBenefit float64,
	isPriceTbc bool,
	clk clock.Clock,
) *BookingLineGroup {
	g := &BookingLineGroup{
		id: id, bookingID: bookingID, name: name,
		groupType: groupType,
		dateFrom:  dateFrom, dateTo: dateTo,
		timeFrom: timeFrom, timeTo: timeTo,
		ageRanges:   ageRanges,
		rateClassID: rateClassID,
		hasPack:     hasPack, packID: packID,
		isLocked: isLocked, hasLockedRentalUnits: hasLockedRentalUnits,
		total: total, price: price, fareBenefit: fareBenefit,
		isPriceTbc: isPriceTbc,
		clock:      clk,
		changes:    NewChangeTracker(),
	}
	g.refreshCounts()
	return g
}

// Getters
func (g *BookingLineGroup) ID() string                       { return g.id }
func (g *BookingLineGroup) BookingID() string                { return g.bookingID }
func (g *BookingLineGroup) Name() string                     { return g.name }
func (g *BookingLineGroup) Type() GroupType                  { return g.groupType }
func (g *BookingLineGroup) DateFrom() time.Time              { return g.dateFrom }
func (g *BookingLineGroup) DateTo() time.Time                { return g.dateTo }
func (g *BookingLineGroup) TimeFrom() TimeOfDay              { return g.timeFrom }
func (g *BookingLineGroup) TimeTo() TimeOfDay                { return g.timeTo }
func (g *BookingLineGroup) NbPers() int                      { return g.nbPers }
func (g *BookingLineGroup) NbChildren() int                  { return g.nbChildren }
func (g *BookingLineGroup) AgeRanges() []AgeRangeAssignment  { return g.ageRanges }
func (g *BookingLineGroup) RateClassID() string              { return g.rateClassID }
func (g *BookingLineGroup) HasPack() bool                    { return g.hasPack }
func (g *BookingLineGroup) PackID() string                   { return g.packID }
func (g *BookingLineGroup) IsLocked() bool                   { return g.isLocked }
func (g *BookingLineGroup) HasLockedRentalUnits() bool       { return g.hasLockedRentalUnits }
func (g *BookingLineGroup) Total() float64                   { return g.total }
func (g *BookingLineGroup) Price() float64                   { return g.price }
func (g *BookingLineGroup) FareBenefit() float64             { return g.fareBenefit }
func (g *BookingLineGroup) IsPriceTbc() bool                 { return g.isPriceTbc }
func (g *BookingLineGroup) Changes() *ChangeTracker          { return g.changes }

// NbNights is the number of nights between the group dates.
func (g *BookingLineGroup) NbNights() int {
	n := DaysBetween(g.dateFrom, g.dateTo)
	if n < 0 {
		return 0
	}
	return n
}

// SetDateRange updates the stay dates. The span may be a single day for
// events and simple groups.
func (g *BookingLineGroup) SetDateRange(from, to time.Time) error {
	if g.isLocked {
		return FieldErrors{"date_from": "group is locked"}
	}
	if to.Before(from) {
		return FieldErrors{"date_to": "end date must not precede start date"}
	}
	if !from.Equal(g.dateFrom) {
		g.dateFrom = from
		g.changes.MarkDirty(FieldDateFrom)
	}
	if !to.Equal(g.dateTo) {
		g.dateTo = to
		g.changes.MarkDirty(FieldDateTo)
	}
	return nil
}

// SetTimes updates the check-in and check-out moments.
func (g *BookingLineGroup) SetTimes(from, to TimeOfDay) {
	if from != g.timeFrom {
		g.timeFrom = from
		g.changes.MarkDirty(FieldTimeFrom)
	}
	if to != g.timeTo {
		g.timeTo = to
		g.changes.MarkDirty(FieldTimeTo)
	}
}

// SetPack binds the group to a bundled product.
func (g *BookingLineGroup) SetPack(packID string) {
	g.hasPack = packID != ""
	g.packID = packID
	g.changes.MarkDirty(FieldPack)
}

// LockRentalUnits freezes the current rental-unit assignments against
// automatic reallocation.
func (g *BookingLineGroup) LockRentalUnits(locked bool) {
	if g.hasLockedRentalUnits == locked {
		return
	}
	g.hasLockedRentalUnits = locked
	g.changes.MarkDirty(FieldLockedRentalUnits)
}

// SetAgeRanges replaces the age-range assignments and rederives nb_pers
// and nb_children. Every quantity must be positive.
func (g *BookingLineGroup) SetAgeRanges(assignments []AgeRangeAssignment) error {
	if g.isLocked {
		return FieldErrors{"age_ranges": "group is locked"}
	}
	for _, a := range assignments {
		if a.Qty <= 0 {
			return FieldErrors{"age_ranges": "age range quantities must be positive"}
		}
	}
	g.ageRanges = assignments
	g.refreshCounts()
	g.changes.MarkDirty(FieldAgeRanges, FieldNbPers, FieldNbChildren)
	return nil
}

// AgeRangeQty returns the quantity assigned to one age range, 0 when the
// bracket is absent.
func (g *BookingLineGroup) AgeRangeQty(ageRangeID string) int {
	for _, a := range g.ageRanges {
		if a.AgeRangeID == ageRangeID {
			return a.Qty
		}
	}
	return 0
}

func (g *BookingLineGroup) refreshCounts() {
	pers, children := 0, 0
	for _, a := range g.ageRanges {
		pers += a.Qty
		if a.IsChildren {
			children += a.Qty
		}
	}
	g.nbPers = pers
	g.nbChildren = children
}

// RefreshTotals rederives the money aggregates from the owned lines and
// the group-level adapters (pack pricing).
func (g *BookingLineGroup) RefreshTotals(lines []*BookingLine, groupAdapters []PriceAdapter) {
	var total, price, benefit float64
	tbc := false
	for _, l := range lines {
		total += l.Total()
		price += l.Price()
		benefit += l.FareBenefit()
		tbc = tbc || l.IsPriceTbc()
	}
	for _, a := range groupAdapters {
		switch a.Type {
		case DiscountPercent:
			benefit += Round4(total * a.Value)
			total = Round4(total * (1 - a.Value))
			price = Round2(price * (1 - a.Value))
		case DiscountAmount:
			benefit += a.Value
			total = Round4(total - a.Value)
			price = Round2(price - a.Value)
		}
	}
	total = Round4(total)
	price = Round2(price)
	benefit = Round4(benefit)
	if total != g.total {
		g.total = total
		g.changes.MarkDirty(FieldTotal)
	}
	if price != g.price {
		g.price = price
		g.changes.MarkDirty(FieldPrice)
	}
	if benefit != g.fareBenefit {
		g.fareBenefit = benefit
		g.changes.MarkDirty(FieldFareBenefit)
	}
	if tbc != g.isPriceTbc {
		g.isPriceTbc = tbc
		g.changes.MarkDirty(FieldIsPriceTbc)
	}
}
