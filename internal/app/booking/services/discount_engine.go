package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/clock"
)

// AdapterSpec is one discount the engine decided to grant, before it is
// materialized as line- or group-level price adapters.
type AdapterSpec struct {
	Type       domain.DiscountType
	Value      float64
	DiscountID string
	Origin     string
}

// AutosaleHit is one product the autosale rules decided to append.
type AutosaleHit struct {
	ProductID string
	Scope     domain.AutosaleScope
	HasOwnQty bool
	OwnQty    int
}

// DiscountEngine evaluates conditional discount and autosale rules
// against booking-derived operands. Conditions are interpreted with an
// explicit operator switch; no expression evaluation.
type DiscountEngine struct {
	catalog contracts.DiscountCatalog
	stats   contracts.BookingStats
	clock   clock.Clock
}

// NewDiscountEngine creates a DiscountEngine.
func NewDiscountEngine(catalog contracts.DiscountCatalog, stats contracts.BookingStats, clk clock.Clock) *DiscountEngine {
	return &DiscountEngine{catalog: catalog, stats: stats, clock: clk}
}

// OperandValues snapshots every condition operand from the booking and
// group context. Booking-count windows are calendar months, counted back
// from now, excluding quotes, options and cancellations.
func (e *DiscountEngine) OperandValues(ctx context.Context, booking *domain.Booking, group *domain.BookingLineGroup) (domain.OperandValues, error) {
	now := e.clock.Now()

	count12, err := e.stats.CountBookings(ctx, booking.CustomerID(), now.AddDate(0, -12, 0), now)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings over 12 months: %w", err)
	}
	count24, err := e.stats.CountBookings(ctx, booking.CustomerID(), now.AddDate(0, -24, 0), now)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings over 24 months: %w", err)
	}
	season, err := e.catalog.SeasonFor(ctx, booking.CenterID(), group.DateFrom())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve season: %w", err)
	}

	return domain.OperandValues{
		domain.OperandCountBooking12: float64(count12),
		domain.OperandCountBooking24: float64(count24),
		domain.OperandDuration:       float64(group.NbNights()),
		domain.OperandNbPers:         float64(group.NbPers()),
		domain.OperandNbChildren:     float64(group.NbChildren()),
		domain.OperandNbAdults:       float64(group.NbPers() - group.NbChildren()),
		domain.OperandSeason:         season,
	}, nil
}

// EvaluateRules applies the rules of one discount list against an operand
// snapshot and returns the granted discounts.
//
// Percent rules accumulate: the list's rate_min is always granted as an
// implicit percent discount, and whenever the accumulated rate would
// exceed rate_max every percent discount is discarded in favour of one
// synthetic discount at exactly rate_max. Amount and freebie rules apply
// independently of the percent cap.
func (e *DiscountEngine) EvaluateRules(list domain.DiscountList, rules []domain.DiscountRule, values domain.OperandValues, prefs domain.CenterOfficePreferences, durationFactor float64) []AdapterSpec {
	var specs []AdapterSpec
	var percents []AdapterSpec

	if list.RateMin > 0 {
		percents = append(percents, AdapterSpec{
			Type:   domain.DiscountPercent,
			Value:  list.RateMin,
			Origin: "rate_min guarantee",
		})
	}

	for _, rule := range rules {
		if !rule.AppliesTo(values) {
			continue
		}
		switch rule.Type {
		case domain.DiscountPercent:
			percents = append(percents, AdapterSpec{
				Type:       domain.DiscountPercent,
				Value:      rule.Value,
				DiscountID: rule.ID,
			})

		case domain.DiscountAmount:
			specs = append(specs, AdapterSpec{
				Type:       domain.DiscountAmount,
				Value:      rule.Value,
				DiscountID: rule.ID,
			})

		case domain.DiscountFreebie:
			if prefs.FreebiesManualAssignment {
				continue
			}
			qty := rule.Value
			if rule.ScaleByDuration && durationFactor > 1 {
				qty *= durationFactor
			}
			if rule.ValueMax != "" {
				if cap, ok := values[rule.ValueMax]; ok && qty > cap {
					qty = cap
				}
			}
			if qty <= 0 {
				continue
			}
			specs = append(specs, AdapterSpec{
				Type:       domain.DiscountFreebie,
				Value:      qty,
				DiscountID: rule.ID,
			})
		}
	}

	accumulated := 0.0
	for _, p := range percents {
		accumulated += p.Value
	}
	if list.RateMax > 0 && accumulated > list.RateMax {
		percents = []AdapterSpec{{
			Type:   domain.DiscountPercent,
			Value:  list.RateMax,
			Origin: "rate_max cap",
		}}
	}

	return append(percents, specs...)
}

// EligibleLine reports whether automatic discounts apply to a line's
// product model: accommodation and meal lines only, plus snacks for camp
// groups.
func (e *DiscountEngine) EligibleLine(group *domain.BookingLineGroup, model domain.ProductModel) bool {
	if model.IsAccommodation || model.IsMeal {
		return true
	}
	return group.Type() == domain.GroupCamp && model.IsSnack
}

// RegenerateAdapters evaluates the applicable discount list for the
// group and materializes the granted discounts as automatic price
// adapters: per eligible line normally, as a single group-level set for
// pack-priced groups. Manual adapters are never produced here and must
// be preserved by the caller.
func (e *DiscountEngine) RegenerateAdapters(
	ctx context.Context,
	booking *domain.Booking,
	group *domain.BookingLineGroup,
	lines []*domain.BookingLine,
	models map[string]domain.ProductModel,
	prefs domain.CenterOfficePreferences,
) ([]domain.PriceAdapter, error) {
	list, err := e.catalog.DiscountListFor(ctx, group.RateClassID(), group.DateFrom())
	if err != nil {
		return nil, fmt.Errorf("failed to select discount list: %w", err)
	}
	if list == nil {
		return nil, nil
	}
	rules, err := e.catalog.DiscountRulesFor(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read discount rules: %w", err)
	}
	values, err := e.OperandValues(ctx, booking, group)
	if err != nil {
		return nil, err
	}

	durationFactor := float64(group.NbNights())
	if durationFactor < 1 {
		durationFactor = 1
	}
	specs := e.EvaluateRules(*list, rules, values, prefs, durationFactor)
	if len(specs) == 0 {
		return nil, nil
	}

	var adapters []domain.PriceAdapter

	if group.HasPack() {
		// Pack pricing gets one aggregate adapter set at group level.
		for _, spec := range specs {
			if spec.Type == domain.DiscountFreebie {
				// Freebies make no sense against a bundled price.
				continue
			}
			adapters = append(adapters, domain.PriceAdapter{
				ID:         uuid.New().String(),
				BookingID:  booking.ID(),
				GroupID:    group.ID(),
				Type:       spec.Type,
				Value:      spec.Value,
				DiscountID: spec.DiscountID,
				Origin:     spec.Origin,
			})
		}
		return adapters, nil
	}

	for _, line := range lines {
		model, ok := models[line.ProductModelID()]
		if !ok || !e.EligibleLine(group, model) {
			continue
		}
		for _, spec := range specs {
			adapters = append(adapters, domain.PriceAdapter{
				ID:         uuid.New().String(),
				BookingID:  booking.ID(),
				GroupID:    group.ID(),
				LineID:     line.ID(),
				Type:       spec.Type,
				Value:      spec.Value,
				DiscountID: spec.DiscountID,
				Origin:     spec.Origin,
			})
		}
	}
	return adapters, nil
}

// EvaluateAutosales selects the products the autosale rules decided to
// append. Group-scope rules skip products already present in the group,
// booking-scope rules skip products present anywhere in the booking; the
// caller must still discard hits whose price resolves to zero.
func (e *DiscountEngine) EvaluateAutosales(ctx context.Context, centerID string, booking *domain.Booking, group *domain.BookingLineGroup, groupProductIDs, bookingProductIDs map[string]bool) ([]AutosaleHit, error) {
	list, err := e.catalog.AutosaleListFor(ctx, centerID, group.DateFrom())
	if err != nil {
		return nil, fmt.Errorf("failed to select autosale list: %w", err)
	}
	if list == nil {
		return nil, nil
	}
	rules, err := e.catalog.AutosaleRulesFor(ctx, list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read autosale rules: %w", err)
	}
	values, err := e.OperandValues(ctx, booking, group)
	if err != nil {
		return nil, err
	}

	var hits []AutosaleHit
	for _, rule := range rules {
		seen := groupProductIDs
		if rule.Scope == domain.AutosaleBooking {
			seen = bookingProductIDs
		}
		if seen[rule.ProductID] {
			continue
		}
		if !rule.AppliesTo(values) {
			continue
		}
		hits = append(hits, AutosaleHit{
			ProductID: rule.ProductID,
			Scope:     rule.Scope,
			HasOwnQty: rule.HasOwnQty,
			OwnQty:    rule.OwnQty,
		})
		groupProductIDs[rule.ProductID] = true
		bookingProductIDs[rule.ProductID] = true
	}
	return hits, nil
}
