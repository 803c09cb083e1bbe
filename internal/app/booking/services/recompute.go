package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
	"github.com/discope/booking-service/internal/pkg/clock"
)

// GroupState is the mutable working set of one group during a
// recomputation: its lines, adapters and allocation, plus the outputs the
// pipeline regenerates.
type GroupState struct {
	Group *domain.BookingLineGroup

	Lines    []*domain.BookingLine
	Adapters []domain.PriceAdapter

	Activities  []*domain.BookingActivity
	SPMs        []domain.SojournProductModel
	Assignments []domain.RentalUnitAssignment

	Meals       []domain.BookingMeal
	Preferences []domain.MealPreference

	// Consumptions is replaced wholesale by the scheduling step.
	Consumptions []domain.Consumption
}

// BookingState is the full working set of one booking recomputation.
type BookingState struct {
	Booking *domain.Booking
	Groups  []*GroupState
}

// Pipeline chains the engines in dependency order over a booking state:
// price resolution, quantity derivation, discount regeneration, autosale
// evaluation, rental-unit allocation, consumption scheduling, then the
// bottom-up total refresh. Every step mutates the state in place; the
// caller persists the dirty aggregates afterwards.
type Pipeline struct {
	catalog   contracts.Catalog
	settings  contracts.SettingsRepository
	prices    *PriceResolver
	qty       *QuantityCalculator
	discounts *DiscountEngine
	allocator *RentalUnitAllocator
	scheduler *ConsumptionScheduler
	clock     clock.Clock
}

// NewPipeline wires the recomputation pipeline.
func NewPipeline(
	catalog contracts.Catalog,
	settings contracts.SettingsRepository,
	prices *PriceResolver,
	qty *QuantityCalculator,
	discounts *DiscountEngine,
	allocator *RentalUnitAllocator,
	scheduler *ConsumptionScheduler,
	clk clock.Clock,
) *Pipeline {
	return &Pipeline{
		catalog:   catalog,
		settings:  settings,
		prices:    prices,
		qty:       qty,
		discounts: discounts,
		allocator: allocator,
		scheduler: scheduler,
		clock:     clk,
	}
}

// catalogCache avoids re-reading the same product or model within one
// recomputation run.
type catalogCache struct {
	catalog  contracts.Catalog
	products map[string]*domain.Product
	models   map[string]domain.ProductModel
}

func newCatalogCache(catalog contracts.Catalog) *catalogCache {
	return &catalogCache{
		catalog:  catalog,
		products: make(map[string]*domain.Product),
		models:   make(map[string]domain.ProductModel),
	}
}

func (c *catalogCache) product(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	p, err := c.catalog.Product(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read product %s: %w", id, err)
	}
	c.products[id] = p
	return p, nil
}

func (c *catalogCache) model(ctx context.Context, id string) (domain.ProductModel, error) {
	if m, ok := c.models[id]; ok {
		return m, nil
	}
	m, err := c.catalog.ProductModel(ctx, id)
	if err != nil {
		return domain.ProductModel{}, fmt.Errorf("failed to read product model %s: %w", id, err)
	}
	c.models[id] = *m
	return *m, nil
}

func (c *catalogCache) modelsFor(ctx context.Context, lines []*domain.BookingLine) (map[string]domain.ProductModel, error) {
	out := make(map[string]domain.ProductModel, len(lines))
	for _, line := range lines {
		m, err := c.model(ctx, line.ProductModelID())
		if err != nil {
			return nil, err
		}
		out[line.ProductModelID()] = m
	}
	return out, nil
}

// Recompute runs the full pipeline over every group, then refreshes the
// booking's date span and totals.
func (p *Pipeline) Recompute(ctx context.Context, state *BookingState) error {
	cache := newCatalogCache(p.catalog)

	prefs, err := p.settings.OfficePreferences(ctx, state.Booking.OfficeID())
	if err != nil {
		return fmt.Errorf("failed to read office preferences: %w", err)
	}

	// Booking-scope autosale rules append their product at most once per
	// booking, so the product inventory spans all groups.
	bookingProducts := make(map[string]bool)
	for _, gs := range state.Groups {
		for _, line := range gs.Lines {
			bookingProducts[line.ProductID()] = true
		}
	}

	for _, gs := range state.Groups {
		if err := p.recomputeGroup(ctx, state.Booking, gs, cache, *prefs, bookingProducts); err != nil {
			return err
		}
	}

	var groups []*domain.BookingLineGroup
	for _, gs := range state.Groups {
		groups = append(groups, gs.Group)
	}
	state.Booking.RefreshDateSpan(groups)
	state.Booking.RefreshTotals(groups)
	return nil
}

func (p *Pipeline) recomputeGroup(ctx context.Context, booking *domain.Booking, gs *GroupState, cache *catalogCache, prefs domain.CenterOfficePreferences, bookingProducts map[string]bool) error {
	if err := p.resolvePrices(ctx, booking, gs, cache); err != nil {
		return err
	}
	if err := p.deriveQuantities(ctx, gs, cache); err != nil {
		return err
	}
	if err := p.regenerateDiscounts(ctx, booking, gs, cache, prefs); err != nil {
		return err
	}
	if err := p.evaluateAutosales(ctx, booking, gs, cache, bookingProducts); err != nil {
		return err
	}
	if err := p.reallocateUnits(ctx, booking, gs, cache, prefs); err != nil {
		return err
	}
	if err := p.rescheduleConsumptions(ctx, booking, gs, cache); err != nil {
		return err
	}

	for _, line := range gs.Lines {
		line.ApplyAdapters(lineAdapters(gs.Adapters, line.ID()))
		line.RefreshTotals()
	}
	gs.Group.RefreshTotals(gs.Lines, groupAdapters(gs.Adapters))
	return nil
}

// resolvePrices resolves the unit price and VAT of every line from the
// published price lists. Manual overrides survive; locked bookings reuse
// the price of an existing sibling line instead of the current lists.
func (p *Pipeline) resolvePrices(ctx context.Context, booking *domain.Booking, gs *GroupState, cache *catalogCache) error {
	for _, line := range gs.Lines {
		if line.HasManualUnitPrice() && line.HasManualVatRate() {
			continue
		}

		if booking.IsLocked() {
			if res, ok := p.prices.ResolveLocked(gs.Lines, line.ProductID()); ok {
				line.ApplyPriceResolution(res.PriceID, res.UnitPrice, res.VatRate, res.IsTbc)
				continue
			}
		}

		res, err := p.prices.Resolve(ctx, line.ProductID(), gs.Group.DateFrom(), booking.CenterID(), gs.Group.RateClassID())
		if err != nil {
			return err
		}
		line.ApplyPriceResolution(res.PriceID, res.UnitPrice, res.VatRate, res.IsTbc)
		if res.IsTbc {
			booking.RecordEvent(&domain.PriceTbcEvent{
				BookingID: booking.ID(),
				LineID:    line.ID(),
				PriceID:   res.PriceID,
			})
		}
	}
	return nil
}

// deriveQuantities recomputes every line quantity from the group
// composition, except lines with an explicit own quantity.
func (p *Pipeline) deriveQuantities(ctx context.Context, gs *GroupState, cache *catalogCache) error {
	packSelectsAgeRange := false
	if gs.Group.HasPack() {
		pack, err := cache.product(ctx, gs.Group.PackID())
		if err != nil {
			return err
		}
		packSelectsAgeRange = pack.HasAgeRange
	}

	for _, line := range gs.Lines {
		product, err := cache.product(ctx, line.ProductID())
		if err != nil {
			return err
		}
		model, err := cache.model(ctx, line.ProductModelID())
		if err != nil {
			return err
		}
		qty := p.qty.LineQty(line, *product, model, gs.Group, packSelectsAgeRange)
		if !line.HasOwnQty() {
			line.SetDerivedQty(qty)
		}
	}
	return nil
}

// regenerateDiscounts replaces the automatic adapters of the group with a
// freshly evaluated set. Manual adapters are preserved untouched.
func (p *Pipeline) regenerateDiscounts(ctx context.Context, booking *domain.Booking, gs *GroupState, cache *catalogCache, prefs domain.CenterOfficePreferences) error {
	models, err := cache.modelsFor(ctx, gs.Lines)
	if err != nil {
		return err
	}
	fresh, err := p.discounts.RegenerateAdapters(ctx, booking, gs.Group, gs.Lines, models, prefs)
	if err != nil {
		return err
	}

	var kept []domain.PriceAdapter
	for _, a := range gs.Adapters {
		if a.IsManualDiscount {
			kept = append(kept, a)
		}
	}
	gs.Adapters = append(kept, fresh...)
	return nil
}

// evaluateAutosales appends the products the autosale rules grant,
// skipping duplicates and products whose price resolves to zero.
func (p *Pipeline) evaluateAutosales(ctx context.Context, booking *domain.Booking, gs *GroupState, cache *catalogCache, bookingProducts map[string]bool) error {
	existing := make(map[string]bool, len(gs.Lines))
	for _, line := range gs.Lines {
		existing[line.ProductID()] = true
	}

	hits, err := p.discounts.EvaluateAutosales(ctx, booking.CenterID(), booking, gs.Group, existing, bookingProducts)
	if err != nil {
		return err
	}

	order := len(gs.Lines)
	for _, hit := range hits {
		res, err := p.prices.Resolve(ctx, hit.ProductID, gs.Group.DateFrom(), booking.CenterID(), gs.Group.RateClassID())
		if err != nil {
			return err
		}
		if !res.Found || res.UnitPrice == 0 {
			continue
		}
		product, err := cache.product(ctx, hit.ProductID)
		if err != nil {
			return err
		}
		model, err := cache.model(ctx, product.ProductModelID)
		if err != nil {
			return err
		}

		line := domain.NewBookingLine(uuid.New().String(), booking.ID(), gs.Group.ID(), product.ID, model.ID, order, p.clock)
		order++
		line.MarkAutosale()
		line.ApplyPriceResolution(res.PriceID, res.UnitPrice, res.VatRate, res.IsTbc)
		if hit.HasOwnQty {
			if err := line.SetOwnQty(hit.OwnQty); err != nil {
				return err
			}
		} else {
			line.SetDerivedQty(p.qty.LineQty(line, *product, model, gs.Group, false))
		}
		gs.Lines = append(gs.Lines, line)
	}
	return nil
}

// reallocateUnits rebuilds the sojourn buckets and unit assignments of
// the group from its accommodation lines. Skipped entirely when the
// group's units are locked or the office assigns units by hand.
func (p *Pipeline) reallocateUnits(ctx context.Context, booking *domain.Booking, gs *GroupState, cache *catalogCache, prefs domain.CenterOfficePreferences) error {
	if gs.Group.HasLockedRentalUnits() || prefs.RentalUnitsManualAssignment {
		return nil
	}
	if gs.Group.Type() != domain.GroupSojourn && gs.Group.Type() != domain.GroupCamp {
		return nil
	}

	// One bucket per accommodation product model present in the lines.
	type bucket struct {
		model domain.ProductModel
		pers  int
	}
	buckets := make(map[string]*bucket)
	var bucketOrder []string
	for _, line := range gs.Lines {
		model, err := cache.model(ctx, line.ProductModelID())
		if err != nil {
			return err
		}
		if !model.IsAccommodation || !model.IsRentalUnit {
			continue
		}
		b, ok := buckets[model.ID]
		if !ok {
			b = &bucket{model: model}
			buckets[model.ID] = b
			bucketOrder = append(bucketOrder, model.ID)
		}
		b.pers = gs.Group.NbPers()
	}
	sort.Strings(bucketOrder)

	checkin, err := p.settings.CheckinTime(ctx, booking.CenterID())
	if err != nil {
		return fmt.Errorf("failed to read checkin time: %w", err)
	}
	checkout, err := p.settings.CheckoutTime(ctx, booking.CenterID())
	if err != nil {
		return fmt.Errorf("failed to read checkout time: %w", err)
	}

	gs.SPMs = gs.SPMs[:0]
	gs.Assignments = gs.Assignments[:0]

	for _, modelID := range bucketOrder {
		b := buckets[modelID]
		spm := domain.SojournProductModel{
			ID:              uuid.New().String(),
			GroupID:         gs.Group.ID(),
			ProductModelID:  b.model.ID,
			IsAccommodation: true,
			QtyPers:         b.pers,
		}
		gs.SPMs = append(gs.SPMs, spm)

		shares, err := p.allocator.Allocate(ctx, AllocationRequest{
			CenterID:          booking.CenterID(),
			CategoryID:        b.model.RentalUnitCategoryID,
			OnlyAccommodation: true,
			NbPers:            b.pers,
			From:              checkin.At(gs.Group.DateFrom()),
			To:                checkout.At(gs.Group.DateTo()),
		})
		if err != nil {
			// A full pool is not a hard failure: the operation that
			// triggered the recompute still lands, and a deferred
			// check picks the group up again.
			if errors.Is(err, domain.ErrNoAvailability) {
				booking.RecordEvent(&domain.UnitsUnassignedEvent{
					BookingID:        booking.ID(),
					GroupID:          gs.Group.ID(),
					RequiredCapacity: b.pers,
					DetectedAt:       p.clock.Now(),
				})
				continue
			}
			return err
		}
		for _, share := range shares {
			if share.Qty <= 0 {
				continue
			}
			gs.Assignments = append(gs.Assignments, domain.RentalUnitAssignment{
				ID:           uuid.New().String(),
				GroupID:      gs.Group.ID(),
				SPMID:        spm.ID,
				RentalUnitID: share.Unit.ID,
				Qty:          share.Qty,
			})
		}
	}
	return nil
}

// rescheduleConsumptions regenerates the whole planning set of the group.
func (p *Pipeline) rescheduleConsumptions(ctx context.Context, booking *domain.Booking, gs *GroupState, cache *catalogCache) error {
	models, err := cache.modelsFor(ctx, gs.Lines)
	if err != nil {
		return err
	}
	products := make(map[string]*domain.Product, len(gs.Lines))
	for _, line := range gs.Lines {
		product, err := cache.product(ctx, line.ProductID())
		if err != nil {
			return err
		}
		products[line.ProductID()] = product
	}

	consumptions, err := p.scheduler.Generate(ctx, ScheduleInput{
		Booking:     booking,
		Group:       gs.Group,
		Lines:       gs.Lines,
		Models:      models,
		Products:    products,
		Activities:  gs.Activities,
		SPMs:        gs.SPMs,
		Assignments: gs.Assignments,
		Meals:       gs.Meals,
		Preferences: gs.Preferences,
	})
	if err != nil {
		return err
	}
	gs.Consumptions = consumptions
	return nil
}

// lineAdapters selects the adapters targeting one line.
func lineAdapters(adapters []domain.PriceAdapter, lineID string) []domain.PriceAdapter {
	var out []domain.PriceAdapter
	for _, a := range adapters {
		if a.LineID == lineID {
			out = append(out, a)
		}
	}
	return out
}

// groupAdapters selects the group-level adapters (empty line id).
func groupAdapters(adapters []domain.PriceAdapter) []domain.PriceAdapter {
	var out []domain.PriceAdapter
	for _, a := range adapters {
		if a.LineID == "" {
			out = append(out, a)
		}
	}
	return out
}
