package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// maxCombinationUnits bounds the subset search: sojourns never spread one
// accommodation bucket over more physical units than this.
const maxCombinationUnits = 5

// AllocationRequest asks for units covering one sojourn bucket of a group.
// From and To are already anchored with the center's checkin and checkout
// times.
type AllocationRequest struct {
	CenterID          string
	CategoryID        string
	OnlyAccommodation bool
	NbPers            int
	From              time.Time
	To                time.Time
}

// UnitShare is one chosen unit with the headcount it absorbs.
type UnitShare struct {
	Unit domain.RentalUnit
	Qty  int
}

// RentalUnitAllocator picks physical units for sojourn buckets from the
// center's free pool. Selection prefers an exact capacity match, then the
// smallest single oversized unit, then the combination summing exactly to
// the headcount with the fewest units. Ties between combinations are
// broken by balance of fill across units, then unit id order.
type RentalUnitAllocator struct {
	catalog contracts.RentalUnitCatalog
}

// NewRentalUnitAllocator creates a RentalUnitAllocator.
func NewRentalUnitAllocator(catalog contracts.RentalUnitCatalog) *RentalUnitAllocator {
	return &RentalUnitAllocator{catalog: catalog}
}

// Allocate resolves the free pool and chooses units for the request.
// Returns ErrNoAvailability when the pool cannot cover the headcount and
// no partial fallback unit exists.
func (a *RentalUnitAllocator) Allocate(ctx context.Context, req AllocationRequest) ([]UnitShare, error) {
	units, err := a.catalog.UnitsAt(ctx, req.CenterID, req.OnlyAccommodation, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to read rental units: %w", err)
	}
	booked, err := a.catalog.BookedPeriods(ctx, req.CenterID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("failed to read booked periods: %w", err)
	}

	available := FilterAvailable(units, booked, req.From, req.To)
	shares := ChooseUnits(available, req.NbPers)
	if len(shares) == 0 {
		return nil, domain.ErrNoAvailability
	}
	return shares, nil
}

// FilterAvailable keeps the units free over [from, to). A unit with any
// overlapping booked period is out; touching periods do not conflict.
func FilterAvailable(units []domain.RentalUnit, booked []domain.BookedPeriod, from, to time.Time) []domain.RentalUnit {
	occupied := make(map[string]bool)
	for _, p := range booked {
		if domain.Overlaps(from, to, p.From, p.To) {
			occupied[p.RentalUnitID] = true
		}
	}
	var free []domain.RentalUnit
	for _, u := range units {
		if !occupied[u.ID] {
			free = append(free, u)
		}
	}
	return free
}

// ChooseUnits selects units covering nbPers from the free pool.
//
// Order of preference:
//  1. a single unit whose capacity equals nbPers exactly
//  2. the smallest single unit with capacity above nbPers
//  3. the combination of up to maxCombinationUnits units whose total
//     capacity equals nbPers exactly, using the fewest units
//  4. as a degraded fallback, the single largest unit even though it
//     cannot hold everyone
//
// Returns nil on an empty pool or nbPers <= 0.
func ChooseUnits(available []domain.RentalUnit, nbPers int) []UnitShare {
	if nbPers <= 0 || len(available) == 0 {
		return nil
	}

	pool := make([]domain.RentalUnit, len(available))
	copy(pool, available)
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Capacity != pool[j].Capacity {
			return pool[i].Capacity > pool[j].Capacity
		}
		return pool[i].ID < pool[j].ID
	})

	// Exact single match, lowest id among equals.
	for i := len(pool) - 1; i >= 0; i-- {
		if pool[i].Capacity == nbPers {
			exact := pool[i]
			for j := i - 1; j >= 0 && pool[j].Capacity == nbPers; j-- {
				if pool[j].ID < exact.ID {
					exact = pool[j]
				}
			}
			return distribute([]domain.RentalUnit{exact}, nbPers)
		}
	}

	// Smallest oversized single unit.
	var oversized *domain.RentalUnit
	for i := range pool {
		if pool[i].Capacity > nbPers {
			if oversized == nil || pool[i].Capacity < oversized.Capacity ||
				(pool[i].Capacity == oversized.Capacity && pool[i].ID < oversized.ID) {
				oversized = &pool[i]
			}
		}
	}
	if oversized != nil {
		return distribute([]domain.RentalUnit{*oversized}, nbPers)
	}

	// Combination search over capacities below nbPers, descending.
	if combo := searchCombination(pool, nbPers); combo != nil {
		return distribute(combo, nbPers)
	}

	// Degraded fallback: the largest unit, knowingly too small.
	largest := pool[0]
	return []UnitShare{{Unit: largest, Qty: largest.Capacity}}
}

// searchCombination finds the best subset with total capacity exactly
// nbPers; a combination that overshoots would strand spare beds across
// units, so no partial fit is accepted here. The pool is sorted by
// descending capacity; at each depth, siblings with a capacity already
// tried are skipped since they yield the same totals.
func searchCombination(pool []domain.RentalUnit, nbPers int) []domain.RentalUnit {
	var best []domain.RentalUnit
	bestSpread := math.MaxFloat64

	var current []domain.RentalUnit
	var walk func(start, remaining int)
	walk = func(start, remaining int) {
		if remaining == 0 {
			if best == nil || betterCombo(current, best, bestSpread, nbPers) {
				best = append([]domain.RentalUnit(nil), current...)
				bestSpread = comboSpread(best, nbPers)
			}
			return
		}
		if len(current) >= maxCombinationUnits {
			return
		}
		if best != nil && len(current)+1 > len(best) {
			return
		}
		lastCap := -1
		for i := start; i < len(pool); i++ {
			if pool[i].Capacity == lastCap || pool[i].Capacity > remaining {
				continue
			}
			lastCap = pool[i].Capacity
			current = append(current, pool[i])
			walk(i+1, remaining-pool[i].Capacity)
			current = current[:len(current)-1]
		}
	}
	walk(0, nbPers)
	return best
}

// betterCombo ranks a candidate against the best so far: fewer units
// first, then the more balanced fill, then the lower id sequence.
// Candidates all sum to nbPers, so capacity never discriminates.
func betterCombo(candidate, best []domain.RentalUnit, bestSpread float64, nbPers int) bool {
	if len(candidate) != len(best) {
		return len(candidate) < len(best)
	}
	s := comboSpread(candidate, nbPers)
	if s != bestSpread {
		return s < bestSpread
	}
	for i := range candidate {
		if candidate[i].ID != best[i].ID {
			return candidate[i].ID < best[i].ID
		}
	}
	return false
}

// comboSpread measures how far the distributed fill sits from half of
// each unit's capacity. A lower value means the headcount is spread more
// evenly instead of packing one unit full and leaving another near empty.
func comboSpread(units []domain.RentalUnit, nbPers int) float64 {
	shares := distribute(units, nbPers)
	spread := 0.0
	for _, s := range shares {
		spread += math.Abs(float64(s.Qty) - float64(s.Unit.Capacity)/2)
	}
	return spread
}

// distribute fills the chosen units in order, largest first, each taking
// up to its capacity.
func distribute(units []domain.RentalUnit, nbPers int) []UnitShare {
	ordered := make([]domain.RentalUnit, len(units))
	copy(ordered, units)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Capacity != ordered[j].Capacity {
			return ordered[i].Capacity > ordered[j].Capacity
		}
		return ordered[i].ID < ordered[j].ID
	})

	remaining := nbPers
	shares := make([]UnitShare, 0, len(ordered))
	for _, u := range ordered {
		qty := remaining
		if qty > u.Capacity {
			qty = u.Capacity
		}
		if qty < 0 {
			qty = 0
		}
		shares = append(shares, UnitShare{Unit: u, Qty: qty})
		remaining -= qty
	}
	return shares
}

// RelatedBlocks derives the structural blocking entries for an assigned
// unit: every descendant is hard-blocked, and each ancestor is
// hard-blocked unless it supports partial renting, in which case it only
// receives an advisory block.
func (a *RentalUnitAllocator) RelatedBlocks(ctx context.Context, unit domain.RentalUnit) ([]domain.RelatedBlock, error) {
	var blocks []domain.RelatedBlock

	var descend func(ids []string) error
	descend = func(ids []string) error {
		for _, id := range ids {
			child, err := a.catalog.Unit(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to read child unit %s: %w", id, err)
			}
			blocks = append(blocks, domain.RelatedBlock{RentalUnitID: child.ID, Kind: domain.BlockLink})
			if err := descend(child.ChildrenIDs); err != nil {
				return err
			}
		}
		return nil
	}
	if err := descend(unit.ChildrenIDs); err != nil {
		return nil, err
	}

	parentID := unit.ParentID
	for parentID != "" {
		parent, err := a.catalog.Unit(ctx, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to read parent unit %s: %w", parentID, err)
		}
		kind := domain.BlockLink
		if parent.CanPartialRent {
			kind = domain.BlockPart
		}
		blocks = append(blocks, domain.RelatedBlock{RentalUnitID: parent.ID, Kind: kind})
		parentID = parent.ParentID
	}
	return blocks, nil
}
