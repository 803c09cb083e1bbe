package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/discope/booking-service/internal/app/booking/contracts"
	"github.com/discope/booking-service/internal/app/booking/domain"
)

// PriceResolution is the outcome of a price lookup.
type PriceResolution struct {
	PriceID   string
	UnitPrice float64
	VatRate   float64

	// IsTbc marks prices taken from a pending list; the flag bubbles up
	// to the booking.
	IsTbc bool

	// Found is false when no list covers the date at all; the line then
	// keeps a zero price.
	Found bool
}

// PriceResolver finds the most specific applicable price of a product:
// shortest published list covering the date first, pending lists as a
// TBC fallback.
type PriceResolver struct {
	prices contracts.PriceCatalog
}

// NewPriceResolver creates a PriceResolver.
func NewPriceResolver(prices contracts.PriceCatalog) *PriceResolver {
	return &PriceResolver{prices: prices}
}

// Resolve looks up the price of a product on a date within a price-list
// category, preferring a price keyed to the rate class over a
// rate-class-agnostic one. A total miss is not an error: the resolution
// comes back with Found=false and a warning is logged.
func (r *PriceResolver) Resolve(ctx context.Context, productID string, date time.Time, categoryID, rateClassID string) (PriceResolution, error) {
	res, err := r.search(ctx, productID, date, categoryID, rateClassID, domain.PriceListPublished)
	if err != nil {
		return PriceResolution{}, err
	}
	if res.Found {
		return res, nil
	}

	res, err = r.search(ctx, productID, date, categoryID, rateClassID, domain.PriceListPending)
	if err != nil {
		return PriceResolution{}, err
	}
	if res.Found {
		res.IsTbc = true
		return res, nil
	}

	log.Printf("[pricing] no applicable price for product %s on %s (category %s)", productID, date.Format("2006-01-02"), categoryID)
	return PriceResolution{}, nil
}

func (r *PriceResolver) search(ctx context.Context, productID string, date time.Time, categoryID, rateClassID string, status domain.PriceListStatus) (PriceResolution, error) {
	lists, err := r.prices.PriceListsFor(ctx, categoryID, date, status)
	if err != nil {
		return PriceResolution{}, fmt.Errorf("failed to search price lists: %w", err)
	}

	for _, list := range lists {
		if !list.Covers(date) {
			continue
		}
		prices, err := r.prices.PricesFor(ctx, list.ID, productID)
		if err != nil {
			return PriceResolution{}, fmt.Errorf("failed to read prices of list %s: %w", list.ID, err)
		}
		if len(prices) == 0 {
			continue
		}

		// Rate-class-specific price wins over the generic one within the
		// same list.
		var generic *domain.Price
		for i := range prices {
			p := prices[i]
			if rateClassID != "" && p.RateClassID == rateClassID {
				return PriceResolution{PriceID: p.ID, UnitPrice: p.Amount, VatRate: p.VatRate, Found: true}, nil
			}
			if p.RateClassID == "" && generic == nil {
				generic = &prices[i]
			}
		}
		if generic != nil {
			return PriceResolution{PriceID: generic.ID, UnitPrice: generic.Amount, VatRate: generic.VatRate, Found: true}, nil
		}
	}
	return PriceResolution{}, nil
}

// ResolveLocked copies the price of an existing sibling line for the same
// product. Once a booking carries a signed contract, new lines of a
// product must keep the contractual price regardless of later price-list
// changes.
func (r *PriceResolver) ResolveLocked(lines []*domain.BookingLine, productID string) (PriceResolution, bool) {
	for _, l := range lines {
		if l.ProductID() == productID && l.PriceID() != "" {
			return PriceResolution{
				PriceID:   l.PriceID(),
				UnitPrice: l.UnitPrice(),
				VatRate:   l.VatRate(),
				IsTbc:     l.IsPriceTbc(),
				Found:     true,
			}, true
		}
	}
	return PriceResolution{}, false
}
