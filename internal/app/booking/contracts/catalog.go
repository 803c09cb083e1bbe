package contracts

import (
	"context"
	"time"

	"github.com/discope/booking-service/internal/app/booking/domain"
)

// Catalog exposes the read-mostly product data the engines resolve
// against. Implementations sit on the shared object store; the engines
// never mutate catalog entries.
type Catalog interface {
	// Product returns a product by id.
	Product(ctx context.Context, productID string) (*domain.Product, error)

	// ProductModel returns the model a product is bound to.
	ProductModel(ctx context.Context, productModelID string) (*domain.ProductModel, error)

	// PackLines returns the components of a bundled product.
	PackLines(ctx context.Context, packProductID string) ([]domain.PackLine, error)

	// AgeRange returns an age bracket definition.
	AgeRange(ctx context.Context, ageRangeID string) (*domain.AgeRange, error)

	// TimeSlot returns a configured schedule window.
	TimeSlot(ctx context.Context, timeSlotID string) (*domain.TimeSlot, error)

	// TimeSlots returns all configured schedule windows keyed by id.
	TimeSlots(ctx context.Context) (map[string]domain.TimeSlot, error)
}

// PriceCatalog serves price lookups. Lists are returned ordered by
// ascending duration so the most specific (shortest) seasonal list comes
// first.
type PriceCatalog interface {
	// PriceListsFor returns the lists of a category covering the date
	// with the given publication status, ordered by ascending duration.
	PriceListsFor(ctx context.Context, categoryID string, date time.Time, status domain.PriceListStatus) ([]domain.PriceList, error)

	// PricesFor returns the prices of one list for one product.
	PricesFor(ctx context.Context, priceListID, productID string) ([]domain.Price, error)
}

// DiscountCatalog serves discount and autosale rule lookups.
type DiscountCatalog interface {
	// DiscountListFor returns the single list applicable for the
	// category and date, or nil when none applies.
	DiscountListFor(ctx context.Context, categoryID string, date time.Time) (*domain.DiscountList, error)

	// DiscountRulesFor returns the rules of a discount list.
	DiscountRulesFor(ctx context.Context, discountListID string) ([]domain.DiscountRule, error)

	// AutosaleListFor returns the single autosale list applicable for the
	// center and date, or nil when none applies.
	AutosaleListFor(ctx context.Context, centerID string, date time.Time) (*domain.AutosaleList, error)

	// AutosaleRulesFor returns the rules of an autosale list.
	AutosaleRulesFor(ctx context.Context, autosaleListID string) ([]domain.AutosaleRule, error)

	// SeasonFor returns the numeric season code of a center at a date,
	// used as the "season" condition operand.
	SeasonFor(ctx context.Context, centerID string, date time.Time) (float64, error)
}

// BookingStats computes the customer history operands of the discount
// conditions.
type BookingStats interface {
	// CountBookings counts the customer's bookings whose start date falls
	// in [since, until], excluding quotes, options and cancellations.
	CountBookings(ctx context.Context, customerID string, since, until time.Time) (int, error)
}

// RentalUnitCatalog serves the physical unit pool of a center.
type RentalUnitCatalog interface {
	// UnitsAt returns every rental unit of a center, optionally filtered
	// by accommodation flag and category.
	UnitsAt(ctx context.Context, centerID string, onlyAccommodation bool, categoryID string) ([]domain.RentalUnit, error)

	// Unit returns one rental unit by id.
	Unit(ctx context.Context, unitID string) (*domain.RentalUnit, error)

	// BookedPeriods returns the occupied spans of the center's units
	// intersecting [from, to), from existing consumptions and
	// assignments of other bookings.
	BookedPeriods(ctx context.Context, centerID string, from, to time.Time) ([]domain.BookedPeriod, error)
}
