package services

import (
	"context"
	"sort"
	"time"

	"github.com/discope/booking-service/internal/app/booking/domain"
)

// In-memory contract fakes shared by the service tests.

type fakeCatalog struct {
	products map[string]*domain.Product
	models   map[string]domain.ProductModel
	slots    map[string]domain.TimeSlot
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: make(map[string]*domain.Product),
		models:   make(map[string]domain.ProductModel),
		slots:    make(map[string]domain.TimeSlot),
	}
}

func (f *fakeCatalog) Product(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) ProductModel(_ context.Context, id string) (*domain.ProductModel, error) {
	if m, ok := f.models[id]; ok {
		return &m, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) PackLines(_ context.Context, packProductID string) ([]domain.PackLine, error) {
	if p, ok := f.products[packProductID]; ok {
		return p.PackLines, nil
	}
	return nil, nil
}

func (f *fakeCatalog) AgeRange(_ context.Context, id string) (*domain.AgeRange, error) {
	return &domain.AgeRange{ID: id}, nil
}

func (f *fakeCatalog) TimeSlot(_ context.Context, id string) (*domain.TimeSlot, error) {
	if s, ok := f.slots[id]; ok {
		return &s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) TimeSlots(_ context.Context) (map[string]domain.TimeSlot, error) {
	return f.slots, nil
}

type fakePriceCatalog struct {
	lists  map[domain.PriceListStatus][]domain.PriceList
	prices map[string][]domain.Price
}

func newFakePriceCatalog() *fakePriceCatalog {
	return &fakePriceCatalog{
		lists:  make(map[domain.PriceListStatus][]domain.PriceList),
		prices: make(map[string][]domain.Price),
	}
}

func (f *fakePriceCatalog) PriceListsFor(_ context.Context, _ string, date time.Time, status domain.PriceListStatus) ([]domain.PriceList, error) {
	var out []domain.PriceList
	for _, l := range f.lists[status] {
		if l.Covers(date) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DurationDays() < out[j].DurationDays() })
	return out, nil
}

func (f *fakePriceCatalog) PricesFor(_ context.Context, priceListID, productID string) ([]domain.Price, error) {
	return f.prices[priceListID+"/"+productID], nil
}

type fakeDiscountCatalog struct {
	list          *domain.DiscountList
	rules         []domain.DiscountRule
	autosaleList  *domain.AutosaleList
	autosaleRules []domain.AutosaleRule
	season        float64
}

func (f *fakeDiscountCatalog) DiscountListFor(_ context.Context, _ string, _ time.Time) (*domain.DiscountList, error) {
	return f.list, nil
}

func (f *fakeDiscountCatalog) DiscountRulesFor(_ context.Context, _ string) ([]domain.DiscountRule, error) {
	return f.rules, nil
}

func (f *fakeDiscountCatalog) AutosaleListFor(_ context.Context, _ string, _ time.Time) (*domain.AutosaleList, error) {
	return f.autosaleList, nil
}

func (f *fakeDiscountCatalog) AutosaleRulesFor(_ context.Context, _ string) ([]domain.AutosaleRule, error) {
	return f.autosaleRules, nil
}

func (f *fakeDiscountCatalog) SeasonFor(_ context.Context, _ string, _ time.Time) (float64, error) {
	return f.season, nil
}

type fakeStats struct {
	count12 int
	count24 int
}

func (f *fakeStats) CountBookings(_ context.Context, _ string, since, until time.Time) (int, error) {
	if until.AddDate(0, -12, 0).Before(since.AddDate(0, 0, 1)) {
		return f.count12, nil
	}
	return f.count24, nil
}

type fakeRentalUnitCatalog struct {
	units  map[string]domain.RentalUnit
	booked []domain.BookedPeriod
}

func newFakeRentalUnitCatalog(units ...domain.RentalUnit) *fakeRentalUnitCatalog {
	f := &fakeRentalUnitCatalog{units: make(map[string]domain.RentalUnit)}
	for _, u := range units {
		f.units[u.ID] = u
	}
	return f
}

func (f *fakeRentalUnitCatalog) UnitsAt(_ context.Context, centerID string, onlyAccommodation bool, categoryID string) ([]domain.RentalUnit, error) {
	var out []domain.RentalUnit
	for _, u := range f.units {
		if u.CenterID != centerID {
			continue
		}
		if onlyAccommodation && !u.IsAccommodation {
			continue
		}
		if categoryID != "" && u.CategoryID != categoryID {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeRentalUnitCatalog) Unit(_ context.Context, id string) (*domain.RentalUnit, error) {
	if u, ok := f.units[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRentalUnitCatalog) BookedPeriods(_ context.Context, _ string, _, _ time.Time) ([]domain.BookedPeriod, error) {
	return f.booked, nil
}

type fakeSettings struct {
	checkin  domain.TimeOfDay
	checkout domain.TimeOfDay
	prefs    domain.CenterOfficePreferences
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{
		checkin:  domain.DefaultCheckinTime,
		checkout: domain.DefaultCheckoutTime,
	}
}

func (f *fakeSettings) StringValue(_ context.Context, _, _, _, fallback string) (string, error) {
	return fallback, nil
}

func (f *fakeSettings) IntValue(_ context.Context, _, _, _ string, fallback int64) (int64, error) {
	return fallback, nil
}

func (f *fakeSettings) BoolValue(_ context.Context, _, _, _ string, fallback bool) (bool, error) {
	return fallback, nil
}

func (f *fakeSettings) OfficePreferences(_ context.Context, _ string) (*domain.CenterOfficePreferences, error) {
	p := f.prefs
	return &p, nil
}

func (f *fakeSettings) CheckinTime(_ context.Context, _ string) (domain.TimeOfDay, error) {
	return f.checkin, nil
}

func (f *fakeSettings) CheckoutTime(_ context.Context, _ string) (domain.TimeOfDay, error) {
	return f.checkout, nil
}
