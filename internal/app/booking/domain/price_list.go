package domain

import "time"

// PriceListStatus is the publication state of a price list.
type PriceListStatus string

const (
	PriceListPublished PriceListStatus = "published"
	PriceListPending   PriceListStatus = "pending"
)

// PriceList is a time-bounded set of prices for one category. Shorter lists
// are more specific (seasonal pricing) and win over longer ones.
type PriceList struct {
	ID         string
	CategoryID string
	Status     PriceListStatus
	DateFrom   time.Time
	DateTo     time.Time
}

// DurationDays is the covered span in days, the specificity used to order
// applicable lists.
func (pl PriceList) DurationDays() int {
	return DaysBetween(pl.DateFrom, pl.DateTo)
}

// Covers reports whether the list applies on the given date (inclusive
// bounds).
func (pl PriceList) Covers(date time.Time) bool {
	return !date.Before(pl.DateFrom) && !date.After(pl.DateTo)
}

// Price is one tariff entry of a price list. An empty RateClassID makes the
// price applicable to every rate class.
type Price struct {
	ID          string
	PriceListID string
	ProductID   string
	RateClassID string
	Amount      float64
	VatRate     float64
}
