package domain

// PriceAdapter modifies the price of one line, or of a whole group when
// LineID is empty (pack pricing). Automatic adapters are regenerated on
// every discount evaluation; manual ones survive recomputes.
type PriceAdapter struct {
	ID        string
	BookingID string
	GroupID   string
	LineID    string

	Type  DiscountType
	Value float64

	IsManualDiscount bool

	// DiscountID references the rule that produced an automatic adapter.
	DiscountID string

	// Origin is a short human-readable label ("rate_min guarantee",
	// "rate_max cap", rule name) shown in the back office.
	Origin string
}
