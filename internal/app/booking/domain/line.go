package domain

import (
	"encoding/json"
	"time"

	"github.com/discope/booking-service/internal/pkg/clock"
)

// BookingLine is one service entry of a group: an accommodation night
// bucket, meals, an activity occurrence, transport or supplies. Its
// quantity and money fields are derived unless explicitly overridden.
type BookingLine struct {
	id             string
	bookingID      string
	groupID        string
	productID      string
	productModelID string

	order int

	qty       int
	hasOwnQty bool

	// qtyVars is a JSON array of signed per-day deltas applied on top of
	// the base per-day quantity. Malformed content is tolerated.
	qtyVars string

	unitPrice         float64
	hasManualUnitPrice bool
	vatRate           float64
	hasManualVatRate  bool

	priceID    string
	isPriceTbc bool

	discount    float64
	freeQty     int
	total       float64
	price       float64
	fareBenefit float64

	// Schedulable non-repeatable services carry their own service moment.
	serviceDate time.Time
	timeSlotID  string

	activityID string

	// isAutosale marks lines appended by the autosale engine; they are
	// regenerated, never edited.
	isAutosale bool

	clock   clock.Clock
	changes *ChangeTracker
}

// NewBookingLine creates a line for a product within a group.
func NewBookingLine(id, bookingID, groupID, productID, productModelID string, order int, clk clock.Clock) *BookingLine {
	l := &BookingLine{
		id:             id,
		bookingID:      bookingID,
		groupID:        groupID,
		productID:      productID,
		productModelID: productModelID,
		order:          order,
		clock:          clk,
		changes:        NewChangeTracker(),
	}
	l.changes.MarkDirty(FieldProduct)
	return l
}

// ReconstructBookingLine reconstitutes a line loaded from storage.
func ReconstructBookingLine(
	id, bookingID, groupID, productID, productModelID string,
	order int,
	qty int, hasOwnQty bool, qtyVars string,
	unitPrice float64, hasManualUnitPrice bool,
	vatRate float64, hasManualVatRate bool,
	priceID string, isPriceTbc bool,
	discount float64, freeQty int,
	total, price, fareBenefit float64,
	serviceDate time.Time, timeSlotID string,
	activityID string, isAutosale bool,
	clk clock.Clock,
) *BookingLine {
	return &BookingLine{
		id: id, bookingID: bookingID, groupID: groupID,
		productID: productID, productModelID: productModelID,
		order: order,
		qty:   qty, hasOwnQty: hasOwnQty, qtyVars: qtyVars,
		unitPrice: unitPrice, hasManualUnitPrice: hasManualUnitPrice,
		vatRate: vatRate, hasManualVatRate: hasManualVatRate,
		priceID: priceID, isPriceTbc: isPriceTbc,
		discount: discount, freeQty: freeQty,
		total: total, price: price, fareBenefit: fareBenefit,
		serviceDate: serviceDate, timeSlotID: timeSlotID,
		activityID: activityID, isAutosale: isAutosale,
		clock:   clk,
		changes: NewChangeTracker(),
	}
}

// Getters
func (l *BookingLine) ID() string               { return l.id }
func (l *BookingLine) BookingID() string        { return l.bookingID }
func (l *BookingLine) GroupID() string          { return l.groupID }
func (l *BookingLine) ProductID() string        { return l.productID }
func (l *BookingLine) ProductModelID() string   { return l.productModelID }
func (l *BookingLine) Order() int               { return l.order }
func (l *BookingLine) Qty() int                 { return l.qty }
func (l *BookingLine) HasOwnQty() bool          { return l.hasOwnQty }
func (l *BookingLine) QtyVars() string          { return l.qtyVars }
func (l *BookingLine) UnitPrice() float64       { return l.unitPrice }
func (l *BookingLine) HasManualUnitPrice() bool { return l.hasManualUnitPrice }
func (l *BookingLine) VatRate() float64         { return l.vatRate }
func (l *BookingLine) HasManualVatRate() bool   { return l.hasManualVatRate }
func (l *BookingLine) PriceID() string          { return l.priceID }
func (l *BookingLine) IsPriceTbc() bool         { return l.isPriceTbc }
func (l *BookingLine) Discount() float64        { return l.discount }
func (l *BookingLine) FreeQty() int             { return l.freeQty }
func (l *BookingLine) Total() float64           { return l.total }
func (l *BookingLine) Price() float64           { return l.price }
func (l *BookingLine) FareBenefit() float64     { return l.fareBenefit }
func (l *BookingLine) ServiceDate() time.Time   { return l.serviceDate }
func (l *BookingLine) TimeSlotID() string       { return l.timeSlotID }
func (l *BookingLine) ActivityID() string       { return l.activityID }
func (l *BookingLine) IsAutosale() bool         { return l.isAutosale }
func (l *BookingLine) Changes() *ChangeTracker  { return l.changes }

// MarkAutosale flags an engine-generated line.
func (l *BookingLine) MarkAutosale() {
	l.isAutosale = true
}

// SetOwnQty overrides the derived quantity with a user-entered one.
func (l *BookingLine) SetOwnQty(qty int) error {
	if qty < 0 {
		return FieldErrors{"qty": "quantity must not be negative"}
	}
	l.qty = qty
	l.hasOwnQty = true
	l.changes.MarkDirty(FieldQty)
	return nil
}

// SetDerivedQty stores a quantity computed by the quantity calculator.
// Ignored when the user owns the quantity.
func (l *BookingLine) SetDerivedQty(qty int) {
	if l.hasOwnQty || qty == l.qty {
		return
	}
	l.qty = qty
	l.changes.MarkDirty(FieldQty)
}

// SetQtyVars replaces the raw per-day delta array.
func (l *BookingLine) SetQtyVars(raw string) {
	if raw == l.qtyVars {
		return
	}
	l.qtyVars = raw
	l.changes.MarkDirty(FieldQtyVars)
}

// QtyDeltas decodes qtyVars into exactly nbRepeat per-day deltas.
// Malformed JSON yields all zeros; extra entries are dropped and missing
// ones default to zero.
func (l *BookingLine) QtyDeltas(nbRepeat int) []int {
	deltas := make([]int, nbRepeat)
	if l.qtyVars == "" {
		return deltas
	}
	var decoded []int
	if err := json.Unmarshal([]byte(l.qtyVars), &decoded); err != nil {
		return deltas
	}
	for i := 0; i < nbRepeat && i < len(decoded); i++ {
		deltas[i] = decoded[i]
	}
	return deltas
}

// SetUnitPriceManual overrides the resolved unit price. The value then
// survives automatic recomputes.
func (l *BookingLine) SetUnitPriceManual(v float64) {
	l.unitPrice = v
	l.hasManualUnitPrice = true
	l.changes.MarkDirty(FieldUnitPrice, FieldManualUnitPrice)
}

// SetVatRateManual overrides the resolved VAT rate.
func (l *BookingLine) SetVatRateManual(v float64) {
	l.vatRate = v
	l.hasManualVatRate = true
	l.changes.MarkDirty(FieldVatRate, FieldManualVatRate)
}

// ApplyPriceResolution stores the outcome of a price lookup, leaving
// manually overridden fields untouched.
func (l *BookingLine) ApplyPriceResolution(priceID string, unitPrice, vatRate float64, tbc bool) {
	if l.priceID != priceID {
		l.priceID = priceID
		l.changes.MarkDirty(FieldPriceID)
	}
	if !l.hasManualUnitPrice && l.unitPrice != unitPrice {
		l.unitPrice = unitPrice
		l.changes.MarkDirty(FieldUnitPrice)
	}
	if !l.hasManualVatRate && l.vatRate != vatRate {
		l.vatRate = vatRate
		l.changes.MarkDirty(FieldVatRate)
	}
	if l.isPriceTbc != tbc {
		l.isPriceTbc = tbc
		l.changes.MarkDirty(FieldIsPriceTbc)
	}
}

// ApplyAdapters folds the line's price adapters into the derived discount
// rate and free quantity.
func (l *BookingLine) ApplyAdapters(adapters []PriceAdapter) {
	rate := 0.0
	free := 0
	for _, a := range adapters {
		switch a.Type {
		case DiscountPercent:
			rate += a.Value
		case DiscountAmount:
			// Amount adapters are folded into the rate relative to the
			// gross line value so one formula drives the total.
			if l.unitPrice > 0 && l.qty > 0 {
				rate += a.Value / (l.unitPrice * float64(l.qty))
			}
		case DiscountFreebie:
			free += int(a.Value)
		}
	}
	if rate > 1 {
		rate = 1
	}
	if rate != l.discount {
		l.discount = rate
		l.changes.MarkDirty(FieldDiscount)
	}
	if free != l.freeQty {
		l.freeQty = free
		l.changes.MarkDirty(FieldFreeQty)
	}
}

// SetServiceSchedule stores the derived service moment of a schedulable,
// non-repeatable line.
func (l *BookingLine) SetServiceSchedule(date time.Time, timeSlotID string) {
	if !date.Equal(l.serviceDate) {
		l.serviceDate = date
		l.changes.MarkDirty(FieldServiceDate)
	}
	if timeSlotID != l.timeSlotID {
		l.timeSlotID = timeSlotID
		l.changes.MarkDirty(FieldTimeSlot)
	}
}

// AttachActivity links the line to its schedulable activity occurrence.
func (l *BookingLine) AttachActivity(activityID string) {
	if l.activityID == activityID {
		return
	}
	l.activityID = activityID
	l.changes.MarkDirty(FieldActivity)
}

// RefreshTotals recomputes the line money fields:
//
//	total = unit_price * (1 - discount) * max(0, qty - free_qty)  (4 dec)
//	price = total * (1 + vat_rate)                                 (2 dec)
func (l *BookingLine) RefreshTotals() {
	billable := l.qty - l.freeQty
	if billable < 0 {
		billable = 0
	}
	total := Round4(l.unitPrice * (1 - l.discount) * float64(billable))
	price := Round2(total * (1 + l.vatRate))
	benefit := Round4(l.unitPrice*float64(l.qty) - total)
	if benefit < 0 {
		benefit = 0
	}
	if total != l.total {
		l.total = total
		l.changes.MarkDirty(FieldTotal)
	}
	if price != l.price {
		l.price = price
		l.changes.MarkDirty(FieldPrice)
	}
	if benefit != l.fareBenefit {
		l.fareBenefit = benefit
		l.changes.MarkDirty(FieldFareBenefit)
	}
}

// SetProduct rebinds the line to another product. Derived pricing is
// cleared so the next recompute resolves against the new product.
func (l *BookingLine) SetProduct(productID, productModelID string) error {
	if productID == "" {
		return FieldErrors{"product_id": "a product is required"}
	}
	l.productID = productID
	l.productModelID = productModelID
	l.changes.MarkDirty(FieldProduct)
	l.ResetPricing()
	return nil
}

// ResetPricing clears the derived price fields ahead of a recompute.
// Manually overridden values are kept.
func (l *BookingLine) ResetPricing() {
	if !l.hasManualUnitPrice {
		l.unitPrice = 0
	}
	if !l.hasManualVatRate {
		l.vatRate = 0
	}
	l.priceID = ""
	l.isPriceTbc = false
	l.discount = 0
	l.freeQty = 0
	l.changes.MarkDirty(FieldPriceID, FieldDiscount, FieldFreeQty)
}
