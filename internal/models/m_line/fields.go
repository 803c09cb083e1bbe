package m_line

// Field name constants for the booking_lines table.
const (
	TableName = "booking_lines"

	LineID            = "line_id"
	BookingID         = "booking_id"
	GroupID           = "group_id"
	ProductID         = "product_id"
	ProductModelID    = "product_model_id"
	LineOrder         = "line_order"
	Qty               = "qty"
	HasOwnQty         = "has_own_qty"
	QtyVars           = "qty_vars"
	UnitPrice         = "unit_price"
	HasManualUnitPrice = "has_manual_unit_price"
	VatRate           = "vat_rate"
	HasManualVatRate  = "has_manual_vat_rate"
	PriceID           = "price_id"
	IsPriceTbc        = "is_price_tbc"
	Discount          = "discount"
	FreeQty           = "free_qty"
	Total             = "total"
	Price             = "price"
	FareBenefit       = "fare_benefit"
	ServiceDate       = "service_date"
	TimeSlotID        = "time_slot_id"
	ActivityID        = "activity_id"
	IsAutosale        = "is_autosale"
	CreatedAt         = "created_at"
	UpdatedAt         = "updated_at"
)
