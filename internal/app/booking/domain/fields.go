package domain

// Field names for change tracking. Repositories map these to columns when
// building partial update mutations.
const (
	// Booking fields
	FieldStatus     = "status"
	FieldCustomer   = "customer_id"
	FieldDateFrom   = "date_from"
	FieldDateTo     = "date_to"
	FieldTotal      = "total"
	FieldPrice      = "price"
	FieldIsPriceTbc = "is_price_tbc"
	FieldIsLocked   = "is_locked"
	FieldPaymentRef = "payment_reference"

	// Group fields
	FieldGroupType           = "group_type"
	FieldTimeFrom            = "time_from"
	FieldTimeTo              = "time_to"
	FieldNbPers              = "nb_pers"
	FieldNbChildren          = "nb_children"
	FieldRateClass           = "rate_class_id"
	FieldPack                = "pack_id"
	FieldAgeRanges           = "age_ranges"
	FieldLockedRentalUnits   = "has_locked_rental_units"
	FieldFareBenefit         = "fare_benefit"

	// Line fields
	FieldProduct          = "product_id"
	FieldQty              = "qty"
	FieldQtyVars          = "qty_vars"
	FieldUnitPrice        = "unit_price"
	FieldVatRate          = "vat_rate"
	FieldDiscount         = "discount"
	FieldFreeQty          = "free_qty"
	FieldPriceID          = "price_id"
	FieldServiceDate      = "service_date"
	FieldTimeSlot         = "time_slot_id"
	FieldActivity         = "activity_id"
	FieldManualUnitPrice  = "has_manual_unit_price"
	FieldManualVatRate    = "has_manual_vat_rate"
)
