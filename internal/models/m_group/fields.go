package m_group

// Field name constants for the booking_line_groups table.
const (
	TableName = "booking_line_groups"

	GroupID              = "group_id"
	BookingID            = "booking_id"
	Name                 = "name"
	GroupType            = "group_type"
	DateFrom             = "date_from"
	DateTo               = "date_to"
	TimeFrom             = "time_from"
	TimeTo               = "time_to"
	NbPers               = "nb_pers"
	NbChildren           = "nb_children"
	RateClassID          = "rate_class_id"
	HasPack              = "has_pack"
	PackID               = "pack_id"
	IsLocked             = "is_locked"
	HasLockedRentalUnits = "has_locked_rental_units"
	Total                = "total"
	Price                = "price"
	FareBenefit          = "fare_benefit"
	IsPriceTbc           = "is_price_tbc"
	CreatedAt            = "created_at"
	UpdatedAt            = "updated_at"
)
