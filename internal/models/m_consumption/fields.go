package m_consumption

// Field name constants for the consumptions table.
const (
	TableName = "consumptions"

	ConsumptionID   = "consumption_id"
	BookingID       = "booking_id"
	CenterID        = "center_id"
	GroupID         = "group_id"
	LineID          = "line_id"
	ConsumptionType = "consumption_type"
	ConsumptionDate = "consumption_date"
	ScheduleFrom    = "schedule_from"
	ScheduleTo      = "schedule_to"
	RentalUnitID    = "rental_unit_id"
	ProductID       = "product_id"
	ProductModelID  = "product_model_id"
	IsAccommodation = "is_accommodation"
	IsMeal          = "is_meal"
	Qty             = "qty"
	Description     = "description"
	Disclaimed      = "disclaimed"
	CreatedAt       = "created_at"
)
