package m_booking

// Field name constants for the bookings table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "bookings"

	BookingID     = "booking_id"
	Code          = "code"
	CustomerID    = "customer_id"
	CenterID      = "center_id"
	OfficeID      = "office_id"
	Status        = "status"
	DateFrom      = "date_from"
	DateTo        = "date_to"
	Total         = "total"
	Price         = "price"
	IsPriceTbc    = "is_price_tbc"
	IsLocked      = "is_locked"
	IsFromChannel = "is_from_channel"
	IsCancelled   = "is_cancelled"
	PaymentRef    = "payment_reference"
	Version       = "version"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)
