package domain

// AccountingMethod drives how a line's quantity is derived from the group
// composition. The "accomodation" spelling is kept from the catalog data.
type AccountingMethod string

const (
	MethodUnit         AccountingMethod = "unit"
	MethodPerson       AccountingMethod = "person"
	MethodAccomodation AccountingMethod = "accomodation"
)

// ProductModel carries the behavioural flags shared by all products of a
// model. Lines resolve their quantity, scheduling and rental-unit needs
// from here.
type ProductModel struct {
	ID               string
	Name             string
	AccountingMethod AccountingMethod
	IsRepeatable     bool
	IsAccommodation  bool
	IsRentalUnit     bool
	IsMeal           bool
	IsSnack          bool
	IsActivity       bool
	IsFullDay        bool
	IsTransport      bool
	IsSupply         bool
	IsSchedulable    bool

	// Capacity of one rental unit of this model, used by the per-person
	// and per-accommodation quantity rules.
	Capacity int

	// Fixed duration in days when HasDuration is set, overriding the
	// sojourn length.
	HasDuration bool
	Duration    int

	// Schedule window for schedulable services. A negative offset counts
	// backward from the end of the stay (offset -1 is the departure day).
	ScheduleOffset int
	ScheduleFrom   TimeOfDay
	ScheduleTo     TimeOfDay

	// Rental-unit pool restriction for allocation.
	RentalUnitCategoryID string
}

// PackLine is one component of a bundled product.
type PackLine struct {
	ChildProductID string
	HasOwnQty      bool
	OwnQty         int
	ShareOfPrice   float64
}

// Product is a sellable catalog entry bound to a product model.
type Product struct {
	ID             string
	SKU            string
	Name           string
	ProductModelID string

	IsPack      bool
	HasOwnPrice bool
	PackLines   []PackLine

	// Age-range restriction: when set, per-person quantities use the
	// matching age-range assignment instead of the whole group.
	HasAgeRange bool
	AgeRangeID  string
}

// AgeRange is a customer age bracket (adult, child, ...).
type AgeRange struct {
	ID         string
	Name       string
	AgeFrom    int
	AgeTo      int
	IsChildren bool
}

// AgeRangeAssignment sizes one age bracket within a group.
type AgeRangeAssignment struct {
	ID         string
	AgeRangeID string
	Qty        int
	IsChildren bool
}
