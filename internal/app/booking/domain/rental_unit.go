package domain

// RentalUnit is a physical unit (room, dorm, pitch, hall) that can be
// assigned to a sojourn. Units form a tree: assigning a parent blocks its
// descendants and vice versa.
type RentalUnit struct {
	ID       string
	CenterID string
	Name     string
	Capacity int

	IsAccommodation bool
	CategoryID      string

	ParentID    string
	ChildrenIDs []string

	// CanPartialRent marks units whose remaining capacity stays sellable
	// while a child is rented; ancestors of an assigned unit then receive
	// an advisory "part" block instead of a hard "link".
	CanPartialRent bool
}

// HasParent reports whether the unit has an ancestor.
func (ru RentalUnit) HasParent() bool { return ru.ParentID != "" }

// HasChildren reports whether the unit has sub-units.
func (ru RentalUnit) HasChildren() bool { return len(ru.ChildrenIDs) > 0 }

// SojournProductModel is the per-group allocation bucket for one product
// model requiring rental units.
type SojournProductModel struct {
	ID             string
	GroupID        string
	ProductModelID string
	IsAccommodation bool
	QtyPers        int
}

// RentalUnitAssignment links a bucket to a concrete unit with the share of
// capacity it covers.
type RentalUnitAssignment struct {
	ID           string
	GroupID      string
	SPMID        string
	RentalUnitID string
	Qty          int
	IsLocked     bool
}

// BlockKind qualifies a structurally derived occupancy entry.
type BlockKind string

const (
	// BlockLink fully blocks a related unit.
	BlockLink BlockKind = "link"
	// BlockPart advisory-blocks an ancestor that supports partial renting.
	BlockPart BlockKind = "part"
)

// RelatedBlock is a blocking entry derived for a unit structurally tied to
// an assigned one.
type RelatedBlock struct {
	RentalUnitID string
	Kind         BlockKind
}
