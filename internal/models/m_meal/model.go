package m_meal

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the booking_meals table.
const (
	TableName = "booking_meals"

	MealID    = "meal_id"
	GroupID   = "group_id"
	MealDate  = "meal_date"
	Moment    = "moment"
	MealType  = "meal_type"
	Place     = "place"
	CreatedAt = "created_at"
)

// Data represents the database model for the booking_meals table.
type Data struct {
	MealID    string
	GroupID   string
	MealDate  time.Time
	Moment    string
	MealType  string
	Place     string
	CreatedAt time.Time
}

// Model provides a facade for type-safe operations on the booking_meals
// table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a meal.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{MealID, GroupID, MealDate, Moment, MealType, Place, CreatedAt},
		[]interface{}{data.MealID, data.GroupID, data.MealDate, data.Moment, data.MealType, data.Place, spanner.CommitTimestamp},
	)
}

// UpdateMut creates a Spanner mutation for updating meal fields.
func (m *Model) UpdateMut(mealID string, updates map[string]interface{}) *spanner.Mutation {
	cols := []string{MealID}
	vals := []interface{}{mealID}
	for col, val := range updates {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	return spanner.Update(TableName, cols, vals)
}

// DeleteMut creates a Spanner mutation for deleting a meal.
func (m *Model) DeleteMut(mealID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{mealID})
}
