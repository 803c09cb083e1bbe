package m_spm

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the sojourn_product_models table.
const (
	TableName = "sojourn_product_models"

	SPMID           = "spm_id"
	GroupID         = "group_id"
	ProductModelID  = "product_model_id"
	IsAccommodation = "is_accommodation"
	QtyPers         = "qty_pers"
	CreatedAt       = "created_at"
)

// Data represents the database model for the sojourn_product_models table.
type Data struct {
	SPMID           string
	GroupID         string
	ProductModelID  string
	IsAccommodation bool
	QtyPers         int64
	CreatedAt       time.Time
}

// Model provides a facade for type-safe operations on the
// sojourn_product_models table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a sojourn bucket.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{SPMID, GroupID, ProductModelID, IsAccommodation, QtyPers, CreatedAt},
		[]interface{}{data.SPMID, data.GroupID, data.ProductModelID, data.IsAccommodation, data.QtyPers, spanner.CommitTimestamp},
	)
}

// UpdateMut creates a Spanner mutation for updating bucket fields.
func (m *Model) UpdateMut(spmID string, updates map[string]interface{}) *spanner.Mutation {
	cols := []string{SPMID}
	vals := []interface{}{spmID}
	for col, val := range updates {
		cols = append(cols, col)
		vals = append(vals, val)
	}
	return spanner.Update(TableName, cols, vals)
}

// DeleteMut creates a Spanner mutation for deleting a sojourn bucket.
func (m *Model) DeleteMut(spmID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{spmID})
}
