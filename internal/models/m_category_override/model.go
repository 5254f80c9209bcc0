package m_category_override

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discount_category_overrides table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation inserting an override row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.CategoryID,
		data.RoleKey,
		&data.Percent,
		spanner.CommitTimestamp,
	})
}

// DeleteAllMut clears the table.
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}
