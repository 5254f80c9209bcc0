package m_discount_role

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discount_roles table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation inserting a role row.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(TableName, Columns, []interface{}{
		data.RoleKey,
		data.Enabled,
		data.Label,
		data.DefaultPercent,
		spanner.CommitTimestamp,
	})
}

// DeleteAllMut clears the table.
func (m *Model) DeleteAllMut() *spanner.Mutation {
	return spanner.Delete(TableName, spanner.AllKeys())
}
