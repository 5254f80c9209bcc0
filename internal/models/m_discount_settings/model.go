package m_discount_settings

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discount_settings table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut writes the singleton row.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, Columns, []interface{}{
		CurrentID,
		data.Revision,
		data.SavedAt,
		spanner.CommitTimestamp,
	})
}

// Key returns the primary key of the singleton row.
func (m *Model) Key() spanner.Key {
	return spanner.Key{CurrentID}
}
