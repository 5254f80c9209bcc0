package m_product_category

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the product_categories table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a mutation linking a product to a category.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(TableName, Columns, []interface{}{
		data.ProductID,
		data.CategoryID,
	})
}
