package m_product

import (
	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID    string              `spanner:"product_id"`
	ParentID     spanner.NullString  `spanner:"parent_id"`
	Name         string              `spanner:"name"`
	RegularPrice spanner.NullNumeric `spanner:"regular_price"`
	SalePrice    spanner.NullNumeric `spanner:"sale_price"`
	Position     int64               `spanner:"position"`
}
