package m_product

// Field name constants for the products table.
// Variants are products whose parent_id names their composite parent.
const (
	TableName = "products"

	ProductID    = "product_id"
	ParentID     = "parent_id"
	Name         = "name"
	RegularPrice = "regular_price"
	SalePrice    = "sale_price"
	Position     = "position"
)

// Columns lists every column in table order.
var Columns = []string{ProductID, ParentID, Name, RegularPrice, SalePrice, Position}
