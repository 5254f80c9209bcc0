package m_product_category

// Field name constants for the product_categories join table.
const (
	TableName = "product_categories"

	ProductID  = "product_id"
	CategoryID = "category_id"
)

// Columns lists every column in table order.
var Columns = []string{ProductID, CategoryID}
