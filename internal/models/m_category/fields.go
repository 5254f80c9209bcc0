package m_category

// Field name constants for the categories table.
const (
	TableName = "categories"

	CategoryID = "category_id"
	ParentID   = "parent_id"
	Name       = "name"
)

// Columns lists every column in table order.
var Columns = []string{CategoryID, ParentID, Name}
