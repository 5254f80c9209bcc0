package m_category_override

// Field name constants for the discount_category_overrides table.
const (
	TableName = "discount_category_overrides"

	CategoryID = "category_id"
	RoleKey    = "role_key"
	Percent    = "percent"
	UpdatedAt  = "updated_at"
)

// Columns lists every column in table order.
var Columns = []string{CategoryID, RoleKey, Percent, UpdatedAt}
