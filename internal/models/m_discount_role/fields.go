package m_discount_role

// Field name constants for the discount_roles table.
const (
	TableName = "discount_roles"

	RoleKey        = "role_key"
	Enabled        = "enabled"
	Label          = "label"
	DefaultPercent = "default_percent"
	UpdatedAt      = "updated_at"
)

// Columns lists every column in table order.
var Columns = []string{RoleKey, Enabled, Label, DefaultPercent, UpdatedAt}
