package m_discount_settings

// Field name constants for the discount_settings table.
const (
	TableName = "discount_settings"

	SettingsID = "settings_id"
	Revision   = "revision"
	SavedAt    = "saved_at"
	UpdatedAt  = "updated_at"
)

// CurrentID is the key of the single settings row.
const CurrentID = "current"

// Columns lists every column in table order.
var Columns = []string{SettingsID, Revision, SavedAt, UpdatedAt}
