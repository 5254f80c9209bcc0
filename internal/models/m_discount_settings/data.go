package m_discount_settings

import "time"

// Data is the singleton revision row.
type Data struct {
	SettingsID string    `spanner:"settings_id"`
	Revision   string    `spanner:"revision"`
	SavedAt    time.Time `spanner:"saved_at"`
	UpdatedAt  time.Time `spanner:"updated_at"`
}
