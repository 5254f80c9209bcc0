package m_discount_role

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data is one role's row. A row exists for every role present in the configuration,
// enabled or not.
type Data struct {
	RoleKey        string              `spanner:"role_key"`
	Enabled        bool                `spanner:"enabled"`
	Label          spanner.NullString  `spanner:"label"`
	DefaultPercent spanner.NullNumeric `spanner:"default_percent"`
	UpdatedAt      time.Time           `spanner:"updated_at"`
}
