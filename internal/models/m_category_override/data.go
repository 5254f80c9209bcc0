package m_category_override

import (
	"math/big"
	"time"
)

// Data is one (category, role) override.
type Data struct {
	CategoryID string    `spanner:"category_id"`
	RoleKey    string    `spanner:"role_key"`
	Percent    big.Rat   `spanner:"percent"`
	UpdatedAt  time.Time `spanner:"updated_at"`
}
