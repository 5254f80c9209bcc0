package m_category

import (
	"cloud.google.com/go/spanner"
)

// Data represents one node of the category tree.
type Data struct {
	CategoryID string             `spanner:"category_id"`
	ParentID   spanner.NullString `spanner:"parent_id"`
	Name       string             `spanner:"name"`
}
