// Package payload defines the JSON shapes shared by the HTTP API and the gRPC Struct messages.
package payload

import (
	"encoding/json"
	"time"

	"github.com/light-bringer/rolediscount-service/internal/app/pricing/domain"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/queries/get_effective_price"
	"github.com/light-bringer/rolediscount-service/internal/app/pricing/usecases/save_settings"
	"github.com/light-bringer/rolediscount-service/internal/models/m_outbox"
)

// Quote is the wire form of a price quote. Money is rendered as fixed-point strings.
type Quote struct {
	ProductID      string     `json:"product_id"`
	Composite      bool       `json:"composite"`
	Percent        string     `json:"percent"`
	Role           string     `json:"role,omitempty"`
	RoleLabel      string     `json:"role_label,omitempty"`
	FromCategory   bool       `json:"from_category"`
	Effective      *Effective `json:"effective,omitempty"`
	Range          *Range     `json:"range,omitempty"`
	CompetingPrice string     `json:"competing_price,omitempty"`
	Surfaced       *Surfaced  `json:"surfaced,omitempty"`
	Display        Display    `json:"display"`
}

// Effective is the core pricing result of a simple product.
type Effective struct {
	RegularPrice string `json:"regular_price"`
	FinalPrice   string `json:"final_price"`
	IsDiscounted bool   `json:"is_discounted"`
}

// Range is the price range of a composite product.
type Range struct {
	OriginalMin string `json:"original_min"`
	OriginalMax string `json:"original_max"`
	FinalMin    string `json:"final_min"`
	FinalMax    string `json:"final_max"`
	Variants    int    `json:"variants"`
}

// Surfaced is the reconciled price.
type Surfaced struct {
	Price  string `json:"price"`
	Source string `json:"source"`
}

// Display carries the rendered storefront strings.
type Display struct {
	Price      string `json:"price"`
	Original   string `json:"original"`
	Annotation string `json:"annotation,omitempty"`
}

// FromQuote converts a quote, printing money with decimals places.
func FromQuote(q *get_effective_price.Quote, decimals int32) Quote {
	out := Quote{
		ProductID:    q.ProductID,
		Composite:    q.Composite,
		Percent:      q.Percent.String(),
		Role:         q.Role,
		RoleLabel:    q.RoleLabel,
		FromCategory: q.FromCategory,
		Display: Display{
			Price:      q.Display.Price,
			Original:   q.Display.Original,
			Annotation: q.Display.Annotation,
		},
	}
	if q.Effective != nil {
		out.Effective = &Effective{
			RegularPrice: q.Effective.RegularPrice.StringFixed(decimals),
			FinalPrice:   q.Effective.FinalPrice.StringFixed(decimals),
			IsDiscounted: q.Effective.IsDiscounted,
		}
	}
	if q.Range != nil {
		out.Range = &Range{
			OriginalMin: q.Range.OriginalMin.StringFixed(decimals),
			OriginalMax: q.Range.OriginalMax.StringFixed(decimals),
			FinalMin:    q.Range.FinalMin.StringFixed(decimals),
			FinalMax:    q.Range.FinalMax.StringFixed(decimals),
			Variants:    q.Range.Variants,
		}
	}
	if q.Competing != nil {
		out.CompetingPrice = q.Competing.StringFixed(decimals)
	}
	if q.Surfaced != nil {
		out.Surfaced = &Surfaced{
			Price:  q.Surfaced.Price.StringFixed(decimals),
			Source: string(q.Surfaced.Source),
		}
	}
	return out
}

// Settings is the wire form of the discount configuration, used for reads and writes.
// Percentages are numbers on output and numbers or strings on input.
type Settings struct {
	Revision          string                    `json:"revision,omitempty"`
	UpdatedAt         *time.Time                `json:"updated_at,omitempty"`
	ExpectedRevision  string                    `json:"expected_revision,omitempty"`
	Roles             map[string]Role           `json:"roles"`
	CategoryOverrides map[string]map[string]any `json:"category_overrides"`
}

// Role is one role entry of Settings.
type Role struct {
	Enabled        bool   `json:"enabled"`
	Label          string `json:"label,omitempty"`
	DefaultPercent any    `json:"default_percent,omitempty"`
}

// FromConfiguration converts a stored configuration.
func FromConfiguration(cfg *domain.DiscountConfiguration) Settings {
	out := Settings{
		Revision:          cfg.Revision,
		Roles:             make(map[string]Role, len(cfg.EnabledRoles)),
		CategoryOverrides: make(map[string]map[string]any, len(cfg.CategoryOverrides)),
	}
	if !cfg.UpdatedAt.IsZero() {
		updated := cfg.UpdatedAt
		out.UpdatedAt = &updated
	}
	for key, enabled := range cfg.EnabledRoles {
		role := Role{Enabled: enabled, Label: cfg.RoleLabels[key]}
		if p, ok := cfg.DefaultPercentByRole[key]; ok {
			role.DefaultPercent = p.InexactFloat64()
		}
		out.Roles[key] = role
	}
	for categoryID, byRole := range cfg.CategoryOverrides {
		overrides := make(map[string]any, len(byRole))
		for role, p := range byRole {
			overrides[role] = p.InexactFloat64()
		}
		out.CategoryOverrides[categoryID] = overrides
	}
	return out
}

// ToSaveRequest converts an incoming payload into the save use case request.
func (s Settings) ToSaveRequest() *save_settings.Request {
	req := &save_settings.Request{
		EnabledRoles:      make(map[string]bool, len(s.Roles)),
		RoleLabels:        make(map[string]string, len(s.Roles)),
		DefaultPercents:   make(map[string]any, len(s.Roles)),
		CategoryOverrides: s.CategoryOverrides,
		ExpectedRevision:  s.ExpectedRevision,
	}
	for key, role := range s.Roles {
		req.EnabledRoles[key] = role.Enabled
		if role.Label != "" {
			req.RoleLabels[key] = role.Label
		}
		if role.DefaultPercent != nil {
			req.DefaultPercents[key] = role.DefaultPercent
		}
	}
	return req
}

// Event is one entry of the settings audit trail.
type Event struct {
	EventID     string          `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

// ListEventsResponse wraps a page of events.
type ListEventsResponse struct {
	Events []Event `json:"events"`
	Count  int     `json:"count"`
}

// FromOutbox converts stored outbox rows.
func FromOutbox(rows []*m_outbox.Data) ListEventsResponse {
	out := ListEventsResponse{Events: make([]Event, 0, len(rows))}
	for _, row := range rows {
		event := Event{
			EventID:     row.EventID,
			EventType:   row.EventType,
			AggregateID: row.AggregateID,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
		}
		if row.Payload.Valid {
			if b, err := json.Marshal(row.Payload.Value); err == nil {
				event.Payload = b
			}
		}
		if row.ProcessedAt.Valid {
			processed := row.ProcessedAt.Time
			event.ProcessedAt = &processed
		}
		out.Events = append(out.Events, event)
	}
	out.Count = len(out.Events)
	return out
}
