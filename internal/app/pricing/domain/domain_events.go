package domain

import (
	"sort"
	"time"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// SettingsSavedEvent is emitted when an administrator replaces the discount configuration.
type SettingsSavedEvent struct {
	Revision           string            `json:"revision"`
	EnabledRoles       map[string]bool   `json:"enabled_roles"`
	DefaultPercents    map[string]string `json:"default_percents"`
	OverrideCount      int               `json:"override_count"`
	OverrideCategories []string          `json:"override_categories"`
	SavedAt            time.Time         `json:"saved_at"`
}

func (e *SettingsSavedEvent) EventType() string {
	return "discount_settings.saved"
}

func (e *SettingsSavedEvent) AggregateID() string {
	return e.Revision
}

// NewSettingsSavedEvent summarizes cfg for the audit trail.
func NewSettingsSavedEvent(cfg *DiscountConfiguration) *SettingsSavedEvent {
	event := &SettingsSavedEvent{
		Revision:        cfg.Revision,
		EnabledRoles:    make(map[string]bool, len(cfg.EnabledRoles)),
		DefaultPercents: make(map[string]string, len(cfg.DefaultPercentByRole)),
		SavedAt:         cfg.UpdatedAt,
	}
	for role, on := range cfg.EnabledRoles {
		event.EnabledRoles[role] = on
	}
	for role, p := range cfg.DefaultPercentByRole {
		event.DefaultPercents[role] = p.StringFixed(PercentPlaces)
	}
	for categoryID, byRole := range cfg.CategoryOverrides {
		event.OverrideCategories = append(event.OverrideCategories, categoryID)
		event.OverrideCount += len(byRole)
	}
	sort.Strings(event.OverrideCategories)
	return event
}
