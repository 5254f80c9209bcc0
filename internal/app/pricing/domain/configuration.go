package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountConfiguration is the complete role/category discount setup.
//
// A role key is a member of the configuration when it appears in EnabledRoles,
// whatever its boolean value; only members whose value is true receive discounts.
// Percentages for non-members are dropped by Normalize.
type DiscountConfiguration struct {
	EnabledRoles         map[string]bool
	RoleLabels           map[string]string
	DefaultPercentByRole map[string]decimal.Decimal
	// CategoryOverrides is keyed by category id, then role key.
	CategoryOverrides map[string]map[string]decimal.Decimal

	Revision  string
	UpdatedAt time.Time
}

// NewEmptyConfiguration returns the configuration used on first activation and
// whenever the store cannot be read.
func NewEmptyConfiguration() *DiscountConfiguration {
	return &DiscountConfiguration{
		EnabledRoles:         make(map[string]bool),
		RoleLabels:           make(map[string]string),
		DefaultPercentByRole: make(map[string]decimal.Decimal),
		CategoryOverrides:    make(map[string]map[string]decimal.Decimal),
	}
}

// IsRoleEnabled reports whether discounting is active for role.
func (c *DiscountConfiguration) IsRoleEnabled(role string) bool {
	if c == nil {
		return false
	}
	return c.EnabledRoles[role]
}

// HasEnabledRoles reports whether at least one role is enabled.
func (c *DiscountConfiguration) HasEnabledRoles() bool {
	if c == nil {
		return false
	}
	for _, enabled := range c.EnabledRoles {
		if enabled {
			return true
		}
	}
	return false
}

// DefaultPercent returns the all-categories percentage for role, or 0.
func (c *DiscountConfiguration) DefaultPercent(role string) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if p, ok := c.DefaultPercentByRole[role]; ok {
		return ClampPercent(p)
	}
	return decimal.Zero
}

// CategoryPercent returns the override for (category, role), or 0 when unset.
// An explicitly stored 0 is indistinguishable from an absent override.
func (c *DiscountConfiguration) CategoryPercent(categoryID, role string) decimal.Decimal {
	if c == nil {
		return decimal.Zero
	}
	if byRole, ok := c.CategoryOverrides[categoryID]; ok {
		if p, ok := byRole[role]; ok {
			return ClampPercent(p)
		}
	}
	return decimal.Zero
}

// RoleLabel returns the display label for role, falling back to the role key.
func (c *DiscountConfiguration) RoleLabel(role string) string {
	if c != nil {
		if label := c.RoleLabels[role]; label != "" {
			return label
		}
	}
	return role
}

// Roles returns the member role keys in sorted order.
func (c *DiscountConfiguration) Roles() []string {
	roles := make([]string, 0, len(c.EnabledRoles))
	for role := range c.EnabledRoles {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// Normalize enforces the configuration invariants in place: blank keys are removed,
// every percentage is clamped to [0, 100] with two decimals, and percentages and labels
// for roles that are not members of EnabledRoles are dropped.
func (c *DiscountConfiguration) Normalize() {
	if c.EnabledRoles == nil {
		c.EnabledRoles = make(map[string]bool)
	}
	if c.RoleLabels == nil {
		c.RoleLabels = make(map[string]string)
	}
	if c.DefaultPercentByRole == nil {
		c.DefaultPercentByRole = make(map[string]decimal.Decimal)
	}
	if c.CategoryOverrides == nil {
		c.CategoryOverrides = make(map[string]map[string]decimal.Decimal)
	}

	enabled := make(map[string]bool, len(c.EnabledRoles))
	for role, on := range c.EnabledRoles {
		if role = strings.TrimSpace(role); role != "" {
			enabled[role] = enabled[role] || on
		}
	}
	c.EnabledRoles = enabled

	labels := make(map[string]string, len(c.RoleLabels))
	for role, label := range c.RoleLabels {
		role = strings.TrimSpace(role)
		if _, member := enabled[role]; member && strings.TrimSpace(label) != "" {
			labels[role] = strings.TrimSpace(label)
		}
	}
	c.RoleLabels = labels

	defaults := make(map[string]decimal.Decimal, len(c.DefaultPercentByRole))
	for role, p := range c.DefaultPercentByRole {
		role = strings.TrimSpace(role)
		if _, member := enabled[role]; member {
			defaults[role] = ClampPercent(p).Round(PercentPlaces)
		}
	}
	c.DefaultPercentByRole = defaults

	overrides := make(map[string]map[string]decimal.Decimal, len(c.CategoryOverrides))
	for categoryID, byRole := range c.CategoryOverrides {
		categoryID = strings.TrimSpace(categoryID)
		if categoryID == "" {
			continue
		}
		for role, p := range byRole {
			role = strings.TrimSpace(role)
			if _, member := enabled[role]; !member {
				continue
			}
			if overrides[categoryID] == nil {
				overrides[categoryID] = make(map[string]decimal.Decimal)
			}
			overrides[categoryID][role] = ClampPercent(p).Round(PercentPlaces)
		}
	}
	c.CategoryOverrides = overrides
}

// Clone returns a deep copy.
func (c *DiscountConfiguration) Clone() *DiscountConfiguration {
	out := NewEmptyConfiguration()
	out.Revision = c.Revision
	out.UpdatedAt = c.UpdatedAt
	for k, v := range c.EnabledRoles {
		out.EnabledRoles[k] = v
	}
	for k, v := range c.RoleLabels {
		out.RoleLabels[k] = v
	}
	for k, v := range c.DefaultPercentByRole {
		out.DefaultPercentByRole[k] = v
	}
	for categoryID, byRole := range c.CategoryOverrides {
		out.CategoryOverrides[categoryID] = make(map[string]decimal.Decimal, len(byRole))
		for role, p := range byRole {
			out.CategoryOverrides[categoryID][role] = p
		}
	}
	return out
}
