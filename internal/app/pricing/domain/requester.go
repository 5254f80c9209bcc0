package domain

import "strings"

// Requester is the role set of the visitor a price is computed for.
type Requester struct {
	Roles []string
}

// NewRequester trims roles and drops blanks and duplicates, keeping first-seen order.
func NewRequester(roles ...string) Requester {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			continue
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return Requester{Roles: out}
}

// IsAnonymous reports whether the requester holds no roles.
func (r Requester) IsAnonymous() bool {
	return len(r.Roles) == 0
}

// HasAnyRole reports whether the requester holds at least one of roles.
func (r Requester) HasAnyRole(roles []string) bool {
	for _, held := range r.Roles {
		for _, want := range roles {
			if held == want {
				return true
			}
		}
	}
	return false
}
