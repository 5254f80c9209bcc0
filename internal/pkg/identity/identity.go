// Package identity carries the requesting user's roles through a request context.
package identity

import (
	"context"
	"strings"
)

const (
	// MetadataKey is the gRPC metadata key holding comma-separated roles.
	MetadataKey = "x-user-roles"
	// HeaderName is the HTTP header holding comma-separated roles.
	HeaderName = "X-User-Roles"
)

type rolesKey struct{}

// WithRoles returns a context carrying roles.
func WithRoles(ctx context.Context, roles []string) context.Context {
	return context.WithValue(ctx, rolesKey{}, roles)
}

// RolesFromContext returns the roles stored by WithRoles, or nil for anonymous requests.
func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(rolesKey{}).([]string)
	return roles
}

// ParseRoles splits comma-separated header values into role keys.
// Blank entries are dropped; order is preserved.
func ParseRoles(values ...string) []string {
	var roles []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if role := strings.TrimSpace(part); role != "" {
				roles = append(roles, role)
			}
		}
	}
	return roles
}
