package middleware

import (
	"context"
	"slices"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// HasRole reports whether the authenticated caller holds one of roles. Handlers
// use it for per-operation checks; a missing role never matches.
func HasRole(ctx context.Context, roles ...domain.Role) bool {
	role, ok := RoleFromContext(ctx)
	if !ok || role == "" {
		return false
	}
	return slices.Contains(roles, role)
}

// CanManageTasks reports whether the caller is an ADMIN or MANAGER. It feeds
// the canManageTasks hint on /me.
func CanManageTasks(ctx context.Context) bool {
	return HasRole(ctx, domain.RoleAdmin, domain.RoleManager)
}
