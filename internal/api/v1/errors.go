package v1

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server/middleware"
)

// storeError maps a data layer error onto an HTTP problem. Unexpected errors
// are logged and reported as 500 without the cause.
func storeError(msg string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return huma.Error404NotFound(msg)
	case errors.Is(err, domain.ErrInvalidInput):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return huma.Error403Forbidden(msg)
	default:
		log.Error().Err(err).Msg(msg)
		return huma.Error500InternalServerError(msg)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// caller returns the tenant and user bound by the auth middleware.
func caller(ctx context.Context) (tenantID, userID string, err error) {
	tenantID, ok := middleware.TenantIDFromContext(ctx)
	if !ok || tenantID == "" {
		return "", "", huma.Error403Forbidden("missing tenant context")
	}
	userID, _ = middleware.UserIDFromContext(ctx)
	return tenantID, userID, nil
}
