package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server/middleware"
)

type Me struct {
	User   *domain.User   `json:"user"`
	Tenant *domain.Tenant `json:"tenant"`
	// CanManageTasks is a display hint for clients. No operation is refused
	// because of it.
	CanManageTasks bool `json:"canManageTasks"`
}

type GetMeOutput struct {
	Body *Me
}

type GetTenantOutput struct {
	Body *domain.Tenant
}

type ListUsersOutput struct {
	Body []*domain.User
}

type ListTeamsOutput struct {
	Body []*domain.Team
}

// RegisterTenantRoutes mounts the read-only tenant directory: the caller, their
// tenant, its users and its teams.
func RegisterTenantRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/me",
		Summary:     "Current user and tenant",
		Tags:        []string{"Tenant"},
	}, func(ctx context.Context, _ *struct{}) (*GetMeOutput, error) {
		tenantID, userID, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		user, err := store.Users().GetByID(ctx, tenantID, userID)
		if err != nil {
			return nil, storeError("user not found", err)
		}
		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return nil, storeError("tenant not found", err)
		}

		return &GetMeOutput{Body: &Me{User: user, Tenant: tenant, CanManageTasks: middleware.CanManageTasks(ctx)}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenant",
		Summary:     "Caller's tenant",
		Tags:        []string{"Tenant"},
	}, func(ctx context.Context, _ *struct{}) (*GetTenantOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return nil, storeError("tenant not found", err)
		}

		return &GetTenantOutput{Body: tenant}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List tenant users",
		Tags:        []string{"Tenant"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		users, err := store.Users().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list users", err)
		}

		return &ListUsersOutput{Body: users}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-teams",
		Method:      http.MethodGet,
		Path:        "/teams",
		Summary:     "List tenant teams",
		Tags:        []string{"Tenant"},
	}, func(ctx context.Context, _ *struct{}) (*ListTeamsOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		teams, err := store.Teams().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list teams", err)
		}

		return &ListTeamsOutput{Body: teams}, nil
	})
}
