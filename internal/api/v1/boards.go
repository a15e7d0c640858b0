package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
)

type Board struct {
	Columns []dashboard.Column `json:"columns"`
}

type GetBoardOutput struct {
	Body *Board
}

type GetDashboardOutput struct {
	Body *dashboard.Stats
}

func RegisterBoardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/board",
		Summary:     "Get the tenant's kanban board",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*GetBoardOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		tasks, err := store.Tasks().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list tasks for board", err)
		}

		return &GetBoardOutput{Body: &Board{Columns: dashboard.Board(tasks)}}, nil
	})
}

// RegisterDashboardRoutes mounts the stats endpoint. now is the reference time
// for the weekly completion window.
func RegisterDashboardRoutes(api huma.API, store DataStore, mode dashboard.WeeklyMode, now func() time.Time) {
	huma.Register(api, huma.Operation{
		OperationID: "get-dashboard",
		Method:      http.MethodGet,
		Path:        "/dashboard",
		Summary:     "Get tenant task statistics",
		Tags:        []string{"Boards"},
	}, func(ctx context.Context, _ *struct{}) (*GetDashboardOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		tasks, err := store.Tasks().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list tasks", err)
		}
		users, err := store.Users().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list users", err)
		}

		stats := dashboard.Compute(tasks, users, now(), mode)
		return &GetDashboardOutput{Body: &stats}, nil
	})
}
