package server

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/v1"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/metrics"
)

func registerAuthRoutes(api huma.API, authSvc v1.AuthService, m *metrics.Metrics) {
	v1.RegisterAuthRoutes(api, authSvc, m)
}

func registerAPIRoutes(api huma.API, store v1.DataStore, hub *ws.Hub, m *metrics.Metrics, weekly dashboard.WeeklyMode, now func() time.Time) {
	v1.RegisterTenantRoutes(api, store)
	v1.RegisterTaskRoutes(api, store, hub, m)
	v1.RegisterBoardRoutes(api, store)
	v1.RegisterDashboardRoutes(api, store, weekly, now)
	v1.RegisterAuditRoutes(api, store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/board", hub.ServeBoard)
}
