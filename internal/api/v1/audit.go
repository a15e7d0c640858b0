package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type ListAuditLogsInput struct {
	Limit int `query:"limit" minimum:"1" maximum:"500" default:"50" doc:"Max entries, newest first"`
}

type ListAuditLogsOutput struct {
	Body []*domain.AuditLog
}

func RegisterAuditRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-audit-logs",
		Method:      http.MethodGet,
		Path:        "/audit-logs",
		Summary:     "List the tenant's audit trail",
		Tags:        []string{"Audit"},
	}, func(ctx context.Context, input *ListAuditLogsInput) (*ListAuditLogsOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		logs, err := store.AuditLogs().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list audit logs", err)
		}
		if input.Limit > 0 && len(logs) > input.Limit {
			logs = logs[:input.Limit]
		}

		return &ListAuditLogsOutput{Body: logs}, nil
	})
}
