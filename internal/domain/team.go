package domain

import "context"

type Team struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TenantID    string `json:"tenantId"`
	MemberCount int    `json:"memberCount"`
}

type TeamRepository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]*Team, error)
}
