package memory

import (
	"context"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type TeamRepo struct {
	s *Store
}

func (r *TeamRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	teams := make([]*domain.Team, 0)
	for _, t := range r.s.teams {
		if t.TenantID == tenantID {
			cp := *t
			teams = append(teams, &cp)
		}
	}
	return teams, nil
}
