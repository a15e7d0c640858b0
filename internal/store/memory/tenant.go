package memory

import (
	"context"
	"fmt"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type TenantRepo struct {
	s *Store
}

func (r *TenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tenants {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("tenantRepo.GetByID: %w", domain.ErrNotFound)
}
