package memory

import (
	"context"
	"fmt"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("userRepo.GetByEmail: %w", domain.ErrNotFound)
}

func (r *UserRepo) GetByID(_ context.Context, tenantID, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ID == id && u.TenantID == tenantID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("userRepo.GetByID: %w", domain.ErrNotFound)
}

func (r *UserRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*domain.User, 0)
	for _, u := range r.s.users {
		if u.TenantID == tenantID {
			cp := *u
			users = append(users, &cp)
		}
	}
	return users, nil
}
