package memory

import (
	"context"
	"slices"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type AuditRepo struct {
	s *Store
}

// ListByTenant returns the tenant's entries newest first. Entries sharing a
// timestamp are ordered by insertion, latest first.
func (r *AuditRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.AuditLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	logs := make([]*domain.AuditLog, 0)
	for i := len(r.s.auditLog) - 1; i >= 0; i-- {
		if a := r.s.auditLog[i]; a.TenantID == tenantID {
			cp := *a
			logs = append(logs, &cp)
		}
	}

	slices.SortStableFunc(logs, func(a, b *domain.AuditLog) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return logs, nil
}
