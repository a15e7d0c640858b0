package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type TeamRepo struct {
	pool *pgxpool.Pool
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func (r *TeamRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, tenant_id, member_count FROM teams WHERE tenant_id = $1 ORDER BY seq`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("teamRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.TenantID, &t.MemberCount); err != nil {
			return nil, fmt.Errorf("teamRepo.ListByTenant: scan: %w", err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("teamRepo.ListByTenant: rows: %w", err)
	}

	return teams, nil
}
