package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

const auditColumns = `id, action, user_id, user_name, tenant_id, timestamp, details`

func (r *AuditRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+auditColumns+`
		 FROM audit_logs WHERE tenant_id = $1
		 ORDER BY timestamp DESC, seq DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var a domain.AuditLog
		if err := rows.Scan(&a.ID, &a.Action, &a.UserID, &a.UserName, &a.TenantID, &a.Timestamp, &a.Details); err != nil {
			return nil, fmt.Errorf("auditRepo.ListByTenant: scan: %w", err)
		}
		logs = append(logs, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditRepo.ListByTenant: rows: %w", err)
	}

	return logs, nil
}

// recordAudit appends an entry inside the caller's transaction. The user name
// is snapshotted from the users table at write time.
func recordAudit(ctx context.Context, tx pgx.Tx, id, action, userID, tenantID, details string, at time.Time) error {
	name, err := lookupName(ctx, tx, tenantID, userID)
	if err != nil {
		return fmt.Errorf("recordAudit: %w", err)
	}
	if name == "" {
		name = domain.AuditActorFallback
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, action, userID, name, tenantID, at, details,
	)
	if err != nil {
		return fmt.Errorf("recordAudit: %w", err)
	}

	return nil
}

// lookupName returns the full name of a user in tenantID, or "" when there is
// no such user in that tenant.
func lookupName(ctx context.Context, tx pgx.Tx, tenantID, userID string) (string, error) {
	if userID == "" {
		return "", nil
	}
	var name string
	err := tx.QueryRow(ctx, `SELECT full_name FROM users WHERE id = $1 AND tenant_id = $2`, userID, tenantID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
