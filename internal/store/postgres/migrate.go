package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/seed"
)

//go:embed schema.sql
var schemaSQL string

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres.Migrate: %w", err)
	}
	return nil
}

// Seed inserts the fixture rows. Rows that already exist are left alone, so
// seeding an existing database is a no-op.
func (s *Store) Seed(ctx context.Context, f *seed.Fixture) error {
	batch := &pgx.Batch{}

	for _, t := range f.Tenants {
		batch.Queue(
			`INSERT INTO tenants (id, name, domain, created_at) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Name, t.Domain, t.CreatedAt,
		)
	}
	for _, u := range f.Users {
		batch.Queue(
			`INSERT INTO users (id, tenant_id, email, full_name, role, avatar_url, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			u.ID, u.TenantID, u.Email, u.FullName, u.Role, nilIfEmpty(u.AvatarURL), u.PasswordHash,
		)
	}
	for _, t := range f.Teams {
		batch.Queue(
			`INSERT INTO teams (id, tenant_id, name, member_count) VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO NOTHING`,
			t.ID, t.TenantID, t.Name, t.MemberCount,
		)
	}
	for _, t := range f.Tasks {
		batch.Queue(
			`INSERT INTO tasks (`+taskColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 ON CONFLICT (id) DO NOTHING`,
			taskArgs(t)...,
		)
	}
	for _, a := range f.AuditLogs {
		batch.Queue(
			`INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Action, a.UserID, a.UserName, a.TenantID, a.Timestamp, a.Details,
		)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres.Seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("postgres.Seed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres.Seed: commit: %w", err)
	}
	return nil
}
