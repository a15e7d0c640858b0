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

type TaskRepo struct {
	pool *pgxpool.Pool
	ids  *domain.IDGenerator
	now  func() time.Time
}

func NewTaskRepo(pool *pgxpool.Pool, ids *domain.IDGenerator, now func() time.Time) *TaskRepo {
	return &TaskRepo{pool: pool, ids: ids, now: now}
}

const taskColumns = `id, tenant_id, title, description, status, priority, due_date,
	assigned_to, assigned_to_name, team_id, created_by_user_id, created_at, completed_at`

func taskArgs(t *domain.Task) []any {
	return []any{
		t.ID, t.TenantID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.AssignedTo, t.AssignedToName, t.TeamID, t.CreatedByUserID, t.CreatedAt, t.CompletedAt,
	}
}

func (r *TaskRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE tenant_id = $1 ORDER BY seq`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	return scanTasks(rows, "taskRepo.ListByTenant")
}

func (r *TaskRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) Create(ctx context.Context, in domain.TaskInput, tenantID, creatorID, teamID string) (*domain.Task, error) {
	if err := in.Normalize(); err != nil {
		return nil, fmt.Errorf("taskRepo.Create: %w", err)
	}

	now := r.now()
	t := &domain.Task{
		ID:              r.ids.Next(domain.TaskIDPrefix),
		Title:           in.Title,
		Description:     in.Description,
		Status:          in.Status,
		Priority:        in.Priority,
		DueDate:         in.DueDate,
		AssignedTo:      in.AssignedTo,
		TeamID:          teamID,
		TenantID:        tenantID,
		CreatedByUserID: creatorID,
		CreatedAt:       now,
	}
	if t.Status == domain.TaskStatusDone {
		done := now
		t.CompletedAt = &done
	}

	err := r.inTx(ctx, func(tx pgx.Tx) error {
		name, err := lookupName(ctx, tx, tenantID, t.AssignedTo)
		if err != nil {
			return err
		}
		t.AssignedToName = name

		if _, err := tx.Exec(ctx,
			`INSERT INTO tasks (`+taskColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			taskArgs(t)...,
		); err != nil {
			return err
		}

		return recordAudit(ctx, tx, r.ids.Next(domain.AuditIDPrefix),
			domain.AuditTaskCreated, creatorID, tenantID, "Created task: "+t.Title, now)
	})
	if err != nil {
		return nil, fmt.Errorf("taskRepo.Create: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch, actorID string) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("taskRepo.Update: %w", err)
	}

	var t *domain.Task
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		t, err = scanTask(tx.QueryRow(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE id = $1 FOR UPDATE`,
			id,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		now := r.now()
		if patch.Apply(t, now) {
			if t.AssignedToName, err = lookupName(ctx, tx, t.TenantID, t.AssignedTo); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE tasks SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
			        assigned_to = $6, assigned_to_name = $7, team_id = $8, completed_at = $9
			 WHERE id = $10`,
			t.Title, t.Description, t.Status, t.Priority, t.DueDate,
			t.AssignedTo, t.AssignedToName, t.TeamID, t.CompletedAt,
			t.ID,
		); err != nil {
			return err
		}

		return recordAudit(ctx, tx, r.ids.Next(domain.AuditIDPrefix),
			domain.AuditTaskUpdated, actorID, t.TenantID, "Updated task: "+t.Title, now)
	})
	if err != nil {
		return nil, fmt.Errorf("taskRepo.Update: %w", err)
	}

	return t, nil
}

// Delete removes the task and records the deletion. A missing id is not an
// error and writes no audit entry.
func (r *TaskRepo) Delete(ctx context.Context, id, actorID string) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		var tenantID, title string
		err := tx.QueryRow(ctx,
			`DELETE FROM tasks WHERE id = $1 RETURNING tenant_id, title`,
			id,
		).Scan(&tenantID, &title)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		return recordAudit(ctx, tx, r.ids.Next(domain.AuditIDPrefix),
			domain.AuditTaskDeleted, actorID, tenantID, "Deleted task: "+title, r.now())
	})
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}

	return nil
}

func (r *TaskRepo) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
		&t.AssignedTo, &t.AssignedToName, &t.TeamID, &t.CreatedByUserID, &t.CreatedAt, &t.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTasks(rows pgx.Rows, caller string) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", caller, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", caller, err)
	}

	return tasks, nil
}
