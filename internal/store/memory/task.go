package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type TaskRepo struct {
	s *Store
}

func (r *TaskRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range r.s.tasks {
		if t.TenantID == tenantID {
			tasks = append(tasks, copyTask(t))
		}
	}
	return tasks, nil
}

func (r *TaskRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if i := r.index(id); i >= 0 && r.s.tasks[i].TenantID == tenantID {
		return copyTask(r.s.tasks[i]), nil
	}
	return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
}

func (r *TaskRepo) Create(_ context.Context, in domain.TaskInput, tenantID, creatorID, teamID string) (*domain.Task, error) {
	if err := in.Normalize(); err != nil {
		return nil, fmt.Errorf("taskRepo.Create: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	name, _ := r.s.userName(tenantID, in.AssignedTo)
	t := &domain.Task{
		ID:              r.s.ids.Next(domain.TaskIDPrefix),
		Title:           in.Title,
		Description:     in.Description,
		Status:          in.Status,
		Priority:        in.Priority,
		DueDate:         in.DueDate,
		AssignedTo:      in.AssignedTo,
		AssignedToName:  name,
		TeamID:          teamID,
		TenantID:        tenantID,
		CreatedByUserID: creatorID,
		CreatedAt:       now,
	}
	if t.Status == domain.TaskStatusDone {
		done := now
		t.CompletedAt = &done
	}

	r.s.tasks = append(r.s.tasks, t)
	r.s.appendAudit(domain.AuditTaskCreated, creatorID, tenantID, "Created task: "+t.Title, now)

	return copyTask(t), nil
}

func (r *TaskRepo) Update(_ context.Context, id string, patch domain.TaskPatch, actorID string) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("taskRepo.Update: %w", err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	now := r.s.now()
	t := r.s.tasks[i]
	if patch.Apply(t, now) {
		t.AssignedToName, _ = r.s.userName(t.TenantID, t.AssignedTo)
	}

	r.s.appendAudit(domain.AuditTaskUpdated, actorID, t.TenantID, "Updated task: "+t.Title, now)

	return copyTask(t), nil
}

func (r *TaskRepo) Delete(_ context.Context, id, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return nil
	}

	t := r.s.tasks[i]
	r.s.tasks = slices.Delete(r.s.tasks, i, i+1)
	r.s.appendAudit(domain.AuditTaskDeleted, actorID, t.TenantID, "Deleted task: "+t.Title, r.s.now())

	return nil
}

// index returns the position of id in s.tasks or -1. Caller holds s.mu.
func (r *TaskRepo) index(id string) int {
	return slices.IndexFunc(r.s.tasks, func(t *domain.Task) bool { return t.ID == id })
}

func copyTask(t *domain.Task) *domain.Task {
	cp := *t
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		cp.CompletedAt = &done
	}
	return &cp
}
