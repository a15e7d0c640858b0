package domain

import (
	"context"
	"time"
)

const (
	AuditTaskCreated = "TASK_CREATED"
	AuditTaskUpdated = "TASK_UPDATED"
	AuditTaskDeleted = "TASK_DELETED"
)

// AuditActorFallback names the actor when the acting user cannot be resolved.
const AuditActorFallback = "System"

// AuditLog is append-only. UserName is a snapshot taken when the entry is
// written.
type AuditLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	TenantID  string    `json:"tenantId"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}

// AuditRepository only reads. Entries are written by TaskRepository.
type AuditRepository interface {
	// ListByTenant returns entries newest first.
	ListByTenant(ctx context.Context, tenantID string) ([]*AuditLog, error)
}
