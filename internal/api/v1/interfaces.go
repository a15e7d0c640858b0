package v1

import (
	"context"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *memory.Store and *postgres.Store satisfy this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Users() domain.UserRepository
	Teams() domain.TeamRepository
	Tasks() domain.TaskRepository
	AuditLogs() domain.AuditRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Login(ctx context.Context, email, secret string) (*auth.Session, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
}

// BoardPublisher fans task changes out to board subscribers.
// *ws.Hub satisfies this interface.
type BoardPublisher interface {
	PublishBoard(ctx context.Context, tenantID string, ev ws.BoardEvent) error
}

// Recorder counts domain events. *metrics.Metrics satisfies this interface.
type Recorder interface {
	LoginAttempt(success bool)
	TaskMutation(op string)
}
