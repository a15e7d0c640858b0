// Package memory is the default in-process data store, seeded from the demo
// fixture at start-up. State is lost when the process exits.
package memory

import (
	"sync"
	"time"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/seed"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for createdAt, completedAt and audit
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides the task and audit id source.
func WithIDGenerator(g *domain.IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// Store keeps every collection behind one mutex. A task mutation and the audit
// entry it produces are written under the same lock.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time
	ids *domain.IDGenerator

	tenants  []*domain.Tenant
	users    []*domain.User
	teams    []*domain.Team
	tasks    []*domain.Task
	auditLog []*domain.AuditLog

	tenantRepo *TenantRepo
	userRepo   *UserRepo
	teamRepo   *TeamRepo
	taskRepo   *TaskRepo
	auditRepo  *AuditRepo
}

// New builds a store holding a private copy of the fixture. A nil fixture
// yields an empty store.
func New(f *seed.Fixture, opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = domain.NewIDGenerator(s.now)
	}

	if f != nil {
		c := f.Clone()
		s.tenants = c.Tenants
		s.users = c.Users
		s.teams = c.Teams
		s.tasks = c.Tasks
		s.auditLog = c.AuditLogs
	}

	s.tenantRepo = &TenantRepo{s: s}
	s.userRepo = &UserRepo{s: s}
	s.teamRepo = &TeamRepo{s: s}
	s.taskRepo = &TaskRepo{s: s}
	s.auditRepo = &AuditRepo{s: s}

	return s
}

func (s *Store) Tenants() domain.TenantRepository  { return s.tenantRepo }
func (s *Store) Users() domain.UserRepository      { return s.userRepo }
func (s *Store) Teams() domain.TeamRepository      { return s.teamRepo }
func (s *Store) Tasks() domain.TaskRepository      { return s.taskRepo }
func (s *Store) AuditLogs() domain.AuditRepository { return s.auditRepo }

// userName resolves a display name for snapshots. Users of other tenants are
// never matched. Caller holds s.mu.
func (s *Store) userName(tenantID, id string) (string, bool) {
	for _, u := range s.users {
		if u.ID == id && u.TenantID == tenantID {
			return u.FullName, true
		}
	}
	return "", false
}

// appendAudit records a mutation. Caller holds s.mu for writing.
func (s *Store) appendAudit(action, userID, tenantID, details string, at time.Time) {
	name, ok := s.userName(tenantID, userID)
	if !ok {
		name = domain.AuditActorFallback
	}
	s.auditLog = append(s.auditLog, &domain.AuditLog{
		ID:        s.ids.Next(domain.AuditIDPrefix),
		Action:    action,
		UserID:    userID,
		UserName:  name,
		TenantID:  tenantID,
		Timestamp: at,
		Details:   details,
	})
}
