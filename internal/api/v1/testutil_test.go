package v1_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/seed"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server/middleware"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/store/memory"
)

// ---------------------------------------------------------------------------
// Context helpers: inject tenant/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func adminCtx() context.Context {
	return middleware.WithIdentity(context.Background(), "t1", "u1", domain.RoleAdmin)
}

func managerCtx() context.Context {
	return middleware.WithIdentity(context.Background(), "t1", "u2", domain.RoleManager)
}

func memberCtx() context.Context {
	return middleware.WithIdentity(context.Background(), "t1", "u3", domain.RoleMember)
}

// ---------------------------------------------------------------------------
// Seeded in-memory store
// ---------------------------------------------------------------------------

var seedNow = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

var fixture = sync.OnceValues(func() (*seed.Fixture, error) {
	return seed.Default(seedNow)
})

func seededStore(t *testing.T) *memory.Store {
	t.Helper()

	f, err := fixture()
	require.NoError(t, err)

	return memory.New(f, memory.WithClock(func() time.Time { return seedNow }))
}

// twoTenantStore is seededStore plus a t2 user (u9) and team (tm9).
func twoTenantStore(t *testing.T) *memory.Store {
	t.Helper()

	f, err := fixture()
	require.NoError(t, err)

	c := f.Clone()
	c.Users = append(c.Users, &domain.User{ID: "u9", Email: "ceo@global.tech", FullName: "Grace Global", Role: domain.RoleAdmin, TenantID: "t2"})
	c.Teams = append(c.Teams, &domain.Team{ID: "tm9", Name: "Board", TenantID: "t2"})

	return memory.New(c, memory.WithClock(func() time.Time { return seedNow }))
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants domain.TenantRepository
	users   domain.UserRepository
	teams   domain.TeamRepository
	tasks   domain.TaskRepository
	audit   domain.AuditRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository  { return m.tenants }
func (m *mockDataStore) Users() domain.UserRepository      { return m.users }
func (m *mockDataStore) Teams() domain.TeamRepository      { return m.teams }
func (m *mockDataStore) Tasks() domain.TaskRepository      { return m.tasks }
func (m *mockDataStore) AuditLogs() domain.AuditRepository { return m.audit }

// ---------------------------------------------------------------------------
// Mock repositories
// ---------------------------------------------------------------------------

type mockTeamRepo struct {
	listFunc func(ctx context.Context, tenantID string) ([]*domain.Team, error)
}

func (m *mockTeamRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Team, error) {
	return m.listFunc(ctx, tenantID)
}

type mockAuditRepo struct {
	listFunc func(ctx context.Context, tenantID string) ([]*domain.AuditLog, error)
}

func (m *mockAuditRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.AuditLog, error) {
	return m.listFunc(ctx, tenantID)
}

type mockTaskRepo struct {
	listFunc    func(ctx context.Context, tenantID string) ([]*domain.Task, error)
	getByIDFunc func(ctx context.Context, tenantID, id string) (*domain.Task, error)
	createFunc  func(ctx context.Context, in domain.TaskInput, tenantID, creatorID, teamID string) (*domain.Task, error)
	updateFunc  func(ctx context.Context, id string, patch domain.TaskPatch, actorID string) (*domain.Task, error)
	deleteFunc  func(ctx context.Context, id, actorID string) error
}

func (m *mockTaskRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Task, error) {
	return m.listFunc(ctx, tenantID)
}

func (m *mockTaskRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Task, error) {
	return m.getByIDFunc(ctx, tenantID, id)
}

func (m *mockTaskRepo) Create(ctx context.Context, in domain.TaskInput, tenantID, creatorID, teamID string) (*domain.Task, error) {
	return m.createFunc(ctx, in, tenantID, creatorID, teamID)
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, patch domain.TaskPatch, actorID string) (*domain.Task, error) {
	return m.updateFunc(ctx, id, patch, actorID)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id, actorID string) error {
	return m.deleteFunc(ctx, id, actorID)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	loginFunc       func(ctx context.Context, email, secret string) (*auth.Session, error)
	currentUserFunc func(ctx context.Context, token string) (*domain.User, error)
}

func (m *mockAuthService) Login(ctx context.Context, email, secret string) (*auth.Session, error) {
	return m.loginFunc(ctx, email, secret)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return m.currentUserFunc(ctx, token)
}

// ---------------------------------------------------------------------------
// Recording publisher and recorder
// ---------------------------------------------------------------------------

type publishedEvent struct {
	tenantID string
	event    ws.BoardEvent
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (m *mockPublisher) PublishBoard(_ context.Context, tenantID string, ev ws.BoardEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{tenantID: tenantID, event: ev})
	return m.err
}

func (m *mockPublisher) published() []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedEvent(nil), m.events...)
}

type mockRecorder struct {
	mu        sync.Mutex
	logins    []bool
	mutations []string
}

func (m *mockRecorder) LoginAttempt(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins = append(m.logins, success)
}

func (m *mockRecorder) TaskMutation(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations = append(m.mutations, op)
}
