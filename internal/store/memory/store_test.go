package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/seed"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/store/memory"
)

var seedStart = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

var fixture = sync.OnceValues(func() (*seed.Fixture, error) {
	return seed.Default(seedStart)
})

// stepClock advances one second on every read.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func newStore(t *testing.T, opts ...memory.Option) *memory.Store {
	t.Helper()

	f, err := fixture()
	require.NoError(t, err)

	return memory.New(f, opts...)
}

func newClockedStore(t *testing.T) *memory.Store {
	t.Helper()
	clock := &stepClock{t: seedStart}
	return newStore(t, memory.WithClock(clock.Now))
}

func TestStore_TenantScopedQueries(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	_, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "Global roadmap"}, "t2", "u9", "unknown")
	require.NoError(t, err)

	for _, tenantID := range []string{"t1", "t2", "t3"} {
		users, err := s.Users().ListByTenant(ctx, tenantID)
		require.NoError(t, err)
		for _, u := range users {
			assert.Equal(t, tenantID, u.TenantID)
		}

		teams, err := s.Teams().ListByTenant(ctx, tenantID)
		require.NoError(t, err)
		for _, tm := range teams {
			assert.Equal(t, tenantID, tm.TenantID)
		}

		tasks, err := s.Tasks().ListByTenant(ctx, tenantID)
		require.NoError(t, err)
		for _, tk := range tasks {
			assert.Equal(t, tenantID, tk.TenantID)
		}

		logs, err := s.AuditLogs().ListByTenant(ctx, tenantID)
		require.NoError(t, err)
		for _, a := range logs {
			assert.Equal(t, tenantID, a.TenantID)
		}
	}

	users, err := s.Users().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"u1", "u2", "u3"}, []string{users[0].ID, users[1].ID, users[2].ID})

	none, err := s.Users().ListByTenant(ctx, "t2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_Lookups(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	tenant, err := s.Tenants().GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", tenant.Name)

	_, err = s.Tenants().GetByID(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	u, err := s.Users().GetByEmail(ctx, "manager@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)

	_, err = s.Users().GetByEmail(ctx, "MANAGER@acme.com")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Users().GetByID(ctx, "t2", "u2")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.Tasks().GetByID(ctx, "t2", "tk1")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_CreateTask(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	before, err := s.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)

	created, err := s.Tasks().Create(ctx, domain.TaskInput{
		Title:      "  Write release notes ",
		Priority:   domain.TaskPriorityHigh,
		DueDate:    "2024-06-10",
		AssignedTo: "u3",
	}, "t1", "u2", "tm2")
	require.NoError(t, err)

	assert.Equal(t, "Write release notes", created.Title)
	assert.Equal(t, domain.TaskStatusTodo, created.Status)
	assert.Equal(t, "Charlie Member", created.AssignedToName)
	assert.Equal(t, "t1", created.TenantID)
	assert.Equal(t, "u2", created.CreatedByUserID)
	assert.Equal(t, "tm2", created.TeamID)
	assert.Nil(t, created.CompletedAt)
	assert.Regexp(t, `^tk\d+$`, created.ID)

	after, err := s.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	assert.Equal(t, created.ID, after[len(after)-1].ID)
	for _, old := range before {
		assert.NotEqual(t, old.ID, created.ID)
	}

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditTaskCreated, logs[0].Action)
	assert.Equal(t, "Bob Manager", logs[0].UserName)
	assert.Equal(t, "Created task: Write release notes", logs[0].Details)
	assert.Equal(t, created.CreatedAt, logs[0].Timestamp)
}

func TestStore_CreateTask_UnknownPeople(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	created, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "Orphan", AssignedTo: "ghost"}, "t1", "nobody", "tm1")
	require.NoError(t, err)
	assert.Empty(t, created.AssignedToName)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.AuditActorFallback, logs[0].UserName)
}

// newTwoTenantStore adds a t2 user and team next to the default fixture.
func newTwoTenantStore(t *testing.T) *memory.Store {
	t.Helper()

	f, err := fixture()
	require.NoError(t, err)

	c := f.Clone()
	c.Users = append(c.Users, &domain.User{ID: "u9", Email: "ceo@global.tech", FullName: "Grace Global", Role: domain.RoleAdmin, TenantID: "t2"})
	c.Teams = append(c.Teams, &domain.Team{ID: "tm9", Name: "Board", TenantID: "t2"})

	clock := &stepClock{t: seedStart}
	return memory.New(c, memory.WithClock(clock.Now))
}

func TestStore_NameSnapshotsStayInTenant(t *testing.T) {
	t.Parallel()

	s := newTwoTenantStore(t)
	ctx := context.Background()

	created, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "Leak", AssignedTo: "u9"}, "t1", "u9", "tm1")
	require.NoError(t, err)
	assert.Empty(t, created.AssignedToName, "assignee from another tenant is not resolved")

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.AuditActorFallback, logs[0].UserName)

	to := "u9"
	updated, err := s.Tasks().Update(ctx, "tk3", domain.TaskPatch{AssignedTo: &to}, "u2")
	require.NoError(t, err)
	assert.Empty(t, updated.AssignedToName)

	// Same tenant still resolves.
	own, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "Own", AssignedTo: "u9"}, "t2", "u9", "tm9")
	require.NoError(t, err)
	assert.Equal(t, "Grace Global", own.AssignedToName)
}

func TestStore_CreateTask_Done(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)

	created, err := s.Tasks().Create(context.Background(), domain.TaskInput{Title: "Already shipped", Status: domain.TaskStatusDone}, "t1", "u1", "tm1")
	require.NoError(t, err)
	require.NotNil(t, created.CompletedAt)
	assert.Equal(t, created.CreatedAt, *created.CompletedAt)
}

func TestStore_CreateTask_Invalid(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	_, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "   "}, "t1", "u1", "tm1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestStore_UniqueIDsUnderRapidCreation(t *testing.T) {
	t.Parallel()

	frozen := func() time.Time { return seedStart }
	s := newStore(t, memory.WithClock(frozen))
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tk, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "burst"}, "t1", "u1", "tm1")
			assert.NoError(t, err)
			ids <- tk.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, logs, n+1)
}

func TestStore_UpdateTask(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	status := domain.TaskStatusDone
	updated, err := s.Tasks().Update(ctx, "tk3", domain.TaskPatch{Status: &status}, "u3")
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusDone, updated.Status)
	assert.NotNil(t, updated.CompletedAt)
	assert.Equal(t, "UI Review", updated.Title)
	assert.Equal(t, domain.TaskPriorityLow, updated.Priority)
	assert.Equal(t, "2024-06-01", updated.DueDate)
	assert.Equal(t, "Charlie Member", updated.AssignedToName)

	stored, err := s.Tasks().GetByID(ctx, "t1", "tk3")
	require.NoError(t, err)
	assert.Equal(t, updated, stored)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditTaskUpdated, logs[0].Action)
	assert.Equal(t, "Charlie Member", logs[0].UserName)
	assert.Equal(t, "Updated task: UI Review", logs[0].Details)
}

func TestStore_UpdateTask_Reassign(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)

	to := "u1"
	title := "UI Review v2"
	updated, err := s.Tasks().Update(context.Background(), "tk3", domain.TaskPatch{AssignedTo: &to, Title: &title}, "u2")
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.AssignedTo)
	assert.Equal(t, "Alice Admin", updated.AssignedToName)

	logs, err := s.AuditLogs().ListByTenant(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Updated task: UI Review v2", logs[0].Details)
}

func TestStore_UpdateTask_NotFound(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	title := "x"
	_, err := s.Tasks().Update(ctx, "tk404", domain.TaskPatch{Title: &title}, "u1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	bad := domain.TaskStatus("BLOCKED")
	_, err = s.Tasks().Update(ctx, "tk1", domain.TaskPatch{Status: &bad}, "u1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestStore_DeleteTask(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	require.NoError(t, s.Tasks().Delete(ctx, "tk2", "u1"))

	tasks, err := s.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "tk1", tasks[0].ID)
	assert.Equal(t, "tk3", tasks[1].ID)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditTaskDeleted, logs[0].Action)
	assert.Equal(t, "Deleted task: Design Database Schema", logs[0].Details)
}

func TestStore_DeleteMissingTaskIsSilentNoOp(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	tasksBefore, err := s.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	logsBefore, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)

	require.NoError(t, s.Tasks().Delete(ctx, "tk404", "u1"))

	tasksAfter, err := s.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	logsAfter, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)

	assert.Equal(t, tasksBefore, tasksAfter)
	assert.Equal(t, logsBefore, logsAfter)
}

func TestStore_AuditNewestFirst(t *testing.T) {
	t.Parallel()

	s := newClockedStore(t)
	ctx := context.Background()

	tk, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "a"}, "t1", "u1", "tm1")
	require.NoError(t, err)
	title := "b"
	_, err = s.Tasks().Update(ctx, tk.ID, domain.TaskPatch{Title: &title}, "u2")
	require.NoError(t, err)
	require.NoError(t, s.Tasks().Delete(ctx, tk.ID, "u1"))

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, logs, 4)

	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i-1].Timestamp.Before(logs[i].Timestamp))
	}
	assert.Equal(t, domain.AuditTaskDeleted, logs[0].Action)
	assert.Equal(t, domain.AuditTaskUpdated, logs[1].Action)
	assert.Equal(t, domain.AuditTaskCreated, logs[2].Action)
	assert.Equal(t, "a1", logs[3].ID)
}

func TestStore_AuditTiesNewestInsertedFirst(t *testing.T) {
	t.Parallel()

	frozen := func() time.Time { return seedStart }
	s := newStore(t, memory.WithClock(frozen))
	ctx := context.Background()

	first, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "first"}, "t1", "u1", "tm1")
	require.NoError(t, err)
	second, err := s.Tasks().Create(ctx, domain.TaskInput{Title: "second"}, "t1", "u1", "tm1")
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	logs, err := s.AuditLogs().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "Created task: second", logs[0].Details)
	assert.Equal(t, "Created task: first", logs[1].Details)
}

func TestStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	s := newStore(t)
	ctx := context.Background()

	tasks, err := s.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	tasks[0].Title = "tampered"

	again, err := s.Tasks().GetByID(ctx, "t1", tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Implement JWT Auth", again.Title)
}

func TestStore_IndependentOfFixture(t *testing.T) {
	t.Parallel()

	a := newStore(t)
	b := newStore(t)
	ctx := context.Background()

	require.NoError(t, a.Tasks().Delete(ctx, "tk1", "u1"))

	tasks, err := b.Tasks().ListByTenant(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestStore_NilFixture(t *testing.T) {
	t.Parallel()

	s := memory.New(nil)
	tasks, err := s.Tasks().ListByTenant(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
