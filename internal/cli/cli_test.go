package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/cli"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/config"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/metrics"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/seed"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/server"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/session"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/store/memory"
)

const jwtSecret = "cli-test-secret-that-is-32-chars-long"

func newApp(t *testing.T) (*cli.App, *bytes.Buffer) {
	t.Helper()

	f, err := seed.Default(time.Now())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{
		Server:    config.ServerConfig{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second},
		Store:     config.StoreMemory,
		JWT:       config.JWTConfig{Secret: jwtSecret, TTL: time.Hour},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
		Dashboard: config.DashboardConfig{Weekly: dashboard.WeeklyDemo},
	}
	store := memory.New(f)
	authSvc := auth.NewService(store.Users(), jwtSecret, time.Hour, 0)
	srv := server.New(ctx, cfg, store, ws.NewLocalBroker(), authSvc, metrics.New("nexus"))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	out := &bytes.Buffer{}
	return &cli.App{
		Out:      out,
		Sessions: session.NewFileStore(filepath.Join(t.TempDir(), "session.json")),
		Server:   ts.URL,
	}, out
}

func run(t *testing.T, app *cli.App, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	require.NoError(t, app.Run(context.Background(), args))
	return out.String()
}

func TestCLI_RequiresLogin(t *testing.T) {
	t.Parallel()

	app, _ := newApp(t)

	err := app.Run(context.Background(), []string{"board"})
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestCLI_LoginWhoamiLogout(t *testing.T) {
	t.Parallel()

	app, out := newApp(t)

	err := app.Run(context.Background(), []string{"login", "--email", "admin@acme.com", "--secret", "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or secret")

	got := run(t, app, out, "login", "--email", "admin@acme.com", "--secret", "hashed_password")
	assert.Contains(t, got, "Alice Admin")

	sess, err := app.Sessions.Load()
	require.NoError(t, err)
	assert.Equal(t, app.Server, sess.Server)

	got = run(t, app, out, "whoami")
	assert.Contains(t, got, "admin@acme.com")
	assert.Contains(t, got, "ADMIN")

	got = run(t, app, out, "whoami", "--verify")
	assert.Contains(t, got, "Alice Admin")

	run(t, app, out, "logout")
	_, err = app.Sessions.Load()
	require.ErrorIs(t, err, session.ErrNoSession)
}

func TestCLI_BoardAndDashboard(t *testing.T) {
	t.Parallel()

	app, out := newApp(t)
	run(t, app, out, "login", "--email", "member@acme.com", "--secret", "hashed_password")

	got := run(t, app, out, "board")
	assert.Contains(t, got, "To Do (1)")
	assert.Contains(t, got, "In Progress (1)")
	assert.Contains(t, got, "Completed (1)")
	assert.Contains(t, got, "UI Review")

	got = run(t, app, out, "dashboard")
	assert.Contains(t, got, "Active users")
	assert.Contains(t, got, "demo data")

	got = run(t, app, out, "teams")
	assert.Contains(t, got, "Engineering")

	got = run(t, app, out, "users")
	assert.Contains(t, got, "Charlie Member")
}

func TestCLI_TaskLifecycle(t *testing.T) {
	t.Parallel()

	app, out := newApp(t)
	run(t, app, out, "login", "--email", "manager@acme.com", "--secret", "hashed_password")

	got := run(t, app, out, "tasks", "create", "--title", "Launch", "--priority", "HIGH")
	assert.Contains(t, got, "Created tk")
	assert.Contains(t, got, "To Do (2)")

	got = run(t, app, out, "tasks", "--status", "TODO")
	assert.Contains(t, got, "Launch")
	assert.NotContains(t, got, "Design Database Schema")

	got = run(t, app, out, "tasks", "move", "tk3")
	assert.Contains(t, got, "tk3 is now In Progress")

	got = run(t, app, out, "tasks", "done", "tk3")
	assert.Contains(t, got, "tk3 is now Completed")

	err := app.Run(context.Background(), []string{"tasks", "move", "tk3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already Completed")

	got = run(t, app, out, "tasks", "start", "tk1")
	assert.Contains(t, got, "tk1 is now In Progress")

	got = run(t, app, out, "tasks", "delete", "tk2")
	assert.Contains(t, got, "Deleted tk2")

	got = run(t, app, out, "audit", "--limit", "2")
	assert.Contains(t, got, "TASK_DELETED")
	assert.Contains(t, got, "Bob Manager")
}

func TestCLI_MemberDeletesAndReadsAudit(t *testing.T) {
	t.Parallel()

	app, out := newApp(t)
	run(t, app, out, "login", "--email", "member@acme.com", "--secret", "hashed_password")

	got := run(t, app, out, "tasks", "delete", "tk1")
	assert.Contains(t, got, "Deleted tk1")
	assert.Contains(t, got, "Completed (0)")

	got = run(t, app, out, "audit")
	assert.Contains(t, got, "TASK_DELETED")
	assert.Contains(t, got, "Charlie Member")
}

func TestCLI_Usage(t *testing.T) {
	t.Parallel()

	app, out := newApp(t)

	require.ErrorIs(t, app.Run(context.Background(), []string{"bogus"}), cli.ErrUsage)
	require.ErrorIs(t, app.Run(context.Background(), []string{"login"}), cli.ErrUsage)
	require.ErrorIs(t, app.Run(context.Background(), []string{"tasks", "start"}), cli.ErrUsage)

	got := run(t, app, out, "--help")
	assert.Contains(t, got, "dashboard")
	assert.Contains(t, got, "audit")
}
