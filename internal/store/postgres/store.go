package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for task and audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
	ids  *domain.IDGenerator

	tenants *TenantRepo
	users   *UserRepo
	teams   *TeamRepo
	tasks   *TaskRepo
	audit   *AuditRepo
}

func New(ctx context.Context, dsn string, maxConns int32, opts ...Option) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	s := &Store{pool: pool, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = domain.NewIDGenerator(s.now)

	s.tenants = NewTenantRepo(pool)
	s.users = NewUserRepo(pool)
	s.teams = NewTeamRepo(pool)
	s.tasks = NewTaskRepo(pool, s.ids, s.now)
	s.audit = NewAuditRepo(pool)

	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Tenants() domain.TenantRepository  { return s.tenants }
func (s *Store) Users() domain.UserRepository      { return s.users }
func (s *Store) Teams() domain.TeamRepository      { return s.teams }
func (s *Store) Tasks() domain.TaskRepository      { return s.tasks }
func (s *Store) AuditLogs() domain.AuditRepository { return s.audit }
