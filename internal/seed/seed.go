// Package seed holds the demo data every store starts from.
package seed

import (
	_ "embed"
	"fmt"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

//go:embed seed.yaml
var defaultYAML []byte

// Fixture is the decoded seed data, ready to be copied into a store.
type Fixture struct {
	Tenants   []*domain.Tenant
	Users     []*domain.User
	Teams     []*domain.Team
	Tasks     []*domain.Task
	AuditLogs []*domain.AuditLog
}

type fileFixture struct {
	Tenants []struct {
		ID        string `yaml:"id"`
		Name      string `yaml:"name"`
		Domain    string `yaml:"domain"`
		CreatedAt string `yaml:"createdAt"`
	} `yaml:"tenants"`
	Users []struct {
		ID        string `yaml:"id"`
		Email     string `yaml:"email"`
		FullName  string `yaml:"fullName"`
		Role      string `yaml:"role"`
		TenantID  string `yaml:"tenantId"`
		Secret    string `yaml:"secret"`
		AvatarURL string `yaml:"avatarUrl"`
	} `yaml:"users"`
	Teams []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		TenantID    string `yaml:"tenantId"`
		MemberCount int    `yaml:"memberCount"`
	} `yaml:"teams"`
	Tasks []struct {
		ID              string `yaml:"id"`
		Title           string `yaml:"title"`
		Description     string `yaml:"description"`
		Status          string `yaml:"status"`
		Priority        string `yaml:"priority"`
		DueDate         string `yaml:"dueDate"`
		AssignedTo      string `yaml:"assignedToId"`
		TeamID          string `yaml:"teamId"`
		TenantID        string `yaml:"tenantId"`
		CreatedByUserID string `yaml:"createdByUserId"`
		CreatedAt       string `yaml:"createdAt"`
		CompletedAt     string `yaml:"completedAt"`
	} `yaml:"tasks"`
	AuditLogs []struct {
		ID        string `yaml:"id"`
		Action    string `yaml:"action"`
		UserID    string `yaml:"userId"`
		TenantID  string `yaml:"tenantId"`
		Timestamp string `yaml:"timestamp"`
		Details   string `yaml:"details"`
	} `yaml:"auditLogs"`
}

// Default decodes the embedded fixture. Rows without a timestamp are stamped
// with now.
func Default(now time.Time) (*Fixture, error) {
	return Parse(defaultYAML, now)
}

// Parse decodes a fixture document. Secrets are hashed; name snapshots
// (assignedToName, audit userName) are resolved from the users section.
func Parse(data []byte, now time.Time) (*Fixture, error) {
	var ff fileFixture
	if err := yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}

	f := &Fixture{}
	names := make(map[string]string, len(ff.Users))
	emails := make(map[string]bool, len(ff.Users))

	for _, t := range ff.Tenants {
		created, err := parseTime(t.CreatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: tenant %s: %w", t.ID, err)
		}
		f.Tenants = append(f.Tenants, &domain.Tenant{ID: t.ID, Name: t.Name, Domain: t.Domain, CreatedAt: created})
	}

	for _, u := range ff.Users {
		role, err := domain.ParseRole(u.Role)
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: user %s: %w", u.ID, err)
		}
		if emails[u.Email] {
			return nil, fmt.Errorf("seed.Parse: duplicate email %q: %w", u.Email, domain.ErrInvalidInput)
		}
		emails[u.Email] = true

		hash, err := hashSecret(u.ID, u.Secret)
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: user %s: %w", u.ID, err)
		}

		names[u.ID] = u.FullName
		f.Users = append(f.Users, &domain.User{
			ID:           u.ID,
			Email:        u.Email,
			FullName:     u.FullName,
			Role:         role,
			TenantID:     u.TenantID,
			AvatarURL:    u.AvatarURL,
			PasswordHash: hash,
		})
	}

	for _, t := range ff.Teams {
		f.Teams = append(f.Teams, &domain.Team{ID: t.ID, Name: t.Name, TenantID: t.TenantID, MemberCount: t.MemberCount})
	}

	for _, t := range ff.Tasks {
		task := &domain.Task{
			ID:              t.ID,
			Title:           t.Title,
			Description:     t.Description,
			Status:          domain.TaskStatus(t.Status),
			Priority:        domain.TaskPriority(t.Priority),
			DueDate:         t.DueDate,
			AssignedTo:      t.AssignedTo,
			AssignedToName:  names[t.AssignedTo],
			TeamID:          t.TeamID,
			TenantID:        t.TenantID,
			CreatedByUserID: t.CreatedByUserID,
		}
		if !task.Status.Valid() || !task.Priority.Valid() {
			return nil, fmt.Errorf("seed.Parse: task %s: bad status or priority: %w", t.ID, domain.ErrInvalidInput)
		}

		created, err := parseTime(t.CreatedAt, now)
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: task %s: %w", t.ID, err)
		}
		task.CreatedAt = created

		if t.CompletedAt != "" {
			done, err := parseTime(t.CompletedAt, now)
			if err != nil {
				return nil, fmt.Errorf("seed.Parse: task %s: %w", t.ID, err)
			}
			task.CompletedAt = &done
		}
		f.Tasks = append(f.Tasks, task)
	}

	for _, a := range ff.AuditLogs {
		ts, err := parseTime(a.Timestamp, now)
		if err != nil {
			return nil, fmt.Errorf("seed.Parse: audit %s: %w", a.ID, err)
		}
		userName, ok := names[a.UserID]
		if !ok {
			userName = domain.AuditActorFallback
		}
		f.AuditLogs = append(f.AuditLogs, &domain.AuditLog{
			ID:        a.ID,
			Action:    a.Action,
			UserID:    a.UserID,
			UserName:  userName,
			TenantID:  a.TenantID,
			Timestamp: ts,
			Details:   a.Details,
		})
	}

	return f, nil
}

// Clone returns a deep copy so stores can mutate their rows freely.
func (f *Fixture) Clone() *Fixture {
	c := &Fixture{
		Tenants:   make([]*domain.Tenant, 0, len(f.Tenants)),
		Users:     make([]*domain.User, 0, len(f.Users)),
		Teams:     make([]*domain.Team, 0, len(f.Teams)),
		Tasks:     make([]*domain.Task, 0, len(f.Tasks)),
		AuditLogs: make([]*domain.AuditLog, 0, len(f.AuditLogs)),
	}
	for _, t := range f.Tenants {
		cp := *t
		c.Tenants = append(c.Tenants, &cp)
	}
	for _, u := range f.Users {
		cp := *u
		c.Users = append(c.Users, &cp)
	}
	for _, t := range f.Teams {
		cp := *t
		c.Teams = append(c.Teams, &cp)
	}
	for _, t := range f.Tasks {
		cp := *t
		if t.CompletedAt != nil {
			done := *t.CompletedAt
			cp.CompletedAt = &done
		}
		c.Tasks = append(c.Tasks, &cp)
	}
	for _, a := range f.AuditLogs {
		cp := *a
		c.AuditLogs = append(c.AuditLogs, &cp)
	}
	return c
}

func parseTime(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time %q: %w", s, domain.ErrInvalidInput)
	}
	return t, nil
}

type hashKey struct {
	userID, secret string
}

// hashCache memoizes argon2id hashes per user and secret for the life of the
// process. Each user gets a salt of their own, so users sharing a secret
// still have distinct hashes.
var hashCache = struct {
	sync.Mutex
	m map[hashKey]string
}{m: make(map[hashKey]string)}

func hashSecret(userID, secret string) (string, error) {
	hashCache.Lock()
	defer hashCache.Unlock()

	k := hashKey{userID: userID, secret: secret}
	if h, ok := hashCache.m[k]; ok {
		return h, nil
	}
	h, err := auth.HashPassword(secret)
	if err != nil {
		return "", err
	}
	hashCache.m[k] = h
	return h, nil
}
