package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// Sentinel errors for the auth package.
var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUserNotFound       = errors.New("auth: user not found")
)

// UserLookup is the slice of domain.UserRepository the auth layer needs.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, tenantID, id string) (*domain.User, error)
}

// Session is what a successful login hands back to the client.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Service provides authentication operations.
type Service struct {
	users      UserLookup
	jwtSecret  string
	tokenTTL   time.Duration
	loginDelay time.Duration
}

// NewService creates a new auth service. loginDelay pads every login attempt,
// successful or not.
func NewService(users UserLookup, jwtSecret string, tokenTTL, loginDelay time.Duration) *Service {
	return &Service{
		users:      users,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
		loginDelay: loginDelay,
	}
}

// Login validates email/secret and returns the user with a signed token.
// The delay is spent under ctx; a cancelled context aborts the attempt.
func (s *Service) Login(ctx context.Context, email, secret string) (*Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error().Err(err).Msg("auth.Login: user lookup failed")
		}
		return nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	if !VerifyPassword(secret, user.PasswordHash) {
		return nil, fmt.Errorf("auth.Login: %w", ErrInvalidCredentials)
	}

	token, err := IssueAccessToken(s.jwtSecret, user, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}

// CurrentUser verifies a presented token and returns the user it was issued to.
func (s *Service) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	claims, err := ValidateToken(s.jwtSecret, token)
	if err != nil {
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}

	user, err := s.users.GetByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth.CurrentUser: %w", ErrUserNotFound)
	}

	return user, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.loginDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.loginDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
