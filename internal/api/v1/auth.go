package v1

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

type LoginInput struct {
	Body struct {
		Email  string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Secret string `json:"secret" minLength:"1" maxLength:"128" doc:"Login secret"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body *auth.Session
}

type SessionInput struct {
	Authorization string `header:"Authorization" required:"true" doc:"Bearer token"`
}

type SessionOutput struct {
	Body *domain.User
}

// RegisterAuthRoutes mounts the unauthenticated endpoints.
func RegisterAuthRoutes(api huma.API, authSvc AuthService, rec Recorder) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and secret",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		sess, err := authSvc.Login(ctx, input.Body.Email, input.Body.Secret)
		if rec != nil {
			rec.LoginAttempt(err == nil)
		}
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid email or secret")
			}
			log.Error().Err(err).Msg("login failed")
			return nil, huma.Error500InternalServerError("login failed")
		}

		return &LoginOutput{Body: sess}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/auth/session",
		Summary:     "Verify a token and return its user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *SessionInput) (*SessionOutput, error) {
		tok := input.Authorization
		if len(tok) > 7 && strings.EqualFold(tok[:7], "bearer ") {
			tok = tok[7:]
		}

		user, err := authSvc.CurrentUser(ctx, tok)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired token")
		}

		return &SessionOutput{Body: user}, nil
	})
}
