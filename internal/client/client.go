// Package client is a typed HTTP client for the /api/v1 surface, used by
// nexusctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/v1"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// APIError is a non-2xx response. It unwraps to the matching domain sentinel
// so callers can use errors.Is.
type APIError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Title)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	default:
		return nil
	}
}

type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

type Client struct {
	base  string
	token string
	http  *http.Client
}

// New returns a client for the server at baseURL (for example
// "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/") + "/api/v1",
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges email and secret for a session. Bad credentials return an
// error matching auth.ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, email, secret string) (*auth.Session, error) {
	var sess auth.Session
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"email": email, "secret": secret}, &sess)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("client.Login: %w", auth.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &sess, nil
}

// Session asks the server to verify the current token.
func (c *Client) Session(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/session", nil, &u); err != nil {
		return nil, fmt.Errorf("client.Session: %w", err)
	}
	return &u, nil
}

func (c *Client) Me(ctx context.Context) (*v1.Me, error) {
	var me v1.Me
	if err := c.do(ctx, http.MethodGet, "/me", nil, &me); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &me, nil
}

func (c *Client) Users(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, fmt.Errorf("client.Users: %w", err)
	}
	return users, nil
}

func (c *Client) Teams(ctx context.Context) ([]*domain.Team, error) {
	var teams []*domain.Team
	if err := c.do(ctx, http.MethodGet, "/teams", nil, &teams); err != nil {
		return nil, fmt.Errorf("client.Teams: %w", err)
	}
	return teams, nil
}

// Tasks lists the tenant's tasks, optionally filtered by status.
func (c *Client) Tasks(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	path := "/tasks"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}

	var tasks []*domain.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, fmt.Errorf("client.Tasks: %w", err)
	}
	return tasks, nil
}

func (c *Client) Task(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, fmt.Errorf("client.Task: %w", err)
	}
	return &t, nil
}

// NewTask is the create request body. Empty fields take server defaults.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	AssignedTo  string `json:"assignedToId,omitempty"`
	TeamID      string `json:"teamId,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, in NewTask) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", in, &t); err != nil {
		return nil, fmt.Errorf("client.CreateTask: %w", err)
	}
	return &t, nil
}

// TaskChanges is the patch request body. Nil fields are not sent.
type TaskChanges struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	AssignedTo  *string `json:"assignedToId,omitempty"`
	TeamID      *string `json:"teamId,omitempty"`
}

func (c *Client) UpdateTask(ctx context.Context, id string, ch TaskChanges) (*domain.Task, error) {
	var t domain.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), ch, &t); err != nil {
		return nil, fmt.Errorf("client.UpdateTask: %w", err)
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteTask: %w", err)
	}
	return nil
}

func (c *Client) Board(ctx context.Context) ([]dashboard.Column, error) {
	var b v1.Board
	if err := c.do(ctx, http.MethodGet, "/board", nil, &b); err != nil {
		return nil, fmt.Errorf("client.Board: %w", err)
	}
	return b.Columns, nil
}

func (c *Client) Dashboard(ctx context.Context) (*dashboard.Stats, error) {
	var s dashboard.Stats
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &s); err != nil {
		return nil, fmt.Errorf("client.Dashboard: %w", err)
	}
	return &s, nil
}

// AuditLogs returns up to limit entries, newest first. limit <= 0 uses the
// server default.
func (c *Client) AuditLogs(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	path := "/audit-logs"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var logs []*domain.AuditLog
	if err := c.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, fmt.Errorf("client.AuditLogs: %w", err)
	}
	return logs, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		// Problem bodies are best effort; a bare status is still an error.
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(apiErr)
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
