package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists the statuses in board order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// Label is the human-readable column name used by the board and dashboard.
func (s TaskStatus) Label() string {
	switch s {
	case TaskStatusTodo:
		return "To Do"
	case TaskStatusInProgress:
		return "In Progress"
	case TaskStatusDone:
		return "Completed"
	default:
		return string(s)
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// DueDateLayout is the wire format of Task.DueDate.
const DueDateLayout = time.DateOnly

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"dueDate"`
	AssignedTo  string       `json:"assignedToId"`
	// AssignedToName is a snapshot of the assignee's name taken when the
	// assignee is set. Renaming the user later does not update it.
	AssignedToName  string     `json:"assignedToName,omitempty"`
	TeamID          string     `json:"teamId"`
	TenantID        string     `json:"tenantId"`
	CreatedByUserID string     `json:"createdByUserId"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// TaskInput carries the caller-supplied fields of a new task. Tenant, creator
// and team are bound by the store call, not by the input.
type TaskInput struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     string
	AssignedTo  string
}

// Normalize fills defaults and validates the input.
func (in *TaskInput) Normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("task: title is required: %w", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = TaskStatusTodo
	}
	if !in.Status.Valid() {
		return fmt.Errorf("task: unknown status %q: %w", in.Status, ErrInvalidInput)
	}
	if in.Priority == "" {
		in.Priority = TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("task: unknown priority %q: %w", in.Priority, ErrInvalidInput)
	}
	return validateDueDate(in.DueDate)
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *string
	AssignedTo  *string
	TeamID      *string
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("task: title cannot be empty: %w", ErrInvalidInput)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("task: unknown status %q: %w", *p.Status, ErrInvalidInput)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("task: unknown priority %q: %w", *p.Priority, ErrInvalidInput)
	}
	if p.DueDate != nil {
		return validateDueDate(*p.DueDate)
	}
	return nil
}

// Apply merges the patch into t, last write wins per field. CompletedAt is
// stamped when the task enters DONE and cleared when it leaves it. It reports
// whether the assignee changed so the caller can refresh the name snapshot.
func (p TaskPatch) Apply(t *Task, now time.Time) (reassigned bool) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil && *p.Status != t.Status {
		switch {
		case *p.Status == TaskStatusDone:
			done := now
			t.CompletedAt = &done
		case t.Status == TaskStatusDone:
			t.CompletedAt = nil
		}
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.TeamID != nil {
		t.TeamID = *p.TeamID
	}
	if p.AssignedTo != nil && *p.AssignedTo != t.AssignedTo {
		t.AssignedTo = *p.AssignedTo
		reassigned = true
	}
	return reassigned
}

func validateDueDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DueDateLayout, s); err != nil {
		return fmt.Errorf("task: due date %q must be YYYY-MM-DD: %w", s, ErrInvalidInput)
	}
	return nil
}

// TaskRepository is the task half of the data access layer. Every successful
// Create, Update and Delete appends exactly one audit entry in the same
// critical section as the mutation.
type TaskRepository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]*Task, error)
	GetByID(ctx context.Context, tenantID, id string) (*Task, error)
	Create(ctx context.Context, in TaskInput, tenantID, creatorID, teamID string) (*Task, error)
	// Update does not check the tenant; callers scope the id first.
	Update(ctx context.Context, id string, patch TaskPatch, actorID string) (*Task, error)
	// Delete is a silent no-op when id does not exist.
	Delete(ctx context.Context, id, actorID string) error
}
