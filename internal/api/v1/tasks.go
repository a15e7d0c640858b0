package v1

import (
	"context"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/api/ws"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// UnknownTeamID is assigned to new tasks when the tenant has no teams.
const UnknownTeamID = "unknown"

type CreateTaskInput struct {
	Body struct {
		Title       string `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
		Description string `json:"description,omitempty" doc:"Task description"`
		Status      string `json:"status,omitempty" doc:"Initial status: TODO, IN_PROGRESS or DONE (default TODO)"`
		Priority    string `json:"priority,omitempty" doc:"LOW, MEDIUM or HIGH (default MEDIUM)"`
		DueDate     string `json:"dueDate,omitempty" doc:"Due date, YYYY-MM-DD"`
		AssignedTo  string `json:"assignedToId,omitempty" doc:"Assignee user ID"`
		TeamID      string `json:"teamId,omitempty" doc:"Team ID; defaults to the tenant's first team"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type ListTasksInput struct {
	Status string `query:"status" doc:"Filter by status"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type GetTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Title       *string `json:"title,omitempty" maxLength:"500" doc:"Task title"`
		Description *string `json:"description,omitempty" doc:"Task description"`
		Status      *string `json:"status,omitempty" doc:"TODO, IN_PROGRESS or DONE"`
		Priority    *string `json:"priority,omitempty" doc:"LOW, MEDIUM or HIGH"`
		DueDate     *string `json:"dueDate,omitempty" doc:"Due date, YYYY-MM-DD; empty clears it"`
		AssignedTo  *string `json:"assignedToId,omitempty" doc:"Assignee user ID"`
		TeamID      *string `json:"teamId,omitempty" doc:"Team ID"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type DeleteTaskInput struct {
	ID string `path:"id" doc:"Task ID"`
}

// RegisterTaskRoutes mounts task CRUD. Successful mutations are published to
// board subscribers and counted by rec; either may be nil.
func RegisterTaskRoutes(api huma.API, store DataStore, events BoardPublisher, rec Recorder) {
	changed := func(ctx context.Context, tenantID string, ev ws.BoardEvent) {
		if rec != nil {
			rec.TaskMutation(ev.Type)
		}
		if events == nil {
			return
		}
		if err := events.PublishBoard(ctx, tenantID, ev); err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID).Str("event", ev.Type).Msg("board publish failed")
		}
	}

	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/tasks",
		Summary:     "Create a new task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		tenantID, userID, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		teamID := input.Body.TeamID
		if err := checkRefs(ctx, store, tenantID, &input.Body.AssignedTo, &input.Body.TeamID); err != nil {
			return nil, err
		}
		if teamID == "" {
			teamID, err = defaultTeam(ctx, store, tenantID)
			if err != nil {
				return nil, storeError("failed to resolve team", err)
			}
		}

		t, err := store.Tasks().Create(ctx, domain.TaskInput{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			Status:      domain.TaskStatus(input.Body.Status),
			Priority:    domain.TaskPriority(input.Body.Priority),
			DueDate:     input.Body.DueDate,
			AssignedTo:  input.Body.AssignedTo,
		}, tenantID, userID, teamID)
		if err != nil {
			return nil, storeError("failed to create task", err)
		}

		changed(ctx, tenantID, ws.BoardEvent{Type: ws.EventTaskCreated, TaskID: t.ID, Data: t})
		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tenant tasks",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		status := domain.TaskStatus(input.Status)
		if status != "" && !status.Valid() {
			return nil, huma.Error400BadRequest("unknown task status: " + input.Status)
		}

		tasks, err := store.Tasks().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, storeError("failed to list tasks", err)
		}

		if status != "" {
			filtered := make([]*domain.Task, 0, len(tasks))
			for _, t := range tasks {
				if t.Status == status {
					filtered = append(filtered, t)
				}
			}
			tasks = filtered
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		tenantID, _, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		t, err := store.Tasks().GetByID(ctx, tenantID, input.ID)
		if err != nil {
			return nil, storeError("task not found", err)
		}

		return &GetTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{id}",
		Summary:     "Partially update a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		tenantID, userID, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		// Update itself is not tenant-scoped.
		if _, err := store.Tasks().GetByID(ctx, tenantID, input.ID); err != nil {
			return nil, storeError("task not found", err)
		}

		patch := domain.TaskPatch{
			Title:       input.Body.Title,
			Description: input.Body.Description,
			DueDate:     input.Body.DueDate,
			AssignedTo:  input.Body.AssignedTo,
			TeamID:      input.Body.TeamID,
		}
		if input.Body.Status != nil {
			s := domain.TaskStatus(*input.Body.Status)
			patch.Status = &s
		}
		if input.Body.Priority != nil {
			p := domain.TaskPriority(*input.Body.Priority)
			patch.Priority = &p
		}
		if err := patch.Validate(); err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		if err := checkRefs(ctx, store, tenantID, patch.AssignedTo, patch.TeamID); err != nil {
			return nil, err
		}

		t, err := store.Tasks().Update(ctx, input.ID, patch, userID)
		if err != nil {
			return nil, storeError("failed to update task", err)
		}

		changed(ctx, tenantID, ws.BoardEvent{Type: ws.EventTaskUpdated, TaskID: t.ID, Data: t})
		return &UpdateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{id}",
		Summary:       "Delete a task",
		Tags:          []string{"Tasks"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		tenantID, userID, err := caller(ctx)
		if err != nil {
			return nil, err
		}

		// Unknown ids, including other tenants' ids, are a silent no-op.
		if _, err := store.Tasks().GetByID(ctx, tenantID, input.ID); err != nil {
			if isNotFound(err) {
				return nil, nil
			}
			return nil, storeError("failed to get task", err)
		}

		if err := store.Tasks().Delete(ctx, input.ID, userID); err != nil {
			return nil, storeError("failed to delete task", err)
		}

		changed(ctx, tenantID, ws.BoardEvent{Type: ws.EventTaskDeleted, TaskID: input.ID})
		return nil, nil
	})
}

// defaultTeam picks the tenant's first team, or UnknownTeamID when it has none.
func defaultTeam(ctx context.Context, store DataStore, tenantID string) (string, error) {
	teams, err := store.Teams().ListByTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if len(teams) == 0 {
		return UnknownTeamID, nil
	}
	return teams[0].ID, nil
}

// checkRefs rejects an assignee or team that is not part of the caller's
// tenant. Nil or empty references are not checked; an empty assignee
// unassigns.
func checkRefs(ctx context.Context, store DataStore, tenantID string, assignee, teamID *string) error {
	if assignee != nil && *assignee != "" {
		if _, err := store.Users().GetByID(ctx, tenantID, *assignee); err != nil {
			if isNotFound(err) {
				return huma.Error400BadRequest("unknown assignee: " + *assignee)
			}
			return storeError("failed to resolve assignee", err)
		}
	}

	if teamID != nil && *teamID != "" {
		teams, err := store.Teams().ListByTenant(ctx, tenantID)
		if err != nil {
			return storeError("failed to resolve team", err)
		}
		if !slices.ContainsFunc(teams, func(t *domain.Team) bool { return t.ID == *teamID }) {
			return huma.Error400BadRequest("unknown team: " + *teamID)
		}
	}

	return nil
}
