package ws

// Board event types.
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"
)

// BoardEvent represents a real-time kanban board update. Clients re-query the
// board on receipt; Data carries the task when there is one.
type BoardEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Data   any    `json:"data,omitempty"`
}
