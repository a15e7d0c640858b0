package dashboard

import "github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"

// Column is one kanban lane.
type Column struct {
	Status domain.TaskStatus `json:"status"`
	Title  string            `json:"title"`
	Tasks  []*domain.Task    `json:"tasks"`
}

// Board splits tasks into the three status columns, preserving storage order
// within each column. Tasks with an unknown status are dropped.
func Board(tasks []*domain.Task) []Column {
	cols := make([]Column, len(domain.TaskStatuses))
	pos := make(map[domain.TaskStatus]int, len(domain.TaskStatuses))
	for i, s := range domain.TaskStatuses {
		cols[i] = Column{Status: s, Title: s.Label(), Tasks: make([]*domain.Task, 0)}
		pos[s] = i
	}

	for _, t := range tasks {
		if i, ok := pos[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

// NextStatus is the board's advance action. DONE has no successor.
func NextStatus(s domain.TaskStatus) (domain.TaskStatus, bool) {
	switch s {
	case domain.TaskStatusTodo:
		return domain.TaskStatusInProgress, true
	case domain.TaskStatusInProgress:
		return domain.TaskStatusDone, true
	default:
		return "", false
	}
}
