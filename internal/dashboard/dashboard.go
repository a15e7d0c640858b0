// Package dashboard derives the read-only aggregates shown on the dashboard
// and the kanban board. Nothing here mutates storage.
package dashboard

import (
	"fmt"
	"time"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

// WeeklyMode selects how Stats.WeeklyCompletion is produced.
type WeeklyMode string

const (
	// WeeklyLive buckets real completion timestamps.
	WeeklyLive WeeklyMode = "live"
	// WeeklyDemo returns fixed placeholder numbers and says so.
	WeeklyDemo WeeklyMode = "demo"
)

// ParseWeeklyMode accepts "live" or "demo".
func ParseWeeklyMode(s string) (WeeklyMode, error) {
	switch m := WeeklyMode(s); m {
	case WeeklyLive, WeeklyDemo:
		return m, nil
	default:
		return "", fmt.Errorf("dashboard: weekly mode %q: %w", s, domain.ErrInvalidInput)
	}
}

type StatusCount struct {
	Status domain.TaskStatus `json:"status"`
	Name   string            `json:"name"`
	Value  int               `json:"value"`
}

type DayCount struct {
	Day       string `json:"day"`
	Completed int    `json:"completed"`
}

type Stats struct {
	CompletedTasks   int           `json:"completedTasks"`
	PendingTasks     int           `json:"pendingTasks"`
	ActiveUsers      int           `json:"activeUsers"`
	TasksByStatus    []StatusCount `json:"tasksByStatus"`
	WeeklyMode       WeeklyMode    `json:"weeklyMode"`
	WeeklyCompletion []DayCount    `json:"weeklyCompletion"`
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

var demoWeekly = []int{4, 7, 5, 8, 12, 3, 2}

// Compute aggregates one tenant's tasks and users. ActiveUsers is the size of
// the user list; no activity is tracked.
func Compute(tasks []*domain.Task, users []*domain.User, now time.Time, mode WeeklyMode) Stats {
	byStatus := make(map[domain.TaskStatus]int, len(domain.TaskStatuses))
	for _, t := range tasks {
		byStatus[t.Status]++
	}

	st := Stats{
		CompletedTasks: byStatus[domain.TaskStatusDone],
		PendingTasks:   len(tasks) - byStatus[domain.TaskStatusDone],
		ActiveUsers:    len(users),
		TasksByStatus:  make([]StatusCount, 0, len(domain.TaskStatuses)),
		WeeklyMode:     mode,
	}
	for _, s := range domain.TaskStatuses {
		st.TasksByStatus = append(st.TasksByStatus, StatusCount{Status: s, Name: s.Label(), Value: byStatus[s]})
	}

	if mode == WeeklyDemo {
		st.WeeklyCompletion = demoCompletion()
	} else {
		st.WeeklyMode = WeeklyLive
		st.WeeklyCompletion = liveCompletion(tasks, now)
	}

	return st
}

func demoCompletion() []DayCount {
	out := make([]DayCount, len(weekdays))
	for i, d := range weekdays {
		out[i] = DayCount{Day: d.String()[:3], Completed: demoWeekly[i]}
	}
	return out
}

// liveCompletion counts DONE tasks completed in the seven days ending at now,
// grouped by weekday, Monday first.
func liveCompletion(tasks []*domain.Task, now time.Time) []DayCount {
	since := now.AddDate(0, 0, -7)
	counts := make(map[time.Weekday]int, len(weekdays))
	for _, t := range tasks {
		if t.Status != domain.TaskStatusDone || t.CompletedAt == nil {
			continue
		}
		at := *t.CompletedAt
		if at.After(since) && !at.After(now) {
			counts[at.In(now.Location()).Weekday()]++
		}
	}

	out := make([]DayCount, len(weekdays))
	for i, d := range weekdays {
		out[i] = DayCount{Day: d.String()[:3], Completed: counts[d]}
	}
	return out
}
