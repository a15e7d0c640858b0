package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
)

const columnWidth = 32

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(columnWidth)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			Width(columnWidth - 2)

	statStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Align(lipgloss.Center)
)

var statusColors = map[domain.TaskStatus]lipgloss.Color{
	domain.TaskStatusTodo:       lipgloss.Color("244"),
	domain.TaskStatusInProgress: lipgloss.Color("33"),
	domain.TaskStatusDone:       lipgloss.Color("35"),
}

var priorityColors = map[domain.TaskPriority]lipgloss.Color{
	domain.TaskPriorityLow:    lipgloss.Color("244"),
	domain.TaskPriorityMedium: lipgloss.Color("214"),
	domain.TaskPriorityHigh:   lipgloss.Color("196"),
}

func priorityTag(p domain.TaskPriority) string {
	return lipgloss.NewStyle().Foreground(priorityColors[p]).Render(string(p))
}

// RenderBoard lays the columns out side by side.
func RenderBoard(cols []dashboard.Column) string {
	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		head := lipgloss.NewStyle().Bold(true).Foreground(statusColors[col.Status]).
			Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks)))

		parts := []string{head}
		if len(col.Tasks) == 0 {
			parts = append(parts, faintStyle.Render("no tasks"))
		}
		for _, t := range col.Tasks {
			parts = append(parts, renderCard(t))
		}
		rendered = append(rendered, columnStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderCard(t *domain.Task) string {
	lines := []string{
		titleStyle.Render(t.Title),
		faintStyle.Render(t.ID) + " " + priorityTag(t.Priority),
	}
	if t.AssignedToName != "" {
		lines = append(lines, "@ "+t.AssignedToName)
	}
	if t.DueDate != "" {
		lines = append(lines, "due "+t.DueDate)
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

// RenderDashboard shows the headline counts, the status split and the weekly
// completion bars.
func RenderDashboard(s *dashboard.Stats) string {
	stat := func(label string, n int) string {
		return statStyle.Render(titleStyle.Render(strconv.Itoa(n)) + "\n" + label)
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Completed", s.CompletedTasks),
		stat("Pending", s.PendingTasks),
		stat("Active users", s.ActiveUsers),
	)

	var b strings.Builder
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Tasks by status"))
	b.WriteString("\n")
	for _, sc := range s.TasksByStatus {
		fmt.Fprintf(&b, "  %-12s %d\n", sc.Name, sc.Value)
	}

	b.WriteString("\n")
	weekly := "Weekly completion"
	if s.WeeklyMode == dashboard.WeeklyDemo {
		weekly += " (demo data)"
	}
	b.WriteString(headerStyle.Render(weekly))
	b.WriteString("\n")
	bar := lipgloss.NewStyle().Foreground(statusColors[domain.TaskStatusDone])
	for _, d := range s.WeeklyCompletion {
		fmt.Fprintf(&b, "  %s %s %d\n", d.Day, bar.Render(strings.Repeat("█", d.Completed)), d.Completed)
	}
	return b.String()
}

// RenderTasks is a one-line-per-task listing.
func RenderTasks(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return faintStyle.Render("no tasks") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-16s %-12s %-7s %-20s %s", "ID", "STATUS", "PRIO", "ASSIGNEE", "TITLE")))
	for _, t := range tasks {
		status := lipgloss.NewStyle().Foreground(statusColors[t.Status]).Render(fmt.Sprintf("%-12s", t.Status))
		fmt.Fprintf(&b, "%-16s %s %-7s %-20s %s\n", t.ID, status, t.Priority, t.AssignedToName, t.Title)
	}
	return b.String()
}

func RenderUsers(users []*domain.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-6s %-8s %-22s %s", "ID", "ROLE", "NAME", "EMAIL")))
	for _, u := range users {
		fmt.Fprintf(&b, "%-6s %-8s %-22s %s\n", u.ID, u.Role, u.FullName, u.Email)
	}
	return b.String()
}

func RenderTeams(teams []*domain.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-6s %-20s %s", "ID", "NAME", "MEMBERS")))
	for _, t := range teams {
		fmt.Fprintf(&b, "%-6s %-20s %d\n", t.ID, t.Name, t.MemberCount)
	}
	return b.String()
}

func RenderAudit(logs []*domain.AuditLog) string {
	if len(logs) == 0 {
		return faintStyle.Render("no audit entries") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("%-20s %-14s %-16s %s", "WHEN", "ACTION", "BY", "DETAILS")))
	for _, l := range logs {
		fmt.Fprintf(&b, "%-20s %-14s %-16s %s\n", l.Timestamp.Local().Format("2006-01-02 15:04:05"), l.Action, l.UserName, l.Details)
	}
	return b.String()
}

// RenderUser is the whoami view.
func RenderUser(u *domain.User, server string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s>\n", titleStyle.Render(u.FullName), u.Email)
	fmt.Fprintf(&b, "role %s, tenant %s\n", u.Role, u.TenantID)
	if server != "" {
		fmt.Fprintf(&b, "%s\n", faintStyle.Render("server "+server))
	}
	return b.String()
}
