package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/auth"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/client"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/dashboard"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/domain"
	"github.com/MBGIRISH/Multi-Tenant-SaaS-Platform/internal/session"
)

// DefaultServer is used when neither the session nor NEXUS_SERVER names one.
const DefaultServer = "http://localhost:8080"

// App carries the dependencies shared by every command.
type App struct {
	Out      io.Writer
	Sessions *session.FileStore
	// Server is the API base URL used by login. Later commands use the server
	// recorded in the session.
	Server string
	// HTTPClient is optional.
	HTTPClient *http.Client
}

// Run executes one nexusctl invocation.
func (a *App) Run(ctx context.Context, args []string) error {
	return a.Root().Execute(ctx, a.Out, args)
}

// Root builds the command tree.
func (a *App) Root() *Command {
	return &Command{
		Name:    "nexusctl",
		Summary: "Terminal client for the Nexus task tracker",
		Subcommands: []*Command{
			a.loginCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.dashboardCommand(),
			a.boardCommand(),
			a.tasksCommand(),
			a.teamsCommand(),
			a.usersCommand(),
			a.auditCommand(),
		},
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.Out, format, args...)
}

func (a *App) clientOptions() []client.Option {
	if a.HTTPClient != nil {
		return []client.Option{client.WithHTTPClient(a.HTTPClient)}
	}
	return nil
}

// session loads the stored login and returns a client bound to it.
func (a *App) session() (*session.Session, *client.Client, error) {
	sess, err := a.Sessions.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return nil, nil, fmt.Errorf("not logged in; run 'nexusctl login': %w", err)
		}
		return nil, nil, err
	}

	server := sess.Server
	if server == "" {
		server = a.server()
	}
	opts := append(a.clientOptions(), client.WithToken(sess.Token))
	return sess, client.New(server, opts...), nil
}

func (a *App) server() string {
	if a.Server != "" {
		return a.Server
	}
	return DefaultServer
}

func (a *App) loginCommand() *Command {
	var email, secret, server string
	return &Command{
		Name:    "login",
		Summary: "Sign in and store the session locally",
		Usage:   "nexusctl login --email <email> [--secret <secret>] [--server <url>]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("login", pflag.ContinueOnError)
			fs.StringVar(&email, "email", "", "account email")
			fs.StringVar(&secret, "secret", "", "login secret (default $NEXUS_SECRET)")
			fs.StringVar(&server, "server", "", "API base URL (default $NEXUS_SERVER)")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if email == "" {
				return fmt.Errorf("login: --email is required: %w", ErrUsage)
			}
			if secret == "" {
				secret = os.Getenv("NEXUS_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("login: --secret or NEXUS_SECRET is required: %w", ErrUsage)
			}
			if server == "" {
				server = a.server()
			}

			sess, err := client.New(server, a.clientOptions()...).Login(ctx, email, secret)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidCredentials) {
					return errors.New("invalid email or secret")
				}
				return err
			}

			if err := a.Sessions.Save(session.Session{User: sess.User, Token: sess.Token, Server: server}); err != nil {
				return err
			}
			a.printf("Logged in as %s (%s)\n", sess.User.FullName, sess.User.Role)
			return nil
		},
	}
}

func (a *App) logoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Discard the stored session",
		Run: func(_ context.Context, _ []string) error {
			if err := a.Sessions.Clear(); err != nil {
				return err
			}
			a.printf("Logged out\n")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *Command {
	var verify bool
	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in user",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			fs.BoolVar(&verify, "verify", false, "ask the server to verify the stored token")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			sess, c, err := a.session()
			if err != nil {
				return err
			}

			user := sess.User
			if verify {
				user, err = c.Session(ctx)
				if err != nil {
					return err
				}
			}
			a.printf("%s", RenderUser(user, sess.Server))
			return nil
		},
	}
}

func (a *App) dashboardCommand() *Command {
	return &Command{
		Name:    "dashboard",
		Summary: "Show task statistics for your tenant",
		Run: func(ctx context.Context, _ []string) error {
			_, c, err := a.session()
			if err != nil {
				return err
			}
			stats, err := c.Dashboard(ctx)
			if err != nil {
				return err
			}
			a.printf("%s", RenderDashboard(stats))
			return nil
		},
	}
}

func (a *App) boardCommand() *Command {
	return &Command{
		Name:    "board",
		Summary: "Show the kanban board",
		Run: func(ctx context.Context, _ []string) error {
			_, c, err := a.session()
			if err != nil {
				return err
			}
			return a.showBoard(ctx, c)
		},
	}
}

func (a *App) showBoard(ctx context.Context, c *client.Client) error {
	cols, err := c.Board(ctx)
	if err != nil {
		return err
	}
	a.printf("%s\n", RenderBoard(cols))
	return nil
}

func (a *App) tasksCommand() *Command {
	var status string
	return &Command{
		Name:    "tasks",
		Summary: "List and change tasks",
		Usage:   "nexusctl tasks [--status TODO|IN_PROGRESS|DONE] | tasks <command>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("tasks", pflag.ContinueOnError)
			fs.StringVar(&status, "status", "", "only tasks with this status")
			return fs
		},
		Subcommands: []*Command{
			a.taskCreateCommand(),
			a.taskSetStatusCommand("start", "Move a task to In Progress", domain.TaskStatusInProgress),
			a.taskSetStatusCommand("done", "Mark a task completed", domain.TaskStatusDone),
			a.taskMoveCommand(),
			a.taskDeleteCommand(),
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("tasks: unknown command %q: %w", args[0], ErrUsage)
			}
			_, c, err := a.session()
			if err != nil {
				return err
			}
			tasks, err := c.Tasks(ctx, domain.TaskStatus(status))
			if err != nil {
				return err
			}
			a.printf("%s", RenderTasks(tasks))
			return nil
		},
	}
}

func (a *App) taskCreateCommand() *Command {
	var in client.NewTask
	return &Command{
		Name:    "create",
		Summary: "Create a task",
		Usage:   "nexusctl tasks create --title <title> [flags]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
			fs.StringVar(&in.Title, "title", "", "task title")
			fs.StringVar(&in.Description, "description", "", "task description")
			fs.StringVar(&in.Status, "status", "", "initial status (default TODO)")
			fs.StringVar(&in.Priority, "priority", "", "LOW, MEDIUM or HIGH (default MEDIUM)")
			fs.StringVar(&in.DueDate, "due", "", "due date, YYYY-MM-DD")
			fs.StringVar(&in.AssignedTo, "assignee", "", "assignee user ID")
			fs.StringVar(&in.TeamID, "team", "", "team ID (default: first team)")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			if in.Title == "" {
				return fmt.Errorf("create: --title is required: %w", ErrUsage)
			}
			_, c, err := a.session()
			if err != nil {
				return err
			}
			t, err := c.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			a.printf("Created %s\n", t.ID)
			return a.showBoard(ctx, c)
		},
	}
}

func (a *App) taskSetStatusCommand(name, summary string, target domain.TaskStatus) *Command {
	return &Command{
		Name:    name,
		Summary: summary,
		Usage:   "nexusctl tasks " + name + " <task-id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%s: exactly one task id required: %w", name, ErrUsage)
			}
			_, c, err := a.session()
			if err != nil {
				return err
			}
			return a.setStatus(ctx, c, args[0], target)
		},
	}
}

func (a *App) taskMoveCommand() *Command {
	return &Command{
		Name:    "move",
		Summary: "Advance a task to the next board column",
		Usage:   "nexusctl tasks move <task-id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("move: exactly one task id required: %w", ErrUsage)
			}
			_, c, err := a.session()
			if err != nil {
				return err
			}
			t, err := c.Task(ctx, args[0])
			if err != nil {
				return err
			}
			next, ok := dashboard.NextStatus(t.Status)
			if !ok {
				return fmt.Errorf("task %s is already %s", t.ID, t.Status.Label())
			}
			return a.setStatus(ctx, c, t.ID, next)
		},
	}
}

func (a *App) setStatus(ctx context.Context, c *client.Client, id string, target domain.TaskStatus) error {
	s := string(target)
	t, err := c.UpdateTask(ctx, id, client.TaskChanges{Status: &s})
	if err != nil {
		return err
	}
	a.printf("%s is now %s\n", t.ID, t.Status.Label())
	return a.showBoard(ctx, c)
}

func (a *App) taskDeleteCommand() *Command {
	return &Command{
		Name:    "delete",
		Summary: "Delete a task",
		Usage:   "nexusctl tasks delete <task-id>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("delete: exactly one task id required: %w", ErrUsage)
			}
			_, c, err := a.session()
			if err != nil {
				return err
			}
			if err := c.DeleteTask(ctx, args[0]); err != nil {
				return err
			}
			a.printf("Deleted %s\n", args[0])
			return a.showBoard(ctx, c)
		},
	}
}

func (a *App) teamsCommand() *Command {
	return &Command{
		Name:    "teams",
		Summary: "List your tenant's teams",
		Run: func(ctx context.Context, _ []string) error {
			_, c, err := a.session()
			if err != nil {
				return err
			}
			teams, err := c.Teams(ctx)
			if err != nil {
				return err
			}
			a.printf("%s", RenderTeams(teams))
			return nil
		},
	}
}

func (a *App) usersCommand() *Command {
	return &Command{
		Name:    "users",
		Summary: "List your tenant's users",
		Run: func(ctx context.Context, _ []string) error {
			_, c, err := a.session()
			if err != nil {
				return err
			}
			users, err := c.Users(ctx)
			if err != nil {
				return err
			}
			a.printf("%s", RenderUsers(users))
			return nil
		},
	}
}

func (a *App) auditCommand() *Command {
	var limit int
	return &Command{
		Name:    "audit",
		Summary: "Show the audit trail, newest first",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("audit", pflag.ContinueOnError)
			fs.IntVar(&limit, "limit", 50, "max entries")
			return fs
		},
		Run: func(ctx context.Context, _ []string) error {
			_, c, err := a.session()
			if err != nil {
				return err
			}
			logs, err := c.AuditLogs(ctx, limit)
			if err != nil {
				return err
			}
			a.printf("%s", RenderAudit(logs))
			return nil
		},
	}
}
