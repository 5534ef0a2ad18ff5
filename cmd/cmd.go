// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/server"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/urfave/cli/v3"
)

func idArg() []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: "id"}}
}

func setupCommand(r *Runner) *cli.Command {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   path,
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles session management
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Log in, log out and inspect the stored session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
						Sources:  cli.EnvVars("LISTBACKUP_EMAIL"),
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
						Sources:  cli.EnvVars("LISTBACKUP_PASSWORD"),
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a user and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Account email", Required: true},
					&cli.StringFlag{
						Name:     "password",
						Usage:    "Password (at least 8 characters)",
						Required: true,
						Sources:  cli.EnvVars("LISTBACKUP_PASSWORD"),
					},
					&cli.StringFlag{Name: "name", Usage: "Display name", Required: true},
					&cli.StringFlag{Name: "company", Usage: "Company name"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "End the session and clear stored tokens",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the stored session and token expiry",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "keys", Usage: "Also list the stored session keys and when they were written"},
				},
				Action: r.AuthStatus,
			},
			{
				Name:   "refresh",
				Usage:  "Exchange the stored refresh token for a new access token",
				Action: r.AuthRefresh,
			},
			{
				Name:   "me",
				Usage:  "Fetch the signed-in user from the backend",
				Action: r.AuthMe,
			},
		},
	}
}

func accountCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "account",
		Aliases: []string{"accounts"},
		Usage:   "Current account and sub-accounts",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the current account",
				Action: r.AccountShow,
			},
			{
				Name:   "list",
				Usage:  "List accessible accounts",
				Action: r.AccountList,
			},
			{
				Name:      "switch",
				Usage:     "Switch the current account",
				Arguments: idArg(),
				Action:    r.AccountSwitch,
			},
			{
				Name:      "users",
				Usage:     "List the users of an account (default: current)",
				Arguments: idArg(),
				Action:    r.AccountUsers,
			},
		},
	}
}

// sourcesCommand handles backup sources
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "sources",
		Aliases: []string{"source"},
		Usage:   "Connected data sources",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List sources",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Only sources with this status"},
					&cli.StringFlag{Name: "type", Usage: "Only sources of this type"},
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Match name"},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort by " + strings.Join([]string{tasks.SortByName, tasks.SortByStatus, tasks.SortByLastRun, tasks.SortByCreated}, ", "),
						Value: tasks.SortByName,
					},
					&cli.BoolFlag{Name: "desc", Usage: "Reverse the sort order"},
				},
				Action: r.SourcesList,
			},
			{
				Name:      "show",
				Usage:     "Show a source",
				Arguments: idArg(),
				Action:    r.SourcesShow,
			},
			{
				Name:  "create",
				Usage: "Create an API-key source",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Source name", Required: true},
					&cli.StringFlag{Name: "type", Usage: "Source platform (e.g. keap, stripe)", Required: true},
					&cli.StringFlag{Name: "config", Usage: "Source configuration as a JSON object"},
					&cli.StringSliceFlag{Name: "credential", Usage: "Credential as key=value (repeatable)"},
				},
				Action: r.SourcesCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a source",
				Arguments: idArg(),
				Action:    r.SourcesDelete,
			},
			{
				Name:      "test",
				Usage:     "Test a source's connection",
				Arguments: idArg(),
				Action:    r.SourcesTest,
			},
			{
				Name:      "sync",
				Usage:     "Start a sync of a source",
				Arguments: idArg(),
				Action:    r.SourcesSync,
			},
			{
				Name:  "connect",
				Usage: "Connect an OAuth source through the browser",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "platform"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Display name for the new source"},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the browser redirect",
						Value: server.DefaultCallbackTimeout,
					},
				},
				Action: r.SourcesConnect,
			},
		},
	}
}

func jobActionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "all", Usage: "Apply to every job (narrowed by --status)"},
		&cli.StringFlag{Name: "status", Usage: "With --all, only jobs with this status"},
		&cli.IntFlag{Name: "workers", Usage: "Concurrent requests", Value: 4},
		&cli.FloatFlag{Name: "rate", Usage: "Requests per second", Value: 5},
	}
}

// jobsCommand handles backup jobs
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jobs",
		Aliases: []string{"job"},
		Usage:   "Backup jobs and their runs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List jobs",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Only jobs with this status"},
					&cli.StringFlag{Name: "source", Usage: "Only jobs of this source"},
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Match name or description"},
					&cli.StringFlag{
						Name: "sort",
						Usage: "Sort by " + strings.Join([]string{
							tasks.SortByName, tasks.SortByStatus, tasks.SortByLastRun, tasks.SortByNextRun, tasks.SortByCreated,
						}, ", "),
						Value: tasks.SortByName,
					},
					&cli.BoolFlag{Name: "desc", Usage: "Reverse the sort order"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of jobs to show"},
				},
				Action: r.JobsList,
			},
			{
				Name:      "show",
				Usage:     "Show a job",
				Arguments: idArg(),
				Action:    r.JobsShow,
			},
			{
				Name:  "create",
				Usage: "Create a job through the job builder",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Job name"},
					&cli.StringFlag{Name: "source", Usage: "Source ID"},
					&cli.StringFlag{Name: "description", Usage: "Job description"},
					&cli.StringFlag{Name: "type", Usage: "backup, sync or export", Value: "backup"},
					&cli.StringFlag{
						Name:  "frequency",
						Usage: "manual, hourly, daily, weekly, monthly or custom",
						Value: models.FrequencyDaily,
					},
					&cli.StringFlag{Name: "cron", Usage: "Cron expression for custom schedules"},
					&cli.StringFlag{Name: "timezone", Usage: "Schedule time zone", Value: "UTC"},
					&cli.IntFlag{Name: "retention", Usage: "Retention in days", Value: 30},
					&cli.StringFlag{Name: "format", Usage: "Backup format (json or csv)", Value: "json"},
					&cli.BoolFlag{Name: "incremental", Usage: "Only copy changes since the last run"},
					&cli.BoolFlag{Name: "dry-run", Usage: "Validate and preview without creating the job"},
				},
				Action: r.JobsCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a job",
				Arguments: idArg(),
				Action:    r.JobsDelete,
			},
			{
				Name:      "run",
				Usage:     "Start jobs now",
				ArgsUsage: "<job-id>...",
				Flags:     jobActionFlags(),
				Action:    r.JobsAction(tasks.ActionRun),
			},
			{
				Name:      "pause",
				Usage:     "Pause jobs",
				ArgsUsage: "<job-id>...",
				Flags:     jobActionFlags(),
				Action:    r.JobsAction(tasks.ActionPause),
			},
			{
				Name:      "resume",
				Usage:     "Resume paused jobs",
				ArgsUsage: "<job-id>...",
				Flags:     jobActionFlags(),
				Action:    r.JobsAction(tasks.ActionResume),
			},
			{
				Name:      "runs",
				Usage:     "Show a job's run history",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of runs to show", Value: 20},
				},
				Action: r.JobsRuns,
			},
		},
	}
}

func clientsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "clients",
		Aliases: []string{"client"},
		Usage:   "Agency clients",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List clients",
				Action: r.ClientsList,
			},
			{
				Name:      "show",
				Usage:     "Show a client",
				Arguments: idArg(),
				Action:    r.ClientsShow,
			},
			{
				Name:  "register",
				Usage: "Register a client",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Client name"},
					&cli.StringFlag{Name: "type", Usage: "business, individual or agency", Value: "business"},
					&cli.StringFlag{Name: "company", Usage: "Company name"},
					&cli.StringFlag{Name: "contact-name", Usage: "Contact person"},
					&cli.StringFlag{Name: "contact-email", Usage: "Contact email"},
					&cli.StringFlag{Name: "phone", Usage: "Phone number in E.164 form"},
					&cli.StringFlag{Name: "plan", Usage: "starter, professional or enterprise", Value: "starter"},
					&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
				},
				Action: r.ClientsRegister,
			},
			{
				Name:      "delete",
				Usage:     "Delete a client",
				Arguments: idArg(),
				Action:    r.ClientsDelete,
			},
		},
	}
}

func teamsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "teams",
		Aliases: []string{"team"},
		Usage:   "Teams and their members",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List teams",
				Action: r.TeamsList,
			},
			{
				Name:      "show",
				Usage:     "Show a team",
				Arguments: idArg(),
				Action:    r.TeamsShow,
			},
			{
				Name:  "create",
				Usage: "Create a team",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Team name", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Team description"},
				},
				Action: r.TeamsCreate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a team",
				Arguments: idArg(),
				Action:    r.TeamsDelete,
			},
			{
				Name:      "members",
				Usage:     "List a team's members",
				Arguments: idArg(),
				Action:    r.TeamsMembers,
			},
			{
				Name:      "invite",
				Usage:     "Invite a user into a team",
				Arguments: idArg(),
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Invitee email", Required: true},
					&cli.StringFlag{Name: "role", Usage: "Role in the team", Value: "viewer"},
				},
				Action: r.TeamsInvite,
			},
		},
	}
}

func rolesCommand(r *Runner) *cli.Command {
	team := &cli.StringFlag{Name: "team", Aliases: []string{"t"}, Usage: "Team ID", Required: true}
	return &cli.Command{
		Name:    "roles",
		Aliases: []string{"role"},
		Usage:   "Team roles and permissions",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List a team's roles",
				Flags:  []cli.Flag{team},
				Action: r.RolesList,
			},
			{
				Name:  "create",
				Usage: "Create a role through the permission editor",
				Flags: []cli.Flag{
					team,
					&cli.StringFlag{Name: "name", Usage: "Role name"},
					&cli.StringFlag{Name: "description", Usage: "Role description"},
					&cli.StringSliceFlag{
						Name:  "permission",
						Usage: "Permission to grant (repeatable): " + strings.Join(models.Permissions, ", "),
					},
				},
				Action: r.RolesCreate,
			},
		},
	}
}

func domainsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "domains",
		Aliases: []string{"domain"},
		Usage:   "Custom domains",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List domains",
				Action: r.DomainsList,
			},
			{
				Name:  "add",
				Usage: "Add a domain",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "domain"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "type", Usage: "custom or subdomain", Value: "custom"},
				},
				Action: r.DomainsAdd,
			},
			{
				Name:      "verify",
				Usage:     "Check a domain's DNS records",
				Arguments: idArg(),
				Action:    r.DomainsVerify,
			},
			{
				Name:      "delete",
				Usage:     "Delete a domain",
				Arguments: idArg(),
				Action:    r.DomainsDelete,
			},
			{
				Name:      "dns",
				Usage:     "Show the DNS records to publish for a domain",
				Arguments: idArg(),
				Action:    r.DomainsDNS,
			},
		},
	}
}

func brandingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "branding",
		Usage: "White-label branding",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the account's branding",
				Action: r.BrandingShow,
			},
			{
				Name:  "update",
				Usage: "Update branding; omitted flags are left unchanged",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "company", Usage: "Company name"},
					&cli.StringFlag{Name: "logo", Usage: "Logo URL"},
					&cli.StringFlag{Name: "favicon", Usage: "Favicon URL"},
					&cli.StringFlag{Name: "primary", Usage: "Primary color (#rrggbb)"},
					&cli.StringFlag{Name: "secondary", Usage: "Secondary color (#rrggbb)"},
					&cli.StringFlag{Name: "accent", Usage: "Accent color (#rrggbb)"},
					&cli.StringFlag{Name: "css", Usage: "Path to a custom CSS file"},
					&cli.StringFlag{Name: "support-email", Usage: "Support email"},
				},
				Action: r.BrandingUpdate,
			},
			{
				Name:   "reset",
				Usage:  "Restore the default branding",
				Action: r.BrandingReset,
			},
		},
	}
}

func systemCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "system",
		Usage: "Platform administration (requires system:admin)",
		Commands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Show backend health",
				Action: r.SystemHealth,
			},
			{
				Name:   "metrics",
				Usage:  "Show platform metrics",
				Action: r.SystemMetrics,
			},
			{
				Name:  "audit",
				Usage: "Show the audit log",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of events", Value: 50},
				},
				Action: r.SystemAudit,
			},
		},
	}
}

func overviewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "overview",
		Usage: "Load the dashboard overview: account, sources, jobs and recent runs",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "health", Usage: "Include system health (requires system:admin)"},
			&cli.IntFlag{Name: "runs", Usage: "Recent runs to load per job", Value: 0},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Also write a report (.md, .json or .yaml); empty string picks overview_YYYYMMDD.md",
			},
		},
		Action: r.Overview,
	}
}

// apiCommand handles raw backend calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct authenticated calls to the backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "GET a path and print the JSON response",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "query", Aliases: []string{"q"}, Usage: "Query parameter as key=value (repeatable)"},
					&cli.StringFlag{Name: "select", Usage: "Print only this gjson path of the response"},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "POST a JSON body to a path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON body to send",
						Value:   "{}",
					},
					&cli.StringFlag{Name: "select", Usage: "Print only this gjson path of the response"},
				},
				Action: r.APIPost,
			},
		},
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Interactive dashboard",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "health", Usage: "Include system health on the overview"},
			&cli.IntFlag{Name: "runs", Usage: "Recent runs to load per job", Value: 5},
			&cli.StringFlag{Name: "log", Usage: "Log file while the dashboard runs", Value: "./tmp/listbackup-tui.log"},
		},
		Action: r.TUI,
	}
}
