package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/api"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/ui"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *api.API
	session    *storage.Session
	dashboard  *tasks.Dashboard
	redirect   *ui.LoginRedirect
	logger     *log.Logger
	output     io.Writer
	format     string
	open       func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *api.API
	Redirect   *ui.LoginRedirect
	Logger     *log.Logger
	Output     io.Writer
	Open       func(url string) error // opens OAuth URLs; defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without an API the runner builds one over an in-memory session from the config.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Redirect == nil {
		opts.Redirect = &ui.LoginRedirect{}
	}
	if opts.API == nil {
		opts.API = api.New(api.Options{
			BaseURL:           opts.Config.API.BaseURL,
			Platform:          opts.Config.API.Platform,
			Timeout:           opts.Config.API.Timeout(),
			RequestsPerSecond: opts.Config.API.RequestsPerSecond,
			Logger:            opts.Logger,
			Navigator:         opts.Redirect,
		})
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		session:    opts.API.Client().Session(),
		dashboard:  tasks.DashboardFromAPI(opts.API),
		redirect:   opts.Redirect,
		logger:     opts.Logger,
		output:     opts.Output,
		format:     formatter.FormatTable,
		open:       opts.Open,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, accountCommand, sourcesCommand, jobsCommand, clientsCommand,
		teamsCommand, rolesCommand, domainsCommand, brandingCommand, systemCommand, overviewCommand,
		apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}
	r.applyBefore(commands)

	return commands
}

// applyBefore re-reads the global flags on every subcommand, since they may follow the command name.
func (r *Runner) applyBefore(commands []*cli.Command) {
	for _, c := range commands {
		if c.Before == nil {
			c.Before = r.before
		}
		r.applyBefore(c.Commands)
	}
}

// flags are accepted by every command.
func (r *Runner) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format (table, text, csv, markdown, json, yaml)",
			Value:   formatter.FormatTable,
			Sources: cli.EnvVars("LISTBACKUP_OUTPUT"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Log requests and token refreshes",
			Sources: cli.EnvVars("LISTBACKUP_VERBOSE"),
		},
	}
}

// before applies the global flags.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	format, err := formatter.ParseFormat(cmd.String("output"))
	if err != nil {
		return ctx, err
	}
	r.format = format

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// SetLogger swaps the logger used by command actions.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// render writes t, or v for the structured formats, in the selected output format.
func (r *Runner) render(t *formatter.Table, v any) error {
	if err := formatter.Write(r.output, r.format, t, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// structured reports whether the selected format is machine-readable, in which case actions skip
// human-oriented messages.
func (r *Runner) structured() bool {
	return r.format == formatter.FormatJSON || r.format == formatter.FormatYAML
}

// done prints a confirmation line unless the output is structured, where v is written instead.
func (r *Runner) done(v any, format string, args ...any) error {
	if r.structured() {
		return r.render(nil, v)
	}
	return r.writePlain("✓ "+format+"\n", args...)
}
