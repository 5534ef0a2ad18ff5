package main

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/server"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/urfave/cli/v3"
)

// checkSortKey rejects keys the sorters would silently treat as name.
func checkSortKey(key string, allowed ...string) error {
	if !slices.Contains(allowed, key) {
		return fmt.Errorf("%w: unknown sort key %q (want one of %s)",
			shared.ErrInvalidArgument, key, strings.Join(allowed, ", "))
	}
	return nil
}

// parsePairs splits repeated key=value flags.
func parsePairs(flag string, values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, kv := range values {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: --%s %q is not key=value", shared.ErrInvalidArgument, flag, kv)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

// SourcesList lists sources, filtered and sorted client-side.
func (r *Runner) SourcesList(ctx context.Context, cmd *cli.Command) error {
	key := cmd.String("sort")
	if err := checkSortKey(key, tasks.SortByName, tasks.SortByStatus, tasks.SortByLastRun, tasks.SortByCreated); err != nil {
		return err
	}

	sources, err := r.api.Sources.List(ctx)
	if err != nil {
		return err
	}

	sources = tasks.FilterSources(sources, tasks.SourceQuery{
		Status: cmd.String("status"),
		Type:   cmd.String("type"),
		Search: cmd.String("search"),
	})
	tasks.SortSources(sources, key, cmd.Bool("desc"))

	r.logger.Debug("listing sources", "count", len(sources))
	return r.render(formatter.SourcesTable(sources), sources)
}

func (r *Runner) SourcesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	source, err := r.api.Sources.Get(ctx, id)
	if err != nil {
		return err
	}

	lastSync := "-"
	if source.LastSyncAt != nil {
		lastSync = shared.FormatTime(*source.LastSyncAt)
	}
	t := formatter.KeyValueTable("Source",
		"ID", source.ID,
		"Name", source.Name,
		"Type", source.Type,
		"Status", source.Status,
		"Last sync", lastSync,
		"Created", shared.FormatTime(source.CreatedAt),
	)
	return r.render(t, source)
}

// SourcesCreate creates a source from an API key or other static credentials.
func (r *Runner) SourcesCreate(ctx context.Context, cmd *cli.Command) error {
	req := models.CreateSourceRequest{Name: cmd.String("name"), Type: cmd.String("type")}

	if raw := cmd.String("config"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Config); err != nil {
			return fmt.Errorf("%w: --config is not a JSON object: %v", shared.ErrInvalidInput, err)
		}
	}

	creds, err := parsePairs("credential", cmd.StringSlice("credential"))
	if err != nil {
		return err
	}
	req.Credentials = creds

	source, err := r.api.Sources.Create(ctx, req)
	if err != nil {
		return err
	}
	return r.done(source, "Created source %s (%s)", source.Name, source.ID)
}

func (r *Runner) SourcesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.api.Sources.Delete(ctx, id); err != nil {
		return err
	}
	return r.done(map[string]string{"deleted": id}, "Deleted source %s", id)
}

// SourcesTest checks the source's credentials against its platform.
func (r *Runner) SourcesTest(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	result, err := r.api.Sources.Test(ctx, id)
	if err != nil {
		return err
	}
	if r.structured() {
		return r.render(nil, result)
	}
	if !result.Success {
		return fmt.Errorf("%w: connection test failed: %s", shared.ErrServiceUnavailable, result.Message)
	}
	return r.writePlain("✓ Connection OK (%dms) %s\n", result.LatencyMs, result.Message)
}

func (r *Runner) SourcesSync(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	run, err := r.api.Sources.Sync(ctx, id)
	if err != nil {
		return err
	}
	return r.done(run, "Sync started (run %s)", run.RunID)
}

// SourcesConnect runs the browser OAuth flow through a local callback server.
func (r *Runner) SourcesConnect(ctx context.Context, cmd *cli.Command) error {
	platform, err := requireArg(cmd, "platform")
	if err != nil {
		return err
	}

	srv, err := server.NewCallbackServer(r.config.Server.Addr(), shared.WithLogger(r.logger, "platform", platform))
	if err != nil {
		return err
	}

	r.logger.Info("waiting for authorization", "platform", platform, "redirect", srv.RedirectURI())
	source, err := server.ConnectSource(ctx, srv, r.api.Sources, server.ConnectOpts{
		Platform: platform,
		Name:     cmd.String("name"),
		Timeout:  cmd.Duration("timeout"),
		Open:     r.open,
		Prompt: func(url string) {
			r.writePlain("Open this URL in your browser to continue:\n\n  %s\n\n", url)
		},
	})
	if err != nil {
		return err
	}
	return r.done(source, "Connected %s source %s (%s)", platform, source.Name, source.ID)
}
