package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/urfave/cli/v3"
)

func (r *Runner) SystemHealth(ctx context.Context, cmd *cli.Command) error {
	health, err := r.api.System.Health(ctx)
	if err != nil {
		return err
	}
	if err := r.render(formatter.HealthTable(health), health); err != nil {
		return err
	}
	if !health.Healthy() {
		return fmt.Errorf("%w: %d service(s) degraded", shared.ErrServiceUnavailable, len(health.Degraded()))
	}
	return nil
}

func (r *Runner) SystemMetrics(ctx context.Context, cmd *cli.Command) error {
	metrics, err := r.api.System.Metrics(ctx)
	if err != nil {
		return err
	}
	return r.render(formatter.MetricsTable(metrics), metrics)
}

func (r *Runner) SystemAudit(ctx context.Context, cmd *cli.Command) error {
	events, err := r.api.System.AuditLog(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}
	return r.render(formatter.AuditTable(events), events)
}

// Overview loads the dashboard landing page. Sections that fail are logged and left out.
func (r *Runner) Overview(ctx context.Context, cmd *cli.Command) error {
	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := r.dashboard.Overview(ctx, progress, tasks.OverviewOpts{
		IncludeHealth: cmd.Bool("health"),
		RecentRuns:    cmd.Int("runs"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	for _, e := range result.Errors {
		if errors.Is(e.Error, shared.ErrForbidden) {
			r.logger.Warn("section requires more permissions", "section", e.Endpoint)
			continue
		}
		r.logger.Warn("section unavailable", "section", e.Endpoint, "error", e.Error)
	}

	if cmd.IsSet("report") {
		path, err := formatter.WriteOverviewReport(result, cmd.String("report"))
		if err != nil {
			return err
		}
		r.logger.Info("report written", "path", path)
	}

	switch r.format {
	case formatter.FormatMarkdown:
		_, err := r.output.Write(formatter.ExportOverviewMarkdown(result, time.Now()))
		return err
	case formatter.FormatJSON, formatter.FormatYAML:
		return r.render(nil, result)
	}

	if err := r.render(statsTable(result), result); err != nil {
		return err
	}
	if result.Health != nil {
		if err := r.render(formatter.HealthTable(result.Health), nil); err != nil {
			return err
		}
	}
	return r.render(formatter.JobsTable(result.Jobs), nil)
}

func statsTable(o *tasks.OverviewResult) *formatter.Table {
	title := "Overview"
	if o.Account != nil {
		title = o.Account.Name
	}
	s := o.Stats
	next := "-"
	if s.NextRun != nil {
		next = shared.FormatTime(*s.NextRun)
	}
	return formatter.KeyValueTable(title,
		"Sources", strconv.Itoa(s.Sources),
		"Active sources", strconv.Itoa(s.ActiveSources),
		"Sources with errors", strconv.Itoa(s.ErrorSources),
		"Jobs", strconv.Itoa(s.Jobs),
		"Active jobs", strconv.Itoa(s.ActiveJobs),
		"Paused jobs", strconv.Itoa(s.PausedJobs),
		"Running jobs", strconv.Itoa(s.RunningJobs),
		"Failed jobs", strconv.Itoa(s.FailedJobs),
		"Next run", next,
	)
}
