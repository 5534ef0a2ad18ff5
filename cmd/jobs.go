package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/wizard"
	"github.com/urfave/cli/v3"
)

// stepper is the part of a wizard the CLI drives non-interactively.
type stepper interface {
	Next() error
	IsLast() bool
	Step() int
	Title() string
}

// advance walks w to its review step, stopping at the first step that fails validation.
func advance(w stepper) error {
	for !w.IsLast() {
		if err := w.Next(); err != nil {
			return fmt.Errorf("step %d (%s): %w", w.Step(), w.Title(), err)
		}
	}
	return nil
}

// JobsList lists jobs. Status and source narrow the request; search and sort apply client-side.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	key := cmd.String("sort")
	if err := checkSortKey(key, tasks.SortByName, tasks.SortByStatus, tasks.SortByLastRun, tasks.SortByNextRun, tasks.SortByCreated); err != nil {
		return err
	}

	jobs, err := r.api.Jobs.List(ctx, models.JobFilter{
		Status:   cmd.String("status"),
		SourceID: cmd.String("source"),
	})
	if err != nil {
		return err
	}

	jobs = tasks.FilterJobs(jobs, tasks.JobQuery{
		Status:   cmd.String("status"),
		SourceID: cmd.String("source"),
		Search:   cmd.String("search"),
	})
	tasks.SortJobs(jobs, key, cmd.Bool("desc"))

	if limit := cmd.Int("limit"); limit > 0 && limit < len(jobs) {
		jobs = jobs[:limit]
	}
	return r.render(formatter.JobsTable(jobs), jobs)
}

func (r *Runner) JobsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	job, err := r.api.Jobs.Get(ctx, id)
	if err != nil {
		return err
	}

	t := formatter.KeyValueTable("Job",
		"ID", job.ID,
		"Name", job.Name,
		"Source", job.SourceID,
		"Type", job.Type,
		"Status", job.Status,
		"Schedule", formatter.JobSchedule(job.Schedule),
		"Retention", fmt.Sprintf("%d days", job.Config.RetentionDays),
		"Format", job.Config.Format,
		"Incremental", strconv.FormatBool(job.Config.Incremental),
		"Last run", timeOrDash(job.LastRunAt),
		"Next run", timeOrDash(job.NextRunAt),
	)
	return r.render(t, job)
}

func timeOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return shared.FormatTime(*t)
}

// jobBuilderFlags maps job builder fields to the create flags that set them.
var jobBuilderFlags = []struct{ field, flag string }{
	{"name", "name"},
	{"sourceId", "source"},
	{"description", "description"},
	{"type", "type"},
	{"frequency", "frequency"},
	{"cron", "cron"},
	{"timezone", "timezone"},
	{"retentionDays", "retention"},
	{"format", "format"},
	{"incremental", "incremental"},
}

// JobsCreate fills the job builder from flags, validates every step and creates the job.
func (r *Runner) JobsCreate(ctx context.Context, cmd *cli.Command) error {
	b := wizard.NewJobBuilder()
	for _, f := range jobBuilderFlags {
		var value string
		switch f.flag {
		case "retention":
			value = strconv.Itoa(cmd.Int(f.flag))
		case "incremental":
			value = strconv.FormatBool(cmd.Bool(f.flag))
		default:
			value = cmd.String(f.flag)
		}
		if err := b.Set(f.field, value); err != nil {
			return err
		}
	}

	if err := advance(b); err != nil {
		return err
	}

	runs, err := b.NextRuns(time.Now(), 3)
	if err != nil {
		return err
	}
	if !r.structured() {
		r.writePlainHeader("Review: " + b.Form().Name)
		r.writePlain("Source:    %s\n", b.Form().SourceID)
		r.writePlain("Schedule:  %s\n", formatter.JobSchedule(b.Form().Schedule))
		r.writePlain("Retention: %d days, %s\n", b.Form().Config.RetentionDays, b.Form().Config.Format)
		for _, t := range runs {
			r.writePlain("Next run:  %s\n", shared.FormatTime(t))
		}
	}

	req, err := b.Submit()
	if err != nil {
		return err
	}
	if cmd.Bool("dry-run") {
		return r.done(req, "Job is valid; not created (--dry-run)")
	}

	job, err := r.api.Jobs.Create(ctx, req)
	if err != nil {
		return err
	}
	return r.done(job, "Created job %s (%s)", job.Name, job.ID)
}

func (r *Runner) JobsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}
	if err := r.api.Jobs.Delete(ctx, id); err != nil {
		return err
	}
	return r.done(map[string]string{"deleted": id}, "Deleted job %s", id)
}

// jobIDs resolves the jobs a bulk action targets: the positional ids, or every job with --all.
func (r *Runner) jobIDs(ctx context.Context, cmd *cli.Command) ([]string, error) {
	ids := cmd.Args().Slice()
	if !cmd.Bool("all") {
		if len(ids) == 0 {
			return nil, fmt.Errorf("%w: <job-id>... or --all", shared.ErrMissingArgument)
		}
		return ids, nil
	}
	if len(ids) > 0 {
		return nil, fmt.Errorf("%w: job ids cannot be combined with --all", shared.ErrInvalidArgument)
	}

	jobs, err := r.api.Jobs.List(ctx, models.JobFilter{Status: cmd.String("status")})
	if err != nil {
		return nil, err
	}
	for _, j := range tasks.FilterJobs(jobs, tasks.JobQuery{Status: cmd.String("status")}) {
		ids = append(ids, j.ID)
	}
	return ids, nil
}

// JobsAction returns the action for run, pause and resume. Several ids go through the bulk worker
// pool; failures are reported per job and make the command fail.
func (r *Runner) JobsAction(action string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		ids, err := r.jobIDs(ctx, cmd)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return r.writePlain("No matching jobs\n")
		}

		progress := make(chan tasks.ProgressUpdate, len(ids)*2)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for update := range progress {
				r.logger.Debug(update.Message, "step", update.Step, "total", update.Total)
			}
		}()

		result, err := r.dashboard.BulkAction(ctx, progress, action, ids, tasks.BulkOpts{
			NumWorkers: cmd.Int("workers"),
			RateLimit:  cmd.Float("rate"),
		})
		close(progress)
		<-done
		if err != nil {
			return err
		}

		if err := r.renderBulk(result); err != nil {
			return err
		}
		if result.Failed > 0 {
			return fmt.Errorf("%w: %d of %d jobs failed to %s", shared.ErrAPIRequest, result.Failed, result.Total, action)
		}
		return nil
	}
}

func (r *Runner) renderBulk(result *tasks.BulkResult) error {
	t := &formatter.Table{
		Title:   fmt.Sprintf("%s: %d succeeded, %d failed", result.Action, result.Succeeded, result.Failed),
		Headers: []string{"Job", "Status", "Error"},
	}
	type row struct {
		JobID  string `json:"jobId"`
		Status string `json:"status,omitempty"`
		Error  string `json:"error,omitempty"`
	}
	rows := make([]row, 0, len(result.Results))
	for _, res := range result.Results {
		rw := row{JobID: res.JobID}
		if res.Job != nil {
			rw.Status = res.Job.Status
		}
		if res.Error != nil {
			rw.Error = res.Error.Error()
		}
		rows = append(rows, rw)
		t.Rows = append(t.Rows, []string{rw.JobID, orDash(rw.Status), orDash(rw.Error)})
	}
	return r.render(t, map[string]any{
		"action":    result.Action,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"results":   rows,
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// JobsRuns shows the most recent runs first.
func (r *Runner) JobsRuns(ctx context.Context, cmd *cli.Command) error {
	id, err := requireArg(cmd, "id")
	if err != nil {
		return err
	}

	runs, err := r.api.Jobs.Runs(ctx, id)
	if err != nil {
		return err
	}
	slices.SortStableFunc(runs, func(a, b models.JobRun) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	if limit := cmd.Int("limit"); limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return r.render(formatter.RunsTable(runs), runs)
}
