package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/api"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"golang.org/x/sync/errgroup"
)

// AccountFetcher loads the current account.
type AccountFetcher interface {
	Get(ctx context.Context) (*models.Account, error)
}

// SourceLister loads backup sources.
type SourceLister interface {
	List(ctx context.Context) ([]models.Source, error)
}

// JobService loads and drives backup jobs.
type JobService interface {
	List(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	Runs(ctx context.Context, id string) ([]models.JobRun, error)
	Run(ctx context.Context, id string) (*models.Job, error)
	Pause(ctx context.Context, id string) (*models.Job, error)
	Resume(ctx context.Context, id string) (*models.Job, error)
}

// HealthChecker loads backend health.
type HealthChecker interface {
	Health(ctx context.Context) (*models.SystemHealth, error)
}

// Dashboard aggregates the resource calls behind the overview page and bulk job actions.
type Dashboard struct {
	account AccountFetcher
	sources SourceLister
	jobs    JobService
	system  HealthChecker
}

// NewDashboard creates a Dashboard over the given resources. Any of them may be nil, in which case the
// corresponding section is reported as unavailable.
func NewDashboard(account AccountFetcher, sources SourceLister, jobs JobService, system HealthChecker) *Dashboard {
	return &Dashboard{account: account, sources: sources, jobs: jobs, system: system}
}

// DashboardFromAPI wires a Dashboard to the backend client.
func DashboardFromAPI(a *api.API) *Dashboard {
	return NewDashboard(a.Account, a.Sources, a.Jobs, a.System)
}

// EndpointResult records a section that failed to load.
type EndpointResult struct {
	Endpoint string
	Error    error
}

func (e EndpointResult) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Error != nil {
		msg = e.Error.Error()
	}
	return json.Marshal(struct {
		Endpoint string `json:"endpoint"`
		Error    string `json:"error"`
	}{e.Endpoint, msg})
}

// OverviewOpts selects optional sections of [Dashboard.Overview].
type OverviewOpts struct {
	IncludeHealth bool // requires system administrator rights
	RecentRuns    int  // runs to load per job; 0 skips run history
}

// OverviewResult is the data behind the dashboard landing page.
type OverviewResult struct {
	Account *models.Account            `json:"account,omitempty"`
	Sources []models.Source            `json:"sources"`
	Jobs    []models.Job               `json:"jobs"`
	Runs    map[string][]models.JobRun `json:"runs,omitempty"` // keyed by job id
	Health  *models.SystemHealth       `json:"health,omitempty"`
	Stats   Stats                      `json:"stats"`
	Errors  []EndpointResult           `json:"errors,omitempty"` // Failed section loads
}

type endpointOperation struct {
	name    string
	phase   Phase
	message string
	fetch   func(ctx context.Context) error
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Overview loads every dashboard section concurrently. A failing section is recorded in
// [OverviewResult.Errors] and does not stop the others; Overview only fails when nothing could be loaded
// or ctx is done.
func (d *Dashboard) Overview(ctx context.Context, progress chan<- ProgressUpdate, opts OverviewOpts) (*OverviewResult, error) {
	result := &OverviewResult{Runs: make(map[string][]models.JobRun)}

	var ops []endpointOperation
	if d.account != nil {
		ops = append(ops, endpointOperation{name: "account", phase: FetchAccount, message: "Fetching account...",
			fetch: func(ctx context.Context) (err error) {
				result.Account, err = d.account.Get(ctx)
				return err
			}})
	}
	if d.sources != nil {
		ops = append(ops, endpointOperation{name: "sources", phase: FetchSources, message: "Fetching sources...",
			fetch: func(ctx context.Context) (err error) {
				result.Sources, err = d.sources.List(ctx)
				return err
			}})
	}
	if d.jobs != nil {
		ops = append(ops, endpointOperation{name: "jobs", phase: FetchJobs, message: "Fetching jobs...",
			fetch: func(ctx context.Context) (err error) {
				result.Jobs, err = d.jobs.List(ctx, models.JobFilter{})
				return err
			}})
	}
	if opts.IncludeHealth && d.system != nil {
		ops = append(ops, endpointOperation{name: "health", phase: FetchHealth, message: "Fetching system health...",
			fetch: func(ctx context.Context) (err error) {
				result.Health, err = d.system.Health(ctx)
				return err
			}})
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: no dashboard resources configured", shared.ErrServiceUnavailable)
	}

	var (
		mu   sync.Mutex
		done atomic.Int32
		g    errgroup.Group
	)
	total := len(ops)

	for i, op := range ops {
		sendProgress(progress, operationUpdate(op, i+1, total))
		g.Go(func() error {
			err := op.fetch(ctx)
			sendProgress(progress, operationDoneUpdate(op, int(done.Add(1)), total, err))
			if err != nil {
				mu.Lock()
				result.Errors = append(result.Errors, EndpointResult{Endpoint: op.name, Error: err})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(result.Errors) == total {
		return result, fmt.Errorf("%w: every dashboard section failed: %w", shared.ErrAPIRequest, result.Errors[0].Error)
	}

	if opts.RecentRuns > 0 && d.jobs != nil && len(result.Jobs) > 0 {
		d.loadRuns(ctx, progress, result, opts.RecentRuns)
	}

	result.Stats = ComputeStats(result.Sources, result.Jobs)
	return result, nil
}

func (d *Dashboard) loadRuns(ctx context.Context, progress chan<- ProgressUpdate, result *OverviewResult, limit int) {
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(4)
	total := len(result.Jobs)

	for i, job := range result.Jobs {
		sendProgress(progress, ProgressUpdate{
			Phase:   FetchRuns,
			Step:    i + 1,
			Total:   total,
			Message: fmt.Sprintf("Fetching runs for %s...", job.Name),
		})
		g.Go(func() error {
			runs, err := d.jobs.Runs(ctx, job.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, EndpointResult{Endpoint: "runs/" + job.ID, Error: err})
				return nil
			}
			if len(runs) > limit {
				runs = runs[:limit]
			}
			result.Runs[job.ID] = runs
			return nil
		})
	}
	_ = g.Wait()
}
