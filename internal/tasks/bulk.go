package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"golang.org/x/time/rate"
)

// Bulk job actions.
const (
	ActionRun    = "run"
	ActionPause  = "pause"
	ActionResume = "resume"
)

// BulkOpts contains configuration for bulk job actions.
type BulkOpts struct {
	NumWorkers int     // Concurrent workers (default: 4, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
}

// JobActionResult is the outcome of one job action.
type JobActionResult struct {
	JobID string
	Job   *models.Job
	Error error
}

// BulkResult summarizes a bulk action.
type BulkResult struct {
	Action    string
	Total     int
	Succeeded int
	Failed    int
	Results   []JobActionResult
}

// BulkAction applies action to every job in ids with a rate-limited worker pool.
//
// Individual failures are recorded in the result; BulkAction only returns an error for an unknown action
// or a missing job service.
func (d *Dashboard) BulkAction(ctx context.Context, progress chan<- ProgressUpdate, action string, ids []string, opts BulkOpts) (*BulkResult, error) {
	if d.jobs == nil {
		return nil, fmt.Errorf("%w: job service not initialized", shared.ErrServiceUnavailable)
	}

	var apply func(context.Context, string) (*models.Job, error)
	switch action {
	case ActionRun:
		apply = d.jobs.Run
	case ActionPause:
		apply = d.jobs.Pause
	case ActionResume:
		apply = d.jobs.Resume
	default:
		return nil, fmt.Errorf("%w: unknown job action %q", shared.ErrInvalidArgument, action)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	result := &BulkResult{Action: action, Total: len(ids), Results: make([]JobActionResult, 0, len(ids))}
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	queue := make(chan string, len(ids))
	results := make(chan JobActionResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go actionWorker(ctx, &wg, apply, limiter, queue, results)
	}

	for i, id := range ids {
		sendProgress(progress, actionStartedUpdate(i+1, len(ids), action, id))
		queue <- id
	}
	close(queue)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)
		if res.Error != nil {
			result.Failed++
		} else {
			result.Succeeded++
		}
		sendProgress(progress, actionCompletedUpdate(completed, len(ids), res))
	}

	// Jobs never dequeued because ctx ended are reported as failed.
	if missing := len(ids) - completed; missing > 0 {
		seen := make(map[string]int, completed)
		for _, r := range result.Results {
			seen[r.JobID]++
		}
		for _, id := range ids {
			if seen[id] > 0 {
				seen[id]--
				continue
			}
			result.Results = append(result.Results, JobActionResult{JobID: id, Error: ctx.Err()})
			result.Failed++
		}
	}
	return result, nil
}

// actionWorker applies the action to each job id from the queue.
func actionWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	apply func(context.Context, string) (*models.Job, error),
	limiter *rate.Limiter,
	queue <-chan string,
	results chan<- JobActionResult,
) {
	defer wg.Done()

	for id := range queue {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := limiter.Wait(ctx); err != nil {
			results <- JobActionResult{JobID: id, Error: err}
			continue
		}

		job, err := apply(ctx, id)
		results <- JobActionResult{JobID: id, Job: job, Error: err}
	}
}
