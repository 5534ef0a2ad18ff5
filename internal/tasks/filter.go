package tasks

import (
	"slices"
	"strings"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
)

// Stats summarizes sources and jobs for the dashboard header.
type Stats struct {
	Sources       int        `json:"sources"`
	ActiveSources int        `json:"activeSources"`
	ErrorSources  int        `json:"errorSources"`
	Jobs          int        `json:"jobs"`
	ActiveJobs    int        `json:"activeJobs"`
	PausedJobs    int        `json:"pausedJobs"`
	FailedJobs    int        `json:"failedJobs"`
	RunningJobs   int        `json:"runningJobs"`
	NextRun       *time.Time `json:"nextRun,omitempty"` // earliest scheduled run across all jobs
}

// ComputeStats counts sources and jobs by status.
func ComputeStats(sources []models.Source, jobs []models.Job) Stats {
	s := Stats{Sources: len(sources), Jobs: len(jobs)}
	for _, src := range sources {
		switch src.Status {
		case models.SourceActive:
			s.ActiveSources++
		case models.SourceError:
			s.ErrorSources++
		}
	}
	for _, j := range jobs {
		switch j.Status {
		case models.JobActive:
			s.ActiveJobs++
		case models.JobPaused:
			s.PausedJobs++
		case models.JobFailed:
			s.FailedJobs++
		case models.JobRunning:
			s.RunningJobs++
		}
		if j.NextRunAt != nil && (s.NextRun == nil || j.NextRunAt.Before(*s.NextRun)) {
			next := *j.NextRunAt
			s.NextRun = &next
		}
	}
	return s
}

// JobQuery filters a job list client-side.
type JobQuery struct {
	Status   string
	SourceID string
	Search   string // substring of name or description, ignoring case and repeated spaces
}

// FilterJobs returns the jobs matching q, preserving order.
func FilterJobs(jobs []models.Job, q JobQuery) []models.Job {
	search := shared.NormalizeKey(q.Search)
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if q.Status != "" && j.Status != q.Status {
			continue
		}
		if q.SourceID != "" && j.SourceID != q.SourceID {
			continue
		}
		if search != "" &&
			!strings.Contains(shared.NormalizeKey(j.Name), search) &&
			!strings.Contains(shared.NormalizeKey(j.Description), search) {
			continue
		}
		out = append(out, j)
	}
	return out
}

// Sort keys accepted by [SortJobs] and [SortSources].
const (
	SortByName    = "name"
	SortByStatus  = "status"
	SortByLastRun = "last_run"
	SortByNextRun = "next_run"
	SortByCreated = "created"
)

// SortJobs sorts jobs in place by key. Jobs without a timestamp sort last for the time keys.
// Ties fall back to name so output is stable across refreshes.
func SortJobs(jobs []models.Job, key string, desc bool) {
	slices.SortStableFunc(jobs, func(a, b models.Job) int {
		var c int
		switch key {
		case SortByStatus:
			c = strings.Compare(a.Status, b.Status)
		case SortByLastRun:
			c = compareTimes(a.LastRunAt, b.LastRunAt, desc)
		case SortByNextRun:
			c = compareTimes(a.NextRunAt, b.NextRunAt, desc)
		case SortByCreated:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if desc {
			return -c
		}
		return c
	})
}

// SourceQuery filters a source list client-side.
type SourceQuery struct {
	Status string
	Type   string
	Search string
}

// FilterSources returns the sources matching q, preserving order.
func FilterSources(sources []models.Source, q SourceQuery) []models.Source {
	search := shared.NormalizeKey(q.Search)
	out := make([]models.Source, 0, len(sources))
	for _, s := range sources {
		if q.Status != "" && s.Status != q.Status {
			continue
		}
		if q.Type != "" && !strings.EqualFold(s.Type, q.Type) {
			continue
		}
		if search != "" && !strings.Contains(shared.NormalizeKey(s.Name), search) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortSources sorts sources in place. [SortByLastRun] orders by last sync time.
func SortSources(sources []models.Source, key string, desc bool) {
	slices.SortStableFunc(sources, func(a, b models.Source) int {
		var c int
		switch key {
		case SortByStatus:
			c = strings.Compare(a.Status, b.Status)
		case SortByLastRun:
			c = compareTimes(a.LastSyncAt, b.LastSyncAt, desc)
		case SortByCreated:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if c == 0 {
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if desc {
			return -c
		}
		return c
	})
}

// compareTimes orders nil after any time regardless of direction. desc pre-inverts the nil case
// because the caller negates the result.
func compareTimes(a, b *time.Time, desc bool) int {
	last := 1
	if desc {
		last = -1
	}
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return last
	case b == nil:
		return -last
	}
	return a.Compare(*b)
}
