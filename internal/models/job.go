package models

import "time"

// Job status values reported by the backend.
const (
	JobActive    = "active"
	JobPaused    = "paused"
	JobRunning   = "running"
	JobFailed    = "failed"
	JobCompleted = "completed"
)

// Schedule frequencies understood by the backend scheduler.
const (
	FrequencyManual  = "manual"
	FrequencyHourly  = "hourly"
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyCustom  = "custom"
)

// Job copies data from a Source on a schedule.
type Job struct {
	ID          string      `json:"jobId"`
	AccountID   string      `json:"accountId"`
	SourceID    string      `json:"sourceId"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Schedule    JobSchedule `json:"schedule"`
	Config      JobConfig   `json:"config"`
	LastRunAt   *time.Time  `json:"lastRunAt,omitempty"`
	NextRunAt   *time.Time  `json:"nextRunAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// JobSchedule describes when a job runs. Cron is only used with [FrequencyCustom].
type JobSchedule struct {
	Frequency string `json:"frequency" validate:"required,oneof=manual hourly daily weekly monthly custom"`
	Cron      string `json:"cron,omitempty" validate:"required_if=Frequency custom"`
	Timezone  string `json:"timezone,omitempty"`
}

// JobConfig holds per-job backup options.
type JobConfig struct {
	RetentionDays int      `json:"retentionDays" validate:"min=1,max=3650"`
	Format        string   `json:"format" validate:"oneof=json csv"`
	Incremental   bool     `json:"incremental"`
	Entities      []string `json:"entities,omitempty"`
}

// JobRun is one execution of a job.
type JobRun struct {
	RunID            string     `json:"runId"`
	JobID            string     `json:"jobId"`
	Status           string     `json:"status"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	RecordsProcessed int64      `json:"recordsProcessed"`
	BytesProcessed   int64      `json:"bytesProcessed"`
	Error            string     `json:"error,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running.
func (r JobRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// CreateJobRequest is the body of POST /jobs, assembled by the job builder.
type CreateJobRequest struct {
	Name        string      `json:"name" validate:"required,max=120"`
	Description string      `json:"description,omitempty"`
	SourceID    string      `json:"sourceId" validate:"required"`
	Type        string      `json:"type" validate:"oneof=backup sync export"`
	Schedule    JobSchedule `json:"schedule"`
	Config      JobConfig   `json:"config"`
}

// UpdateJobRequest is the body of PUT /jobs/{id}; nil/empty fields are left unchanged.
type UpdateJobRequest struct {
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Schedule    *JobSchedule `json:"schedule,omitempty"`
	Config      *JobConfig   `json:"config,omitempty"`
}

// JobFilter narrows GET /jobs.
type JobFilter struct {
	SourceID string
	Status   string
	Limit    int
}
