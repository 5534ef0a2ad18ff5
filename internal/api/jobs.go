package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

// JobsAPI wraps /jobs.
type JobsAPI struct {
	client *Client
}

// List returns jobs, narrowed server-side by filter.
func (j *JobsAPI) List(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	q := url.Values{}
	if filter.SourceID != "" {
		q.Set("sourceId", filter.SourceID)
	}
	if filter.Status != "" {
		q.Set("status", filter.Status)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var jobs []models.Job
	if err := j.client.list(ctx, "/jobs", q, "jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (j *JobsAPI) Get(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := j.client.get(ctx, resourcePath("jobs", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *JobsAPI) Create(ctx context.Context, req models.CreateJobRequest) (*models.Job, error) {
	var job models.Job
	if err := j.client.post(ctx, "/jobs", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *JobsAPI) Update(ctx context.Context, id string, req models.UpdateJobRequest) (*models.Job, error) {
	var job models.Job
	if err := j.client.put(ctx, resourcePath("jobs", id), req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *JobsAPI) Delete(ctx context.Context, id string) error {
	return j.client.delete(ctx, resourcePath("jobs", id))
}

// Run starts the job now.
func (j *JobsAPI) Run(ctx context.Context, id string) (*models.Job, error) {
	return j.act(ctx, id, "run")
}

func (j *JobsAPI) Pause(ctx context.Context, id string) (*models.Job, error) {
	return j.act(ctx, id, "pause")
}

func (j *JobsAPI) Resume(ctx context.Context, id string) (*models.Job, error) {
	return j.act(ctx, id, "resume")
}

// Runs returns the job's execution history, most recent first.
func (j *JobsAPI) Runs(ctx context.Context, id string) ([]models.JobRun, error) {
	var runs []models.JobRun
	if err := j.client.list(ctx, resourcePath("jobs", id, "runs"), nil, "runs", &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (j *JobsAPI) act(ctx context.Context, id, action string) (*models.Job, error) {
	var job models.Job
	if err := j.client.action(ctx, resourcePath("jobs", id, action), &job); err != nil {
		return nil, err
	}
	return &job, nil
}
