package ui

import (
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
)

type overviewLoadedMsg struct {
	result *tasks.OverviewResult
	err    error
}

type progressMsg tasks.ProgressUpdate

type jobActionMsg struct {
	action string
	job    *models.Job
	err    error
}

type runsLoadedMsg struct {
	job  models.Job
	runs []models.JobRun
	err  error
}

type jobCreatedMsg struct {
	job *models.Job
	err error
}

// sessionExpiredMsg is sent once the API client has given up on refreshing the session.
type sessionExpiredMsg struct{}
