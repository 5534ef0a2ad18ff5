package ui

import (
	"fmt"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = jobItem{}
	_ list.Item = sourceItem{}
)

// jobItem wraps [models.Job] to implement [list.Item].
type jobItem struct {
	job models.Job
}

func (i jobItem) FilterValue() string { return i.job.Name }
func (i jobItem) Title() string       { return i.job.Name }
func (i jobItem) Description() string {
	desc := fmt.Sprintf("%s • %s • %s", styles.status(i.job.Status), i.job.Type, formatter.JobSchedule(i.job.Schedule))
	if i.job.NextRunAt != nil {
		desc = fmt.Sprintf("%s • next %s", desc, shared.FormatTime(*i.job.NextRunAt))
	}
	return desc
}

// sourceItem wraps [models.Source] to implement [list.Item].
type sourceItem struct {
	source models.Source
}

func (i sourceItem) FilterValue() string { return i.source.Name }
func (i sourceItem) Title() string       { return i.source.Name }
func (i sourceItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.source.Type, styles.status(i.source.Status))
	if i.source.LastSyncAt != nil {
		desc = fmt.Sprintf("%s • synced %s", desc, shared.FormatTime(*i.source.LastSyncAt))
	}
	return desc
}

func jobItems(jobs []models.Job) []list.Item {
	items := make([]list.Item, len(jobs))
	for i, j := range jobs {
		items[i] = jobItem{job: j}
	}
	return items
}

func sourceItems(sources []models.Source) []list.Item {
	items := make([]list.Item, len(sources))
	for i, s := range sources {
		items[i] = sourceItem{source: s}
	}
	return items
}
