package tasks

import (
	"testing"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
)

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func jobID(j models.Job) string       { return j.ID }
func sourceID(s models.Source) string { return s.ID }

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterJobs(t *testing.T) {
	jobs := []models.Job{
		{ID: "1", Name: "Nightly CRM", SourceID: "s1", Status: models.JobActive},
		{ID: "2", Name: "Billing export", SourceID: "s2", Status: models.JobPaused, Description: "Stripe invoices"},
		{ID: "3", Name: "Weekly CRM", SourceID: "s1", Status: models.JobPaused},
	}

	tests := []struct {
		name  string
		query JobQuery
		want  []string
	}{
		{"Empty", JobQuery{}, []string{"1", "2", "3"}},
		{"Status", JobQuery{Status: models.JobPaused}, []string{"2", "3"}},
		{"Source", JobQuery{SourceID: "s1"}, []string{"1", "3"}},
		{"SearchName", JobQuery{Search: "crm"}, []string{"1", "3"}},
		{"SearchDescription", JobQuery{Search: " STRIPE "}, []string{"2"}},
		{"Combined", JobQuery{Status: models.JobPaused, SourceID: "s1"}, []string{"3"}},
		{"NoMatch", JobQuery{Search: "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterJobs(jobs, tt.query), jobID)
			if !equal(got, tt.want) {
				t.Errorf("FilterJobs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortJobs(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	fresh := func() []models.Job {
		return []models.Job{
			{ID: "b", Name: "beta", Status: models.JobPaused, LastRunAt: &t2, CreatedAt: t1},
			{ID: "c", Name: "Charlie", Status: models.JobActive, CreatedAt: t2},
			{ID: "a", Name: "alpha", Status: models.JobActive, LastRunAt: &t1, CreatedAt: t2},
		}
	}

	tests := []struct {
		name string
		key  string
		desc bool
		want []string
	}{
		{"Name", SortByName, false, []string{"a", "b", "c"}},
		{"NameDesc", SortByName, true, []string{"c", "b", "a"}},
		{"Status", SortByStatus, false, []string{"a", "c", "b"}},
		{"LastRunNilLast", SortByLastRun, false, []string{"a", "b", "c"}},
		{"LastRunDescNilLast", SortByLastRun, true, []string{"b", "a", "c"}},
		{"Created", SortByCreated, false, []string{"b", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs := fresh()
			SortJobs(jobs, tt.key, tt.desc)
			if got := ids(jobs, jobID); !equal(got, tt.want) {
				t.Errorf("SortJobs(%s, desc=%v) = %v, want %v", tt.key, tt.desc, got, tt.want)
			}
		})
	}
}

func TestFilterAndSortSources(t *testing.T) {
	synced := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	sources := []models.Source{
		{ID: "1", Name: "Stripe", Type: "stripe", Status: models.SourceActive, LastSyncAt: &synced},
		{ID: "2", Name: "HubSpot", Type: "hubspot", Status: models.SourceError},
		{ID: "3", Name: "HubSpot EU", Type: "HubSpot", Status: models.SourceActive},
	}

	if got := ids(FilterSources(sources, SourceQuery{Type: "hubspot"}), sourceID); !equal(got, []string{"2", "3"}) {
		t.Errorf("type filter = %v", got)
	}
	if got := ids(FilterSources(sources, SourceQuery{Status: models.SourceActive, Search: "eu"}), sourceID); !equal(got, []string{"3"}) {
		t.Errorf("status+search filter = %v", got)
	}

	sorted := append([]models.Source(nil), sources...)
	SortSources(sorted, SortByName, false)
	if got := ids(sorted, sourceID); !equal(got, []string{"2", "3", "1"}) {
		t.Errorf("name sort = %v", got)
	}
	SortSources(sorted, SortByLastRun, false)
	if got := ids(sorted, sourceID); got[0] != "1" {
		t.Errorf("last sync sort = %v, want synced source first", got)
	}
}

func TestComputeStats(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	s := ComputeStats(
		[]models.Source{{Status: models.SourceActive}, {Status: models.SourcePending}},
		[]models.Job{
			{Status: models.JobRunning, NextRunAt: &late},
			{Status: models.JobFailed, NextRunAt: &early},
			{Status: models.JobActive},
		},
	)

	if s.Sources != 2 || s.ActiveSources != 1 || s.ErrorSources != 0 {
		t.Errorf("source stats = %+v", s)
	}
	if s.Jobs != 3 || s.RunningJobs != 1 || s.FailedJobs != 1 || s.ActiveJobs != 1 {
		t.Errorf("job stats = %+v", s)
	}
	if s.NextRun == nil || !s.NextRun.Equal(early) {
		t.Errorf("NextRun = %v, want %v", s.NextRun, early)
	}

	if empty := ComputeStats(nil, nil); empty.NextRun != nil || empty.Jobs != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}
