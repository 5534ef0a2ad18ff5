package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/robfig/cron/v3"
)

// JobBuilder steps.
const (
	JobStepBasics = iota + 1
	JobStepSchedule
	JobStepOptions
	JobStepReview
)

// JobBuilder assembles a [models.CreateJobRequest] in four steps: basics, schedule, options, review.
type JobBuilder struct {
	*Wizard[models.CreateJobRequest]
}

// DefaultJob is the job builder's starting form.
func DefaultJob() models.CreateJobRequest {
	return models.CreateJobRequest{
		Type:     "backup",
		Schedule: models.JobSchedule{Frequency: models.FrequencyDaily, Timezone: "UTC"},
		Config:   models.JobConfig{RetentionDays: 30, Format: "json"},
	}
}

func NewJobBuilder() *JobBuilder {
	return &JobBuilder{New(DefaultJob(),
		Step[models.CreateJobRequest]{Title: "Basics", Fields: []string{"Name", "SourceID", "Type"}},
		Step[models.CreateJobRequest]{Title: "Schedule", Fields: []string{"Schedule.Frequency", "Schedule.Cron"}, Check: checkSchedule},
		Step[models.CreateJobRequest]{Title: "Options", Fields: []string{"Config.RetentionDays", "Config.Format"}},
		Step[models.CreateJobRequest]{Title: "Review"},
	)}
}

// checkSchedule rejects unknown timezones and custom cron expressions that cannot be parsed in the
// job's timezone.
func checkSchedule(job *models.CreateJobRequest) map[string]string {
	errs := make(map[string]string)
	if _, err := time.LoadLocation(job.Schedule.Timezone); err != nil {
		errs["timezone"] = "is not a known time zone"
	}

	if job.Schedule.Frequency == models.FrequencyCustom && job.Schedule.Cron != "" {
		s := job.Schedule
		if errs["timezone"] != "" {
			s.Timezone = ""
		}
		if _, err := schedule(s); err != nil {
			errs["cron"] = "is not a valid cron expression"
		}
	}
	return errs
}

// schedule resolves the form's schedule; manual jobs have none.
func schedule(s models.JobSchedule) (cron.Schedule, error) {
	var expr string
	switch s.Frequency {
	case models.FrequencyManual:
		return nil, nil
	case models.FrequencyHourly, models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly:
		expr = "@" + s.Frequency
	case models.FrequencyCustom:
		expr = s.Cron
	default:
		return nil, fmt.Errorf("%w: unknown frequency %q", shared.ErrInvalidInput, s.Frequency)
	}

	if s.Timezone != "" && !strings.HasPrefix(expr, "CRON_TZ=") && !strings.HasPrefix(expr, "TZ=") {
		expr = "CRON_TZ=" + s.Timezone + " " + expr
	}
	return cron.ParseStandard(expr)
}

// NextRuns previews the next n run times after from, for the review step. Manual jobs return none.
func (b *JobBuilder) NextRuns(from time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, nil
	}

	sched, err := schedule(b.Form().Schedule)
	if err != nil || sched == nil {
		return nil, err
	}

	if tz := b.Form().Schedule.Timezone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			from = from.In(loc)
		}
	}

	runs := make([]time.Time, 0, n)
	for t := from; len(runs) < n; {
		t = sched.Next(t)
		if t.IsZero() {
			break
		}
		runs = append(runs, t)
	}
	return runs, nil
}

// Set assigns a form field by its JSON name, parsing numbers and booleans.
func (b *JobBuilder) Set(field, value string) error {
	job := b.Form()
	switch field {
	case "name":
		job.Name = strings.TrimSpace(value)
	case "description":
		job.Description = value
	case "sourceId":
		job.SourceID = strings.TrimSpace(value)
	case "type":
		job.Type = value
	case "frequency":
		job.Schedule.Frequency = strings.ToLower(strings.TrimSpace(value))
	case "cron":
		job.Schedule.Cron = strings.TrimSpace(value)
	case "timezone":
		job.Schedule.Timezone = value
	case "retentionDays":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%w: retentionDays must be a number", shared.ErrInvalidArgument)
		}
		job.Config.RetentionDays = n
	case "format":
		job.Config.Format = strings.ToLower(strings.TrimSpace(value))
	case "incremental":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: incremental must be true or false", shared.ErrInvalidArgument)
		}
		job.Config.Incremental = v
	default:
		return fmt.Errorf("%w: unknown job field %q", shared.ErrInvalidArgument, field)
	}
	return nil
}

// Value returns a form field by its JSON name, formatted the way [JobBuilder.Set] parses it.
func (b *JobBuilder) Value(field string) string {
	job := b.Form()
	switch field {
	case "name":
		return job.Name
	case "description":
		return job.Description
	case "sourceId":
		return job.SourceID
	case "type":
		return job.Type
	case "frequency":
		return job.Schedule.Frequency
	case "cron":
		return job.Schedule.Cron
	case "timezone":
		return job.Schedule.Timezone
	case "retentionDays":
		return strconv.Itoa(job.Config.RetentionDays)
	case "format":
		return job.Config.Format
	case "incremental":
		return strconv.FormatBool(job.Config.Incremental)
	}
	return ""
}

// JobStepFields lists the JSON field names edited on each job builder step.
var JobStepFields = map[int][]string{
	JobStepBasics:   {"name", "sourceId", "description"},
	JobStepSchedule: {"frequency", "cron", "timezone"},
	JobStepOptions:  {"retentionDays", "format", "incremental"},
}
