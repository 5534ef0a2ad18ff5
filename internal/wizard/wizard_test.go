package wizard

import (
	"testing"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeJob(t *testing.T, b *JobBuilder) {
	t.Helper()
	require.NoError(t, b.Set("name", "Nightly CRM"))
	require.NoError(t, b.Set("sourceId", "src_1"))
	require.NoError(t, b.Next())
	require.NoError(t, b.Next())
	require.NoError(t, b.Next())
	require.Equal(t, JobStepReview, b.Step())
}

func TestJobBuilder(t *testing.T) {
	t.Run("BasicsRequireNameAndSource", func(t *testing.T) {
		b := NewJobBuilder()

		err := b.Next()
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Equal(t, JobStepBasics, b.Step())

		errs := b.Errors()
		assert.Contains(t, errs, "name")
		assert.Contains(t, errs, "sourceId")

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 1, verr.Step)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("NameOnlyStays", func(t *testing.T) {
		b := NewJobBuilder()
		require.NoError(t, b.Set("name", "Nightly"))

		assert.Error(t, b.Next())
		assert.Equal(t, JobStepBasics, b.Step())
		assert.NotContains(t, b.Errors(), "name")
		assert.Contains(t, b.Errors(), "sourceId")
	})

	t.Run("BasicsAdvance", func(t *testing.T) {
		b := NewJobBuilder()
		require.NoError(t, b.Set("name", "Nightly"))
		require.NoError(t, b.Set("sourceId", "src_1"))

		require.NoError(t, b.Next())
		assert.Equal(t, JobStepSchedule, b.Step())
		assert.Empty(t, b.Errors())
	})

	t.Run("CustomScheduleNeedsCron", func(t *testing.T) {
		b := NewJobBuilder()
		require.NoError(t, b.Set("name", "Nightly"))
		require.NoError(t, b.Set("sourceId", "src_1"))
		require.NoError(t, b.Next())

		require.NoError(t, b.Set("frequency", "custom"))
		assert.Error(t, b.Next())
		assert.Equal(t, "is required", b.Errors()["cron"])

		require.NoError(t, b.Set("cron", "every tuesday"))
		assert.Error(t, b.Next())
		assert.Equal(t, "is not a valid cron expression", b.Errors()["cron"])

		require.NoError(t, b.Set("cron", "0 3 * * 1-5"))
		require.NoError(t, b.Next())
		assert.Equal(t, JobStepOptions, b.Step())
	})

	t.Run("TimezoneChecked", func(t *testing.T) {
		b := NewJobBuilder()
		require.NoError(t, b.Set("name", "Nightly"))
		require.NoError(t, b.Set("sourceId", "src_1"))
		require.NoError(t, b.Next())

		require.NoError(t, b.Set("timezone", "Mars/Olympus"))
		assert.Error(t, b.Next())
		assert.Equal(t, "is not a known time zone", b.Errors()["timezone"])
		assert.Equal(t, JobStepSchedule, b.Step())

		require.NoError(t, b.Set("frequency", "custom"))
		require.NoError(t, b.Set("cron", "0 3 * * *"))
		assert.Error(t, b.Next())
		assert.NotContains(t, b.Errors(), "cron")

		require.NoError(t, b.Set("timezone", "UTC"))
		require.NoError(t, b.Next())
		assert.Equal(t, JobStepOptions, b.Step())
	})

	t.Run("SubmitRechecksTimezone", func(t *testing.T) {
		b := NewJobBuilder()
		completeJob(t, b)

		b.Form().Schedule.Timezone = "Mars/Olympus"
		_, err := b.Submit()
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Equal(t, JobStepSchedule, b.Step())
		assert.False(t, b.Submitted())
	})

	t.Run("UnknownFrequency", func(t *testing.T) {
		b := NewJobBuilder()
		require.NoError(t, b.Set("name", "Nightly"))
		require.NoError(t, b.Set("sourceId", "src_1"))
		require.NoError(t, b.Next())

		require.NoError(t, b.Set("frequency", "fortnightly"))
		assert.Error(t, b.Next())
		assert.Contains(t, b.Errors()["frequency"], "must be one of")
	})

	t.Run("OptionsValidated", func(t *testing.T) {
		b := NewJobBuilder()
		require.NoError(t, b.Set("name", "Nightly"))
		require.NoError(t, b.Set("sourceId", "src_1"))
		require.NoError(t, b.Next())
		require.NoError(t, b.Next())

		require.NoError(t, b.Set("retentionDays", "0"))
		require.NoError(t, b.Set("format", "xml"))
		assert.Error(t, b.Next())
		assert.Contains(t, b.Errors(), "retentionDays")
		assert.Contains(t, b.Errors(), "format")

		assert.ErrorIs(t, b.Set("retentionDays", "lots"), shared.ErrInvalidArgument)
	})

	t.Run("BackKeepsState", func(t *testing.T) {
		b := NewJobBuilder()
		assert.False(t, b.Back())

		require.NoError(t, b.Set("name", "Nightly"))
		require.NoError(t, b.Set("sourceId", "src_1"))
		require.NoError(t, b.Next())

		assert.True(t, b.Back())
		assert.Equal(t, JobStepBasics, b.Step())
		assert.Equal(t, "Nightly", b.Form().Name)
	})

	t.Run("SubmitOnce", func(t *testing.T) {
		b := NewJobBuilder()
		completeJob(t, b)

		job, err := b.Submit()
		require.NoError(t, err)
		assert.Equal(t, "Nightly CRM", job.Name)
		assert.Equal(t, "src_1", job.SourceID)
		assert.Equal(t, models.FrequencyDaily, job.Schedule.Frequency)
		assert.Equal(t, 30, job.Config.RetentionDays)
		assert.True(t, b.Submitted())

		_, err = b.Submit()
		assert.ErrorIs(t, err, shared.ErrAlreadySubmit)
		assert.False(t, b.Back())
	})

	t.Run("SubmitBeforeReview", func(t *testing.T) {
		b := NewJobBuilder()
		_, err := b.Submit()
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.False(t, b.Submitted())
	})

	t.Run("SubmitRevalidates", func(t *testing.T) {
		b := NewJobBuilder()
		completeJob(t, b)

		b.Form().Name = ""
		_, err := b.Submit()
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Equal(t, JobStepBasics, b.Step())
		assert.False(t, b.Submitted())
	})

	t.Run("Reset", func(t *testing.T) {
		b := NewJobBuilder()
		completeJob(t, b)
		_, err := b.Submit()
		require.NoError(t, err)

		b.Reset(DefaultJob())
		assert.Equal(t, JobStepBasics, b.Step())
		assert.False(t, b.Submitted())
		assert.Empty(t, b.Form().Name)
	})

	t.Run("NextRuns", func(t *testing.T) {
		from := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

		b := NewJobBuilder()
		require.NoError(t, b.Set("frequency", "custom"))
		require.NoError(t, b.Set("cron", "0 3 * * *"))

		runs, err := b.NextRuns(from, 2)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.True(t, runs[0].Equal(time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)))
		assert.True(t, runs[1].Equal(time.Date(2024, 5, 3, 3, 0, 0, 0, time.UTC)))

		require.NoError(t, b.Set("frequency", "manual"))
		runs, err = b.NextRuns(from, 2)
		require.NoError(t, err)
		assert.Empty(t, runs)

		require.NoError(t, b.Set("frequency", "daily"))
		for _, n := range []int{0, -1} {
			runs, err = b.NextRuns(from, n)
			require.NoError(t, err)
			assert.Empty(t, runs)
		}
	})

	t.Run("Titles", func(t *testing.T) {
		b := NewJobBuilder()
		assert.Equal(t, []string{"Basics", "Schedule", "Options", "Review"}, b.Titles())
		assert.Equal(t, "Basics", b.Title())
		assert.Equal(t, 4, b.StepCount())
	})

	t.Run("UnknownField", func(t *testing.T) {
		assert.ErrorIs(t, NewJobBuilder().Set("colour", "red"), shared.ErrInvalidArgument)
		assert.Empty(t, NewJobBuilder().Value("colour"))
	})

	t.Run("ValueRoundTrip", func(t *testing.T) {
		b := NewJobBuilder()
		for _, fields := range JobStepFields {
			for _, f := range fields {
				require.NoError(t, b.Set(f, b.Value(f)), f)
			}
		}
		assert.Equal(t, DefaultJob(), *b.Form())
		assert.Equal(t, "30", b.Value("retentionDays"))
		assert.Equal(t, "false", b.Value("incremental"))
	})
}

func TestClientRegistration(t *testing.T) {
	t.Run("Flow", func(t *testing.T) {
		r := NewClientRegistration()

		assert.Error(t, r.Next())
		assert.Contains(t, r.Errors(), "name")

		require.NoError(t, r.Set("name", "Globex"))
		require.NoError(t, r.Next())

		require.NoError(t, r.Set("contactEmail", "not-an-email"))
		assert.Error(t, r.Next())
		assert.Equal(t, "must be a valid email address", r.Errors()["contactEmail"])

		require.NoError(t, r.Set("contactEmail", "ops@globex.com"))
		require.NoError(t, r.Next())

		require.NoError(t, r.Set("plan", "platinum"))
		assert.Error(t, r.Next())
		require.NoError(t, r.Set("plan", "Enterprise"))
		require.NoError(t, r.Next())

		client, err := r.Submit()
		require.NoError(t, err)
		assert.Equal(t, "Globex", client.Name)
		assert.Equal(t, "business", client.Type)
		assert.Equal(t, "enterprise", client.Plan)
	})

	t.Run("InvalidType", func(t *testing.T) {
		r := NewClientRegistration()
		require.NoError(t, r.Set("name", "Globex"))
		require.NoError(t, r.Set("type", "government"))
		assert.Error(t, r.Next())
		assert.Contains(t, r.Errors(), "type")
	})
}

func TestRolePermissionEditor(t *testing.T) {
	t.Run("RequiresPermission", func(t *testing.T) {
		e := NewRolePermissionEditor()
		require.NoError(t, e.Set("name", "Operator"))
		require.NoError(t, e.Next())

		assert.Error(t, e.Next())
		assert.Contains(t, e.Errors(), "permissions")
	})

	t.Run("RejectsUnknownPermission", func(t *testing.T) {
		e := NewRolePermissionEditor()
		require.NoError(t, e.Set("name", "Operator"))
		require.NoError(t, e.Next())

		require.NoError(t, e.Set("permissions", "jobs:run, jobs:explode"))
		assert.Error(t, e.Next())
		assert.Contains(t, e.Errors()["permissions"], "jobs:explode")
	})

	t.Run("Toggle", func(t *testing.T) {
		e := NewRolePermissionEditor()
		assert.True(t, e.Toggle(models.PermJobsRun))
		assert.False(t, e.Toggle(models.PermJobsRun))
		assert.Empty(t, e.Form().Permissions)
	})

	t.Run("GrantOrdersByCatalogue", func(t *testing.T) {
		e := NewRolePermissionEditor()
		e.Grant(models.PermSystemAdmin, models.PermSourcesRead, models.PermSourcesRead)
		assert.Equal(t, []string{models.PermSourcesRead, models.PermSystemAdmin}, e.Form().Permissions)
	})

	t.Run("Submit", func(t *testing.T) {
		e := NewRolePermissionEditor()
		require.NoError(t, e.Set("name", "Operator"))
		require.NoError(t, e.Next())
		e.Grant(models.PermJobsRead, models.PermJobsRun)
		require.NoError(t, e.Next())

		role, err := e.Submit()
		require.NoError(t, err)
		assert.Equal(t, "Operator", role.Name)
		assert.Equal(t, []string{models.PermJobsRead, models.PermJobsRun}, role.Permissions)

		_, err = e.Submit()
		assert.ErrorIs(t, err, shared.ErrAlreadySubmit)
	})
}
