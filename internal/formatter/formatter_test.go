package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/models"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
	th "github.com/ListBackup-ai/listbackup-ai-sub002/internal/testing"
	"gopkg.in/yaml.v3"
)

func sampleJobs() []models.Job {
	next := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	return []models.Job{
		{
			ID:        "job_1",
			Name:      "Nightly CRM",
			Type:      "backup",
			Status:    models.JobActive,
			Schedule:  models.JobSchedule{Frequency: models.FrequencyDaily, Timezone: "UTC"},
			Config:    models.JobConfig{RetentionDays: 30, Format: "json"},
			NextRunAt: &next,
		},
		{
			ID:       "job_2",
			Name:     "Billing | Stripe",
			Type:     "export",
			Status:   models.JobPaused,
			Schedule: models.JobSchedule{Frequency: models.FrequencyCustom, Cron: "0 3 * * 1", Timezone: "Europe/Berlin"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", FormatTable},
		{"table", FormatTable},
		{" JSON ", FormatJSON},
		{"yml", FormatYAML},
		{"md", FormatMarkdown},
		{"txt", FormatText},
		{"csv", FormatCSV},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("ParseFormat(xml) error = %v, want ErrInvalidArgument", err)
	}
}

func TestRenderers(t *testing.T) {
	tbl := JobsTable(sampleJobs())

	t.Run("ToCSV", func(t *testing.T) {
		data, err := ToCSV(tbl)
		if err != nil {
			t.Fatalf("ToCSV failed: %v", err)
		}

		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("CSV output does not parse: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 records, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Name,Type,Status,Schedule,Last Run,Next Run" {
			t.Errorf("unexpected headers: %v", records[0])
		}
		if records[1][4] != "daily (UTC)" {
			t.Errorf("schedule = %q, want daily (UTC)", records[1][4])
		}
		if records[2][4] != "0 3 * * 1 (Europe/Berlin)" {
			t.Errorf("custom schedule = %q", records[2][4])
		}
		if records[2][5] != "-" {
			t.Errorf("missing last run should render as -, got %q", records[2][5])
		}
	})

	t.Run("ToMarkdown", func(t *testing.T) {
		output := string(ToMarkdown(tbl))

		if !strings.HasPrefix(output, "## Jobs\n\n") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "| ID | Name | Type |") {
			t.Errorf("Markdown missing header row")
		}
		if !strings.Contains(output, "| --- |") {
			t.Errorf("Markdown missing separator row")
		}
		if !strings.Contains(output, `Billing \| Stripe`) {
			t.Errorf("Markdown should escape pipes in cells, got: %s", output)
		}
	})

	t.Run("ToMarkdownEmpty", func(t *testing.T) {
		output := string(ToMarkdown(SourcesTable(nil)))
		if !strings.Contains(output, "_No results._") {
			t.Errorf("expected empty marker, got: %s", output)
		}
	})

	t.Run("ToText", func(t *testing.T) {
		data, err := ToText(tbl)
		if err != nil {
			t.Fatalf("ToText failed: %v", err)
		}
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d: %q", len(lines), data)
		}
		if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "NEXT RUN") {
			t.Errorf("unexpected header line %q", lines[0])
		}
		// columns are aligned
		if strings.Index(lines[1], "Nightly") != strings.Index(lines[2], "Billing") {
			t.Errorf("columns not aligned:\n%s", data)
		}
	})

	t.Run("ToTable", func(t *testing.T) {
		output := string(ToTable(tbl))
		for _, want := range []string{"Jobs", "ID", "job_1", "Nightly CRM", "job_2"} {
			if !strings.Contains(output, want) {
				t.Errorf("table output missing %q", want)
			}
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(sampleJobs())
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}
		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("JSON output does not parse: %v", err)
		}
		if decoded[0]["jobId"] != "job_1" {
			t.Errorf("jobId = %v", decoded[0]["jobId"])
		}
		if !strings.Contains(string(data), "\n  ") {
			t.Error("JSON should be indented")
		}
	})

	t.Run("ToYAML", func(t *testing.T) {
		data, err := ToYAML(sampleJobs()[0])
		if err != nil {
			t.Fatalf("ToYAML failed: %v", err)
		}
		output := string(data)

		if !strings.HasPrefix(output, "jobId: job_1\n") {
			t.Errorf("YAML should keep JSON key order and names, got:\n%s", output)
		}
		if strings.Contains(output, "{") {
			t.Errorf("YAML should use block style, got:\n%s", output)
		}

		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("YAML output does not parse: %v", err)
		}
		schedule, ok := decoded["schedule"].(map[string]any)
		if !ok || schedule["frequency"] != "daily" {
			t.Errorf("schedule = %v", decoded["schedule"])
		}
		config := decoded["config"].(map[string]any)
		if config["retentionDays"] != 30 {
			t.Errorf("retentionDays = %v (%T), want int 30", config["retentionDays"], config["retentionDays"])
		}
	})

	t.Run("ToYAMLQuotesAmbiguousStrings", func(t *testing.T) {
		data, err := ToYAML(map[string]string{"value": "true"})
		if err != nil {
			t.Fatalf("ToYAML failed: %v", err)
		}
		var decoded map[string]any
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("YAML output does not parse: %v", err)
		}
		if decoded["value"] != "true" {
			t.Errorf("string \"true\" should survive as a string, got %v (%T)", decoded["value"], decoded["value"])
		}
	})
}

func TestWrite(t *testing.T) {
	jobs := sampleJobs()
	tbl := JobsTable(jobs)

	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, format, tbl, jobs); err != nil {
				t.Fatalf("Write(%s) failed: %v", format, err)
			}
			if !strings.Contains(buf.String(), "job_1") {
				t.Errorf("Write(%s) output missing job id:\n%s", format, buf.String())
			}
		})
	}

	t.Run("UnknownFormat", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, "xml", tbl, jobs); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("WriterError", func(t *testing.T) {
		if err := Write(th.FailingWriter{}, FormatCSV, tbl, jobs); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestTables(t *testing.T) {
	completed := time.Date(2026, 1, 1, 0, 1, 30, 0, time.UTC)

	tests := []struct {
		name    string
		table   *Table
		rows    int
		wantRow []string
	}{
		{
			name: "Runs",
			table: RunsTable([]models.JobRun{{
				RunID: "run_1", Status: "completed", StartedAt: completed.Add(-90 * time.Second),
				CompletedAt: &completed, RecordsProcessed: 42, BytesProcessed: 2048,
			}}),
			rows:    1,
			wantRow: []string{"run_1", "completed", "", "1m30s", "42", "2.0 KiB", "-"},
		},
		{
			name:    "Accounts",
			table:   AccountsTable([]models.Account{{ID: "a1", Name: "Child", ParentID: "root", Level: 2}}),
			rows:    1,
			wantRow: []string{"a1", "    Child", "root", "2", "-", "-"},
		},
		{
			name:    "Roles",
			table:   RolesTable([]models.Role{{Name: "Viewer", Permissions: []string{models.PermJobsRead, models.PermSourcesRead}}}),
			rows:    1,
			wantRow: []string{"-", "Viewer", "jobs:read, sources:read"},
		},
		{
			name:    "DNSRecords",
			table:   DNSRecordsTable([]models.DNSRecord{{Type: "TXT", Name: "_listbackup", Value: "token", TTL: 300}}),
			rows:    1,
			wantRow: []string{"TXT", "_listbackup", "token", "300", "-"},
		},
		{
			name: "Audit",
			table: AuditTable([]models.AuditEvent{{
				ActorID: "u1", Action: "job.run", Resource: "job", ResourceID: "job_1",
			}}),
			rows:    1,
			wantRow: []string{"-", "u1", "job.run", "job/job_1"},
		},
		{
			name:  "Metrics",
			table: MetricsTable(&models.SystemMetrics{Accounts: 3, StorageBytes: 1 << 20}),
			rows:  8,
		},
		{
			name: "Health",
			table: HealthTable(&models.SystemHealth{Status: "degraded", Services: []models.ServiceHealth{
				{Name: "dynamodb", Status: "ok", LatencyMs: 12},
			}}),
			rows:    1,
			wantRow: []string{"dynamodb", "ok", "12ms", "-"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.table.Rows) != tt.rows {
				t.Fatalf("rows = %d, want %d", len(tt.table.Rows), tt.rows)
			}
			for i, row := range tt.table.Rows {
				if len(row) != len(tt.table.Headers) {
					t.Errorf("row %d has %d cells for %d headers", i, len(row), len(tt.table.Headers))
				}
			}
			if tt.wantRow == nil {
				return
			}
			for i, want := range tt.wantRow {
				// empty expectation skips locale-dependent time cells
				if want != "" && tt.table.Rows[0][i] != want {
					t.Errorf("cell %d = %q, want %q", i, tt.table.Rows[0][i], want)
				}
			}
		})
	}

	t.Run("KeyValueOddPairs", func(t *testing.T) {
		kv := KeyValueTable("x", "a", "1", "b")
		if len(kv.Rows) != 1 {
			t.Errorf("dangling key should be ignored, got %v", kv.Rows)
		}
	})
}

func sampleOverview() *tasks.OverviewResult {
	jobs := sampleJobs()
	started := time.Date(2026, 4, 30, 3, 0, 0, 0, time.UTC)
	return &tasks.OverviewResult{
		Account: &models.Account{ID: "acc_1", Name: "Acme Corp"},
		Sources: []models.Source{{ID: "src_1", Name: "HubSpot", Type: "hubspot", Status: models.SourceActive}},
		Jobs:    jobs,
		Runs:    map[string][]models.JobRun{"job_1": {{RunID: "run_9", Status: "completed", StartedAt: started}}},
		Stats:   tasks.ComputeStats(nil, jobs),
		Errors:  []tasks.EndpointResult{{Endpoint: "health", Error: shared.ErrForbidden}},
	}
}

func TestOverviewReport(t *testing.T) {
	t.Run("ExportOverviewMarkdown", func(t *testing.T) {
		output := string(ExportOverviewMarkdown(sampleOverview(), time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))

		for _, want := range []string{
			"# Acme Corp\n",
			"_Generated 2026-05-01T00:00:00Z_",
			"**Jobs**: 2 (1 active, 1 paused, 0 failed)",
			"## Sources",
			"## Jobs",
			"## Recent runs: Nightly CRM",
			"run_9",
			"## Unavailable",
			"- health: permission denied",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("report missing %q:\n%s", want, output)
			}
		}
	})

	t.Run("WriteOverviewReportMarkdown", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "reports", "overview.md")

		written, err := WriteOverviewReport(sampleOverview(), path)
		if err != nil {
			t.Fatalf("WriteOverviewReport failed: %v", err)
		}
		if written != path {
			t.Errorf("written = %q, want %q", written, path)
		}
		if content := th.ReadFile(t, path); !strings.Contains(content, "# Acme Corp") {
			t.Errorf("unexpected report content:\n%s", content)
		}
	})

	t.Run("WriteOverviewReportJSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "overview.json")
		if _, err := WriteOverviewReport(sampleOverview(), path); err != nil {
			t.Fatalf("WriteOverviewReport failed: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal([]byte(th.ReadFile(t, path)), &decoded); err != nil {
			t.Fatalf("report is not JSON: %v", err)
		}
		errs := decoded["errors"].([]any)
		if errs[0].(map[string]any)["error"] != "permission denied" {
			t.Errorf("errors = %v", errs)
		}
	})

	t.Run("WriteOverviewReportDefaultPath", func(t *testing.T) {
		t.Chdir(t.TempDir())

		written, err := WriteOverviewReport(sampleOverview(), "")
		if err != nil {
			t.Fatalf("WriteOverviewReport failed: %v", err)
		}
		if !strings.HasPrefix(written, "overview_") || filepath.Ext(written) != ".md" {
			t.Errorf("unexpected default path %q", written)
		}
		if _, err := os.Stat(written); err != nil {
			t.Errorf("report not written: %v", err)
		}
	})
}
