package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/tasks"
)

// ExportOverviewMarkdown renders a dashboard overview as a standalone Markdown report.
func ExportOverviewMarkdown(o *tasks.OverviewResult, generated time.Time) []byte {
	var buf bytes.Buffer

	title := "ListBackup overview"
	if o.Account != nil {
		title = o.Account.Name
	}
	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "_Generated %s_\n\n", generated.UTC().Format(time.RFC3339))

	s := o.Stats
	fmt.Fprintf(&buf, "**Sources**: %d (%d active, %d with errors)\n", s.Sources, s.ActiveSources, s.ErrorSources)
	fmt.Fprintf(&buf, "**Jobs**: %d (%d active, %d paused, %d failed)\n", s.Jobs, s.ActiveJobs, s.PausedJobs, s.FailedJobs)
	if s.NextRun != nil {
		fmt.Fprintf(&buf, "**Next run**: %s\n", shared.FormatTime(*s.NextRun))
	}
	buf.WriteString("\n")

	if o.Health != nil {
		buf.Write(ToMarkdown(HealthTable(o.Health)))
		buf.WriteString("\n")
	}
	buf.Write(ToMarkdown(SourcesTable(o.Sources)))
	buf.WriteString("\n")
	buf.Write(ToMarkdown(JobsTable(o.Jobs)))

	for _, j := range o.Jobs {
		runs := o.Runs[j.ID]
		if len(runs) == 0 {
			continue
		}
		buf.WriteString("\n")
		t := RunsTable(runs)
		t.Title = "Recent runs: " + j.Name
		buf.Write(ToMarkdown(t))
	}

	if len(o.Errors) > 0 {
		buf.WriteString("\n## Unavailable\n\n")
		for _, e := range o.Errors {
			fmt.Fprintf(&buf, "- %s: %v\n", e.Endpoint, e.Error)
		}
	}
	return buf.Bytes()
}

// WriteOverviewReport writes the overview to path, choosing Markdown or JSON from the extension.
//
// Parent directories are created as needed. Returns the path written.
func WriteOverviewReport(o *tasks.OverviewResult, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("overview_%s.md", time.Now().Format("20060102"))
	}

	var (
		data []byte
		err  error
	)
	switch filepath.Ext(path) {
	case ".json":
		data, err = ToJSON(o)
	case ".yaml", ".yml":
		data, err = ToYAML(o)
	default:
		data = ExportOverviewMarkdown(o, time.Now())
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
