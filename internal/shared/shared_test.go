package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tu "github.com/ListBackup-ai/listbackup-ai-sub002/internal/testing"
	"github.com/google/uuid"
)

func TestHelpers(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewLogger(buf)
		logger.Info("hello", "key", "value")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("RedirectToFile creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")

		logger := NewLogger(nil)
		f, err := RedirectToFile(logger, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer f.Close()
		logger.Info("written")

		content := tu.ReadFile(t, path)
		if !strings.Contains(content, "written") {
			t.Errorf("expected log file to contain message, got %q", content)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected valid uuid, got %q: %v", id, err)
		}
		if id == GenerateID() {
			t.Error("expected unique IDs")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		compact, err := MarshalJSON(map[string]int{"a": 1}, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(compact) != `{"a":1}` {
			t.Errorf("unexpected compact output %s", compact)
		}

		pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(pretty), "\n  \"a\": 1") {
			t.Errorf("unexpected pretty output %s", pretty)
		}
	})

	t.Run("FormatTime", func(t *testing.T) {
		if got := FormatTime(time.Time{}); got != "-" {
			t.Errorf("expected '-', got %q", got)
		}
	})
}

func TestTruncate(t *testing.T) {
	tc := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "shorter than limit", in: "abc", n: 5, want: "abc"},
		{name: "exact limit", in: "abcde", n: 5, want: "abcde"},
		{name: "cut with ellipsis", in: "abcdef", n: 4, want: "abc…"},
		{name: "zero limit", in: "abc", n: 0, want: "abc"},
		{name: "multibyte", in: "ünïcödé", n: 3, want: "ün…"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tc := []struct {
		in   int64
		want string
	}{
		{in: 0, want: "0 B"},
		{in: 1023, want: "1023 B"},
		{in: 1024, want: "1.0 KiB"},
		{in: 1536, want: "1.5 KiB"},
		{in: 1 << 30, want: "1.0 GiB"},
	}

	for _, tt := range tc {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatBytes(tt.in); got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeKey(t *testing.T) {
	if got := NormalizeKey("  Nightly   CRM  Backup "); got != "nightly crm backup" {
		t.Errorf("NormalizeKey() = %q", got)
	}
}

func TestBrowserCommand(t *testing.T) {
	t.Run("linux uses xdg-open", func(t *testing.T) {
		cmd, err := browserCommand("linux", "https://example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if filepath.Base(cmd.Path) != "xdg-open" && cmd.Args[0] != "xdg-open" {
			t.Errorf("expected xdg-open, got %v", cmd.Args)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		if _, err := browserCommand("plan9", "https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("OpenBrowser surfaces platform error", func(t *testing.T) {
		original := getRuntime
		defer func() { getRuntime = original }()
		getRuntime = func() string { return "plan9" }

		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error")
		}
	})
}
