package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/formatter"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
	tu "github.com/ListBackup-ai/listbackup-ai-sub002/internal/testing"
	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

func newTestRunner(t *testing.T) (*Runner, *tu.FakeBackend, *bytes.Buffer) {
	t.Helper()

	backend := tu.NewFakeBackend(t)
	config := shared.DefaultConfig()
	config.API.BaseURL = backend.URL
	config.Server.Port = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Open:   func(string) error { return errors.New("no browser in tests") },
	})
	return runner, backend, output
}

// execute runs args against a fresh command tree bound to r.
func execute(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:           "listbackup",
		Flags:          r.flags(),
		Before:         r.before,
		Commands:       r.register(),
		Writer:         io.Discard,
		ErrWriter:      io.Discard,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	return app.Run(context.Background(), append([]string{"listbackup"}, args...))
}

func login(t *testing.T, r *Runner) {
	t.Helper()
	if err := r.session.SetToken(&oauth2.Token{AccessToken: "tok", RefreshToken: "ref"}); err != nil {
		t.Fatalf("failed to store token: %v", err)
	}
}

var testJobs = []map[string]any{
	{"jobId": "j1", "name": "Nightly CRM", "sourceId": "src_1", "status": "active", "schedule": map[string]any{"frequency": "daily"}},
	{"jobId": "j2", "name": "Billing export", "sourceId": "src_2", "status": "paused", "schedule": map[string]any{"frequency": "weekly"}},
	{"jobId": "j3", "name": "Archive", "sourceId": "src_1", "status": "failed", "schedule": map[string]any{"frequency": "manual"}},
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.api == nil || runner.session == nil || runner.dashboard == nil {
				t.Error("expected API, session and dashboard to be built")
			}
			if runner.format != formatter.FormatTable {
				t.Errorf("expected table format, got %s", runner.format)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if expected := `{"key":"value"}` + "\n"; output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.FailingWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.FailAfter(1, &bytes.Buffer{})})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("formats output", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainHeader("Title")
			runner.writePlainln("%d jobs", 3)

			if !strings.Contains(output.String(), "Title\n") || !strings.HasSuffix(output.String(), "\n3 jobs\n") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: tu.FailingWriter{}})
			if err := runner.writePlain("x"); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("global flags", func(t *testing.T) {
		t.Run("rejects unknown output format", func(t *testing.T) {
			runner, _, _ := newTestRunner(t)
			err := execute(runner, "--output", "xml", "auth", "status")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("verbose enables debug logging", func(t *testing.T) {
			runner, _, _ := newTestRunner(t)
			if err := execute(runner, "--verbose", "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.logger.GetLevel() != log.DebugLevel {
				t.Errorf("expected debug level, got %v", runner.logger.GetLevel())
			}
		})

		t.Run("output format after the subcommand", func(t *testing.T) {
			runner, _, output := newTestRunner(t)
			if err := execute(runner, "auth", "status", "-o", "json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `"authenticated": false`) {
				t.Errorf("expected JSON status, got %s", output.String())
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login stores the session", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		backend.Respond(http.MethodPost, "/auth/login", http.StatusOK, tu.Envelope(map[string]any{
			"accessToken":  "tok",
			"refreshToken": "ref",
			"expiresIn":    3600,
			"user":         map[string]any{"userId": "u1", "email": "ada@example.com", "currentAccountId": "acc_1"},
		}))

		if err := execute(runner, "auth", "login", "--email", "ada@example.com", "--password", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.session.AccessToken() != "tok" || runner.session.AccountID() != "acc_1" {
			t.Error("expected token and account to be stored")
		}
		if !strings.Contains(output.String(), "Logged in as ada@example.com") {
			t.Errorf("unexpected output %q", output.String())
		}

		var body map[string]string
		if err := json.Unmarshal(backend.Last().Body, &body); err != nil || body["password"] != "secret" {
			t.Errorf("unexpected login body %s", backend.Last().Body)
		}
	})

	t.Run("login failure", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		backend.Respond(http.MethodPost, "/auth/login", http.StatusUnauthorized, map[string]any{"success": false, "message": "bad credentials"})

		err := execute(runner, "auth", "login", "--email", "ada@example.com", "--password", "nope")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if runner.session.Authenticated() {
			t.Error("expected no session after failed login")
		}
	})

	t.Run("status reads token claims", func(t *testing.T) {
		runner, _, output := newTestRunner(t)
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "u1",
			"exp": exp.Unix(),
		}).SignedString([]byte("test-key"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}
		runner.session.SetToken(&oauth2.Token{AccessToken: token})

		if err := execute(runner, "auth", "status", "-o", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var status SessionStatus
		if err := json.Unmarshal(output.Bytes(), &status); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if !status.Authenticated || status.Subject != "u1" || status.Expired || status.CanRefresh {
			t.Errorf("unexpected status %+v", status)
		}
		if status.ExpiresAt == nil || !status.ExpiresAt.Equal(exp) {
			t.Errorf("expiresAt = %v, want %v", status.ExpiresAt, exp)
		}
	})

	t.Run("status with opaque token", func(t *testing.T) {
		runner, _, output := newTestRunner(t)
		login(t, runner)

		if err := execute(runner, "auth", "status", "-o", "text"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "unknown") {
			t.Errorf("expected unknown expiry, got %q", output.String())
		}
	})

	t.Run("status lists session keys", func(t *testing.T) {
		runner, _, output := newTestRunner(t)
		login(t, runner)

		if err := execute(runner, "auth", "status", "--keys", "-o", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var status SessionStatus
		if err := json.Unmarshal(output.Bytes(), &status); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		keys := map[string]bool{}
		for _, e := range status.Keys {
			keys[e.Key] = true
		}
		if !keys[storage.KeyAuthToken] || !keys[storage.KeyRefreshToken] {
			t.Errorf("expected token keys in %+v", status.Keys)
		}
	})

	t.Run("status omits keys by default", func(t *testing.T) {
		runner, _, output := newTestRunner(t)
		login(t, runner)

		if err := execute(runner, "auth", "status", "-o", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.Contains(output.String(), `"keys"`) {
			t.Errorf("expected no keys, got %q", output.String())
		}
	})

	t.Run("logout clears the session even when the backend fails", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)

		if err := execute(runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.session.Authenticated() {
			t.Error("expected session to be cleared")
		}
		if backend.Count(http.MethodPost, "/auth/logout") != 1 {
			t.Error("expected one logout call")
		}
	})

	t.Run("refresh without a refresh token", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "auth", "refresh")
		if !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("refresh stores the new token", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodPost, "/auth/refresh", http.StatusOK, tu.Envelope(map[string]any{"accessToken": "tok2", "expiresIn": 60}))

		if err := execute(runner, "auth", "refresh"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.session.AccessToken() != "tok2" || runner.session.RefreshToken() != "ref" {
			t.Error("expected access token replaced and refresh token kept")
		}
	})

	t.Run("failed refresh clears the session", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodPost, "/auth/refresh", http.StatusOK, map[string]any{"success": false, "message": "revoked"})

		err := execute(runner, "auth", "refresh")
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Errorf("expected ErrRefreshFailed, got %v", err)
		}
		if runner.session.Authenticated() {
			t.Error("expected session to be cleared")
		}
	})
}

func TestJobCommands(t *testing.T) {
	t.Run("list filters and sorts client-side", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/jobs", http.StatusOK, tu.Envelope(map[string]any{"jobs": testJobs}))

		if err := execute(runner, "jobs", "list", "--source", "src_1", "--sort", "name", "-o", "csv"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(output.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %q", output.String())
		}
		if !strings.Contains(lines[1], "Archive") || !strings.Contains(lines[2], "Nightly CRM") {
			t.Errorf("unexpected order %q", lines[1:])
		}
		if q := backend.Last().RawQuery; q != "sourceId=src_1" {
			t.Errorf("expected server-side source filter, got %q", q)
		}
	})

	t.Run("list rejects unknown sort keys", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "jobs", "list", "--sort", "size")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("pause several jobs", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		for _, id := range []string{"j1", "j3"} {
			backend.Respond(http.MethodPost, "/jobs/"+id+"/pause", http.StatusOK,
				tu.Envelope(map[string]any{"jobId": id, "status": "paused"}))
		}

		err := execute(runner, "jobs", "pause", "j1", "j2", "j3", "-o", "json")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest for the failed job, got %v", err)
		}

		var result struct {
			Succeeded int `json:"succeeded"`
			Failed    int `json:"failed"`
		}
		if err := json.Unmarshal(output.Bytes(), &result); err != nil {
			t.Fatalf("invalid JSON output: %v", err)
		}
		if result.Succeeded != 2 || result.Failed != 1 {
			t.Errorf("unexpected result %+v", result)
		}
		for _, id := range []string{"j1", "j2", "j3"} {
			if n := backend.Count(http.MethodPost, "/jobs/"+id+"/pause"); n != 1 {
				t.Errorf("expected one pause request for %s, got %d", id, n)
			}
		}
	})

	t.Run("run --all applies to matching jobs", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/jobs", http.StatusOK, tu.Envelope(testJobs))
		backend.Respond(http.MethodPost, "/jobs/j1/run", http.StatusOK, tu.Envelope(map[string]any{"jobId": "j1", "status": "running"}))

		if err := execute(runner, "jobs", "run", "--all", "--status", "active"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if backend.Count(http.MethodPost, "/jobs/j1/run") != 1 || backend.Count(http.MethodPost, "/jobs/j2/run") != 0 {
			t.Error("expected only the active job to run")
		}
	})

	t.Run("action without ids", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "jobs", "resume")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("create rejects a missing name", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		err := execute(runner, "jobs", "create", "--source", "src_1")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
		if !strings.Contains(err.Error(), "step 1") {
			t.Errorf("expected the failing step in %q", err)
		}
		if len(backend.Requests()) != 0 {
			t.Error("expected no request for an invalid job")
		}
	})

	t.Run("create rejects an invalid cron expression", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "jobs", "create", "--name", "Hourly", "--source", "src_1",
			"--frequency", "custom", "--cron", "every day")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("create dry run", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		err := execute(runner, "jobs", "create", "--name", "Nightly", "--source", "src_1", "--dry-run")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(backend.Requests()) != 0 {
			t.Error("expected no request on dry run")
		}
		if !strings.Contains(output.String(), "Next run:") {
			t.Errorf("expected schedule preview, got %q", output.String())
		}
	})

	t.Run("create posts the built job", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodPost, "/jobs", http.StatusOK, tu.Envelope(map[string]any{"jobId": "j9", "name": "Nightly"}))

		err := execute(runner, "jobs", "create", "--name", "Nightly", "--source", "src_1",
			"--frequency", "custom", "--cron", "0 2 * * *", "--retention", "90", "--incremental")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var body struct {
			Name     string `json:"name"`
			SourceID string `json:"sourceId"`
			Schedule struct {
				Frequency string `json:"frequency"`
				Cron      string `json:"cron"`
			} `json:"schedule"`
			Config struct {
				RetentionDays int  `json:"retentionDays"`
				Incremental   bool `json:"incremental"`
			} `json:"config"`
		}
		if err := json.Unmarshal(backend.Last().Body, &body); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if body.Name != "Nightly" || body.SourceID != "src_1" || body.Schedule.Cron != "0 2 * * *" ||
			body.Config.RetentionDays != 90 || !body.Config.Incremental {
			t.Errorf("unexpected body %s", backend.Last().Body)
		}
	})

	t.Run("runs newest first", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/jobs/j1/runs", http.StatusOK, tu.Envelope([]map[string]any{
			{"runId": "r1", "status": "completed", "startedAt": "2025-01-01T00:00:00Z"},
			{"runId": "r2", "status": "failed", "startedAt": "2025-01-02T00:00:00Z"},
		}))

		if err := execute(runner, "jobs", "runs", "j1", "--limit", "1", "-o", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "r2") || strings.Contains(output.String(), "r1") {
			t.Errorf("expected only the newest run, got %s", output.String())
		}
	})
}

func TestResourceCommands(t *testing.T) {
	t.Run("sources list filters by type", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/sources", http.StatusOK, tu.Envelope([]map[string]any{
			{"sourceId": "s1", "name": "CRM", "type": "hubspot", "status": "active"},
			{"sourceId": "s2", "name": "Payments", "type": "stripe", "status": "error"},
		}))

		if err := execute(runner, "sources", "list", "--type", "STRIPE", "-o", "markdown"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Payments") || strings.Contains(output.String(), "CRM") {
			t.Errorf("unexpected output %s", output.String())
		}
	})

	t.Run("sources create parses credentials", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodPost, "/sources", http.StatusOK, tu.Envelope(map[string]any{"sourceId": "s3", "name": "Keap"}))

		err := execute(runner, "sources", "create", "--name", "Keap", "--type", "keap",
			"--credential", "apiKey=abc=123", "--config", `{"region":"us"}`)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var body struct {
			Config      map[string]any    `json:"config"`
			Credentials map[string]string `json:"credentials"`
		}
		if err := json.Unmarshal(backend.Last().Body, &body); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if body.Credentials["apiKey"] != "abc=123" || body.Config["region"] != "us" {
			t.Errorf("unexpected body %s", backend.Last().Body)
		}
	})

	t.Run("sources create rejects malformed credentials", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "sources", "create", "--name", "Keap", "--type", "keap", "--credential", "apiKey")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("sources connect completes the OAuth flow", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)

		// The provider redirects straight back to the callback server.
		backend.Handle(http.MethodGet, "/sources/oauth/hubspot/url", func(w http.ResponseWriter, r *http.Request) {
			redirect := r.URL.Query().Get("redirectUri")
			tu.WriteJSON(w, http.StatusOK, tu.Envelope(map[string]any{
				"authUrl": redirect + "?code=c0de&state=st4te",
				"state":   "st4te",
			}))
		})
		backend.Respond(http.MethodPost, "/sources/oauth/hubspot/callback", http.StatusOK,
			tu.Envelope(map[string]any{"sourceId": "s9", "name": "CRM", "type": "hubspot"}))
		runner.open = func(u string) error {
			go func() {
				resp, err := http.Get(u)
				if err == nil {
					resp.Body.Close()
				}
			}()
			return nil
		}

		if err := execute(runner, "sources", "connect", "hubspot", "--name", "CRM", "--timeout", "5s"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Connected hubspot source CRM (s9)") {
			t.Errorf("unexpected output %q", output.String())
		}

		var body map[string]string
		if err := json.Unmarshal(backend.Last().Body, &body); err != nil {
			t.Fatalf("invalid callback body: %v", err)
		}
		if body["code"] != "c0de" || body["state"] != "st4te" || body["name"] != "CRM" {
			t.Errorf("unexpected callback body %v", body)
		}
	})

	t.Run("clients register validates the contact step", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		err := execute(runner, "clients", "register", "--name", "Acme", "--contact-email", "not-an-email")
		if !errors.Is(err, shared.ErrValidation) || !strings.Contains(err.Error(), "step 2") {
			t.Errorf("expected a step 2 validation error, got %v", err)
		}
		if len(backend.Requests()) != 0 {
			t.Error("expected no request")
		}
	})

	t.Run("roles create sends the edited role", func(t *testing.T) {
		runner, backend, _ := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodPost, "/teams/t1/roles", http.StatusOK,
			tu.Envelope(map[string]any{"roleId": "r1", "name": "Operators", "permissions": []string{"jobs:read", "jobs:run"}}))

		err := execute(runner, "roles", "create", "--team", "t1", "--name", "Operators",
			"--permission", "jobs:run", "--permission", "jobs:read")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var body struct {
			Permissions []string `json:"permissions"`
		}
		json.Unmarshal(backend.Last().Body, &body)
		if strings.Join(body.Permissions, ",") != "jobs:read,jobs:run" {
			t.Errorf("expected catalogue order, got %v", body.Permissions)
		}
	})

	t.Run("roles create rejects unknown permissions", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "roles", "create", "--team", "t1", "--name", "Ops", "--permission", "everything")
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("branding update without flags", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "branding", "update")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("system health fails when degraded", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/admin/system/health", http.StatusOK, tu.Envelope(map[string]any{
			"status":   "degraded",
			"services": []map[string]any{{"name": "db", "status": "healthy"}, {"name": "queue", "status": "down"}},
		}))

		err := execute(runner, "system", "health", "-o", "text")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if !strings.Contains(output.String(), "queue") {
			t.Errorf("expected services in output, got %q", output.String())
		}
	})

	t.Run("account users defaults to the current account", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		runner.session.SetAccountID("acc_7")
		backend.Respond(http.MethodGet, "/accounts/acc_7/users", http.StatusOK, tu.Envelope(map[string]any{
			"users": []map[string]any{{"userId": "u1", "email": "ops@example.com", "role": "admin"}},
		}))

		if err := execute(runner, "account", "users", "-o", "csv"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "ops@example.com") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("auth me caches the user", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/auth/me", http.StatusOK, tu.Envelope(map[string]any{"userId": "u1", "email": "ada@example.com"}))

		if err := execute(runner, "auth", "me", "-o", "json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"email": "ada@example.com"`) {
			t.Errorf("unexpected output %q", output.String())
		}
		if u, _ := runner.session.User(); u == nil || u.UserID != "u1" {
			t.Errorf("expected cached user, got %+v", u)
		}
	})

	t.Run("missing id argument", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "teams", "show")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestOverviewCommand(t *testing.T) {
	runner, backend, output := newTestRunner(t)
	login(t, runner)
	backend.Respond(http.MethodGet, "/account", http.StatusOK, tu.Envelope(map[string]any{"id": "acc_1", "name": "Acme"}))
	backend.Respond(http.MethodGet, "/jobs", http.StatusOK, tu.Envelope(testJobs))
	// /sources is unrouted and fails with 404.

	t.Chdir(t.TempDir())

	if err := execute(runner, "overview", "-o", "json", "--report", "reports/overview.md"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var result struct {
		Stats struct {
			Jobs       int `json:"jobs"`
			PausedJobs int `json:"pausedJobs"`
		} `json:"stats"`
		Errors []struct {
			Endpoint string `json:"endpoint"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(output.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if result.Stats.Jobs != 3 || result.Stats.PausedJobs != 1 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
	if len(result.Errors) != 1 || result.Errors[0].Endpoint != "sources" {
		t.Errorf("expected the sources section to be reported, got %+v", result.Errors)
	}

	if report := tu.ReadFile(t, "reports/overview.md"); !strings.Contains(report, "# Acme") {
		t.Errorf("unexpected report %q", report)
	}
}

func TestAPICommands(t *testing.T) {
	t.Run("get selects a path", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodGet, "/jobs/j1", http.StatusOK, tu.Envelope(map[string]any{"jobId": "j1", "status": "active"}))

		if err := execute(runner, "api", "get", "/jobs/j1", "--select", "data.status", "-q", "expand=runs"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "active\n" {
			t.Errorf("expected selected value, got %q", output.String())
		}
		if backend.Last().RawQuery != "expand=runs" {
			t.Errorf("unexpected query %q", backend.Last().RawQuery)
		}
		if got := backend.Last().Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
	})

	t.Run("post rejects invalid JSON", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)
		err := execute(runner, "api", "post", "/jobs", "--data", "{nope")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("post indents the response", func(t *testing.T) {
		runner, backend, output := newTestRunner(t)
		login(t, runner)
		backend.Respond(http.MethodPost, "/jobs/j1/run", http.StatusOK, tu.Envelope(map[string]any{"jobId": "j1"}))

		if err := execute(runner, "api", "post", "/jobs/j1/run"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "\n  \"data\": {") {
			t.Errorf("expected indented JSON, got %q", output.String())
		}
		if string(backend.Last().Body) != "{}" {
			t.Errorf("expected default body {}, got %s", backend.Last().Body)
		}
	})
}
