package main

import (
	"context"
	"errors"
	"os"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/api"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/repositories"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/storage"
	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/ui"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args))
}

// run executes the CLI and returns the process exit code, so deferred cleanup such as closing the
// session database happens before the process exits.
func run(args []string) int {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv("LISTBACKUP_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	env, err := shared.LoadEnv()
	if err != nil {
		logger.Warn("failed to load environment", "error", err)
		env = &shared.Env{}
	}
	env.Apply(config)

	var session *storage.Session
	if db, err := shared.OpenStorageDatabase(config.Storage); err == nil {
		defer db.Close()
		session = storage.NewSession(repositories.NewStorageAdapter(repositories.NewStorageRepository(db)))
	} else {
		logger.Warn("session database unavailable, keeping the session in memory", "error", err)
		session = storage.NewSession(storage.NewMemoryStorage())
	}

	redirect := &ui.LoginRedirect{}
	client := api.New(api.Options{
		BaseURL:           config.API.BaseURL,
		Platform:          config.API.Platform,
		Version:           version,
		Timeout:           config.API.Timeout(),
		RequestsPerSecond: config.API.RequestsPerSecond,
		Session:           session,
		Logger:            logger,
		Navigator: api.NavigatorFunc(func() {
			logger.Warn("session expired; run 'listbackup auth login'")
			redirect.RedirectToLogin()
		}),
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		API:        client,
		Redirect:   redirect,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "listbackup",
		Usage:    "Manage ListBackup sources, backup jobs and accounts",
		Version:  version,
		Flags:    runner.flags(),
		Before:   runner.before,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return 0
		}
		logger.Errorf("application error: %v", err)
		return 1
	}
	return 0
}
