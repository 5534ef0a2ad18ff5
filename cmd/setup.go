package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded example when missing and migrates the session database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var config *shared.Config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			return err
		}
		r.logger.Info("using existing config", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		if config, err = shared.LoadConfig(configPath); err != nil {
			return fmt.Errorf("failed to load created config: %w", err)
		}
	}

	if env, err := shared.LoadEnv(); err != nil {
		r.logger.Warn("failed to load environment", "error", err)
	} else {
		env.Apply(config)
	}

	r.logger.Info("initializing session database", "path", config.Storage.Path)
	db, err := shared.OpenStorageDatabase(config.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config:   %s\n", configPath)
	r.writePlain("Backend:  %s\n", config.API.BaseURL)
	r.writePlain("Sessions: %s\n", config.Storage.Path)
	r.writePlainln("Next: listbackup auth login --email you@example.com")
	return nil
}
