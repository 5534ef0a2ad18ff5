package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Env holds the environment variables that select the backend per platform/build.
type Env struct {
	APIURL           string `env:"LISTBACKUP_API_URL"`
	NextPublicAPIURL string `env:"NEXT_PUBLIC_API_URL"`
	ExpoPublicAPIURL string `env:"EXPO_PUBLIC_API_URL"`
	StoragePath      string `env:"LISTBACKUP_STORAGE_PATH"`
}

// LoadEnv reads dotenv files (when present) into the process environment and decodes [Env].
//
// Variables already set in the environment win over dotenv values.
func LoadEnv(files ...string) (*Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var env Env
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to decode environment: %w", err)
	}
	return &env, nil
}

// PlatformURL returns the platform-specific public API URL variable.
//
// The CLI accepts either build variable, preferring the web one.
func (e *Env) PlatformURL(platform string) string {
	switch platform {
	case PlatformWeb:
		return e.NextPublicAPIURL
	case PlatformMobile:
		return e.ExpoPublicAPIURL
	default:
		if e.NextPublicAPIURL != "" {
			return e.NextPublicAPIURL
		}
		return e.ExpoPublicAPIURL
	}
}

// Apply merges environment overrides into config.
//
// Base URL precedence: config file, LISTBACKUP_API_URL, platform variable, [DefaultAPIURL].
func (e *Env) Apply(config *Config) {
	if config.API.BaseURL == "" {
		config.API.BaseURL = e.APIURL
	}
	if config.API.BaseURL == "" {
		config.API.BaseURL = e.PlatformURL(config.API.Platform)
	}
	if config.API.BaseURL == "" {
		config.API.BaseURL = DefaultAPIURL
	}
	config.API.BaseURL = strings.TrimSuffix(config.API.BaseURL, "/")

	if e.StoragePath != "" {
		config.Storage.Path = e.StoragePath
	}
}
