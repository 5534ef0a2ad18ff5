package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultAPIURL is the production backend used when neither the config file nor the environment names one.
const DefaultAPIURL = "https://api.listbackup.ai"

// Platform identifiers sent in the X-Platform header.
const (
	PlatformCLI    = "cli"
	PlatformWeb    = "web"
	PlatformMobile = "mobile"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Server  ServerConfig  `toml:"server"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	BaseURL           string  `toml:"base_url"`
	Platform          string  `toml:"platform"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// StorageConfig contains session storage settings.
type StorageConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains the local OAuth callback listener settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Timeout returns the client-wide request timeout, defaulting to 30 seconds.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Addr returns the host:port the callback server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks fields that would otherwise fail late at request time.
func (c *Config) Validate() error {
	switch c.API.Platform {
	case PlatformCLI, PlatformWeb, PlatformMobile:
	default:
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidConfig, c.API.Platform)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is required", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
