// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path to the configuration file used in previous versions.
	legacyConfigPath = "config.json"
	// defaultRequestTimeout is the default timeout for a single external-service call.
	defaultRequestTimeout = 120 * time.Second
	// defaultRepairAttempts bounds the schema repair loop when the config omits the value.
	defaultRepairAttempts = 3
	// defaultTransientRetries bounds retries of transient service failures.
	defaultTransientRetries = 2
	// defaultTopK is the evidence set size used when the config omits it.
	defaultTopK = 5
	// defaultMaxClauseChars caps segmenter clause length when the config omits it.
	defaultMaxClauseChars = 1200
)

// Config represents the top-level application configuration.
type Config struct {
	Hosts            []Host `json:"hosts"`
	Debug            bool   `json:"debug"`
	EmbeddingHost    string `json:"embeddingHost"`
	EmbeddingModel   string `json:"embeddingModel"`
	GenerationHost   string `json:"generationHost"`
	GenerationModel  string `json:"generationModel"`
	TopK             int    `json:"topK,omitempty"`
	MaxClauseChars   int    `json:"maxClauseChars,omitempty"`
	RepairAttempts   int    `json:"repairAttempts,omitempty"`
	TransientRetries int    `json:"transientRetries,omitempty"`
	TimeoutSeconds   int    `json:"timeout,omitempty" mapstructure:"timeout"`
	IndexPath        string `json:"indexPath,omitempty"`
	LogFile          string `json:"logFile,omitempty"`
	ConfigPath       string `json:"-"`
}

// Host represents a single host that can serve embedding or generation models.
type Host struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	SystemPrompt string `json:"systemprompt,omitempty"`
}

// RequestTimeout returns the timeout duration for external-service calls,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RepairLimit returns the maximum number of generator invocations per query
// within the schema repair loop.
func (c Config) RepairLimit() int {
	if c.RepairAttempts <= 0 {
		return defaultRepairAttempts
	}
	return c.RepairAttempts
}

// TransientRetryLimit returns how many times a transient external-service
// failure is retried before the query fails.
func (c Config) TransientRetryLimit() int {
	if c.TransientRetries < 0 {
		return 0
	}
	if c.TransientRetries == 0 {
		return defaultTransientRetries
	}
	return c.TransientRetries
}

// EvidenceTopK returns the configured evidence set size.
func (c Config) EvidenceTopK() int {
	if c.TopK <= 0 {
		return defaultTopK
	}
	return c.TopK
}

// ClauseCharLimit returns the maximum clause length in characters.
func (c Config) ClauseCharLimit() int {
	if c.MaxClauseChars <= 0 {
		return defaultMaxClauseChars
	}
	return c.MaxClauseChars
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "covenant.log"
}

// IndexFilePath returns the path where the clause index is persisted.
func (c Config) IndexFilePath() string {
	if path := c.IndexPath; strings.TrimSpace(path) != "" {
		return path
	}
	return "data/index.jsonl"
}

// HostByName resolves a configured host by its name.
func (c Config) HostByName(name string) (Host, error) {
	if strings.TrimSpace(name) == "" {
		return Host{}, errors.New("host name is empty")
	}
	for _, host := range c.Hosts {
		if host.Name == name {
			return host, nil
		}
	}
	return Host{}, fmt.Errorf("host %q not found in config hosts", name)
}

// EmbeddingHostConfig resolves the host serving the embedding model.
func (c Config) EmbeddingHostConfig() (Host, error) {
	host, err := c.HostByName(c.EmbeddingHost)
	if err != nil {
		return Host{}, fmt.Errorf("embeddingHost: %w", err)
	}
	return host, nil
}

// GenerationHostConfig resolves the host serving the generation model.
func (c Config) GenerationHostConfig() (Host, error) {
	host, err := c.HostByName(c.GenerationHost)
	if err != nil {
		return Host{}, fmt.Errorf("generationHost: %w", err)
	}
	return host, nil
}

// Load reads the application configuration from the specified path, with fallback to a legacy path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if len(config.Hosts) == 0 {
			return Config{}, errors.New("config must contain at least one host")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				if len(config.Hosts) == 0 {
					return Config{}, errors.New("config must contain at least one host")
				}
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	config.ConfigPath = path
	return config, nil
}
