// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultServerURL is the backend base URL used when the config omits one.
	DefaultServerURL = "http://localhost:8000"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 120 * time.Second
)

// Config represents the top-level application configuration.
type Config struct {
	ServerURL      string `json:"serverUrl"`
	Debug          bool   `json:"debug"`
	TimeoutSeconds int    `json:"timeout,omitempty"`
	ExportPath     string `json:"export,omitempty"`
	LogFile        string `json:"logFile,omitempty"`
	ConfigPath     string `json:"-"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "evalview.log"
}

// BaseURL returns the backend base URL without a trailing slash, applying the
// default when the config omits one.
func (c Config) BaseURL() string {
	url := strings.TrimSpace(c.ServerURL)
	if url == "" {
		url = DefaultServerURL
	}
	return strings.TrimRight(url, "/")
}

// ExportFilePath returns the CSV export destination: the configured path when
// set, otherwise a date-stamped file name in the current directory.
func (c Config) ExportFilePath() string {
	if path := strings.TrimSpace(c.ExportPath); path != "" {
		return path
	}
	return fmt.Sprintf("batch-evaluation-%s.csv", time.Now().Format("2006-01-02"))
}

// Load reads the application configuration from the specified path. A missing
// file is not an error: the client can run entirely on defaults and flags.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{ConfigPath: path, TimeoutSeconds: int(defaultRequestTimeout.Seconds())}, nil
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	config.ConfigPath = path

	return config, nil
}
