// Copyright 2026 The Talk Chat Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable [Load] reads the config path from.
const EnvVar = "TALK_CONFIG"

// Environment represents the deployment environment the client talks to.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Credential store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config is the client configuration.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment"`

	// Endpoints are the four backend resource URLs.
	Endpoints EndpointsConfig `yaml:"endpoints"`

	// Client tunes the HTTP gateway.
	Client ClientConfig `yaml:"client"`

	// Credentials configures where the bearer token is persisted.
	Credentials CredentialsConfig `yaml:"credentials"`

	// Log configures the command logger.
	Log LogConfig `yaml:"log"`

	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Endpoints *EndpointsConfig `yaml:"endpoints,omitempty"`
	Client    *ClientConfig    `yaml:"client,omitempty"`
}

// EndpointsConfig holds one URL per backend resource. The operation is
// selected with an ?action= query parameter on each.
type EndpointsConfig struct {
	Auth   string `yaml:"auth"`
	Users  string `yaml:"users"`
	Chats  string `yaml:"chats"`
	Upload string `yaml:"upload"`
}

// ClientConfig tunes the HTTP gateway.
type ClientConfig struct {
	// AuthHeader is the request header carrying "Bearer <token>".
	// Default: X-Authorization
	AuthHeader string `yaml:"auth_header"`

	// RequestTimeout bounds every backend call.
	// Default: 15s
	RequestTimeout string `yaml:"request_timeout"`
}

// CredentialsConfig configures the token store.
type CredentialsConfig struct {
	// Backend is one of memory, file, sqlite.
	// Default: file
	Backend string `yaml:"backend"`

	// Path is the file (file backend) or database (sqlite backend).
	// Default: ${TALK_STATE}/session.json or ${TALK_STATE}/client.db
	Path string `yaml:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: warn
	Level string `yaml:"level"`
}

// Default returns the default configuration. Endpoints are left empty:
// there is no sensible default backend, so the config file must name one.
func Default() *Config {
	return &Config{
		Environment: Development,
		Client: ClientConfig{
			AuthHeader:     "X-Authorization",
			RequestTimeout: "15s",
		},
		Credentials: CredentialsConfig{
			Backend: BackendFile,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Load loads configuration from the TALK_CONFIG environment variable.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your talk.yaml config file, or use --config flag", EnvVar)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyEnvironmentOverrides()
	cfg.applyDerivedDefaults()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Endpoints != nil {
		if overrides.Endpoints.Auth != "" {
			c.Endpoints.Auth = overrides.Endpoints.Auth
		}
		if overrides.Endpoints.Users != "" {
			c.Endpoints.Users = overrides.Endpoints.Users
		}
		if overrides.Endpoints.Chats != "" {
			c.Endpoints.Chats = overrides.Endpoints.Chats
		}
		if overrides.Endpoints.Upload != "" {
			c.Endpoints.Upload = overrides.Endpoints.Upload
		}
	}

	if overrides.Client != nil {
		if overrides.Client.AuthHeader != "" {
			c.Client.AuthHeader = overrides.Client.AuthHeader
		}
		if overrides.Client.RequestTimeout != "" {
			c.Client.RequestTimeout = overrides.Client.RequestTimeout
		}
	}
}

// applyDerivedDefaults fills the credential path from the backend when
// the file leaves it empty.
func (c *Config) applyDerivedDefaults() {
	if c.Credentials.Path != "" {
		return
	}
	switch c.Credentials.Backend {
	case BackendFile:
		c.Credentials.Path = "${TALK_STATE}/session.json"
	case BackendSQLite:
		c.Credentials.Path = "${TALK_STATE}/client.db"
	}
}

// StateDir returns the default directory for persisted client state:
// $XDG_STATE_HOME/talkchat, falling back to ~/.local/state/talkchat.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "talkchat")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", "talkchat")
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"TALK_STATE": StateDir(),
		"HOME":       os.Getenv("HOME"),
	}

	c.Endpoints.Auth = expandVars(c.Endpoints.Auth, vars)
	c.Endpoints.Users = expandVars(c.Endpoints.Users, vars)
	c.Endpoints.Chats = expandVars(c.Endpoints.Chats, vars)
	c.Endpoints.Upload = expandVars(c.Endpoints.Upload, vars)
	c.Credentials.Path = expandVars(c.Credentials.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided vars
// win over the process environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Timeout parses Client.RequestTimeout. Call Validate first; an
// unparseable value yields zero.
func (c *Config) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.Client.RequestTimeout)
	return d
}

// LogLevel parses Log.Level, defaulting to warn.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	endpoints := []struct {
		name, value string
	}{
		{"endpoints.auth", c.Endpoints.Auth},
		{"endpoints.users", c.Endpoints.Users},
		{"endpoints.chats", c.Endpoints.Chats},
		{"endpoints.upload", c.Endpoints.Upload},
	}
	for _, endpoint := range endpoints {
		if endpoint.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", endpoint.name))
			continue
		}
		parsed, err := url.Parse(endpoint.value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute http(s) URL, got %q", endpoint.name, endpoint.value))
		}
	}

	if strings.TrimSpace(c.Client.AuthHeader) == "" {
		errs = append(errs, fmt.Errorf("client.auth_header is required"))
	}
	if d, err := time.ParseDuration(c.Client.RequestTimeout); err != nil || d <= 0 {
		errs = append(errs, fmt.Errorf("client.request_timeout must be a positive duration, got %q", c.Client.RequestTimeout))
	}

	backends := []string{BackendMemory, BackendFile, BackendSQLite}
	if !slices.Contains(backends, c.Credentials.Backend) {
		errs = append(errs, fmt.Errorf("credentials.backend must be one of: %v", backends))
	} else if c.Credentials.Backend != BackendMemory && c.Credentials.Path == "" {
		errs = append(errs, fmt.Errorf("credentials.path is required for the %s backend", c.Credentials.Backend))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
