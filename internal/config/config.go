// Package config loads vibemcp configuration from YAML or TOML, applies
// environment overrides and validates the result.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"vibemcp/internal/logging"
)

const (
	DefaultTimeout        = 5 * time.Minute
	DefaultWaitDelay      = 2 * time.Second
	DefaultMaxOutputBytes = 10 << 20

	maxWorkers = 100
)

const defaultInstructions = "These tools run the vibe-tools CLI. Pass the absolute path of the project you are " +
	"working in as directory; research commands can take several minutes."

// Config holds all vibemcp configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Execution ExecutionConfig `yaml:"execution" toml:"execution"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Tools     ToolsConfig     `yaml:"tools" toml:"tools"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Name:         "vibe-tools-mcp-server",
			Version:      "1.1.0",
			Workers:      5,
			QueueSize:    100,
			Instructions: defaultInstructions,
		},

		Execution: ExecutionConfig{
			Program:        "vibe-tools",
			DefaultTimeout: "5m",
			ExitPolicy:     "permissive",
			MaxOutputBytes: DefaultMaxOutputBytes,
			WaitDelay:      "2s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file, or TOML when path ends in
// .toml. An empty path or a missing file yields the defaults. Environment
// overrides are applied in every case.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	case isTOML(path):
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML or TOML file, chosen by extension.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("VIBEMCP_PROGRAM"); v != "" {
		c.Execution.Program = v
	}
	if v := os.Getenv("VIBEMCP_TIMEOUT"); v != "" {
		c.Execution.DefaultTimeout = v
	}
	if v := os.Getenv("VIBEMCP_WORKDIR"); v != "" {
		c.Execution.WorkingDirectory = v
	}
	if v := os.Getenv("VIBEMCP_EXIT_POLICY"); v != "" {
		c.Execution.ExitPolicy = v
	}
	if v := os.Getenv("VIBEMCP_SHELL"); v != "" {
		// Unparseable values leave the file setting in place.
		if b, err := strconv.ParseBool(v); err == nil {
			c.Execution.Shell = b
		}
	}
	if v := os.Getenv("VIBEMCP_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs error

	if strings.TrimSpace(c.Server.Name) == "" {
		errs = multierr.Append(errs, fmt.Errorf("server.name must not be empty"))
	}
	if c.Server.Workers < 0 || c.Server.Workers > maxWorkers {
		errs = multierr.Append(errs, fmt.Errorf("server.workers must be between 0 and %d, got %d", maxWorkers, c.Server.Workers))
	}
	if c.Server.QueueSize < 0 {
		errs = multierr.Append(errs, fmt.Errorf("server.queue_size must not be negative, got %d", c.Server.QueueSize))
	}

	if strings.TrimSpace(c.Execution.Program) == "" {
		errs = multierr.Append(errs, fmt.Errorf("execution.program must not be empty"))
	}
	if d, err := time.ParseDuration(c.Execution.DefaultTimeout); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("execution.default_timeout: %w", err))
	} else if d <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("execution.default_timeout must be positive, got %s", d))
	}
	if c.Execution.WaitDelay != "" {
		if d, err := time.ParseDuration(c.Execution.WaitDelay); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("execution.wait_delay: %w", err))
		} else if d < 0 {
			errs = multierr.Append(errs, fmt.Errorf("execution.wait_delay must not be negative, got %s", d))
		}
	}
	switch strings.ToLower(c.Execution.ExitPolicy) {
	case "", "permissive", "strict":
	default:
		errs = multierr.Append(errs, fmt.Errorf("execution.exit_policy must be permissive or strict, got %q", c.Execution.ExitPolicy))
	}
	if c.Execution.MaxOutputBytes < 0 {
		errs = multierr.Append(errs, fmt.Errorf("execution.max_output_bytes must not be negative"))
	}
	if dir := c.Execution.WorkingDirectory; dir != "" {
		if info, err := os.Stat(dir); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("execution.working_directory: %w", err))
		} else if !info.IsDir() {
			errs = multierr.Append(errs, fmt.Errorf("execution.working_directory %s is not a directory", dir))
		}
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "json", "console", "text":
	default:
		errs = multierr.Append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}

	return errs
}

// IsToolDisabled reports whether name is listed in tools.disabled.
func (c *Config) IsToolDisabled(name string) bool {
	for _, disabled := range c.Tools.Disabled {
		if disabled == name {
			return true
		}
	}
	return false
}
