package config

import "time"

// ExecutionConfig configures how the wrapped CLI is launched.
type ExecutionConfig struct {
	// Program is the CLI every tool invokes. It may include leading
	// arguments, e.g. "npx vibe-tools".
	Program string `yaml:"program" toml:"program"`

	// Default timeout for commands
	DefaultTimeout string `yaml:"default_timeout" toml:"default_timeout"`

	// Working directory for tools called without one. Empty means the
	// directory the server was started in.
	WorkingDirectory string `yaml:"working_directory" toml:"working_directory"`

	// Shell runs builder commands through sh -c instead of argv.
	Shell bool `yaml:"shell" toml:"shell"`

	// ExitPolicy is "permissive" (non-zero exit is plain output) or "strict".
	ExitPolicy string `yaml:"exit_policy" toml:"exit_policy"`

	// MaxOutputBytes caps captured stdout and stderr each. 0 is unlimited.
	MaxOutputBytes int64 `yaml:"max_output_bytes" toml:"max_output_bytes"`

	// WaitDelay bounds how long pipes may stay open after the process is
	// gone.
	WaitDelay string `yaml:"wait_delay" toml:"wait_delay"`

	// Environment variables to pass. Empty inherits everything.
	AllowedEnvVars []string `yaml:"allowed_env" toml:"allowed_env"`
}

// GetDefaultTimeout returns the default execution timeout as a duration.
func (c *Config) GetDefaultTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

// GetWaitDelay returns the pipe wait delay as a duration.
func (c *Config) GetWaitDelay() time.Duration {
	d, err := time.ParseDuration(c.Execution.WaitDelay)
	if err != nil || d < 0 {
		return DefaultWaitDelay
	}
	return d
}
