// Package tactile runs commands as child processes.
//
// It is the only package that touches os/exec. A Command goes in, an Outcome
// comes out, and nothing in between is allowed to escape as a Go error or a
// panic. How an Outcome is presented to an MCP client is decided elsewhere.
package tactile

import (
	"os"
	"time"
)

// Command is one process launch request.
type Command struct {
	// Line is the shell rendering of the command. It is always set because it
	// is what gets logged, and it is what runs when Argv is empty.
	Line string `json:"line"`

	// Argv, when non-empty, is executed directly without a shell.
	Argv []string `json:"argv,omitempty"`

	// WorkingDirectory for the child. Empty means the executor default.
	WorkingDirectory string `json:"working_directory,omitempty"`

	// TimeoutMs is the wall-clock ceiling from launch. Zero means the
	// executor default.
	TimeoutMs int64 `json:"timeout_ms,omitempty"`

	// RequestID correlates log lines and audit records of one invocation.
	RequestID string `json:"request_id,omitempty"`

	// Tool is the name of the tool that produced the command, if any.
	Tool string `json:"tool,omitempty"`
}

// UsesShell reports whether the command is interpreted by a shell.
func (c Command) UsesShell() bool {
	return len(c.Argv) == 0
}

// OutcomeKind discriminates the variants of Outcome.
type OutcomeKind string

const (
	// OutcomeCompleted: the process exited before the deadline, any exit code.
	OutcomeCompleted OutcomeKind = "completed"
	// OutcomeTimedOut: the deadline passed and the process group was killed.
	OutcomeTimedOut OutcomeKind = "timed_out"
	// OutcomeLaunchFailed: the process never started.
	OutcomeLaunchFailed OutcomeKind = "launch_failed"
)

// Outcome is the result of one Execute call. Which fields are meaningful
// depends on Kind: ExitCode only for completed, Reason only for
// launch_failed. Stdout and Stderr hold partial output on timeout.
type Outcome struct {
	Kind     OutcomeKind `json:"kind"`
	ExitCode int         `json:"exit_code"`
	Stdout   string      `json:"stdout,omitempty"`
	Stderr   string      `json:"stderr,omitempty"`
	Reason   string      `json:"reason,omitempty"`

	// WorkingDirectory is the resolved directory, recorded before launch.
	WorkingDirectory string `json:"working_directory"`

	// Timeout is the ceiling that applied to this run.
	Timeout time.Duration `json:"timeout"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`

	// Truncated is set when output exceeded MaxOutputBytes.
	Truncated      bool  `json:"truncated,omitempty"`
	TruncatedBytes int64 `json:"truncated_bytes,omitempty"`

	Command *Command `json:"command,omitempty"`
}

// Completed builds a completed outcome.
func Completed(exitCode int, stdout, stderr string) *Outcome {
	return &Outcome{Kind: OutcomeCompleted, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

// TimedOut builds a timed-out outcome carrying partial output.
func TimedOut(stdout, stderr string, after time.Duration) *Outcome {
	return &Outcome{Kind: OutcomeTimedOut, ExitCode: -1, Stdout: stdout, Stderr: stderr, Timeout: after}
}

// LaunchFailed builds a launch-failure outcome.
func LaunchFailed(reason string) *Outcome {
	return &Outcome{Kind: OutcomeLaunchFailed, ExitCode: -1, Reason: reason}
}

// Succeeded reports a completed run with exit code zero.
func (o *Outcome) Succeeded() bool {
	return o != nil && o.Kind == OutcomeCompleted && o.ExitCode == 0
}

// ExecutorConfig holds executor defaults.
type ExecutorConfig struct {
	// DefaultWorkingDir is used when a Command has none. It should be an
	// absolute path resolved once at startup.
	DefaultWorkingDir string `json:"default_working_dir"`

	// DefaultTimeout applies when Command.TimeoutMs is zero. Callers own the
	// real timeout policy and normally set TimeoutMs on every command.
	DefaultTimeout time.Duration `json:"default_timeout"`

	// MaxOutputBytes bounds each captured stream.
	MaxOutputBytes int64 `json:"max_output_bytes"`

	// WaitDelay bounds how long Wait keeps reading pipes once the process
	// has exited or been killed.
	WaitDelay time.Duration `json:"wait_delay"`

	// AllowedEnvironment restricts inherited variables when non-empty.
	// Empty means the child inherits the full server environment.
	AllowedEnvironment []string `json:"allowed_environment,omitempty"`

	// Shell overrides the interpreter prefix for shell commands,
	// e.g. ["bash", "-c"]. Empty means the platform default.
	Shell []string `json:"shell,omitempty"`
}

// DefaultExecutorConfig returns defaults rooted at the current directory.
func DefaultExecutorConfig() ExecutorConfig {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return ExecutorConfig{
		DefaultWorkingDir: wd,
		DefaultTimeout:    30 * time.Second,
		MaxOutputBytes:    10 * 1024 * 1024, // 10MB
		WaitDelay:         2 * time.Second,
	}
}

// Merge fills unset command fields from the config.
func (c ExecutorConfig) Merge(cmd Command) Command {
	result := cmd
	if result.WorkingDirectory == "" {
		result.WorkingDirectory = c.DefaultWorkingDir
	}
	if result.TimeoutMs <= 0 {
		result.TimeoutMs = c.DefaultTimeout.Milliseconds()
	}
	return result
}

// AuditEventType categorizes audit events.
type AuditEventType string

const (
	AuditEventStart    AuditEventType = "start"
	AuditEventComplete AuditEventType = "complete"
	AuditEventKilled   AuditEventType = "killed"
	AuditEventError    AuditEventType = "error"
)

// AuditEvent is emitted at launch and again when the run ends.
type AuditEvent struct {
	Type      AuditEventType `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Command   Command        `json:"command"`
	Outcome   *Outcome       `json:"outcome,omitempty"`
}
