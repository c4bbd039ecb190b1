package tactile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"vibemcp/internal/logging"
)

// DirectExecutor executes commands on the host using os/exec.
// Each child runs in its own process group so a timeout kills everything it
// spawned.
type DirectExecutor struct {
	mu     sync.RWMutex
	config ExecutorConfig
	logger *zap.Logger

	// auditCallback is called for execution events
	auditCallback func(AuditEvent)
}

var _ AuditedExecutor = (*DirectExecutor)(nil)

// NewDirectExecutor creates a direct executor with default config.
func NewDirectExecutor(logger *zap.Logger) *DirectExecutor {
	return NewDirectExecutorWithConfig(DefaultExecutorConfig(), logger)
}

// NewDirectExecutorWithConfig creates a direct executor with custom config.
func NewDirectExecutorWithConfig(config ExecutorConfig, logger *zap.Logger) *DirectExecutor {
	logger = logging.Named(logger, logging.CategoryTactile)
	logger.Debug("Creating DirectExecutor",
		zap.String("default_dir", config.DefaultWorkingDir),
		zap.Duration("default_timeout", config.DefaultTimeout),
		zap.Int64("max_output_bytes", config.MaxOutputBytes))
	return &DirectExecutor{
		config: config,
		logger: logger,
	}
}

// Config returns the executor configuration.
func (e *DirectExecutor) Config() ExecutorConfig {
	return e.config
}

// SetAuditCallback sets the callback for audit events.
func (e *DirectExecutor) SetAuditCallback(callback func(AuditEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.auditCallback = callback
}

func (e *DirectExecutor) emitAudit(eventType AuditEventType, cmd Command, outcome *Outcome) {
	e.mu.RLock()
	callback := e.auditCallback
	e.mu.RUnlock()

	if callback != nil {
		callback(AuditEvent{
			Type:      eventType,
			Timestamp: time.Now(),
			Command:   cmd,
			Outcome:   outcome,
		})
	}
}

// Validate checks if a command can be executed.
func (e *DirectExecutor) Validate(cmd Command) error {
	if cmd.UsesShell() {
		if strings.TrimSpace(cmd.Line) == "" {
			return ErrEmptyCommand
		}
		return nil
	}
	if cmd.Argv[0] == "" {
		return fmt.Errorf("%w: argv[0] is empty", ErrEmptyCommand)
	}
	return nil
}

// Execute runs a command on the host.
func (e *DirectExecutor) Execute(ctx context.Context, cmd Command) *Outcome {
	cmd = e.config.Merge(cmd)
	timeout := time.Duration(cmd.TimeoutMs) * time.Millisecond

	log := e.logger.With(
		zap.String("request_id", cmd.RequestID),
		zap.String("tool", cmd.Tool),
		zap.String("command", cmd.Line),
		zap.String("dir", cmd.WorkingDirectory),
	)
	timer := logging.StartTimer(log, "Direct command execution")
	defer timer.Stop()

	if err := e.Validate(cmd); err != nil {
		log.Warn("Command validation failed", zap.Error(err))
		outcome := e.finish(LaunchFailed(err.Error()), cmd, timeout)
		e.emitAudit(AuditEventError, cmd, outcome)
		return outcome
	}

	log.Info("Executing command",
		zap.Duration("timeout", timeout),
		zap.Bool("shell", cmd.UsesShell()))
	e.emitAudit(AuditEventStart, cmd, nil)

	// Only the deadline stops a launched command; caller cancellation does not.
	execCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	execCmd := e.buildCmd(execCtx, cmd)
	execCmd.Dir = cmd.WorkingDirectory
	execCmd.Env = e.buildEnvironment()
	setupProcessGroup(execCmd)
	// Cancel only runs when the deadline fires before the process exits.
	var killed atomic.Bool
	execCmd.Cancel = func() error {
		killed.Store(true)
		return killProcessGroup(execCmd)
	}
	execCmd.WaitDelay = e.config.WaitDelay

	var stdoutBuf, stderrBuf bytes.Buffer
	stdoutLimited := &limitedWriter{w: &stdoutBuf, max: e.config.MaxOutputBytes}
	stderrLimited := &limitedWriter{w: &stderrBuf, max: e.config.MaxOutputBytes}
	execCmd.Stdout = stdoutLimited
	execCmd.Stderr = stderrLimited

	startedAt := time.Now()
	if err := execCmd.Start(); err != nil {
		log.Error("Command failed to launch", zap.Error(err))
		outcome := LaunchFailed(err.Error())
		outcome.StartedAt = startedAt
		outcome = e.finish(outcome, cmd, timeout)
		e.emitAudit(AuditEventError, cmd, outcome)
		return outcome
	}

	waitErr := execCmd.Wait()
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// Something in the group still held the output pipes.
		reapProcessGroup(execCmd)
	}

	stdout, stderr := stdoutBuf.String(), stderrBuf.String()

	var outcome *Outcome
	var exitErr *exec.ExitError
	switch {
	case waitErr != nil && killed.Load():
		outcome = TimedOut(stdout, stderr, timeout)
	case waitErr == nil:
		outcome = Completed(0, stdout, stderr)
	case errors.As(waitErr, &exitErr) && cmd.UsesShell() && shellLaunchFailed(exitErr.ExitCode(), stdout):
		outcome = LaunchFailed(shellLaunchReason(exitErr.ExitCode(), stderr))
	case errors.As(waitErr, &exitErr):
		outcome = Completed(exitErr.ExitCode(), stdout, stderr)
	case execCmd.ProcessState != nil:
		// The process exited but its pipes were held open past WaitDelay.
		log.Warn("Output pipes still open after exit", zap.Error(waitErr))
		outcome = Completed(execCmd.ProcessState.ExitCode(), stdout, stderr)
	default:
		outcome = LaunchFailed(waitErr.Error())
	}
	outcome.StartedAt = startedAt

	if stdoutLimited.truncated || stderrLimited.truncated {
		outcome.Truncated = true
		outcome.TruncatedBytes = stdoutLimited.discarded + stderrLimited.discarded
		log.Warn("Command output truncated", zap.Int64("discarded_bytes", outcome.TruncatedBytes))
	}

	outcome = e.finish(outcome, cmd, timeout)

	switch outcome.Kind {
	case OutcomeTimedOut:
		log.Warn("Command killed (timeout)",
			zap.Duration("timeout", timeout),
			zap.Int("stdout_bytes", len(outcome.Stdout)),
			zap.Int("stderr_bytes", len(outcome.Stderr)))
		e.emitAudit(AuditEventKilled, cmd, outcome)
	case OutcomeLaunchFailed:
		log.Error("Command failed", zap.String("reason", outcome.Reason))
		e.emitAudit(AuditEventError, cmd, outcome)
	default:
		log.Info("Command completed",
			zap.Int("exit_code", outcome.ExitCode),
			zap.Duration("duration", outcome.Duration),
			zap.Int("stdout_bytes", len(outcome.Stdout)),
			zap.Int("stderr_bytes", len(outcome.Stderr)))
		e.emitAudit(AuditEventComplete, cmd, outcome)
	}

	return outcome
}

// finish stamps the fields every outcome carries.
func (e *DirectExecutor) finish(outcome *Outcome, cmd Command, timeout time.Duration) *Outcome {
	outcome.FinishedAt = time.Now()
	if outcome.StartedAt.IsZero() {
		outcome.StartedAt = outcome.FinishedAt
	}
	outcome.Duration = outcome.FinishedAt.Sub(outcome.StartedAt)
	outcome.WorkingDirectory = cmd.WorkingDirectory
	outcome.Timeout = timeout
	outcome.Command = &cmd
	return outcome
}

// shellLaunchFailed reports whether a POSIX shell exit means it could not
// start the program: 127 is "not found", 126 "not executable".
func shellLaunchFailed(exitCode int, stdout string) bool {
	return (exitCode == 126 || exitCode == 127) && stdout == ""
}

func shellLaunchReason(exitCode int, stderr string) string {
	if reason := strings.TrimSpace(stderr); reason != "" {
		return reason
	}
	return fmt.Sprintf("exit status %d", exitCode)
}

// buildCmd picks direct exec or the shell.
func (e *DirectExecutor) buildCmd(ctx context.Context, cmd Command) *exec.Cmd {
	if !cmd.UsesShell() {
		return exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	}
	shell := e.config.Shell
	if len(shell) == 0 {
		shell = defaultShell()
	}
	args := append(append([]string(nil), shell[1:]...), cmd.Line)
	return exec.CommandContext(ctx, shell[0], args...)
}

// buildEnvironment returns nil (inherit everything) unless the config
// restricts the environment.
func (e *DirectExecutor) buildEnvironment() []string {
	if len(e.config.AllowedEnvironment) == 0 {
		return nil
	}
	env := make([]string, 0, len(e.config.AllowedEnvironment))
	for _, key := range e.config.AllowedEnvironment {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}

// limitedWriter is an io.Writer that limits total bytes written.
type limitedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
	discarded int64
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if lw.max <= 0 {
		return lw.w.Write(p)
	}

	if lw.written >= lw.max {
		lw.truncated = true
		lw.discarded += int64(n)
		return n, nil // Pretend we wrote it
	}

	remaining := lw.max - lw.written
	if int64(n) > remaining {
		lw.truncated = true
		lw.discarded += int64(n) - remaining
		written, err := lw.w.Write(p[:remaining])
		lw.written += int64(written)
		return n, err // Return original length to avoid "short write" errors
	}

	written, err := lw.w.Write(p)
	lw.written += int64(written)
	return written, err
}
