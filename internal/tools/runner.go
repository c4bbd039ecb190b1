package tools

import (
	"context"
	"time"

	"go.uber.org/zap"

	"vibemcp/internal/cmdline"
	"vibemcp/internal/logging"
	"vibemcp/internal/tactile"
)

const (
	// DefaultProgram is the CLI every builder command invokes.
	DefaultProgram = "vibe-tools"

	// DefaultTimeout bounds every invocation. Research commands can take
	// minutes.
	DefaultTimeout = 5 * time.Minute
)

// RunnerConfig controls how built commands are launched.
type RunnerConfig struct {
	// Program replaces the first base token of every spec.
	Program string

	// Timeout per invocation. Zero means DefaultTimeout.
	Timeout time.Duration

	// Shell runs builder commands through the platform shell using their
	// quoted rendering instead of the argument vector.
	Shell bool

	// ExitPolicy decides whether non-zero exits are errors.
	ExitPolicy ExitPolicy
}

// Runner turns command specs into executor commands and adapts the outcome.
// It holds no per-call state and is safe for concurrent use.
type Runner struct {
	executor tactile.Executor
	config   RunnerConfig
	adapter  Adapter
	logger   *zap.Logger
}

// NewRunner creates a runner over executor.
func NewRunner(executor tactile.Executor, config RunnerConfig, logger *zap.Logger) *Runner {
	if config.Program == "" {
		config.Program = DefaultProgram
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.ExitPolicy == "" {
		config.ExitPolicy = ExitPolicyPermissive
	}
	return &Runner{
		executor: executor,
		config:   config,
		adapter:  Adapter{Policy: config.ExitPolicy},
		logger:   logging.Named(logger, logging.CategoryTools),
	}
}

// Program returns the configured program name.
func (r *Runner) Program() string {
	return r.config.Program
}

// Config returns the runner configuration after defaults were applied.
func (r *Runner) Config() RunnerConfig {
	return r.config
}

// Command renders spec into an executor command for dir.
func (r *Runner) Command(ctx context.Context, spec *cmdline.Spec, dir string) tactile.Command {
	cmd := tactile.Command{
		Line:             spec.Line(),
		WorkingDirectory: dir,
		TimeoutMs:        r.config.Timeout.Milliseconds(),
		RequestID:        RequestIDFrom(ctx),
		Tool:             ToolNameFrom(ctx),
	}
	if !r.config.Shell {
		cmd.Argv = spec.Argv()
	}
	return cmd
}

// Run executes spec in dir and adapts the outcome.
func (r *Runner) Run(ctx context.Context, spec *cmdline.Spec, dir string) ToolResult {
	return r.execute(ctx, r.Command(ctx, spec, dir))
}

// RunLine executes a raw command line through the shell in dir.
func (r *Runner) RunLine(ctx context.Context, line, dir string) ToolResult {
	return r.execute(ctx, tactile.Command{
		Line:             line,
		WorkingDirectory: dir,
		TimeoutMs:        r.config.Timeout.Milliseconds(),
		RequestID:        RequestIDFrom(ctx),
		Tool:             ToolNameFrom(ctx),
	})
}

func (r *Runner) execute(ctx context.Context, cmd tactile.Command) ToolResult {
	r.logger.Debug("Running command",
		zap.String("request_id", cmd.RequestID),
		zap.String("tool", cmd.Tool),
		zap.String("command", cmd.Line),
		zap.Bool("shell", cmd.UsesShell()))

	return r.adapter.Adapt(r.executor.Execute(ctx, cmd))
}
