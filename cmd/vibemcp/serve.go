package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vibemcp/internal/config"
	"vibemcp/internal/logging"
	"vibemcp/internal/mcp"
	"vibemcp/internal/tactile"
	"vibemcp/internal/tools"
	"vibemcp/internal/tools/vibe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve MCP over stdin/stdout (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// app holds everything a tool call needs, built once from config.
type app struct {
	workdir  string
	runner   *tools.Runner
	registry *tools.Registry
	audit    *logging.AuditLogger
}

// newApp wires executor, runner and registry from c.
func newApp(c *config.Config, logger *zap.Logger) (*app, error) {
	workdir := c.Execution.WorkingDirectory
	if workdir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workdir = wd
	}
	workdir, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}

	policy, err := tools.ParseExitPolicy(c.Execution.ExitPolicy)
	if err != nil {
		return nil, err
	}

	executor := tactile.NewDirectExecutorWithConfig(tactile.ExecutorConfig{
		DefaultWorkingDir:  workdir,
		DefaultTimeout:     c.GetDefaultTimeout(),
		MaxOutputBytes:     c.Execution.MaxOutputBytes,
		WaitDelay:          c.GetWaitDelay(),
		AllowedEnvironment: c.Execution.AllowedEnvVars,
	}, logger)

	a := &app{
		workdir: workdir,
		runner: tools.NewRunner(executor, tools.RunnerConfig{
			Program:    c.Execution.Program,
			Timeout:    c.GetDefaultTimeout(),
			Shell:      c.Execution.Shell,
			ExitPolicy: policy,
		}, logger),
		registry: tools.NewRegistry(logger),
	}

	if c.Logging.AuditFile != "" {
		audit, err := logging.NewAuditLogger(c.Logging.AuditFile)
		if err != nil {
			return nil, err
		}
		a.audit = audit
		executor.SetAuditCallback(tactile.AuditTo(audit))
		a.registry.SetAudit(audit)
	}

	if err := vibe.RegisterAll(a.registry, a.runner, c.Tools.Disabled); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	return a, nil
}

// Close releases the audit sink, if any.
func (a *app) Close() error {
	if a.audit != nil {
		return a.audit.Close()
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	boot := logging.Named(logger, logging.CategoryBoot)
	timer := logging.StartTimer(boot, "Startup")

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := mcp.NewServer(a.registry, mcp.Options{
		Name:         cfg.Server.Name,
		Version:      cfg.Server.Version,
		Instructions: cfg.Server.Instructions,
		Workers:      cfg.Server.Workers,
		QueueSize:    cfg.Server.QueueSize,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	timer.StopWithThreshold(time.Second)

	boot.Info("Process directory", zap.String("dir", a.workdir))
	boot.Info("Executing",
		zap.String("program", a.runner.Program()),
		zap.Duration("timeout", a.runner.Config().Timeout),
		zap.Bool("shell", a.runner.Config().Shell),
		zap.String("exit_policy", string(a.runner.Config().ExitPolicy)))

	// Serve returns on EOF; cancelling here stops the watcher too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return server.Serve(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
	})

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, applyReload, logger)
		if err != nil {
			boot.Warn("Config watcher disabled", zap.Error(err))
		} else {
			g.Go(func() error { return watcher.Run(gctx) })
		}
	}

	err = g.Wait()
	boot.Info("Shutting down", zap.Error(err))
	return err
}

// applyReload applies the settings that can change without a restart.
// Execution settings are fixed for the life of the process.
func applyReload(next *config.Config) {
	if verbose {
		return
	}
	level, err := logging.ParseLevel(next.Logging.Level)
	if err != nil {
		return
	}
	if level != logLevel.Level() {
		logLevel.SetLevel(level)
		logger.Info("Log level changed", zap.String("level", level.String()))
	}
}
