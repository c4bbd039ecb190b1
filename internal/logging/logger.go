// Package logging builds the zap loggers used across vibemcp.
//
// stdout belongs to the MCP protocol, so every logger built here writes to
// stderr (and optionally a file). Components receive a *zap.Logger and name it
// after their Category; nothing in this package is global.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem. It becomes the logger name.
type Category string

const (
	CategoryBoot    Category = "boot"    // startup, shutdown
	CategoryServer  Category = "server"  // MCP request handling
	CategoryTools   Category = "tools"   // registry and tool handlers
	CategoryTactile Category = "tactile" // process execution
	CategoryConfig  Category = "config"  // config load and reload
	CategoryAudit   Category = "audit"   // audit trail
)

// Options selects level, encoding and extra sinks.
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // json, console
	File    string // optional extra output path
	Verbose bool   // forces debug
}

// New builds the process logger. The returned AtomicLevel can be changed at
// runtime, e.g. on config reload.
func New(opts Options) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	switch strings.ToLower(opts.Format) {
	case "", "json":
	case "console", "text":
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unknown log format %q", opts.Format)
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if opts.File != "" {
		config.OutputPaths = append(config.OutputPaths, opts.File)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, config.Level, nil
}

// ParseLevel parses a level name; empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// Named returns logger scoped to category. A nil logger yields a no-op one so
// components can be constructed without wiring logging.
func Named(logger *zap.Logger, category Category) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger.Named(string(category))
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
