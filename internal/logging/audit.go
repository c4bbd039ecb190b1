package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AuditEventType identifies an audit record.
type AuditEventType string

const (
	// Tool calls, one record per invocation.
	AuditToolComplete AuditEventType = "tool_complete"
	AuditToolError    AuditEventType = "tool_error"

	// Child process lifecycle.
	AuditExecStart    AuditEventType = "exec_start"
	AuditExecComplete AuditEventType = "exec_complete"
	AuditExecKilled   AuditEventType = "exec_killed"
	AuditExecError    AuditEventType = "exec_error"
)

// AuditEvent is one line of the audit trail.
type AuditEvent struct {
	EventType  AuditEventType
	RequestID  string
	Target     string // tool name or command line
	Action     string
	Success    bool
	DurationMs int64
	Error      string
	Fields     map[string]any
}

// AuditLogger writes audit events as JSON lines. The zero value and a nil
// pointer both discard events.
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger opens an audit trail at path. An empty path returns a
// logger that discards everything.
func NewAuditLogger(path string) (*AuditLogger, error) {
	if path == "" {
		return &AuditLogger{}, nil
	}

	encoder := zap.NewProductionEncoderConfig()
	encoder.TimeKey = "ts"
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder.MessageKey = "event"

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding:         "json",
		EncoderConfig:    encoder,
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	return NewAuditLoggerWith(logger), nil
}

// NewAuditLoggerWith wraps an existing zap logger, mainly for tests.
func NewAuditLoggerWith(logger *zap.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.Named(string(CategoryAudit))}
}

// Log writes an audit event.
func (a *AuditLogger) Log(event AuditEvent) {
	if a == nil || a.logger == nil {
		return
	}

	fields := []zap.Field{
		zap.String("req", event.RequestID),
		zap.String("target", event.Target),
		zap.Bool("success", event.Success),
	}
	if event.Action != "" {
		fields = append(fields, zap.String("action", event.Action))
	}
	if event.DurationMs > 0 {
		fields = append(fields, zap.Int64("dur_ms", event.DurationMs))
	}
	if event.Error != "" {
		fields = append(fields, zap.String("error", event.Error))
	}
	if len(event.Fields) > 0 {
		fields = append(fields, zap.Any("fields", event.Fields))
	}

	a.logger.Info(string(event.EventType), fields...)
}

// ToolExec records the end of a tool call.
func (a *AuditLogger) ToolExec(toolName, requestID string, duration time.Duration, success bool, errMsg string) {
	eventType := AuditToolComplete
	if !success {
		eventType = AuditToolError
	}
	a.Log(AuditEvent{
		EventType:  eventType,
		RequestID:  requestID,
		Target:     toolName,
		Action:     "call",
		Success:    success,
		DurationMs: duration.Milliseconds(),
		Error:      errMsg,
	})
}

// Close flushes buffered audit records.
func (a *AuditLogger) Close() error {
	if a == nil || a.logger == nil {
		return nil
	}
	return a.logger.Sync()
}
