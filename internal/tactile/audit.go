package tactile

import (
	"vibemcp/internal/logging"
)

// AuditTo returns an audit callback that records execution events in the
// audit trail. Pass it to SetAuditCallback.
func AuditTo(audit *logging.AuditLogger) func(AuditEvent) {
	return func(e AuditEvent) {
		audit.Log(e.ToAuditLog())
	}
}

// ToAuditLog converts an execution event into an audit trail record.
func (e AuditEvent) ToAuditLog() logging.AuditEvent {
	record := logging.AuditEvent{
		RequestID: e.Command.RequestID,
		Target:    e.Command.Line,
		Action:    e.Command.Tool,
		Success:   true,
		Fields: map[string]any{
			"dir":   e.Command.WorkingDirectory,
			"shell": e.Command.UsesShell(),
		},
	}

	switch e.Type {
	case AuditEventStart:
		record.EventType = logging.AuditExecStart
	case AuditEventKilled:
		record.EventType = logging.AuditExecKilled
		record.Success = false
	case AuditEventError:
		record.EventType = logging.AuditExecError
		record.Success = false
	default:
		record.EventType = logging.AuditExecComplete
	}

	if o := e.Outcome; o != nil {
		record.DurationMs = o.Duration.Milliseconds()
		record.Fields["kind"] = string(o.Kind)
		switch o.Kind {
		case OutcomeCompleted:
			record.Fields["exit_code"] = o.ExitCode
		case OutcomeTimedOut:
			record.Error = "timeout after " + o.Timeout.String()
		case OutcomeLaunchFailed:
			record.Error = o.Reason
		}
		if o.Truncated {
			record.Fields["truncated_bytes"] = o.TruncatedBytes
		}
	}
	return record
}
