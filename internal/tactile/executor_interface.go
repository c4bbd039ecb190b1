package tactile

import (
	"context"
	"errors"
)

// ErrEmptyCommand is returned by Validate for a command with nothing to run.
var ErrEmptyCommand = errors.New("command is empty")

// Executor runs commands. Execute never returns nil and never panics on
// process failures: every failure is an Outcome.
type Executor interface {
	// Execute runs cmd to completion or timeout. Cancelling ctx does not stop
	// a launched process; only the command timeout does.
	Execute(ctx context.Context, cmd Command) *Outcome

	// Validate checks that cmd is runnable without launching anything.
	Validate(cmd Command) error
}

// AuditedExecutor is an Executor that reports lifecycle events.
type AuditedExecutor interface {
	Executor

	// SetAuditCallback sets the callback for audit events.
	SetAuditCallback(callback func(AuditEvent))
}
