package tools

import (
	"fmt"
	"strings"

	"vibemcp/internal/tactile"
)

// ExitPolicy decides how a completed run with a non-zero exit code is
// reported.
type ExitPolicy string

const (
	// ExitPolicyPermissive reports any completed run as plain output. The
	// wrapped CLI's stderr is the diagnostic surface.
	ExitPolicyPermissive ExitPolicy = "permissive"

	// ExitPolicyStrict adds a tool_execution_error for non-zero exits.
	ExitPolicyStrict ExitPolicy = "strict"
)

// ParseExitPolicy parses a policy name; empty means permissive.
func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch ExitPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExitPolicyPermissive:
		return ExitPolicyPermissive, nil
	case ExitPolicyStrict:
		return ExitPolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown exit policy %q (want %q or %q)", s, ExitPolicyPermissive, ExitPolicyStrict)
	}
}

const (
	noStdout = "(No stdout)"
	noStderr = "(No stderr)"
)

// Adapter maps executor outcomes to tool results.
type Adapter struct {
	Policy ExitPolicy
}

// Adapt converts an outcome into a ToolResult. It never panics; a nil
// outcome is reported as an execution error.
func (a Adapter) Adapt(outcome *tactile.Outcome) ToolResult {
	if outcome == nil {
		return ErrorResult(ErrorTypeToolExecution,
			"Execution failed: no outcome",
			"Failed to execute command: no outcome")
	}

	switch outcome.Kind {
	case tactile.OutcomeCompleted:
		text := FormatOutput(outcome.Stdout, outcome.Stderr) + truncationNote(outcome)
		if outcome.ExitCode != 0 && a.Policy == ExitPolicyStrict {
			status := fmt.Sprintf("exit status %d", outcome.ExitCode)
			return ErrorResult(ErrorTypeToolExecution,
				"Execution failed: "+status,
				fmt.Sprintf("Command failed with %s\n%s\nProcess directory: %s", status, text, outcome.WorkingDirectory))
		}
		return TextResult(text)

	case tactile.OutcomeTimedOut:
		reason := fmt.Sprintf("command timed out after %s", outcome.Timeout)
		return ErrorResult(ErrorTypeToolExecution,
			"Execution failed: "+reason,
			fmt.Sprintf("Command timed out after %s\n%s%s\nProcess directory: %s",
				outcome.Timeout, FormatOutput(outcome.Stdout, outcome.Stderr), truncationNote(outcome), outcome.WorkingDirectory))

	case tactile.OutcomeLaunchFailed:
		return ErrorResult(ErrorTypeToolExecution,
			"Execution failed: "+outcome.Reason,
			fmt.Sprintf("Failed to execute command: %s\nProcess directory: %s", outcome.Reason, outcome.WorkingDirectory))

	default:
		return ErrorResult(ErrorTypeToolExecution,
			fmt.Sprintf("Execution failed: unknown outcome %q", outcome.Kind),
			fmt.Sprintf("Failed to execute command: unknown outcome %q\nProcess directory: %s", outcome.Kind, outcome.WorkingDirectory))
	}
}

// FormatOutput labels both streams and substitutes placeholders for empty
// ones, so "empty" and "missing" stay distinguishable.
func FormatOutput(stdout, stderr string) string {
	if stdout == "" {
		stdout = noStdout
	}
	if stderr == "" {
		stderr = noStderr
	}
	return "stdout:\n" + stdout + "\n\nstderr:\n" + stderr
}

func truncationNote(outcome *tactile.Outcome) string {
	if !outcome.Truncated {
		return ""
	}
	return fmt.Sprintf("\n\n(output truncated: %d bytes discarded)", outcome.TruncatedBytes)
}
