package tactile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"vibemcp/internal/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func requirePosix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func testConfig(t *testing.T) ExecutorConfig {
	t.Helper()
	config := DefaultExecutorConfig()
	config.DefaultWorkingDir = t.TempDir()
	config.DefaultTimeout = 10 * time.Second
	config.WaitDelay = 500 * time.Millisecond
	return config
}

func TestDirectExecutor_Execute(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	outcome := executor.Execute(context.Background(), Command{Line: "echo hello"})

	require.NotNil(t, outcome)
	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 0, outcome.ExitCode)
	assert.Equal(t, "hello\n", outcome.Stdout)
	assert.Empty(t, outcome.Stderr)
	assert.True(t, outcome.Succeeded())
	assert.False(t, outcome.StartedAt.IsZero())
	assert.False(t, outcome.FinishedAt.Before(outcome.StartedAt))
}

func TestDirectExecutor_NonZeroExitIsCompleted(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	outcome := executor.Execute(context.Background(), Command{
		Line: "sh -c 'echo out; echo err >&2; exit 3'",
		Argv: []string{"sh", "-c", "echo out; echo err >&2; exit 3"},
	})

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Equal(t, "out\n", outcome.Stdout)
	assert.Equal(t, "err\n", outcome.Stderr)
	assert.False(t, outcome.Succeeded())
}

func TestDirectExecutor_TimeoutPreservesPartialOutput(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	start := time.Now()
	outcome := executor.Execute(context.Background(), Command{
		Line:      "echo partial; echo warming >&2; sleep 10",
		TimeoutMs: 300,
	})
	elapsed := time.Since(start)

	assert.Equal(t, OutcomeTimedOut, outcome.Kind)
	assert.Equal(t, "partial\n", outcome.Stdout)
	assert.Equal(t, "warming\n", outcome.Stderr)
	assert.Equal(t, 300*time.Millisecond, outcome.Timeout)
	assert.Less(t, elapsed, 5*time.Second, "timeout should kill the process promptly")
}

func TestDirectExecutor_WorkingDirectory(t *testing.T) {
	requirePosix(t)
	config := testConfig(t)
	executor := NewDirectExecutorWithConfig(config, nil)

	t.Run("explicit directory", func(t *testing.T) {
		dir := t.TempDir()
		outcome := executor.Execute(context.Background(), Command{Line: "pwd", WorkingDirectory: dir})

		require.Equal(t, OutcomeCompleted, outcome.Kind)
		assert.Equal(t, dir, outcome.WorkingDirectory)
		assertSameDir(t, dir, strings.TrimSpace(outcome.Stdout))
	})

	t.Run("default directory is resolved and recorded", func(t *testing.T) {
		outcome := executor.Execute(context.Background(), Command{Line: "pwd"})

		require.Equal(t, OutcomeCompleted, outcome.Kind)
		assert.Equal(t, config.DefaultWorkingDir, outcome.WorkingDirectory)
		assert.Equal(t, config.DefaultWorkingDir, outcome.Command.WorkingDirectory)
		assertSameDir(t, config.DefaultWorkingDir, strings.TrimSpace(outcome.Stdout))
	})
}

func assertSameDir(t *testing.T, want, got string) {
	t.Helper()
	wantResolved, err := filepath.EvalSymlinks(want)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestDirectExecutor_LaunchFailed(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	tests := []struct {
		name       string
		cmd        Command
		wantReason string
	}{
		{
			name:       "missing working directory",
			cmd:        Command{Line: "echo never", WorkingDirectory: filepath.Join(t.TempDir(), "missing")},
			wantReason: "no such file or directory",
		},
		{
			name:       "binary not found in argv mode",
			cmd:        Command{Line: "definitely-not-a-binary-xyz --flag", Argv: []string{"definitely-not-a-binary-xyz", "--flag"}},
			wantReason: "executable file not found",
		},
		{
			name:       "empty command",
			cmd:        Command{Line: "   "},
			wantReason: ErrEmptyCommand.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := executor.Execute(context.Background(), tt.cmd)

			assert.Equal(t, OutcomeLaunchFailed, outcome.Kind)
			assert.Contains(t, outcome.Reason, tt.wantReason)
			assert.Empty(t, outcome.Stdout)
			assert.NotEmpty(t, outcome.WorkingDirectory)
		})
	}
}

func TestDirectExecutor_ShellCouldNotStartProgram(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)
	dir := t.TempDir()
	script := filepath.Join(dir, "not-executable")
	require.NoError(t, os.WriteFile(script, []byte("echo hi\n"), 0644))

	tests := []struct {
		name       string
		line       string
		wantReason string
	}{
		{"not found", "definitely-not-a-binary-xyz --flag", "not found"},
		{"not executable", script, "ermission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := executor.Execute(context.Background(), Command{Line: tt.line})

			assert.Equal(t, OutcomeLaunchFailed, outcome.Kind)
			assert.Contains(t, outcome.Reason, tt.wantReason)
			assert.Contains(t, outcome.Reason, filepath.Base(strings.Fields(tt.line)[0]))
		})
	}
}

func TestDirectExecutor_Exit127WithOutputIsCompleted(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	outcome := executor.Execute(context.Background(), Command{Line: "echo partial; exit 127"})

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 127, outcome.ExitCode)
	assert.Equal(t, "partial\n", outcome.Stdout)
}

func TestDirectExecutor_ExitBeforeDeadlineIsCompleted(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	outcome := executor.Execute(context.Background(), Command{
		Line:      "sleep 0.2; echo bye >&2; exit 3",
		TimeoutMs: 1500,
	})

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 3, outcome.ExitCode)
	assert.Equal(t, "bye\n", outcome.Stderr)
}

func TestDirectExecutor_CallerCancellationDoesNotAbort(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome := executor.Execute(ctx, Command{Line: "sleep 0.1; echo done"})

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, "done\n", outcome.Stdout)
}

func TestDirectExecutor_OutputTruncation(t *testing.T) {
	requirePosix(t)
	config := testConfig(t)
	config.MaxOutputBytes = 10
	executor := NewDirectExecutorWithConfig(config, nil)

	outcome := executor.Execute(context.Background(), Command{Line: "printf '%050d' 0"})

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.True(t, outcome.Truncated)
	assert.Equal(t, int64(40), outcome.TruncatedBytes)
	assert.Equal(t, strings.Repeat("0", 10), outcome.Stdout)
}

func TestDirectExecutor_AllowedEnvironment(t *testing.T) {
	requirePosix(t)
	t.Setenv("VIBEMCP_TEST_VISIBLE", "seen")
	t.Setenv("VIBEMCP_TEST_HIDDEN", "secret")

	t.Run("inherits everything by default", func(t *testing.T) {
		executor := NewDirectExecutorWithConfig(testConfig(t), nil)
		outcome := executor.Execute(context.Background(), Command{Line: `echo "$VIBEMCP_TEST_VISIBLE-$VIBEMCP_TEST_HIDDEN"`})
		assert.Equal(t, "seen-secret\n", outcome.Stdout)
	})

	t.Run("restricted", func(t *testing.T) {
		config := testConfig(t)
		config.AllowedEnvironment = []string{"PATH", "VIBEMCP_TEST_VISIBLE"}
		executor := NewDirectExecutorWithConfig(config, nil)
		outcome := executor.Execute(context.Background(), Command{Line: `echo "$VIBEMCP_TEST_VISIBLE-$VIBEMCP_TEST_HIDDEN"`})
		assert.Equal(t, "seen-\n", outcome.Stdout)
	})
}

func TestDirectExecutor_CustomShell(t *testing.T) {
	requirePosix(t)
	config := testConfig(t)
	config.Shell = []string{"sh", "-e", "-c"}
	executor := NewDirectExecutorWithConfig(config, nil)

	outcome := executor.Execute(context.Background(), Command{Line: "false; echo unreachable"})

	assert.Equal(t, OutcomeCompleted, outcome.Kind)
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Empty(t, outcome.Stdout)
}

func TestDirectExecutor_ConcurrentInvocations(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	const n = 8
	results := make([]*Outcome, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = executor.Execute(context.Background(), Command{
				Line: fmt.Sprintf("sleep 0.05; echo %d", i),
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, outcome := range results {
		assert.Equal(t, OutcomeCompleted, outcome.Kind)
		assert.Equal(t, fmt.Sprintf("%d\n", i), outcome.Stdout)
	}
}

func TestDirectExecutor_AuditEvents(t *testing.T) {
	requirePosix(t)
	executor := NewDirectExecutorWithConfig(testConfig(t), nil)

	var mu sync.Mutex
	var events []AuditEvent
	executor.SetAuditCallback(func(e AuditEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	})

	executor.Execute(context.Background(), Command{Line: "true", RequestID: "r1"})
	executor.Execute(context.Background(), Command{Line: "sleep 5", TimeoutMs: 100, RequestID: "r2"})
	executor.Execute(context.Background(), Command{Line: ""})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 5)
	assert.Equal(t, AuditEventStart, events[0].Type)
	assert.Equal(t, AuditEventComplete, events[1].Type)
	assert.Equal(t, "r1", events[1].Command.RequestID)
	assert.Equal(t, AuditEventStart, events[2].Type)
	assert.Equal(t, AuditEventKilled, events[3].Type)
	assert.Equal(t, OutcomeTimedOut, events[3].Outcome.Kind)
	assert.Equal(t, AuditEventError, events[4].Type)
}

func TestDirectExecutor_DiagnosticRecord(t *testing.T) {
	requirePosix(t)
	core, logs := observer.New(zapcore.DebugLevel)
	config := testConfig(t)
	executor := NewDirectExecutorWithConfig(config, zap.New(core))

	outcome := executor.Execute(context.Background(), Command{Line: "echo payload", RequestID: "req-7", Tool: "ask"})

	require.Equal(t, "payload\n", outcome.Stdout, "diagnostics must not leak into captured output")

	started := logs.FilterMessage("Executing command").All()
	require.Len(t, started, 1)
	fields := started[0].ContextMap()
	assert.Equal(t, "echo payload", fields["command"])
	assert.Equal(t, config.DefaultWorkingDir, fields["dir"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "tactile", started[0].LoggerName)

	completed := logs.FilterMessage("Command completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, int64(0), completed[0].ContextMap()["exit_code"])
}

func TestValidate(t *testing.T) {
	executor := NewDirectExecutor(nil)

	assert.NoError(t, executor.Validate(Command{Line: "vibe-tools ask \"x\""}))
	assert.NoError(t, executor.Validate(Command{Argv: []string{"vibe-tools", "ask", "x"}}))
	assert.True(t, errors.Is(executor.Validate(Command{}), ErrEmptyCommand))
	assert.True(t, errors.Is(executor.Validate(Command{Line: "x", Argv: []string{""}}), ErrEmptyCommand))
}

func TestMerge(t *testing.T) {
	config := ExecutorConfig{DefaultWorkingDir: "/srv", DefaultTimeout: 5 * time.Minute}

	merged := config.Merge(Command{Line: "x"})
	assert.Equal(t, "/srv", merged.WorkingDirectory)
	assert.Equal(t, int64(300000), merged.TimeoutMs)

	kept := config.Merge(Command{Line: "x", WorkingDirectory: "/repo", TimeoutMs: 10})
	assert.Equal(t, "/repo", kept.WorkingDirectory)
	assert.Equal(t, int64(10), kept.TimeoutMs)
}

func TestLimitedWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := &limitedWriter{w: &buf, max: 5}

	n, err := lw.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = lw.Write([]byte("defg"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	n, err = lw.Write([]byte("hij"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "abcde", buf.String())
	assert.True(t, lw.truncated)
	assert.Equal(t, int64(5), lw.discarded)
}

func TestAuditEventToAuditLog(t *testing.T) {
	cmd := Command{Line: `vibe-tools ask "hi"`, RequestID: "r", Tool: "ask", WorkingDirectory: "/repo"}

	start := AuditEvent{Type: AuditEventStart, Command: cmd}.ToAuditLog()
	assert.Equal(t, logging.AuditExecStart, start.EventType)
	assert.True(t, start.Success)
	assert.Equal(t, "/repo", start.Fields["dir"])

	timedOut := TimedOut("", "", time.Second)
	killed := AuditEvent{Type: AuditEventKilled, Command: cmd, Outcome: timedOut}.ToAuditLog()
	assert.Equal(t, logging.AuditExecKilled, killed.EventType)
	assert.False(t, killed.Success)
	assert.Equal(t, "timeout after 1s", killed.Error)

	failed := AuditEvent{Type: AuditEventError, Command: cmd, Outcome: LaunchFailed("permission denied")}.ToAuditLog()
	assert.Equal(t, logging.AuditExecError, failed.EventType)
	assert.Equal(t, "permission denied", failed.Error)

	done := AuditEvent{Type: AuditEventComplete, Command: cmd, Outcome: Completed(2, "", "")}.ToAuditLog()
	assert.Equal(t, logging.AuditExecComplete, done.EventType)
	assert.Equal(t, 2, done.Fields["exit_code"])
}

func TestDefaultExecutorConfig(t *testing.T) {
	config := DefaultExecutorConfig()
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, config.DefaultWorkingDir)
	assert.Positive(t, config.DefaultTimeout)
	assert.Positive(t, config.MaxOutputBytes)
}
