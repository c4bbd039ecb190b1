package tools

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemcp/internal/cmdline"
	"vibemcp/internal/tactile"
)

// recordingExecutor captures commands instead of running them.
type recordingExecutor struct {
	mu       sync.Mutex
	commands []tactile.Command
	outcome  *tactile.Outcome
}

func (e *recordingExecutor) Execute(ctx context.Context, cmd tactile.Command) *tactile.Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, cmd)
	if e.outcome == nil {
		return tactile.Completed(0, "", "")
	}
	return e.outcome
}

func (e *recordingExecutor) Validate(cmd tactile.Command) error {
	return nil
}

func (e *recordingExecutor) last(t *testing.T) tactile.Command {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	require.NotEmpty(t, e.commands, "executor was never called")
	return e.commands[len(e.commands)-1]
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(&recordingExecutor{}, RunnerConfig{}, nil)
	cfg := r.Config()
	assert.Equal(t, DefaultProgram, r.Program())
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, ExitPolicyPermissive, cfg.ExitPolicy)
	assert.False(t, cfg.Shell)
}

func TestRunnerArgvMode(t *testing.T) {
	exec := &recordingExecutor{outcome: tactile.Completed(0, "answer", "")}
	r := NewRunner(exec, RunnerConfig{Timeout: time.Minute}, nil)

	spec := cmdline.New("vibe-tools", "repo").Add(
		cmdline.Positional{Raw: `say "hi"`},
		cmdline.StringFlag{Name: "provider", Value: "openai"},
	)
	ctx := WithToolName(WithRequestID(context.Background(), "req-1"), "repo")
	result := r.Run(ctx, spec, "/proj")

	assert.True(t, result.IsSuccess())
	assert.Equal(t, "stdout:\nanswer\n\nstderr:\n(No stderr)", result.Text())

	want := tactile.Command{
		Line:             `vibe-tools repo "say \"hi\"" --provider="openai"`,
		Argv:             []string{"vibe-tools", "repo", `say "hi"`, "--provider=openai"},
		WorkingDirectory: "/proj",
		TimeoutMs:        60000,
		RequestID:        "req-1",
		Tool:             "repo",
	}
	if diff := cmp.Diff(want, exec.last(t)); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
}

func TestRunnerShellMode(t *testing.T) {
	exec := &recordingExecutor{}
	r := NewRunner(exec, RunnerConfig{Shell: true}, nil)

	r.Run(context.Background(), cmdline.New("vibe-tools", "doc"), "/proj")

	cmd := exec.last(t)
	assert.True(t, cmd.UsesShell())
	assert.Equal(t, "vibe-tools doc", cmd.Line)
	assert.Equal(t, DefaultTimeout.Milliseconds(), cmd.TimeoutMs)
}

func TestRunnerRunLineAlwaysUsesShell(t *testing.T) {
	exec := &recordingExecutor{}
	r := NewRunner(exec, RunnerConfig{}, nil)

	r.RunLine(context.Background(), "vibe-tools ask \"hi\" --provider=openai", "/tmp")

	cmd := exec.last(t)
	assert.True(t, cmd.UsesShell())
	assert.Equal(t, "vibe-tools ask \"hi\" --provider=openai", cmd.Line)
	assert.Equal(t, "/tmp", cmd.WorkingDirectory)
}

func TestRunnerAppliesExitPolicy(t *testing.T) {
	exec := &recordingExecutor{outcome: tactile.Completed(1, "", "boom")}

	permissive := NewRunner(exec, RunnerConfig{}, nil)
	assert.True(t, permissive.Run(context.Background(), cmdline.New("x"), "").IsSuccess())

	strict := NewRunner(exec, RunnerConfig{ExitPolicy: ExitPolicyStrict}, nil)
	result := strict.Run(context.Background(), cmdline.New("x"), "")
	require.NotNil(t, result.Error)
	assert.Equal(t, "Execution failed: exit status 1", result.Error.Message)
}
