package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vibemcp/internal/config"
	"vibemcp/internal/tools"
	"vibemcp/internal/tools/vibe"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	configPath = ""
	verbose = false
	workspace = ""
	describeRaw = false
	t.Setenv("VIBEMCP_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vibemcp.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, "render", "github", `{"subcommand":"pr","number":42,"directory":"/repo"}`)
	if err != nil {
		t.Fatalf("render returned error: %v", err)
	}
	if out != "vibe-tools github pr 42\n" {
		t.Fatalf("unexpected line: %q", out)
	}
}

func TestRenderRejectsInvalidArguments(t *testing.T) {
	if _, err := execute(t, "render", "github", `{"subcommand":"release","directory":"/repo"}`); err == nil {
		t.Fatal("expected enum violation")
	}
	if _, err := execute(t, "render", "nope"); err == nil {
		t.Fatal("expected unknown tool error")
	}
	if _, err := execute(t, "render", "ask", `["not","an","object"]`); err == nil {
		t.Fatal("expected JSON object error")
	}
}

func TestToolsListing(t *testing.T) {
	out, err := execute(t, "tools")
	if err != nil {
		t.Fatalf("tools returned error: %v", err)
	}
	for _, def := range vibe.Definitions() {
		if !strings.Contains(out, def.Name) {
			t.Errorf("listing is missing %s:\n%s", def.Name, out)
		}
	}
}

func TestToolsListingHonoursDisabled(t *testing.T) {
	path := writeConfig(t, "tools:\n  disabled: [browser_automation]\n")

	out, err := execute(t, "tools", "--config", path)
	if err != nil {
		t.Fatalf("tools returned error: %v", err)
	}
	if strings.Contains(out, "browser_automation") {
		t.Fatalf("disabled tool listed:\n%s", out)
	}
	if !strings.Contains(out, "web_search") {
		t.Fatalf("enabled tool missing:\n%s", out)
	}
}

func TestDescribeRaw(t *testing.T) {
	out, err := execute(t, "describe", "github", "--raw")
	if err != nil {
		t.Fatalf("describe returned error: %v", err)
	}
	for _, want := range []string{"# github", "| `subcommand` | string (pr, issue) | yes |", "| `number` | integer |"} {
		if !strings.Contains(out, want) {
			t.Errorf("description missing %q:\n%s", want, out)
		}
	}
}

func TestDescribeStyled(t *testing.T) {
	out, err := execute(t, "describe", "web_search")
	if err != nil {
		t.Fatalf("describe returned error: %v", err)
	}
	if !strings.Contains(out, "web_search") || !strings.Contains(out, "search_term") {
		t.Fatalf("unexpected rendering:\n%s", out)
	}
}

func TestCallRunsProgram(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses echo")
	}
	dir := t.TempDir()
	path := writeConfig(t, "execution:\n  program: echo\n  working_directory: "+dir+"\n")

	out, err := execute(t, "call", "ask", `{"query":"What is 2+2?"}`, "--config", path)
	if err != nil {
		t.Fatalf("call returned error: %v\n%s", err, out)
	}

	var result tools.ToolResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out)
	}
	if !result.IsSuccess() {
		t.Fatalf("call failed: %+v", result.Error)
	}
	if !strings.Contains(result.Text(), "ask What is 2+2?") {
		t.Fatalf("unexpected output: %q", result.Text())
	}
}

func TestCallReportsToolError(t *testing.T) {
	out, err := execute(t, "call", "browser_automation", `{"mode":"act","url":"https://example.com","directory":"/repo"}`)
	if err == nil {
		t.Fatal("expected error for missing instruction")
	}
	if !strings.Contains(out, `"type": "tool_execution_error"`) {
		t.Fatalf("result not printed:\n%s", out)
	}
}

func TestInvalidConfigFailsFast(t *testing.T) {
	path := writeConfig(t, "execution:\n  exit_policy: sometimes\n")
	if _, err := execute(t, "tools", "--config", path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestServeUntilEOF(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	out, err := executeWithInput(t, input, "serve")
	if err != nil {
		t.Fatalf("serve returned error: %v", err)
	}

	var listed struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 responses, got %d:\n%s", len(lines), out)
	}
	if err := json.Unmarshal([]byte(lines[1]), &listed); err != nil {
		t.Fatalf("bad tools/list response: %v\n%s", err, lines[1])
	}
	if len(listed.Result.Tools) != len(vibe.Definitions()) {
		t.Fatalf("listed %d tools, want %d", len(listed.Result.Tools), len(vibe.Definitions()))
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version returned error: %v", err)
	}
	if !strings.Contains(out, "vibemcp dev") || !strings.Contains(out, "vibe-tools-mcp-server") {
		t.Fatalf("unexpected version output: %q", out)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{"none", nil, 0, false},
		{"blank", []string{"  "}, 0, false},
		{"object", []string{`{"query":"q","maxTokens":5}`}, 2, false},
		{"array", []string{`[1]`}, 0, true},
		{"garbage", []string{`{`}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseArgs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.want {
				t.Fatalf("parseArgs() = %v, want %d keys", got, tt.want)
			}
		})
	}
}

func TestApplyReloadChangesLevel(t *testing.T) {
	logger = zap.NewNop()
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	verbose = false

	next := config.DefaultConfig()
	next.Logging.Level = "debug"
	applyReload(next)
	if logLevel.Level() != zapcore.DebugLevel {
		t.Fatalf("level = %s, want debug", logLevel.Level())
	}

	next.Logging.Level = "loud"
	applyReload(next)
	if logLevel.Level() != zapcore.DebugLevel {
		t.Fatalf("invalid level changed logger to %s", logLevel.Level())
	}
}

func TestApplyReloadKeepsVerbose(t *testing.T) {
	logger = zap.NewNop()
	logLevel = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	verbose = true
	defer func() { verbose = false }()

	next := config.DefaultConfig()
	next.Logging.Level = "error"
	applyReload(next)
	if logLevel.Level() != zapcore.DebugLevel {
		t.Fatalf("--verbose should pin debug, got %s", logLevel.Level())
	}
}
