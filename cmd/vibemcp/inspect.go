package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"vibemcp/internal/logging"
	"vibemcp/internal/tools"
	"vibemcp/internal/tools/vibe"
)

var describeRaw bool

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List registered tools",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		t := newTable(fmt.Sprintf("%d tools (program: %s)", a.registry.Count(), a.runner.Program()),
			"Name", "Category", "Required")
		for _, tool := range a.registry.All() {
			t.addRow(tool.Name, string(tool.Category), strings.Join(tool.Schema.Required, ", "))
		}
		fmt.Fprint(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe TOOL",
	Short: "Show a tool's description and arguments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := vibe.Lookup(args[0])
		if err != nil {
			return err
		}
		md := describeMarkdown(def)
		if describeRaw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		out, err := renderer.Render(md)
		if err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render TOOL [JSON]",
	Short: "Print the command line a tool call would run",
	Long: `Validate arguments and print the vibe-tools command line without running it.
The line is shell-quoted; in argv mode the same words are passed directly.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := vibe.Lookup(args[0])
		if err != nil {
			return err
		}
		callArgs, err := parseArgs(args[1:])
		if err != nil {
			return err
		}
		line, err := def.Render(cfg.Execution.Program, callArgs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call TOOL [JSON]",
	Short: "Run a tool locally and print its result as JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		callArgs, err := parseArgs(args[1:])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close()

		timer := logging.StartTimer(logger, "Tool call "+args[0])
		result := a.registry.Call(ctx, args[0], callArgs)
		timer.Stop()
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		if !result.IsSuccess() {
			return fmt.Errorf("%s: %s", result.Error.Type, result.Error.Message)
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&describeRaw, "raw", false, "Print markdown without terminal styling")
}

// parseArgs decodes the optional JSON object argument.
func parseArgs(args []string) (tools.Args, error) {
	out := tools.Args{}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(args[0]), &out); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return out, nil
}

func describeMarkdown(def *vibe.Definition) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", def.Name)
	fmt.Fprintf(&sb, "%s\n\n", def.Description)
	fmt.Fprintf(&sb, "Category: `%s`\n\n", def.Category)

	names := make([]string, 0, len(def.Schema.Properties))
	for name := range def.Schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	required := make(map[string]bool, len(def.Schema.Required))
	for _, name := range def.Schema.Required {
		required[name] = true
	}

	sb.WriteString("## Arguments\n\n")
	sb.WriteString("| Name | Type | Required | Description |\n")
	sb.WriteString("|------|------|----------|-------------|\n")
	for _, name := range names {
		prop := def.Schema.Properties[name]
		typ := prop.Type
		if len(prop.Enum) > 0 {
			values := make([]string, len(prop.Enum))
			for i, v := range prop.Enum {
				values[i] = fmt.Sprint(v)
			}
			typ += " (" + strings.Join(values, ", ") + ")"
		}
		req := ""
		if required[name] {
			req = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", name, typ, req, escapeCell(prop.Description))
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
