package vibe

import (
	"context"
	"fmt"
	"strings"

	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

// Definition describes one tool independently of how it is executed.
type Definition struct {
	Name        string
	Description string
	Category    tools.ToolCategory
	Schema      tools.ToolSchema

	// Build renders a structured command. A *tools.RequestError rejects the
	// call before anything is spawned.
	Build func(program string, args tools.Args) (*cmdline.Spec, error)

	// BuildLine renders a raw shell line instead of a Spec. Set only for
	// passthrough tools; such commands always run through the shell.
	BuildLine func(program string, args tools.Args) (string, error)
}

// Render returns the command line a call with args would run.
func (d *Definition) Render(program string, args tools.Args) (string, error) {
	if err := d.Schema.Validate(args); err != nil {
		return "", err
	}
	if d.BuildLine != nil {
		return d.BuildLine(program, args)
	}
	spec, err := d.Build(program, args)
	if err != nil {
		return "", err
	}
	return spec.Line(), nil
}

// Tool wraps the definition into a registry tool executed by runner.
func (d *Definition) Tool(runner *tools.Runner) *tools.Tool {
	return &tools.Tool{
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Schema:      d.Schema,
		Execute: func(ctx context.Context, args tools.Args) tools.ToolResult {
			dir := args.String(argDirectory)
			if d.BuildLine != nil {
				line, err := d.BuildLine(runner.Program(), args)
				if err != nil {
					return tools.ResultFromError(err)
				}
				return runner.RunLine(ctx, line, dir)
			}
			spec, err := d.Build(runner.Program(), args)
			if err != nil {
				return tools.ResultFromError(err)
			}
			return runner.Run(ctx, spec, dir)
		},
	}
}

// command starts a spec for a vibe-tools subcommand. program may carry its
// own arguments ("npx vibe-tools").
func command(program string, sub ...string) *cmdline.Spec {
	return cmdline.New(append(strings.Fields(program), sub...)...)
}

// Definitions returns the full roster in registration order.
func Definitions() []*Definition {
	return []*Definition{
		repoTool(),
		commandTool(),
		askTool(),
		planTool(),
		docTool(),
		githubTool(),
		webSearchTool(),
		youtubeTool(),
		browserTool(),
		mcpTool(),
	}
}

// Lookup returns the definition named name.
func Lookup(name string) (*Definition, error) {
	for _, d := range Definitions() {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", tools.ErrToolNotFound, name)
}
