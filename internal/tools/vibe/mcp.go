package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func mcpTool() *Definition {
	return &Definition{
		Name: "mcp",
		Description: "Interact with MCP servers through vibe-tools. Use 'search' to find available MCP servers " +
			"or 'run' to execute MCP server tools using natural language queries.",
		Category: tools.CategoryGeneral,
		Schema: tools.ToolSchema{
			Required: []string{"subcommand", "query", argDirectory},
			Properties: map[string]tools.Property{
				"subcommand": enumProperty("The MCP subcommand to execute: 'run' or 'search'", "run", "search"),
				"query":      stringProperty("The MCP query to execute."),
				"provider":   stringProperty("Optional AI provider (anthropic or openrouter)"),
				argDirectory: directoryProperty(""),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "mcp", args.String("subcommand")).
				Add(cmdline.Positional{Raw: args.String("query")})
			optString(spec, args, "provider", "provider")
			return spec, nil
		},
	}
}
