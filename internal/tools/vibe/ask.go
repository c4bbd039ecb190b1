package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func askTool() *Definition {
	return &Definition{
		Name:        "ask",
		Description: "Ask a question directly to an AI model. Note that this command does not include repository context by default.",
		Category:    tools.CategoryResearch,
		Schema: tools.ToolSchema{
			Required: []string{"query"},
			Properties: map[string]tools.Property{
				"query":           stringProperty("The question to ask"),
				"provider":        stringProperty("Optional AI provider (e.g., openai)"),
				"model":           stringProperty("Optional specific model name"),
				"reasoningEffort": enumProperty("Optional reasoning effort", "low", "medium", "high"),
				"withDoc":         withDocProperty(),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "ask").Add(cmdline.Positional{Raw: args.String("query")})
			optString(spec, args, "provider", "provider")
			optString(spec, args, "model", "model")
			optString(spec, args, "reasoningEffort", "reasoning-effort")
			withDocs(spec, args)
			return spec, nil
		},
	}
}
