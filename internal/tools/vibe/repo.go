package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func repoTool() *Definition {
	return &Definition{
		Name:        "repo",
		Description: "Ask questions about the repository using vibe-tools repo.",
		Category:    tools.CategoryResearch,
		Schema: tools.ToolSchema{
			Required: []string{"query", argDirectory},
			Properties: map[string]tools.Property{
				"query":      stringProperty("Ask AI a question."),
				"provider":   stringProperty("Optional AI provider"),
				"model":      stringProperty("Optional specific model name"),
				"maxTokens":  positiveIntProperty("Optional max tokens"),
				"fromGithub": stringProperty("Optional remote GitHub repo (user/repo[@branch])"),
				"subdir":     stringProperty("Optional subdirectory to analyze"),
				"withDoc":    withDocProperty(),
				argDirectory: directoryProperty(""),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "repo").Add(cmdline.Positional{Raw: args.String("query")})
			optString(spec, args, "provider", "provider")
			optString(spec, args, "model", "model")
			optInt(spec, args, "maxTokens", "max-tokens")
			optString(spec, args, "fromGithub", "from-github")
			optString(spec, args, "subdir", "subdir")
			withDocs(spec, args)
			return spec, nil
		},
	}
}
