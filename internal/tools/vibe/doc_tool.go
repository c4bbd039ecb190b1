package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func docTool() *Definition {
	return &Definition{
		Name:        "doc",
		Description: "Generate documentation for the repository using vibe-tools doc.",
		Category:    tools.CategoryCode,
		Schema: tools.ToolSchema{
			Required: []string{argDirectory},
			Properties: map[string]tools.Property{
				"output":     stringProperty("Optional output file path"),
				"provider":   stringProperty("Optional AI provider"),
				"model":      stringProperty("Optional specific model name"),
				"maxTokens":  positiveIntProperty("Optional max tokens for response"),
				"fromGithub": stringProperty("Optional remote GitHub repo (user/repo[@branch])"),
				"withDoc":    withDocProperty(),
				argDirectory: directoryProperty(", especially if not using fromGithub"),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "doc")
			optString(spec, args, "output", "output")
			optString(spec, args, "provider", "provider")
			optString(spec, args, "model", "model")
			optInt(spec, args, "maxTokens", "max-tokens")
			optString(spec, args, "fromGithub", "from-github")
			withDocs(spec, args)
			return spec, nil
		},
	}
}
