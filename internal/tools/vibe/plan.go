package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func planTool() *Definition {
	return &Definition{
		Name:        "plan",
		Description: "Generate an implementation plan using vibe-tools plan.",
		Category:    tools.CategoryResearch,
		Schema: tools.ToolSchema{
			Required: []string{"query", argDirectory},
			Properties: map[string]tools.Property{
				"query":            stringProperty("The query for the implementation plan"),
				"fileProvider":     stringProperty("Optional provider for file identification"),
				"thinkingProvider": stringProperty("Optional provider for plan generation"),
				"fileModel":        stringProperty("Optional model for file identification"),
				"thinkingModel":    stringProperty("Optional model for plan generation"),
				"withDoc":          withDocProperty(),
				argDirectory:       directoryProperty(""),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			spec := command(program, "plan").Add(cmdline.Positional{Raw: args.String("query")})
			// The plan subcommand takes camelCase flag names.
			for _, name := range []string{"fileProvider", "thinkingProvider", "fileModel", "thinkingModel"} {
				optString(spec, args, name, name)
			}
			withDocs(spec, args)
			return spec, nil
		},
	}
}
