package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

func githubTool() *Definition {
	return &Definition{
		Name:        "github",
		Description: "Get information about GitHub Pull Requests or Issues. Retrieves either the most recent 10 items or a specific one by number.",
		Category:    tools.CategoryCode,
		Schema: tools.ToolSchema{
			Required: []string{"subcommand", argDirectory},
			Properties: map[string]tools.Property{
				"subcommand": enumProperty("Subcommand: pr or issue", "pr", "issue"),
				"number":     positiveIntProperty("Optional PR or issue number"),
				"fromGithub": stringProperty("Optional target GitHub repo (user/repo[@branch])"),
				argDirectory: directoryProperty(", especially if fromGithub is not specified or refers to the current repo"),
			},
		},
		Build: func(program string, args tools.Args) (*cmdline.Spec, error) {
			// subcommand is an enum member, so it is safe unquoted.
			spec := command(program, "github", args.String("subcommand"))
			if n, ok := args.Int("number"); ok {
				spec.Add(cmdline.Literal{Raw: cmdline.FormatNumber(float64(n))})
			}
			optString(spec, args, "fromGithub", "from-github")
			return spec, nil
		},
	}
}
