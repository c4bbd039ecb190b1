package vibe

import (
	"strings"

	"vibemcp/internal/tools"
)

const invalidCommand = "Command must be a valid vibe-tools command."

func commandTool() *Definition {
	return &Definition{
		Name:        "command",
		Description: "Executes a vibe-tools command in a specified directory. Accepts the full 'vibe-tools <command>' or just '<command>'.",
		Category:    tools.CategoryGeneral,
		Schema: tools.ToolSchema{
			Required: []string{"command", argDirectory},
			Properties: map[string]tools.Property{
				"command": stringProperty("The vibe-tools command string to execute " +
					`(e.g., 'repo "explain this"' or 'vibe-tools repo "explain this"')`),
				argDirectory: directoryProperty(""),
			},
		},
		BuildLine: func(program string, args tools.Args) (string, error) {
			return NormalizeCommand(program, args.String("command"))
		},
	}
}

// NormalizeCommand trims raw and prefixes program when it is missing. An
// empty command, or one that names only the program, is rejected.
func NormalizeCommand(program, raw string) (string, error) {
	line := strings.TrimSpace(raw)
	if line == "" || line == program {
		return "", &tools.RequestError{
			Type:    tools.ErrorTypeInvalidRequest,
			Message: invalidCommand,
			Text:    "Error: " + invalidCommand,
		}
	}
	if !strings.HasPrefix(line, program+" ") {
		line = program + " " + line
	}
	return line, nil
}
