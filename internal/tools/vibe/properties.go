package vibe

import (
	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

const argDirectory = "directory"

const directoryDescription = "Mandatory. The absolute path to the local directory you are currently working in. " +
	"This is required to ensure the command runs in the correct project context"

// directoryProperty describes the working directory argument. qualifier, if
// set, continues the last sentence.
func directoryProperty(qualifier string) tools.Property {
	return tools.Property{Type: "string", Description: directoryDescription + qualifier + "."}
}

func stringProperty(description string) tools.Property {
	return tools.Property{Type: "string", Description: description}
}

func booleanProperty(description string) tools.Property {
	return tools.Property{Type: "boolean", Description: description}
}

func positiveIntProperty(description string) tools.Property {
	one := 1.0
	return tools.Property{Type: "integer", Description: description, Minimum: &one}
}

func enumProperty(description string, values ...string) tools.Property {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return tools.Property{Type: "string", Description: description, Enum: enum}
}

func withDocProperty() tools.Property {
	return tools.Property{
		Type:        "array",
		Description: "Optional array of document URLs to include as context",
		Items:       &tools.PropertyItems{Type: "string"},
	}
}

// optString adds --flag="value" when the argument is a non-empty string.
func optString(spec *cmdline.Spec, args tools.Args, key, flag string) {
	v := args.String(key)
	spec.AddIf(v != "", cmdline.StringFlag{Name: flag, Value: v})
}

// optInt adds --flag=N when the argument is a positive integer.
func optInt(spec *cmdline.Spec, args tools.Args, key, flag string) {
	n, ok := args.Int(key)
	spec.AddIf(ok && n > 0, cmdline.NumericFlag{Name: flag, Value: float64(n)})
}

// withDocs adds one --with-doc per element.
func withDocs(spec *cmdline.Spec, args tools.Args) {
	docs := args.Strings("withDoc")
	spec.AddIf(len(docs) > 0, cmdline.RepeatedFlag{Name: "with-doc", Values: docs})
}
