package vibe

import (
	"fmt"

	"vibemcp/internal/cmdline"
	"vibemcp/internal/tools"
)

const browserModeOpen = "open"

// browserToggles render --x / --no-x and are emitted in this order.
var browserToggles = []string{"console", "html", "network", "headless"}

func browserTool() *Definition {
	return &Definition{
		Name: "browser_automation",
		Description: "Automate browser operations for testing, data extraction, or interactions with web pages. " +
			"Supports multiple modes: 'open' (load a page), 'act' (perform actions), 'observe' (identify interactive elements), " +
			"and 'extract' (get data from a page).",
		Category: tools.CategoryBrowser,
		Schema: tools.ToolSchema{
			Required: []string{"mode", "url", argDirectory},
			Properties: map[string]tools.Property{
				"mode": enumProperty("The browser mode/subcommand to execute", "open", "act", "observe", "extract"),
				"url": stringProperty("URL to navigate to, or 'current' to use existing page, " +
					"or 'reload-current' to refresh existing page"),
				"instruction": stringProperty("Natural language instruction for 'act', 'observe', or 'extract' modes"),
				"console":     booleanProperty("Capture browser console logs (enabled by default)"),
				"html":        booleanProperty("Capture page HTML content (disabled by default)"),
				"network":     booleanProperty("Capture network activity (enabled by default)"),
				"screenshot":  stringProperty("Save a screenshot of the page to the specified file path"),
				"timeout":     positiveIntProperty("Set navigation timeout in milliseconds (default: 120000ms)"),
				"viewport":    stringProperty("Set viewport size (e.g., '1280x720')"),
				"headless":    booleanProperty("Run browser in headless mode (default: true)"),
				"no_headless": booleanProperty("Show browser UI (non-headless mode) for debugging"),
				"connect_to": stringProperty("Connect to existing Chrome instance. " +
					"Special values: 'current', 'reload-current'"),
				"wait":       stringProperty("Wait after page load (e.g., 'time:5s', 'selector:#element-id')"),
				"video":      stringProperty("Save a video recording to the specified directory"),
				"evaluate":   stringProperty("JavaScript code to execute in the browser before the main command"),
				argDirectory: directoryProperty(""),
			},
		},
		Build: buildBrowser,
	}
}

func buildBrowser(program string, args tools.Args) (*cmdline.Spec, error) {
	mode := args.String("mode")
	url := args.String("url")

	var spec *cmdline.Spec
	if mode == browserModeOpen {
		spec = command(program, "browser", "open").Add(cmdline.Positional{Raw: url})
	} else {
		instruction := args.String("instruction")
		if instruction == "" {
			return nil, &tools.RequestError{
				Type:    tools.ErrorTypeToolExecution,
				Message: fmt.Sprintf("instruction parameter is required for '%s' mode", mode),
				Text:    fmt.Sprintf("Error: instruction is required for '%s' mode", mode),
			}
		}
		// mode is an enum member, so it is safe unquoted.
		spec = command(program, "browser", mode).Add(
			cmdline.Positional{Raw: instruction},
			cmdline.StringFlag{Name: "url", Value: url},
		)
	}

	for _, name := range browserToggles {
		spec.Add(cmdline.BooleanFlag{Name: name, Value: args.Bool(name)})
	}
	if v := args.Bool("no_headless"); v != nil && *v {
		spec.Add(cmdline.BooleanFlag{Name: "headless", Value: cmdline.Bool(false)})
	}

	optString(spec, args, "screenshot", "screenshot")
	optInt(spec, args, "timeout", "timeout")
	optString(spec, args, "viewport", "viewport")
	optString(spec, args, "connect_to", "connect-to")
	optString(spec, args, "wait", "wait")
	optString(spec, args, "video", "video")
	optString(spec, args, "evaluate", "evaluate")
	return spec, nil
}
