package vibe

import (
	"fmt"

	"vibemcp/internal/tools"
)

// RegisterAll registers every tool not named in disabled. It fails on an
// unknown name in disabled so typos in config do not go unnoticed.
func RegisterAll(registry *tools.Registry, runner *tools.Runner, disabled []string) error {
	skip := make(map[string]bool, len(disabled))
	for _, name := range disabled {
		skip[name] = true
	}

	for _, def := range Definitions() {
		if skip[def.Name] {
			delete(skip, def.Name)
			continue
		}
		if err := registry.Register(def.Tool(runner)); err != nil {
			return fmt.Errorf("register %s: %w", def.Name, err)
		}
	}

	for name := range skip {
		return fmt.Errorf("cannot disable %s: %w", name, tools.ErrToolNotFound)
	}
	return nil
}
