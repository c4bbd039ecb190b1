// Package tools holds the tool registry and everything a tool handler needs:
// argument access and validation, the result envelope, the outcome adapter
// and the Runner that drives build → execute → adapt.
//
// Architecture:
//
//	tools/call → Registry.Call → Schema.Validate → Tool.Execute → Runner.Run
//	           → tactile.Executor → Adapter.Adapt → ToolResult
package tools

import (
	"context"
	"encoding/json"
)

// ToolCategory groups tools in listings.
type ToolCategory string

const (
	// CategoryResearch covers repo, ask, plan, web and youtube analysis.
	CategoryResearch ToolCategory = "/research"

	// CategoryCode covers documentation and GitHub lookups.
	CategoryCode ToolCategory = "/code"

	// CategoryBrowser covers browser automation.
	CategoryBrowser ToolCategory = "/browser"

	// CategoryGeneral is for passthrough and integration tools.
	CategoryGeneral ToolCategory = "/general"
)

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	// Items describes array element schema (required for type="array")
	Items *PropertyItems `json:"items,omitempty"`
	// Minimum applies to number and integer properties.
	Minimum *float64 `json:"minimum,omitempty"`
}

// PropertyItems describes the schema for array elements.
type PropertyItems struct {
	Type string `json:"type"`
}

// ToolSchema defines the JSON schema for tool arguments.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// JSON renders the schema as a JSON Schema object for the protocol layer.
func (s ToolSchema) JSON() (json.RawMessage, error) {
	required := s.Required
	if required == nil {
		required = []string{}
	}
	properties := s.Properties
	if properties == nil {
		properties = map[string]Property{}
	}
	return json.Marshal(struct {
		Type       string              `json:"type"`
		Required   []string            `json:"required"`
		Properties map[string]Property `json:"properties"`
	}{
		Type:       "object",
		Required:   required,
		Properties: properties,
	})
}

// ExecuteFunc is the signature for tool execution. It receives arguments that
// already passed schema validation and must always return a result.
type ExecuteFunc func(ctx context.Context, args Args) ToolResult

// Tool defines one callable tool.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description explains what the tool does.
	Description string

	// Category classifies the tool for listings.
	Category ToolCategory

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema

	// Priority orders tools inside a category (default 50).
	Priority int
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	for _, name := range t.Schema.Required {
		if _, ok := t.Schema.Properties[name]; !ok {
			return ErrRequiredNotDeclared
		}
	}
	return nil
}
