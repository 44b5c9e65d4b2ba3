// Package tools provides the capability registry stages use to reach
// external collaborators.
//
// A pipeline stage declares the capability it needs (search, document
// read, generate). The Registry resolves the capability to the one tool
// bound to it and executes it:
//
//	Stage.RequiredCapability → Registry.ForCapability() → Tool.Execute()
package tools

import (
	"context"
	"fmt"
)

// Capability identifies an operation a stage may require.
type Capability string

const (
	// CapabilityNone means the stage needs only generation.
	CapabilityNone Capability = ""

	// CapabilitySearch runs multi-source event discovery.
	CapabilitySearch Capability = "search"

	// CapabilityDocumentRead returns the supplied document's text.
	CapabilityDocumentRead Capability = "document_read"

	// CapabilityGenerate calls the language model.
	CapabilityGenerate Capability = "generate"
)

// AllCapabilities lists the bindable capabilities.
var AllCapabilities = []Capability{CapabilitySearch, CapabilityDocumentRead, CapabilityGenerate}

func (c Capability) String() string {
	if c == CapabilityNone {
		return "none"
	}
	return string(c)
}

// ParseCapability maps a name onto a capability.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "", "none":
		return CapabilityNone, nil
	case "search":
		return CapabilitySearch, nil
	case "document_read", "document":
		return CapabilityDocumentRead, nil
	case "generate":
		return CapabilityGenerate, nil
	}
	return CapabilityNone, fmt.Errorf("unknown capability %q", s)
}

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// ToolSchema defines the JSON schema for tool arguments.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// Output is what a tool returns: text for the stage input and, for search,
// the signup URLs later stages may cite.
type Output struct {
	Text       string
	References []string
}

// ExecuteFunc is the signature for tool execution.
type ExecuteFunc func(ctx context.Context, args map[string]any) (Output, error)

// Tool is a named implementation of one capability.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description explains what the tool does.
	Description string

	// Capability is the capability this tool serves.
	Capability Capability

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	if t.Capability == CapabilityNone {
		return ErrToolCapabilityNone
	}
	return nil
}

// ToolResult wraps the result of tool execution with metadata.
type ToolResult struct {
	// ToolName identifies which tool was executed.
	ToolName string

	// Capability is the capability that was invoked.
	Capability Capability

	// Output is the tool's output.
	Output Output

	// Error is set if the tool failed.
	Error error

	// DurationMs is how long execution took.
	DurationMs int64
}

// IsSuccess returns true if the tool executed without error.
func (r *ToolResult) IsSuccess() bool {
	return r.Error == nil
}
