package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"eventscout/internal/logging"
)

// Registry holds the tools bound to each capability. It is thread-safe.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool

	// byCapability is the static capability → tool binding.
	byCapability map[Capability]*Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:        make(map[string]*Tool),
		byCapability: make(map[Capability]*Tool),
	}
}

// Register adds a tool and binds it to its capability. Each capability has
// at most one tool.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}
	if bound, exists := r.byCapability[tool.Capability]; exists {
		return fmt.Errorf("%w: %s is served by %s", ErrCapabilityBound, tool.Capability, bound.Name)
	}

	r.tools[tool.Name] = tool
	r.byCapability[tool.Capability] = tool

	logging.ToolsDebug("Registered tool: %s (capability=%s)", tool.Name, tool.Capability)
	return nil
}

// ForCapability returns the tool bound to c, or nil.
func (r *Registry) ForCapability(c Capability) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byCapability[c]
}

// Invoke runs the tool bound to c. An unbound capability yields
// ErrCapabilityUnavailable.
func (r *Registry) Invoke(ctx context.Context, c Capability, args map[string]any) (*ToolResult, error) {
	tool := r.ForCapability(c)
	if tool == nil {
		err := fmt.Errorf("%w: no tool bound to %s", ErrCapabilityUnavailable, c)
		return &ToolResult{Capability: c, Error: err}, err
	}
	return r.ExecuteTool(ctx, tool, args)
}

// ExecuteTool runs a specific tool with the given arguments.
func (r *Registry) ExecuteTool(ctx context.Context, tool *Tool, args map[string]any) (*ToolResult, error) {
	start := time.Now()

	// Validate required arguments
	if err := r.validateArgs(tool, args); err != nil {
		return &ToolResult{
			ToolName:   tool.Name,
			Capability: tool.Capability,
			Error:      err,
			DurationMs: time.Since(start).Milliseconds(),
		}, err
	}

	logging.ToolsDebug("Executing tool: %s", tool.Name)
	out, err := tool.Execute(ctx, args)

	duration := time.Since(start)
	logging.ToolsDebug("Tool %s completed in %v (success=%v)", tool.Name, duration, err == nil)

	return &ToolResult{
		ToolName:   tool.Name,
		Capability: tool.Capability,
		Output:     out,
		Error:      err,
		DurationMs: duration.Milliseconds(),
	}, err
}

// validateArgs checks that all required arguments are present.
func (r *Registry) validateArgs(tool *Tool, args map[string]any) error {
	for _, required := range tool.Schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingRequiredArg, required)
		}
	}
	return nil
}

// StringArg returns args[key] as a string. A missing key yields "".
func StringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidArgType, key, v)
	}
	return s, nil
}
