package events

import (
	"context"
	"fmt"

	"eventscout/internal/llm"
	"eventscout/internal/logging"
	"eventscout/internal/tools"
)

// Generator produces text from a system and user prompt.
type Generator interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerateTool returns the generation tool. Input longer than maxInputChars
// is truncated before it reaches the model.
func GenerateTool(g Generator, maxInputChars int) *tools.Tool {
	return &tools.Tool{
		Name:        "generate",
		Description: "Generate text with the configured language model",
		Capability:  tools.CapabilityGenerate,
		Execute: func(ctx context.Context, args map[string]any) (tools.Output, error) {
			if g == nil {
				return tools.Output{}, fmt.Errorf("%w: no language model configured", tools.ErrCapabilityUnavailable)
			}
			system, err := tools.StringArg(args, "system")
			if err != nil {
				return tools.Output{}, err
			}
			input, err := tools.StringArg(args, "input")
			if err != nil {
				return tools.Output{}, err
			}
			if bounded, cut := llm.Truncate(input, maxInputChars); cut {
				logging.Get(logging.CategoryTools).Warn("generate input truncated from %d to %d chars", len([]rune(input)), maxInputChars)
				input = bounded
			}

			text, err := g.CompleteWithSystem(ctx, system, input)
			if err != nil {
				return tools.Output{}, fmt.Errorf("%w: generate: %w", tools.ErrCapabilityUnavailable, err)
			}
			return tools.Output{Text: text}, nil
		},
		Schema: tools.ToolSchema{
			Required: []string{"input"},
			Properties: map[string]tools.Property{
				"system": {Type: "string", Description: "Role instructions"},
				"input":  {Type: "string", Description: "Stage input"},
			},
		},
	}
}
