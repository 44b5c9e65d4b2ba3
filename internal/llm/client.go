// Package llm provides the generation collaborator used by every pipeline
// stage.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventscout/internal/config"
)

// Client generates text from a system prompt and a user prompt.
type Client interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Name() string
}

var (
	// ErrNotConfigured is returned when the provider has no API key.
	ErrNotConfigured = errors.New("llm: API key not configured")

	// ErrEmptyResponse is returned when the provider returns no text.
	ErrEmptyResponse = errors.New("llm: no completion returned")

	// ErrUnknownProvider is returned by NewClient for unsupported providers.
	ErrUnknownProvider = errors.New("llm: unknown provider")
)

// Options configures a provider client.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// OptionsFromConfig maps the llm config section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Timeout:     cfg.GetLLMTimeout(),
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}
}

// NewClient creates the client for cfg.LLM.Provider.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	opts := OptionsFromConfig(cfg)
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai", "":
		return NewOpenAIClient(opts)
	case "gemini":
		return NewGeminiClient(ctx, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.LLM.Provider)
	}
}

const truncationMarker = "\n\n[...truncated...]"

// Truncate bounds s to maxChars runes, marking the cut.
func Truncate(s string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s, false
	}
	return string(runes[:maxChars]) + truncationMarker, true
}
