package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all eventscout configuration.
type Config struct {
	Name string `yaml:"name"`

	// Discovery engine (catalog fetch, extraction, aggregation)
	Discovery DiscoveryConfig `yaml:"discovery"`

	// Generation collaborator
	LLM LLMConfig `yaml:"llm"`

	// Stage pipeline
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// DiscoveryConfig configures the multi-source discovery run.
type DiscoveryConfig struct {
	RequestTimeout       string `yaml:"request_timeout"`   // per fetch
	DiscoveryTimeout     string `yaml:"discovery_timeout"` // whole run
	MaxConcurrentSources int    `yaml:"max_concurrent_sources"`
	MaxSources           int    `yaml:"max_sources"`
	MaxLinksPerSource    int    `yaml:"max_links_per_source"`
	MaxURLs              int    `yaml:"max_urls"`
	MaxBodyBytes         int64  `yaml:"max_body_bytes"`
	UserAgent            string `yaml:"user_agent"`
	MinHeadingLength     int    `yaml:"min_heading_length"`
	HorizonDays          int    `yaml:"horizon_days"`

	TopicKeywords []string `yaml:"topic_keywords"`
	EventKeywords []string `yaml:"event_keywords"`

	Browser BrowserConfig `yaml:"browser"`
}

// BrowserConfig configures headless rendering for JS-heavy platforms.
type BrowserConfig struct {
	Enabled     bool     `yaml:"enabled"`
	DebuggerURL string   `yaml:"debugger_url"` // connect instead of launching
	Families    []string `yaml:"families"`     // e.g. ["luma"]
}

// LLMConfig configures the generation collaborator.
type LLMConfig struct {
	Provider      string  `yaml:"provider"` // openai, gemini
	APIKey        string  `yaml:"api_key"`
	Model         string  `yaml:"model"`
	BaseURL       string  `yaml:"base_url"`
	Timeout       string  `yaml:"timeout"`
	MaxInputChars int     `yaml:"max_input_chars"`
	MaxTokens     int     `yaml:"max_tokens"`
	Temperature   float64 `yaml:"temperature"`
}

// PipelineConfig configures the content pipeline.
type PipelineConfig struct {
	IncludeSearch bool   `yaml:"include_search"`
	OutputFormat  string `yaml:"output_format"` // markdown, html, docx
	OutputPath    string `yaml:"output_path"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name: "eventscout",

		Discovery: DiscoveryConfig{
			RequestTimeout:       "15s",
			DiscoveryTimeout:     "60s",
			MaxConcurrentSources: 6,
			MaxSources:           20,
			MaxLinksPerSource:    15,
			MaxURLs:              40,
			MaxBodyBytes:         2 << 20,
			UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 eventscout/0.1",
			MinHeadingLength:     8,
			HorizonDays:          10,
			Browser: BrowserConfig{
				Enabled:  false,
				Families: []string{"luma"},
			},
		},

		LLM: LLMConfig{
			Provider:      "openai",
			Model:         "gpt-4-turbo",
			BaseURL:       "https://api.openai.com/v1",
			Timeout:       "120s",
			MaxInputChars: 60000,
			MaxTokens:     4096,
			Temperature:   0,
		},

		Pipeline: PipelineConfig{
			IncludeSearch: true,
			OutputFormat:  "markdown",
			OutputPath:    "ai_events_newsletter.md",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// Defaults if config file doesn't exist
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file. The API key is never written.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	redacted := *c
	redacted.LLM.APIKey = ""

	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// API key from environment; the provider follows the key (last wins)
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM.Provider != "openai" {
			c.LLM.BaseURL = "https://api.openai.com/v1"
		}
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if c.LLM.Provider != "gemini" {
			c.LLM.Model = "gemini-2.5-flash"
			c.LLM.BaseURL = ""
		}
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}

	if model := os.Getenv("EVENTSCOUT_MODEL"); model != "" {
		c.LLM.Model = model
	}
	if url := os.Getenv("EVENTSCOUT_BASE_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if ua := os.Getenv("EVENTSCOUT_USER_AGENT"); ua != "" {
		c.Discovery.UserAgent = ua
	}
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetRequestTimeout returns the per-fetch timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	return parseDuration(c.Discovery.RequestTimeout, 15*time.Second)
}

// GetDiscoveryTimeout returns the overall discovery deadline.
func (c *Config) GetDiscoveryTimeout() time.Duration {
	return parseDuration(c.Discovery.DiscoveryTimeout, 60*time.Second)
}

// GetLLMTimeout returns the LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 120*time.Second)
}

// ValidProviders lists all supported LLM providers.
var ValidProviders = []string{"openai", "gemini"}

// ValidOutputFormats lists the supported newsletter formats.
var ValidOutputFormats = []string{"markdown", "html", "docx"}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Validate validates the configuration. The API key is checked separately
// by RequireAPIKey because discovery alone does not need one.
func (c *Config) Validate() error {
	if !contains(ValidProviders, c.LLM.Provider) {
		return fmt.Errorf("invalid LLM provider: %s (valid: %v)", c.LLM.Provider, ValidProviders)
	}
	if !contains(ValidOutputFormats, c.Pipeline.OutputFormat) {
		return fmt.Errorf("invalid output format: %s (valid: %v)", c.Pipeline.OutputFormat, ValidOutputFormats)
	}

	d := c.Discovery
	switch {
	case d.MaxConcurrentSources <= 0:
		return fmt.Errorf("discovery.max_concurrent_sources must be positive")
	case d.MaxSources <= 0:
		return fmt.Errorf("discovery.max_sources must be positive")
	case d.MaxLinksPerSource <= 0:
		return fmt.Errorf("discovery.max_links_per_source must be positive")
	case d.MaxURLs <= 0:
		return fmt.Errorf("discovery.max_urls must be positive")
	case d.MaxBodyBytes <= 0:
		return fmt.Errorf("discovery.max_body_bytes must be positive")
	}
	if c.LLM.MaxInputChars <= 0 {
		return fmt.Errorf("llm.max_input_chars must be positive")
	}
	return nil
}

// RequireAPIKey returns an error if no generation API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set OPENAI_API_KEY or GEMINI_API_KEY)")
	}
	return nil
}
