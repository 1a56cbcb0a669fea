// Package config holds docsplit configuration: LLM provider settings and the
// tuning knobs of the splitting pipeline. Configuration is loaded from a YAML
// file with environment variable overrides for API keys.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all docsplit configuration.
type Config struct {
	// LLM provider configuration
	LLM LLMConfig `yaml:"llm"`

	// Splitting pipeline tuning
	Splitter SplitterConfig `yaml:"splitter"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the LLM provider used for boundary judgments.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// SplitterConfig configures the splitting pipeline.
type SplitterConfig struct {
	// Maximum per-section split calls in flight at once.
	MaxParallelSplits int `yaml:"max_parallel_splits"`

	// Maximum rounds of the iterative split loop.
	MaxSplitRounds int `yaml:"max_split_rounds"`

	// Maximum attempts of the two-phase boundary protocol, and of the
	// LLM-guided combine loop.
	MaxRetries int `yaml:"max_retries"`

	// Salvage context window: how many characters around a marker to
	// inspect, and how many words before/after the marker to match
	// against the original document.
	ContextWindowChars int `yaml:"context_window_chars"`
	ContextWordsBefore int `yaml:"context_words_before"`
	ContextWordsAfter  int `yaml:"context_words_after"`

	// Sections shorter than this are never sent for splitting.
	MinSectionSize int `yaml:"min_section_size"`

	// Timeouts. Discovery and selection calls carry the whole document,
	// so they get more time than a per-section split call.
	DiscoveryTimeout string `yaml:"discovery_timeout"`
	SplitTimeout     string `yaml:"split_timeout"`

	// StructuredMode switches from the two-phase free-text protocol to
	// the single-pass structured grouping protocol.
	StructuredMode bool `yaml:"structured_mode"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-3-flash-preview",
			BaseURL:  "https://generativelanguage.googleapis.com/v1beta",
			Timeout:  "120s",
		},
		Splitter: DefaultSplitterConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultSplitterConfig returns the default pipeline tuning.
func DefaultSplitterConfig() SplitterConfig {
	return SplitterConfig{
		MaxParallelSplits:  5,
		MaxSplitRounds:     10,
		MaxRetries:         3,
		ContextWindowChars: 200,
		ContextWordsBefore: 5,
		ContextWordsAfter:  5,
		MinSectionSize:     100,
		DiscoveryTimeout:   "120s",
		SplitTimeout:       "45s",
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
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
	// API key from environment (check in priority order)
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if provider := os.Getenv("DOCSPLIT_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}
	if model := os.Getenv("DOCSPLIT_MODEL"); model != "" {
		c.LLM.Model = model
	}
}

// Normalize fills zero-valued tuning fields with their defaults so a
// partially specified SplitterConfig is always usable.
func (c SplitterConfig) Normalize() SplitterConfig {
	def := DefaultSplitterConfig()
	if c.MaxParallelSplits <= 0 {
		c.MaxParallelSplits = def.MaxParallelSplits
	}
	if c.MaxSplitRounds <= 0 {
		c.MaxSplitRounds = def.MaxSplitRounds
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.ContextWindowChars <= 0 {
		c.ContextWindowChars = def.ContextWindowChars
	}
	if c.ContextWordsBefore <= 0 {
		c.ContextWordsBefore = def.ContextWordsBefore
	}
	if c.ContextWordsAfter <= 0 {
		c.ContextWordsAfter = def.ContextWordsAfter
	}
	if c.MinSectionSize <= 0 {
		c.MinSectionSize = def.MinSectionSize
	}
	if c.DiscoveryTimeout == "" {
		c.DiscoveryTimeout = def.DiscoveryTimeout
	}
	if c.SplitTimeout == "" {
		c.SplitTimeout = def.SplitTimeout
	}
	return c
}

// GetDiscoveryTimeout parses the discovery timeout, falling back to the
// default on a bad duration string.
func (c SplitterConfig) GetDiscoveryTimeout() time.Duration {
	return parseTimeout(c.DiscoveryTimeout, 120*time.Second)
}

// GetSplitTimeout parses the per-split-call timeout.
func (c SplitterConfig) GetSplitTimeout() time.Duration {
	return parseTimeout(c.SplitTimeout, 45*time.Second)
}

// GetTimeout parses the LLM transport timeout.
func (c LLMConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 120*time.Second)
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
