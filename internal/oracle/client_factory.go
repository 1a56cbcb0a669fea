// Package oracle provides the LLM transport clients the splitting pipeline
// consults for semantic boundary judgments. Clients are plain HTTP adapters;
// all response validation happens in the split package.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docsplit/internal/config"
)

// Client is the provider-independent completion interface.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error)
}

// Provider identifies an LLM provider.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// NewClient builds a client for the configured provider.
func NewClient(cfg config.LLMConfig, logger *zap.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	switch Provider(strings.ToLower(cfg.Provider)) {
	case ProviderGemini, "":
		gc := DefaultGeminiConfig(cfg.APIKey)
		if cfg.Model != "" {
			gc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			gc.BaseURL = cfg.BaseURL
		}
		gc.Timeout = cfg.GetTimeout()
		return NewGeminiClientWithConfig(gc, logger), nil

	case ProviderOpenAI:
		oc := DefaultOpenAIConfig(cfg.APIKey)
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		oc.Timeout = cfg.GetTimeout()
		return NewOpenAIClientWithConfig(oc, logger), nil

	default:
		return nil, fmt.Errorf("unknown provider: %q", cfg.Provider)
	}
}
