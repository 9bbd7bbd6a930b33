// Package provider maps configured provider names to concrete
// OpenAI-compatible clients with per-provider defaults.
package provider

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/ragdex/internal/config"
	"github.com/kailas-cloud/ragdex/internal/domain"
	openaitransport "github.com/kailas-cloud/ragdex/internal/transport/openai"
)

// Per-provider embedding defaults. BaseURL is empty for OpenAI itself
// (the client falls back to api.openai.com).
var embeddingDefaults = map[string]struct {
	baseURL    string
	model      string
	dimensions int
}{
	"openai":  {"", "text-embedding-ada-002", 1536},
	"mistral": {"https://api.mistral.ai/v1", "mistral-embed", 1024},
	"llama":   {"http://localhost:11434/v1", "all-minilm", 384},
}

var llmDefaults = map[string]struct {
	baseURL string
	model   string
}{
	"openai":  {"", "gpt-4o-mini"},
	"mistral": {"https://api.mistral.ai/v1", "mistral-small-latest"},
	"llama":   {"http://localhost:11434/v1", "llama3"},
}

// NewEmbedder builds the embedding provider named in cfg. The returned
// dimension is the vector width the provider produces, for index validation.
func NewEmbedder(cfg config.ProviderConfig, logger *zap.Logger) (*openaitransport.Embedder, int, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))

	defaults, ok := embeddingDefaults[name]
	if !ok {
		return nil, 0, fmt.Errorf("embedding provider %q: %w", cfg.Name, domain.ErrUnknownProvider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaults.baseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaults.model
	}
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = defaults.dimensions
	}

	emb := openaitransport.NewEmbedder(&openaitransport.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    baseURL,
		Model:      model,
		Dimensions: dimensions,
		Provider:   name,
		Timeout:    time.Duration(cfg.RequestTimeoutSec) * time.Second,
		Logger:     logger,
	})

	return emb, dimensions, nil
}

// NewGenerator builds the chat-completion provider named in cfg.
func NewGenerator(cfg config.ProviderConfig, logger *zap.Logger) (*openaitransport.Generator, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Name))

	defaults, ok := llmDefaults[name]
	if !ok {
		return nil, fmt.Errorf("llm provider %q: %w", cfg.Name, domain.ErrUnknownProvider)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaults.baseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaults.model
	}

	gen := openaitransport.NewGenerator(&openaitransport.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  baseURL,
		Model:    model,
		Provider: name,
		Timeout:  time.Duration(cfg.RequestTimeoutSec) * time.Second,
		Logger:   logger,
	})

	return gen, nil
}
