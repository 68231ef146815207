// Package factory builds configured text services.
package factory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mohammad-safakhou/roomfinder/config"
	"github.com/mohammad-safakhou/roomfinder/provider"
	gemini_provider "github.com/mohammad-safakhou/roomfinder/provider/gemini"
	openai_provider "github.com/mohammad-safakhou/roomfinder/provider/openai"
)

// New creates a provider for cfg. The result enforces cfg.Timeout per call.
func New(ctx context.Context, cfg config.LLMProvider, logger *zap.Logger) (provider.Provider, error) {
	client, err := provider.ParseClient(cfg.Type)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("provider", string(client)), zap.String("model", cfg.Model))

	var p provider.Provider
	switch client {
	case provider.OpenAI:
		p = openai_provider.NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout, logger)
	case provider.Gemini:
		g, err := gemini_provider.NewClient(ctx, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.Timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		p = g
	}
	return provider.Timeout(p, cfg.Timeout), nil
}

// Set holds one provider per task, sharing a concurrency limit.
type Set struct {
	Ranking    provider.Provider
	Enrichment provider.Provider
}

// NewSet builds the routed providers from cfg. Providers referenced by more
// than one task are built once.
func NewSet(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*Set, error) {
	built := make(map[string]provider.Provider)
	get := func(name string) (provider.Provider, error) {
		if p, ok := built[name]; ok {
			return p, nil
		}
		pc, ok := cfg.Providers[name]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		p, err := New(ctx, pc, logger)
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", name, err)
		}
		p = provider.Limit(p, int64(cfg.MaxConcurrency))
		built[name] = p
		return p, nil
	}

	ranking, err := get(cfg.Routing.Ranking)
	if err != nil {
		return nil, err
	}
	enrichment, err := get(cfg.Routing.Enrichment)
	if err != nil {
		return nil, err
	}
	return &Set{Ranking: ranking, Enrichment: enrichment}, nil
}
