package factory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammad-safakhou/roomfinder/config"
	"github.com/mohammad-safakhou/roomfinder/provider"
)

func TestNewOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	p, err := New(context.Background(), config.LLMProvider{Type: "openai", APIKey: "k", BaseURL: srv.URL, Timeout: time.Second}, nil)
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), provider.Request{Messages: []provider.Message{provider.Text(provider.RoleUser, "hi")}})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(context.Background(), config.LLMProvider{Type: "claude", APIKey: "k"}, nil)
	assert.Error(t, err)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := New(context.Background(), config.LLMProvider{Type: "gemini"}, nil)
	assert.Error(t, err)
}

func TestNewSetSharesProvider(t *testing.T) {
	cfg := config.LLMConfig{
		Providers: map[string]config.LLMProvider{
			"openai": {Type: "openai", APIKey: "k", Timeout: time.Second},
		},
		Routing:        config.LLMRoutingConfig{Ranking: "openai", Enrichment: "openai"},
		MaxConcurrency: 2,
	}
	set, err := NewSet(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, set.Ranking)
	assert.NotNil(t, set.Enrichment)

	cfg.Routing.Enrichment = "missing"
	_, err = NewSet(context.Background(), cfg, nil)
	assert.Error(t, err)
}
