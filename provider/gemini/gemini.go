package gemini

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/mohammad-safakhou/roomfinder/provider"
)

const defaultModel = "gemini-2.0-flash"

// Client implements provider.Provider on top of the Gemini API.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	logger      *zap.Logger
}

// NewClient creates a Gemini client. baseURL is optional and mostly useful for proxies.
func NewClient(ctx context.Context, apiKey, baseURL, model string, temperature float64, maxTokens int, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{
		client:      c,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   int32(maxTokens),
		logger:      logger,
	}, nil
}

// Complete maps system messages onto the system instruction and everything
// else onto user contents.
func (c *Client) Complete(ctx context.Context, req provider.Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(c.temperature),
		MaxOutputTokens: c.maxTokens,
	}
	var contents []*genai.Content
	for _, m := range req.Messages {
		parts := toParts(m.Parts)
		if len(parts) == 0 {
			continue
		}
		if m.Role == provider.RoleSystem {
			if cfg.SystemInstruction == nil {
				cfg.SystemInstruction = &genai.Content{Role: genai.RoleUser}
			}
			cfg.SystemInstruction.Parts = append(cfg.SystemInstruction.Parts, parts...)
			continue
		}
		contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
	}

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %w", provider.ErrUnavailable, err)
	}
	c.logger.Debug("gemini response", zap.String("model", c.model), zap.Duration("elapsed", time.Since(start)))

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", provider.ErrEmptyReply
	}
	return text, nil
}

func toParts(in []provider.Part) []*genai.Part {
	out := make([]*genai.Part, 0, len(in))
	for _, p := range in {
		if p.ImageURL != "" {
			out = append(out, genai.NewPartFromURI(p.ImageURL, imageMIME(p.ImageURL)))
			continue
		}
		if p.Text != "" {
			out = append(out, genai.NewPartFromText(p.Text))
		}
	}
	return out
}

func imageMIME(url string) string {
	u := url
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(u))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
