package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"Velra/internal/domain/models"
	drepo "Velra/internal/domain/repository"
	applogger "Velra/pkg/logger"

	"google.golang.org/genai"
)

// Prompt is the fixed instruction sent on every generation.
const Prompt = `ROLE: Senior Financial Analyst.
TASK: Generate a market intelligence snapshot in JSON.
SCHEMA:
{
  "briefings": {
    "global": {"title": str, "bullets": [str], "what_to_watch": [str]},
    "indonesia": {"title": str, "bullets": [str], "what_to_watch": [str]},
    "usa": {"title": str, "bullets": [str], "what_to_watch": [str]},
    "sectors": {
      "GENERAL": {"title": str, "bullets": [str]},
      "TECHNOLOGY": {"title": str, "bullets": [str]},
      "FINANCE": {"title": str, "bullets": [str]},
      "MINING": {"title": str, "bullets": [str]},
      "HEALTHCARE": {"title": str, "bullets": [str]},
      "REGULATION": {"title": str, "bullets": [str]},
      "CONSUMER": {"title": str, "bullets": [str]}
    }
  },
  "indices": {
    "INDONESIA": [{"symbol": "IHSG", "name": "IDX Composite", "value": float, "change": str, "trend": "UP/DOWN/FLAT"}],
    "USA": [{"symbol": "Nasdaq", "name": "Nasdaq 100", "value": float, "change": str, "trend": "UP/DOWN/FLAT"}],
    "ASIA": [{"symbol": "Nikkei 225", "name": "Nikkei", "value": float, "change": str, "trend": "UP/DOWN/FLAT"}],
    "EUROPE": [{"symbol": "DAX", "name": "DAX", "value": float, "change": str, "trend": "UP/DOWN/FLAT"}],
    "AMERICAS": [{"symbol": "TSX", "name": "TSX", "value": float, "change": str, "trend": "UP/DOWN/FLAT"}]
  },
  "livewire": [{"headline": str, "impact": "HIGH/MEDIUM/LOW", "summary": str}]
}
Include REAL news from the last hour.
Return ONLY the JSON object, no markdown code fences, no explanation.`

// Config holds the generation client settings.
type Config struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
	UseSearch  bool
	Timeout    time.Duration
}

// Client calls Gemini generateContent through the genai SDK.
type Client struct {
	cfg        Config
	httpClient *http.Client
	l          *applogger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithHTTPClient replaces the transport used by the SDK.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Gemini generator.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{cfg: cfg, l: applogger.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

func (c *Client) newSDKClient(ctx context.Context) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.cfg.BaseURL,
			APIVersion: c.cfg.APIVersion,
		},
	})
}

func (c *Client) generateConfig() *genai.GenerateContentConfig {
	if c.cfg.UseSearch {
		return &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		}
	}
	// The API rejects a JSON mime type combined with search grounding.
	return &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
}

// Generate issues one generateContent call and decodes the snapshot payload.
func (c *Client) Generate(ctx context.Context) (*models.Generation, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, &models.ConfigurationError{Err: models.ErrMissingCredential}
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	sdk, err := c.newSDKClient(ctx)
	if err != nil {
		return nil, &models.ConfigurationError{Err: err}
	}

	started := time.Now()
	resp, err := sdk.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(Prompt), c.generateConfig())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, models.NewGenerationError("request timed out", err)
		}
		return nil, models.NewGenerationError("request", err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, models.NewGenerationError("response", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, models.NewGenerationError("response", errors.New("empty candidate"))
	}

	gen, err := ParseGeneration(text)
	if err != nil {
		return nil, err
	}

	c.l.Debug("generation received",
		applogger.String("model", c.cfg.Model),
		applogger.Duration("latency", time.Since(started)),
		applogger.Int("livewire", len(gen.Livewire)),
	)
	return gen, nil
}

// ParseGeneration decodes the model's text output, tolerating a surrounding
// markdown code fence. Absent sections become empty.
func ParseGeneration(text string) (*models.Generation, error) {
	text = stripFences(text)

	var gen models.Generation
	if err := json.Unmarshal([]byte(text), &gen); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, models.NewGenerationError("invalid json", err)
		}
		return nil, models.NewGenerationError("schema mismatch", err)
	}
	gen.Normalize()
	return &gen, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var _ drepo.Generator = (*Client)(nil)
