package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	GeminiName    = "gemini"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	GeminiModel   = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini oracle client.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	RateLimit  int // Requests per minute
	MaxRetries int
	Timeout    time.Duration
}

// GeminiOracle implements StructuredOracle against Gemini's
// OpenAI-compatible endpoint.
type GeminiOracle struct {
	client      openai.Client
	model       string
	maxRetries  int
	rateLimiter *RateLimiter
}

// NewGeminiOracle creates a new Gemini oracle client.
// A missing API key is a configuration error and fails immediately.
func NewGeminiOracle(cfg GeminiConfig) (*GeminiOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = GeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = GeminiModel
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 60
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithRequestTimeout(cfg.Timeout),
	)

	return &GeminiOracle{
		client:      client,
		model:       cfg.Model,
		maxRetries:  cfg.MaxRetries,
		rateLimiter: NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Name returns the oracle identifier.
func (g *GeminiOracle) Name() string {
	return GeminiName
}

// RateLimiterStatus returns the current rate limiter status.
func (g *GeminiOracle) RateLimiterStatus() RateLimiterStatus {
	return g.rateLimiter.Status()
}

// Extract sends a prompt and returns the oracle's JSON response.
// Transient failures are retried with backoff; the response is parsed
// (with code-fence recovery) and validated against the request schema
// before being returned.
func (g *GeminiOracle) Extract(ctx context.Context, req *ExtractRequest) (*ExtractResult, error) {
	if err := g.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt),
		},
		// Low temperature for factual extraction.
		Temperature: openai.Float(0.1),
	}

	var completion *openai.ChatCompletion
	err := retry.Do(
		func() error {
			var callErr error
			completion, callErr = g.client.Chat.Completions.New(ctx, params)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(uint(g.maxRetries)),
		retry.Delay(2*time.Second),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("oracle call failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("oracle returned no choices")
	}
	raw := completion.Choices[0].Message.Content

	result := &ExtractResult{
		Raw:              raw,
		PromptTokens:     int(completion.Usage.PromptTokens),
		CompletionTokens: int(completion.Usage.CompletionTokens),
	}

	parsed, err := ParseStructuredJSON(raw)
	if err != nil {
		return result, fmt.Errorf("oracle response is not JSON: %w", err)
	}
	if err := ValidateStructuredJSON(req.Schema, parsed); err != nil {
		return result, err
	}

	result.JSON = parsed
	return result, nil
}
