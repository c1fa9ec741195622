package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/redpost/internal/config"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/phrazzld/redpost/internal/redact"
	"google.golang.org/genai"
)

// ContentGenerator is the part of the genai models service this package
// calls. *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Option customises a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	models     ContentGenerator
}

// WithHTTPClient sets the HTTP client used for every model call.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithContentGenerator replaces the genai models service, typically with a
// fake in tests. The API key is then not required.
func WithContentGenerator(g ContentGenerator) Option {
	return func(o *clientOptions) { o.models = g }
}

// Client is the shared connection to the Gemini API used by the generators
// in this package.
type Client struct {
	// models is nil when no API key is configured.
	models ContentGenerator
	cfg    config.LLMConfig
	logger *slog.Logger
}

// NewClient creates a Client from cfg.
//
// A missing API key is not an error here: the client is created in a
// not-ready state and every call fails with generation.ErrAuthMissing, so
// the process can start and report the problem per request.
//
// Parameters:
//   - ctx: Context for the client construction
//   - cfg: LLM configuration containing API key, model names, base URL and timeout
//   - logger: A structured logger for operation logging
//   - opts: Optional HTTP client or models service overrides
//
// Returns:
//   - A properly initialized Client or an error if initialization fails
func NewClient(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.TextModel == "" || cfg.ImageModel == "" {
		return nil, fmt.Errorf("%w: model names cannot be empty", ErrInvalidConfig)
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.With("component", "gemini_client"),
	}

	switch {
	case o.models != nil:
		c.models = o.models
	case strings.TrimSpace(cfg.GeminiAPIKey) == "":
		c.logger.WarnContext(ctx, "no gemini api key configured, generation requests will be rejected")
	default:
		clientConfig := &genai.ClientConfig{
			APIKey:      cfg.GeminiAPIKey,
			Backend:     genai.BackendGeminiAPI,
			HTTPClient:  o.httpClient,
			HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
		}
		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
				ErrInvalidConfig, redact.Error(err))
		}
		c.models = client.Models
		c.logger.InfoContext(ctx, "gemini client initialized",
			"text_model", cfg.TextModel,
			"image_model", cfg.ImageModel,
			"custom_base_url", cfg.BaseURL != "")
	}

	return c, nil
}

// Ready reports whether the client can make calls. It returns a provider
// error of kind auth_missing when no API key is configured.
func (c *Client) Ready(_ context.Context) error {
	if c.models == nil {
		return generation.NewProviderError(generation.KindAuthMissing, "no api key configured", nil)
	}
	return nil
}

// generate performs one model call under the configured timeout and returns
// the first candidate's response. Every failure is a *generation.ProviderError.
func (c *Client) generate(
	ctx context.Context,
	operation string,
	model string,
	contents []*genai.Content,
	genConfig *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if err := c.Ready(ctx); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, c.logger).With("operation", operation, "model", model)

	if timeout := c.cfg.RequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, model, contents, genConfig)
	elapsed := time.Since(start)
	if err != nil {
		perr := generation.FromError(err)
		log.ErrorContext(ctx, "model call failed",
			"kind", perr.Kind,
			"error", redact.String(perr.RawMessage),
			"duration_ms", elapsed.Milliseconds())
		return nil, perr
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			log.WarnContext(ctx, "prompt blocked by provider", "block_reason", resp.PromptFeedback.BlockReason)
			return nil, generation.NewProviderError(generation.KindUnknown,
				fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason), nil)
		}
		log.WarnContext(ctx, "model returned no candidates", "duration_ms", elapsed.Milliseconds())
		return nil, generation.NewProviderError(generation.KindEmptyResponse, "api_empty_response: no candidates", nil)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		log.WarnContext(ctx, "response blocked by safety filters")
		return nil, generation.NewProviderError(generation.KindUnknown, "content blocked by safety filters", nil)
	}

	log.DebugContext(ctx, "model call succeeded",
		"finish_reason", resp.Candidates[0].FinishReason,
		"duration_ms", elapsed.Milliseconds())
	return resp, nil
}

// candidateText concatenates the text parts of the first candidate,
// skipping thought summaries.
func candidateText(resp *genai.GenerateContentResponse) string {
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

// candidateImage returns the first non-empty inline image of the first candidate.
func candidateImage(resp *genai.GenerateContentResponse) *genai.Blob {
	content := resp.Candidates[0].Content
	if content == nil {
		return nil
	}
	for _, part := range content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

// truncated reports whether the model stopped at its output token limit.
func truncated(resp *genai.GenerateContentResponse) bool {
	return resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
}
