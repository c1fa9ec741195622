// Package cover resolves the cover of a generated post. Template covers are
// copied from the post's summary fields; image covers come from the image
// model and degrade to a keyless image-by-prompt URL when that call fails
// for any reason.
package cover

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/phrazzld/redpost/internal/config"
	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/phrazzld/redpost/internal/redact"
)

// fallbackSuffix is appended to every fallback prompt.
const fallbackSuffix = "aesthetic, high resolution, soft lighting"

// maxSeed bounds the random seed passed to the fallback service.
const maxSeed = 1_000_000

// Option customises a Resolver.
type Option func(*Resolver)

// WithSeed replaces the random seed source, typically to make fallback URLs
// deterministic in tests.
func WithSeed(seed func() int) Option {
	return func(r *Resolver) { r.seed = seed }
}

// Resolver implements generation.CoverResolver.
type Resolver struct {
	images   generation.ImageGenerator
	fallback config.CoverConfig
	seed     func() int
	logger   *slog.Logger
}

var _ generation.CoverResolver = (*Resolver)(nil)

// NewResolver creates a Resolver using images for image covers and the
// fallback service described by cfg when images fails.
func NewResolver(
	images generation.ImageGenerator,
	cfg config.CoverConfig,
	logger *slog.Logger,
	opts ...Option,
) (*Resolver, error) {
	if images == nil {
		return nil, errors.New("image generator cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if _, err := url.Parse(cfg.FallbackBaseURL); err != nil || cfg.FallbackBaseURL == "" {
		return nil, fmt.Errorf("invalid fallback base url %q", cfg.FallbackBaseURL)
	}

	r := &Resolver{
		images:   images,
		fallback: cfg,
		seed:     func() int { return rand.IntN(maxSeed) },
		logger:   logger.With("component", "cover_resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// ResolveCover returns the cover for post. For image modes it never returns
// an image error: any failure of the image model is logged and replaced by a
// fallback URL.
func (r *Resolver) ResolveCover(
	ctx context.Context,
	req *domain.GenerationRequest,
	post *domain.GeneratedPost,
) (*domain.CoverResult, error) {
	if req == nil || post == nil {
		return nil, fmt.Errorf("%w: request and post are required", domain.ErrValidation)
	}

	if req.CoverMode == domain.CoverModeTemplate {
		return domain.NewTemplateCover(post.FillSummary()), nil
	}

	log := logger.FromContext(ctx, r.logger)
	prompt := imagePrompt(req, post)

	imgReq := generation.ImageRequest{Prompt: prompt, Style: req.Style}
	if req.HasReference() {
		imgReq.Reference = req.ReferenceImage
	}

	img, err := r.images.GenerateImage(ctx, imgReq)
	if err == nil && img != nil && len(img.Data) > 0 {
		return domain.NewInlineCover(img), nil
	}

	kind := generation.KindEmptyResponse
	reason := "image generator returned no data"
	if err != nil {
		kind = generation.KindOf(err)
		reason = redact.Truncate(err.Error(), 200)
	}
	log.WarnContext(ctx, "image generation failed, using fallback cover",
		"kind", kind,
		"reason", reason,
		"with_reference", imgReq.Reference != nil)

	return domain.NewFallbackCover(r.FallbackURL(prompt, req.Style)), nil
}

// FallbackURL builds the fallback image URL for prompt and style. The
// prompt is extended with the style's visual keywords, path-escaped, and
// sent with the configured dimensions and a fresh random seed.
func (r *Resolver) FallbackURL(prompt string, style domain.Style) string {
	full := strings.Join([]string{strings.TrimSpace(prompt), style.VisualKeywords(), fallbackSuffix}, ", ")

	q := url.Values{}
	q.Set("width", strconv.Itoa(r.fallback.Width))
	q.Set("height", strconv.Itoa(r.fallback.Height))
	q.Set("seed", strconv.Itoa(r.seed()))
	q.Set("nologo", "true")
	if r.fallback.FallbackModel != "" {
		q.Set("model", r.fallback.FallbackModel)
	}

	base := strings.TrimRight(r.fallback.FallbackBaseURL, "/")
	return base + "/" + url.PathEscape(full) + "?" + q.Encode()
}

// imagePrompt prefers the model's own image description and falls back to
// the topic.
func imagePrompt(req *domain.GenerationRequest, post *domain.GeneratedPost) string {
	if p := strings.TrimSpace(post.ImagePrompt); p != "" {
		return p
	}
	return req.Topic
}
