package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"google.golang.org/genai"
)

// CoverAspectRatio is the aspect ratio requested for every cover image.
const CoverAspectRatio = "3:4"

const defaultImageMIMEType = "image/png"

// ImageGenerator implements generation.ImageGenerator with the Gemini image model.
type ImageGenerator struct {
	client *Client
	logger *slog.Logger
}

var _ generation.ImageGenerator = (*ImageGenerator)(nil)

// NewImageGenerator creates an ImageGenerator.
func NewImageGenerator(client *Client, logger *slog.Logger) (*ImageGenerator, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &ImageGenerator{
		client: client,
		logger: logger.With("component", "gemini_image_generator"),
	}, nil
}

// GenerateImage renders a cover. The reference image, when present, is sent
// ahead of the instruction as conditioning input.
func (g *ImageGenerator) GenerateImage(ctx context.Context, req generation.ImageRequest) (*domain.InlineImage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, generation.NewProviderError(generation.KindUnknown, "image prompt is empty", nil)
	}

	parts := make([]*genai.Part, 0, 2)
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Reference.Data, req.Reference.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(imageInstruction(req)))

	resp, err := g.client.generate(ctx, "generate_image", g.client.cfg.ImageModel,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig:        &genai.ImageConfig{AspectRatio: CoverAspectRatio},
		})
	if err != nil {
		return nil, err
	}

	blob := candidateImage(resp)
	if blob == nil {
		return nil, generation.NewProviderError(generation.KindEmptyResponse,
			"api_empty_response: model returned no image", nil)
	}

	mime := blob.MIMEType
	if mime == "" {
		mime = defaultImageMIMEType
	}

	logger.FromContext(ctx, g.logger).InfoContext(ctx, "cover image generated",
		"bytes", len(blob.Data),
		"mime_type", mime,
		"with_reference", len(parts) > 1)

	return &domain.InlineImage{Data: blob.Data, MIMEType: mime}, nil
}

func imageInstruction(req generation.ImageRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a vertical %s social media cover image. ", CoverAspectRatio)
	fmt.Fprintf(&b, "Subject: %s. ", strings.TrimSpace(req.Prompt))
	fmt.Fprintf(&b, "Visual style: %s, aesthetic, high resolution. ", req.Style.VisualKeywords())
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		b.WriteString("Use the attached picture as the reference for composition and colour palette. ")
	}
	b.WriteString("Do not render any text, letters, logos or watermarks.")
	return b.String()
}
