package generation

import (
	"context"

	"github.com/phrazzld/redpost/internal/domain"
)

// TextGenerator produces the text of a post. Implementations return a
// *ProviderError on any failure, never a raw provider error.
type TextGenerator interface {
	GenerateText(ctx context.Context, req *domain.GenerationRequest) (*domain.GeneratedPost, error)
}

// ImageRequest carries what the image model needs to render a cover.
type ImageRequest struct {
	// Prompt describes the picture; the post's image prompt or the topic.
	Prompt string
	Style  domain.Style
	// Reference optionally conditions the image on a user-supplied picture.
	Reference *domain.ReferenceImage
}

// ImageGenerator renders a cover image. A response without image data is an
// error of kind KindEmptyResponse.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*domain.InlineImage, error)
}

// CoverResolver produces the cover for a generated post. Image failures are
// absorbed by the resolver; an error means no cover could be produced at all.
type CoverResolver interface {
	ResolveCover(
		ctx context.Context,
		req *domain.GenerationRequest,
		post *domain.GeneratedPost,
	) (*domain.CoverResult, error)
}

// TopicSuggester proposes catchy titles related to a topic.
type TopicSuggester interface {
	SuggestTopics(ctx context.Context, topic string) ([]string, error)
}

// CapabilityChecker confirms the provider can be called before a request is
// accepted, e.g. that an API key is configured.
type CapabilityChecker interface {
	Ready(ctx context.Context) error
}
