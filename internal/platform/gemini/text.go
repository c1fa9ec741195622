package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/jsonrepair"
	"github.com/phrazzld/redpost/internal/platform/logger"
	"github.com/phrazzld/redpost/internal/sanitize"
	"google.golang.org/genai"
)

//go:embed prompts/post.tmpl
var defaultPostTemplate string

// promptData represents the data passed to the prompt template
type promptData struct {
	Topic            string
	StyleName        string
	StyleDescription string
	LengthName       string
	LengthGuidance   string
	Template         bool
}

// postResponse is the JSON shape requested from the text model.
type postResponse struct {
	Title        string               `json:"title"`
	Content      string               `json:"content"`
	Tags         []string             `json:"tags"`
	ImagePrompt  string               `json:"image_prompt"`
	CoverSummary *domain.CoverSummary `json:"cover_summary"`
}

// TextGenerator implements generation.TextGenerator with the Gemini text model.
type TextGenerator struct {
	client         *Client
	promptTemplate *template.Template
	logger         *slog.Logger
}

var _ generation.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator creates a TextGenerator. The prompt template is read from
// the configured PromptTemplatePath when set, otherwise the embedded default
// is used.
func NewTextGenerator(client *Client, logger *slog.Logger) (*TextGenerator, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	source := defaultPostTemplate
	if path := client.cfg.PromptTemplatePath; path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read prompt template from %s: %v",
				ErrInvalidConfig, path, err)
		}
		source = string(content)
	}

	tmpl, err := template.New("post").Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	return &TextGenerator{
		client:         client,
		promptTemplate: tmpl,
		logger:         logger.With("component", "gemini_text_generator"),
	}, nil
}

// GenerateText writes a post for req. Request validation errors are returned
// as-is; every other failure is a *generation.ProviderError.
func (g *TextGenerator) GenerateText(
	ctx context.Context,
	req *domain.GenerationRequest,
) (*domain.GeneratedPost, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", domain.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx, g.logger)
	templateCover := req.CoverMode == domain.CoverModeTemplate

	prompt, err := g.createPrompt(req)
	if err != nil {
		return nil, generation.NewProviderError(generation.KindUnknown, "failed to build prompt", err)
	}
	log.DebugContext(ctx, "prompt generated", "prompt_length", len(prompt), "template_cover", templateCover)

	resp, err := g.client.generate(ctx, "generate_text", g.client.cfg.TextModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   postSchema(templateCover),
	})
	if err != nil {
		return nil, err
	}

	text := candidateText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, generation.NewProviderError(generation.KindEmptyResponse,
			"api_empty_response: model returned no text", nil)
	}

	var out postResponse
	res, err := jsonrepair.Unmarshal(text, &out)
	if err != nil {
		log.WarnContext(ctx, "model output could not be parsed",
			"response_length", len(text),
			"hit_token_limit", truncated(resp))
		return nil, err
	}
	if res.Repaired || res.Trimmed {
		log.WarnContext(ctx, "model output needed repair",
			"repaired", res.Repaired,
			"trimmed", res.Trimmed,
			"hit_token_limit", truncated(resp))
	}

	if strings.TrimSpace(out.Content) == "" {
		return nil, generation.NewProviderError(generation.KindMalformedOutput, "response is missing content", nil)
	}

	post := toPost(out, templateCover)
	log.InfoContext(ctx, "post text generated",
		"title_length", len([]rune(post.Title)),
		"content_length", len([]rune(post.Content)),
		"tag_count", len(post.Tags))
	return post, nil
}

func (g *TextGenerator) createPrompt(req *domain.GenerationRequest) (string, error) {
	style, _ := req.Style.Option()
	length, _ := req.Length.Option()

	data := promptData{
		Topic:            req.Topic,
		StyleName:        style.Name,
		StyleDescription: style.Description,
		LengthName:       length.Name,
		LengthGuidance:   length.Guidance,
		Template:         req.CoverMode == domain.CoverModeTemplate,
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// toPost converts the model output into a post. Short fields are sanitized;
// the body is left untouched because colons are ordinary punctuation there.
// The cover summary is kept only for template covers and completed from the
// title and body when the model left fields empty.
func toPost(out postResponse, withSummary bool) *domain.GeneratedPost {
	post := &domain.GeneratedPost{
		Title:       sanitize.Field(out.Title),
		Content:     strings.TrimSpace(out.Content),
		Tags:        cleanTags(out.Tags),
		ImagePrompt: strings.TrimSpace(out.ImagePrompt),
	}

	if withSummary {
		if out.CoverSummary != nil {
			post.CoverSummary = &domain.CoverSummary{
				MainTitle:     sanitize.Field(out.CoverSummary.MainTitle),
				HighlightText: sanitize.Field(out.CoverSummary.HighlightText),
				BodyPreview:   sanitize.Field(out.CoverSummary.BodyPreview),
			}
		}
		post.CoverSummary = post.FillSummary()
	}
	return post
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), "#"))
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// postSchema describes postResponse to the model. Content precedes tags so a
// token-limited response loses the least important fields first.
func postSchema(withSummary bool) *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}

	required := []string{"title", "content", "tags", "image_prompt"}
	if withSummary {
		required = append(required, "cover_summary")
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":   str("post title"),
			"content": str("post body"),
			"tags": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"image_prompt": str("English description of a cover background image without text"),
			"cover_summary": {
				Type:     genai.TypeObject,
				Nullable: genai.Ptr(true),
				Properties: map[string]*genai.Schema{
					"main_title":     str("cover headline"),
					"highlight_text": str("highlighted quote"),
					"body_preview":   str("short body summary"),
				},
				Required: []string{"main_title", "highlight_text", "body_preview"},
			},
		},
		Required:         required,
		PropertyOrdering: []string{"title", "content", "image_prompt", "tags", "cover_summary"},
	}
}
