package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/redpost/internal/generation"
	"github.com/phrazzld/redpost/internal/jsonrepair"
	"github.com/phrazzld/redpost/internal/sanitize"
	"google.golang.org/genai"
)

// MaxSuggestions is the number of related topics requested.
const MaxSuggestions = 5

// TopicSuggester implements generation.TopicSuggester with the Gemini text model.
type TopicSuggester struct {
	client *Client
	logger *slog.Logger
}

var _ generation.TopicSuggester = (*TopicSuggester)(nil)

// NewTopicSuggester creates a TopicSuggester.
func NewTopicSuggester(client *Client, logger *slog.Logger) (*TopicSuggester, error) {
	if client == nil {
		return nil, errors.New("client cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &TopicSuggester{
		client: client,
		logger: logger.With("component", "gemini_topic_suggester"),
	}, nil
}

// SuggestTopics returns up to MaxSuggestions titles related to topic. An
// empty topic yields no suggestions and makes no call.
func (s *TopicSuggester) SuggestTopics(ctx context.Context, topic string) ([]string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return []string{}, nil
	}

	prompt := fmt.Sprintf("基于主题“%s”，生成%d个吸引人的小红书爆款标题，每个不超过20个字。只返回 JSON 字符串数组。",
		topic, MaxSuggestions)

	resp, err := s.client.generate(ctx, "suggest_topics", s.client.cfg.TextModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		})
	if err != nil {
		return nil, err
	}

	text := candidateText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, generation.NewProviderError(generation.KindEmptyResponse,
			"api_empty_response: model returned no text", nil)
	}

	var titles []string
	if _, err := jsonrepair.Unmarshal(text, &titles); err != nil {
		return nil, err
	}

	out := make([]string, 0, MaxSuggestions)
	for _, title := range sanitize.Fields(titles) {
		if title == "" {
			continue
		}
		out = append(out, title)
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out, nil
}
