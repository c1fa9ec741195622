package gemini

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/phrazzld/redpost/internal/config"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeCall records one GenerateContent invocation.
type fakeCall struct {
	model       string
	contents    []*genai.Content
	config      *genai.GenerateContentConfig
	hasDeadline bool
}

// fakeModels is a ContentGenerator that replays a canned response.
type fakeModels struct {
	mu    sync.Mutex
	calls []fakeCall

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	_, hasDeadline := ctx.Deadline()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fakeCall{model: model, contents: contents, config: cfg, hasDeadline: hasDeadline})
	return f.resp, f.err
}

func (f *fakeModels) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeModels) lastCall(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls, "expected a model call")
	return f.calls[len(f.calls)-1]
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		TextModel:             "text-model",
		ImageModel:            "image-model",
		RequestTimeoutSeconds: 5,
	}
}

func newFakeClient(t *testing.T, models *fakeModels) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), testLLMConfig(), testLogger(), WithContentGenerator(models))
	require.NoError(t, err)
	return client
}

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: reason,
		}},
	}
}

func imageResponse(data []byte, mime string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here is your image"},
				{InlineData: &genai.Blob{Data: data, MIMEType: mime}},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

// promptText returns the text parts of the last call joined together.
func promptText(call fakeCall) string {
	var out string
	for _, c := range call.contents {
		for _, p := range c.Parts {
			out += p.Text
		}
	}
	return out
}
