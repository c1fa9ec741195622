package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/redpost/internal/config"
	"github.com/phrazzld/redpost/internal/cover"
	"github.com/phrazzld/redpost/internal/domain"
	"github.com/phrazzld/redpost/internal/platform/gemini"
	"github.com/phrazzld/redpost/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// scriptedModels answers text calls with a fixed post and fails image calls.
type scriptedModels struct {
	textModel string
}

func (m *scriptedModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	if model != m.textModel {
		return nil, errors.New("Error 429, Message: Resource has been exhausted (e.g. check quota).")
	}
	body := `{"title":"秋天的第一杯咖啡","content":"今天去了街角的小店。","tags":["咖啡","秋天"],` +
		`"image_prompt":"a cup of latte on a wooden table"}`
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(body, genai.RoleModel),
			FinishReason: genai.FinishReasonStop,
		}},
	}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info"},
		LLM: config.LLMConfig{
			TextModel:             "text-model",
			ImageModel:            "image-model",
			RequestTimeoutSeconds: 5,
		},
		Cover: config.CoverConfig{
			FallbackBaseURL: "https://image.example/prompt",
			Width:           1080,
			Height:          1440,
			FallbackModel:   "flux",
		},
		Progress: config.ProgressConfig{TickIntervalMs: 10, SoftCeiling: 95, DoneHoldMs: 0},
	}
}

func newTestApp(t *testing.T, opts ...Option) *Application {
	t.Helper()
	app, err := New(context.Background(), testConfig(), testLogger(), opts...)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

func TestNewValidation(t *testing.T) {
	_, err := New(context.Background(), nil, testLogger())
	assert.Error(t, err)

	_, err = New(context.Background(), testConfig(), nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.LLM.TextModel = ""
	_, err = New(context.Background(), cfg, testLogger())
	assert.ErrorIs(t, err, gemini.ErrInvalidConfig)
}

func TestRouterHealthAndOptions(t *testing.T) {
	srv := httptest.NewServer(newTestApp(t).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))

	resp, err = http.Get(srv.URL + "/api/options")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var options struct {
		Styles     []domain.StyleOption `json:"styles"`
		CoverModes []string             `json:"cover_modes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&options))
	assert.Len(t, options.Styles, 4)
	assert.Equal(t, []string{"auto", "reference", "template"}, options.CoverModes)
}

func TestRouterWithoutAPIKey(t *testing.T) {
	srv := httptest.NewServer(newTestApp(t).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/posts", "application/json",
		strings.NewReader(`{"topic":"咖啡","style":"emotional","length":"short"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "auth_missing", body["kind"])
	assert.Equal(t, true, body["actionable"])
	assert.NotEmpty(t, body["trace_id"])
}

func TestRouterGenerateWithFallbackCover(t *testing.T) {
	app := newTestApp(t,
		WithGeminiOptions(gemini.WithContentGenerator(&scriptedModels{textModel: "text-model"})),
		WithCoverOptions(cover.WithSeed(func() int { return 7 })),
	)
	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/posts", "application/json",
		strings.NewReader(`{"topic":"秋天咖啡","style":"emotional","length":"short","cover_mode":"auto"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result service.GenerationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "秋天的第一杯咖啡", result.Post.Title)
	assert.Nil(t, result.Post.CoverSummary)
	require.NotNil(t, result.Cover)
	assert.Equal(t, domain.CoverKindURL, result.Cover.Kind)
	assert.True(t, result.Cover.Fallback)
	assert.True(t, strings.HasPrefix(result.Cover.URL, "https://image.example/prompt/"))
	assert.Contains(t, result.Cover.URL, "seed=7")

	assert.False(t, app.Generation.Busy())
	assert.Eventually(t, func() bool {
		return app.Generation.Progress().Phase == domain.PhaseIdle
	}, time.Second, 5*time.Millisecond, "idle again once the done hold elapses")
}

func TestServeListenerGracefulShutdown(t *testing.T) {
	app, err := New(context.Background(), testConfig(), testLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.ServeListener(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}
