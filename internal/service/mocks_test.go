package service

import (
	"context"

	"github.com/phrazzld/redpost/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockTextGenerator mocks the generation.TextGenerator interface
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) GenerateText(
	ctx context.Context,
	req *domain.GenerationRequest,
) (*domain.GeneratedPost, error) {
	args := m.Called(ctx, req)
	post, _ := args.Get(0).(*domain.GeneratedPost)
	return post, args.Error(1)
}

// MockCoverResolver mocks the generation.CoverResolver interface
type MockCoverResolver struct {
	mock.Mock
}

func (m *MockCoverResolver) ResolveCover(
	ctx context.Context,
	req *domain.GenerationRequest,
	post *domain.GeneratedPost,
) (*domain.CoverResult, error) {
	args := m.Called(ctx, req, post)
	cover, _ := args.Get(0).(*domain.CoverResult)
	return cover, args.Error(1)
}

// MockTopicSuggester mocks the generation.TopicSuggester interface
type MockTopicSuggester struct {
	mock.Mock
}

func (m *MockTopicSuggester) SuggestTopics(ctx context.Context, topic string) ([]string, error) {
	args := m.Called(ctx, topic)
	topics, _ := args.Get(0).([]string)
	return topics, args.Error(1)
}

// MockCapabilityChecker mocks the generation.CapabilityChecker interface
type MockCapabilityChecker struct {
	mock.Mock
}

func (m *MockCapabilityChecker) Ready(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
