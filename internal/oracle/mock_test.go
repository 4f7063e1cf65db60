package oracle

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/calder-analytics/evidence-cli/pkg/claude"
)

type mockClaudeClient struct {
	mock.Mock
}

var _ claude.Client = (*mockClaudeClient)(nil)

func (m *mockClaudeClient) CreateMessage(ctx context.Context, req claude.MessageRequest) (*claude.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*claude.MessageResponse), args.Error(1)
}

// textResponse builds a single-text-block response with fixed token usage.
func textResponse(text string) *claude.MessageResponse {
	return &claude.MessageResponse{
		Content: []claude.ContentBlock{{Type: "text", Text: text}},
		Usage:   claude.TokenUsage{InputTokens: 100, OutputTokens: 20},
	}
}
