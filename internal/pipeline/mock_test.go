package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/calder-analytics/evidence-cli/internal/fetcher"
	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/oracle"
)

// --- Relevance mock ---

type mockRelevance struct {
	mock.Mock
}

var _ oracle.Relevance = (*mockRelevance)(nil)

func (m *mockRelevance) Score(ctx context.Context, query model.Query, seg model.Segment) (model.EvidenceCandidate, model.TokenUsage, error) {
	args := m.Called(ctx, query, seg)
	return args.Get(0).(model.EvidenceCandidate), args.Get(1).(model.TokenUsage), args.Error(2)
}

// --- Synthesis mock ---

type mockSynthesis struct {
	mock.Mock
}

var _ oracle.Synthesis = (*mockSynthesis)(nil)

func (m *mockSynthesis) Synthesize(ctx context.Context, query model.Query, evidence []string) (string, model.TokenUsage, error) {
	args := m.Called(ctx, query, evidence)
	return args.String(0), args.Get(1).(model.TokenUsage), args.Error(2)
}

// --- Vision mock ---

type mockVision struct {
	mock.Mock
}

var _ oracle.Vision = (*mockVision)(nil)

func (m *mockVision) Analyze(ctx context.Context, query model.Query, seg model.Segment, mediaType string, imageData string) (string, model.TokenUsage, error) {
	args := m.Called(ctx, query, seg, mediaType, imageData)
	return args.String(0), args.Get(1).(model.TokenUsage), args.Error(2)
}

// --- Fetcher mock ---

type mockFetcher struct {
	mock.Mock
}

var _ fetcher.Fetcher = (*mockFetcher)(nil)

func (m *mockFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// segMatcher matches a segment by its stable ID.
func segMatcher(id string) interface{} {
	return mock.MatchedBy(func(seg model.Segment) bool { return seg.ID == id })
}
