package oracle

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/pkg/claude"
)

const binarySystemPrompt = `You judge whether a document section is likely to contain the answer to a question.
If it is, respond on a single line: RELEVANT: <one full sentence answering the question from this section>
If it is not, respond exactly: NOT RELEVANT`

const binaryUserPrompt = `Question: %s

%s`

// Binary verdicts map onto the graded scale: relevant = 10, not = 0.
const (
	binaryScoreRelevant    = 10
	binaryScoreNotRelevant = 0
)

// Binary is the likely-relevant / not-relevant classification strategy.
// Unrecognized output fails closed to not-relevant.
type Binary struct {
	client      claude.Client
	model       string
	temperature float64
}

// NewBinary creates a binary relevance oracle backed by the given client.
func NewBinary(client claude.Client, model string) *Binary {
	return &Binary{client: client, model: model, temperature: 0.5}
}

func (b *Binary) Score(ctx context.Context, query model.Query, seg model.Segment) (model.EvidenceCandidate, model.TokenUsage, error) {
	resp, err := b.client.CreateMessage(ctx, claude.MessageRequest{
		Model:       b.model,
		MaxTokens:   256,
		System:      binarySystemPrompt,
		Temperature: &b.temperature,
		Messages: []claude.Message{
			claude.UserMessage(claude.TextPart(fmt.Sprintf(binaryUserPrompt, query.Text, segmentContext(seg)))),
		},
	})
	if err != nil {
		return model.EvidenceCandidate{}, model.TokenUsage{}, &InvocationError{Stage: "score", Err: err}
	}

	usage := model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}

	text := resp.Text()
	upper := strings.ToUpper(text)

	switch {
	case strings.HasPrefix(upper, "NOT RELEVANT"):
		return candidate(seg, binaryScoreNotRelevant, text, NoInformation), usage, nil
	case strings.HasPrefix(upper, "RELEVANT"):
		statement := strings.TrimSpace(strings.TrimPrefix(text[len("RELEVANT"):], ":"))
		if statement == "" {
			statement = NoInformation
		}
		return candidate(seg, binaryScoreRelevant, text, statement), usage, nil
	default:
		zap.L().Warn("oracle: unparsable binary response, failing closed",
			zap.String("query", query.ID),
			zap.String("segment", seg.ID),
		)
		return candidate(seg, binaryScoreNotRelevant, text, NoInformation), usage, nil
	}
}
