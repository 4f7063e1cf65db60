package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/oracle"
)

// Synthesizer merges accepted evidence into a single answer through the
// synthesis oracle.
type Synthesizer struct {
	oracle oracle.Synthesis
}

// NewSynthesizer creates a synthesizer over the injected synthesis oracle.
func NewSynthesizer(o oracle.Synthesis) *Synthesizer {
	return &Synthesizer{oracle: o}
}

// Synthesize builds the evidence list in selector rank order and asks the
// synthesis oracle for one concise answer grounded in it. With no accepted
// evidence it returns ErrNoEvidence without invoking the oracle. A synthesis
// oracle failure does not fail the query: the answer degrades to the raw
// evidence list with the Degraded flag set.
func (s *Synthesizer) Synthesize(ctx context.Context, query model.Query, accepted []model.EvidenceCandidate) (model.SynthesizedAnswer, model.TokenUsage, error) {
	if len(accepted) == 0 {
		return model.SynthesizedAnswer{}, model.TokenUsage{}, ErrNoEvidence
	}

	evidence := make([]string, len(accepted))
	for i, c := range accepted {
		evidence[i] = fmt.Sprintf("[%s] (%s): %s", c.SegmentTitle, c.Modality, c.Statement)
	}

	answer := model.SynthesizedAnswer{
		QueryID:            query.ID,
		SupportingEvidence: evidence,
		SourceSegmentIDs:   sourceSegmentIDs(accepted),
	}

	text, usage, err := s.oracle.Synthesize(ctx, query, evidence)
	if err != nil {
		zap.L().Warn("pipeline: synthesis failed, reporting raw evidence",
			zap.String("query", query.ID),
			zap.Error(err),
		)
		answer.Degraded = true
		return answer, usage, nil
	}

	answer.AnswerText = text
	return answer, usage, nil
}

// sourceSegmentIDs returns the distinct originating segment order indexes in
// rank order.
func sourceSegmentIDs(accepted []model.EvidenceCandidate) []int {
	seen := make(map[int]bool, len(accepted))
	var ids []int
	for _, c := range accepted {
		if seen[c.SegmentIndex] {
			continue
		}
		seen[c.SegmentIndex] = true
		ids = append(ids, c.SegmentIndex)
	}
	return ids
}
