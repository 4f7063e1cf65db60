// Package oracle defines the narrow interfaces through which the pipeline
// consults external scoring, vision, and synthesis capabilities, plus the
// Claude-backed strategies that implement them. The pipeline never talks to a
// vendor SDK directly; it depends only on these contracts.
package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

// NoInformation is the sentinel statement an oracle returns when a segment
// (or image) contains nothing relevant to the query. Sentinel statements must
// never reach the selector as positive evidence.
const NoInformation = "NO INFORMATION"

// IsSentinel reports whether a statement is empty or a no-information /
// analysis-error sentinel.
func IsSentinel(statement string) bool {
	s := strings.ToUpper(strings.TrimSpace(statement))
	switch s {
	case "", NoInformation, "ANALYSIS ERROR":
		return true
	}
	return false
}

// Relevance scores a (query, segment) pair and produces a text-modality
// evidence candidate. Implementations must fail closed on malformed oracle
// output (score 0, raw response as rationale) and never error on it;
// transport failures are returned as *InvocationError.
type Relevance interface {
	Score(ctx context.Context, query model.Query, seg model.Segment) (model.EvidenceCandidate, model.TokenUsage, error)
}

// Vision produces a grounded statement from a segment's textual context plus
// an embedded image. A no-information reply is returned as the NoInformation
// sentinel, not an error.
type Vision interface {
	Analyze(ctx context.Context, query model.Query, seg model.Segment, mediaType string, imageData string) (string, model.TokenUsage, error)
}

// Synthesis merges accepted evidence statements into one concise answer.
type Synthesis interface {
	Synthesize(ctx context.Context, query model.Query, evidence []string) (string, model.TokenUsage, error)
}

// InvocationError marks a failed oracle call. The orchestrator recovers from
// it by treating the affected candidate as non-matching; it never aborts a
// query, let alone a batch.
type InvocationError struct {
	Stage string // "score", "vision", or "synthesis"
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("oracle: %s invocation failed: %v", e.Stage, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// segmentContext renders the segment the way prompts consume it.
func segmentContext(seg model.Segment) string {
	return fmt.Sprintf("Section title: %s\n\nSection content:\n%s", seg.Title, seg.Body)
}

// candidate builds a text-modality evidence candidate for a segment.
func candidate(seg model.Segment, score int, rationale, statement string) model.EvidenceCandidate {
	return model.EvidenceCandidate{
		SegmentID:    seg.ID,
		SegmentIndex: seg.OrderIndex,
		SegmentTitle: seg.Title,
		Modality:     model.ModalityText,
		Score:        score,
		Rationale:    rationale,
		Statement:    statement,
	}
}
