package oracle

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/pkg/claude"
)

const gradedSystemPrompt = `You rate how likely a document section is to answer a question, on a 0-10 scale.
Respond in exactly this format:
SCORE: <integer 0-10>
RATIONALE: <one short sentence>
STATEMENT: <one full sentence answering the question from this section, or "NO INFORMATION" if the section does not answer it>`

const gradedUserPrompt = `Question: %s

%s`

var (
	scoreLine     = regexp.MustCompile(`(?m)^\s*SCORE:\s*(-?\d+)`)
	rationaleLine = regexp.MustCompile(`(?m)^\s*RATIONALE:\s*(.+)$`)
	statementLine = regexp.MustCompile(`(?ms)^\s*STATEMENT:\s*(.+)\z`)
)

// Graded is the 0-10 numeric relevance strategy. Malformed oracle output
// fails closed: score 0, rationale carries the raw response.
type Graded struct {
	client      claude.Client
	model       string
	temperature float64
}

// NewGraded creates a graded relevance oracle backed by the given client.
func NewGraded(client claude.Client, model string) *Graded {
	return &Graded{client: client, model: model, temperature: 0.2}
}

func (g *Graded) Score(ctx context.Context, query model.Query, seg model.Segment) (model.EvidenceCandidate, model.TokenUsage, error) {
	resp, err := g.client.CreateMessage(ctx, claude.MessageRequest{
		Model:       g.model,
		MaxTokens:   256,
		System:      gradedSystemPrompt,
		Temperature: &g.temperature,
		Messages: []claude.Message{
			claude.UserMessage(claude.TextPart(fmt.Sprintf(gradedUserPrompt, query.Text, segmentContext(seg)))),
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
	score, ok := parseScore(text)
	if !ok {
		zap.L().Warn("oracle: unparsable graded response, failing closed",
			zap.String("query", query.ID),
			zap.String("segment", seg.ID),
		)
		return candidate(seg, 0, text, NoInformation), usage, nil
	}

	rationale := ""
	if m := rationaleLine.FindStringSubmatch(text); m != nil {
		rationale = strings.TrimSpace(m[1])
	}
	statement := NoInformation
	if m := statementLine.FindStringSubmatch(text); m != nil {
		statement = strings.TrimSpace(m[1])
	}

	return candidate(seg, score, rationale, statement), usage, nil
}

// parseScore extracts and clamps the SCORE integer. Returns false when no
// score line is present.
func parseScore(text string) (int, bool) {
	m := scoreLine.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	if n < 0 {
		n = 0
	}
	if n > 10 {
		n = 10
	}
	return n, true
}
