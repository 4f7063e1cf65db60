package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/pkg/claude"
)

const synthesisSystemPrompt = `You combine collected evidence statements into one short, precise answer to a question.
Use only the evidence provided. Do not invent facts that are not present in the evidence list.
Respond with a single concise sentence.`

const synthesisUserPrompt = `Question: %s

Collected evidence:
%s

Produce one short sentence with the answer.`

// SynthesisOracle produces the final answer sentence from accepted evidence.
type SynthesisOracle struct {
	client      claude.Client
	model       string
	temperature float64
}

// NewSynthesis creates a synthesis oracle backed by the given client.
func NewSynthesis(client claude.Client, model string) *SynthesisOracle {
	return &SynthesisOracle{client: client, model: model, temperature: 0.7}
}

func (s *SynthesisOracle) Synthesize(ctx context.Context, query model.Query, evidence []string) (string, model.TokenUsage, error) {
	resp, err := s.client.CreateMessage(ctx, claude.MessageRequest{
		Model:       s.model,
		MaxTokens:   256,
		System:      synthesisSystemPrompt,
		Temperature: &s.temperature,
		Messages: []claude.Message{
			claude.UserMessage(claude.TextPart(fmt.Sprintf(synthesisUserPrompt, query.Text, strings.Join(evidence, "\n")))),
		},
	})
	if err != nil {
		return "", model.TokenUsage{}, &InvocationError{Stage: "synthesis", Err: err}
	}

	usage := model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}
	return resp.Text(), usage, nil
}
