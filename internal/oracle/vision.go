package oracle

import (
	"context"
	"fmt"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/pkg/claude"
)

const visionSystemPrompt = `You are examining an image embedded in a document, together with the text that surrounds it.
If the image and its context contain the answer to the question, respond with one full sentence stating it.
If they do not, respond exactly: NO INFORMATION`

const visionUserPrompt = `Question: %s

%s

The image below appears in this section.`

// VisionOracle asks a vision-capable model for a grounded statement about a
// segment's embedded image. Both the textual context and the image payload go
// into a single request so the statement is grounded in both.
type VisionOracle struct {
	client claude.Client
	model  string
}

// NewVision creates a vision oracle backed by the given client.
func NewVision(client claude.Client, model string) *VisionOracle {
	return &VisionOracle{client: client, model: model}
}

func (v *VisionOracle) Analyze(ctx context.Context, query model.Query, seg model.Segment, mediaType string, imageData string) (string, model.TokenUsage, error) {
	resp, err := v.client.CreateMessage(ctx, claude.MessageRequest{
		Model:     v.model,
		MaxTokens: 256,
		System:    visionSystemPrompt,
		Messages: []claude.Message{
			claude.UserMessage(
				claude.TextPart(fmt.Sprintf(visionUserPrompt, query.Text, segmentContext(seg))),
				claude.ImagePart(mediaType, imageData),
			),
		},
	})
	if err != nil {
		return "", model.TokenUsage{}, &InvocationError{Stage: "vision", Err: err}
	}

	usage := model.TokenUsage{
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
	}
	return resp.Text(), usage, nil
}
