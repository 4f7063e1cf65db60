package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

func cand(idx, score int, modality model.Modality, statement string) model.EvidenceCandidate {
	return model.EvidenceCandidate{
		SegmentID:    model.SegmentID(idx, "segment"),
		SegmentIndex: idx,
		SegmentTitle: "segment",
		Modality:     modality,
		Score:        score,
		Statement:    statement,
	}
}

func TestSelect_ThresholdIsStrict(t *testing.T) {
	candidates := []model.EvidenceCandidate{
		cand(0, 0, model.ModalityText, "zero scored"),
		cand(1, 1, model.ModalityText, "one scored"),
	}

	accepted := Select(candidates, 0)
	require.Len(t, accepted, 1)
	assert.Equal(t, "one scored", accepted[0].Statement)

	// Score equal to the threshold is rejected.
	assert.Empty(t, Select(candidates, 1))
}

func TestSelect_SentinelsRejectedRegardlessOfScore(t *testing.T) {
	candidates := []model.EvidenceCandidate{
		cand(0, 10, model.ModalityText, "NO INFORMATION"),
		cand(1, 10, model.ModalityText, ""),
		cand(2, 10, model.ModalityImage, "analysis error"),
		cand(3, 2, model.ModalityText, "an actual statement"),
	}

	accepted := Select(candidates, 0)
	require.Len(t, accepted, 1)
	assert.Equal(t, "an actual statement", accepted[0].Statement)
}

func TestSelect_TotalOrder(t *testing.T) {
	candidates := []model.EvidenceCandidate{
		cand(2, 7, model.ModalityText, "mid segment"),
		cand(0, 9, model.ModalityText, "best"),
		cand(2, 7, model.ModalityImage, "image in mid segment"),
		cand(1, 7, model.ModalityText, "earlier segment"),
	}

	accepted := Select(candidates, 0)
	require.Len(t, accepted, 4)
	assert.Equal(t, "best", accepted[0].Statement)
	assert.Equal(t, "earlier segment", accepted[1].Statement)
	// Within the same segment and score, text outranks image.
	assert.Equal(t, "mid segment", accepted[2].Statement)
	assert.Equal(t, "image in mid segment", accepted[3].Statement)
}

func TestSelect_PermutationInvariant(t *testing.T) {
	base := []model.EvidenceCandidate{
		cand(0, 9, model.ModalityText, "a"),
		cand(1, 9, model.ModalityText, "b"),
		cand(1, 9, model.ModalityImage, "c"),
		cand(2, 5, model.ModalityText, "d"),
		cand(3, 5, model.ModalityText, "e"),
		cand(3, 5, model.ModalityText, "f"),
	}

	want := Select(append([]model.EvidenceCandidate(nil), base...), 0)

	for i := 0; i < 20; i++ {
		shuffled := append([]model.EvidenceCandidate(nil), base...)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, Select(shuffled, 0))
	}
}

func TestSelect_ThresholdMonotonicity(t *testing.T) {
	candidates := []model.EvidenceCandidate{
		cand(0, 3, model.ModalityText, "low"),
		cand(1, 6, model.ModalityText, "mid"),
		cand(2, 9, model.ModalityText, "high"),
	}

	prev := len(Select(candidates, 0))
	for threshold := 1; threshold <= 10; threshold++ {
		n := len(Select(candidates, threshold))
		assert.LessOrEqual(t, n, prev, "threshold %d", threshold)
		prev = n
	}
	assert.Empty(t, Select(candidates, 10))
}

func TestSelect_EmptyInput(t *testing.T) {
	assert.Empty(t, Select(nil, 0))
	assert.Empty(t, Select([]model.EvidenceCandidate{}, 0))
}
