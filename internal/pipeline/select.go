package pipeline

import (
	"sort"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/oracle"
)

// DefaultThreshold is the default acceptance threshold: any positive score
// is usable evidence.
const DefaultThreshold = 0

// Select ranks candidates and applies the acceptance policy. A candidate is
// accepted iff its score strictly exceeds the threshold and its statement is
// not a no-information sentinel. Ranking is a total order (score descending,
// then segment order index ascending, then text before image, then
// statement), so the output is identical for any permutation of the input,
// regardless of the order asynchronous scoring calls completed in.
//
// An empty result means no evidence surfaced, which may be the pre-filter's
// doing rather than the corpus's. It is a valid terminal outcome, not an
// error.
func Select(candidates []model.EvidenceCandidate, threshold int) []model.EvidenceCandidate {
	var accepted []model.EvidenceCandidate
	for _, c := range candidates {
		if c.Score <= threshold {
			continue
		}
		if oracle.IsSentinel(c.Statement) {
			continue
		}
		accepted = append(accepted, c)
	}

	sort.Slice(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SegmentIndex != b.SegmentIndex {
			return a.SegmentIndex < b.SegmentIndex
		}
		if a.Modality != b.Modality {
			return a.Modality == model.ModalityText
		}
		return a.Statement < b.Statement
	})

	return accepted
}
