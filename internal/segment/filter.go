package segment

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

// Predicate decides whether a segment stays in the candidate set.
type Predicate func(model.Segment) bool

// Filter returns the subset of segments matching the predicate, preserving
// corpus order. Segments dropped here are never scored, so an overly narrow
// keyword can turn a would-be answer into NO_ANSWER.
func Filter(segments []model.Segment, pred Predicate) []model.Segment {
	if pred == nil {
		return segments
	}
	var out []model.Segment
	for _, s := range segments {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// KeywordPredicate matches segments whose title or body contains the keyword.
// Case-insensitive matching uses Unicode case folding, so it behaves
// correctly for non-ASCII corpora.
func KeywordPredicate(keyword string, caseSensitive bool) Predicate {
	if keyword == "" {
		return nil
	}
	if caseSensitive {
		return func(s model.Segment) bool {
			return strings.Contains(s.Title, keyword) || strings.Contains(s.Body, keyword)
		}
	}
	folder := cases.Fold()
	folded := folder.String(keyword)
	return func(s model.Segment) bool {
		return strings.Contains(folder.String(s.Title), folded) ||
			strings.Contains(folder.String(s.Body), folded)
	}
}

// WithMediaRefs matches segments that carry at least one media reference.
func WithMediaRefs() Predicate {
	return func(s model.Segment) bool {
		return len(s.MediaRefs) > 0
	}
}
