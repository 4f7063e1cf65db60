// Package segment splits a corpus into titled, ordered segments and provides
// the lexical pre-filter that narrows them before oracle scoring.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

// ErrMalformedCorpus is returned when the corpus cannot be decoded as text.
// It is the only batch-fatal segmentation error; structurally odd but
// decodable input never fails.
var ErrMalformedCorpus = eris.New("segment: malformed corpus")

// dashUnderline matches a line consisting solely of one or more dashes. The
// underline length is deliberately not validated against the title length;
// any dash-only line delimits a title.
var dashUnderline = regexp.MustCompile(`^-+$`)

// Segmenter splits corpus text into segments and detects embedded media
// references as it goes.
type Segmenter struct {
	mediaRef *regexp.Regexp
}

// NewSegmenter creates a segmenter. mediaRef may be nil, in which case no
// media references are detected.
func NewSegmenter(mediaRef *regexp.Regexp) *Segmenter {
	return &Segmenter{mediaRef: mediaRef}
}

// Split scans the corpus line by line. A line immediately followed by a
// dash-only line is a title; all following lines up to the next title (or end
// of input) form that segment's body. A corpus with no titles yields zero
// segments and no error. Splitting identical input always yields structurally
// identical output.
func (s *Segmenter) Split(corpusText string) ([]model.Segment, error) {
	if !utf8.ValidString(corpusText) {
		return nil, eris.Wrap(ErrMalformedCorpus, "segment: input is not valid UTF-8")
	}

	lines := strings.Split(corpusText, "\n")

	var segments []model.Segment
	var title string
	var body []string
	collecting := false

	flush := func() {
		// A dash underline under an empty line is treated as a delimiter with
		// no title; whatever was collected under it is discarded.
		if !collecting || title == "" {
			return
		}
		idx := len(segments)
		bodyText := strings.TrimSpace(strings.Join(body, "\n"))
		segments = append(segments, model.Segment{
			ID:         model.SegmentID(idx, title),
			OrderIndex: idx,
			Title:      title,
			Body:       bodyText,
			MediaRefs:  s.findMediaRefs(bodyText),
		})
	}

	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) && dashUnderline.MatchString(strings.TrimSpace(lines[i+1])) {
			flush()
			title = strings.TrimSpace(lines[i])
			body = body[:0]
			collecting = true
			i++ // consume the underline
			continue
		}
		if collecting {
			body = append(body, lines[i])
		}
	}
	flush()

	zap.L().Debug("segment: corpus split",
		zap.Int("segments", len(segments)),
		zap.Int("lines", len(lines)),
	)

	return segments, nil
}

func (s *Segmenter) findMediaRefs(body string) []string {
	if s.mediaRef == nil {
		return nil
	}
	return s.mediaRef.FindAllString(body, -1)
}

// Render writes segments back out in the corpus title-underline format. It is
// the inverse of Split up to surrounding whitespace: Split(Render(Split(c)))
// equals Split(c) structurally.
func Render(segments []model.Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(seg.Title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", max(len(seg.Title), 1)))
		b.WriteString("\n\n")
		b.WriteString(seg.Body)
		b.WriteString("\n")
	}
	return b.String()
}
