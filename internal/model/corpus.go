package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// Corpus is the full source text a batch of queries runs against. It is
// loaded once per run and never mutated afterwards.
type Corpus struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

// NewCorpus builds a Corpus with a content-derived ID, so the same text
// always maps to the same corpus regardless of where it was loaded from.
func NewCorpus(source, text string) Corpus {
	sum := sha256.Sum256([]byte(text))
	return Corpus{
		ID:     hex.EncodeToString(sum[:6]),
		Source: source,
		Text:   text,
	}
}

// Segment is a titled, ordered, non-overlapping unit of a corpus. Segments
// are produced once by the segmenter and treated as immutable; OrderIndex is
// the corpus-relative position and is used only for deterministic
// tie-breaking, never as a relevance signal.
type Segment struct {
	ID         string   `json:"id"`
	OrderIndex int      `json:"order_index"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	MediaRefs  []string `json:"media_references,omitempty"`
}

// SegmentID builds a stable segment identifier from the order index and a
// slug of the title, e.g. "03_material_transmission". The numeric prefix is
// zero-padded to two digits and grows beyond that for large corpora, so IDs
// stay distinct at any segment count.
func SegmentID(orderIndex int, title string) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "untitled"
	}
	return fmt.Sprintf("%02d_%s", orderIndex+1, slug)
}

// Slugify lowercases the title and replaces runs of non-alphanumeric
// characters with single underscores.
func Slugify(title string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
