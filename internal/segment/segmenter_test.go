package segment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCorpus = `Preamble text before any section is ignored.

Storage room
------------

The inspection found leftover food containers behind the shelving.
See https://files.example.com/photo_01.png for details.

Access log
----------

Night shift access was recorded at 02:13.

Empty section
-------------
`

func newTestSegmenter() *Segmenter {
	return NewSegmenter(regexp.MustCompile(`https://files\.example\.com[^\s"')]*\.png`))
}

func TestSplit_TitleDashGrammar(t *testing.T) {
	segments, err := newTestSegmenter().Split(sampleCorpus)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "Storage room", segments[0].Title)
	assert.Equal(t, "01_storage_room", segments[0].ID)
	assert.Equal(t, 0, segments[0].OrderIndex)
	assert.Contains(t, segments[0].Body, "leftover food containers")
	assert.NotContains(t, segments[0].Body, "Preamble")

	assert.Equal(t, "Access log", segments[1].Title)
	assert.Equal(t, 1, segments[1].OrderIndex)

	assert.Equal(t, "Empty section", segments[2].Title)
	assert.Equal(t, "", segments[2].Body)
}

func TestSplit_OrderIndexesAreGapless(t *testing.T) {
	segments, err := newTestSegmenter().Split(sampleCorpus)
	require.NoError(t, err)
	for i, s := range segments {
		assert.Equal(t, i, s.OrderIndex)
	}
}

func TestSplit_MediaRefsDetected(t *testing.T) {
	segments, err := newTestSegmenter().Split(sampleCorpus)
	require.NoError(t, err)

	require.Len(t, segments[0].MediaRefs, 1)
	assert.Equal(t, "https://files.example.com/photo_01.png", segments[0].MediaRefs[0])
	assert.Empty(t, segments[1].MediaRefs)
}

func TestSplit_NilMediaPattern(t *testing.T) {
	segments, err := NewSegmenter(nil).Split(sampleCorpus)
	require.NoError(t, err)
	assert.Empty(t, segments[0].MediaRefs)
}

func TestSplit_NoTitles(t *testing.T) {
	segments, err := newTestSegmenter().Split("just prose\nwith no underlines\nat all")
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSplit_EmptyInput(t *testing.T) {
	segments, err := newTestSegmenter().Split("")
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestSplit_UnderlineLengthNotValidated(t *testing.T) {
	segments, err := newTestSegmenter().Split("A very long section title\n-\nbody text")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, "A very long section title", segments[0].Title)
	assert.Equal(t, "body text", segments[0].Body)
}

// A dash underline below a blank line is a delimiter with no title; text
// collected before it is dropped rather than attributed to a phantom segment.
func TestSplit_EmptyTitleDiscards(t *testing.T) {
	corpus := "Real title\n----------\nkept body\n\n----\norphan text\n\nNext title\n----------\nnext body"
	segments, err := newTestSegmenter().Split(corpus)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "Real title", segments[0].Title)
	assert.Equal(t, "Next title", segments[1].Title)
	assert.NotContains(t, segments[1].Body, "orphan")
}

func TestSplit_InvalidUTF8(t *testing.T) {
	_, err := newTestSegmenter().Split("title\n-----\n\xff\xfe broken")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedCorpus)
}

func TestSplit_DuplicateTitlesGetDistinctIDs(t *testing.T) {
	corpus := "Notes\n-----\nfirst\n\nNotes\n-----\nsecond"
	segments, err := newTestSegmenter().Split(corpus)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "01_notes", segments[0].ID)
	assert.Equal(t, "02_notes", segments[1].ID)
}

func TestSplit_RenderRoundTrip(t *testing.T) {
	seg := newTestSegmenter()
	first, err := seg.Split(sampleCorpus)
	require.NoError(t, err)

	second, err := seg.Split(Render(first))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplit_Deterministic(t *testing.T) {
	seg := newTestSegmenter()
	a, err := seg.Split(sampleCorpus)
	require.NoError(t, err)
	b, err := seg.Split(sampleCorpus)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
