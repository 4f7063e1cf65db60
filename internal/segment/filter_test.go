package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

var filterSegments = []model.Segment{
	{ID: "01_kitchen", OrderIndex: 0, Title: "Kitchen", Body: "Resztki jedzenia znaleziono pod stołem."},
	{ID: "02_office", OrderIndex: 1, Title: "Office", Body: "Paperwork was filed on time."},
	{ID: "03_basement", OrderIndex: 2, Title: "Basement RESZTKI", Body: "Nothing notable.", MediaRefs: []string{"https://files.example.com/x.png"}},
}

func TestFilter_NilPredicateKeepsAll(t *testing.T) {
	out := Filter(filterSegments, nil)
	assert.Equal(t, filterSegments, out)
}

func TestFilter_PreservesOrder(t *testing.T) {
	out := Filter(filterSegments, func(s model.Segment) bool { return s.OrderIndex != 1 })
	require.Len(t, out, 2)
	assert.Equal(t, "01_kitchen", out[0].ID)
	assert.Equal(t, "03_basement", out[1].ID)
}

func TestKeywordPredicate_CaseInsensitiveByDefault(t *testing.T) {
	pred := KeywordPredicate("resztki", false)
	out := Filter(filterSegments, pred)
	require.Len(t, out, 2)
	assert.Equal(t, "01_kitchen", out[0].ID)
	assert.Equal(t, "03_basement", out[1].ID)
}

func TestKeywordPredicate_CaseSensitive(t *testing.T) {
	pred := KeywordPredicate("Resztki", true)
	out := Filter(filterSegments, pred)
	require.Len(t, out, 1)
	assert.Equal(t, "01_kitchen", out[0].ID)
}

func TestKeywordPredicate_MatchesTitle(t *testing.T) {
	pred := KeywordPredicate("office", false)
	out := Filter(filterSegments, pred)
	require.Len(t, out, 1)
	assert.Equal(t, "02_office", out[0].ID)
}

func TestKeywordPredicate_UnicodeFolding(t *testing.T) {
	segs := []model.Segment{{Title: "Straße", Body: ""}}
	assert.Len(t, Filter(segs, KeywordPredicate("STRASSE", false)), 1)
}

func TestKeywordPredicate_EmptyKeywordIsNil(t *testing.T) {
	assert.Nil(t, KeywordPredicate("", false))
}

func TestKeywordPredicate_NoMatches(t *testing.T) {
	out := Filter(filterSegments, KeywordPredicate("nonexistent-keyword", false))
	assert.Empty(t, out)
}

func TestWithMediaRefs(t *testing.T) {
	out := Filter(filterSegments, WithMediaRefs())
	require.Len(t, out, 1)
	assert.Equal(t, "03_basement", out[0].ID)
}
