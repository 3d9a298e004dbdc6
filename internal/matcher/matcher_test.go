package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpick/internal/geom"
)

// testChars is a tiny character set with distinguishable shapes:
// a single horizontal bar, two stacked bars, and a vertical line.
func testChars() []CharacterData {
	return []CharacterData{
		{
			Character: "一",
			Medians:   []geom.Stroke{{{X: 0, Y: 128}, {X: 256, Y: 128}}},
		},
		{
			Character: "二",
			Medians: []geom.Stroke{
				{{X: 16, Y: 80}, {X: 240, Y: 80}},
				{{X: 0, Y: 176}, {X: 256, Y: 176}},
			},
		},
		{
			Character: "丨",
			Medians:   []geom.Stroke{{{X: 128, Y: 0}, {X: 128, Y: 256}}},
		},
	}
}

func TestMatchRanksMatchingShapeFirst(t *testing.T) {
	m := NewMedianMatcher(testChars())

	// A single horizontal stroke.
	horizontal := geom.Collection{{{X: 10, Y: 50}, {X: 60, Y: 50}, {X: 110, Y: 50}}}
	got := m.Match(horizontal, 8)
	require.NotEmpty(t, got)
	assert.Equal(t, "一", got[0].Character)

	// A single vertical stroke.
	vertical := geom.Collection{{{X: 50, Y: 10}, {X: 50, Y: 110}}}
	got = m.Match(vertical, 8)
	require.NotEmpty(t, got)
	assert.Equal(t, "丨", got[0].Character)
}

func TestMatchPrefersMatchingStrokeCount(t *testing.T) {
	m := NewMedianMatcher(testChars())

	twoBars := geom.Collection{
		{{X: 10, Y: 30}, {X: 110, Y: 30}},
		{{X: 10, Y: 70}, {X: 110, Y: 70}},
	}
	got := m.Match(twoBars, 8)
	require.NotEmpty(t, got)
	assert.Equal(t, "二", got[0].Character)
}

func TestMatchHonorsLimit(t *testing.T) {
	m := NewMedianMatcher(testChars())
	strokes := geom.Collection{{{X: 0, Y: 0}, {X: 10, Y: 10}}}

	assert.Len(t, m.Match(strokes, 2), 2)
	assert.Len(t, m.Match(strokes, 8), 3, "limit above corpus size returns everything")
	assert.Empty(t, m.Match(strokes, 0))
}

func TestMatchEmptyStrokes(t *testing.T) {
	m := NewMedianMatcher(testChars())
	assert.Empty(t, m.Match(nil, 8))
	assert.Empty(t, m.Match(geom.Collection{}, 8))
}

func TestMatchIsScaleInvariant(t *testing.T) {
	m := NewMedianMatcher(testChars())

	small := geom.Collection{{{X: 0, Y: 5}, {X: 20, Y: 5}}}
	large := geom.Collection{{{X: 0, Y: 50}, {X: 200, Y: 50}}}

	a := m.Match(small, 3)
	b := m.Match(large, 3)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].Character, b[i].Character)
	}
}

func TestMatchIsPure(t *testing.T) {
	m := NewMedianMatcher(testChars())
	strokes := geom.Collection{{{X: 0, Y: 0}, {X: 50, Y: 0}}}

	first := m.Match(strokes, 8)
	second := m.Match(strokes, 8)
	assert.Equal(t, first, second)
}

func TestResampleEndpoints(t *testing.T) {
	pts := []vec{{0, 0}, {100, 0}}
	s := resample(pts)
	assert.Equal(t, vec{0, 0}, s[0])
	assert.Equal(t, vec{100, 0}, s[samplePoints-1])
	// Interior points are spread along the segment.
	for i := 1; i < samplePoints-1; i++ {
		assert.Greater(t, s[i].x, s[i-1].x)
	}
}

func TestResampleDegenerateStroke(t *testing.T) {
	s := resample([]vec{{5, 5}})
	for _, p := range s {
		assert.Equal(t, vec{5, 5}, p)
	}

	s = resample([]vec{{5, 5}, {5, 5}})
	for _, p := range s {
		assert.Equal(t, vec{5, 5}, p)
	}
}
