package recompute

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpick/internal/capture"
	"inkpick/internal/geom"
	"inkpick/internal/matcher"
)

// countingMatcher returns one candidate per committed stroke and counts
// invocations.
type countingMatcher struct {
	calls int
}

func (m *countingMatcher) Match(strokes geom.Collection, limit int) []matcher.Candidate {
	m.calls++
	out := make([]matcher.Candidate, 0, limit)
	for i := range strokes {
		if len(out) == limit {
			break
		}
		out = append(out, matcher.Candidate{
			Character: fmt.Sprintf("c%d", i),
			Score:     -float64(i),
		})
	}
	return out
}

func newPipeline(t *testing.T, ready bool) (*capture.Session, *Graph, *countingMatcher, *bool) {
	t.Helper()
	norm, err := geom.NewNormalizer(1)
	require.NoError(t, err)
	sess := capture.NewSession(norm, nil)

	m := &countingMatcher{}
	isReady := ready
	g := New(sess, ProviderFunc(func() (matcher.Matcher, bool) {
		if !isReady {
			return nil, false
		}
		return m, true
	}), 8, nil)
	return sess, g, m, &isReady
}

func draw(sess *capture.Session, x, y float64) {
	sess.PointerDown(x, y)
	sess.PointerMove(x, y, x+10, y+10)
	sess.PointerUp()
}

func TestRecomputeOnCommit(t *testing.T) {
	sess, g, m, _ := newPipeline(t, true)

	draw(sess, 0, 0)
	assert.Equal(t, 1, m.calls)
	assert.Len(t, g.Candidates(), 1)

	draw(sess, 50, 0)
	assert.Equal(t, 2, m.calls)
	assert.Len(t, g.Candidates(), 2)
}

func TestNoRecomputeOnDiscardedStroke(t *testing.T) {
	sess, g, m, _ := newPipeline(t, true)

	sess.PointerDown(5, 5)
	sess.PointerUp() // single tap, discarded

	assert.Equal(t, 0, m.calls)
	assert.Empty(t, g.Candidates())
}

func TestNoRecomputeOnInProgressPoints(t *testing.T) {
	sess, _, m, _ := newPipeline(t, true)

	sess.PointerDown(0, 0)
	sess.PointerMove(0, 0, 5, 5)
	sess.PointerMove(5, 5, 9, 9)
	assert.Equal(t, 0, m.calls, "in-progress stroke changes must not recompute")
	sess.PointerUp()
	assert.Equal(t, 1, m.calls)
}

func TestRecomputeOnUndo(t *testing.T) {
	sess, g, m, _ := newPipeline(t, true)

	draw(sess, 0, 0)
	draw(sess, 50, 0)
	require.Len(t, g.Candidates(), 2)

	sess.Undo()
	assert.Equal(t, 3, m.calls)
	assert.Len(t, g.Candidates(), 1, "candidates recomputed against one-stroke input")
}

func TestRecomputeOnClear(t *testing.T) {
	sess, g, m, _ := newPipeline(t, true)

	draw(sess, 0, 0)
	sess.Clear()

	assert.Equal(t, 2, m.calls)
	assert.Empty(t, g.Candidates(), "candidate list reflects the empty stroke set")
}

func TestRecomputeIdempotence(t *testing.T) {
	sess, g, m, _ := newPipeline(t, true)

	draw(sess, 0, 0)
	before := g.Candidates()

	g.Recompute()
	g.Recompute()

	assert.Equal(t, 1, m.calls, "no mutation between calls: matcher not re-invoked")
	assert.Equal(t, before, g.Candidates())
}

func TestInertUntilMatcherReady(t *testing.T) {
	sess, g, m, ready := newPipeline(t, false)

	// Interaction is accepted while the matcher loads.
	draw(sess, 0, 0)
	draw(sess, 50, 0)
	sess.Undo()
	assert.Equal(t, 0, m.calls)
	assert.Empty(t, g.Candidates())

	// Once ready, an explicit recompute flushes the accumulated state.
	*ready = true
	g.Recompute()
	assert.Equal(t, 1, m.calls)
	assert.Len(t, g.Candidates(), 1)
}

func TestReadyRecomputeOnEmptyCollection(t *testing.T) {
	_, g, m, ready := newPipeline(t, false)

	*ready = true
	g.Recompute()
	assert.Equal(t, 1, m.calls, "first recompute runs even for the empty set")
	assert.Empty(t, g.Candidates())

	g.Recompute()
	assert.Equal(t, 1, m.calls)
}

func TestCandidateListReplacedWholesale(t *testing.T) {
	sess, g, _, _ := newPipeline(t, true)

	var published [][]matcher.Candidate
	g.OnChange(func(c []matcher.Candidate) { published = append(published, c) })

	draw(sess, 0, 0)
	draw(sess, 50, 0)
	sess.Clear()

	require.Len(t, published, 3)
	assert.Len(t, published[0], 1)
	assert.Len(t, published[1], 2)
	assert.Empty(t, published[2])
}

func TestLimitPassedToMatcher(t *testing.T) {
	norm, err := geom.NewNormalizer(1)
	require.NoError(t, err)
	sess := capture.NewSession(norm, nil)
	m := &countingMatcher{}
	g := New(sess, ProviderFunc(func() (matcher.Matcher, bool) { return m, true }), 2, nil)

	for i := 0; i < 4; i++ {
		draw(sess, float64(i*30), 0)
	}
	assert.Len(t, g.Candidates(), 2)
}

// settableSource is a Source whose snapshot and notifications are driven
// directly, so observe/Recompute interleavings can be replayed exactly.
type settableSource struct {
	sub     capture.Subscriber
	strokes geom.Collection
	rev     uint64
}

func (s *settableSource) Subscribe(fn capture.Subscriber)     { s.sub = fn }
func (s *settableSource) Snapshot() (geom.Collection, uint64) { return s.strokes.Clone(), s.rev }

func TestRecomputeIgnoresStaleSnapshot(t *testing.T) {
	src := &settableSource{}
	m := &countingMatcher{}
	g := New(src, ProviderFunc(func() (matcher.Matcher, bool) { return m, true }), 8, nil)

	// A commit is observed at revision 2 with two strokes.
	two := geom.Collection{{{X: 0, Y: 0}, {X: 10, Y: 0}}, {{X: 0, Y: 20}, {X: 10, Y: 20}}}
	src.strokes, src.rev = two, 2
	src.sub(two, 2)
	require.Equal(t, 1, m.calls)
	require.Len(t, g.Candidates(), 2)

	// A concurrent Recompute whose snapshot was taken before that commit
	// carries revision 1 and one stroke. It must not replace the fresh
	// list with the older state.
	src.strokes, src.rev = geom.Collection{{{X: 0, Y: 0}, {X: 10, Y: 0}}}, 1
	g.Recompute()

	assert.Equal(t, 1, m.calls, "stale snapshot must not reach the matcher")
	assert.Len(t, g.Candidates(), 2)

	// A newer revision still recomputes.
	three := geom.Collection{{{X: 0, Y: 0}, {X: 10, Y: 0}}, {{X: 0, Y: 20}, {X: 10, Y: 20}}, {{X: 0, Y: 40}, {X: 10, Y: 40}}}
	src.strokes, src.rev = three, 3
	src.sub(three, 3)
	assert.Equal(t, 2, m.calls)
	assert.Len(t, g.Candidates(), 3)
}

func TestSetLimitAppliesOnNextRecompute(t *testing.T) {
	sess, g, m, _ := newPipeline(t, true)

	for i := 0; i < 4; i++ {
		draw(sess, float64(i*30), 0)
	}
	require.Len(t, g.Candidates(), 4)

	g.SetLimit(2)
	g.Recompute()
	assert.Equal(t, 5, m.calls, "limit change forces one recompute")
	assert.Len(t, g.Candidates(), 2)

	// Unchanged limit keeps idempotence.
	g.SetLimit(2)
	g.Recompute()
	assert.Equal(t, 5, m.calls)
}

func TestDefaultLimit(t *testing.T) {
	norm, err := geom.NewNormalizer(1)
	require.NoError(t, err)
	sess := capture.NewSession(norm, nil)
	m := &countingMatcher{}
	g := New(sess, ProviderFunc(func() (matcher.Matcher, bool) { return m, true }), 0, nil)
	assert.Equal(t, DefaultLimit, g.limit)
}
