// Package recompute keeps the candidate list in sync with the committed
// stroke collection.
//
// The stroke source is an explicit subject the graph subscribes to. The
// graph re-runs the matcher synchronously on every committed mutation, and
// only then: in-progress stroke changes and zoom changes never reach it.
package recompute

import (
	"sync"

	"inkpick/internal/capture"
	"inkpick/internal/geom"
	"inkpick/internal/logging"
	"inkpick/internal/matcher"
)

// DefaultLimit is the number of candidates requested per recompute.
const DefaultLimit = 8

// Source supplies the committed stroke collection. *capture.Session
// satisfies it.
type Source interface {
	Subscribe(capture.Subscriber)
	Snapshot() (geom.Collection, uint64)
}

// Provider supplies the matcher once its backing data has loaded. Until
// then the second return value is false and the graph stays inert.
type Provider interface {
	Matcher() (matcher.Matcher, bool)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func() (matcher.Matcher, bool)

// Matcher implements Provider.
func (f ProviderFunc) Matcher() (matcher.Matcher, bool) { return f() }

// Graph owns the candidate list and the rule that it always reflects the
// matcher's output for the current stroke collection. The list is replaced
// wholesale on every recompute, never patched.
type Graph struct {
	mu       sync.Mutex
	source   Source
	provider Provider
	limit    int
	log      *logging.Logger

	candidates []matcher.Candidate
	lastRev    uint64
	hasRun     bool

	onChange []func([]matcher.Candidate)
}

// New creates a graph over the given stroke source and matcher provider
// and subscribes it to the source. A non-positive limit falls back to
// DefaultLimit.
func New(source Source, provider Provider, limit int, log *logging.Logger) *Graph {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if log == nil {
		log = logging.Default()
	}
	g := &Graph{
		source:   source,
		provider: provider,
		limit:    limit,
		log:      log.WithComponent("recompute"),
	}
	source.Subscribe(g.observe)
	return g
}

// observe runs on every committed mutation of the source.
func (g *Graph) observe(strokes geom.Collection, rev uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runLocked(strokes, rev)
}

// Recompute re-derives the candidate list from the source's current state.
// Called when the matcher becomes available so strokes accumulated while
// it was loading are matched. Idempotent: without an intervening mutation
// the matcher is not invoked again.
func (g *Graph) Recompute() {
	strokes, rev := g.source.Snapshot()
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runLocked(strokes, rev)
}

func (g *Graph) runLocked(strokes geom.Collection, rev uint64) {
	m, ready := g.provider.Matcher()
	if !ready {
		g.log.Debug("matcher not ready, recompute suspended", "revision", rev)
		return
	}
	// Revisions are monotonic. A snapshot taken before the latest
	// observed mutation is stale; replacing the list with it would
	// publish outdated candidates, so anything at or below lastRev is
	// skipped.
	if g.hasRun && rev <= g.lastRev {
		return
	}
	list := m.Match(strokes, g.limit)
	g.candidates = list
	g.lastRev = rev
	g.hasRun = true
	for _, fn := range g.onChange {
		fn(list)
	}
}

// SetLimit changes the candidate limit. The next Recompute re-runs the
// matcher even without an intervening mutation, so the new limit takes
// effect immediately.
func (g *Graph) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	g.mu.Lock()
	if limit != g.limit {
		g.limit = limit
		g.hasRun = false
	}
	g.mu.Unlock()
}

// OnChange registers a callback invoked with each freshly published
// candidate list. Callbacks run synchronously inside the recompute.
func (g *Graph) OnChange(fn func([]matcher.Candidate)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = append(g.onChange, fn)
}

// Candidates returns the current candidate list.
func (g *Graph) Candidates() []matcher.Candidate {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]matcher.Candidate, len(g.candidates))
	copy(out, g.candidates)
	return out
}
