// Package capture turns raw pointer input into committed strokes.
//
// A Session owns the committed-stroke collection and the single in-progress
// stroke for one drawing surface. Pointer events drive a two-state machine
// (idle, drawing); undo and clear mutate the committed collection directly.
// Every committed mutation is announced synchronously to subscribers, so a
// subscriber always observes the mutation's final state and never an
// intermediate one.
package capture

import (
	"sync"

	"inkpick/internal/geom"
	"inkpick/internal/render"
)

// State is the capture state machine's current state.
type State int

const (
	// StateIdle means no gesture is in progress.
	StateIdle State = iota
	// StateDrawing means a pointer is down and an in-progress stroke
	// is being built.
	StateDrawing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	default:
		return "unknown"
	}
}

// Subscriber receives the committed-stroke collection after every committed
// mutation (append, undo, clear), together with a revision number that
// increments once per mutation. Callbacks run synchronously inside the
// mutating call and must not call back into the Session.
type Subscriber func(strokes geom.Collection, revision uint64)

// Session captures strokes for one drawing surface.
//
// The session is created on surface mount and closed on unmount. All state
// lives on the session itself, so multiple sessions can coexist without
// interference.
type Session struct {
	mu   sync.Mutex
	norm *geom.Normalizer
	sink render.Sink

	state    State
	strokes  geom.Collection
	current  geom.Stroke
	handle   render.StrokeHandle
	revision uint64

	subs   []Subscriber
	closed bool
}

// NewSession creates a session over the given normalizer and render sink.
// A nil sink renders nowhere.
func NewSession(norm *geom.Normalizer, sink render.Sink) *Session {
	if sink == nil {
		sink = render.NullSink{}
	}
	return &Session{norm: norm, sink: sink}
}

// Subscribe registers a subscriber for committed mutations.
func (s *Session) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// PointerDown starts a new gesture at the given raw pixel position.
// Ignored unless the session is idle.
func (s *Session) PointerDown(px, py float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateIdle {
		return
	}
	s.state = StateDrawing
	s.current = make(geom.Stroke, 0, 32)
	s.handle = s.sink.AddStroke()
	if p, ok := s.norm.Normalize(px, py); ok {
		s.appendLocked(p)
	}
	s.sink.Refresh()
}

// PointerMove extends the in-progress stroke. The move's origin and
// destination are both raw pixel positions; on the first move of a gesture
// the origin is appended as an extra leading point, which captures short
// gestures whose down event landed elsewhere. An origin that normalizes to
// the down point is not duplicated. Ignored unless drawing.
func (s *Session) PointerMove(fromX, fromY, toX, toY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateDrawing {
		return
	}
	if len(s.current) == 1 {
		if p, ok := s.norm.Normalize(fromX, fromY); ok && p != s.current[0] {
			s.appendLocked(p)
		}
	}
	if p, ok := s.norm.Normalize(toX, toY); ok {
		s.appendLocked(p)
	}
	s.sink.Refresh()
}

// appendLocked appends a normalized point to the in-progress stroke and
// draws the segment to its predecessor once one exists.
func (s *Session) appendLocked(p geom.Point) {
	s.current = append(s.current, p)
	if n := len(s.current); n >= 2 {
		s.sink.DrawSegment(s.handle, s.current[n-2], s.current[n-1])
	}
}

// PointerUp ends the gesture. Strokes with at least two points are
// committed to the collection; shorter ones are discarded as accidental
// taps and their empty visual is removed. This is the sole operation that
// grows the committed collection.
func (s *Session) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateDrawing {
		return
	}
	committed := len(s.current) >= 2
	if committed {
		stroke := s.current.Clone()
		s.strokes = append(s.strokes, stroke)
		s.sink.CacheStroke(s.handle, stroke.Bounds())
	} else {
		s.sink.RemoveLastStroke()
	}
	s.current = nil
	s.state = StateIdle
	s.sink.Refresh()
	if committed {
		s.announceLocked()
	}
}

// Undo removes the last committed stroke. Any in-progress gesture is
// discarded first. Undo on an empty collection is a silent no-op.
func (s *Session) Undo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.discardLocked()
	if len(s.strokes) == 0 {
		s.sink.Refresh()
		return
	}
	s.strokes = s.strokes[:len(s.strokes)-1]
	s.sink.RemoveLastStroke()
	s.sink.Refresh()
	s.announceLocked()
}

// Clear empties the committed collection. Any in-progress gesture is
// discarded first. Clear on an already-empty collection is a silent no-op
// apart from resetting the surface.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.discardLocked()
	s.sink.ClearAll()
	s.sink.Refresh()
	if len(s.strokes) == 0 {
		return
	}
	s.strokes = nil
	s.announceLocked()
}

// discardLocked forces the state machine to idle, throwing away any
// in-progress stroke without committing it.
func (s *Session) discardLocked() {
	if s.state != StateDrawing {
		return
	}
	s.sink.RemoveLastStroke()
	s.current = nil
	s.state = StateIdle
}

// announceLocked bumps the revision and notifies subscribers with the new
// collection. Mutation and announcement form one atomic step, so a
// subscriber-triggered recompute observes the final state.
func (s *Session) announceLocked() {
	s.revision++
	snapshot := s.strokes.Clone()
	for _, fn := range s.subs {
		fn(snapshot, s.revision)
	}
}

// Snapshot returns the committed collection and its revision.
func (s *Session) Snapshot() (geom.Collection, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strokes.Clone(), s.revision
}

// Strokes returns a copy of the committed collection.
func (s *Session) Strokes() geom.Collection {
	c, _ := s.Snapshot()
	return c
}

// State returns the state machine's current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close discards in-progress state and detaches subscribers. All later
// calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.discardLocked()
	s.subs = nil
	s.closed = true
}
