// Package render declares the sink interface the capture pipeline draws
// through. Sinks consume strokes and produce no state of their own;
// rendering failures never propagate back into the pipeline.
package render

import "inkpick/internal/geom"

// StrokeHandle identifies one visual stroke inside a sink.
type StrokeHandle int

// Sink receives fire-and-forget drawing side effects from the capture
// session. Implementations must tolerate calls in any order, including
// removals on an already-empty surface.
type Sink interface {
	// AddStroke creates a new empty visual stroke and returns its handle.
	AddStroke() StrokeHandle

	// RemoveLastStroke removes the most recently added visual stroke.
	// A no-op when the surface is empty.
	RemoveLastStroke()

	// ClearAll removes every visual stroke.
	ClearAll()

	// DrawSegment appends a line segment to the stroke identified by h.
	DrawSegment(h StrokeHandle, p1, p2 geom.Point)

	// CacheStroke marks the stroke as finished so the surface may
	// rasterize or otherwise cache it for faster redraws.
	CacheStroke(h StrokeHandle, bounds geom.Rect)

	// Refresh schedules a redraw of the surface.
	Refresh()
}

// NullSink discards all drawing operations. Useful for headless use and
// as a default when no surface is attached.
type NullSink struct{}

var _ Sink = NullSink{}

func (NullSink) AddStroke() StrokeHandle                      { return 0 }
func (NullSink) RemoveLastStroke()                            {}
func (NullSink) ClearAll()                                    {}
func (NullSink) DrawSegment(StrokeHandle, geom.Point, geom.Point) {}
func (NullSink) CacheStroke(StrokeHandle, geom.Rect)          {}
func (NullSink) Refresh()                                     {}
