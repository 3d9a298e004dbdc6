package main

import (
	"sync"

	"gioui.org/app"

	"inkpick/internal/geom"
	"inkpick/internal/render"
)

// segment is one drawn line in canonical space.
type segment struct {
	p1, p2 geom.Point
}

// visualStroke is the retained geometry for one stroke on the canvas.
type visualStroke struct {
	segments []segment
	bounds   geom.Rect
	cached   bool
}

// canvasSink implements render.Sink over a retained segment list that the
// canvas replays each frame. gio is immediate mode, so "caching" a stroke
// just freezes its geometry; the per-frame replay stays cheap because
// committed strokes never change.
type canvasSink struct {
	mu      sync.Mutex
	win     *app.Window
	strokes []*visualStroke
}

var _ render.Sink = (*canvasSink)(nil)

func newCanvasSink(win *app.Window) *canvasSink {
	return &canvasSink{win: win}
}

func (c *canvasSink) AddStroke() render.StrokeHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strokes = append(c.strokes, &visualStroke{})
	return render.StrokeHandle(len(c.strokes) - 1)
}

func (c *canvasSink) RemoveLastStroke() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.strokes) > 0 {
		c.strokes = c.strokes[:len(c.strokes)-1]
	}
}

func (c *canvasSink) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.strokes = nil
}

func (c *canvasSink) DrawSegment(h render.StrokeHandle, p1, p2 geom.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := int(h)
	if i < 0 || i >= len(c.strokes) {
		return
	}
	c.strokes[i].segments = append(c.strokes[i].segments, segment{p1, p2})
}

func (c *canvasSink) CacheStroke(h render.StrokeHandle, bounds geom.Rect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := int(h)
	if i < 0 || i >= len(c.strokes) {
		return
	}
	c.strokes[i].bounds = bounds
	c.strokes[i].cached = true
}

func (c *canvasSink) Refresh() {
	c.win.Invalidate()
}

// allSegments returns a copy of all retained segments for painting.
func (c *canvasSink) allSegments() []segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []segment
	for _, s := range c.strokes {
		out = append(out, s.segments...)
	}
	return out
}
