// Package geom defines the canonical, zoom-independent coordinate space that
// captured strokes are stored in, decoupled from on-screen pixel size.
package geom

import (
	"encoding/json"
	"fmt"
)

// Point is a position in canonical space. Coordinates are always integral
// and finite after normalization.
type Point struct {
	X int
	Y int
}

// MarshalJSON encodes the point as a two-element [x, y] array, the layout
// used by stroke data files.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element [x, y] array. Fractional coordinates
// are rounded so that points stay integral in canonical space.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw [2]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode point: %w", err)
	}
	p.X = roundToInt(raw[0])
	p.Y = roundToInt(raw[1])
	return nil
}

// Stroke is one continuous pen-down-to-pen-up gesture as an ordered point
// sequence. Insertion order defines the drawn line segments.
type Stroke []Point

// Clone returns an independent copy of the stroke.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Bounds returns the smallest rectangle containing every point of the
// stroke. The zero Rect is returned for an empty stroke.
func (s Stroke) Bounds() Rect {
	if len(s) == 0 {
		return Rect{}
	}
	r := Rect{Min: s[0], Max: s[0]}
	for _, p := range s[1:] {
		if p.X < r.Min.X {
			r.Min.X = p.X
		}
		if p.Y < r.Min.Y {
			r.Min.Y = p.Y
		}
		if p.X > r.Max.X {
			r.Max.X = p.X
		}
		if p.Y > r.Max.Y {
			r.Max.Y = p.Y
		}
	}
	return r
}

// Rect is an axis-aligned rectangle in canonical space.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() int { return r.Max.X - r.Min.X }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() int { return r.Max.Y - r.Min.Y }

// Collection is an ordered sequence of committed strokes. Order is
// significant: matchers may weight stroke order, and undo removes the
// last stroke first.
type Collection []Stroke

// Clone returns a copy of the collection. Committed strokes are treated as
// immutable, so only the outer sequence is copied.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

// Bounds returns the smallest rectangle containing every point of every
// stroke in the collection.
func (c Collection) Bounds() Rect {
	var r Rect
	first := true
	for _, s := range c {
		if len(s) == 0 {
			continue
		}
		b := s.Bounds()
		if first {
			r = b
			first = false
			continue
		}
		if b.Min.X < r.Min.X {
			r.Min.X = b.Min.X
		}
		if b.Min.Y < r.Min.Y {
			r.Min.Y = b.Min.Y
		}
		if b.Max.X > r.Max.X {
			r.Max.X = b.Max.X
		}
		if b.Max.Y > r.Max.Y {
			r.Max.Y = b.Max.Y
		}
	}
	return r
}

// PointCount returns the total number of points across all strokes.
func (c Collection) PointCount() int {
	n := 0
	for _, s := range c {
		n += len(s)
	}
	return n
}
