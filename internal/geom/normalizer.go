package geom

import (
	"errors"
	"math"
	"sync"
)

// ErrInvalidZoom is returned when a zoom factor is not a positive, finite
// number. A non-positive zoom is a programming error in the layout code and
// must fail fast rather than produce NaN coordinates downstream.
var ErrInvalidZoom = errors.New("geom: zoom factor must be positive and finite")

// Normalizer maps raw display-pixel coordinates into canonical space by
// dividing out the current zoom factor and rounding.
//
// Malformed raw coordinates (NaN or infinite, the Go analog of a null
// coordinate on a bad input event) are dropped silently; the drop is
// counted so swallowed input stays diagnosable.
type Normalizer struct {
	mu      sync.Mutex
	zoom    float64
	dropped uint64
}

// NewNormalizer creates a Normalizer with the given zoom factor.
func NewNormalizer(zoom float64) (*Normalizer, error) {
	if !validZoom(zoom) {
		return nil, ErrInvalidZoom
	}
	return &Normalizer{zoom: zoom}, nil
}

// SetZoom updates the zoom factor. Layout code calls this whenever the
// canvas is resized.
func (n *Normalizer) SetZoom(zoom float64) error {
	if !validZoom(zoom) {
		return ErrInvalidZoom
	}
	n.mu.Lock()
	n.zoom = zoom
	n.mu.Unlock()
	return nil
}

// Zoom returns the current zoom factor.
func (n *Normalizer) Zoom() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.zoom
}

// Normalize maps a raw pixel coordinate into canonical space. The second
// return value is false when the raw coordinate is malformed; such points
// never enter a stroke.
func (n *Normalizer) Normalize(px, py float64) (Point, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !finite(px) || !finite(py) {
		n.dropped++
		return Point{}, false
	}
	return Point{
		X: roundToInt(px / n.zoom),
		Y: roundToInt(py / n.zoom),
	}, true
}

// Dropped returns the number of malformed points dropped so far.
func (n *Normalizer) Dropped() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.dropped
}

func validZoom(z float64) bool {
	return z > 0 && finite(z)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func roundToInt(f float64) int {
	return int(math.Round(f))
}
