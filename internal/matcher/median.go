package matcher

import (
	"math"
	"sort"

	"inkpick/internal/geom"
)

const (
	// gridSize is the side of the square grid strokes are rescaled
	// into before comparison.
	gridSize = 256

	// samplePoints is the number of points each stroke is resampled to.
	samplePoints = 8

	// strokeCountPenalty is the distance added per missing or extra
	// stroke. One grid diagonal keeps count mismatches dominant over
	// shape noise.
	strokeCountPenalty = 362
)

// sampled is a stroke resampled to samplePoints points in grid space.
type sampled [samplePoints]vec

type vec struct{ x, y float64 }

type entry struct {
	character string
	medians   []sampled
}

// MedianMatcher ranks characters by comparing drawn strokes against their
// median skeletons.
type MedianMatcher struct {
	entries []entry
}

// NewMedianMatcher builds a matcher from character data. Median skeletons
// are rescaled and resampled once, up front.
func NewMedianMatcher(chars []CharacterData) *MedianMatcher {
	m := &MedianMatcher{entries: make([]entry, 0, len(chars))}
	for _, c := range chars {
		m.entries = append(m.entries, entry{
			character: c.Character,
			medians:   prepare(c.Medians),
		})
	}
	return m
}

// Len returns the number of characters the matcher knows.
func (m *MedianMatcher) Len() int { return len(m.entries) }

// Match implements Matcher. An empty stroke set matches nothing.
func (m *MedianMatcher) Match(strokes geom.Collection, limit int) []Candidate {
	if limit <= 0 || len(strokes) == 0 || len(m.entries) == 0 {
		return []Candidate{}
	}
	drawn := prepare(strokes)

	out := make([]Candidate, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, Candidate{
			Character: e.character,
			Score:     -distance(drawn, e.medians),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// prepare rescales a stroke set into grid space and resamples each stroke.
func prepare(strokes geom.Collection) []sampled {
	b := strokes.Bounds()
	scale := 1.0
	if ext := math.Max(float64(b.Width()), float64(b.Height())); ext > 0 {
		scale = gridSize / ext
	}
	out := make([]sampled, 0, len(strokes))
	for _, s := range strokes {
		if len(s) == 0 {
			continue
		}
		pts := make([]vec, len(s))
		for i, p := range s {
			pts[i] = vec{
				x: (float64(p.X) - float64(b.Min.X)) * scale,
				y: (float64(p.Y) - float64(b.Min.Y)) * scale,
			}
		}
		out = append(out, resample(pts))
	}
	return out
}

// resample spreads samplePoints points evenly along the polyline's arc
// length. A single-point stroke repeats its point.
func resample(pts []vec) sampled {
	var out sampled
	if len(pts) == 1 {
		for i := range out {
			out[i] = pts[0]
		}
		return out
	}

	total := 0.0
	segs := make([]float64, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		segs[i-1] = dist(pts[i-1], pts[i])
		total += segs[i-1]
	}
	if total == 0 {
		for i := range out {
			out[i] = pts[0]
		}
		return out
	}

	step := total / float64(samplePoints-1)
	out[0] = pts[0]
	seg, covered := 0, 0.0
	for i := 1; i < samplePoints-1; i++ {
		target := step * float64(i)
		for seg < len(segs)-1 && covered+segs[seg] < target {
			covered += segs[seg]
			seg++
		}
		t := 0.0
		if segs[seg] > 0 {
			t = (target - covered) / segs[seg]
		}
		out[i] = vec{
			x: pts[seg].x + (pts[seg+1].x-pts[seg].x)*t,
			y: pts[seg].y + (pts[seg+1].y-pts[seg].y)*t,
		}
	}
	out[samplePoints-1] = pts[len(pts)-1]
	return out
}

// distance sums pointwise distances over paired strokes and penalizes the
// stroke count difference.
func distance(drawn, medians []sampled) float64 {
	n := len(drawn)
	if len(medians) < n {
		n = len(medians)
	}
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < samplePoints; j++ {
			total += dist(drawn[i][j], medians[i][j])
		}
	}
	diff := len(drawn) - len(medians)
	if diff < 0 {
		diff = -diff
	}
	return total + float64(diff)*strokeCountPenalty
}

func dist(a, b vec) float64 {
	return math.Hypot(a.x-b.x, a.y-b.y)
}
