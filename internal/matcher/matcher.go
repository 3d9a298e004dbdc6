// Package matcher ranks candidate characters against a drawn stroke set.
//
// The shipped implementation compares drawn strokes to per-character
// median skeletons: every stroke is rescaled into a common grid and
// resampled to a fixed number of points, and characters are ranked by
// summed point distance with a penalty for mismatched stroke counts.
package matcher

import "inkpick/internal/geom"

// Candidate is one ranked match. Higher scores are better.
type Candidate struct {
	Character string  `json:"character"`
	Score     float64 `json:"score"`
}

// Matcher scores candidate characters against a stroke collection and
// returns at most limit candidates, best first. Match is a pure function
// of its inputs.
type Matcher interface {
	Match(strokes geom.Collection, limit int) []Candidate
}
