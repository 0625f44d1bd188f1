// Package composer merges the four independent scores into the final proof
// score and validity flag.
package composer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scores are the four composer inputs, each expected in [0,1].
type Scores struct {
	Authenticity float64
	Ownership    float64
	Uniqueness   float64
	Quality      float64
}

// Weights are the relative importance of each score. They need not sum to 1;
// the weighted sum is normalized by their total.
type Weights struct {
	Authenticity float64
	Ownership    float64
	Uniqueness   float64
	Quality      float64
}

// DefaultWeights weighs all four scores equally.
func DefaultWeights() Weights {
	return Weights{Authenticity: 0.25, Ownership: 0.25, Uniqueness: 0.25, Quality: 0.25}
}

func (w Weights) total() float64 {
	return w.Authenticity + w.Ownership + w.Uniqueness + w.Quality
}

// ParseWeights reads "authenticity=0.4,quality=0.2,..." on top of the defaults.
func ParseWeights(raw string) (Weights, error) {
	w := DefaultWeights()
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return w, nil
	}

	for _, part := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return Weights{}, fmt.Errorf("weight %q: expected name=value", part)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return Weights{}, fmt.Errorf("weight %q: invalid value", part)
		}
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "authenticity":
			w.Authenticity = f
		case "ownership":
			w.Ownership = f
		case "uniqueness":
			w.Uniqueness = f
		case "quality":
			w.Quality = f
		default:
			return Weights{}, fmt.Errorf("weight %q: unknown score", name)
		}
	}
	if w.total() <= 0 {
		return Weights{}, fmt.Errorf("weights must not all be zero")
	}
	return w, nil
}

// Compose returns the weighted score rounded to 5 decimals and whether the
// submission is valid. Validity requires full authenticity.
func Compose(s Scores, w Weights) (float64, bool) {
	valid := s.Authenticity >= 1.0

	total := w.total()
	if total <= 0 {
		return 0, valid
	}
	sum := w.Authenticity*clamp(s.Authenticity) +
		w.Ownership*clamp(s.Ownership) +
		w.Uniqueness*clamp(s.Uniqueness) +
		w.Quality*clamp(s.Quality)
	return math.Round(sum/total*1e5) / 1e5, valid
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
