// Package contribution computes the weighted contribution score reported in
// proof attributes.
package contribution

import "dataproof/internal/proof/models"

const (
	// BonusThreshold is the contribution count above which Bonus is added.
	BonusThreshold = 4
	Bonus          = 5.0
)

// BasePoints maps a platform type to the base points of its sub-types.
var BasePoints = map[string]map[string]float64{
	"NETFLIX":   {"NETFLIX_HISTORY": 50, "NETFLIX_FAVORITE": 50},
	"SPOTIFY":   {"SPOTIFY_PLAYLIST": 50, "SPOTIFY_HISTORY": 50},
	"AMAZON":    {"AMAZON_PRIME_VIDEO": 50, "AMAZON_ORDER_HISTORY": 50},
	"TWITTER":   {"TWITTER_USERINFO": 50},
	"YOUTUBE":   {"YOUTUBE_HISTORY": 50, "YOUTUBE_PLAYLIST": 50, "YOUTUBE_SUBSCRIBERS": 50},
	"FARCASTER": {"FARCASTER_USERINFO": 50},
}

// Weights scales a sub-type's base points. Missing sub-types weigh 1.
var Weights = map[string]float64{
	"YOUTUBE_HISTORY":      1.5,
	"YOUTUBE_PLAYLIST":     1.2,
	"YOUTUBE_SUBSCRIBERS":  1.3,
	"NETFLIX_HISTORY":      1.4,
	"NETFLIX_FAVORITE":     1.1,
	"SPOTIFY_PLAYLIST":     1.2,
	"SPOTIFY_HISTORY":      1.3,
	"AMAZON_PRIME_VIDEO":   1.4,
	"AMAZON_ORDER_HISTORY": 1.1,
	"TWITTER_USERINFO":     1.0,
	"FARCASTER_USERINFO":   1.1,
}

// Result holds the raw and normalized contribution score.
type Result struct {
	Total      float64
	Normalized float64
}

// Score sums weighted base points over contributions that name both a type
// and a sub-type, adds the bonus for large submissions, and normalizes against
// the weighted total of every known sub-type (capped at 1).
func Score(contributions []models.Contribution) Result {
	var total float64
	for _, c := range contributions {
		if c.Type == "" || c.SubType == "" {
			continue
		}
		total += BasePoints[c.Type][c.SubType] * weight(c.SubType)
	}
	if len(contributions) > BonusThreshold {
		total += Bonus
	}

	res := Result{Total: total}
	if ceiling := MaxScore(); ceiling > 0 {
		res.Normalized = min(total/ceiling, 1)
	}
	return res
}

// MaxScore is the weighted sum of every known sub-type's base points.
func MaxScore() float64 {
	var ceiling float64
	for _, subTypes := range BasePoints {
		for subType, base := range subTypes {
			ceiling += base * weight(subType)
		}
	}
	return ceiling
}

func weight(subType string) float64 {
	if w, ok := Weights[subType]; ok {
		return w
	}
	return 1
}
