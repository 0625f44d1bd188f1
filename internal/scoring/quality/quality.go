// Package quality converts per sub-type novelty into quality points.
package quality

import "dataproof/internal/proof/models"

// Rule selects how a sub-type's unique entry count becomes points.
type Rule string

const (
	// RuleOrder grades order-like histories: 10+ full, 5-9 half, 1-4 a tenth.
	RuleOrder Rule = "order"
	// RuleWatch grades watch histories: 10+ full, 4-9 half, 1-3 a tenth.
	RuleWatch Rule = "watch"
	// RulePairs grades lists such as playlists and favourites, like RuleWatch.
	RulePairs Rule = "pairs"
	// RuleProfile scales points by the sub-type novelty ratio.
	RuleProfile Rule = "profile"
)

// Entry is the scoring rule for one sub-type.
type Entry struct {
	Points float64
	Rule   Rule
}

// Table maps sub-types to their rule. Sub-types not in the table score 0.
type Table map[string]Entry

const defaultPoints = 50

// DefaultTable covers the sub-types the contribution scorer knows about.
func DefaultTable() Table {
	return Table{
		"AMAZON_ORDER_HISTORY": {Points: defaultPoints, Rule: RuleOrder},
		"AMAZON_PRIME_VIDEO":   {Points: defaultPoints, Rule: RuleOrder},
		"NETFLIX_HISTORY":      {Points: defaultPoints, Rule: RuleWatch},
		"SPOTIFY_HISTORY":      {Points: defaultPoints, Rule: RuleWatch},
		"YOUTUBE_HISTORY":      {Points: defaultPoints, Rule: RuleWatch},
		"NETFLIX_FAVORITE":     {Points: defaultPoints, Rule: RulePairs},
		"SPOTIFY_PLAYLIST":     {Points: defaultPoints, Rule: RulePairs},
		"YOUTUBE_PLAYLIST":     {Points: defaultPoints, Rule: RulePairs},
		"YOUTUBE_SUBSCRIBERS":  {Points: defaultPoints, Rule: RulePairs},
		"TWITTER_USERINFO":     {Points: defaultPoints, Rule: RuleProfile},
		"FARCASTER_USERINFO":   {Points: defaultPoints, Rule: RuleProfile},
	}
}

// Earned returns the points a sub-type earns for its novelty result.
func (e Entry) Earned(n models.NoveltyResult) float64 {
	switch e.Rule {
	case RuleOrder:
		return e.Points * tier(n.UniqueCount, 5)
	case RuleWatch, RulePairs:
		return e.Points * tier(n.UniqueCount, 4)
	case RuleProfile:
		return e.Points * n.Ratio
	default:
		return 0
	}
}

// tier maps a count to 1, 0.5 or 0.1; halfFrom is the lowest count of the
// half tier.
func tier(count, halfFrom int) float64 {
	switch {
	case count >= 10:
		return 1
	case count >= halfFrom:
		return 0.5
	case count >= 1:
		return 0.1
	default:
		return 0
	}
}

// Contribution scores one contribution in [0,1]: earned points over the
// sub-type's point value.
func Contribution(c models.Contribution, result models.UniquenessResult, table Table) float64 {
	entry, ok := table[c.SubType]
	if !ok || entry.Points <= 0 {
		return 0
	}
	novelty, _ := result.Entry(c.SubType)
	return entry.Earned(novelty) / entry.Points
}

// Score is the mean contribution quality, 0 when there are none.
func Score(contributions []models.Contribution, result models.UniquenessResult, table Table) float64 {
	if len(contributions) == 0 {
		return 0
	}
	var sum float64
	for _, c := range contributions {
		sum += Contribution(c, result, table)
	}
	return sum / float64(len(contributions))
}
