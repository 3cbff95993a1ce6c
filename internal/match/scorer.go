// Package match computes the multi-factor ranking score between two
// profiles. Scoring is pure and deterministic; ties are broken by the
// caller keeping input order (stable sort).
package match

import (
	"time"

	"github.com/vicinity-social/vicinity/internal/domain"
	"github.com/vicinity-social/vicinity/internal/geo"
)

// RecencyWindow is how recently B must have been active to earn the
// recency bonus.
const RecencyWindow = 7 * 24 * time.Hour

// Score evaluates b from a's perspective at the given time. Additive
// terms: +1 per shared tag, distance tier bonus, +1 if b was active
// within RecencyWindow, +1 per mutual friend, +2 on matching language.
// Not symmetric: the recency term reads only b's activity.
func Score(a, b domain.Profile, now time.Time) int {
	score := overlap(a.Tags, b.Tags)

	if a.Location != nil && b.Location != nil {
		d := geo.DistanceKm(
			a.Location.Latitude, a.Location.Longitude,
			b.Location.Latitude, b.Location.Longitude,
		)
		score += DistanceTier(d)
	}

	if b.LastActiveAt != nil && now.Sub(*b.LastActiveAt) <= RecencyWindow {
		score++
	}

	score += overlap(a.Friends, b.Friends)

	if a.Language != "" && a.Language == b.Language {
		score += 2
	}

	return score
}

// DistanceTier is the step-function bonus for a distance in km. The
// lower tier applies only strictly below its boundary; the sentinel
// distance earns nothing.
func DistanceTier(d float64) int {
	switch {
	case geo.IsUnknown(d):
		return 0
	case d < 5:
		return 3
	case d < 25:
		return 2
	case d < 100:
		return 1
	default:
		return 0
	}
}

// overlap is the intersection cardinality of two identifier sets.
// Duplicates on either side collapse to one contribution.
func overlap(xs, ys []string) int {
	if len(xs) == 0 || len(ys) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		set[x] = struct{}{}
	}
	count := 0
	seen := make(map[string]struct{}, len(ys))
	for _, y := range ys {
		if _, dup := seen[y]; dup {
			continue
		}
		seen[y] = struct{}{}
		if _, ok := set[y]; ok {
			count++
		}
	}
	return count
}
