// Package metrics computes the derived buzz metrics from raw video and
// channel counters. Every function is pure and total over its numeric
// domain.
package metrics

import (
	"fmt"
	"math"
	"time"
)

// Impact level thresholds. Fixed business constants.
const (
	highImpactThreshold   = 3.0
	mediumImpactThreshold = 1.0
)

type ImpactLevel string

const (
	ImpactLevelHigh   ImpactLevel = "high"
	ImpactLevelMedium ImpactLevel = "medium"
	ImpactLevelLow    ImpactLevel = "low"
)

// DaysSince returns the number of whole days between publishedAt (ISO 8601,
// trailing "Z" accepted) and now, floored at 0. A parse failure returns 0
// and the error so the caller can log it as a data-quality warning.
func DaysSince(publishedAt string, now time.Time) (int, error) {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return 0, fmt.Errorf("parse published_at %q: %w", publishedAt, err)
	}

	days := int(now.UTC().Sub(published).Hours() / 24)
	if days < 0 {
		return 0, nil
	}
	return days, nil
}

// DailyAvgViews returns viewCount/daysAgo rounded to 2 decimals. Same-day
// videos (daysAgo <= 0) return the raw view count to avoid dividing by a
// zero-length window.
func DailyAvgViews(viewCount int64, daysAgo int) float64 {
	if daysAgo <= 0 {
		return float64(viewCount)
	}
	return round2(float64(viewCount) / float64(daysAgo))
}

// ImpactRatio returns viewCount/subscriberCount rounded to 2 decimals.
// A channel without subscribers carries no signal, so the ratio is 0.
func ImpactRatio(viewCount, subscriberCount int64) float64 {
	if subscriberCount <= 0 {
		return 0.0
	}
	return round2(float64(viewCount) / float64(subscriberCount))
}

// LikeRatio returns likeCount/viewCount rounded to 4 decimals, 0 when the
// video has no views.
func LikeRatio(likeCount, viewCount int64) float64 {
	if viewCount <= 0 {
		return 0.0
	}
	return round4(float64(likeCount) / float64(viewCount))
}

// ImpactLevelFor buckets an impact ratio: >=3 is high, >=1 is medium,
// anything below is low.
func ImpactLevelFor(impactRatio float64) ImpactLevel {
	switch {
	case impactRatio >= highImpactThreshold:
		return ImpactLevelHigh
	case impactRatio >= mediumImpactThreshold:
		return ImpactLevelMedium
	default:
		return ImpactLevelLow
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
