package analysis

import (
	"time"

	"OptionScan/pkg/config"
)

// Catalyst proximity scores per earnings bucket.
const (
	catalystNoEarnings  = 50.0
	catalystPast        = 30.0
	catalystImminent    = 90.0
	catalystUpcoming    = 75.0
	catalystModerate    = 60.0
	catalystDistant     = 45.0
	catalystVeryDistant = 35.0
)

// CatalystScore rates the proximity of the next earnings date on a 0-100
// scale relative to asOf. Unknown dates are neutral (50); a date at or
// before asOf scores low because the data is stale; an imminent report
// scores highest and the score decays with distance.
func CatalystScore(cfg config.CatalystConfig, nextEarnings *time.Time, asOf time.Time) float64 {
	if nextEarnings == nil {
		return catalystNoEarnings
	}

	daysUntil := int(nextEarnings.Truncate(24*time.Hour).Sub(asOf.Truncate(24*time.Hour)) / (24 * time.Hour))

	switch {
	case daysUntil <= 0:
		return catalystPast
	case daysUntil <= cfg.ImminentDays:
		return catalystImminent
	case daysUntil <= cfg.UpcomingDays:
		return catalystUpcoming
	case daysUntil <= cfg.ModerateDays:
		return catalystModerate
	case daysUntil <= cfg.DistantDays:
		return catalystDistant
	default:
		return catalystVeryDistant
	}
}

// ApplyCatalystAdjustment blends a catalyst proximity score into a base
// composite score:
//
//	adjusted = base*(1-weight) + catalyst*weight
//
// clamped to [0, 100].
func ApplyCatalystAdjustment(base, catalyst, weight float64) float64 {
	adjusted := base*(1.0-weight) + catalyst*weight
	if adjusted < 0 {
		return 0
	}
	if adjusted > 100 {
		return 100
	}
	return adjusted
}
