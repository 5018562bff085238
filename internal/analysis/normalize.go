package analysis

import (
	"fmt"
	"math"
	"sort"

	"OptionScan/internal/domain/models"
)

// InvertedIndicators are the indicators where a lower raw value is the more
// favorable signal (volatility-width style metrics). After percentile
// normalization these are flipped so that 100 always means "most favorable".
var InvertedIndicators = map[string]bool{
	models.IndicatorBBWidth:        true,
	models.IndicatorATRPercent:     true,
	models.IndicatorRelativeVolume: true,
	models.IndicatorKeltnerWidth:   true,
}

// Normalize converts raw indicator values into cross-sectional percentile
// ranks in [0, 100] and flips the inverted indicators.
//
// For each indicator the universe's values are sorted ascending and assigned
// 1-based ranks; ties receive the average rank of their run. The percentile
// is (rank / count) * 100, so a single-ticker universe degenerates to 100
// and identical values across the universe all land on the same percentile.
//
// Every ticker must carry every indicator in the fixed set; a missing or NaN
// value is a caller error, not handled here.
func Normalize(universe models.UniverseIndicators) (map[string]map[string]float64, error) {
	if len(universe) == 0 {
		return nil, fmt.Errorf("%w: empty universe", models.ErrInvalidInput)
	}

	names := models.IndicatorNames()
	for ticker, indicators := range universe {
		for _, name := range names {
			v, ok := indicators[name]
			if !ok || math.IsNaN(v) {
				return nil, fmt.Errorf("%w: ticker %s is missing indicator %q", models.ErrInvalidInput, ticker, name)
			}
		}
	}

	out := make(map[string]map[string]float64, len(universe))
	for ticker := range universe {
		out[ticker] = make(map[string]float64, len(names))
	}

	count := len(universe)
	type tickerValue struct {
		ticker string
		value  float64
	}
	pairs := make([]tickerValue, 0, count)

	for _, name := range names {
		pairs = pairs[:0]
		for ticker, indicators := range universe {
			pairs = append(pairs, tickerValue{ticker, indicators[name]})
		}
		// Secondary sort on ticker keeps rank assignment deterministic;
		// ties share a rank anyway so it cannot change the output.
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].value != pairs[j].value {
				return pairs[i].value < pairs[j].value
			}
			return pairs[i].ticker < pairs[j].ticker
		})

		inverted := InvertedIndicators[name]
		for i := 0; i < count; {
			run := i
			for i < count && pairs[i].value == pairs[run].value {
				i++
			}
			// Members of a run of equal values share the average of
			// their 1-based positions.
			avgRank := float64(run+1+i) / 2.0
			percentile := avgRank / float64(count) * 100.0
			if inverted {
				percentile = 100.0 - percentile
			}
			for j := run; j < i; j++ {
				out[pairs[j].ticker][name] = percentile
			}
		}
	}

	return out, nil
}
