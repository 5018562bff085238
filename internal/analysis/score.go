package analysis

import (
	"math"
	"sort"
	"sync"

	"OptionScan/internal/domain/models"
	"OptionScan/pkg/config"
	"OptionScan/pkg/logger"
)

// Scorer combines normalized indicator scores into one ranked composite
// score per ticker.
type Scorer struct {
	cfg        config.ScoringConfig
	weights    map[string]float64
	classifier *Classifier
	log        *logger.Logger
}

func NewScorer(cfg config.ScoringConfig, classifier *Classifier, log *logger.Logger) *Scorer {
	return &Scorer{
		cfg:        cfg,
		weights:    cfg.Weights.Map(),
		classifier: classifier,
		log:        log,
	}
}

// WeightedGeometricMean computes exp(Σ w·ln(x) / Σ w) over the given scores.
//
// A geometric mean, unlike an arithmetic one, lets a single near-zero
// indicator drag the composite down disproportionately. Scores at or below
// zero are replaced with floor before taking the log. Indicators without a
// weight are skipped. The result is clamped to [0, 100].
func WeightedGeometricMean(scores, weights map[string]float64, floor float64) float64 {
	var weightedLogSum, weightSum float64

	for name, value := range scores {
		weight, ok := weights[name]
		if !ok {
			continue
		}
		if value <= 0 {
			value = floor
		}
		weightedLogSum += weight * math.Log(value)
		weightSum += weight
	}

	if weightSum == 0 {
		return 0
	}

	raw := math.Exp(weightedLogSum / weightSum)
	return math.Min(100, math.Max(0, raw))
}

// ScoreUniverse runs the full scoring pipeline over one scan's universe:
// normalize and invert, composite-score each ticker, drop tickers below the
// minimum composite, sort, rank, and attach each ticker's directional bias.
//
// Composite computation fans out across tickers; results land in an
// index-addressed slice so the final ordering never depends on goroutine
// scheduling. Ordering is score descending with ties broken by ticker
// ascending, ranks are dense and 1-based, and two runs over identical input
// produce identical output.
func (s *Scorer) ScoreUniverse(universe models.UniverseIndicators) ([]models.TickerScore, error) {
	normalized, err := Normalize(universe)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(normalized))
	for ticker := range normalized {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	composites := make([]float64, len(tickers))
	var wg sync.WaitGroup
	for i, ticker := range tickers {
		wg.Add(1)
		go func(i int, signals map[string]float64) {
			defer wg.Done()
			composites[i] = WeightedGeometricMean(signals, s.weights, s.cfg.ScoreFloor)
		}(i, normalized[ticker])
	}
	wg.Wait()

	scored := make([]models.TickerScore, 0, len(tickers))
	for i, ticker := range tickers {
		score := composites[i]
		if score < s.cfg.MinCompositeScore {
			continue
		}
		raw := universe[ticker]
		scored = append(scored, models.TickerScore{
			Ticker:  ticker,
			Score:   score,
			Signals: normalized[ticker],
			Direction: s.classifier.Classify(
				raw[models.IndicatorADX],
				raw[models.IndicatorRSI],
				raw[models.IndicatorSMAAlignment],
			),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Ticker < scored[j].Ticker
	})
	for i := range scored {
		scored[i].Rank = i + 1
	}

	s.log.Debug("universe scored",
		logger.Int("tickers", len(tickers)),
		logger.Int("qualified", len(scored)))

	return scored, nil
}
