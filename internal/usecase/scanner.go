package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"OptionScan/internal/analysis"
	"OptionScan/internal/domain/models"
	"OptionScan/internal/selection"
	"OptionScan/pkg/config"
	"OptionScan/pkg/logger"
	"OptionScan/pkg/metrics"
)

// Scanner runs one full scan: score and rank the universe, then pick a
// tradeable contract for every ranked ticker whose chain allows one.
type Scanner struct {
	cfg      *config.Config
	scorer   *analysis.Scorer
	selector *selection.Selector
	log      *logger.Logger
	metrics  *metrics.Recorder
}

func NewScanner(cfg *config.Config, scorer *analysis.Scorer, selector *selection.Selector, log *logger.Logger, rec *metrics.Recorder) *Scanner {
	return &Scanner{cfg: cfg, scorer: scorer, selector: selector, log: log, metrics: rec}
}

// Run scans one snapshot. Selection misses (no qualifying contract, missing
// chain or stats) are recorded per ticker in Skipped; any other error aborts
// the scan and propagates unmodified.
func (s *Scanner) Run(ctx context.Context, snap models.ScanSnapshot) (models.ScanResult, error) {
	started := time.Now()

	scores, err := s.scorer.ScoreUniverse(snap.Universe)
	if err != nil {
		return models.ScanResult{}, fmt.Errorf("score universe: %w", err)
	}
	scores = s.applyCatalysts(scores, snap)

	if s.metrics != nil {
		s.metrics.RecordTickersScored(len(scores))
	}

	result := models.ScanResult{
		AsOf:    snap.AsOf,
		Scores:  scores,
		Skipped: make(map[string]string),
	}

	window := s.selector.DefaultWindow()
	for _, score := range scores {
		if err := ctx.Err(); err != nil {
			return models.ScanResult{}, err
		}

		stats, ok := snap.Stats[score.Ticker]
		if !ok {
			result.Skipped[score.Ticker] = "no ticker stats in snapshot"
			continue
		}
		chain, ok := snap.Chains[score.Ticker]
		if !ok || len(chain) == 0 {
			result.Skipped[score.Ticker] = "no option chain in snapshot"
			continue
		}

		contract, err := s.selector.Select(chain, score.Ticker, stats, score.Direction, snap.AsOf, window)
		if errors.Is(err, selection.ErrNoQualifyingContract) {
			result.Skipped[score.Ticker] = err.Error()
			continue
		}
		if err != nil {
			return models.ScanResult{}, fmt.Errorf("select contract for %s: %w", score.Ticker, err)
		}

		result.Recommendations = append(result.Recommendations, models.Recommendation{
			Ticker:   score.Ticker,
			Score:    score,
			Contract: contract,
		})
	}

	elapsed := time.Since(started)
	if s.metrics != nil {
		s.metrics.RecordScanDuration(elapsed.Seconds())
	}
	s.log.Info("scan complete",
		logger.Int("scored", len(scores)),
		logger.Int("recommended", len(result.Recommendations)),
		logger.Int("skipped", len(result.Skipped)),
		logger.Duration("elapsed", elapsed))

	return result, nil
}

// applyCatalysts blends each ticker's earnings-proximity score into its
// composite and restores ordering and ranks afterwards, since the blend can
// reorder neighbors. Ties keep the same deterministic ticker-ascending break
// the compositor uses.
func (s *Scanner) applyCatalysts(scores []models.TickerScore, snap models.ScanSnapshot) []models.TickerScore {
	if s.cfg.Catalyst.Weight == 0 || len(snap.Stats) == 0 {
		return scores
	}

	adjusted := make([]models.TickerScore, len(scores))
	for i, score := range scores {
		stats, ok := snap.Stats[score.Ticker]
		if ok && stats.NextEarnings != nil {
			catalyst := analysis.CatalystScore(s.cfg.Catalyst, stats.NextEarnings, snap.AsOf)
			score.Score = analysis.ApplyCatalystAdjustment(score.Score, catalyst, s.cfg.Catalyst.Weight)
		}
		adjusted[i] = score
	}

	sort.Slice(adjusted, func(i, j int) bool {
		if adjusted[i].Score != adjusted[j].Score {
			return adjusted[i].Score > adjusted[j].Score
		}
		return adjusted[i].Ticker < adjusted[j].Ticker
	})
	for i := range adjusted {
		adjusted[i].Rank = i + 1
	}
	return adjusted
}
