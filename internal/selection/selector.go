// Package selection narrows a ticker's option chain down to one tradeable
// contract, or reports that none qualifies.
package selection

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"OptionScan/internal/domain/models"
	"OptionScan/internal/pricing"
	"OptionScan/pkg/config"
	"OptionScan/pkg/logger"
	"OptionScan/pkg/metrics"
)

// ErrNoQualifyingContract means the filters eliminated every candidate.
// This is a normal scan outcome, not an internal failure; callers match on
// it with errors.Is.
var ErrNoQualifyingContract = errors.New("no qualifying contract")

// Window is a days-to-expiration range, inclusive on both ends.
type Window struct {
	MinDTE int
	MaxDTE int
}

// Selector filters option chains by liquidity, spread, expiration, and
// delta. Contracts that arrive without Greeks get them computed from their
// own implied volatility before the delta filter runs, so a missing quote
// never silently skips a candidate.
type Selector struct {
	cfg     config.SelectionConfig
	engine  *pricing.Engine
	log     *logger.Logger
	metrics *metrics.Recorder
}

func NewSelector(cfg config.SelectionConfig, engine *pricing.Engine, log *logger.Logger, rec *metrics.Recorder) *Selector {
	return &Selector{cfg: cfg, engine: engine, log: log, metrics: rec}
}

// DefaultWindow is the configured DTE window.
func (s *Selector) DefaultWindow() Window {
	return Window{MinDTE: s.cfg.MinDTE, MaxDTE: s.cfg.MaxDTE}
}

// Select returns the single best contract for the ticker, or
// ErrNoQualifyingContract wrapped with the reason nothing survived.
//
// The ticker pre-filter (price and average dollar volume floors) runs before
// the chain is examined at all. The chain is then filtered in order: option
// type by direction, open interest, volume, spread ratio; the nearest
// expiration inside the DTE window is chosen; finally the contract whose
// absolute delta sits inside the configured band and closest to the band
// midpoint wins, ties broken by larger open interest, then tighter spread.
func (s *Selector) Select(
	chain []models.OptionContract,
	ticker string,
	stats models.TickerStats,
	direction models.SignalDirection,
	asOf time.Time,
	window Window,
) (models.OptionContract, error) {
	if stats.Price < s.cfg.MinPrice {
		s.reject("prefilter_price")
		return models.OptionContract{}, fmt.Errorf("%w: %s price %.2f below minimum %.2f",
			ErrNoQualifyingContract, ticker, stats.Price, s.cfg.MinPrice)
	}
	if stats.AvgDollarVolume < s.cfg.MinAvgDollarVolume {
		s.reject("prefilter_liquidity")
		return models.OptionContract{}, fmt.Errorf("%w: %s avg dollar volume %.0f below floor %.0f",
			ErrNoQualifyingContract, ticker, stats.AvgDollarVolume, s.cfg.MinAvgDollarVolume)
	}

	var wantType models.OptionType
	switch direction {
	case models.Bullish:
		wantType = models.Call
	case models.Bearish:
		wantType = models.Put
	default:
		return models.OptionContract{}, fmt.Errorf("%w: %s direction is neutral", ErrNoQualifyingContract, ticker)
	}

	liquid := make([]models.OptionContract, 0, len(chain))
	for _, c := range chain {
		switch {
		case c.Type != wantType:
			continue
		case c.OpenInterest < s.cfg.MinOpenInterest:
			s.reject("open_interest")
		case c.Volume < s.cfg.MinVolume:
			s.reject("volume")
		case c.Mid().Sign() <= 0:
			s.reject("zero_mid")
		default:
			ratio, _ := c.Spread().Div(c.Mid()).Float64()
			if ratio > s.cfg.MaxSpreadRatio {
				s.reject("spread")
				continue
			}
			liquid = append(liquid, c)
		}
	}
	if len(liquid) == 0 {
		return models.OptionContract{}, fmt.Errorf("%w: %s has no liquid %s contracts", ErrNoQualifyingContract, ticker, wantType)
	}

	atExpiry := s.selectExpiration(liquid, asOf, window)
	if len(atExpiry) == 0 {
		s.reject("expiration")
		return models.OptionContract{}, fmt.Errorf("%w: %s has no expiration in [%d, %d] DTE",
			ErrNoQualifyingContract, ticker, window.MinDTE, window.MaxDTE)
	}

	best, ok := s.selectByDelta(atExpiry, stats.Price, asOf)
	if !ok {
		return models.OptionContract{}, fmt.Errorf("%w: %s has no contract with |delta| in [%.2f, %.2f]",
			ErrNoQualifyingContract, ticker, s.cfg.DeltaMin, s.cfg.DeltaMax)
	}

	s.log.Debug("contract selected",
		logger.String("ticker", ticker),
		logger.String("type", string(best.Type)),
		logger.String("strike", best.Strike.String()),
		logger.Int("dte", best.DTE(asOf)),
		logger.Float64("delta", best.Greeks.Delta))
	return best, nil
}

// selectExpiration keeps the contracts at the nearest expiration whose DTE
// falls inside the window.
func (s *Selector) selectExpiration(contracts []models.OptionContract, asOf time.Time, window Window) []models.OptionContract {
	bestDTE := -1
	var bestDate time.Time
	for _, c := range contracts {
		dte := c.DTE(asOf)
		if dte < window.MinDTE || dte > window.MaxDTE {
			continue
		}
		if bestDTE < 0 || dte < bestDTE {
			bestDTE = dte
			bestDate = c.Expiration
		}
	}
	if bestDTE < 0 {
		return nil
	}

	out := make([]models.OptionContract, 0, len(contracts))
	for _, c := range contracts {
		if c.Expiration.Equal(bestDate) {
			out = append(out, c)
		}
	}
	return out
}

// selectByDelta picks the in-band contract closest to the delta target.
// Candidates without Greeks get them computed first; a candidate that has
// neither Greeks nor a usable IV is dropped.
func (s *Selector) selectByDelta(contracts []models.OptionContract, spot float64, asOf time.Time) (models.OptionContract, bool) {
	target := s.cfg.DeltaTarget()

	type candidate struct {
		contract models.OptionContract
		distance float64
	}
	candidates := make([]candidate, 0, len(contracts))

	for _, c := range contracts {
		filled, err := s.ensureGreeks(c, spot, asOf)
		if err != nil {
			s.reject("greeks")
			s.log.Debug("dropping contract without computable greeks",
				logger.String("ticker", c.Ticker),
				logger.String("strike", c.Strike.String()),
				logger.Error(err))
			continue
		}
		absDelta := math.Abs(filled.Greeks.Delta)
		if absDelta < s.cfg.DeltaMin || absDelta > s.cfg.DeltaMax {
			s.reject("delta_band")
			continue
		}
		candidates = append(candidates, candidate{filled, math.Abs(absDelta - target)})
	}
	if len(candidates) == 0 {
		return models.OptionContract{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.distance != b.distance {
			return a.distance < b.distance
		}
		if a.contract.OpenInterest != b.contract.OpenInterest {
			return a.contract.OpenInterest > b.contract.OpenInterest
		}
		if !a.contract.Spread().Equal(b.contract.Spread()) {
			return a.contract.Spread().LessThan(b.contract.Spread())
		}
		return a.contract.Strike.LessThan(b.contract.Strike)
	})
	return candidates[0].contract, true
}

// ensureGreeks returns the contract with Greeks guaranteed present, either
// the market's or computed from the contract's own implied volatility.
func (s *Selector) ensureGreeks(c models.OptionContract, spot float64, asOf time.Time) (models.OptionContract, error) {
	if c.Greeks != nil {
		if err := c.Greeks.Validate(); err != nil {
			return models.OptionContract{}, err
		}
		return c, nil
	}

	if c.ImpliedVolatility <= 0 {
		return models.OptionContract{}, fmt.Errorf("%w: no greeks and no implied volatility", models.ErrInvalidInput)
	}
	tte := float64(c.DTE(asOf)) / pricing.DaysPerYear
	greeks, err := s.engine.Greeks(pricing.PricingInputs{
		Spot:         spot,
		Strike:       c.Strike.InexactFloat64(),
		TimeToExpiry: tte,
		RiskFreeRate: s.engine.RiskFreeRate(),
		Volatility:   c.ImpliedVolatility,
		Type:         c.Type,
	})
	if err != nil {
		return models.OptionContract{}, err
	}
	return c.WithGreeks(greeks, models.GreeksCalculated), nil
}

func (s *Selector) reject(reason string) {
	if s.metrics != nil {
		s.metrics.RecordContractRejected(reason)
	}
}
