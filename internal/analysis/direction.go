package analysis

import (
	"OptionScan/internal/domain/models"
	"OptionScan/pkg/config"
)

// Signal strengths used by the classifier's bull/bear tally.
const (
	strongSignal = 1.0
	mildSignal   = 0.5
)

// Classifier maps ADX, RSI, and SMA-alignment values to a directional bias.
// Classification is a pure, total function over its inputs: every valid
// combination maps to exactly one direction.
type Classifier struct {
	cfg config.DirectionConfig
}

func NewClassifier(cfg config.DirectionConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns the directional bias for one ticker.
//
// ADX below the trend threshold means there is no trend worth trading, so
// the RSI and SMA signals are ignored and the result is Neutral. Otherwise
// RSI is read as a mean-reversion signal (oversold argues bullish, overbought
// bearish, mildly so between the bands and the midpoint) and SMA alignment as
// a trend signal; the larger tally wins. An equal nonzero tally falls back to
// the SMA alignment sign, since the underlying trend is more fundamental than
// RSI's momentum reading.
func (c *Classifier) Classify(adx, rsi, smaAlignment float64) models.SignalDirection {
	if adx < c.cfg.ADXTrendThreshold {
		return models.Neutral
	}

	var bullish, bearish float64

	const rsiMidpoint = 50.0
	switch {
	case rsi < c.cfg.RSIOversold:
		bullish += strongSignal
	case rsi < rsiMidpoint:
		bullish += mildSignal
	case rsi > c.cfg.RSIOverbought:
		bearish += strongSignal
	case rsi > rsiMidpoint:
		bearish += mildSignal
	}

	if smaAlignment > c.cfg.SMABullishThreshold {
		bullish += strongSignal
	} else if smaAlignment < c.cfg.SMABearishThreshold {
		bearish += strongSignal
	}

	if bullish > bearish {
		return models.Bullish
	}
	if bearish > bullish {
		return models.Bearish
	}
	if bullish > 0 {
		if smaAlignment > 0 {
			return models.Bullish
		}
		if smaAlignment < 0 {
			return models.Bearish
		}
	}
	return models.Neutral
}
