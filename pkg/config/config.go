package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"OptionScan/internal/domain/models"
)

// WeightSumTolerance is how far the indicator weight table may drift from 1.0
// before the configuration is rejected at startup.
const WeightSumTolerance = 1e-6

// ErrWeightSum marks an indicator weight table that does not sum to 1.0.
// This is a configuration error and is fatal at startup; scoring never
// re-checks it.
var ErrWeightSum = errors.New("indicator weights must sum to 1.0")

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"production"`

	Logger struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logger"`

	Scoring   ScoringConfig   `yaml:"scoring"`
	Direction DirectionConfig `yaml:"direction"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Selection SelectionConfig `yaml:"selection"`
	Catalyst  CatalystConfig  `yaml:"catalyst"`
}

// ScoringConfig controls the compositor.
type ScoringConfig struct {
	// Tickers scoring below this are excluded from the ranked output
	// entirely, not ranked last.
	MinCompositeScore float64 `yaml:"min_composite_score" default:"50.0" validate:"gte=0,lte=100"`
	// Floor substituted for percentile ranks <= 0 before the geometric
	// mean, so a zero score never hits log(0).
	ScoreFloor float64          `yaml:"score_floor" default:"1.0" validate:"gt=0"`
	Weights    IndicatorWeights `yaml:"weights"`
}

// IndicatorWeights is the fixed weight table, one weight per indicator.
// The table must sum to 1.0; Config.Validate enforces it.
type IndicatorWeights struct {
	RSI            float64 `yaml:"rsi" default:"0.08" validate:"gte=0,lte=1"`
	StochRSI       float64 `yaml:"stoch_rsi" default:"0.05" validate:"gte=0,lte=1"`
	WilliamsR      float64 `yaml:"williams_r" default:"0.05" validate:"gte=0,lte=1"`
	ADX            float64 `yaml:"adx" default:"0.08" validate:"gte=0,lte=1"`
	ROC            float64 `yaml:"roc" default:"0.05" validate:"gte=0,lte=1"`
	Supertrend     float64 `yaml:"supertrend" default:"0.05" validate:"gte=0,lte=1"`
	ATRPercent     float64 `yaml:"atr_percent" default:"0.05" validate:"gte=0,lte=1"`
	BBWidth        float64 `yaml:"bb_width" default:"0.05" validate:"gte=0,lte=1"`
	KeltnerWidth   float64 `yaml:"keltner_width" default:"0.04" validate:"gte=0,lte=1"`
	OBVTrend       float64 `yaml:"obv_trend" default:"0.05" validate:"gte=0,lte=1"`
	ADTrend        float64 `yaml:"ad_trend" default:"0.05" validate:"gte=0,lte=1"`
	RelativeVolume float64 `yaml:"relative_volume" default:"0.05" validate:"gte=0,lte=1"`
	SMAAlignment   float64 `yaml:"sma_alignment" default:"0.08" validate:"gte=0,lte=1"`
	VWAPDeviation  float64 `yaml:"vwap_deviation" default:"0.05" validate:"gte=0,lte=1"`
	IVRank         float64 `yaml:"iv_rank" default:"0.06" validate:"gte=0,lte=1"`
	IVPercentile   float64 `yaml:"iv_percentile" default:"0.06" validate:"gte=0,lte=1"`
	PutCallRatio   float64 `yaml:"put_call_ratio" default:"0.05" validate:"gte=0,lte=1"`
	MaxPain        float64 `yaml:"max_pain" default:"0.05" validate:"gte=0,lte=1"`
}

// Map returns the weight table keyed by indicator name.
func (w IndicatorWeights) Map() map[string]float64 {
	return map[string]float64{
		models.IndicatorRSI:            w.RSI,
		models.IndicatorStochRSI:       w.StochRSI,
		models.IndicatorWilliams:       w.WilliamsR,
		models.IndicatorADX:            w.ADX,
		models.IndicatorROC:            w.ROC,
		models.IndicatorSupertrend:     w.Supertrend,
		models.IndicatorATRPercent:     w.ATRPercent,
		models.IndicatorBBWidth:        w.BBWidth,
		models.IndicatorKeltnerWidth:   w.KeltnerWidth,
		models.IndicatorOBVTrend:       w.OBVTrend,
		models.IndicatorADTrend:        w.ADTrend,
		models.IndicatorRelativeVolume: w.RelativeVolume,
		models.IndicatorSMAAlignment:   w.SMAAlignment,
		models.IndicatorVWAPDeviation:  w.VWAPDeviation,
		models.IndicatorIVRank:         w.IVRank,
		models.IndicatorIVPercentile:   w.IVPercentile,
		models.IndicatorPutCallRatio:   w.PutCallRatio,
		models.IndicatorMaxPain:        w.MaxPain,
	}
}

// Sum returns the total of all weights.
func (w IndicatorWeights) Sum() float64 {
	total := 0.0
	for _, v := range w.Map() {
		total += v
	}
	return total
}

// DirectionConfig controls the direction classifier.
type DirectionConfig struct {
	// Below this ADX value the trend is too weak to call a direction.
	ADXTrendThreshold   float64 `yaml:"adx_trend_threshold" default:"20.0" validate:"gte=0"`
	RSIOverbought       float64 `yaml:"rsi_overbought" default:"70.0" validate:"gt=0,lte=100"`
	RSIOversold         float64 `yaml:"rsi_oversold" default:"30.0" validate:"gte=0,lt=100"`
	SMABullishThreshold float64 `yaml:"sma_bullish_threshold" default:"0.5"`
	SMABearishThreshold float64 `yaml:"sma_bearish_threshold" default:"-0.5"`
}

// PricingConfig controls the BSM engine and the IV solver.
type PricingConfig struct {
	// Annualized risk-free rate used when the caller does not supply one.
	RiskFreeRate float64 `yaml:"risk_free_rate" default:"0.05" validate:"gte=0,lt=1"`
	// Price error below which the IV solver is considered converged.
	Tolerance              float64 `yaml:"tolerance" default:"1e-8" validate:"gt=0"`
	MaxNewtonIterations    int     `yaml:"max_newton_iterations" default:"50" validate:"gt=0"`
	MaxBisectionIterations int     `yaml:"max_bisection_iterations" default:"100" validate:"gt=0"`
	IVLowerBound           float64 `yaml:"iv_lower_bound" default:"0.001" validate:"gt=0"`
	IVUpperBound           float64 `yaml:"iv_upper_bound" default:"5.0" validate:"gt=0"`
	IVInitialGuess         float64 `yaml:"iv_initial_guess" default:"0.30" validate:"gt=0"`
}

// SelectionConfig controls the contract selector.
type SelectionConfig struct {
	// Ticker-level pre-filters, applied before the chain is examined.
	MinPrice           float64 `yaml:"min_price" default:"5.0" validate:"gte=0"`
	MinAvgDollarVolume float64 `yaml:"min_avg_dollar_volume" default:"2500000" validate:"gte=0"`

	// Chain-level liquidity and spread filters.
	MinOpenInterest int64   `yaml:"min_open_interest" default:"100" validate:"gte=0"`
	MinVolume       int64   `yaml:"min_volume" default:"1" validate:"gte=0"`
	MaxSpreadRatio  float64 `yaml:"max_spread_ratio" default:"0.30" validate:"gt=0"`

	// Default DTE window; callers may pass their own per call.
	MinDTE int `yaml:"min_dte" default:"30" validate:"gte=0"`
	MaxDTE int `yaml:"max_dte" default:"60" validate:"gt=0"`

	// Acceptable absolute delta band. The target delta is its midpoint.
	DeltaMin float64 `yaml:"delta_min" default:"0.30" validate:"gte=0,lte=1"`
	DeltaMax float64 `yaml:"delta_max" default:"0.40" validate:"gt=0,lte=1"`
}

// DeltaTarget is the midpoint of the acceptable delta band.
func (s SelectionConfig) DeltaTarget() float64 {
	return (s.DeltaMin + s.DeltaMax) / 2
}

// CatalystConfig controls earnings-proximity scoring.
type CatalystConfig struct {
	// Weight of the catalyst score when blended into a composite score.
	Weight       float64 `yaml:"weight" default:"0.15" validate:"gte=0,lte=1"`
	ImminentDays int     `yaml:"imminent_days" default:"7" validate:"gt=0"`
	UpcomingDays int     `yaml:"upcoming_days" default:"14" validate:"gt=0"`
	ModerateDays int     `yaml:"moderate_days" default:"30" validate:"gt=0"`
	DistantDays  int     `yaml:"distant_days" default:"60" validate:"gt=0"`
}

// Load reads and parses a YAML configuration file, applies defaults for
// unset fields, and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// Default returns a configuration with every field at its default value.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// default tags are static; a failure here is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// LoadWithEnv loads config from YAML and overrides selected fields from the
// environment.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("OPTIONSCAN_LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("OPTIONSCAN_LOG_FORMAT"); v != "" {
		c.Logger.Format = v
	}

	return c, nil
}

// Validate checks field constraints and the cross-field invariants that tag
// validation cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if sum := c.Scoring.Weights.Sum(); math.Abs(sum-1.0) > WeightSumTolerance {
		return fmt.Errorf("%w: got %.6f", ErrWeightSum, sum)
	}
	if c.Direction.RSIOversold >= c.Direction.RSIOverbought {
		return fmt.Errorf("direction.rsi_oversold (%v) must be below rsi_overbought (%v)",
			c.Direction.RSIOversold, c.Direction.RSIOverbought)
	}
	if c.Pricing.IVLowerBound >= c.Pricing.IVUpperBound {
		return fmt.Errorf("pricing.iv_lower_bound (%v) must be below iv_upper_bound (%v)",
			c.Pricing.IVLowerBound, c.Pricing.IVUpperBound)
	}
	if c.Selection.MinDTE > c.Selection.MaxDTE {
		return fmt.Errorf("selection.min_dte (%d) must not exceed max_dte (%d)",
			c.Selection.MinDTE, c.Selection.MaxDTE)
	}
	if c.Selection.DeltaMin >= c.Selection.DeltaMax {
		return fmt.Errorf("selection.delta_min (%v) must be below delta_max (%v)",
			c.Selection.DeltaMin, c.Selection.DeltaMax)
	}
	return nil
}
