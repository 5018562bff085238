package models

// Indicator names known to the scoring pipeline. The set is fixed: every
// ticker in a scan snapshot carries a value for each of these, computed
// upstream by the data layer.
const (
	// Oscillators
	IndicatorRSI      = "rsi"
	IndicatorStochRSI = "stoch_rsi"
	IndicatorWilliams = "williams_r"

	// Trend
	IndicatorADX        = "adx"
	IndicatorROC        = "roc"
	IndicatorSupertrend = "supertrend"

	// Volatility
	IndicatorATRPercent   = "atr_percent"
	IndicatorBBWidth      = "bb_width"
	IndicatorKeltnerWidth = "keltner_width"

	// Volume
	IndicatorOBVTrend       = "obv_trend"
	IndicatorADTrend        = "ad_trend"
	IndicatorRelativeVolume = "relative_volume"

	// Moving averages
	IndicatorSMAAlignment  = "sma_alignment"
	IndicatorVWAPDeviation = "vwap_deviation"

	// Options-specific. IV rank and IV percentile are distinct inputs and
	// are both computed upstream from raw IV history.
	IndicatorIVRank       = "iv_rank"
	IndicatorIVPercentile = "iv_percentile"
	IndicatorPutCallRatio = "put_call_ratio"
	IndicatorMaxPain      = "max_pain"
)

// IndicatorNames returns the full fixed indicator set in a stable order.
func IndicatorNames() []string {
	return []string{
		IndicatorRSI,
		IndicatorStochRSI,
		IndicatorWilliams,
		IndicatorADX,
		IndicatorROC,
		IndicatorSupertrend,
		IndicatorATRPercent,
		IndicatorBBWidth,
		IndicatorKeltnerWidth,
		IndicatorOBVTrend,
		IndicatorADTrend,
		IndicatorRelativeVolume,
		IndicatorSMAAlignment,
		IndicatorVWAPDeviation,
		IndicatorIVRank,
		IndicatorIVPercentile,
		IndicatorPutCallRatio,
		IndicatorMaxPain,
	}
}

// UniverseIndicators maps ticker -> indicator name -> raw value for one scan.
// This raw mapping is internal interchange only; public entry points accept
// and return typed records.
type UniverseIndicators map[string]map[string]float64
