package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"OptionScan/internal/domain/models"
	"OptionScan/pkg/config"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier(config.Default().Direction)

	cases := []struct {
		name         string
		adx          float64
		rsi          float64
		smaAlignment float64
		want         models.SignalDirection
	}{
		{"weak trend is always neutral", 15, 25, 1.0, models.Neutral},
		{"weak trend ignores bearish signals too", 19.9, 80, -1.0, models.Neutral},
		{"oversold plus bullish alignment", 25, 25, 1.0, models.Bullish},
		{"overbought plus bearish alignment", 25, 75, -1.0, models.Bearish},
		{"oversold beats mildly bearish alignment", 25, 25, 0.0, models.Bullish},
		{"overbought with flat alignment", 25, 75, 0.0, models.Bearish},
		{"mild bullish rsi only", 25, 45, 0.0, models.Bullish},
		{"mild bearish rsi only", 25, 55, 0.0, models.Bearish},
		{"strong alignment beats mild rsi", 25, 55, 1.0, models.Bullish},
		{"strong bearish alignment beats mild rsi", 25, 45, -1.0, models.Bearish},
		{"rsi at midpoint with flat alignment", 25, 50, 0.0, models.Neutral},
		{"tied tally breaks on positive alignment", 25, 75, 0.6, models.Bullish},
		{"tied tally breaks on negative alignment", 25, 25, -0.6, models.Bearish},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifier.Classify(tc.adx, tc.rsi, tc.smaAlignment)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassify_IsTotalOverBoundaryValues(t *testing.T) {
	classifier := NewClassifier(config.Default().Direction)

	// Boundary inputs still map to exactly one of the three directions.
	for _, adx := range []float64{0, 20, 100} {
		for _, rsi := range []float64{0, 30, 50, 70, 100} {
			for _, sma := range []float64{-0.5, 0, 0.5} {
				got := classifier.Classify(adx, rsi, sma)
				assert.Contains(t,
					[]models.SignalDirection{models.Bullish, models.Bearish, models.Neutral},
					got, "adx=%v rsi=%v sma=%v", adx, rsi, sma)
			}
		}
	}
}
