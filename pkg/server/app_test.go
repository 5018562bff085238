package server

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OptionScan/internal/analysis"
	"OptionScan/internal/domain/models"
	"OptionScan/internal/pricing"
	"OptionScan/internal/selection"
	"OptionScan/internal/usecase"
	"OptionScan/pkg/config"
	applogger "OptionScan/pkg/logger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	log := applogger.Nop()
	scorer := analysis.NewScorer(cfg.Scoring, analysis.NewClassifier(cfg.Direction), log)
	engine := pricing.NewEngine(cfg.Pricing, log, nil)
	selector := selection.NewSelector(cfg.Selection, engine, log, nil)
	scanner := usecase.NewScanner(cfg, scorer, selector, log, nil)
	return New(cfg, scanner, log)
}

func writeSnapshot(t *testing.T, snap models.ScanSnapshot) string {
	t.Helper()
	b, err := json.Marshal(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func sampleSnapshot() models.ScanSnapshot {
	asOf := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	indicators := make(map[string]float64)
	for _, name := range models.IndicatorNames() {
		indicators[name] = 50
	}
	indicators[models.IndicatorADX] = 25
	indicators[models.IndicatorRSI] = 25
	indicators[models.IndicatorSMAAlignment] = 1.0

	snap := models.ScanSnapshot{
		AsOf:     asOf,
		Universe: models.UniverseIndicators{},
		Stats:    map[string]models.TickerStats{},
		Chains:   map[string][]models.OptionContract{},
	}
	for _, ticker := range []string{"AAPL", "MSFT"} {
		snap.Universe[ticker] = indicators
		snap.Stats[ticker] = models.TickerStats{Price: 100, AvgDollarVolume: 10_000_000}
		snap.Chains[ticker] = []models.OptionContract{{
			Ticker:            ticker,
			Type:              models.Call,
			Strike:            decimal.NewFromInt(105),
			Expiration:        asOf.AddDate(0, 0, 40),
			Bid:               decimal.NewFromFloat(3.00),
			Ask:               decimal.NewFromFloat(3.20),
			Volume:            50,
			OpenInterest:      500,
			ImpliedVolatility: 0.30,
		}}
	}
	return snap
}

func TestAppRun_WritesScanReport(t *testing.T) {
	app := newTestApp(t)
	var out bytes.Buffer
	app.SetOutput(&out)

	path := writeSnapshot(t, sampleSnapshot())
	require.NoError(t, app.Run(context.Background(), path))

	var result models.ScanResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))

	require.Len(t, result.Scores, 2)
	assert.Equal(t, "AAPL", result.Scores[0].Ticker)
	assert.Equal(t, models.Bullish, result.Scores[0].Direction)
	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, models.Call, result.Recommendations[0].Contract.Type)
}

func TestAppRun_MissingSnapshotFile(t *testing.T) {
	app := newTestApp(t)
	err := app.Run(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestLoadSnapshot(t *testing.T) {
	t.Run("round trips a valid snapshot", func(t *testing.T) {
		want := sampleSnapshot()
		got, err := LoadSnapshot(writeSnapshot(t, want))
		require.NoError(t, err)
		assert.Equal(t, want.AsOf, got.AsOf)
		assert.Len(t, got.Universe, 2)
		assert.Len(t, got.Chains["AAPL"], 1)
	})

	t.Run("rejects an empty universe", func(t *testing.T) {
		_, err := LoadSnapshot(writeSnapshot(t, models.ScanSnapshot{}))
		require.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
		_, err := LoadSnapshot(path)
		require.Error(t, err)
	})
}
