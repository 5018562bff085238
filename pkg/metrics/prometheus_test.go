package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RegistersAndCounts(t *testing.T) {
	rec := New()

	rec.RecordTickersScored(3)
	rec.RecordContractRejected("spread")
	rec.RecordContractRejected("spread")
	rec.RecordIVFallback()
	rec.RecordSolverFailure("unbracketable")
	rec.RecordScanDuration(0.125)

	families, err := rec.Registry().Gather()
	require.NoError(t, err)

	got := make(map[string]bool, len(families))
	for _, mf := range families {
		got[mf.GetName()] = true
	}
	for _, name := range []string{
		"optionscan_tickers_scored_total",
		"optionscan_contracts_rejected_total",
		"optionscan_iv_bisection_fallbacks_total",
		"optionscan_solver_failures_total",
		"optionscan_scan_duration_seconds",
	} {
		assert.True(t, got[name], "missing metric family %s", name)
	}
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	// Recorders must not share state; building two in one process is normal
	// in tests and must not panic on duplicate registration.
	a, b := New(), New()
	a.RecordTickersScored(5)

	families, err := b.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "optionscan_tickers_scored_total" {
			for _, m := range mf.GetMetric() {
				assert.Equal(t, 0.0, m.GetCounter().GetValue())
			}
		}
	}
}
