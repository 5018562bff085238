package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OptionScan/internal/domain/models"
	"OptionScan/pkg/config"
	"OptionScan/pkg/logger"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(config.Default().Pricing, logger.Nop(), nil)
}

// Reference values cross-checked against Hull, ch. 15 worked examples.
func TestPrice_ATMReferenceValues(t *testing.T) {
	engine := newTestEngine(t)
	base := PricingInputs{
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1.0,
		RiskFreeRate: 0.05,
		Volatility:   0.20,
	}

	t.Run("call", func(t *testing.T) {
		in := base
		in.Type = models.Call
		got, err := engine.Price(in)
		require.NoError(t, err)
		assert.InDelta(t, 10.4506, got, 1e-4)
	})

	t.Run("put", func(t *testing.T) {
		in := base
		in.Type = models.Put
		got, err := engine.Price(in)
		require.NoError(t, err)
		assert.InDelta(t, 5.5735, got, 1e-4)
	})
}

func TestPrice_PutCallParity(t *testing.T) {
	engine := newTestEngine(t)

	cases := []PricingInputs{
		{Spot: 100, Strike: 100, TimeToExpiry: 1.0, RiskFreeRate: 0.05, Volatility: 0.20},
		{Spot: 150, Strike: 120, TimeToExpiry: 0.5, RiskFreeRate: 0.03, Volatility: 0.45},
		{Spot: 42, Strike: 60, TimeToExpiry: 0.1, RiskFreeRate: 0.08, Volatility: 0.80},
	}

	for _, in := range cases {
		in.Type = models.Call
		call, err := engine.Price(in)
		require.NoError(t, err)

		in.Type = models.Put
		put, err := engine.Price(in)
		require.NoError(t, err)

		// C - P = S - K*e^(-rT)
		forward := in.Spot - in.Strike*math.Exp(-in.RiskFreeRate*in.TimeToExpiry)
		assert.InDelta(t, forward, call-put, 1e-9,
			"parity violated at S=%v K=%v", in.Spot, in.Strike)
	}
}

func TestGreeks_ATMCall(t *testing.T) {
	engine := newTestEngine(t)

	greeks, err := engine.Greeks(PricingInputs{
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1.0,
		RiskFreeRate: 0.05,
		Volatility:   0.20,
		Type:         models.Call,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.6368, greeks.Delta, 1e-4)
	assert.InDelta(t, 0.018762, greeks.Gamma, 1e-5)
	assert.InDelta(t, 37.524, greeks.Vega, 1e-3)
	assert.InDelta(t, -0.017573, greeks.Theta, 1e-5)
	assert.InDelta(t, 53.232, greeks.Rho, 1e-3)
	require.NoError(t, greeks.Validate())
}

func TestGreeks_CallPutRelations(t *testing.T) {
	engine := newTestEngine(t)
	in := PricingInputs{
		Spot:         100,
		Strike:       105,
		TimeToExpiry: 0.25,
		RiskFreeRate: 0.05,
		Volatility:   0.35,
	}

	in.Type = models.Call
	call, err := engine.Greeks(in)
	require.NoError(t, err)

	in.Type = models.Put
	put, err := engine.Greeks(in)
	require.NoError(t, err)

	// Put delta = call delta - 1; gamma and vega are shared.
	assert.InDelta(t, call.Delta-1.0, put.Delta, 1e-12)
	assert.InDelta(t, call.Gamma, put.Gamma, 1e-12)
	assert.InDelta(t, call.Vega, put.Vega, 1e-12)
	assert.Greater(t, call.Rho, 0.0)
	assert.Less(t, put.Rho, 0.0)
}

func TestPrice_RejectsInvalidInputs(t *testing.T) {
	engine := newTestEngine(t)
	valid := PricingInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 1.0, RiskFreeRate: 0.05, Volatility: 0.2, Type: models.Call,
	}

	mutations := map[string]func(*PricingInputs){
		"zero spot":       func(in *PricingInputs) { in.Spot = 0 },
		"negative strike": func(in *PricingInputs) { in.Strike = -5 },
		"zero expiry":     func(in *PricingInputs) { in.TimeToExpiry = 0 },
		"zero volatility": func(in *PricingInputs) { in.Volatility = 0 },
		"unknown type":    func(in *PricingInputs) { in.Type = "straddle" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := valid
			mutate(&in)

			_, err := engine.Price(in)
			require.ErrorIs(t, err, models.ErrInvalidInput)

			_, err = engine.Greeks(in)
			require.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}
