package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OptionScan/internal/domain/models"
	"OptionScan/pkg/config"
	"OptionScan/pkg/logger"
)

func TestImpliedVolatility_RoundTrip(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name string
		in   PricingInputs
	}{
		{"atm call", PricingInputs{Spot: 100, Strike: 100, TimeToExpiry: 1.0, RiskFreeRate: 0.05, Volatility: 0.20, Type: models.Call}},
		{"otm put", PricingInputs{Spot: 100, Strike: 90, TimeToExpiry: 0.25, RiskFreeRate: 0.05, Volatility: 0.45, Type: models.Put}},
		{"high vol call", PricingInputs{Spot: 50, Strike: 55, TimeToExpiry: 0.5, RiskFreeRate: 0.03, Volatility: 1.20, Type: models.Call}},
		{"low vol put", PricingInputs{Spot: 200, Strike: 210, TimeToExpiry: 2.0, RiskFreeRate: 0.04, Volatility: 0.10, Type: models.Put}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			marketPrice, err := engine.Price(tc.in)
			require.NoError(t, err)

			iv, err := engine.ImpliedVolatility(tc.in, marketPrice)
			require.NoError(t, err)
			assert.InDelta(t, tc.in.Volatility, iv, 1e-4)
		})
	}
}

func TestImpliedVolatility_BisectionFallback(t *testing.T) {
	// Starve Newton-Raphson of iterations so the solve must finish through
	// the bisection path.
	cfg := config.Default().Pricing
	cfg.MaxNewtonIterations = 1
	engine := NewEngine(cfg, logger.Nop(), nil)

	in := PricingInputs{
		Spot:         100,
		Strike:       110,
		TimeToExpiry: 0.5,
		RiskFreeRate: 0.05,
		Volatility:   0.65,
		Type:         models.Call,
	}
	marketPrice, err := engine.Price(in)
	require.NoError(t, err)

	iv, err := engine.ImpliedVolatility(in, marketPrice)
	require.NoError(t, err)
	assert.InDelta(t, in.Volatility, iv, 1e-4)
}

func TestImpliedVolatility_PriceBelowLowerBound(t *testing.T) {
	engine := newTestEngine(t)

	in := PricingInputs{
		Spot:         120,
		Strike:       100,
		TimeToExpiry: 1.0,
		RiskFreeRate: 0.05,
		Type:         models.Call,
	}
	// European lower bound is S - K*e^(-rT) ~= 24.88; quote well below it.
	_, err := engine.ImpliedVolatility(in, 10.0)
	require.ErrorIs(t, err, ErrPriceBelowLowerBound)
}

func TestImpliedVolatility_Unbracketable(t *testing.T) {
	engine := newTestEngine(t)

	// A short-dated ATM call is worth ~53 even at the 500% volatility cap;
	// a 90 quote sits above the bound but outside any bracketable root.
	in := PricingInputs{
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1.0 / 12.0,
		RiskFreeRate: 0.05,
		Type:         models.Call,
	}
	_, err := engine.ImpliedVolatility(in, 90.0)
	require.ErrorIs(t, err, ErrNoConvergence)
}

func TestImpliedVolatility_RejectsInvalidInputs(t *testing.T) {
	engine := newTestEngine(t)
	in := PricingInputs{
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1.0,
		RiskFreeRate: 0.05,
		Type:         models.Call,
	}

	t.Run("zero expiry", func(t *testing.T) {
		bad := in
		bad.TimeToExpiry = 0
		_, err := engine.ImpliedVolatility(bad, 5.0)
		require.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("negative spot", func(t *testing.T) {
		bad := in
		bad.Spot = -100
		_, err := engine.ImpliedVolatility(bad, 5.0)
		require.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("zero market price", func(t *testing.T) {
		_, err := engine.ImpliedVolatility(in, 0)
		require.ErrorIs(t, err, models.ErrInvalidInput)
	})
}
