package pricing

import (
	"errors"
	"fmt"
	"math"

	"OptionScan/internal/domain/models"
	"OptionScan/pkg/logger"
)

// ErrPriceBelowLowerBound marks an observed price below the European
// no-arbitrage lower bound. No volatility can reproduce such a price, so
// solving aborts instead of returning a meaningless value.
var ErrPriceBelowLowerBound = errors.New("price below European lower bound")

// ErrNoConvergence marks an IV solve where Newton-Raphson hit its iteration
// cap and the bisection fallback could not bracket a root.
var ErrNoConvergence = errors.New("implied volatility solver did not converge")

// ImpliedVolatility inverts the BSM price for volatility. in.Volatility is
// ignored; marketPrice is the observed option price to reproduce.
//
// Newton-Raphson runs first, using vega as the derivative, capped at the
// configured iteration limit. If it diverges, leaves the volatility bracket,
// or meets a vanishing vega, the solve falls back to bisection over
// [IVLowerBound, IVUpperBound], which converges for any bracketable root.
func (e *Engine) ImpliedVolatility(in PricingInputs, marketPrice float64) (float64, error) {
	if in.TimeToExpiry <= 0 {
		return 0, fmt.Errorf("%w: time to expiry must be positive, got %v", models.ErrInvalidInput, in.TimeToExpiry)
	}
	if in.Spot <= 0 || in.Strike <= 0 {
		return 0, fmt.Errorf("%w: spot and strike must be positive, got spot=%v strike=%v",
			models.ErrInvalidInput, in.Spot, in.Strike)
	}
	if marketPrice <= 0 {
		return 0, fmt.Errorf("%w: market price must be positive, got %v", models.ErrInvalidInput, marketPrice)
	}

	lowerBound := europeanLowerBound(in)
	if marketPrice < lowerBound-e.cfg.Tolerance {
		return 0, fmt.Errorf("%w: price %v < bound %v", ErrPriceBelowLowerBound, marketPrice, lowerBound)
	}

	if iv, ok := e.newtonRaphson(in, marketPrice); ok {
		return iv, nil
	}

	e.log.Debug("newton-raphson did not converge, falling back to bisection",
		logger.String("ticker_type", string(in.Type)),
		logger.Float64("market_price", marketPrice))
	if e.metrics != nil {
		e.metrics.RecordIVFallback()
	}

	if iv, ok := e.bisection(in, marketPrice); ok {
		return iv, nil
	}

	if e.metrics != nil {
		e.metrics.RecordSolverFailure("unbracketable")
	}
	return 0, fmt.Errorf("%w: after %d newton and %d bisection iterations",
		ErrNoConvergence, e.cfg.MaxNewtonIterations, e.cfg.MaxBisectionIterations)
}

// europeanLowerBound is the no-arbitrage floor for a European option. It
// discounts the strike, unlike the naive American-style intrinsic value:
//
//	call: max(S - K*e^(-rT), 0)
//	put:  max(K*e^(-rT) - S, 0)
func europeanLowerBound(in PricingInputs) float64 {
	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)
	if in.Type == models.Call {
		return math.Max(in.Spot-in.Strike*discount, 0)
	}
	return math.Max(in.Strike*discount-in.Spot, 0)
}

func (e *Engine) newtonRaphson(in PricingInputs, marketPrice float64) (float64, bool) {
	in.Volatility = e.cfg.IVInitialGuess

	for i := 0; i < e.cfg.MaxNewtonIterations; i++ {
		diff := price(in) - marketPrice
		if math.Abs(diff) < e.cfg.Tolerance {
			return in.Volatility, true
		}

		vega := in.Spot * normPDF(d1(in)) * math.Sqrt(in.TimeToExpiry)
		if vega < e.cfg.Tolerance {
			// The slope is too flat for a reliable step.
			return 0, false
		}

		in.Volatility -= diff / vega
		if in.Volatility <= e.cfg.IVLowerBound || in.Volatility >= e.cfg.IVUpperBound {
			return 0, false
		}
	}

	return 0, false
}

func (e *Engine) bisection(in PricingInputs, marketPrice float64) (float64, bool) {
	low, high := e.cfg.IVLowerBound, e.cfg.IVUpperBound

	in.Volatility = low
	priceLow := price(in)
	in.Volatility = high
	priceHigh := price(in)
	if (priceLow-marketPrice)*(priceHigh-marketPrice) > 0 {
		return 0, false
	}

	for i := 0; i < e.cfg.MaxBisectionIterations; i++ {
		mid := (low + high) / 2.0
		in.Volatility = mid
		diff := price(in) - marketPrice

		if math.Abs(diff) < e.cfg.Tolerance {
			return mid, true
		}
		if diff > 0 {
			high = mid
		} else {
			low = mid
		}
	}

	// The bracket has collapsed far below any useful tolerance by now.
	return (low + high) / 2.0, true
}
