// Package pricing implements closed-form Black-Scholes-Merton pricing,
// Greeks, and an implied volatility solver for European options.
//
// Volatility and rates are annualized decimals (0.25 = 25%), time to
// expiration is in year fractions, and theta is reported per calendar day.
//
// Reference: Hull, "Options, Futures, and Other Derivatives", ch. 15.
package pricing

import (
	"fmt"
	"math"

	"OptionScan/internal/domain/models"
	"OptionScan/pkg/config"
	"OptionScan/pkg/logger"
	"OptionScan/pkg/metrics"
)

// DaysPerYear converts annualized theta to per-calendar-day theta.
const DaysPerYear = 365.0

// PricingInputs are the BSM model inputs for a single contract.
type PricingInputs struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64 // year fraction, must be > 0
	RiskFreeRate float64 // annualized decimal
	Volatility   float64 // annualized decimal, must be > 0
	Type         models.OptionType
}

// Engine prices European options and solves for implied volatility.
type Engine struct {
	cfg     config.PricingConfig
	log     *logger.Logger
	metrics *metrics.Recorder
}

func NewEngine(cfg config.PricingConfig, log *logger.Logger, rec *metrics.Recorder) *Engine {
	return &Engine{cfg: cfg, log: log, metrics: rec}
}

// RiskFreeRate is the configured fallback rate for callers that have no
// observed rate of their own.
func (e *Engine) RiskFreeRate() float64 { return e.cfg.RiskFreeRate }

// Price returns the closed-form BSM price of a European call or put.
func (e *Engine) Price(in PricingInputs) (float64, error) {
	if err := validateInputs(in); err != nil {
		return 0, err
	}
	return price(in), nil
}

// Greeks returns the full set of first-order sensitivities. The result is
// always fully populated: delta, gamma, theta (per day), vega (per 1.0
// change in volatility), and rho.
func (e *Engine) Greeks(in PricingInputs) (models.OptionGreeks, error) {
	if err := validateInputs(in); err != nil {
		return models.OptionGreeks{}, err
	}

	d1v := d1(in)
	d2v := d2(d1v, in)
	sqrtT := math.Sqrt(in.TimeToExpiry)
	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)
	pdfD1 := normPDF(d1v)

	// Gamma and vega are identical for calls and puts.
	gamma := pdfD1 / (in.Spot * in.Volatility * sqrtT)
	vega := in.Spot * pdfD1 * sqrtT

	var delta, thetaAnnual, rho float64
	if in.Type == models.Call {
		delta = normCDF(d1v)
		thetaAnnual = -(in.Spot*pdfD1*in.Volatility)/(2.0*sqrtT) -
			in.RiskFreeRate*in.Strike*discount*normCDF(d2v)
		rho = in.Strike * in.TimeToExpiry * discount * normCDF(d2v)
	} else {
		delta = normCDF(d1v) - 1.0
		thetaAnnual = -(in.Spot*pdfD1*in.Volatility)/(2.0*sqrtT) +
			in.RiskFreeRate*in.Strike*discount*normCDF(-d2v)
		rho = -in.Strike * in.TimeToExpiry * discount * normCDF(-d2v)
	}

	return models.OptionGreeks{
		Delta: delta,
		Gamma: gamma,
		Theta: thetaAnnual / DaysPerYear,
		Vega:  vega,
		Rho:   rho,
	}, nil
}

func price(in PricingInputs) float64 {
	d1v := d1(in)
	d2v := d2(d1v, in)
	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)

	if in.Type == models.Call {
		return in.Spot*normCDF(d1v) - in.Strike*discount*normCDF(d2v)
	}
	return in.Strike*discount*normCDF(-d2v) - in.Spot*normCDF(-d1v)
}

// d1 = (ln(S/K) + (r + sigma^2/2)T) / (sigma*sqrt(T))
func d1(in PricingInputs) float64 {
	num := math.Log(in.Spot/in.Strike) + (in.RiskFreeRate+in.Volatility*in.Volatility/2.0)*in.TimeToExpiry
	return num / (in.Volatility * math.Sqrt(in.TimeToExpiry))
}

// d2 = d1 - sigma*sqrt(T)
func d2(d1v float64, in PricingInputs) float64 {
	return d1v - in.Volatility*math.Sqrt(in.TimeToExpiry)
}

func validateInputs(in PricingInputs) error {
	switch {
	case in.Spot <= 0:
		return fmt.Errorf("%w: spot must be positive, got %v", models.ErrInvalidInput, in.Spot)
	case in.Strike <= 0:
		return fmt.Errorf("%w: strike must be positive, got %v", models.ErrInvalidInput, in.Strike)
	case in.TimeToExpiry <= 0:
		return fmt.Errorf("%w: time to expiry must be positive, got %v", models.ErrInvalidInput, in.TimeToExpiry)
	case in.Volatility <= 0:
		return fmt.Errorf("%w: volatility must be positive, got %v", models.ErrInvalidInput, in.Volatility)
	case in.Type != models.Call && in.Type != models.Put:
		return fmt.Errorf("%w: unknown option type %q", models.ErrInvalidInput, in.Type)
	}
	return nil
}

// normCDF is the standard normal cumulative distribution function.
func normCDF(x float64) float64 {
	return 0.5 * (1.0 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2.0) / math.Sqrt(2.0*math.Pi)
}
