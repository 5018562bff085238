package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Validation boundaries for Greeks supplied by market data.
const (
	DeltaMin = -1.0
	DeltaMax = 1.0
)

// OptionGreeks holds the sensitivity measures for an option contract.
// Theta is expressed per calendar day, not annualized.
type OptionGreeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Validate rejects garbage Greeks from upstream feeds: delta outside
// [-1, 1], negative gamma or vega.
func (g OptionGreeks) Validate() error {
	if g.Delta < DeltaMin || g.Delta > DeltaMax {
		return fmt.Errorf("%w: delta must be between %v and %v, got %v", ErrInvalidInput, DeltaMin, DeltaMax, g.Delta)
	}
	if g.Gamma < 0 {
		return fmt.Errorf("%w: gamma must be >= 0, got %v", ErrInvalidInput, g.Gamma)
	}
	if g.Vega < 0 {
		return fmt.Errorf("%w: vega must be >= 0, got %v", ErrInvalidInput, g.Vega)
	}
	return nil
}

// OptionContract is a point-in-time snapshot of a single listed contract.
// Money fields use decimal to avoid float drift in mid/spread arithmetic.
// Contracts are value objects: nothing mutates one after construction, the
// Greeks fallback returns a copy via WithGreeks.
type OptionContract struct {
	Ticker            string          `json:"ticker"`
	Type              OptionType      `json:"type"`
	Strike            decimal.Decimal `json:"strike"`
	Expiration        time.Time       `json:"expiration"`
	Bid               decimal.Decimal `json:"bid"`
	Ask               decimal.Decimal `json:"ask"`
	Last              decimal.Decimal `json:"last"`
	Volume            int64           `json:"volume"`
	OpenInterest      int64           `json:"open_interest"`
	ImpliedVolatility float64         `json:"implied_volatility"`
	Greeks            *OptionGreeks   `json:"greeks,omitempty"`
	GreeksSource      GreeksSource    `json:"greeks_source,omitempty"`
}

// Mid is (bid+ask)/2, a better fair-value estimate than last.
func (c OptionContract) Mid() decimal.Decimal {
	return c.Bid.Add(c.Ask).Div(decimal.NewFromInt(2))
}

// Spread is the bid-ask spread. A wide spread indicates illiquidity.
func (c OptionContract) Spread() decimal.Decimal {
	return c.Ask.Sub(c.Bid)
}

// DTE returns whole days to expiration measured from asOf.
func (c OptionContract) DTE(asOf time.Time) int {
	days := c.Expiration.Truncate(24*time.Hour).Sub(asOf.Truncate(24*time.Hour)) / (24 * time.Hour)
	return int(days)
}

// WithGreeks returns a copy of the contract carrying the given Greeks.
func (c OptionContract) WithGreeks(g OptionGreeks, source GreeksSource) OptionContract {
	c.Greeks = &g
	c.GreeksSource = source
	return c
}
