package models

// OptionType is the side of an option contract.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// SignalDirection is the directional bias derived from trend/momentum indicators.
type SignalDirection string

const (
	Bullish SignalDirection = "bullish"
	Bearish SignalDirection = "bearish"
	Neutral SignalDirection = "neutral"
)

// GreeksSource records where a contract's Greeks came from.
type GreeksSource string

const (
	// GreeksMarket means the Greeks were supplied by the market data feed.
	GreeksMarket GreeksSource = "market"
	// GreeksCalculated means the Greeks were filled in by the pricing engine.
	GreeksCalculated GreeksSource = "calculated"
)
