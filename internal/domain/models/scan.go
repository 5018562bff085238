package models

import "time"

// TickerScore is one ticker's scored result from a scan run. Immutable once
// built by the compositor; one per ticker per scan.
type TickerScore struct {
	Ticker    string             `json:"ticker"`
	Score     float64            `json:"score"` // composite, clamped to [0, 100]
	Signals   map[string]float64 `json:"signals"`
	Direction SignalDirection    `json:"direction"`
	Rank      int                `json:"rank"` // 1-based, dense
}

// TickerStats carries per-ticker reference data used by the selection
// pre-filter and the catalyst adjustment.
type TickerStats struct {
	Price           float64    `json:"price"`
	AvgDollarVolume float64    `json:"avg_dollar_volume"`
	NextEarnings    *time.Time `json:"next_earnings,omitempty"`
}

// ScanSnapshot is the fully-fetched, fully-typed input to one scan run.
// The data layer that produces it (providers, caching, retries) lives
// outside this repository; the core performs no network I/O.
type ScanSnapshot struct {
	AsOf     time.Time                   `json:"as_of"`
	Universe UniverseIndicators          `json:"universe"`
	Stats    map[string]TickerStats      `json:"stats"`
	Chains   map[string][]OptionContract `json:"chains"`
}

// Recommendation pairs a ranked ticker with its selected contract.
type Recommendation struct {
	Ticker   string         `json:"ticker"`
	Score    TickerScore    `json:"score"`
	Contract OptionContract `json:"contract"`
}

// ScanResult is the output of one full scan: the ranked universe plus one
// recommended contract per ticker where selection succeeded. Skipped maps
// ticker to the reason no contract qualified.
type ScanResult struct {
	AsOf            time.Time         `json:"as_of"`
	Scores          []TickerScore     `json:"scores"`
	Recommendations []Recommendation  `json:"recommendations"`
	Skipped         map[string]string `json:"skipped,omitempty"`
}
