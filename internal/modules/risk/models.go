// Package risk computes drawdown, beta, correlation and volatility metrics
// for an account's valuation series against a benchmark.
package risk

import "time"

// RollingVolPoint is one entry of a rolling-window volatility series.
type RollingVolPoint struct {
	Date       time.Time `json:"date"`
	Volatility float64   `json:"volatility"`
}

// Metrics is the risk report for one account and window. Beta and
// correlation are nil when fewer than two paired return observations exist;
// max drawdown is nil for series shorter than two points.
type Metrics struct {
	Volatility        float64           `json:"volatility"`
	MaxDrawdown       *float64          `json:"max_drawdown"`
	CurrentDrawdown   float64           `json:"current_drawdown"`
	Beta              *float64          `json:"beta"`
	Correlation       *float64          `json:"correlation"`
	RollingVolatility []RollingVolPoint `json:"rolling_volatility,omitempty"`
	PairedPoints      int               `json:"paired_points"`
	InsufficientData  bool              `json:"insufficient_data"`
}
