// Package benchmarks aligns benchmark index returns with an account's date
// range for side-by-side comparison.
package benchmarks

// DefaultSymbols are the benchmark indices compared against by default.
var DefaultSymbols = []string{"SPY", "QQQ", "IWM", "VTI"}

// Trend classification for a benchmark's moving averages.
const (
	TrendUp      = "uptrend"
	TrendDown    = "downtrend"
	TrendUnknown = "unknown"
)

// Comparison packages a benchmark's period return and risk figures for the
// same window as the account's own metrics.
type Comparison struct {
	Symbol       string  `json:"symbol"`
	PeriodReturn float64 `json:"period_return"`
	Volatility   float64 `json:"volatility"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	Trend        string  `json:"trend"`
	DataPoints   int     `json:"data_points"`
}
