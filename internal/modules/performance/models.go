// Package performance computes time-weighted and money-weighted returns,
// volatility and Sharpe ratio from an account's valuation series.
package performance

import (
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/modules/benchmarks"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
)

// Result is the full performance report for an account over a date range.
// Percentage figures are fractions (0.10 = 10%); monetary figures are exact
// decimals rounded to cents.
type Result struct {
	TimeWeightedReturn  float64 `json:"time_weighted_return"`
	MoneyWeightedReturn float64 `json:"money_weighted_return"`
	MWRConverged        bool    `json:"mwr_converged"`
	AnnualizedReturn    float64 `json:"annualized_return"`
	Volatility          float64 `json:"volatility"`
	SharpeRatio         float64 `json:"sharpe_ratio"`

	MarketValue    decimal.Decimal `json:"market_value"`
	TotalCostBasis decimal.Decimal `json:"total_cost_basis"`
	DollarReturn   decimal.Decimal `json:"dollar_return"`

	Benchmarks []benchmarks.Comparison     `json:"benchmarks,omitempty"`
	Series     []timeseries.ValuationPoint `json:"series"`

	// InsufficientData is set when the series could not support return
	// calculations; all ratio figures are zero in that case.
	InsufficientData bool `json:"insufficient_data"`
}

// MWRResult is the outcome of the money-weighted return root search.
type MWRResult struct {
	Rate      float64 `json:"rate"`
	Converged bool    `json:"converged"`
}
