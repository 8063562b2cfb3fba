// Package credit scores revolving-credit utilization per card and across a
// user's whole revolving portfolio.
package credit

import "github.com/shopspring/decimal"

// Band is a utilization risk band.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
	// BandNotApplicable marks a card whose own ratio is undefined
	// (zero credit limit).
	BandNotApplicable Band = "N/A"
)

// CardUtilization is the per-card utilization report. Utilization is a
// percentage; nil when the card has no credit limit.
type CardUtilization struct {
	CardID      string          `json:"card_id"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Utilization *float64        `json:"utilization"`
	Band        Band            `json:"band"`
}

// Report covers all of a user's revolving accounts. Zero-limit cards still
// contribute their balances to the aggregate even though their own ratio
// is undefined.
type Report struct {
	Cards                []CardUtilization `json:"cards"`
	TotalBalance         decimal.Decimal   `json:"total_balance"`
	TotalLimit           decimal.Decimal   `json:"total_limit"`
	AggregateUtilization *float64          `json:"aggregate_utilization"`
	AggregateBand        Band              `json:"aggregate_band"`
}
