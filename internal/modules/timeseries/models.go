// Package timeseries reconstructs chronological valuation and cash-flow
// series for an account from its holdings and transaction history.
package timeseries

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// FlowDirection marks which way an external cash flow crosses the account
// boundary.
type FlowDirection string

const (
	FlowIn  FlowDirection = "in"
	FlowOut FlowDirection = "out"
)

// ValuationPoint is the account's total market value on one date.
// Points are immutable once built.
type ValuationPoint struct {
	Date       time.Time       `json:"date"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// CashFlowEvent is an external deposit or withdrawal. Internal buys, sells
// and reinvested dividends never appear here.
type CashFlowEvent struct {
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"` // always non-negative
	Direction FlowDirection   `json:"direction"`
}

// Signed returns the flow amount signed from the account's perspective:
// positive for money entering, negative for money leaving.
func (e CashFlowEvent) Signed() decimal.Decimal {
	if e.Direction == FlowOut {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Series is the ordered output of the builder for one account and range.
type Series struct {
	AccountID string           `json:"account_id"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Points    []ValuationPoint `json:"points"`
	Flows     []CashFlowEvent  `json:"flows"`
	// InsufficientData marks a degenerate series (no transactions in range)
	// built from the current snapshot; return calculations on it are
	// reported as neutral rather than failing.
	InsufficientData bool `json:"insufficient_data"`
}

// Values returns the valuation series as float64s for statistics routines.
// Monetary results stay in decimal; only dimensionless return math leaves it.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i], _ = p.TotalValue.Float64()
	}
	return out
}

// Days returns the length of the series range in whole days.
func (s Series) Days() int {
	return int(s.End.Sub(s.Start).Hours() / 24)
}

// Input carries everything the builder needs, fetched by the caller.
type Input struct {
	AccountID    string
	Start        time.Time
	End          time.Time
	Transactions []domain.Transaction            // full account history, any order
	Holdings     []domain.Holding                // current snapshot
	Prices       map[string][]domain.PricePoint  // daily closes per symbol, any order
}
