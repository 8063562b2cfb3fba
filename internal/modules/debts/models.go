// Package debts simulates month-by-month debt payoff under avalanche and
// snowball orderings and compares the two strategies.
package debts

import "github.com/shopspring/decimal"

// Strategy selects the payoff ordering.
type Strategy string

const (
	// StrategyAvalanche targets the highest-APR active debt first.
	StrategyAvalanche Strategy = "avalanche"
	// StrategySnowball targets the lowest-balance active debt first, ties
	// broken toward the higher APR.
	StrategySnowball Strategy = "snowball"
)

// MonthState is one month of a payoff timeline.
type MonthState struct {
	Month            int             `json:"month"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	InterestAccrued  decimal.Decimal `json:"interest_accrued"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Simulation is the outcome of running one strategy to completion.
type Simulation struct {
	Strategy      Strategy        `json:"strategy"`
	Months        int             `json:"months"`
	TotalInterest decimal.Decimal `json:"total_interest"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	// PayoffOrder lists debt IDs in the order they were retired.
	PayoffOrder []string     `json:"payoff_order"`
	Timeline    []MonthState `json:"timeline"`
	// CapReached reports that the simulation hit the iteration bound with
	// balances outstanding, which happens when payments cannot outpace
	// accruing interest.
	CapReached bool `json:"cap_reached"`
}

// Comparison pits avalanche against snowball for the same debt snapshot.
type Comparison struct {
	Avalanche Simulation `json:"avalanche"`
	Snowball  Simulation `json:"snowball"`
	// InterestDifference is snowball interest minus avalanche interest;
	// non-negative whenever both simulations complete.
	InterestDifference decimal.Decimal `json:"interest_difference"`
	Recommended        Strategy        `json:"recommended"`
}
