// Package amortization produces fixed-rate loan schedules and simulates
// payoff acceleration under extra monthly payments.
package amortization

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one row of an amortization schedule. Payment splits into
// interest and principal; the final period's payment absorbs the
// cent-rounding residual so the balance lands on exactly zero.
type Period struct {
	Number           int             `json:"number"`
	Date             time.Time       `json:"date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// Schedule is the full period-by-period amortization of a loan.
type Schedule struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Periods        []Period        `json:"periods"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	PayoffDate     time.Time       `json:"payoff_date"`
}

// PayoffResult summarizes an accelerated payoff run against the baseline
// schedule for the same loan.
type PayoffResult struct {
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	ExtraPayment   decimal.Decimal `json:"extra_payment"`
	Months         int             `json:"months"`
	PayoffDate     time.Time       `json:"payoff_date"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	InterestSaved  decimal.Decimal `json:"interest_saved"`
	MonthsSaved    int             `json:"months_saved"`

	// CapReached means the simulation hit its iteration cap with balance
	// still outstanding; months and savings figures describe a truncated
	// run, not a payoff.
	CapReached bool `json:"cap_reached"`
}
