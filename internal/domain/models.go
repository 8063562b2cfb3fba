// Package domain holds the plain data snapshots the analytics engine
// computes over, and the repository contracts the host layer implements.
//
// Everything here is an immutable in-memory view: repositories read rows out
// of storage once, and the engine never touches storage itself.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies ledger transactions for valuation and
// cash-flow purposes.
type TransactionType string

const (
	TransactionBuy              TransactionType = "BUY"
	TransactionSell             TransactionType = "SELL"
	TransactionDeposit          TransactionType = "DEPOSIT"
	TransactionWithdrawal       TransactionType = "WITHDRAWAL"
	TransactionInitialBalance   TransactionType = "INITIAL_BALANCE"
	TransactionDividend         TransactionType = "DIVIDEND"
	TransactionDividendReinvest TransactionType = "DIVIDEND_REINVEST"
)

// IsExternalFlow reports whether the transaction type represents money
// crossing the account boundary. Buys, sells and reinvested dividends move
// value around inside the account and are excluded from cash-flow events,
// though they still affect valuation.
func (t TransactionType) IsExternalFlow() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionInitialBalance:
		return true
	}
	return false
}

// AffectsQuantity reports whether the transaction changes share quantity.
func (t TransactionType) AffectsQuantity() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividendReinvest:
		return true
	}
	return false
}

// Transaction is a single ledger row for an account.
type Transaction struct {
	ID        string
	AccountID string
	Symbol    string
	Type      TransactionType
	Quantity  decimal.Decimal // shares moved; zero for pure cash flows
	Price     decimal.Decimal // per-unit execution price
	Amount    decimal.Decimal // total cash amount, always non-negative
	Date      time.Time
	// TargetLotID tags a SELL for specific-identification lot matching.
	// Empty means FIFO.
	TargetLotID string
}

// Holding is the current position snapshot for one security in an account.
type Holding struct {
	ID           string
	AccountID    string
	Symbol       string
	Quantity     decimal.Decimal
	CurrentPrice decimal.Decimal
	CostBasis    decimal.Decimal // total cost basis for the position
}

// MarketValue returns quantity × current price.
func (h Holding) MarketValue() decimal.Decimal {
	return h.Quantity.Mul(h.CurrentPrice)
}

// PricePoint is one daily close for a symbol.
type PricePoint struct {
	Symbol string
	Date   time.Time
	Close  decimal.Decimal
}

// DebtAccount is the analytics view of a revolving or installment debt.
// It is a read-only snapshot shared by the utilization calculator and the
// payoff strategist, not the persistence entity.
type DebtAccount struct {
	ID             string
	Name           string
	Balance        decimal.Decimal
	APR            decimal.Decimal // annual rate as a fraction, e.g. 0.22
	MinimumPayment decimal.Decimal
	Priority       int
}

// CreditCard is the snapshot used for utilization scoring.
type CreditCard struct {
	ID          string
	Name        string
	Balance     decimal.Decimal
	CreditLimit decimal.Decimal
}

// Loan describes a fixed-rate installment loan.
type Loan struct {
	ID         string
	Principal  decimal.Decimal
	AnnualRate decimal.Decimal // fraction per year, e.g. 0.06
	TermMonths int
	StartDate  time.Time
}

// Mortgage is a property-backed loan balance that may opt in to debt-payoff
// simulation as a synthetic debt entry.
type Mortgage struct {
	ID             string
	PropertyName   string
	Balance        decimal.Decimal
	APR            decimal.Decimal
	MinimumPayment decimal.Decimal
}

// AsDebtAccount converts the mortgage into a synthetic debt entry that
// participates in payoff simulation exactly like any other debt.
func (m Mortgage) AsDebtAccount() DebtAccount {
	return DebtAccount{
		ID:             m.ID,
		Name:           "mortgage:" + m.PropertyName,
		Balance:        m.Balance,
		APR:            m.APR,
		MinimumPayment: m.MinimumPayment,
	}
}
