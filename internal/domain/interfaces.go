package domain

import "time"

// HoldingSource provides current position snapshots for an account.
type HoldingSource interface {
	HoldingsByAccount(accountID string) ([]Holding, error)
}

// TransactionSource provides ledger history for an account. Transactions
// are returned in chronological order.
type TransactionSource interface {
	TransactionsByAccount(accountID string) ([]Transaction, error)
	TransactionsInRange(accountID string, start, end time.Time) ([]Transaction, error)
}

// PriceSource provides historical daily closes for portfolio symbols.
type PriceSource interface {
	History(symbol string, start, end time.Time) ([]PricePoint, error)
}

// BenchmarkSource provides daily closes for benchmark index symbols.
type BenchmarkSource interface {
	DailyCloses(symbol string, start, end time.Time) ([]PricePoint, error)
}

// DebtSource provides debt snapshots for a user.
type DebtSource interface {
	DebtAccountsByUser(userID string) ([]DebtAccount, error)
	CreditCardsByUser(userID string) ([]CreditCard, error)
	MortgagesByUser(userID string) ([]Mortgage, error)
}
