// Package snapshots computes and caches daily net-worth snapshots so the
// dashboard does not recompute full valuations on every request.
package snapshots

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountValue is one account's contribution to a net-worth snapshot.
type AccountValue struct {
	AccountID string          `json:"account_id" msgpack:"account_id"`
	Name      string          `json:"name" msgpack:"name"`
	Value     decimal.Decimal `json:"value" msgpack:"value"`
}

// DebtBalance is one liability's contribution.
type DebtBalance struct {
	ID      string          `json:"id" msgpack:"id"`
	Name    string          `json:"name" msgpack:"name"`
	Balance decimal.Decimal `json:"balance" msgpack:"balance"`
}

// NetWorth is a point-in-time net-worth snapshot for one user.
type NetWorth struct {
	UserID      string          `json:"user_id" msgpack:"user_id"`
	Date        time.Time       `json:"date" msgpack:"date"`
	Assets      decimal.Decimal `json:"assets" msgpack:"assets"`
	Liabilities decimal.Decimal `json:"liabilities" msgpack:"liabilities"`
	NetWorth    decimal.Decimal `json:"net_worth" msgpack:"net_worth"`
	Accounts    []AccountValue  `json:"accounts" msgpack:"accounts"`
	Debts       []DebtBalance   `json:"debts" msgpack:"debts"`
	ComputedAt  time.Time       `json:"computed_at" msgpack:"computed_at"`
}
