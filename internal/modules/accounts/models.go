// Package accounts reads account, holding, transaction and price rows out
// of the finance database into the engine's domain snapshots.
package accounts

import "time"

// Account is an investment account row.
type Account struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
