package debts

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// Repository reads debt, credit card and mortgage snapshots out of the
// finance database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a debt repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "debts_repo").Logger(),
	}
}

// DebtAccountsByUser lists a user's debts ordered by priority.
func (r *Repository) DebtAccountsByUser(userID string) ([]domain.DebtAccount, error) {
	query := `
		SELECT id, name, balance, apr, minimum_payment, priority
		FROM debt_accounts
		WHERE user_id = ?
		ORDER BY priority ASC, name ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query debt accounts: %w", err)
	}
	defer rows.Close()

	var debts []domain.DebtAccount
	for rows.Next() {
		var d domain.DebtAccount
		var balance, apr, minimum string
		if err := rows.Scan(&d.ID, &d.Name, &balance, &apr, &minimum, &d.Priority); err != nil {
			return nil, fmt.Errorf("failed to scan debt account: %w", err)
		}
		if d.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("invalid debt balance %q: %w", balance, err)
		}
		if d.APR, err = decimal.NewFromString(apr); err != nil {
			return nil, fmt.Errorf("invalid debt apr %q: %w", apr, err)
		}
		if d.MinimumPayment, err = decimal.NewFromString(minimum); err != nil {
			return nil, fmt.Errorf("invalid minimum payment %q: %w", minimum, err)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating debt accounts: %w", err)
	}
	return debts, nil
}

// CreditCardsByUser lists a user's revolving accounts.
func (r *Repository) CreditCardsByUser(userID string) ([]domain.CreditCard, error) {
	query := `
		SELECT id, name, balance, credit_limit
		FROM credit_cards
		WHERE user_id = ?
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.CreditCard
	for rows.Next() {
		var c domain.CreditCard
		var balance, limit string
		if err := rows.Scan(&c.ID, &c.Name, &balance, &limit); err != nil {
			return nil, fmt.Errorf("failed to scan credit card: %w", err)
		}
		if c.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("invalid card balance %q: %w", balance, err)
		}
		if c.CreditLimit, err = decimal.NewFromString(limit); err != nil {
			return nil, fmt.Errorf("invalid credit limit %q: %w", limit, err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit cards: %w", err)
	}
	return cards, nil
}

// MortgagesByUser lists a user's mortgages.
func (r *Repository) MortgagesByUser(userID string) ([]domain.Mortgage, error) {
	query := `
		SELECT id, property_name, balance, apr, minimum_payment
		FROM mortgages
		WHERE user_id = ?
		ORDER BY property_name ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mortgages: %w", err)
	}
	defer rows.Close()

	var mortgages []domain.Mortgage
	for rows.Next() {
		var m domain.Mortgage
		var balance, apr, minimum string
		if err := rows.Scan(&m.ID, &m.PropertyName, &balance, &apr, &minimum); err != nil {
			return nil, fmt.Errorf("failed to scan mortgage: %w", err)
		}
		if m.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("invalid mortgage balance %q: %w", balance, err)
		}
		if m.APR, err = decimal.NewFromString(apr); err != nil {
			return nil, fmt.Errorf("invalid mortgage apr %q: %w", apr, err)
		}
		if m.MinimumPayment, err = decimal.NewFromString(minimum); err != nil {
			return nil, fmt.Errorf("invalid mortgage minimum payment %q: %w", minimum, err)
		}
		mortgages = append(mortgages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mortgages: %w", err)
	}
	return mortgages, nil
}
