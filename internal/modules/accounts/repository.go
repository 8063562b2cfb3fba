package accounts

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

const dateLayout = "2006-01-02"

// Repository provides read access to accounts, holdings, transactions and
// price history. Money and quantity columns are stored as decimal strings.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an accounts repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "accounts_repo").Logger(),
	}
}

// GetAccount fetches one account by ID. Returns nil when absent.
func (r *Repository) GetAccount(accountID string) (*Account, error) {
	query := `
		SELECT id, user_id, name, account_type, created_at
		FROM accounts
		WHERE id = ?
	`

	var a Account
	var createdAt string
	err := r.db.QueryRow(query, accountID).Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}

	if t, err := time.ParseInLocation("2006-01-02 15:04:05", createdAt, time.UTC); err == nil {
		a.CreatedAt = t
	}
	return &a, nil
}

// AccountsByUser lists a user's accounts.
func (r *Repository) AccountsByUser(userID string) ([]Account, error) {
	query := `
		SELECT id, user_id, name, account_type
		FROM accounts
		WHERE user_id = ?
		ORDER BY name
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// Users lists the distinct user IDs owning at least one account.
func (r *Repository) Users() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT user_id FROM accounts ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// HoldingsByAccount returns the current position snapshot for an account.
func (r *Repository) HoldingsByAccount(accountID string) ([]domain.Holding, error) {
	query := `
		SELECT id, account_id, symbol, quantity, current_price, cost_basis
		FROM holdings
		WHERE account_id = ?
		ORDER BY symbol
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		var quantity, price, basis string
		if err := rows.Scan(&h.ID, &h.AccountID, &h.Symbol, &quantity, &price, &basis); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		if h.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("invalid holding quantity %q: %w", quantity, err)
		}
		if h.CurrentPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid holding price %q: %w", price, err)
		}
		if h.CostBasis, err = decimal.NewFromString(basis); err != nil {
			return nil, fmt.Errorf("invalid holding cost basis %q: %w", basis, err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}
	return holdings, nil
}

// TransactionsByAccount returns the full ledger for an account in
// chronological order.
func (r *Repository) TransactionsByAccount(accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, symbol, type, quantity, price, amount, date, target_lot_id
		FROM transactions
		WHERE account_id = ?
		ORDER BY date ASC, id ASC
	`
	return r.queryTransactions(query, accountID)
}

// TransactionsInRange returns the ledger rows dated within [start, end].
func (r *Repository) TransactionsInRange(accountID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, symbol, type, quantity, price, amount, date, target_lot_id
		FROM transactions
		WHERE account_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`
	return r.queryTransactions(query, accountID, start.UTC().Format(dateLayout), end.UTC().Format(dateLayout))
}

func (r *Repository) queryTransactions(query string, args ...interface{}) ([]domain.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var txType, quantity, price, amount, dateStr string
		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Symbol, &txType, &quantity, &price, &amount, &dateStr, &tx.TargetLotID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = domain.TransactionType(txType)
		if tx.Quantity, err = decimal.NewFromString(quantity); err != nil {
			return nil, fmt.Errorf("invalid transaction quantity %q: %w", quantity, err)
		}
		if tx.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("invalid transaction price %q: %w", price, err)
		}
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid transaction amount %q: %w", amount, err)
		}
		if tx.Date, err = time.ParseInLocation(dateLayout, dateStr, time.UTC); err != nil {
			return nil, fmt.Errorf("invalid transaction date %q: %w", dateStr, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}

// History returns daily closes for a symbol over [start, end], ascending.
func (r *Repository) History(symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	query := `
		SELECT date, close
		FROM price_history
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, symbol, start.UTC().Format(dateLayout), end.UTC().Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var dateStr, closeStr string
		if err := rows.Scan(&dateStr, &closeStr); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}

		date, err := time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid price date %q: %w", dateStr, err)
		}
		closePrice, err := decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid close %q: %w", closeStr, err)
		}

		points = append(points, domain.PricePoint{Symbol: symbol, Date: date, Close: closePrice})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}
	return points, nil
}

// Histories fetches price history for every given symbol over the window.
func (r *Repository) Histories(symbols []string, start, end time.Time) (map[string][]domain.PricePoint, error) {
	out := make(map[string][]domain.PricePoint, len(symbols))
	for _, symbol := range symbols {
		points, err := r.History(symbol, start, end)
		if err != nil {
			return nil, err
		}
		if len(points) > 0 {
			out[symbol] = points
		}
	}
	return out, nil
}

// CurrentPrices returns the latest stored close per symbol, falling back to
// the holding's own price column when no history exists.
func (r *Repository) CurrentPrices(holdings []domain.Holding) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(holdings))
	query := `
		SELECT close
		FROM price_history
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT 1
	`

	for _, h := range holdings {
		var closeStr string
		err := r.db.QueryRow(query, h.Symbol).Scan(&closeStr)
		if err == sql.ErrNoRows {
			prices[h.Symbol] = h.CurrentPrice
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get latest close for %s: %w", h.Symbol, err)
		}
		closePrice, err := decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid close %q: %w", closeStr, err)
		}
		prices[h.Symbol] = closePrice
	}
	return prices, nil
}
