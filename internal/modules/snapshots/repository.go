package snapshots

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// TTL constants for cached snapshot data. Added to time.Now() when storing
// to calculate expires_at.
const (
	// TTLNetWorth - snapshots are recomputed daily by the scheduler, kept
	// a week so history survives missed runs.
	TTLNetWorth = 7 * 24 * time.Hour
)

const snapshotDateLayout = "2006-01-02"

// Repository stores computed snapshots in the cache database as msgpack
// blobs with expiration timestamps. The cache is disposable; every entry
// can be recomputed from the finance database.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a snapshot cache repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Store saves a snapshot with expiration = now + ttl, replacing any
// existing snapshot for the same user and date.
func (r *Repository) Store(snapshot NetWorth, ttl time.Duration) error {
	blob, err := msgpack.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()
	dateKey := snapshot.Date.UTC().Format(snapshotDateLayout)

	_, err = r.db.Exec(
		"INSERT OR REPLACE INTO networth_snapshots (user_id, snapshot_date, data, expires_at) VALUES (?, ?, ?, ?)",
		snapshot.UserID, dateKey, blob, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	return nil
}

// GetIfFresh returns the snapshot for a user and date only if it has not
// expired. Returns nil, nil when absent or expired.
func (r *Repository) GetIfFresh(userID string, date time.Time) (*NetWorth, error) {
	var blob []byte
	err := r.db.QueryRow(
		"SELECT data FROM networth_snapshots WHERE user_id = ? AND snapshot_date = ? AND expires_at > ?",
		userID, date.UTC().Format(snapshotDateLayout), time.Now().Unix(),
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var snapshot NetWorth
	if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// Latest returns the most recent snapshot for a user regardless of
// expiration. Stale data is better than no data when the scheduler has
// not run yet today. Returns nil, nil when the user has none.
func (r *Repository) Latest(userID string) (*NetWorth, error) {
	var blob []byte
	err := r.db.QueryRow(
		"SELECT data FROM networth_snapshots WHERE user_id = ? ORDER BY snapshot_date DESC LIMIT 1",
		userID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	var snapshot NetWorth
	if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// History returns all unexpired snapshots for a user, ascending by date.
func (r *Repository) History(userID string) ([]NetWorth, error) {
	rows, err := r.db.Query(
		"SELECT data FROM networth_snapshots WHERE user_id = ? AND expires_at > ? ORDER BY snapshot_date ASC",
		userID, time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	defer rows.Close()

	var history []NetWorth
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var snapshot NetWorth
		if err := msgpack.Unmarshal(blob, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		history = append(history, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot history: %w", err)
	}
	return history, nil
}

// DeleteExpired removes snapshots past their expiration across all users.
// Returns the number of rows deleted.
func (r *Repository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(
		"DELETE FROM networth_snapshots WHERE expires_at < ?",
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired snapshots: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}
