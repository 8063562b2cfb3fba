package benchmarks

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// Repository reads benchmark daily closes out of the finance database.
// Prices are stored as decimal strings so values survive round-trips
// without binary floating point.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a benchmark price repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("component", "benchmark_repo").Logger(),
	}
}

// DailyCloses fetches closes for one benchmark symbol over [start, end],
// ascending by date.
func (r *Repository) DailyCloses(symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	query := `
		SELECT date, close
		FROM benchmark_prices
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, symbol, start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark prices: %w", err)
	}
	defer rows.Close()

	var points []domain.PricePoint
	for rows.Next() {
		var dateStr, closeStr string
		if err := rows.Scan(&dateStr, &closeStr); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark price: %w", err)
		}

		date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid benchmark price date %q: %w", dateStr, err)
		}
		closePrice, err := decimal.NewFromString(closeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid benchmark close %q: %w", closeStr, err)
		}

		points = append(points, domain.PricePoint{Symbol: symbol, Date: date, Close: closePrice})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating benchmark prices: %w", err)
	}

	return points, nil
}

// AllSeries fetches closes for every default benchmark symbol over the
// window. A symbol with no rows is simply absent from the map.
func (r *Repository) AllSeries(start, end time.Time) (map[string][]domain.PricePoint, error) {
	series := make(map[string][]domain.PricePoint, len(DefaultSymbols))
	for _, symbol := range DefaultSymbols {
		closes, err := r.DailyCloses(symbol, start, end)
		if err != nil {
			return nil, err
		}
		if len(closes) > 0 {
			series[symbol] = closes
		}
	}
	return series, nil
}
