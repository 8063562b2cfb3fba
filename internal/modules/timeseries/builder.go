package timeseries

import (
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// Builder reconstructs valuation and cash-flow series. It is stateless and
// safe for concurrent use; every call operates only on its input snapshot.
type Builder struct {
	log zerolog.Logger
}

// NewBuilder creates a new series builder.
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		log: log.With().Str("service", "timeseries").Logger(),
	}
}

// Build produces the ordered valuation points and external cash-flow events
// for the account over [start, end].
//
// A valuation point is emitted for the range start, every transaction date
// inside the range, and the range end. Valuation on a date is the sum over
// holdings of quantity-as-of-date × price-as-of-date. With zero transactions
// in range the series degenerates to a two-point snapshot flagged
// InsufficientData instead of failing.
func (b *Builder) Build(in Input) (Series, error) {
	if in.End.Before(in.Start) {
		return Series{}, domain.NewValidationError("end", "end date precedes start date")
	}

	txs := make([]domain.Transaction, len(in.Transactions))
	copy(txs, in.Transactions)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	series := Series{
		AccountID: in.AccountID,
		Start:     in.Start,
		End:       in.End,
	}

	var inRange []domain.Transaction
	for _, tx := range txs {
		if !tx.Date.Before(in.Start) && !tx.Date.After(in.End) {
			inRange = append(inRange, tx)
		}
	}

	if len(inRange) == 0 {
		// Nothing happened in the window; fall back to the current snapshot
		// so return metrics degrade gracefully instead of erroring.
		current := snapshotValue(in.Holdings)
		series.Points = []ValuationPoint{
			{Date: dateOf(in.Start), TotalValue: current},
			{Date: dateOf(in.End), TotalValue: current},
		}
		series.InsufficientData = true
		b.log.Debug().
			Str("account_id", in.AccountID).
			Time("start", in.Start).
			Time("end", in.End).
			Msg("No transactions in range, built snapshot series")
		return series, nil
	}

	prices := indexPrices(in.Prices)

	dates := valuationDates(in.Start, in.End, inRange)
	series.Points = make([]ValuationPoint, 0, len(dates))
	for _, d := range dates {
		series.Points = append(series.Points, ValuationPoint{
			Date:       d,
			TotalValue: b.valueAt(d, txs, in.Holdings, prices),
		})
	}

	for _, tx := range inRange {
		if !tx.Type.IsExternalFlow() {
			continue
		}
		dir := FlowIn
		if tx.Type == domain.TransactionWithdrawal {
			dir = FlowOut
		}
		series.Flows = append(series.Flows, CashFlowEvent{
			Date:      dateOf(tx.Date),
			Amount:    tx.Amount.Abs(),
			Direction: dir,
		})
	}

	return series, nil
}

// valueAt computes Σ(quantity as of date × price as of date) over the
// account's symbols.
func (b *Builder) valueAt(date time.Time, txs []domain.Transaction, holdings []domain.Holding, prices map[string][]domain.PricePoint) decimal.Decimal {
	quantities := quantitiesAsOf(date, txs)

	currentPrice := make(map[string]decimal.Decimal, len(holdings))
	for _, h := range holdings {
		currentPrice[h.Symbol] = h.CurrentPrice
	}

	total := decimal.Zero
	for symbol, qty := range quantities {
		if qty.IsZero() {
			continue
		}
		price, ok := priceAsOf(prices[symbol], date)
		if !ok {
			// No historical close at all for this symbol; use the snapshot
			// price rather than failing the whole series for one gap.
			price = currentPrice[symbol]
			b.log.Debug().
				Str("symbol", symbol).
				Time("date", date).
				Msg("No historical price, using current snapshot price")
		}
		total = total.Add(qty.Mul(price))
	}
	return total
}

// quantitiesAsOf replays quantity-affecting transactions chronologically up
// to and including the given date.
func quantitiesAsOf(date time.Time, txs []domain.Transaction) map[string]decimal.Decimal {
	quantities := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Date.After(endOfDay(date)) {
			break
		}
		if !tx.Type.AffectsQuantity() {
			continue
		}
		switch tx.Type {
		case domain.TransactionBuy, domain.TransactionDividendReinvest:
			quantities[tx.Symbol] = quantities[tx.Symbol].Add(tx.Quantity)
		case domain.TransactionSell:
			quantities[tx.Symbol] = quantities[tx.Symbol].Sub(tx.Quantity)
		}
	}
	return quantities
}

// priceAsOf returns the nearest close on or before date. When the history
// only starts after the date, the earliest known close is used as the
// fallback. Returns false when no history exists for the symbol.
func priceAsOf(history []domain.PricePoint, date time.Time) (decimal.Decimal, bool) {
	if len(history) == 0 {
		return decimal.Zero, false
	}

	cutoff := endOfDay(date)
	idx := sort.Search(len(history), func(i int) bool {
		return history[i].Date.After(cutoff)
	})
	if idx == 0 {
		return history[0].Close, true
	}
	return history[idx-1].Close, true
}

// valuationDates collects the distinct valuation dates: range endpoints plus
// every in-range transaction date, ascending.
func valuationDates(start, end time.Time, inRange []domain.Transaction) []time.Time {
	seen := map[time.Time]bool{
		dateOf(start): true,
		dateOf(end):   true,
	}
	for _, tx := range inRange {
		seen[dateOf(tx.Date)] = true
	}

	dates := make([]time.Time, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func snapshotValue(holdings []domain.Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.MarketValue())
	}
	return total
}

func indexPrices(prices map[string][]domain.PricePoint) map[string][]domain.PricePoint {
	indexed := make(map[string][]domain.PricePoint, len(prices))
	for symbol, history := range prices {
		sorted := make([]domain.PricePoint, len(history))
		copy(sorted, history)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
		indexed[symbol] = sorted
	}
	return indexed
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return dateOf(t).Add(24*time.Hour - time.Nanosecond)
}
