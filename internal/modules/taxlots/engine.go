package taxlots

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// Engine replays an account's transaction history into open lots and
// realized gains. It is stateless; every call rebuilds lot state from the
// supplied snapshot.
type Engine struct {
	cfg Config
	log zerolog.Logger
}

// NewEngine creates a tax lot engine.
func NewEngine(cfg Config, log zerolog.Logger) *Engine {
	if cfg.LongTermDays == 0 {
		cfg.LongTermDays = 365
	}
	if cfg.WashSaleWindowDays == 0 {
		cfg.WashSaleWindowDays = 30
	}
	return &Engine{
		cfg: cfg,
		log: log.With().Str("service", "taxlots").Logger(),
	}
}

// Replay builds lot state by replaying transactions chronologically and
// reports realized and unrealized gain/loss as of asOf, valuing open lots
// with currentPrices. Sales consume lots oldest-first, splitting a lot when
// the sale is smaller than its remaining quantity; a sale tagged with a
// TargetLotID consumes that lot before falling back to FIFO.
func (e *Engine) Replay(transactions []domain.Transaction, currentPrices map[string]decimal.Decimal, asOf time.Time) (Insights, error) {
	txs := make([]domain.Transaction, len(transactions))
	copy(txs, transactions)
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) })

	openLots := make(map[string][]*Lot) // symbol -> lots, acquisition order
	lastBuy := make(map[string]time.Time)
	var realized []RealizedGain

	for _, tx := range txs {
		switch tx.Type {
		case domain.TransactionBuy, domain.TransactionDividendReinvest:
			if tx.Quantity.Sign() <= 0 {
				return Insights{}, domain.NewValidationError("quantity", "buy quantity must be positive")
			}
			openLots[tx.Symbol] = append(openLots[tx.Symbol], &Lot{
				ID:                uuid.NewString(),
				Symbol:            tx.Symbol,
				OriginalQuantity:  tx.Quantity,
				RemainingQuantity: tx.Quantity,
				CostBasisPerUnit:  costPerUnit(tx),
				AcquisitionDate:   tx.Date,
			})
			lastBuy[tx.Symbol] = tx.Date

		case domain.TransactionSell:
			if tx.Quantity.Sign() <= 0 {
				return Insights{}, domain.NewValidationError("quantity", "sell quantity must be positive")
			}
			gains, err := e.consume(openLots, tx)
			if err != nil {
				return Insights{}, err
			}
			realized = append(realized, gains...)
		}
	}

	insights := Insights{
		Realized:          realized,
		TotalRealized:     decimal.Zero,
		ShortTermRealized: decimal.Zero,
		LongTermRealized:  decimal.Zero,
		TotalUnrealized:   decimal.Zero,
	}
	for _, g := range realized {
		insights.TotalRealized = insights.TotalRealized.Add(g.GainLoss)
		if g.IsLongTerm {
			insights.LongTermRealized = insights.LongTermRealized.Add(g.GainLoss)
		} else {
			insights.ShortTermRealized = insights.ShortTermRealized.Add(g.GainLoss)
		}
	}

	symbols := make([]string, 0, len(openLots))
	for symbol := range openLots {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		price, hasPrice := currentPrices[symbol]
		washRisk := e.withinWashWindow(lastBuy[symbol], asOf)

		for _, lot := range openLots[symbol] {
			if lot.RemainingQuantity.IsZero() {
				continue
			}
			report := OpenLotReport{
				Lot:        *lot,
				IsLongTerm: e.isLongTerm(lot.AcquisitionDate, asOf),
			}
			if hasPrice {
				report.CurrentPrice = price
				report.UnrealizedGainLoss = price.Sub(lot.CostBasisPerUnit).Mul(lot.RemainingQuantity).Round(2)
				report.HarvestCandidate = e.isHarvestCandidate(lot, report.UnrealizedGainLoss)
				report.WashSaleRisk = report.HarvestCandidate && washRisk
				insights.TotalUnrealized = insights.TotalUnrealized.Add(report.UnrealizedGainLoss)
			} else {
				e.log.Debug().Str("symbol", symbol).Msg("No current price for open lot, skipping unrealized valuation")
			}
			if report.HarvestCandidate {
				insights.HarvestCandidates++
			}
			insights.OpenLots = append(insights.OpenLots, report)
		}
	}

	insights.TotalRealized = insights.TotalRealized.Round(2)
	insights.ShortTermRealized = insights.ShortTermRealized.Round(2)
	insights.LongTermRealized = insights.LongTermRealized.Round(2)
	insights.TotalUnrealized = insights.TotalUnrealized.Round(2)

	return insights, nil
}

// OpenQuantity sums the remaining quantity across a symbol's open lots in
// the given insights, for reconciliation against the holding snapshot.
func OpenQuantity(insights Insights, symbol string) decimal.Decimal {
	total := decimal.Zero
	for _, report := range insights.OpenLots {
		if report.Lot.Symbol == symbol {
			total = total.Add(report.Lot.RemainingQuantity)
		}
	}
	return total
}

// consume applies a sale against the symbol's open lots, producing one
// realized gain per consumed slice.
func (e *Engine) consume(openLots map[string][]*Lot, tx domain.Transaction) ([]RealizedGain, error) {
	lots := openLots[tx.Symbol]

	available := decimal.Zero
	for _, lot := range lots {
		available = available.Add(lot.RemainingQuantity)
	}
	if tx.Quantity.GreaterThan(available) {
		return nil, domain.NewValidationError("quantity", "sell quantity exceeds open lot quantity for "+tx.Symbol)
	}

	salePrice := salePerUnit(tx)
	remaining := tx.Quantity
	var gains []RealizedGain

	for _, lot := range e.matchOrder(lots, tx.TargetLotID) {
		if remaining.IsZero() {
			break
		}
		if lot.RemainingQuantity.IsZero() {
			continue
		}

		slice := decimal.Min(remaining, lot.RemainingQuantity)
		proceeds := slice.Mul(salePrice)
		basis := slice.Mul(lot.CostBasisPerUnit)

		gains = append(gains, RealizedGain{
			ID:           uuid.NewString(),
			LotID:        lot.ID,
			Symbol:       tx.Symbol,
			QuantitySold: slice,
			Proceeds:     proceeds.Round(2),
			CostBasis:    basis.Round(2),
			GainLoss:     proceeds.Sub(basis).Round(2),
			IsLongTerm:   e.isLongTerm(lot.AcquisitionDate, tx.Date),
			SaleDate:     tx.Date,
		})

		lot.RemainingQuantity = lot.RemainingQuantity.Sub(slice)
		remaining = remaining.Sub(slice)
	}

	return gains, nil
}

// matchOrder returns lots in consumption order: the specifically identified
// lot first when tagged, then the rest oldest-first.
func (e *Engine) matchOrder(lots []*Lot, targetLotID string) []*Lot {
	if targetLotID == "" {
		return lots
	}

	ordered := make([]*Lot, 0, len(lots))
	for _, lot := range lots {
		if lot.ID == targetLotID {
			ordered = append(ordered, lot)
			break
		}
	}
	for _, lot := range lots {
		if lot.ID != targetLotID {
			ordered = append(ordered, lot)
		}
	}
	return ordered
}

// isLongTerm applies the strict holding-period boundary: held for more than
// LongTermDays, not exactly that many.
func (e *Engine) isLongTerm(acquired, disposed time.Time) bool {
	return disposed.Sub(acquired) > time.Duration(e.cfg.LongTermDays)*24*time.Hour
}

func (e *Engine) isHarvestCandidate(lot *Lot, unrealized decimal.Decimal) bool {
	if unrealized.Sign() >= 0 {
		return false
	}
	if !e.cfg.HarvestLossThreshold.IsZero() && unrealized.LessThanOrEqual(e.cfg.HarvestLossThreshold) {
		return true
	}
	if e.cfg.HarvestLossPercent > 0 {
		basis := lot.CostBasisPerUnit.Mul(lot.RemainingQuantity)
		if basis.Sign() > 0 {
			lossFraction, _ := unrealized.Neg().Div(basis).Float64()
			if lossFraction >= e.cfg.HarvestLossPercent {
				return true
			}
		}
	}
	return false
}

func (e *Engine) withinWashWindow(lastBuy, asOf time.Time) bool {
	if lastBuy.IsZero() {
		return false
	}
	window := time.Duration(e.cfg.WashSaleWindowDays) * 24 * time.Hour
	return asOf.Sub(lastBuy) <= window
}

// costPerUnit derives the acquisition cost per share, preferring the
// execution price and falling back to amount/quantity.
func costPerUnit(tx domain.Transaction) decimal.Decimal {
	if tx.Price.Sign() > 0 {
		return tx.Price
	}
	if tx.Quantity.Sign() > 0 && tx.Amount.Sign() > 0 {
		return tx.Amount.Div(tx.Quantity)
	}
	return decimal.Zero
}

func salePerUnit(tx domain.Transaction) decimal.Decimal {
	if tx.Price.Sign() > 0 {
		return tx.Price
	}
	if tx.Quantity.Sign() > 0 && tx.Amount.Sign() > 0 {
		return tx.Amount.Div(tx.Quantity)
	}
	return decimal.Zero
}
