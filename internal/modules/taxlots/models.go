// Package taxlots matches acquisition lots to sales, computes realized and
// unrealized gain/loss, and flags tax-loss-harvesting candidates.
package taxlots

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config tunes lot classification and harvesting thresholds.
type Config struct {
	// LongTermDays is the holding period beyond which a gain is long-term.
	// The boundary is strict: exactly this many days is still short-term.
	LongTermDays int
	// HarvestLossThreshold marks a lot as a harvesting candidate when its
	// unrealized gain/loss is at or below this (negative) amount.
	HarvestLossThreshold decimal.Decimal
	// HarvestLossPercent marks a candidate when the unrealized loss is at
	// least this fraction of the lot's cost basis (0.05 = 5%).
	HarvestLossPercent float64
	// WashSaleWindowDays is the lookback window for repurchases that put a
	// harvest at wash-sale risk.
	WashSaleWindowDays int
}

// DefaultConfig returns the standard US-style thresholds.
func DefaultConfig() Config {
	return Config{
		LongTermDays:         365,
		HarvestLossThreshold: decimal.NewFromInt(-1),
		HarvestLossPercent:   0.05,
		WashSaleWindowDays:   30,
	}
}

// Lot is one acquisition batch of a holding, consumed oldest-first unless a
// sale names it for specific identification.
type Lot struct {
	ID                string          `json:"id"`
	Symbol            string          `json:"symbol"`
	OriginalQuantity  decimal.Decimal `json:"original_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	CostBasisPerUnit  decimal.Decimal `json:"cost_basis_per_unit"`
	AcquisitionDate   time.Time       `json:"acquisition_date"`
}

// RealizedGain records one consumed lot slice from a sale.
type RealizedGain struct {
	ID           string          `json:"id"`
	LotID        string          `json:"lot_id"`
	Symbol       string          `json:"symbol"`
	QuantitySold decimal.Decimal `json:"quantity_sold"`
	Proceeds     decimal.Decimal `json:"proceeds"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	GainLoss     decimal.Decimal `json:"gain_loss"`
	IsLongTerm   bool            `json:"is_long_term"`
	SaleDate     time.Time       `json:"sale_date"`
}

// OpenLotReport is an open lot annotated with unrealized gain/loss and
// harvesting signals.
type OpenLotReport struct {
	Lot                Lot             `json:"lot"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
	UnrealizedGainLoss decimal.Decimal `json:"unrealized_gain_loss"`
	IsLongTerm         bool            `json:"is_long_term"`
	HarvestCandidate   bool            `json:"harvest_candidate"`
	// WashSaleRisk flags a candidate whose symbol was repurchased inside
	// the wash-sale window; the candidate is reported, not suppressed.
	WashSaleRisk bool `json:"wash_sale_risk"`
}

// Insights is the full tax report for an account.
type Insights struct {
	Realized []RealizedGain  `json:"realized"`
	OpenLots []OpenLotReport `json:"open_lots"`

	TotalRealized     decimal.Decimal `json:"total_realized"`
	ShortTermRealized decimal.Decimal `json:"short_term_realized"`
	LongTermRealized  decimal.Decimal `json:"long_term_realized"`
	TotalUnrealized   decimal.Decimal `json:"total_unrealized"`

	HarvestCandidates int `json:"harvest_candidates"`
}
