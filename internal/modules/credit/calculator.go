package credit

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// Band thresholds in percent. Each bound is exclusive on the high side:
// 9.99% is excellent, 10% is good.
const (
	excellentBelow = 10.0
	goodBelow      = 30.0
	fairBelow      = 50.0
)

// Calculator computes utilization reports. Stateless, safe for concurrent
// use.
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator creates a utilization calculator.
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("service", "credit").Logger(),
	}
}

// Assess scores each card and the aggregate across all cards. Credit
// balances (negative) floor at zero utilization rather than going negative.
func (c *Calculator) Assess(cards []domain.CreditCard) Report {
	report := Report{
		Cards:        make([]CardUtilization, 0, len(cards)),
		TotalBalance: decimal.Zero,
		TotalLimit:   decimal.Zero,
	}

	for _, card := range cards {
		cu := CardUtilization{
			CardID:      card.ID,
			Name:        card.Name,
			Balance:     card.Balance,
			CreditLimit: card.CreditLimit,
			Band:        BandNotApplicable,
		}
		if card.CreditLimit.Sign() > 0 {
			pct := utilizationPercent(card.Balance, card.CreditLimit)
			cu.Utilization = &pct
			cu.Band = classify(pct)
		}
		report.Cards = append(report.Cards, cu)

		report.TotalBalance = report.TotalBalance.Add(card.Balance)
		report.TotalLimit = report.TotalLimit.Add(card.CreditLimit)
	}

	report.AggregateBand = BandNotApplicable
	if report.TotalLimit.Sign() > 0 {
		pct := utilizationPercent(report.TotalBalance, report.TotalLimit)
		report.AggregateUtilization = &pct
		report.AggregateBand = classify(pct)
	}

	return report
}

func utilizationPercent(balance, limit decimal.Decimal) float64 {
	pct, _ := balance.Div(limit).Mul(decimal.NewFromInt(100)).Float64()
	if pct < 0 {
		return 0
	}
	return pct
}

func classify(pct float64) Band {
	switch {
	case pct < excellentBelow:
		return BandExcellent
	case pct < goodBelow:
		return BandGood
	case pct < fairBelow:
		return BandFair
	default:
		return BandPoor
	}
}
