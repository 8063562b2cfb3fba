package credit

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestcott/finsight/internal/domain"
)

func card(id string, balance, limit float64) domain.CreditCard {
	return domain.CreditCard{
		ID:          id,
		Name:        id,
		Balance:     decimal.NewFromFloat(balance),
		CreditLimit: decimal.NewFromFloat(limit),
	}
}

func TestAssessBands(t *testing.T) {
	c := NewCalculator(zerolog.Nop())

	cases := []struct {
		name    string
		balance float64
		limit   float64
		want    Band
		wantPct float64
	}{
		{"excellent", 500, 10000, BandExcellent, 5},
		{"boundary ten is good", 1000, 10000, BandGood, 10},
		{"good", 2500, 10000, BandGood, 25},
		{"boundary thirty is fair", 3000, 10000, BandFair, 30},
		{"fair", 4500, 10000, BandFair, 45},
		{"boundary fifty is poor", 5000, 10000, BandPoor, 50},
		{"poor", 9000, 10000, BandPoor, 90},
		{"over limit", 12000, 10000, BandPoor, 120},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report := c.Assess([]domain.CreditCard{card("c1", tc.balance, tc.limit)})
			require.Len(t, report.Cards, 1)
			require.NotNil(t, report.Cards[0].Utilization)
			if math.Abs(*report.Cards[0].Utilization-tc.wantPct) > 1e-9 {
				t.Errorf("utilization = %v, want %v", *report.Cards[0].Utilization, tc.wantPct)
			}
			assert.Equal(t, tc.want, report.Cards[0].Band)
		})
	}
}

func TestAssessCreditBalanceFloorsAtZero(t *testing.T) {
	c := NewCalculator(zerolog.Nop())

	report := c.Assess([]domain.CreditCard{card("c1", -150, 5000)})
	require.NotNil(t, report.Cards[0].Utilization)
	assert.Equal(t, 0.0, *report.Cards[0].Utilization)
	assert.Equal(t, BandExcellent, report.Cards[0].Band)
}

func TestAssessZeroLimitCard(t *testing.T) {
	c := NewCalculator(zerolog.Nop())

	report := c.Assess([]domain.CreditCard{
		card("open", 3000, 10000),
		card("charge", 2000, 0),
	})

	byID := map[string]CardUtilization{}
	for _, cu := range report.Cards {
		byID[cu.CardID] = cu
	}

	// Zero-limit card has no ratio of its own.
	assert.Nil(t, byID["charge"].Utilization)
	assert.Equal(t, BandNotApplicable, byID["charge"].Band)

	// But its balance still inflates the aggregate: 5000/10000 = 50%.
	require.NotNil(t, report.AggregateUtilization)
	assert.Equal(t, 50.0, *report.AggregateUtilization)
	assert.Equal(t, BandPoor, report.AggregateBand)
}

func TestAssessAggregate(t *testing.T) {
	c := NewCalculator(zerolog.Nop())

	report := c.Assess([]domain.CreditCard{
		card("a", 1000, 10000),
		card("b", 500, 5000),
	})

	require.NotNil(t, report.AggregateUtilization)
	assert.Equal(t, 10.0, *report.AggregateUtilization)
	assert.Equal(t, BandGood, report.AggregateBand)
	assert.True(t, report.TotalBalance.Equal(decimal.NewFromInt(1500)))
	assert.True(t, report.TotalLimit.Equal(decimal.NewFromInt(15000)))
}

func TestAssessNoCards(t *testing.T) {
	c := NewCalculator(zerolog.Nop())

	report := c.Assess(nil)
	assert.Empty(t, report.Cards)
	assert.Nil(t, report.AggregateUtilization)
	assert.Equal(t, BandNotApplicable, report.AggregateBand)
}
