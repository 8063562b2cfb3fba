package debts

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestcott/finsight/internal/domain"
)

func debt(id string, balance, apr, minimum float64) domain.DebtAccount {
	return domain.DebtAccount{
		ID:             id,
		Name:           id,
		Balance:        decimal.NewFromFloat(balance),
		APR:            decimal.NewFromFloat(apr),
		MinimumPayment: decimal.NewFromFloat(minimum),
	}
}

func TestSimulateSingleZeroRateDebt(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	sim, err := s.Simulate([]domain.DebtAccount{debt("d1", 1200, 0, 100)}, decimal.Zero, StrategyAvalanche)
	require.NoError(t, err)

	assert.Equal(t, 12, sim.Months)
	assert.True(t, sim.TotalInterest.IsZero())
	assert.True(t, sim.TotalPaid.Equal(decimal.NewFromInt(1200)))
	assert.Equal(t, []string{"d1"}, sim.PayoffOrder)
	assert.False(t, sim.CapReached)
}

func TestSimulateRetiredDebtAccruesNoInterest(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	// Payment clears the balance in month one; interest accrues after
	// payments, so nothing is charged.
	sim, err := s.Simulate([]domain.DebtAccount{debt("d1", 100, 0.24, 100)}, decimal.Zero, StrategyAvalanche)
	require.NoError(t, err)

	assert.Equal(t, 1, sim.Months)
	assert.True(t, sim.TotalInterest.IsZero())
}

func TestSimulateTargetSelection(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	// High-APR debt carries the larger balance so the two strategies pick
	// different targets.
	snapshot := []domain.DebtAccount{
		debt("highapr", 10000, 0.22, 200),
		debt("small", 2000, 0.05, 50),
	}
	extra := decimal.NewFromInt(300)

	avalanche, err := s.Simulate(snapshot, extra, StrategyAvalanche)
	require.NoError(t, err)
	snowball, err := s.Simulate(snapshot, extra, StrategySnowball)
	require.NoError(t, err)

	require.NotEmpty(t, avalanche.PayoffOrder)
	require.NotEmpty(t, snowball.PayoffOrder)
	assert.Equal(t, "highapr", avalanche.PayoffOrder[0])
	assert.Equal(t, "small", snowball.PayoffOrder[0])
}

func TestSimulateStrategiesAgreeWhenOrderingsCoincide(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	// Card carries the lower balance AND the higher APR, so both
	// strategies target it first.
	snapshot := []domain.DebtAccount{
		debt("card_a", 5000, 0.22, 100),
		debt("loan_b", 15000, 0.07, 300),
	}
	extra := decimal.NewFromInt(200)

	avalanche, err := s.Simulate(snapshot, extra, StrategyAvalanche)
	require.NoError(t, err)
	snowball, err := s.Simulate(snapshot, extra, StrategySnowball)
	require.NoError(t, err)

	assert.Equal(t, []string{"card_a", "loan_b"}, avalanche.PayoffOrder)
	assert.Equal(t, []string{"card_a", "loan_b"}, snowball.PayoffOrder)
	assert.True(t, avalanche.TotalInterest.Equal(snowball.TotalInterest),
		"avalanche %s vs snowball %s", avalanche.TotalInterest, snowball.TotalInterest)
}

func TestSimulateSnowballTieBreaksOnHigherAPR(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	// Equal balances: snowball falls back to APR and must pick the
	// expensive debt first, agreeing with avalanche.
	snapshot := []domain.DebtAccount{
		debt("cheap", 3000, 0.05, 75),
		debt("expensive", 3000, 0.25, 75),
	}
	extra := decimal.NewFromInt(150)

	snowball, err := s.Simulate(snapshot, extra, StrategySnowball)
	require.NoError(t, err)
	avalanche, err := s.Simulate(snapshot, extra, StrategyAvalanche)
	require.NoError(t, err)

	require.NotEmpty(t, snowball.PayoffOrder)
	assert.Equal(t, "expensive", snowball.PayoffOrder[0])
	assert.Equal(t, "expensive", avalanche.PayoffOrder[0])
}

func TestSimulateAvalancheNeverPaysMoreInterest(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	snapshot := []domain.DebtAccount{
		debt("card", 10000, 0.22, 200),
		debt("auto", 2000, 0.05, 50),
		debt("personal", 6000, 0.12, 120),
	}

	for _, extra := range []int64{0, 100, 500} {
		avalanche, err := s.Simulate(snapshot, decimal.NewFromInt(extra), StrategyAvalanche)
		require.NoError(t, err)
		snowball, err := s.Simulate(snapshot, decimal.NewFromInt(extra), StrategySnowball)
		require.NoError(t, err)

		assert.True(t, avalanche.TotalInterest.LessThanOrEqual(snowball.TotalInterest),
			"extra=%d: avalanche %s > snowball %s", extra, avalanche.TotalInterest, snowball.TotalInterest)
	}
}

func TestSimulateFreedMinimumRollsForward(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	snapshot := []domain.DebtAccount{
		debt("a", 300, 0, 100),
		debt("b", 2400, 0, 100),
	}

	sim, err := s.Simulate(snapshot, decimal.NewFromInt(100), StrategySnowball)
	require.NoError(t, err)

	// Snowball clears "a" in month two (its minimum finishes it, so the
	// extra already spills to b that month). From month three, b receives
	// its own minimum, a's freed minimum and the extra: 300/mo against the
	// 2100 it has left, done at month nine.
	assert.Equal(t, []string{"a", "b"}, sim.PayoffOrder)
	assert.Equal(t, 9, sim.Months)

	// Monthly outlay holds steady at the full 300 capacity throughout.
	for _, m := range sim.Timeline {
		assert.True(t, m.TotalPaid.Equal(decimal.NewFromInt(300)), "month %d paid %s", m.Month, m.TotalPaid)
	}
}

func TestSimulateExtraCascadesWithinMonth(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	snapshot := []domain.DebtAccount{
		debt("tiny", 50, 0.20, 0),
		debt("big", 1000, 0.10, 0),
	}

	sim, err := s.Simulate(snapshot, decimal.NewFromInt(500), StrategyAvalanche)
	require.NoError(t, err)

	// Month one clears the 20% debt and spills the remaining 450 into the
	// 10% debt in the same month.
	require.NotEmpty(t, sim.Timeline)
	assert.True(t, sim.Timeline[0].TotalPaid.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "tiny", sim.PayoffOrder[0])
	remaining := sim.Timeline[0].RemainingBalance
	// 1000 − 450 = 550 plus one month of interest on 550.
	assert.True(t, remaining.Equal(decimal.NewFromFloat(554.58)), "remaining %s", remaining)
}

func TestSimulateCapOnUnderwaterDebt(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	// Minimum payment below monthly interest: balance grows forever.
	sim, err := s.Simulate([]domain.DebtAccount{debt("d1", 1000, 0.30, 10)}, decimal.Zero, StrategyAvalanche)
	require.NoError(t, err)

	assert.True(t, sim.CapReached)
	assert.Equal(t, maxSimulationMonths, sim.Months)
	assert.Empty(t, sim.PayoffOrder)
}

func TestSimulateValidation(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	_, err := s.Simulate([]domain.DebtAccount{debt("d1", 1000, 0.1, 50)}, decimal.NewFromInt(-5), StrategyAvalanche)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	_, err = s.Simulate([]domain.DebtAccount{debt("d1", 1000, 1.5, 50)}, decimal.Zero, StrategyAvalanche)
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
}

func TestCompareRecommendsAvalanche(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	snapshot := []domain.DebtAccount{
		debt("card", 8000, 0.24, 160),
		debt("auto", 3000, 0.06, 100),
	}

	cmp, err := s.Compare(snapshot, decimal.NewFromInt(250))
	require.NoError(t, err)

	assert.Equal(t, StrategyAvalanche, cmp.Recommended)
	assert.True(t, cmp.InterestDifference.Sign() >= 0)
	assert.Equal(t, cmp.Snowball.TotalInterest.Sub(cmp.Avalanche.TotalInterest).String(), cmp.InterestDifference.String())
}

func TestSimulateMortgageAsSyntheticDebt(t *testing.T) {
	s := NewStrategist(zerolog.Nop())

	mortgage := domain.Mortgage{
		ID:             "m1",
		PropertyName:   "elm-street",
		Balance:        decimal.NewFromInt(120000),
		APR:            decimal.NewFromFloat(0.045),
		MinimumPayment: decimal.NewFromInt(900),
	}
	snapshot := []domain.DebtAccount{
		debt("card", 4000, 0.22, 100),
		mortgage.AsDebtAccount(),
	}

	sim, err := s.Simulate(snapshot, decimal.NewFromInt(300), StrategyAvalanche)
	require.NoError(t, err)
	assert.False(t, sim.CapReached)
	assert.Equal(t, "card", sim.PayoffOrder[0])
	assert.Equal(t, "m1", sim.PayoffOrder[1])
}
