package debts

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// maxSimulationMonths bounds every simulation so minimum payments that
// cannot outpace interest still terminate.
const maxSimulationMonths = 1200

// Strategist runs payoff simulations over caller-supplied debt snapshots.
// Stateless, safe for concurrent use.
type Strategist struct {
	log zerolog.Logger
}

// NewStrategist creates a payoff strategist.
func NewStrategist(log zerolog.Logger) *Strategist {
	return &Strategist{
		log: log.With().Str("service", "debts").Logger(),
	}
}

type debtState struct {
	id      string
	balance decimal.Decimal
	apr     decimal.Decimal
	minimum decimal.Decimal
	paid    bool
}

func validateDebts(debts []domain.DebtAccount, extraPayment decimal.Decimal) error {
	if extraPayment.Sign() < 0 {
		return domain.NewValidationError("extra_payment", "must be non-negative")
	}
	for _, d := range debts {
		if d.Balance.Sign() < 0 {
			return domain.NewValidationError("balance", "must be non-negative for "+d.ID)
		}
		if d.APR.Sign() < 0 || d.APR.GreaterThan(decimal.NewFromInt(1)) {
			return domain.NewValidationError("apr", "must be a fraction in [0, 1] for "+d.ID)
		}
		if d.MinimumPayment.Sign() < 0 {
			return domain.NewValidationError("minimum_payment", "must be non-negative for "+d.ID)
		}
	}
	return nil
}

// Simulate runs one strategy month by month until every debt is retired or
// the iteration cap is hit. Each month pays every active debt its minimum,
// then directs all extra capacity (the configured extra plus minimums freed
// by debts paid off in earlier months) at the strategy's target, cascading
// to the next target within the month if the pool outlasts it. Interest
// accrues on the post-payment balance, so a debt retired this month accrues
// nothing.
func (s *Strategist) Simulate(debts []domain.DebtAccount, extraPayment decimal.Decimal, strategy Strategy) (Simulation, error) {
	if err := validateDebts(debts, extraPayment); err != nil {
		return Simulation{}, err
	}

	states := make([]*debtState, 0, len(debts))
	for _, d := range debts {
		st := &debtState{id: d.ID, balance: d.Balance, apr: d.APR, minimum: d.MinimumPayment}
		if st.balance.IsZero() {
			st.paid = true
		}
		states = append(states, st)
	}

	sim := Simulation{
		Strategy:      strategy,
		TotalInterest: decimal.Zero,
		TotalPaid:     decimal.Zero,
	}
	monthlyDivisor := decimal.NewFromInt(12)

	for month := 1; anyActive(states); month++ {
		if month > maxSimulationMonths {
			sim.CapReached = true
			break
		}

		monthPaid := decimal.Zero
		monthInterest := decimal.Zero

		// Minimums freed by debts retired in earlier months join the pool;
		// this month's payoffs only free capacity from next month on.
		pool := extraPayment
		for _, st := range states {
			if st.paid {
				pool = pool.Add(st.minimum)
			}
		}

		for _, st := range states {
			if st.paid {
				continue
			}
			payment := decimal.Min(st.minimum, st.balance)
			st.balance = st.balance.Sub(payment)
			monthPaid = monthPaid.Add(payment)
		}

		for pool.Sign() > 0 {
			target := pickTarget(states, strategy)
			if target == nil {
				break
			}
			payment := decimal.Min(pool, target.balance)
			target.balance = target.balance.Sub(payment)
			pool = pool.Sub(payment)
			monthPaid = monthPaid.Add(payment)
		}

		remaining := decimal.Zero
		for _, st := range states {
			if st.paid {
				continue
			}
			if st.balance.Sign() <= 0 {
				st.balance = decimal.Zero
				st.paid = true
				sim.PayoffOrder = append(sim.PayoffOrder, st.id)
				continue
			}
			interest := st.balance.Mul(st.apr).Div(monthlyDivisor).Round(2)
			st.balance = st.balance.Add(interest)
			monthInterest = monthInterest.Add(interest)
			remaining = remaining.Add(st.balance)
		}

		sim.Months = month
		sim.TotalPaid = sim.TotalPaid.Add(monthPaid)
		sim.TotalInterest = sim.TotalInterest.Add(monthInterest)
		sim.Timeline = append(sim.Timeline, MonthState{
			Month:            month,
			TotalPaid:        monthPaid,
			InterestAccrued:  monthInterest,
			RemainingBalance: remaining,
		})
	}

	s.log.Debug().
		Str("strategy", string(strategy)).
		Int("months", sim.Months).
		Bool("cap_reached", sim.CapReached).
		Msg("Payoff simulation complete")

	return sim, nil
}

// Compare runs both strategies over the same snapshot. Avalanche never pays
// more interest than snowball, so it is recommended unless snowball matches
// it exactly.
func (s *Strategist) Compare(debts []domain.DebtAccount, extraPayment decimal.Decimal) (Comparison, error) {
	avalanche, err := s.Simulate(debts, extraPayment, StrategyAvalanche)
	if err != nil {
		return Comparison{}, err
	}
	snowball, err := s.Simulate(debts, extraPayment, StrategySnowball)
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		Avalanche:          avalanche,
		Snowball:           snowball,
		InterestDifference: snowball.TotalInterest.Sub(avalanche.TotalInterest),
		Recommended:        StrategyAvalanche,
	}
	if cmp.InterestDifference.IsZero() && snowball.Months <= avalanche.Months {
		cmp.Recommended = StrategySnowball
	}
	return cmp, nil
}

func anyActive(states []*debtState) bool {
	for _, st := range states {
		if !st.paid {
			return true
		}
	}
	return false
}

// pickTarget selects the active debt the strategy directs extra capacity
// at, or nil when everything is retired.
func pickTarget(states []*debtState, strategy Strategy) *debtState {
	active := make([]*debtState, 0, len(states))
	for _, st := range states {
		if !st.paid && st.balance.Sign() > 0 {
			active = append(active, st)
		}
	}
	if len(active) == 0 {
		return nil
	}

	switch strategy {
	case StrategySnowball:
		sort.SliceStable(active, func(i, j int) bool {
			if !active[i].balance.Equal(active[j].balance) {
				return active[i].balance.LessThan(active[j].balance)
			}
			return active[i].apr.GreaterThan(active[j].apr)
		})
	default:
		sort.SliceStable(active, func(i, j int) bool {
			if !active[i].apr.Equal(active[j].apr) {
				return active[i].apr.GreaterThan(active[j].apr)
			}
			return active[i].balance.GreaterThan(active[j].balance)
		})
	}
	return active[0]
}
