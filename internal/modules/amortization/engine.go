package amortization

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
)

// monthsPerYear converts an annual rate to the per-period rate.
const monthsPerYear = 12

// maxSimulationMonths bounds accelerated-payoff runs so pathological inputs
// still terminate.
const maxSimulationMonths = 1200

// Engine generates amortization schedules. It is stateless and safe for
// concurrent use.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an amortization engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{
		log: log.With().Str("service", "amortization").Logger(),
	}
}

func validateLoan(loan domain.Loan) error {
	if loan.Principal.Sign() <= 0 {
		return domain.NewValidationError("principal", "must be positive")
	}
	if loan.TermMonths <= 0 {
		return domain.NewValidationError("term_months", "must be positive")
	}
	if loan.AnnualRate.Sign() < 0 || loan.AnnualRate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.NewValidationError("annual_rate", "must be a fraction in [0, 1]")
	}
	return nil
}

// MonthlyPayment returns the fixed payment for the loan, rounded to cents.
// A zero-rate loan pays principal/term.
func MonthlyPayment(loan domain.Loan) decimal.Decimal {
	if loan.AnnualRate.IsZero() {
		return loan.Principal.Div(decimal.NewFromInt(int64(loan.TermMonths))).Round(2)
	}

	// M = P·i / (1 − (1+i)^−n). The power term has no exact decimal form,
	// so the payment is derived in float and then fixed to cents; the
	// schedule itself stays in exact decimal arithmetic.
	principal, _ := loan.Principal.Float64()
	annual, _ := loan.AnnualRate.Float64()
	i := annual / monthsPerYear
	m := principal * i / (1 - math.Pow(1+i, -float64(loan.TermMonths)))
	return decimal.NewFromFloat(m).Round(2)
}

// GenerateSchedule produces the full period-by-period schedule. Interest is
// computed on the running balance and rounded to cents each period; the
// final period pays off whatever balance remains so the schedule always
// closes at exactly zero.
func (e *Engine) GenerateSchedule(loan domain.Loan) (Schedule, error) {
	if err := validateLoan(loan); err != nil {
		return Schedule{}, err
	}

	payment := MonthlyPayment(loan)
	monthlyRate := loan.AnnualRate.Div(decimal.NewFromInt(monthsPerYear))

	schedule := Schedule{
		MonthlyPayment: payment,
		Periods:        make([]Period, 0, loan.TermMonths),
		TotalInterest:  decimal.Zero,
		TotalPaid:      decimal.Zero,
	}

	balance := loan.Principal
	for n := 1; n <= loan.TermMonths && balance.Sign() > 0; n++ {
		interest := balance.Mul(monthlyRate).Round(2)
		principal := payment.Sub(interest)
		periodPayment := payment

		// Last scheduled period, or rounding drift has the balance about
		// to cross zero: retire the exact remainder.
		if n == loan.TermMonths || principal.GreaterThanOrEqual(balance) {
			principal = balance
			periodPayment = principal.Add(interest)
		}

		balance = balance.Sub(principal)
		schedule.Periods = append(schedule.Periods, Period{
			Number:           n,
			Date:             loan.StartDate.AddDate(0, n, 0),
			Payment:          periodPayment,
			Principal:        principal,
			Interest:         interest,
			RemainingBalance: balance,
		})
		schedule.TotalInterest = schedule.TotalInterest.Add(interest)
		schedule.TotalPaid = schedule.TotalPaid.Add(periodPayment)
	}

	if len(schedule.Periods) > 0 {
		schedule.PayoffDate = schedule.Periods[len(schedule.Periods)-1].Date
	}
	return schedule, nil
}

// SimulatePayoff re-runs the schedule with a constant extra amount added to
// every payment and reports the time and interest saved against the
// baseline schedule.
func (e *Engine) SimulatePayoff(loan domain.Loan, extraPayment decimal.Decimal) (PayoffResult, error) {
	if extraPayment.Sign() < 0 {
		return PayoffResult{}, domain.NewValidationError("extra_payment", "must be non-negative")
	}

	baseline, err := e.GenerateSchedule(loan)
	if err != nil {
		return PayoffResult{}, err
	}

	payment := baseline.MonthlyPayment.Add(extraPayment)
	monthlyRate := loan.AnnualRate.Div(decimal.NewFromInt(monthsPerYear))

	result := PayoffResult{
		MonthlyPayment: baseline.MonthlyPayment,
		ExtraPayment:   extraPayment,
		TotalInterest:  decimal.Zero,
	}

	balance := loan.Principal
	months := 0
	for balance.Sign() > 0 && months < maxSimulationMonths {
		months++
		interest := balance.Mul(monthlyRate).Round(2)
		principal := payment.Sub(interest)
		// The contractual term still bounds the run: a cent-rounded payment
		// can leave a residual at term, absorbed there just like the
		// baseline schedule does.
		if principal.GreaterThanOrEqual(balance) || months == loan.TermMonths {
			principal = balance
		}
		balance = balance.Sub(principal)
		result.TotalInterest = result.TotalInterest.Add(interest)
	}

	result.Months = months
	result.PayoffDate = loan.StartDate.AddDate(0, months, 0)
	if balance.Sign() > 0 {
		// Capped with balance outstanding: the loan was not paid off, so
		// there are no savings to report.
		result.CapReached = true
		result.InterestSaved = decimal.Zero
		result.MonthsSaved = 0
	} else {
		result.InterestSaved = baseline.TotalInterest.Sub(result.TotalInterest)
		result.MonthsSaved = len(baseline.Periods) - months
	}

	e.log.Debug().
		Int("months", months).
		Bool("cap_reached", result.CapReached).
		Str("interest_saved", result.InterestSaved.String()).
		Msg("Payoff simulation complete")

	return result, nil
}
