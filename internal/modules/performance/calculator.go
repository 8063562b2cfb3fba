package performance

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/benchmarks"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
	"github.com/mwestcott/finsight/pkg/formulas"
)

const (
	mwrLowerBound = -0.99
	mwrUpperBound = 10.0
	mwrTolerance  = 1e-6
	mwrMaxIter    = 200
)

// Calculator computes return and risk-adjusted performance figures. It is
// stateless; each call operates only on the caller-supplied snapshot.
type Calculator struct {
	riskFreeRate float64
	log          zerolog.Logger
}

// NewCalculator creates a performance calculator. riskFreeRate is the
// annual risk-free rate used for Sharpe ratios, e.g. 0.02.
func NewCalculator(riskFreeRate float64, log zerolog.Logger) *Calculator {
	return &Calculator{
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("service", "performance").Logger(),
	}
}

// Calculate produces the full performance report for a valuation series and
// the account's current holdings. Benchmark comparisons are computed by the
// caller (they need their own price series) and attached here.
func (c *Calculator) Calculate(series timeseries.Series, holdings []domain.Holding, benches []benchmarks.Comparison) Result {
	result := Result{
		Series:     series.Points,
		Benchmarks: benches,
	}

	// Dollar return is independent of the percentage calculations: current
	// market value minus total cost basis, in exact decimal.
	marketValue := decimal.Zero
	costBasis := decimal.Zero
	for _, h := range holdings {
		marketValue = marketValue.Add(h.MarketValue())
		costBasis = costBasis.Add(h.CostBasis)
	}
	result.MarketValue = marketValue.Round(2)
	result.TotalCostBasis = costBasis.Round(2)
	result.DollarReturn = marketValue.Sub(costBasis).Round(2)

	if series.InsufficientData || len(series.Points) < 2 {
		result.InsufficientData = true
		return result
	}

	result.TimeWeightedReturn = c.TimeWeightedReturn(series)

	mwr := c.MoneyWeightedReturn(series)
	result.MoneyWeightedReturn = mwr.Rate
	result.MWRConverged = mwr.Converged
	if !mwr.Converged {
		c.log.Warn().
			Str("account_id", series.AccountID).
			Float64("best_estimate", mwr.Rate).
			Msg("MWR root search did not converge, reporting best estimate")
	}

	returns := formulas.PeriodicReturns(series.Values())
	result.Volatility = formulas.AnnualizedVolatility(returns, formulas.TradingDaysPerYear)
	result.AnnualizedReturn = formulas.AnnualizeReturn(result.TimeWeightedReturn, series.Days())
	result.SharpeRatio = formulas.SharpeRatio(result.AnnualizedReturn, c.riskFreeRate, result.Volatility)

	return result
}

// TimeWeightedReturn chains sub-period returns between external cash flows:
// the range is partitioned at every flow date, each sub-period [a,b] earns
// r = (V(b) - flowAt(b)) / V(a) - 1, and TWR = Π(1+r) - 1. With no flows
// this degenerates to simple total return (V(end)-V(start))/V(start).
func (c *Calculator) TimeWeightedReturn(series timeseries.Series) float64 {
	if len(series.Points) < 2 {
		return 0
	}

	valueAt := make(map[time.Time]float64, len(series.Points))
	for _, p := range series.Points {
		v, _ := p.TotalValue.Float64()
		valueAt[p.Date] = v
	}

	flowAt := make(map[time.Time]float64)
	for _, f := range series.Flows {
		v, _ := f.Signed().Float64()
		flowAt[f.Date] = flowAt[f.Date] + v
	}

	boundaries := subPeriodBoundaries(series)

	var subReturns []float64
	for i := 1; i < len(boundaries); i++ {
		a, b := boundaries[i-1], boundaries[i]
		startValue, okA := valueAt[a]
		endValue, okB := valueAt[b]
		if !okA || !okB || startValue == 0 {
			// A zero-valued sub-period start contributes no measurable
			// growth; skip it rather than dividing by zero.
			continue
		}
		r := (endValue-flowAt[b])/startValue - 1
		subReturns = append(subReturns, r)
	}

	return formulas.ChainReturns(subReturns)
}

// MoneyWeightedReturn solves for the internal rate r satisfying
//
//	Σ CF_i/(1+r)^(t_i/365) + V(end)/(1+r)^(T/365) = V(start)
//
// where deposits enter as negative flows and withdrawals as positive ones.
// The root is found by bisection on [-0.99, 10], bounded to 200 iterations
// at 1e-6 tolerance; when the search cannot converge the best estimate is
// returned with Converged=false instead of an error.
func (c *Calculator) MoneyWeightedReturn(series timeseries.Series) MWRResult {
	if len(series.Points) < 2 {
		return MWRResult{}
	}

	startValue, _ := series.Points[0].TotalValue.Float64()
	endValue, _ := series.Points[len(series.Points)-1].TotalValue.Float64()
	start := series.Points[0].Date
	totalYears := yearsBetween(start, series.Points[len(series.Points)-1].Date)

	type flow struct {
		amount float64 // negative for deposits, positive for withdrawals
		years  float64
	}
	flows := make([]flow, 0, len(series.Flows))
	for _, f := range series.Flows {
		if !f.Date.After(start) {
			// Flows on day one are part of the starting value.
			continue
		}
		signed, _ := f.Signed().Float64()
		flows = append(flows, flow{amount: -signed, years: yearsBetween(start, f.Date)})
	}

	if startValue == 0 && len(flows) == 0 {
		return MWRResult{}
	}

	npv := func(r float64) float64 {
		sum := 0.0
		for _, f := range flows {
			sum += f.amount / math.Pow(1+r, f.years)
		}
		sum += endValue / math.Pow(1+r, totalYears)
		return sum - startValue
	}

	res := formulas.Bisect(npv, mwrLowerBound, mwrUpperBound, mwrTolerance, mwrMaxIter)
	return MWRResult{Rate: res.Root, Converged: res.Converged}
}

// subPeriodBoundaries returns the ordered distinct boundary dates: series
// endpoints plus every cash-flow date strictly inside the range. No
// sub-period straddles an external cash flow.
func subPeriodBoundaries(series timeseries.Series) []time.Time {
	first := series.Points[0].Date
	last := series.Points[len(series.Points)-1].Date

	seen := map[time.Time]bool{first: true, last: true}
	for _, f := range series.Flows {
		if f.Date.After(first) && f.Date.Before(last) {
			seen[f.Date] = true
		}
	}

	boundaries := make([]time.Time, 0, len(seen))
	for d := range seen {
		boundaries = append(boundaries, d)
	}
	sort.Slice(boundaries, func(i, j int) bool { return boundaries[i].Before(boundaries[j]) })
	return boundaries
}

func yearsBetween(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24 / 365
}
