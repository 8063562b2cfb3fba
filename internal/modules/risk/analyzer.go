package risk

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/internal/modules/timeseries"
	"github.com/mwestcott/finsight/pkg/formulas"
)

// rollingWindow is the number of return observations in each rolling
// volatility window.
const rollingWindow = 30

// Analyzer computes risk statistics over caller-supplied snapshots. It is
// stateless and safe for concurrent use.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates a risk analyzer.
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{
		log: log.With().Str("service", "risk").Logger(),
	}
}

// Analyze computes drawdown, volatility, and benchmark-relative statistics
// for the valuation series. All statistics share the series' periodicity:
// the benchmark is resampled onto the account's (coarser) valuation dates
// before returns are paired, so granularities never mix.
func (a *Analyzer) Analyze(series timeseries.Series, benchmark []domain.PricePoint) Metrics {
	metrics := Metrics{}

	if series.InsufficientData || len(series.Points) < 2 {
		metrics.InsufficientData = true
		return metrics
	}

	values := series.Values()
	returns := formulas.PeriodicReturns(values)

	metrics.Volatility = formulas.AnnualizedVolatility(returns, formulas.TradingDaysPerYear)
	metrics.MaxDrawdown = formulas.MaxDrawdown(values)
	if dd := formulas.Drawdown(values); dd != nil {
		metrics.CurrentDrawdown = dd.CurrentDrawdown
	}

	metrics.RollingVolatility = rollingVolatility(series, returns)

	accountReturns, benchmarkReturns := pairReturns(series, benchmark)
	metrics.PairedPoints = len(accountReturns)
	metrics.Beta = formulas.Beta(accountReturns, benchmarkReturns)
	metrics.Correlation = formulas.PairedCorrelation(accountReturns, benchmarkReturns)

	return metrics
}

// pairReturns builds paired return series by sampling the benchmark's
// as-of close on each account valuation date. Dates where the benchmark has
// no close on or before them are dropped from both sides.
func pairReturns(series timeseries.Series, benchmark []domain.PricePoint) ([]float64, []float64) {
	if len(benchmark) == 0 {
		return nil, nil
	}

	sorted := make([]domain.PricePoint, len(benchmark))
	copy(sorted, benchmark)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	type sample struct {
		account   float64
		benchmark float64
	}
	var samples []sample
	for _, p := range series.Points {
		bench, ok := closeAsOf(sorted, p.Date)
		if !ok {
			continue
		}
		v, _ := p.TotalValue.Float64()
		samples = append(samples, sample{account: v, benchmark: bench})
	}

	if len(samples) < 2 {
		return nil, nil
	}

	var accountReturns, benchmarkReturns []float64
	for i := 1; i < len(samples); i++ {
		if samples[i-1].account == 0 || samples[i-1].benchmark == 0 {
			continue
		}
		accountReturns = append(accountReturns, samples[i].account/samples[i-1].account-1)
		benchmarkReturns = append(benchmarkReturns, samples[i].benchmark/samples[i-1].benchmark-1)
	}
	return accountReturns, benchmarkReturns
}

// closeAsOf returns the last close on or before the date.
func closeAsOf(sorted []domain.PricePoint, date time.Time) (float64, bool) {
	idx := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Date.After(date)
	})
	if idx == 0 {
		return 0, false
	}
	v, _ := sorted[idx-1].Close.Float64()
	return v, true
}

// rollingVolatility computes the windowed volatility series, tagging each
// window with the valuation date it ends on.
func rollingVolatility(series timeseries.Series, returns []float64) []RollingVolPoint {
	rolled := formulas.RollingVolatility(returns, rollingWindow, formulas.TradingDaysPerYear)
	if len(rolled) == 0 {
		return nil
	}

	points := make([]RollingVolPoint, len(rolled))
	for i, v := range rolled {
		// Window i covers returns [i, i+window); the closing valuation is
		// point index i+window.
		points[i] = RollingVolPoint{
			Date:       series.Points[i+rollingWindow].Date,
			Volatility: v,
		}
	}
	return points
}
