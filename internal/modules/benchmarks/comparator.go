package benchmarks

import (
	"sort"

	talib "github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/mwestcott/finsight/internal/domain"
	"github.com/mwestcott/finsight/pkg/formulas"
)

const (
	shortTrendWindow = 50
	longTrendWindow  = 200
)

// Comparator computes benchmark-side metrics over daily-close series.
// Gaps in a series default to the last known value upstream; no alignment
// beyond matching the date range is performed here.
type Comparator struct {
	riskFreeRate float64
	log          zerolog.Logger
}

// NewComparator creates a benchmark comparator.
func NewComparator(riskFreeRate float64, log zerolog.Logger) *Comparator {
	return &Comparator{
		riskFreeRate: riskFreeRate,
		log:          log.With().Str("service", "benchmarks").Logger(),
	}
}

// Compare computes the period return, annualized volatility, Sharpe ratio
// and moving-average trend for one benchmark's closes over the window. An
// empty or single-point series yields a zeroed comparison rather than an
// error.
func (c *Comparator) Compare(symbol string, closes []domain.PricePoint) Comparison {
	cmp := Comparison{Symbol: symbol, Trend: TrendUnknown, DataPoints: len(closes)}
	if len(closes) < 2 {
		return cmp
	}

	sorted := make([]domain.PricePoint, len(closes))
	copy(sorted, closes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	values := make([]float64, len(sorted))
	for i, p := range sorted {
		values[i], _ = p.Close.Float64()
	}

	if values[0] != 0 {
		cmp.PeriodReturn = values[len(values)-1]/values[0] - 1
	}

	returns := formulas.PeriodicReturns(values)
	cmp.Volatility = formulas.AnnualizedVolatility(returns, formulas.TradingDaysPerYear)

	days := int(sorted[len(sorted)-1].Date.Sub(sorted[0].Date).Hours() / 24)
	annualized := formulas.AnnualizeReturn(cmp.PeriodReturn, days)
	cmp.SharpeRatio = formulas.SharpeRatio(annualized, c.riskFreeRate, cmp.Volatility)

	cmp.Trend = classifyTrend(values)
	return cmp
}

// CompareAll runs Compare for every symbol with a series in the map,
// in DefaultSymbols order.
func (c *Comparator) CompareAll(series map[string][]domain.PricePoint) []Comparison {
	out := make([]Comparison, 0, len(series))
	for _, symbol := range DefaultSymbols {
		closes, ok := series[symbol]
		if !ok {
			continue
		}
		out = append(out, c.Compare(symbol, closes))
	}
	return out
}

// classifyTrend compares the 50-day and 200-day simple moving averages of
// the close series. Shorter series cannot support the long average and are
// reported as unknown.
func classifyTrend(values []float64) string {
	if len(values) < longTrendWindow {
		return TrendUnknown
	}

	shortMA := talib.Sma(values, shortTrendWindow)
	longMA := talib.Sma(values, longTrendWindow)

	s := shortMA[len(shortMA)-1]
	l := longMA[len(longMA)-1]
	if s == 0 || l == 0 {
		return TrendUnknown
	}
	if s >= l {
		return TrendUp
	}
	return TrendDown
}
