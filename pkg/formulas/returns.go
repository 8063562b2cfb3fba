package formulas

import "math"

// PeriodicReturns converts a value series to percentage returns.
// Returns[i] = (Value[i+1] - Value[i]) / Value[i]. A zero denominator
// produces a zero return instead of failing the whole series.
func PeriodicReturns(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns[i-1] = (values[i] - values[i-1]) / values[i-1]
		}
	}

	return returns
}

// ChainReturns geometrically links a set of sub-period returns:
// (1+r1)*(1+r2)*...*(1+rN) - 1.
func ChainReturns(returns []float64) float64 {
	chained := 1.0
	for _, r := range returns {
		chained *= 1 + r
	}
	return chained - 1
}

// AnnualizeReturn converts a total return over a holding period of the given
// number of days into a compound annual rate. Periods shorter than 30 days
// are returned un-annualized to avoid explosive extrapolation.
func AnnualizeReturn(totalReturn float64, days int) float64 {
	if days <= 0 {
		return totalReturn
	}
	years := float64(days) / 365.0
	if years < 30.0/365.0 {
		return totalReturn
	}

	base := 1 + totalReturn
	if base <= 0 {
		// Total loss (or worse); compounding is undefined, report -100%.
		return -1
	}
	return math.Pow(base, 1/years) - 1
}
