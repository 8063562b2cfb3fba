package formulas

// DrawdownMetrics represents drawdown analysis results
type DrawdownMetrics struct {
	MaxDrawdown     float64 `json:"max_drawdown"`     // Largest peak-to-trough decline (0.25 = 25%)
	CurrentDrawdown float64 `json:"current_drawdown"` // Decline from peak at the end of the series
	PeakValue       float64 `json:"peak_value"`
	TroughValue     float64 `json:"trough_value"`
}

// MaxDrawdown calculates the maximum drawdown of a value series.
//
// Drawdown at each point is (running peak - value) / running peak; the
// maximum over the series is returned as a positive fraction. Returns nil
// when the series has fewer than two points.
func MaxDrawdown(values []float64) *float64 {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return &maxDrawdown
}

// Drawdown calculates full drawdown metrics for a value series, including
// the trough value behind the maximum drawdown and the drawdown the series
// ends in. Returns nil when the series has fewer than two points.
func Drawdown(values []float64) *DrawdownMetrics {
	if len(values) < 2 {
		return nil
	}

	maxDrawdown := 0.0
	peak := values[0]
	maxPeak := values[0]
	trough := values[0]

	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			drawdown := (peak - v) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
				maxPeak = peak
				trough = v
			}
		}
	}

	last := values[len(values)-1]
	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - last) / peak
	}

	return &DrawdownMetrics{
		MaxDrawdown:     maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		PeakValue:       maxPeak,
		TroughValue:     trough,
	}
}

// RollingVolatility calculates annualized volatility over a sliding window of
// periodic returns. The result has len(returns)-window+1 entries; an empty
// slice is returned when the series is shorter than the window.
func RollingVolatility(returns []float64, window, periodsPerYear int) []float64 {
	if window <= 1 || len(returns) < window {
		return []float64{}
	}

	out := make([]float64, 0, len(returns)-window+1)
	for i := window; i <= len(returns); i++ {
		out = append(out, AnnualizedVolatility(returns[i-window:i], periodsPerYear))
	}
	return out
}
