package formulas

// SharpeRatio calculates the Sharpe ratio from annualized figures:
// (annualized return - risk-free rate) / annualized volatility.
//
// A zero-volatility series has no meaningful risk-adjusted return; the ratio
// is defined as 0 in that case rather than dividing by zero.
func SharpeRatio(annualizedReturn, riskFreeRate, annualizedVolatility float64) float64 {
	if annualizedVolatility == 0 {
		return 0
	}
	return (annualizedReturn - riskFreeRate) / annualizedVolatility
}

// Beta calculates the beta of an asset's returns against a benchmark's
// returns: Cov(asset, benchmark) / Var(benchmark). Returns nil when fewer
// than two paired points exist or the benchmark has zero variance.
func Beta(assetReturns, benchmarkReturns []float64) *float64 {
	if len(assetReturns) < 2 || len(assetReturns) != len(benchmarkReturns) {
		return nil
	}

	// Cov(x, x) is the variance under the same estimator as the numerator,
	// so the ratio stays consistent.
	benchVar := Covariance(benchmarkReturns, benchmarkReturns)
	if benchVar == 0 {
		return nil
	}

	beta := Covariance(assetReturns, benchmarkReturns) / benchVar
	return &beta
}

// PairedCorrelation calculates the Pearson correlation of two paired return
// series. Returns nil when fewer than two paired points exist.
func PairedCorrelation(assetReturns, benchmarkReturns []float64) *float64 {
	if len(assetReturns) < 2 || len(assetReturns) != len(benchmarkReturns) {
		return nil
	}

	corr := Correlation(assetReturns, benchmarkReturns)
	return &corr
}
