package calculator

// CalculateZScore computes a robust anomaly score for current against the
// distribution of the whole supplied series: (current - median) / MAD,
// rounded to 2 decimals. Returns 0 for fewer than 21 prices or when the
// MAD is 0 (flat series, no detectable anomaly).
//
// The median and MAD run over whatever history the caller passed in, so
// the effective window differs by timeframe. That follows the caller's
// chosen lookback and is intentional.
func CalculateZScore(prices []float64, current float64) float64 {
	if len(prices) < 21 {
		return 0
	}
	median := Median(prices)
	mad := MedianAbsoluteDeviation(prices, median)
	if mad == 0 {
		return 0
	}
	return round2((current - median) / mad)
}
