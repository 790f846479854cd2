package calculator

// rollingLookback is the fixed window for the convergence z-scores,
// matching the EMA-34 period.
const rollingLookback = 34

// rollingZScore computes (last - median) / MAD over the trailing
// lookback points. ok=false when the series is too short or the MAD is 0.
func rollingZScore(prices []float64, lookback int) (float64, bool) {
	if len(prices) < lookback {
		return 0, false
	}
	recent := prices[len(prices)-lookback:]
	median := Median(recent)
	mad := MedianAbsoluteDeviation(recent, median)
	if mad == 0 {
		return 0, false
	}
	return (prices[len(prices)-1] - median) / mad, true
}

// CalculateConvergenceR computes the bar-over-bar convergence ratio
// z(t)/z(t-1) of 34-period rolling robust z-scores, clamped to [-5, 5]
// and rounded to 2 decimals. |r| > 1 means the anomaly is growing,
// |r| < 1 that it is fading. Returns the neutral 1.0 for fewer than 35
// prices, or when either rolling z-score is undefined, or when the
// prior z-score is 0. Clamping bounds pathological ratios when the
// prior z-score is near zero.
func CalculateConvergenceR(prices []float64) float64 {
	if len(prices) < 35 {
		return 1.0
	}
	zCurrent, ok := rollingZScore(prices, rollingLookback)
	if !ok {
		return 1.0
	}
	zPrevious, ok := rollingZScore(prices[:len(prices)-1], rollingLookback)
	if !ok || zPrevious == 0 {
		return 1.0
	}
	r := zCurrent / zPrevious
	return round2(clamp(r, -5, 5))
}
