package calculator

// CalculateEMA computes the exponential moving average of prices for the
// given period. Returns ok=false when the period is not positive or the
// series is shorter than the period.
//
// The running average is seeded with the first element of the entire
// supplied series, not the first element of a trailing period-sized
// window. Callers pass different history lengths per timeframe, so the
// same period carries a different warm-up bias on daily vs. weekly
// series; report consumers depend on these exact values.
func CalculateEMA(prices []float64, period int) (float64, bool) {
	if period <= 0 {
		return 0, false
	}
	if len(prices) < period {
		return 0, false
	}
	multiplier := 2.0 / float64(period+1)
	ema := prices[0]
	for _, p := range prices[1:] {
		ema = p*multiplier + ema*(1-multiplier)
	}
	return ema, true
}
