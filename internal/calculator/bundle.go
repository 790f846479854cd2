package calculator

import "PsiSentinel/internal/model"

// BuildPsiEMA runs all four calculators over the bar closes and packages
// the results with the window label and candle count. The z-score is
// taken against the series' own last close. EMA periods follow the
// Fibonacci ladder 13/21/34/55.
func BuildPsiEMA(bars []model.OHLCV, window string) model.PsiEMA {
	closes := extractCloses(bars)

	bundle := model.PsiEMA{
		Theta:   CalculateTheta(closes),
		R:       CalculateConvergenceR(closes),
		Window:  window,
		Candles: len(bars),
	}
	if len(closes) > 0 {
		bundle.Z = CalculateZScore(closes, closes[len(closes)-1])
	}

	if ema, ok := CalculateEMA(closes, 13); ok {
		bundle.EMA13 = &ema
	}
	if ema, ok := CalculateEMA(closes, 21); ok {
		bundle.EMA21 = &ema
	}
	if ema, ok := CalculateEMA(closes, 34); ok {
		bundle.EMA34 = &ema
	}
	if ema, ok := CalculateEMA(closes, 55); ok {
		bundle.EMA55 = &ema
	}
	return bundle
}
