package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the raw candle history fetched for one ticker.
// DailyBars covers ~3 months, WeeklyBars ~13 months, YearBars ~1 year of
// daily candles used only for the 52-week range. Daily and weekly series
// are independent and never mixed.
type PriceSeries struct {
	Symbol     string
	DailyBars  []OHLCV
	WeeklyBars []OHLCV
	YearBars   []OHLCV
	FetchedAt  time.Time
}
