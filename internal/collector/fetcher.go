package collector

import (
	"time"

	"PsiSentinel/internal/model"
)

// Default lookback windows per timeframe.
const (
	DailyWindowMonths  = 3  // ~3 months of daily candles
	WeeklyWindowMonths = 13 // ~13 months of weekly candles
)

// Fetcher defines the interface for fetching market data. A zero end
// time means "up to now"; otherwise history is truncated at end.
type Fetcher interface {
	FetchDailyBars(symbol string, end time.Time) ([]model.OHLCV, error)
	FetchWeeklyBars(symbol string, end time.Time) ([]model.OHLCV, error)
	FetchYearBars(symbol string, end time.Time) ([]model.OHLCV, error)
	FetchCompanyInfo(symbol string) (*model.CompanyInfo, error)
	Name() string
}
