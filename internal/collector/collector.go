package collector

import (
	"fmt"
	"log"
	"strings"
	"time"

	"PsiSentinel/internal/calculator"
	"PsiSentinel/internal/model"
)

// SanitizeTicker validates and cleans a ticker symbol: upper-case,
// surrounding whitespace trimmed, caret prefixes stripped.
func SanitizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(ticker, "^", "")))
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price      float64
	DailyData  []model.OHLCV
	WeeklyData []model.OHLCV
	YearData   []model.OHLCV
	Info       *model.CompanyInfo
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, _ time.Time) ([]model.OHLCV, error) {
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return GenerateMockBars(m.Price, 63, 24*time.Hour), nil
}

func (m *MockFetcher) FetchWeeklyBars(_ string, _ time.Time) ([]model.OHLCV, error) {
	if m.WeeklyData != nil {
		return m.WeeklyData, nil
	}
	return GenerateMockBars(m.Price, 56, 7*24*time.Hour), nil
}

func (m *MockFetcher) FetchYearBars(_ string, _ time.Time) ([]model.OHLCV, error) {
	if m.YearData != nil {
		return m.YearData, nil
	}
	return GenerateMockBars(m.Price, 252, 24*time.Hour), nil
}

func (m *MockFetcher) FetchCompanyInfo(_ string) (*model.CompanyInfo, error) {
	if m.Info != nil {
		return m.Info, nil
	}
	return &model.CompanyInfo{Currency: "USD", MarketState: "REGULAR"}, nil
}

// GenerateMockBars produces a deterministic gently trending bar series.
func GenerateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and report assembly.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches both timeframes plus fundamentals for a ticker and
// assembles the full report. Missing company info or 52-week history
// degrades the affected fields; an unusable daily series is the only
// hard failure.
func (c *Collector) Collect(ticker string, end time.Time) (*model.StockReport, error) {
	symbol := SanitizeTicker(ticker)

	series, err := c.fetchSeries(symbol, end)
	if err != nil {
		return nil, err
	}
	dailyBars, weeklyBars := series.DailyBars, series.WeeklyBars

	last := dailyBars[len(dailyBars)-1]
	currentPrice := last.Close
	prevPrice := currentPrice
	if len(dailyBars) > 1 {
		prevPrice = dailyBars[len(dailyBars)-2].Close
	}
	changePercent := 0.0
	if prevPrice != 0 {
		changePercent = (currentPrice - prevPrice) / prevPrice * 100
	}

	report := &model.StockReport{
		Symbol:                     symbol,
		CurrentPrice:               currentPrice,
		RegularMarketChange:        currentPrice - prevPrice,
		RegularMarketChangePercent: changePercent,
		RegularMarketDayHigh:       last.High,
		RegularMarketDayLow:        last.Low,
		RegularMarketOpen:          last.Open,
		RegularMarketVolume:        int64(last.Volume),
		PsiEMADaily:                calculator.BuildPsiEMA(dailyBars, "3mo"),
		PsiEMAWeekly:               calculator.BuildPsiEMA(weeklyBars, "13mo"),
		Currency:                   "USD",
		MarketState:                "REGULAR",
		DataTimestamp:              last.Time.Format("2006-01-02 15:04:05-07:00"),
	}

	// 52-week range from one year of daily candles
	if high, low, err := calculator.Calculate52WeekRange(series.YearBars); err != nil {
		log.Printf("[WARN] 52-week range calculation failed for %s: %v", symbol, err)
		report.FiftyTwoWeekHigh = currentPrice
		report.FiftyTwoWeekLow = currentPrice
	} else {
		report.FiftyTwoWeekHigh = high
		report.FiftyTwoWeekLow = low
	}

	if info, err := c.Fetcher.FetchCompanyInfo(symbol); err != nil {
		log.Printf("[WARN] company info fetch failed for %s: %v, fundamentals omitted", symbol, err)
	} else {
		applyCompanyInfo(report, info)
	}

	return report, nil
}

// fetchSeries gathers one ticker's candle history across all windows.
// Failed 52-week history degrades to an empty YearBars slice; daily and
// weekly series are required.
func (c *Collector) fetchSeries(symbol string, end time.Time) (*model.PriceSeries, error) {
	dailyBars, err := c.Fetcher.FetchDailyBars(symbol, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	if len(dailyBars) == 0 {
		return nil, fmt.Errorf("no data found for %s", symbol)
	}
	weeklyBars, err := c.Fetcher.FetchWeeklyBars(symbol, end)
	if err != nil {
		return nil, fmt.Errorf("fetch weekly bars: %w", err)
	}
	yearBars, err := c.Fetcher.FetchYearBars(symbol, end)
	if err != nil {
		log.Printf("[WARN] 52-week history fetch failed for %s: %v, using current price", symbol, err)
		yearBars = nil
	}
	return &model.PriceSeries{
		Symbol:     symbol,
		DailyBars:  dailyBars,
		WeeklyBars: weeklyBars,
		YearBars:   yearBars,
		FetchedAt:  time.Now(),
	}, nil
}

func applyCompanyInfo(report *model.StockReport, info *model.CompanyInfo) {
	report.ShortName = info.ShortName
	report.LongName = info.LongName
	report.Sector = info.Sector
	report.Industry = info.Industry
	report.MarketCap = info.MarketCap
	report.TrailingPE = info.TrailingPE
	report.ForwardPE = info.ForwardPE
	report.PegRatio = info.PegRatio
	report.PriceToBook = info.PriceToBook
	report.DebtToEquity = info.DebtToEquity
	report.CurrentRatio = info.CurrentRatio
	report.QuickRatio = info.QuickRatio
	report.TotalDebt = info.TotalDebt
	report.TotalCash = info.TotalCash
	report.ProfitMargins = info.ProfitMargins
	report.OperatingMargins = info.OperatingMargins
	report.ReturnOnEquity = info.ReturnOnEquity
	report.ReturnOnAssets = info.ReturnOnAssets
	report.RevenueGrowth = info.RevenueGrowth
	report.EarningsGrowth = info.EarningsGrowth
	report.FiftyTwoWeekChange = info.FiftyTwoWeekChange
	report.TargetMeanPrice = info.TargetMeanPrice
	report.RecommendationKey = info.RecommendationKey
	if info.Currency != "" {
		report.Currency = info.Currency
	}
	if info.MarketState != "" {
		report.MarketState = info.MarketState
	}
	report.Exchange = info.Exchange
	report.QuoteType = info.QuoteType
}
