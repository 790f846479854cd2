package collector

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PsiSentinel/internal/model"
)

func TestSanitizeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{"  msft ", "MSFT"},
		{"^GSPC", "GSPC"},
		{"BRK-B", "BRK-B"},
		{" ^vix ", "VIX"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeTicker(tt.in), "input %q", tt.in)
	}
}

func TestCollect_ReportAssembly(t *testing.T) {
	daily := GenerateMockBars(100, 63, 24*time.Hour)
	weekly := GenerateMockBars(100, 56, 7*24*time.Hour)
	year := GenerateMockBars(100, 252, 24*time.Hour)
	longName := "Example Corp."
	sector := "Technology"
	pe := 27.4

	fetcher := &MockFetcher{
		DailyData:  daily,
		WeeklyData: weekly,
		YearData:   year,
		Info: &model.CompanyInfo{
			LongName:    &longName,
			Sector:      &sector,
			TrailingPE:  &pe,
			Currency:    "EUR",
			MarketState: "CLOSED",
		},
	}

	report, err := NewCollector(fetcher).Collect(" aapl ", time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Symbol)
	lastDaily := daily[len(daily)-1]
	prevDaily := daily[len(daily)-2]
	assert.Equal(t, lastDaily.Close, report.CurrentPrice)
	assert.InDelta(t, lastDaily.Close-prevDaily.Close, report.RegularMarketChange, 1e-12)
	assert.Equal(t, lastDaily.Open, report.RegularMarketOpen)
	assert.Equal(t, int64(1000000), report.RegularMarketVolume)

	assert.Equal(t, "3mo", report.PsiEMADaily.Window)
	assert.Equal(t, len(daily), report.PsiEMADaily.Candles)
	assert.Equal(t, "13mo", report.PsiEMAWeekly.Window)
	assert.Equal(t, len(weekly), report.PsiEMAWeekly.Candles)
	require.NotNil(t, report.PsiEMADaily.EMA55, "63 daily candles should carry EMA55")
	assert.GreaterOrEqual(t, report.PsiEMADaily.R, -5.0)
	assert.LessOrEqual(t, report.PsiEMADaily.R, 5.0)

	assert.Greater(t, report.FiftyTwoWeekHigh, report.FiftyTwoWeekLow)

	require.NotNil(t, report.LongName)
	assert.Equal(t, longName, *report.LongName)
	require.NotNil(t, report.TrailingPE)
	assert.Equal(t, pe, *report.TrailingPE)
	assert.Equal(t, "EUR", report.Currency)
	assert.Equal(t, "CLOSED", report.MarketState)
	assert.Nil(t, report.MarketCap)
}

func TestCollect_EmptyDailySeries(t *testing.T) {
	fetcher := &MockFetcher{DailyData: []model.OHLCV{}}
	_, err := NewCollector(fetcher).Collect("NOPE", time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data found for NOPE")
}

// infoFailFetcher degrades company info while bars keep working.
type infoFailFetcher struct{ MockFetcher }

func (f *infoFailFetcher) FetchCompanyInfo(_ string) (*model.CompanyInfo, error) {
	return nil, errors.New("summary endpoint unavailable")
}

func TestCollect_CompanyInfoDegrades(t *testing.T) {
	fetcher := &infoFailFetcher{MockFetcher{Price: 100}}
	report, err := NewCollector(fetcher).Collect("AAPL", time.Time{})
	require.NoError(t, err, "missing fundamentals must not fail the report")
	assert.Nil(t, report.LongName)
	assert.Nil(t, report.TrailingPE)
	assert.Equal(t, "USD", report.Currency)
	assert.NotZero(t, report.CurrentPrice)
}

// yearFailFetcher degrades the 52-week range.
type yearFailFetcher struct{ MockFetcher }

func (f *yearFailFetcher) FetchYearBars(_ string, _ time.Time) ([]model.OHLCV, error) {
	return nil, errors.New("range too large")
}

func TestCollect_YearBarsDegrade(t *testing.T) {
	fetcher := &yearFailFetcher{MockFetcher{Price: 100}}
	report, err := NewCollector(fetcher).Collect("AAPL", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, report.CurrentPrice, report.FiftyTwoWeekHigh)
	assert.Equal(t, report.CurrentPrice, report.FiftyTwoWeekLow)
}

func TestAggregateDailyToWeekly(t *testing.T) {
	// Two ISO weeks of daily bars starting on a Monday.
	daily := GenerateMockBars(100, 10, 24*time.Hour)
	weekly := aggregateDailyToWeekly(daily)
	require.Len(t, weekly, 2)

	first := weekly[0]
	assert.Equal(t, daily[0].Open, first.Open)
	assert.Equal(t, daily[6].Close, first.Close, "week closes on its last daily bar")
	assert.Equal(t, float64(7*1000000), first.Volume)

	assert.Nil(t, aggregateDailyToWeekly(nil))
}
