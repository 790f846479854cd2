package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PsiSentinel/internal/model"
)

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) fetchChart(symbol, interval string, start, end time.Time) ([]model.OHLCV, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=%s&period1=%d&period2=%d",
		url.PathEscape(symbol), interval, start.Unix(), end.Unix())

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}
	return parseChart(body, symbol)
}

// at tolerates quote arrays shorter than the timestamp array; missing
// entries read as null.
func at(vals []interface{}, i int) interface{} {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func parseChart(body []byte, symbol string) ([]model.OHLCV, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(at(quote.Open, i))
		h := toFloat(at(quote.High, i))
		l := toFloat(at(quote.Low, i))
		c := toFloat(at(quote.Close, i))
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(at(quote.Volume, i)),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func (f *YahooFetcher) get(u string) ([]byte, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func endOrNow(end time.Time) time.Time {
	if end.IsZero() {
		return time.Now()
	}
	return end
}

func (f *YahooFetcher) FetchDailyBars(symbol string, end time.Time) ([]model.OHLCV, error) {
	to := endOrNow(end)
	return f.fetchChart(symbol, "1d", to.AddDate(0, -DailyWindowMonths, 0), to)
}

func (f *YahooFetcher) FetchWeeklyBars(symbol string, end time.Time) ([]model.OHLCV, error) {
	to := endOrNow(end)
	return f.fetchChart(symbol, "1wk", to.AddDate(0, -WeeklyWindowMonths, 0), to)
}

func (f *YahooFetcher) FetchYearBars(symbol string, end time.Time) ([]model.OHLCV, error) {
	to := endOrNow(end)
	return f.fetchChart(symbol, "1d", to.AddDate(-1, 0, 0), to)
}

// yahooValue is the raw/fmt wrapper Yahoo uses for numeric fields.
type yahooValue struct {
	Raw *float64 `json:"raw"`
}

// yahooQuoteSummary is the response structure from the quoteSummary API.
type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				ShortName    *string `json:"shortName"`
				LongName     *string `json:"longName"`
				Currency     *string `json:"currency"`
				ExchangeName *string `json:"exchangeName"`
				QuoteType    *string `json:"quoteType"`
				MarketState  *string `json:"marketState"`
			} `json:"price"`
			AssetProfile *struct {
				Sector   *string `json:"sector"`
				Industry *string `json:"industry"`
			} `json:"assetProfile"`
			SummaryDetail *struct {
				MarketCap  yahooValue `json:"marketCap"`
				TrailingPE yahooValue `json:"trailingPE"`
				ForwardPE  yahooValue `json:"forwardPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics *struct {
				PegRatio           yahooValue `json:"pegRatio"`
				PriceToBook        yahooValue `json:"priceToBook"`
				FiftyTwoWeekChange yahooValue `json:"52WeekChange"`
			} `json:"defaultKeyStatistics"`
			FinancialData *struct {
				DebtToEquity      yahooValue `json:"debtToEquity"`
				CurrentRatio      yahooValue `json:"currentRatio"`
				QuickRatio        yahooValue `json:"quickRatio"`
				TotalDebt         yahooValue `json:"totalDebt"`
				TotalCash         yahooValue `json:"totalCash"`
				ProfitMargins     yahooValue `json:"profitMargins"`
				OperatingMargins  yahooValue `json:"operatingMargins"`
				ReturnOnEquity    yahooValue `json:"returnOnEquity"`
				ReturnOnAssets    yahooValue `json:"returnOnAssets"`
				RevenueGrowth     yahooValue `json:"revenueGrowth"`
				EarningsGrowth    yahooValue `json:"earningsGrowth"`
				TargetMeanPrice   yahooValue `json:"targetMeanPrice"`
				RecommendationKey *string    `json:"recommendationKey"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (f *YahooFetcher) FetchCompanyInfo(symbol string) (*model.CompanyInfo, error) {
	u := fmt.Sprintf("https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=price,assetProfile,summaryDetail,defaultKeyStatistics,financialData",
		url.PathEscape(symbol))

	body, err := f.get(u)
	if err != nil {
		return nil, err
	}

	var summary yahooQuoteSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode summary: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary for %s", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	info := &model.CompanyInfo{
		Currency:    "USD",
		MarketState: "REGULAR",
	}
	if r.Price != nil {
		info.ShortName = r.Price.ShortName
		info.LongName = r.Price.LongName
		info.Exchange = r.Price.ExchangeName
		info.QuoteType = r.Price.QuoteType
		if r.Price.Currency != nil {
			info.Currency = *r.Price.Currency
		}
		if r.Price.MarketState != nil {
			info.MarketState = *r.Price.MarketState
		}
	}
	if r.AssetProfile != nil {
		info.Sector = r.AssetProfile.Sector
		info.Industry = r.AssetProfile.Industry
	}
	if r.SummaryDetail != nil {
		info.MarketCap = r.SummaryDetail.MarketCap.Raw
		info.TrailingPE = r.SummaryDetail.TrailingPE.Raw
		info.ForwardPE = r.SummaryDetail.ForwardPE.Raw
	}
	if r.DefaultKeyStatistics != nil {
		info.PegRatio = r.DefaultKeyStatistics.PegRatio.Raw
		info.PriceToBook = r.DefaultKeyStatistics.PriceToBook.Raw
		info.FiftyTwoWeekChange = r.DefaultKeyStatistics.FiftyTwoWeekChange.Raw
	}
	if r.FinancialData != nil {
		info.DebtToEquity = r.FinancialData.DebtToEquity.Raw
		info.CurrentRatio = r.FinancialData.CurrentRatio.Raw
		info.QuickRatio = r.FinancialData.QuickRatio.Raw
		info.TotalDebt = r.FinancialData.TotalDebt.Raw
		info.TotalCash = r.FinancialData.TotalCash.Raw
		info.ProfitMargins = r.FinancialData.ProfitMargins.Raw
		info.OperatingMargins = r.FinancialData.OperatingMargins.Raw
		info.ReturnOnEquity = r.FinancialData.ReturnOnEquity.Raw
		info.ReturnOnAssets = r.FinancialData.ReturnOnAssets.Raw
		info.RevenueGrowth = r.FinancialData.RevenueGrowth.Raw
		info.EarningsGrowth = r.FinancialData.EarningsGrowth.Raw
		info.TargetMeanPrice = r.FinancialData.TargetMeanPrice.Raw
		info.RecommendationKey = r.FinancialData.RecommendationKey
	}
	return info, nil
}
