package model

// PsiEMA is the indicator bundle computed independently per timeframe.
// Theta, Z and R are rounded to 2 decimals; the EMA fields are unrounded
// and nil when the series is shorter than the period.
type PsiEMA struct {
	Theta   float64  `json:"theta"`
	Z       float64  `json:"z"`
	R       float64  `json:"r"`
	EMA34   *float64 `json:"ema_34"`
	EMA55   *float64 `json:"ema_55"`
	EMA21   *float64 `json:"ema_21"`
	EMA13   *float64 `json:"ema_13"`
	Window  string   `json:"window"`
	Candles int      `json:"candles"`
}

// CompanyInfo holds fundamentals and metadata for a ticker. Fields the
// data source does not know are nil and serialize as null.
type CompanyInfo struct {
	ShortName *string `json:"shortName"`
	LongName  *string `json:"longName"`
	Sector    *string `json:"sector"`
	Industry  *string `json:"industry"`

	MarketCap   *float64 `json:"marketCap"`
	TrailingPE  *float64 `json:"trailingPE"`
	ForwardPE   *float64 `json:"forwardPE"`
	PegRatio    *float64 `json:"pegRatio"`
	PriceToBook *float64 `json:"priceToBook"`

	DebtToEquity *float64 `json:"debtToEquity"`
	CurrentRatio *float64 `json:"currentRatio"`
	QuickRatio   *float64 `json:"quickRatio"`
	TotalDebt    *float64 `json:"totalDebt"`
	TotalCash    *float64 `json:"totalCash"`

	ProfitMargins    *float64 `json:"profitMargins"`
	OperatingMargins *float64 `json:"operatingMargins"`
	ReturnOnEquity   *float64 `json:"returnOnEquity"`
	ReturnOnAssets   *float64 `json:"returnOnAssets"`

	RevenueGrowth  *float64 `json:"revenueGrowth"`
	EarningsGrowth *float64 `json:"earningsGrowth"`

	FiftyTwoWeekChange *float64 `json:"fiftyTwoWeekChange"`
	TargetMeanPrice    *float64 `json:"targetMeanPrice"`
	RecommendationKey  *string  `json:"recommendationKey"`

	Currency    string  `json:"currency"`
	Exchange    *string `json:"exchange"`
	QuoteType   *string `json:"quoteType"`
	MarketState string  `json:"marketState"`
}

// StockReport is the full per-ticker output: company metadata, current
// price block, valuation, 52-week range, and one PsiEMA bundle per
// timeframe. Retrieval failures replace the whole report with a single
// ErrorReport instead.
type StockReport struct {
	Symbol string `json:"symbol"`

	ShortName *string `json:"shortName"`
	LongName  *string `json:"longName"`
	Sector    *string `json:"sector"`
	Industry  *string `json:"industry"`

	CurrentPrice               float64 `json:"currentPrice"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketDayHigh       float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        float64 `json:"regularMarketDayLow"`
	RegularMarketOpen          float64 `json:"regularMarketOpen"`
	RegularMarketVolume        int64   `json:"regularMarketVolume"`

	MarketCap   *float64 `json:"marketCap"`
	TrailingPE  *float64 `json:"trailingPE"`
	ForwardPE   *float64 `json:"forwardPE"`
	PegRatio    *float64 `json:"pegRatio"`
	PriceToBook *float64 `json:"priceToBook"`

	DebtToEquity *float64 `json:"debtToEquity"`
	CurrentRatio *float64 `json:"currentRatio"`
	QuickRatio   *float64 `json:"quickRatio"`
	TotalDebt    *float64 `json:"totalDebt"`
	TotalCash    *float64 `json:"totalCash"`

	ProfitMargins    *float64 `json:"profitMargins"`
	OperatingMargins *float64 `json:"operatingMargins"`
	ReturnOnEquity   *float64 `json:"returnOnEquity"`
	ReturnOnAssets   *float64 `json:"returnOnAssets"`

	RevenueGrowth  *float64 `json:"revenueGrowth"`
	EarningsGrowth *float64 `json:"earningsGrowth"`

	FiftyTwoWeekHigh   float64  `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow    float64  `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekChange *float64 `json:"fiftyTwoWeekChange"`

	TargetMeanPrice   *float64 `json:"targetMeanPrice"`
	RecommendationKey *string  `json:"recommendationKey"`

	PsiEMADaily  PsiEMA `json:"psi_ema_daily"`
	PsiEMAWeekly PsiEMA `json:"psi_ema_weekly"`

	Currency      string  `json:"currency"`
	Exchange      *string `json:"exchange"`
	QuoteType     *string `json:"quoteType"`
	MarketState   string  `json:"marketState"`
	DataTimestamp string  `json:"dataTimestamp"`
}

// ErrorReport is the top-level error object emitted when no valid report
// can be produced for a ticker.
type ErrorReport struct {
	Error string `json:"error"`
}
