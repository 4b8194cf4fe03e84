package dto

import "time"

type StockOHLCV struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

func (o StockOHLCV) Time() time.Time {
	return time.Unix(o.Timestamp, 0).UTC()
}

type GetStockDataParam struct {
	Ticker   string
	Range    string
	Interval string
}

// StockData is what the chart endpoint returns: market snapshot plus bars.
type StockData struct {
	Symbol           string       `json:"symbol"`
	LongName         string       `json:"long_name"`
	Currency         string       `json:"currency"`
	Exchange         string       `json:"exchange"`
	MarketPrice      float64      `json:"market_price"`
	PreviousClose    float64      `json:"previous_close"`
	DayHigh          float64      `json:"day_high"`
	DayLow           float64      `json:"day_low"`
	Volume           int64        `json:"volume"`
	FiftyTwoWeekHigh float64      `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64      `json:"fifty_two_week_low"`
	Range            string       `json:"range"`
	Interval         string       `json:"interval"`
	OHLCV            []StockOHLCV `json:"ohlc"`
}

// StockFundamentals holds quoteSummary values. nil means the provider had no value.
type StockFundamentals struct {
	LongName        string   `json:"long_name"`
	Currency        string   `json:"currency"`
	Open            *float64 `json:"open"`
	PreviousClose   *float64 `json:"previous_close"`
	MarketCap       *float64 `json:"market_cap"`
	AverageVolume   *int64   `json:"average_volume"`
	PERatio         *float64 `json:"pe_ratio"`
	EPS             *float64 `json:"eps"`
	DividendYield   *float64 `json:"dividend_yield"`
	Beta            *float64 `json:"beta"`
	TargetMeanPrice *float64 `json:"target_mean_price"`
	Sector          string   `json:"sector"`
	Industry        string   `json:"industry"`
	Website         string   `json:"website"`
}

// StockQuote is the merged view of one ticker kept in the session.
type StockQuote struct {
	Symbol           string       `json:"symbol"`
	LongName         string       `json:"long_name"`
	Currency         string       `json:"currency"`
	Exchange         string       `json:"exchange"`
	CurrentPrice     *float64     `json:"current_price"`
	PreviousClose    *float64     `json:"previous_close"`
	Open             *float64     `json:"open"`
	DayHigh          *float64     `json:"day_high"`
	DayLow           *float64     `json:"day_low"`
	MarketCap        *float64     `json:"market_cap"`
	Volume           *int64       `json:"volume"`
	AverageVolume    *int64       `json:"average_volume"`
	PERatio          *float64     `json:"pe_ratio"`
	EPS              *float64     `json:"eps"`
	DividendYield    *float64     `json:"dividend_yield"`
	Beta             *float64     `json:"beta"`
	FiftyTwoWeekHigh *float64     `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  *float64     `json:"fifty_two_week_low"`
	TargetMeanPrice  *float64     `json:"target_mean_price"`
	Sector           string       `json:"sector"`
	Industry         string       `json:"industry"`
	Website          string       `json:"website"`
	History          []StockOHLCV `json:"-"`
	FetchedAt        time.Time    `json:"fetched_at"`
}

type PriceChange struct {
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Direction     string  `json:"direction"`
}

type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type StockDetailResponse struct {
	Ticker      string       `json:"ticker"`
	Quote       *StockQuote  `json:"quote"`
	PriceChange *PriceChange `json:"price_change,omitempty"`
	Financials  []Metric     `json:"financials"`
	IsFavorite  bool         `json:"is_favorite"`
	LastUpdated time.Time    `json:"last_updated"`
}

// Yahoo Finance chart API response
type YahooFinanceResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				Currency             string  `json:"currency"`
				ExchangeName         string  `json:"exchangeName"`
				LongName             string  `json:"longName"`
				ShortName            string  `json:"shortName"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				PreviousClose        float64 `json:"previousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				RegularMarketVolume  int64   `json:"regularMarketVolume"`
				FiftyTwoWeekHigh     float64 `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow      float64 `json:"fiftyTwoWeekLow"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"chart"`
}

type YahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// YahooValue is the {"raw": ..., "fmt": ...} pair quoteSummary uses for numbers.
type YahooValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName           string     `json:"longName"`
				Currency           string     `json:"currency"`
				RegularMarketOpen  YahooValue `json:"regularMarketOpen"`
				RegularMarketPrice YahooValue `json:"regularMarketPrice"`
				MarketCap          YahooValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail struct {
				Open          YahooValue `json:"open"`
				PreviousClose YahooValue `json:"previousClose"`
				TrailingPE    YahooValue `json:"trailingPE"`
				DividendYield YahooValue `json:"dividendYield"`
				Beta          YahooValue `json:"beta"`
				AverageVolume YahooValue `json:"averageVolume"`
				MarketCap     YahooValue `json:"marketCap"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				TrailingEps YahooValue `json:"trailingEps"`
				Beta        YahooValue `json:"beta"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				TargetMeanPrice YahooValue `json:"targetMeanPrice"`
				CurrentPrice    YahooValue `json:"currentPrice"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
				Website  string `json:"website"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *YahooError `json:"error"`
	} `json:"quoteSummary"`
}
