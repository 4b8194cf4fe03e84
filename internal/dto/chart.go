package dto

type ChartPeriod struct {
	Label string `json:"label"`
	// Days is the lookback window; 0 means the whole history.
	Days int `json:"days"`
}

func DefaultChartPeriods() []ChartPeriod {
	return []ChartPeriod{
		{Label: "1M", Days: 30},
		{Label: "3M", Days: 90},
		{Label: "6M", Days: 180},
		{Label: "1Y", Days: 365},
		{Label: "5Y", Days: 1825},
		{Label: "Max", Days: 0},
	}
}

const DefaultChartPeriod = "6M"

type ChartPoint struct {
	Timestamp int64    `json:"timestamp"`
	Value     *float64 `json:"value"`
}

type StockChart struct {
	Ticker  string       `json:"ticker"`
	Title   string       `json:"title"`
	Period  string       `json:"period"`
	Candles []StockOHLCV `json:"candles"`
	MA20    []ChartPoint `json:"ma20,omitempty"`
	MA50    []ChartPoint `json:"ma50,omitempty"`
	Volume  []ChartPoint `json:"volume"`
}
