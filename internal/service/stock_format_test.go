package service

import (
	"strings"
	"testing"
	"time"

	"stocksense/internal/dto"
	"stocksense/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		value  *float64
		symbol string
		want   string
	}{
		{name: "missing", value: nil, symbol: "$", want: "N/A"},
		{name: "plain", value: utils.ToPointer(190.5), symbol: "$", want: "$190.50"},
		{name: "thousands", value: utils.ToPointer(1500.0), symbol: "$", want: "$1.50K"},
		{name: "millions", value: utils.ToPointer(2_500_000.0), symbol: "$", want: "$2.50M"},
		{name: "billions", value: utils.ToPointer(1_234_567_890.0), symbol: "$", want: "$1.23B"},
		{name: "foreign currency", value: utils.ToPointer(12.0), symbol: "EUR ", want: "EUR 12.00"},
		{name: "negative", value: utils.ToPointer(-3.456), symbol: "$", want: "$-3.46"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCurrency(tt.value, tt.symbol))
		})
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", currencySymbol("USD"))
	assert.Equal(t, "$", currencySymbol(""))
	assert.Equal(t, "EUR ", currencySymbol("eur"))
	assert.Equal(t, "IDR ", currencySymbol("IDR"))
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		name  string
		value *float64
		want  string
	}{
		{name: "missing", value: nil, want: "N/A"},
		{name: "fraction", value: utils.ToPointer(0.0052), want: "0.52%"},
		{name: "already percent", value: utils.ToPointer(1.5), want: "1.50%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatPercentage(tt.value))
		})
	}
}

func TestFinancialData(t *testing.T) {
	quote := &dto.StockQuote{
		LongName:      "Apple Inc.",
		Currency:      "USD",
		CurrentPrice:  utils.ToPointer(190.5),
		PreviousClose: utils.ToPointer(188.0),
		MarketCap:     utils.ToPointer(2_900_000_000_000.0),
		PERatio:       utils.ToPointer(29.4123),
		DividendYield: utils.ToPointer(0.0052),
		Volume:        utils.ToPointer(int64(1234567)),
		Sector:        "Technology",
	}

	metrics := FinancialData(quote)
	labels := make([]string, len(metrics))
	values := make(map[string]string, len(metrics))
	for i, m := range metrics {
		labels[i] = m.Label
		values[m.Label] = m.Value
	}

	assert.Equal(t, []string{
		"Company", "Current Price", "Previous Close", "Open", "Day High", "Day Low",
		"Market Cap", "P/E Ratio", "EPS", "Dividend Yield", "Beta", "52-Week High",
		"52-Week Low", "Target Price", "Volume", "Avg. Volume", "Sector", "Industry",
	}, labels)

	assert.Equal(t, "Apple Inc.", values["Company"])
	assert.Equal(t, "$190.50", values["Current Price"])
	assert.Equal(t, "$2900.00B", values["Market Cap"])
	assert.Equal(t, "29.41", values["P/E Ratio"])
	assert.Equal(t, "0.52%", values["Dividend Yield"])
	assert.Equal(t, "1,234,567", values["Volume"])
	assert.Equal(t, "N/A", values["Avg. Volume"])
	assert.Equal(t, "N/A", values["EPS"])
	assert.Equal(t, "Technology", values["Sector"])
	assert.Equal(t, "N/A", values["Industry"])
}

func TestPriceChange(t *testing.T) {
	tests := []struct {
		name      string
		quote     *dto.StockQuote
		want      *dto.PriceChange
		wantNil   bool
		direction string
	}{
		{name: "nil quote", quote: nil, wantNil: true},
		{name: "unknown previous close", quote: &dto.StockQuote{CurrentPrice: utils.ToPointer(10.0)}, wantNil: true},
		{name: "zero previous close", quote: &dto.StockQuote{CurrentPrice: utils.ToPointer(10.0), PreviousClose: utils.ToPointer(0.0)}, wantNil: true},
		{name: "up", quote: &dto.StockQuote{CurrentPrice: utils.ToPointer(110.0), PreviousClose: utils.ToPointer(100.0)}, want: &dto.PriceChange{Change: 10, ChangePercent: 10, Direction: "up"}},
		{name: "down", quote: &dto.StockQuote{CurrentPrice: utils.ToPointer(95.0), PreviousClose: utils.ToPointer(100.0)}, want: &dto.PriceChange{Change: -5, ChangePercent: -5, Direction: "down"}},
		{name: "flat", quote: &dto.StockQuote{CurrentPrice: utils.ToPointer(100.0), PreviousClose: utils.ToPointer(100.0)}, want: &dto.PriceChange{Change: 0, ChangePercent: 0, Direction: "flat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceChange(tt.quote)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, tt.want.Change, got.Change, 1e-9)
			assert.InDelta(t, tt.want.ChangePercent, got.ChangePercent, 1e-9)
			assert.Equal(t, tt.want.Direction, got.Direction)
		})
	}
}

func TestFinancialCSV(t *testing.T) {
	out, err := FinancialCSV(&dto.StockQuote{LongName: "Apple, Inc.", Currency: "USD"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 19)
	assert.Equal(t, "Metric,Value", lines[0])
	assert.Equal(t, `Company,"Apple, Inc."`, lines[1])
}

func TestHistoryCSV_LastTenBars(t *testing.T) {
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	quote := &dto.StockQuote{History: dailyBars(12, end)}

	out, err := HistoryCSV(quote, 10)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "Date,Open,High,Low,Close,Volume", lines[0])
	assert.Equal(t, "2024-03-06,3.00,3.50,2.50,3.00,3000", lines[1])
	assert.Equal(t, "2024-03-15,12.00,12.50,11.50,12.00,12000", lines[10])
}
