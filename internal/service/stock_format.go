package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"stocksense/internal/dto"

	"github.com/Rhymond/go-money"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const notAvailable = "N/A"

var (
	billion  = decimal.NewFromInt(1_000_000_000)
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
	hundred  = decimal.NewFromInt(100)
)

// currencySymbol renders USD as its grapheme and everything else as "<CODE> ".
func currencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = money.USD
	}
	if code == money.USD {
		if cur := money.GetCurrency(code); cur != nil {
			return cur.Grapheme
		}
		return "$"
	}
	return code + " "
}

// formatCurrency scales to K, M or B above a thousand and keeps two decimals.
func formatCurrency(value *float64, symbol string) string {
	if value == nil {
		return notAvailable
	}

	v := decimal.NewFromFloat(*value)
	switch {
	case v.GreaterThanOrEqual(billion):
		return symbol + v.Div(billion).StringFixed(2) + "B"
	case v.GreaterThanOrEqual(million):
		return symbol + v.Div(million).StringFixed(2) + "M"
	case v.GreaterThanOrEqual(thousand):
		return symbol + v.Div(thousand).StringFixed(2) + "K"
	default:
		return symbol + v.StringFixed(2)
	}
}

// formatPercentage treats values below 1 as fractions.
func formatPercentage(value *float64) string {
	if value == nil {
		return notAvailable
	}

	v := decimal.NewFromFloat(*value)
	if v.LessThan(decimal.NewFromInt(1)) {
		v = v.Mul(hundred)
	}
	return v.StringFixed(2) + "%"
}

func formatRatio(value *float64) string {
	if value == nil {
		return notAvailable
	}
	return decimal.NewFromFloat(*value).Round(2).String()
}

func formatVolume(value *int64) string {
	if value == nil {
		return notAvailable
	}
	return humanize.Comma(*value)
}

func orNotAvailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return notAvailable
	}
	return value
}

// FinancialData renders the quote as labelled display values in a fixed order.
func FinancialData(quote *dto.StockQuote) []dto.Metric {
	if quote == nil {
		return []dto.Metric{}
	}

	symbol := currencySymbol(quote.Currency)
	return []dto.Metric{
		{Label: "Company", Value: orNotAvailable(quote.LongName)},
		{Label: "Current Price", Value: formatCurrency(quote.CurrentPrice, symbol)},
		{Label: "Previous Close", Value: formatCurrency(quote.PreviousClose, symbol)},
		{Label: "Open", Value: formatCurrency(quote.Open, symbol)},
		{Label: "Day High", Value: formatCurrency(quote.DayHigh, symbol)},
		{Label: "Day Low", Value: formatCurrency(quote.DayLow, symbol)},
		{Label: "Market Cap", Value: formatCurrency(quote.MarketCap, symbol)},
		{Label: "P/E Ratio", Value: formatRatio(quote.PERatio)},
		{Label: "EPS", Value: formatCurrency(quote.EPS, symbol)},
		{Label: "Dividend Yield", Value: formatPercentage(quote.DividendYield)},
		{Label: "Beta", Value: formatRatio(quote.Beta)},
		{Label: "52-Week High", Value: formatCurrency(quote.FiftyTwoWeekHigh, symbol)},
		{Label: "52-Week Low", Value: formatCurrency(quote.FiftyTwoWeekLow, symbol)},
		{Label: "Target Price", Value: formatCurrency(quote.TargetMeanPrice, symbol)},
		{Label: "Volume", Value: formatVolume(quote.Volume)},
		{Label: "Avg. Volume", Value: formatVolume(quote.AverageVolume)},
		{Label: "Sector", Value: orNotAvailable(quote.Sector)},
		{Label: "Industry", Value: orNotAvailable(quote.Industry)},
	}
}

// PriceChange compares the current price with the previous close.
// It returns nil when either is unknown or the previous close is zero.
func PriceChange(quote *dto.StockQuote) *dto.PriceChange {
	if quote == nil || quote.CurrentPrice == nil || quote.PreviousClose == nil || *quote.PreviousClose == 0 {
		return nil
	}

	current := decimal.NewFromFloat(*quote.CurrentPrice)
	previous := decimal.NewFromFloat(*quote.PreviousClose)
	change := current.Sub(previous)
	percent := change.Div(previous).Mul(hundred)

	direction := "flat"
	switch change.Sign() {
	case 1:
		direction = "up"
	case -1:
		direction = "down"
	}

	return &dto.PriceChange{
		Change:        change.Round(4).InexactFloat64(),
		ChangePercent: percent.Round(4).InexactFloat64(),
		Direction:     direction,
	}
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// FinancialCSV exports FinancialData as Metric,Value rows.
func FinancialCSV(quote *dto.StockQuote) ([]byte, error) {
	metrics := FinancialData(quote)
	records := make([][]string, 0, len(metrics)+1)
	records = append(records, []string{"Metric", "Value"})
	for _, m := range metrics {
		records = append(records, []string{m.Label, m.Value})
	}
	return writeCSV(records)
}

// HistoryCSV exports the last n bars with prices rounded to two decimals.
func HistoryCSV(quote *dto.StockQuote, n int) ([]byte, error) {
	records := [][]string{{"Date", "Open", "High", "Low", "Close", "Volume"}}
	if quote != nil {
		bars := quote.History
		if n > 0 && len(bars) > n {
			bars = bars[len(bars)-n:]
		}
		for _, bar := range bars {
			records = append(records, []string{
				bar.Time().Format("2006-01-02"),
				decimal.NewFromFloat(bar.Open).StringFixed(2),
				decimal.NewFromFloat(bar.High).StringFixed(2),
				decimal.NewFromFloat(bar.Low).StringFixed(2),
				decimal.NewFromFloat(bar.Close).StringFixed(2),
				strconv.FormatInt(bar.Volume, 10),
			})
		}
	}
	return writeCSV(records)
}
