package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/pkg/httpclient"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"

	"golang.org/x/time/rate"
)

type YahooFinanceRepository interface {
	GetChart(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error)
	GetSummary(ctx context.Context, ticker string) (*dto.StockFundamentals, error)
}

type yahooFinanceRepository struct {
	chartClient    httpclient.HTTPClient
	summaryClient  httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

var yahooHeaders = map[string]string{
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://finance.yahoo.com/",
}

const yahooSummaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile"

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	limit := rate.Inf
	if cfg.YahooFinance.MaxRequestPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute))
	}

	return &yahooFinanceRepository{
		chartClient:    httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout, ""),
		summaryClient:  httpclient.New(cfg.YahooFinance.SummaryBaseURL, cfg.YahooFinance.Timeout, ""),
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(limit, 1),
	}
}

func (r *yahooFinanceRepository) wait(ctx context.Context) error {
	if r.requestLimiter.Tokens() < 1 {
		r.logger.WarnContext(ctx, "Yahoo Finance API request limit reached, waiting",
			logger.IntField("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
		)
	}
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: yahoo finance rate limit: %v", apperror.ErrProvider, err)
	}
	return nil
}

// GetChart fetches bars and the market snapshot from the v8 chart API.
// An unknown symbol yields apperror.ErrNotFound.
func (r *yahooFinanceRepository) GetChart(ctx context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	if param.Range == "" {
		param.Range = r.cfg.YahooFinance.HistoryRange
	}
	if param.Interval == "" {
		param.Interval = "1d"
	}

	endpoint := "/" + url.PathEscape(param.Ticker)
	queryParams := map[string]string{
		"range":          param.Range,
		"interval":       param.Interval,
		"includePrePost": "false",
		"events":         "div,split",
	}

	var yahooResp dto.YahooFinanceResponse
	resp, err := r.chartClient.Get(ctx, endpoint, queryParams, yahooHeaders, &yahooResp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch data from yahoo finance: %v", apperror.ErrProvider, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: no data returned for symbol: %s", apperror.ErrNotFound, param.Ticker)
	}
	if resp.StatusCode != http.StatusOK {
		r.logger.ErrorContext(ctx, "Yahoo Finance API returned Non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", string(resp.Body)))
		return nil, fmt.Errorf("%w: yahoo finance api returned status: %d", apperror.ErrProvider, resp.StatusCode)
	}

	if yahooResp.Chart.Error != nil {
		if yahooResp.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", apperror.ErrNotFound, yahooResp.Chart.Error.Description)
		}
		return nil, fmt.Errorf("%w: yahoo finance api error: %s", apperror.ErrProvider, yahooResp.Chart.Error.Description)
	}

	if len(yahooResp.Chart.Result) == 0 || len(yahooResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no data returned for symbol: %s", apperror.ErrNotFound, param.Ticker)
	}

	result := yahooResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	var ohlcvData []dto.StockOHLCV
	for i, timestamp := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}

		// nulls decode as zero
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}

		ohlcvData = append(ohlcvData, dto.StockOHLCV{
			Timestamp: timestamp,
			Open:      quote.Open[i],
			High:      quote.High[i],
			Low:       quote.Low[i],
			Close:     quote.Close[i],
			Volume:    quote.Volume[i],
		})
	}

	if len(ohlcvData) == 0 {
		return nil, fmt.Errorf("%w: no valid OHLCV data found for symbol: %s", apperror.ErrNotFound, param.Ticker)
	}

	meta := result.Meta
	previousClose := meta.PreviousClose
	if previousClose == 0 {
		previousClose = meta.ChartPreviousClose
	}
	if len(ohlcvData) > 1 {
		// chartPreviousClose is the close before the whole range; the last completed bar is the real one
		previousClose = ohlcvData[len(ohlcvData)-2].Close
	}
	longName := meta.LongName
	if longName == "" {
		longName = meta.ShortName
	}
	symbol := meta.Symbol
	if symbol == "" {
		symbol = param.Ticker
	}

	return &dto.StockData{
		Symbol:           symbol,
		LongName:         longName,
		Currency:         meta.Currency,
		Exchange:         meta.ExchangeName,
		MarketPrice:      meta.RegularMarketPrice,
		PreviousClose:    previousClose,
		DayHigh:          meta.RegularMarketDayHigh,
		DayLow:           meta.RegularMarketDayLow,
		Volume:           meta.RegularMarketVolume,
		FiftyTwoWeekHigh: meta.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  meta.FiftyTwoWeekLow,
		OHLCV:            ohlcvData,
		Range:            param.Range,
		Interval:         param.Interval,
	}, nil
}

// GetSummary fetches fundamentals from the v10 quoteSummary API.
func (r *yahooFinanceRepository) GetSummary(ctx context.Context, ticker string) (*dto.StockFundamentals, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}

	var summaryResp dto.YahooQuoteSummaryResponse
	resp, err := r.summaryClient.Get(ctx, "/"+url.PathEscape(ticker), map[string]string{"modules": yahooSummaryModules}, yahooHeaders, &summaryResp)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch summary from yahoo finance: %v", apperror.ErrProvider, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: no summary for symbol: %s", apperror.ErrNotFound, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo finance summary returned status: %d", apperror.ErrProvider, resp.StatusCode)
	}
	if summaryResp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: yahoo finance summary error: %s", apperror.ErrProvider, summaryResp.QuoteSummary.Error.Description)
	}
	if len(summaryResp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: no summary for symbol: %s", apperror.ErrNotFound, ticker)
	}

	res := summaryResp.QuoteSummary.Result[0]
	fundamentals := &dto.StockFundamentals{
		LongName:        res.Price.LongName,
		Currency:        res.Price.Currency,
		Open:            firstValue(res.SummaryDetail.Open, res.Price.RegularMarketOpen),
		PreviousClose:   res.SummaryDetail.PreviousClose.Raw,
		MarketCap:       firstValue(res.Price.MarketCap, res.SummaryDetail.MarketCap),
		PERatio:         res.SummaryDetail.TrailingPE.Raw,
		EPS:             res.DefaultKeyStatistics.TrailingEps.Raw,
		DividendYield:   res.SummaryDetail.DividendYield.Raw,
		Beta:            firstValue(res.SummaryDetail.Beta, res.DefaultKeyStatistics.Beta),
		TargetMeanPrice: res.FinancialData.TargetMeanPrice.Raw,
		Sector:          res.AssetProfile.Sector,
		Industry:        res.AssetProfile.Industry,
		Website:         res.AssetProfile.Website,
	}
	if avg := res.SummaryDetail.AverageVolume.Raw; avg != nil {
		fundamentals.AverageVolume = utils.ToPointer(int64(*avg))
	}

	return fundamentals, nil
}

func firstValue(values ...dto.YahooValue) *float64 {
	for _, v := range values {
		if v.Raw != nil {
			return v.Raw
		}
	}
	return nil
}
