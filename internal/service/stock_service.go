package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/internal/repository"
	"stocksense/internal/session"
	"stocksense/pkg/cache"
	"stocksense/pkg/common"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const historyExportBars = 10

type StockService interface {
	Lookup(ctx context.Context, sess *session.Session, ticker string) (*dto.StockDetailResponse, error)
	GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error)
	Chart(ctx context.Context, ticker, period string) (*dto.StockChart, error)
	FinancialCSV(ctx context.Context, ticker string) ([]byte, error)
	HistoryCSV(ctx context.Context, ticker string) ([]byte, error)
}

type stockService struct {
	cfg              *config.Config
	log              *logger.Logger
	inmemoryCache    cache.Cache
	yahooFinanceRepo repository.YahooFinanceRepository
	systemParamRepo  repository.SystemParamRepository
	userDataService  UserDataService
	now              func() time.Time
}

func NewStockService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	yahooFinanceRepo repository.YahooFinanceRepository,
	systemParamRepo repository.SystemParamRepository,
	userDataService UserDataService,
) StockService {
	return &stockService{
		cfg:              cfg,
		log:              log,
		inmemoryCache:    inmemoryCache,
		yahooFinanceRepo: yahooFinanceRepo,
		systemParamRepo:  systemParamRepo,
		userDataService:  userDataService,
		now:              utils.TimeNowUTC,
	}
}

// Lookup fetches the ticker and makes it the session's current stock.
// For a logged-in user the search is recorded unless it is already among the recent ones.
func (s *stockService) Lookup(ctx context.Context, sess *session.Session, ticker string) (*dto.StockDetailResponse, error) {
	ticker = utils.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", apperror.ErrInvalidInput)
	}

	quote, err := s.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	isFavorite := false
	if sess.IsAuthenticated() {
		if err := s.userDataService.RecordSearch(ctx, sess, ticker, true); err != nil && !errors.Is(err, apperror.ErrLoginRequired) {
			s.log.WarnContext(ctx, "Failed to record search", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
		isFavorite, _ = s.userDataService.IsFavorite(ctx, sess, ticker)
	}
	sess.SetStock(ticker, quote, isFavorite)

	return &dto.StockDetailResponse{
		Ticker:      ticker,
		Quote:       quote,
		PriceChange: PriceChange(quote),
		Financials:  FinancialData(quote),
		IsFavorite:  isFavorite,
		LastUpdated: quote.FetchedAt,
	}, nil
}

// GetQuote merges the chart snapshot with the quote summary. The summary is best-effort.
func (s *stockService) GetQuote(ctx context.Context, ticker string) (*dto.StockQuote, error) {
	ticker = utils.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, fmt.Errorf("%w: ticker is required", apperror.ErrInvalidInput)
	}

	key := fmt.Sprintf(common.KEY_STOCK_QUOTE, ticker)
	if quote, found := cache.GetFromCache[*dto.StockQuote](s.inmemoryCache, key); found {
		return quote, nil
	}

	var (
		chart   *dto.StockData
		summary *dto.StockFundamentals
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chart, err = s.yahooFinanceRepo.GetChart(gctx, dto.GetStockDataParam{
			Ticker: ticker,
			Range:  s.cfg.YahooFinance.HistoryRange,
		})
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.yahooFinanceRepo.GetSummary(gctx, ticker)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to get stock summary, fundamentals unavailable",
				logger.ErrorField(err),
				logger.StringField("ticker", ticker),
			)
			summary = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.log.ErrorContext(ctx, "Failed to get stock data", logger.ErrorField(err), logger.StringField("ticker", ticker))
		}
		return nil, err
	}

	quote := mergeQuote(ticker, chart, summary)
	quote.FetchedAt = s.now()
	s.inmemoryCache.Set(key, quote, s.cfg.Cache.StockDataExpiration)
	return quote, nil
}

func positive(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return utils.ToPointer(v)
}

func mergeQuote(ticker string, chart *dto.StockData, summary *dto.StockFundamentals) *dto.StockQuote {
	quote := &dto.StockQuote{
		Symbol:           ticker,
		LongName:         chart.LongName,
		Currency:         chart.Currency,
		Exchange:         chart.Exchange,
		CurrentPrice:     positive(chart.MarketPrice),
		PreviousClose:    positive(chart.PreviousClose),
		DayHigh:          positive(chart.DayHigh),
		DayLow:           positive(chart.DayLow),
		FiftyTwoWeekHigh: positive(chart.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  positive(chart.FiftyTwoWeekLow),
		History:          chart.OHLCV,
	}
	if chart.Volume > 0 {
		quote.Volume = utils.ToPointer(chart.Volume)
	}

	if n := len(chart.OHLCV); n > 0 {
		last := chart.OHLCV[n-1]
		if quote.CurrentPrice == nil {
			quote.CurrentPrice = utils.ToPointer(last.Close)
		}
		if quote.DayHigh == nil {
			quote.DayHigh = utils.ToPointer(last.High)
		}
		if quote.DayLow == nil {
			quote.DayLow = utils.ToPointer(last.Low)
		}
		if quote.Volume == nil {
			quote.Volume = utils.ToPointer(last.Volume)
		}
		quote.Open = utils.ToPointer(last.Open)
	}

	if summary != nil {
		if summary.LongName != "" {
			quote.LongName = summary.LongName
		}
		if quote.Currency == "" {
			quote.Currency = summary.Currency
		}
		if summary.Open != nil {
			quote.Open = summary.Open
		}
		if summary.PreviousClose != nil {
			quote.PreviousClose = summary.PreviousClose
		}
		quote.MarketCap = summary.MarketCap
		quote.AverageVolume = summary.AverageVolume
		quote.PERatio = summary.PERatio
		quote.EPS = summary.EPS
		quote.DividendYield = summary.DividendYield
		quote.Beta = summary.Beta
		quote.TargetMeanPrice = summary.TargetMeanPrice
		quote.Sector = summary.Sector
		quote.Industry = summary.Industry
		quote.Website = summary.Website
	}

	if quote.Currency == "" {
		quote.Currency = "USD"
	}
	return quote
}

// Chart slices the cached history to the requested period and adds moving averages.
// MA20 needs more than 20 bars and MA50 more than 50.
func (s *stockService) Chart(ctx context.Context, ticker, period string) (*dto.StockChart, error) {
	ticker = utils.NormalizeTicker(ticker)
	if period == "" {
		period = dto.DefaultChartPeriod
	}

	periods, err := s.systemParamRepo.GetChartPeriods(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to get chart periods, using defaults", logger.ErrorField(err))
		periods = dto.DefaultChartPeriods()
	}

	var selected *dto.ChartPeriod
	for i := range periods {
		if strings.EqualFold(periods[i].Label, period) {
			selected = &periods[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: unknown chart period %q", apperror.ErrInvalidInput, period)
	}

	quote, err := s.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	bars := quote.History
	if selected.Days > 0 {
		start := s.now().AddDate(0, 0, -selected.Days)
		idx := len(bars)
		for i, bar := range bars {
			if !bar.Time().Before(start) {
				idx = i
				break
			}
		}
		bars = bars[idx:]
	}

	chart := &dto.StockChart{
		Ticker:  ticker,
		Title:   ticker + " Stock Price Chart",
		Period:  selected.Label,
		Candles: bars,
		Volume:  make([]dto.ChartPoint, 0, len(bars)),
	}
	if chart.Candles == nil {
		chart.Candles = []dto.StockOHLCV{}
	}
	if len(bars) > 20 {
		chart.MA20 = movingAverage(bars, 20)
	}
	if len(bars) > 50 {
		chart.MA50 = movingAverage(bars, 50)
	}
	for _, bar := range bars {
		chart.Volume = append(chart.Volume, dto.ChartPoint{
			Timestamp: bar.Timestamp,
			Value:     utils.ToPointer(float64(bar.Volume)),
		})
	}

	return chart, nil
}

// movingAverage is the rolling mean of closes; the first window-1 points have no value.
func movingAverage(bars []dto.StockOHLCV, window int) []dto.ChartPoint {
	points := make([]dto.ChartPoint, len(bars))
	var sum float64
	for i, bar := range bars {
		sum += bar.Close
		if i >= window {
			sum -= bars[i-window].Close
		}
		points[i] = dto.ChartPoint{Timestamp: bar.Timestamp}
		if i >= window-1 {
			points[i].Value = utils.ToPointer(sum / float64(window))
		}
	}
	return points
}

func (s *stockService) FinancialCSV(ctx context.Context, ticker string) ([]byte, error) {
	quote, err := s.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return FinancialCSV(quote)
}

func (s *stockService) HistoryCSV(ctx context.Context, ticker string) ([]byte, error) {
	quote, err := s.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return HistoryCSV(quote, historyExportBars)
}
