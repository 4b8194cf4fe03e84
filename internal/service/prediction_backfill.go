package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"stocksense/config"
	"stocksense/internal/dto"
	"stocksense/internal/model"
	"stocksense/internal/repository"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// PredictionBackfillService fills in actual prices once a prediction's target date has passed.
type PredictionBackfillService interface {
	Execute(ctx context.Context) (int, error)
	Start() error
	Stop() context.Context
}

type predictionBackfillService struct {
	cfg               *config.Config
	log               *logger.Logger
	cronParser        cron.Parser
	scheduler         *cron.Cron
	predictionRepo    repository.StockPredictionRepository
	predictionService PredictionService
	stockService      StockService
	now               func() time.Time
}

func NewPredictionBackfillService(
	cfg *config.Config,
	log *logger.Logger,
	predictionRepo repository.StockPredictionRepository,
	predictionService PredictionService,
	stockService StockService,
) *predictionBackfillService {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return &predictionBackfillService{
		cfg:        cfg,
		log:        log,
		cronParser: parser,
		scheduler: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		predictionRepo:    predictionRepo,
		predictionService: predictionService,
		stockService:      stockService,
		now:               utils.TimeNowUTC,
	}
}

// Start registers the job on the configured schedule. It is a no-op when disabled.
func (s *predictionBackfillService) Start() error {
	if !s.cfg.PredictionBackfill.Enabled {
		s.log.Info("Prediction back-fill disabled")
		return nil
	}

	schedule, err := s.cronParser.Parse(s.cfg.PredictionBackfill.CronExpression)
	if err != nil {
		return fmt.Errorf("failed to parse cron expression %q: %w", s.cfg.PredictionBackfill.CronExpression, err)
	}

	s.scheduler.Schedule(schedule, cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PredictionBackfill.Timeout)
		defer cancel()

		if _, err := s.Execute(ctx); err != nil {
			s.log.ErrorContextWithAlert(ctx, "Failed to execute prediction back-fill", logger.ErrorField(err))
		}
	}))
	s.scheduler.Start()

	s.log.Info("Prediction back-fill scheduled",
		logger.StringField("cron_expression", s.cfg.PredictionBackfill.CronExpression),
		logger.StringField("next_run", schedule.Next(s.now()).Format(time.RFC3339)),
	)
	return nil
}

// Stop halts the scheduler; the returned context is done once a running job finishes.
func (s *predictionBackfillService) Stop() context.Context {
	return s.scheduler.Stop()
}

// Execute resolves every pending prediction it can price and returns how many were updated.
func (s *predictionBackfillService) Execute(ctx context.Context) (int, error) {
	pending, err := s.predictionRepo.GetPendingBackfill(ctx, s.now(), s.cfg.PredictionBackfill.BatchSize)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to find pending predictions", logger.ErrorField(err))
		return 0, err
	}
	if len(pending) == 0 {
		s.log.InfoContext(ctx, "No predictions to back-fill")
		return 0, nil
	}

	byTicker := make(map[string][]model.StockPrediction)
	for _, p := range pending {
		byTicker[p.Ticker] = append(byTicker[p.Ticker], p)
	}

	s.log.InfoContext(ctx, "Start back-filling predictions",
		logger.IntField("prediction_count", len(pending)),
		logger.IntField("ticker_count", len(byTicker)),
		logger.IntField("max_concurrency", s.cfg.PredictionBackfill.MaxConcurrency),
	)

	var updated atomic.Int64
	var g errgroup.Group
	if s.cfg.PredictionBackfill.MaxConcurrency > 0 {
		g.SetLimit(s.cfg.PredictionBackfill.MaxConcurrency)
	}

	for ticker, predictions := range byTicker {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		g.Go(func() error {
			updated.Add(int64(s.backfillTicker(ctx, ticker, predictions)))
			return nil
		})
	}
	_ = g.Wait()

	s.log.InfoContext(ctx, "Prediction back-fill completed",
		logger.IntField("prediction_count", len(pending)),
		logger.IntField("updated_count", int(updated.Load())),
	)
	return int(updated.Load()), nil
}

func (s *predictionBackfillService) backfillTicker(ctx context.Context, ticker string, predictions []model.StockPrediction) int {
	quote, err := s.stockService.GetQuote(ctx, ticker)
	if err != nil {
		s.log.ErrorContextWithAlert(ctx, "Failed to get price for prediction back-fill",
			logger.ErrorField(err),
			logger.StringField("ticker", ticker),
		)
		return 0
	}

	count := 0
	for _, p := range predictions {
		price, ok := closeOnOrBefore(quote.History, p.TargetDate)
		if !ok {
			s.log.WarnContext(ctx, "No price on or before target date",
				logger.UintField("prediction_id", p.ID),
				logger.StringField("ticker", ticker),
				logger.StringField("target_date", utils.FormatDate(p.TargetDate)),
			)
			continue
		}
		if s.predictionService.UpdateAccuracy(ctx, p.ID, price) {
			count++
		}
	}
	return count
}

// closeOnOrBefore returns the close of the last bar dated on or before the target day.
func closeOnOrBefore(bars []dto.StockOHLCV, target time.Time) (float64, bool) {
	end := utils.StartOfDay(target).AddDate(0, 0, 1)
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Time().Before(end) {
			return bars[i].Close, true
		}
	}
	return 0, false
}
