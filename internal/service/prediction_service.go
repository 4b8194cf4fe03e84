package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/model"
	"stocksense/internal/repository"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"
)

type PredictionService interface {
	Record(ctx context.Context, ticker string, targetDate time.Time, predictedPrice float64) (uint, error)
	UpdateAccuracy(ctx context.Context, id uint, actualPrice float64) bool
	Recent(ctx context.Context, ticker *string, limit int) []model.StockPrediction
}

type predictionService struct {
	cfg            *config.Config
	log            *logger.Logger
	predictionRepo repository.StockPredictionRepository
}

func NewPredictionService(cfg *config.Config, log *logger.Logger, predictionRepo repository.StockPredictionRepository) PredictionService {
	return &predictionService{
		cfg:            cfg,
		log:            log,
		predictionRepo: predictionRepo,
	}
}

func (s *predictionService) Record(ctx context.Context, ticker string, targetDate time.Time, predictedPrice float64) (uint, error) {
	ticker = utils.NormalizeTicker(ticker)
	if ticker == "" {
		return 0, fmt.Errorf("%w: ticker is required", apperror.ErrInvalidInput)
	}
	if math.IsNaN(predictedPrice) || math.IsInf(predictedPrice, 0) {
		return 0, fmt.Errorf("%w: predicted price must be a finite number", apperror.ErrInvalidInput)
	}

	id, err := s.predictionRepo.Create(ctx, ticker, targetDate, predictedPrice)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to create prediction", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return 0, err
	}
	return id, nil
}

// UpdateAccuracy is false for an unknown id and for storage failures.
func (s *predictionService) UpdateAccuracy(ctx context.Context, id uint, actualPrice float64) bool {
	updated, err := s.predictionRepo.UpdateAccuracy(ctx, id, actualPrice)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to update prediction accuracy", logger.ErrorField(err), logger.UintField("prediction_id", id))
		return false
	}
	return updated
}

func (s *predictionService) Recent(ctx context.Context, ticker *string, limit int) []model.StockPrediction {
	if limit <= 0 {
		limit = s.cfg.UserData.RecentPredictionsLimit
	}
	if ticker != nil {
		normalized := utils.NormalizeTicker(*ticker)
		if normalized == "" {
			ticker = nil
		} else {
			ticker = &normalized
		}
	}

	predictions, err := s.predictionRepo.GetRecent(ctx, model.GetPredictionParam{Ticker: ticker, Limit: limit})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to get recent predictions", logger.ErrorField(err))
		return []model.StockPrediction{}
	}
	return predictions
}
