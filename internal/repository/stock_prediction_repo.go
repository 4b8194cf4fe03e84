package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocksense/internal/apperror"
	"stocksense/internal/model"
	"stocksense/pkg/utils"

	"gorm.io/gorm"
)

type StockPredictionRepository interface {
	Create(ctx context.Context, ticker string, targetDate time.Time, predictedPrice float64, opts ...utils.DBOption) (uint, error)
	UpdateAccuracy(ctx context.Context, id uint, actualPrice float64, opts ...utils.DBOption) (bool, error)
	GetRecent(ctx context.Context, param model.GetPredictionParam, opts ...utils.DBOption) ([]model.StockPrediction, error)
	GetPendingBackfill(ctx context.Context, now time.Time, limit int, opts ...utils.DBOption) ([]model.StockPrediction, error)
}

type stockPredictionRepository struct {
	db *gorm.DB
}

func NewStockPredictionRepository(db *gorm.DB) StockPredictionRepository {
	return &stockPredictionRepository{
		db: db,
	}
}

func (r *stockPredictionRepository) Create(ctx context.Context, ticker string, targetDate time.Time, predictedPrice float64, opts ...utils.DBOption) (uint, error) {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	prediction := model.StockPrediction{
		Ticker:         ticker,
		PredictionDate: utils.TimeNowUTC(),
		TargetDate:     targetDate.UTC(),
		PredictedPrice: predictedPrice,
	}
	if err := tx.Create(&prediction).Error; err != nil {
		return 0, fmt.Errorf("%w: create prediction for %s: %v", apperror.ErrStorage, ticker, err)
	}
	return prediction.ID, nil
}

// UpdateAccuracy stores the actual price and derived accuracy. Missing id returns false.
func (r *stockPredictionRepository) UpdateAccuracy(ctx context.Context, id uint, actualPrice float64, opts ...utils.DBOption) (bool, error) {
	found := false

	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Transaction(func(tx *gorm.DB) error {
		var prediction model.StockPrediction
		if err := tx.Where("id = ?", id).First(&prediction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		prediction.ActualPrice = &actualPrice
		prediction.Accuracy = model.CalculateAccuracy(prediction.PredictedPrice, actualPrice)
		if err := tx.Model(&prediction).
			Select("actual_price", "accuracy").
			Updates(&prediction).Error; err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: update prediction %d: %v", apperror.ErrStorage, id, err)
	}

	return found, nil
}

// GetRecent returns predictions newest prediction_date first, optionally for one ticker.
func (r *stockPredictionRepository) GetRecent(ctx context.Context, param model.GetPredictionParam, opts ...utils.DBOption) ([]model.StockPrediction, error) {
	var predictions []model.StockPrediction
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if param.Ticker != nil {
		tx = tx.Where("ticker = ?", *param.Ticker)
	}
	tx = tx.Order("prediction_date DESC").Order("id DESC")
	if param.Limit > 0 {
		tx = tx.Limit(param.Limit)
	}

	if err := tx.Find(&predictions).Error; err != nil {
		return nil, fmt.Errorf("%w: get recent predictions: %v", apperror.ErrStorage, err)
	}
	return predictions, nil
}

// GetPendingBackfill returns unresolved predictions whose target date has passed, oldest target first.
func (r *stockPredictionRepository) GetPendingBackfill(ctx context.Context, now time.Time, limit int, opts ...utils.DBOption) ([]model.StockPrediction, error) {
	var predictions []model.StockPrediction
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("actual_price IS NULL AND target_date <= ?", now.UTC()).
		Order("target_date ASC").
		Order("id ASC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&predictions).Error; err != nil {
		return nil, fmt.Errorf("%w: get pending predictions: %v", apperror.ErrStorage, err)
	}
	return predictions, nil
}
