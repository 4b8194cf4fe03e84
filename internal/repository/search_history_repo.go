package repository

import (
	"context"
	"fmt"

	"stocksense/internal/apperror"
	"stocksense/internal/model"
	"stocksense/pkg/utils"

	"gorm.io/gorm"
)

type SearchHistoryRepository interface {
	Add(ctx context.Context, userID uint, ticker string, opts ...utils.DBOption) error
	GetRecent(ctx context.Context, userID uint, limit int, opts ...utils.DBOption) ([]model.SearchHistory, error)
}

type searchHistoryRepository struct {
	db *gorm.DB
}

func NewSearchHistoryRepository(db *gorm.DB) SearchHistoryRepository {
	return &searchHistoryRepository{
		db: db,
	}
}

func (r *searchHistoryRepository) Add(ctx context.Context, userID uint, ticker string, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	search := model.SearchHistory{
		UserID:    userID,
		Ticker:    ticker,
		Timestamp: utils.TimeNowUTC(),
	}
	if err := tx.Create(&search).Error; err != nil {
		return fmt.Errorf("%w: add search history: %v", apperror.ErrStorage, err)
	}
	return nil
}

// GetRecent returns the newest searches first. limit <= 0 returns everything.
func (r *searchHistoryRepository) GetRecent(ctx context.Context, userID uint, limit int, opts ...utils.DBOption) ([]model.SearchHistory, error) {
	var searches []model.SearchHistory
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("id DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	if err := tx.Find(&searches).Error; err != nil {
		return nil, fmt.Errorf("%w: get recent searches: %v", apperror.ErrStorage, err)
	}
	return searches, nil
}
