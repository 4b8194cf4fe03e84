package repository

import (
	"context"
	"fmt"

	"stocksense/internal/apperror"
	"stocksense/internal/model"
	"stocksense/pkg/utils"

	"gorm.io/gorm"
)

type FavoriteStockRepository interface {
	Add(ctx context.Context, userID uint, ticker string, notes *string, opts ...utils.DBOption) (bool, error)
	Remove(ctx context.Context, userID uint, ticker string, opts ...utils.DBOption) (bool, error)
	GetByUser(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.FavoriteStock, error)
	Exists(ctx context.Context, userID uint, ticker string, opts ...utils.DBOption) (bool, error)
}

type favoriteStockRepository struct {
	db *gorm.DB
}

func NewFavoriteStockRepository(db *gorm.DB) FavoriteStockRepository {
	return &favoriteStockRepository{
		db: db,
	}
}

// Add returns false without inserting when (userID, ticker) is already a favorite.
func (r *favoriteStockRepository) Add(ctx context.Context, userID uint, ticker string, notes *string, opts ...utils.DBOption) (bool, error) {
	added := false

	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.FavoriteStock{}).
			Where("user_id = ? AND ticker = ?", userID, ticker).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		favorite := model.FavoriteStock{
			UserID:  userID,
			Ticker:  ticker,
			AddedAt: utils.TimeNowUTC(),
			Notes:   notes,
		}
		if err := tx.Create(&favorite).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: add favorite %s: %v", apperror.ErrStorage, ticker, err)
	}

	return added, nil
}

func (r *favoriteStockRepository) Remove(ctx context.Context, userID uint, ticker string, opts ...utils.DBOption) (bool, error) {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("user_id = ? AND ticker = ?", userID, ticker).Delete(&model.FavoriteStock{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: remove favorite %s: %v", apperror.ErrStorage, ticker, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetByUser returns favorites most recently added first.
func (r *favoriteStockRepository) GetByUser(ctx context.Context, userID uint, opts ...utils.DBOption) ([]model.FavoriteStock, error) {
	var favorites []model.FavoriteStock
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if err := tx.Where("user_id = ?", userID).
		Order("added_at DESC").
		Order("id DESC").
		Find(&favorites).Error; err != nil {
		return nil, fmt.Errorf("%w: get favorites: %v", apperror.ErrStorage, err)
	}
	return favorites, nil
}

func (r *favoriteStockRepository) Exists(ctx context.Context, userID uint, ticker string, opts ...utils.DBOption) (bool, error) {
	var count int64
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if err := tx.Model(&model.FavoriteStock{}).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("%w: check favorite %s: %v", apperror.ErrStorage, ticker, err)
	}
	return count > 0, nil
}
