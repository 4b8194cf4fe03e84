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
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, username string, opts ...utils.DBOption) (*model.User, error)
	GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error)
	GetByUsername(ctx context.Context, username string, opts ...utils.DBOption) (*model.User, error)
	RecordSessionTime(ctx context.Context, userID uint, startedAt time.Time, opts ...utils.DBOption) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

// GetOrCreate inserts the user if absent, otherwise bumps last_login.
// The insert ignores a username conflict so concurrent first logins resolve to one row.
func (r *userRepository) GetOrCreate(ctx context.Context, username string, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	now := utils.TimeNowUTC()

	err := utils.ApplyOptions(r.db.WithContext(ctx), opts...).Transaction(func(tx *gorm.DB) error {
		candidate := model.User{Username: username, CreatedAt: now, LastLogin: now}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoNothing: true,
		}).Create(&candidate)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			user = candidate
			return nil
		}

		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("last_login", now).Error; err != nil {
			return err
		}
		user.LastLogin = now
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: get or create user %q: %v", apperror.ErrStorage, username, err)
	}

	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get user %d: %v", apperror.ErrStorage, id, err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string, opts ...utils.DBOption) (*model.User, error) {
	var user model.User
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get user %q: %v", apperror.ErrStorage, username, err)
	}

	return &user, nil
}

// RecordSessionTime stamps last_login with the time the session started.
func (r *userRepository) RecordSessionTime(ctx context.Context, userID uint, startedAt time.Time, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	if err := tx.Model(&model.User{}).Where("id = ?", userID).Update("last_login", startedAt.UTC()).Error; err != nil {
		return fmt.Errorf("%w: record session time for user %d: %v", apperror.ErrStorage, userID, err)
	}
	return nil
}
