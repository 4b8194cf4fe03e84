package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/internal/model"
	"stocksense/pkg/cache"
	"stocksense/pkg/common"

	"gorm.io/gorm"
)

type SystemParamRepository interface {
	Get(ctx context.Context, name string, destValue interface{}) error
	GetChartPeriods(ctx context.Context) ([]dto.ChartPeriod, error)
}

type systemParamRepository struct {
	cfg           *config.Config
	inmemoryCache cache.Cache
	db            *gorm.DB
}

func NewSystemParamRepository(cfg *config.Config, inmemoryCache cache.Cache, db *gorm.DB) SystemParamRepository {
	return &systemParamRepository{cfg: cfg, inmemoryCache: inmemoryCache, db: db}
}

func (s *systemParamRepository) Get(ctx context.Context, name string, destValue interface{}) error {
	var param model.SystemParameter

	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&param).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: system parameter %s", apperror.ErrNotFound, name)
		}
		return fmt.Errorf("%w: get system parameter %s: %v", apperror.ErrStorage, name, err)
	}
	if err := json.Unmarshal(param.Value, destValue); err != nil {
		return fmt.Errorf("%w: decode system parameter %s: %v", apperror.ErrConfiguration, name, err)
	}
	return nil
}

// GetChartPeriods falls back to dto.DefaultChartPeriods when the parameter is absent.
func (s *systemParamRepository) GetChartPeriods(ctx context.Context) ([]dto.ChartPeriod, error) {
	key := fmt.Sprintf(common.KEY_SYSTEM_PARAM, common.SYS_PARAM_CHART_PERIODS)
	if val, found := cache.GetFromCache[[]dto.ChartPeriod](s.inmemoryCache, key); found {
		return val, nil
	}

	var destValue []dto.ChartPeriod
	err := s.Get(ctx, common.SYS_PARAM_CHART_PERIODS, &destValue)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		destValue = dto.DefaultChartPeriods()
	case err != nil:
		return nil, err
	case len(destValue) == 0:
		destValue = dto.DefaultChartPeriods()
	}

	s.inmemoryCache.Set(key, destValue, s.cfg.Cache.SysParamExpDuration)
	return destValue, nil
}
