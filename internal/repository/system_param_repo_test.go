package repository

import (
	"context"
	"testing"
	"time"

	"stocksense/config"
	"stocksense/internal/dto"
	"stocksense/internal/model"
	"stocksense/pkg/cache"
	"stocksense/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSystemParamRepository_GetChartPeriods(t *testing.T) {
	cfg := &config.Config{Cache: config.Cache{SysParamExpDuration: time.Minute}}
	ctx := context.Background()

	t.Run("default when missing", func(t *testing.T) {
		repo := NewSystemParamRepository(cfg, cache.NewCache(time.Minute, time.Minute), newTestDB(t))

		periods, err := repo.GetChartPeriods(ctx)
		require.NoError(t, err)
		assert.Equal(t, dto.DefaultChartPeriods(), periods)
	})

	t.Run("stored value is used and cached", func(t *testing.T) {
		db := newTestDB(t)
		require.NoError(t, db.Create(&model.SystemParameter{
			Name:  common.SYS_PARAM_CHART_PERIODS,
			Value: datatypes.JSON(`[{"label":"1W","days":7},{"label":"Max","days":0}]`),
		}).Error)

		repo := NewSystemParamRepository(cfg, cache.NewCache(time.Minute, time.Minute), db)
		periods, err := repo.GetChartPeriods(ctx)
		require.NoError(t, err)
		assert.Equal(t, []dto.ChartPeriod{{Label: "1W", Days: 7}, {Label: "Max", Days: 0}}, periods)

		require.NoError(t, db.Where("name = ?", common.SYS_PARAM_CHART_PERIODS).Delete(&model.SystemParameter{}).Error)
		cached, err := repo.GetChartPeriods(ctx)
		require.NoError(t, err)
		assert.Equal(t, periods, cached)
	})
}
