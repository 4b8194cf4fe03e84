package service

import (
	"context"
	"math"
	"testing"
	"time"

	"stocksense/internal/apperror"
	"stocksense/internal/repository"
	"stocksense/pkg/cache"
	"stocksense/pkg/logger"
	"stocksense/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionService_RecordAndUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPredictionService(testConfig(), logger.NewNop(), repository.NewStockPredictionRepository(db))
	ctx := context.Background()

	id, err := svc.Record(ctx, " aapl", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 100)
	require.NoError(t, err)
	require.NotZero(t, id)

	assert.True(t, svc.UpdateAccuracy(ctx, id, 110))
	assert.False(t, svc.UpdateAccuracy(ctx, id+100, 110))

	ticker := "AAPL"
	recent := svc.Recent(ctx, &ticker, 0)
	require.Len(t, recent, 1)
	require.NotNil(t, recent[0].Accuracy)
	assert.InDelta(t, 90.0, *recent[0].Accuracy, 1e-9)
	assert.Equal(t, "AAPL", recent[0].Ticker)
}

func TestPredictionService_RecordValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewPredictionService(testConfig(), logger.NewNop(), repository.NewStockPredictionRepository(db))
	ctx := context.Background()

	_, err := svc.Record(ctx, "", utils.TimeNowUTC(), 10)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.Record(ctx, "AAPL", utils.TimeNowUTC(), math.NaN())
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestPredictionService_RecentLimitAndFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewPredictionService(testConfig(), logger.NewNop(), repository.NewStockPredictionRepository(db))
	ctx := context.Background()
	target := utils.TimeNowUTC().AddDate(0, 0, 7)

	for i := 0; i < 12; i++ {
		_, err := svc.Record(ctx, "MSFT", target, float64(300+i))
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, "AAPL", target, 200)
	require.NoError(t, err)

	assert.Len(t, svc.Recent(ctx, nil, 0), 10)
	assert.Len(t, svc.Recent(ctx, nil, 20), 13)

	ticker := "aapl"
	onlyApple := svc.Recent(ctx, &ticker, 0)
	require.Len(t, onlyApple, 1)
	assert.Equal(t, "AAPL", onlyApple[0].Ticker)
}

func TestPredictionBackfillService_Execute(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	log := logger.NewNop()
	predictionRepo := repository.NewStockPredictionRepository(db)
	predictionService := NewPredictionService(cfg, log, predictionRepo)

	yahoo := newFakeYahoo(30)
	stockService := NewStockService(cfg, log, cache.NewCache(time.Minute, time.Minute), yahoo, &fakeSystemParamRepo{}, nil)

	backfill := NewPredictionBackfillService(cfg, log, predictionRepo, predictionService, stockService)
	backfill.now = func() time.Time { return testNow }
	ctx := context.Background()

	// the bar on 2024-06-20 closes at 22 (30 bars ending 2024-06-28 close 1..30)
	resolved, err := predictionRepo.Create(ctx, "AAPL", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), 20)
	require.NoError(t, err)
	future, err := predictionRepo.Create(ctx, "AAPL", testNow.AddDate(0, 0, 10), 20)
	require.NoError(t, err)
	unknown, err := predictionRepo.Create(ctx, "NOPE", time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC), 20)
	require.NoError(t, err)

	updated, err := backfill.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	all := predictionService.Recent(ctx, nil, 10)
	byID := make(map[uint]bool)
	for _, p := range all {
		byID[p.ID] = p.IsResolved()
		if p.ID == resolved {
			require.NotNil(t, p.ActualPrice)
			assert.Equal(t, 22.0, *p.ActualPrice)
			require.NotNil(t, p.Accuracy)
			assert.InDelta(t, 90.0, *p.Accuracy, 1e-9)
		}
	}
	assert.True(t, byID[resolved])
	assert.False(t, byID[future])
	assert.False(t, byID[unknown])

	// resolved predictions are not picked up again
	updated, err = backfill.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}

func TestPredictionBackfillService_StartDisabledAndInvalid(t *testing.T) {
	cfg := testConfig()
	cfg.PredictionBackfill.Enabled = false
	backfill := NewPredictionBackfillService(cfg, logger.NewNop(), nil, nil, nil)
	assert.NoError(t, backfill.Start())

	cfg = testConfig()
	cfg.PredictionBackfill.CronExpression = "not a cron"
	backfill = NewPredictionBackfillService(cfg, logger.NewNop(), nil, nil, nil)
	assert.Error(t, backfill.Start())

	cfg = testConfig()
	backfill = NewPredictionBackfillService(cfg, logger.NewNop(), nil, nil, nil)
	require.NoError(t, backfill.Start())
	<-backfill.Stop().Done()
}
