package repository

import (
	"context"
	"testing"
	"time"

	"stocksense/internal/model"
	"stocksense/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockPredictionRepository_UpdateAccuracy(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockPredictionRepository(db)
	ctx := context.Background()

	ok, err := repo.UpdateAccuracy(ctx, 404, 110)
	require.NoError(t, err)
	assert.False(t, ok)

	var count int64
	require.NoError(t, db.Model(&model.StockPrediction{}).Count(&count).Error)
	assert.Zero(t, count)

	id, err := repo.Create(ctx, "AAPL", time.Now().AddDate(0, 0, 7), 100)
	require.NoError(t, err)

	ok, err = repo.UpdateAccuracy(ctx, id, 110)
	require.NoError(t, err)
	assert.True(t, ok)

	var stored model.StockPrediction
	require.NoError(t, db.First(&stored, id).Error)
	require.NotNil(t, stored.ActualPrice)
	require.NotNil(t, stored.Accuracy)
	assert.InDelta(t, 110.0, *stored.ActualPrice, 1e-9)
	assert.InDelta(t, 90.0, *stored.Accuracy, 1e-9)
}

func TestStockPredictionRepository_UpdateAccuracy_NonPositivePrediction(t *testing.T) {
	db := newTestDB(t)
	repo := NewStockPredictionRepository(db)
	ctx := context.Background()

	id, err := repo.Create(ctx, "PENNY", time.Now(), 0)
	require.NoError(t, err)

	ok, err := repo.UpdateAccuracy(ctx, id, 1.5)
	require.NoError(t, err)
	assert.True(t, ok)

	var stored model.StockPrediction
	require.NoError(t, db.First(&stored, id).Error)
	require.NotNil(t, stored.ActualPrice)
	assert.Nil(t, stored.Accuracy)
}

func TestStockPredictionRepository_GetRecent(t *testing.T) {
	repo := NewStockPredictionRepository(newTestDB(t))
	ctx := context.Background()
	target := time.Now().AddDate(0, 1, 0)

	for _, ticker := range []string{"AAPL", "MSFT", "AAPL", "TSLA"} {
		_, err := repo.Create(ctx, ticker, target, 100)
		require.NoError(t, err)
	}

	all, err := repo.GetRecent(ctx, model.GetPredictionParam{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "TSLA", all[0].Ticker)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].PredictionDate.After(all[i-1].PredictionDate))
	}

	aapl, err := repo.GetRecent(ctx, model.GetPredictionParam{Ticker: utils.ToPointer("AAPL"), Limit: 10})
	require.NoError(t, err)
	require.Len(t, aapl, 2)
	assert.Greater(t, aapl[0].ID, aapl[1].ID)

	limited, err := repo.GetRecent(ctx, model.GetPredictionParam{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStockPredictionRepository_GetPendingBackfill(t *testing.T) {
	repo := NewStockPredictionRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	dueID, err := repo.Create(ctx, "AAPL", now.AddDate(0, 0, -2), 100)
	require.NoError(t, err)
	_, err = repo.Create(ctx, "MSFT", now.AddDate(0, 0, 5), 100)
	require.NoError(t, err)
	resolvedID, err := repo.Create(ctx, "TSLA", now.AddDate(0, 0, -1), 100)
	require.NoError(t, err)
	_, err = repo.UpdateAccuracy(ctx, resolvedID, 95)
	require.NoError(t, err)

	pending, err := repo.GetPendingBackfill(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, dueID, pending[0].ID)
}
