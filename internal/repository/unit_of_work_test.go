package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"stocksense/internal/model"
	"stocksense/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_Run(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db)
	predictions := NewStockPredictionRepository(db)
	ctx := context.Background()

	err := uow.Run(ctx, func(opts ...utils.DBOption) error {
		_, err := predictions.Create(ctx, "AAPL", time.Now(), 100, opts...)
		require.NoError(t, err)
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	var count int64
	require.NoError(t, db.Model(&model.StockPrediction{}).Count(&count).Error)
	assert.Zero(t, count, "rolled back")

	err = uow.Run(ctx, func(opts ...utils.DBOption) error {
		_, err := predictions.Create(ctx, "AAPL", time.Now(), 100, opts...)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.StockPrediction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
