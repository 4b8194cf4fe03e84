package utils

import (
	"context"
	"sync"
	"testing"
	"time"

	"stocksense/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "aapl", want: "AAPL"},
		{in: "  msft ", want: "MSFT"},
		{in: "BRK-B", want: "BRK-B"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTicker(tt.in))
	}
}

func TestGoSafe_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	GoSafe(logger.NewNop(), func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}

func TestShouldContinue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.True(t, ShouldContinue(ctx, logger.NewNop()))
	cancel()
	assert.False(t, ShouldContinue(ctx, logger.NewNop()))
}

func TestDates(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, "2024-03-15", FormatDate(d))

	ts := time.Date(2024, 3, 15, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, d, StartOfDay(ts))

	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}
