package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"stocksense/config"
	"stocksense/internal/apperror"
	"stocksense/internal/dto"
	"stocksense/internal/repository"
	"stocksense/internal/session"
	"stocksense/pkg/common"
	"stocksense/pkg/utils"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Cache: config.Cache{
			StockDataExpiration: time.Minute,
			SysParamExpDuration: time.Minute,
		},
		UserData: config.UserData{
			RecentSearchesLimit:    5,
			RecentPredictionsLimit: 10,
		},
		YahooFinance: config.YahooFinance{HistoryRange: "5y"},
		Chat: config.Chat{
			MaxRequestPerMinute: 100,
			DefaultProvider:     common.PROVIDER_CODEGPT,
		},
		PredictionBackfill: config.PredictionBackfill{
			Enabled:        true,
			CronExpression: "@hourly",
			MaxConcurrency: 2,
			BatchSize:      100,
			Timeout:        time.Minute,
		},
	}
}

func loggedIn(userID uint, username string) *session.Session {
	sess := session.New()
	sess.SetUser(userID, username)
	return sess
}

// dailyBars returns n consecutive daily bars ending at end, closing at 1, 2, ... n.
func dailyBars(n int, end time.Time) []dto.StockOHLCV {
	bars := make([]dto.StockOHLCV, n)
	start := utils.StartOfDay(end).AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		c := float64(i + 1)
		bars[i] = dto.StockOHLCV{
			Timestamp: start.AddDate(0, 0, i).Add(14 * time.Hour).Unix(),
			Open:      c,
			High:      c + 0.5,
			Low:       c - 0.5,
			Close:     c,
			Volume:    int64(1000 * (i + 1)),
		}
	}
	return bars
}

type fakeYahooRepo struct {
	mu           sync.Mutex
	chart        map[string]*dto.StockData
	summary      map[string]*dto.StockFundamentals
	chartCalls   int
	summaryCalls int
}

func (f *fakeYahooRepo) GetChart(_ context.Context, param dto.GetStockDataParam) (*dto.StockData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chartCalls++
	data, ok := f.chart[param.Ticker]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return data, nil
}

func (f *fakeYahooRepo) GetSummary(_ context.Context, ticker string) (*dto.StockFundamentals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	data, ok := f.summary[ticker]
	if !ok {
		return nil, apperror.ErrProvider
	}
	return data, nil
}

type fakeSystemParamRepo struct {
	periods []dto.ChartPeriod
}

func (f *fakeSystemParamRepo) Get(_ context.Context, name string, _ interface{}) error {
	return apperror.ErrNotFound
}

func (f *fakeSystemParamRepo) GetChartPeriods(_ context.Context) ([]dto.ChartPeriod, error) {
	if f.periods == nil {
		return dto.DefaultChartPeriods(), nil
	}
	return f.periods, nil
}

type fakeChatProvider struct {
	name, display string
	answer        string
	err           error
	health        string
	prompts       []string
}

func (f *fakeChatProvider) Name() string        { return f.name }
func (f *fakeChatProvider) DisplayName() string { return f.display }

func (f *fakeChatProvider) Ask(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

func (f *fakeChatProvider) HealthCheck(_ context.Context) string { return f.health }
