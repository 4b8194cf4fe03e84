package repository

import (
	"stocksense/config"
	"stocksense/pkg/cache"
	"stocksense/pkg/logger"

	"gorm.io/gorm"
)

type Repository struct {
	UserRepo            UserRepository
	SearchHistoryRepo   SearchHistoryRepository
	FavoriteStockRepo   FavoriteStockRepository
	StockPredictionRepo StockPredictionRepository
	SystemParamRepo     SystemParamRepository
	YahooFinanceRepo    YahooFinanceRepository
	ChatProviders       []ChatProvider
	UnitOfWork          UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, inmemoryCache cache.Cache, log *logger.Logger) (*Repository, error) {
	geminiAIRepo, err := NewGeminiAIRepository(cfg, log)
	if err != nil {
		return nil, err
	}

	return &Repository{
		UserRepo:            NewUserRepository(db),
		SearchHistoryRepo:   NewSearchHistoryRepository(db),
		FavoriteStockRepo:   NewFavoriteStockRepository(db),
		StockPredictionRepo: NewStockPredictionRepository(db),
		SystemParamRepo:     NewSystemParamRepository(cfg, inmemoryCache, db),
		YahooFinanceRepo:    NewYahooFinanceRepository(cfg, log),
		ChatProviders: []ChatProvider{
			NewCodeGPTRepository(cfg, log),
			NewOpenAIRepository(cfg, log),
			geminiAIRepo,
		},
		UnitOfWork: NewUnitOfWork(db),
	}, nil
}
