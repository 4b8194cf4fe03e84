package service

import (
	"stocksense/config"
	"stocksense/internal/repository"
	"stocksense/pkg/cache"
	"stocksense/pkg/logger"
)

type Service struct {
	AuthService               AuthService
	UserDataService           UserDataService
	StockService              StockService
	InsightService            InsightService
	PredictionService         PredictionService
	PredictionBackfillService PredictionBackfillService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	userDataService := NewUserDataService(cfg, log, repo.SearchHistoryRepo, repo.FavoriteStockRepo, repo.UnitOfWork)
	stockService := NewStockService(cfg, log, inmemoryCache, repo.YahooFinanceRepo, repo.SystemParamRepo, userDataService)
	predictionService := NewPredictionService(cfg, log, repo.StockPredictionRepo)

	return &Service{
		AuthService:               NewAuthService(cfg, log, repo.UserRepo),
		UserDataService:           userDataService,
		StockService:              stockService,
		InsightService:            NewInsightService(cfg, log, repo.ChatProviders),
		PredictionService:         predictionService,
		PredictionBackfillService: NewPredictionBackfillService(cfg, log, repo.StockPredictionRepo, predictionService, stockService),
	}
}
