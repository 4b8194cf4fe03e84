package cmd

import (
	"context"

	"stocksense/config"
	"stocksense/internal/repository"
	"stocksense/pkg/cache"
	"stocksense/pkg/database"
	"stocksense/pkg/logger"
	"stocksense/pkg/middleware"
	"stocksense/pkg/telegram"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type AppDependency struct {
	db        *database.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	notifier, err := telegram.NewNotifier(cfg.Telegram, "", log)
	if err != nil {
		log.Warn("Telegram alerts disabled", zap.Error(err))
	} else if notifier != nil {
		log = log.WithAlertSender(notifier, zapcore.ErrorLevel)
	}

	db, err := database.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	// sqlite has no migration files; the schema comes from the models
	if db.Driver() == database.DriverSQLite {
		if err := repository.AutoMigrate(db.DB); err != nil {
			log.Error("Failed to migrate sqlite database", zap.Error(err))
			_ = db.Close()
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.NewRequestLogger(log))
	e.Use(middleware.NewRateLimiterMiddleware(cfg.API.RateLimitPerSecond, cfg.API.RateLimitBurst))

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
