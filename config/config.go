package config

import (
	"fmt"
	"strings"
	"time"

	"stocksense/internal/apperror"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log                Logger             `mapstructure:"logger"`
	DB                 Database           `mapstructure:"database"`
	API                API                `mapstructure:"api"`
	Cache              Cache              `mapstructure:"cache"`
	UserData           UserData           `mapstructure:"user_data"`
	YahooFinance       YahooFinance       `mapstructure:"yahoo_finance"`
	OpenAI             OpenAI             `mapstructure:"openai"`
	CodeGPT            CodeGPT            `mapstructure:"codegpt"`
	Gemini             Gemini             `mapstructure:"gemini"`
	Chat               Chat               `mapstructure:"chat"`
	PredictionBackfill PredictionBackfill `mapstructure:"prediction_backfill"`
	Telegram           TelegramConfig     `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// Database.URL accepts postgres://, postgresql:// and sqlite:// connection strings.
type Database struct {
	URL             string `mapstructure:"url"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

func (d Database) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

func (d Database) IsSQLite() bool {
	return strings.HasPrefix(d.URL, "sqlite://")
}

type API struct {
	Port               int           `mapstructure:"port"`
	SessionTTL         time.Duration `mapstructure:"session_ttl"`
	SessionCookieName  string        `mapstructure:"session_cookie_name"`
	RateLimitPerSecond float64       `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int           `mapstructure:"rate_limit_burst"`
}

type Cache struct {
	DefaultExpiration   time.Duration `mapstructure:"default_expiration"`
	CleanupInterval     time.Duration `mapstructure:"cleanup_interval"`
	StockDataExpiration time.Duration `mapstructure:"stock_data_expiration"`
	SysParamExpDuration time.Duration `mapstructure:"sys_param_exp_duration"`
}

type UserData struct {
	RecentSearchesLimit    int `mapstructure:"recent_searches_limit"`
	RecentPredictionsLimit int `mapstructure:"recent_predictions_limit"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	SummaryBaseURL      string        `mapstructure:"summary_base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	HistoryRange        string        `mapstructure:"history_range"`
}

type OpenAI struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type CodeGPT struct {
	APIKey              string        `mapstructure:"api_key"`
	APIURL              string        `mapstructure:"api_url"`
	HealthCheckEndpoint string        `mapstructure:"health_check_endpoint"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	BaseURL             string        `mapstructure:"base_url"`
	SDKBaseURL          string        `mapstructure:"sdk_base_url"`
	BaseModel           string        `mapstructure:"base_model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type Chat struct {
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	DefaultProvider     string `mapstructure:"default_provider"`
}

type PredictionBackfill struct {
	Enabled        bool          `mapstructure:"enabled"`
	CronExpression string        `mapstructure:"cron_expression"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	BatchSize      int           `mapstructure:"batch_size"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type TelegramConfig struct {
	BotToken                  string `mapstructure:"bot_token"`
	ChatID                    int64  `mapstructure:"chat_id"`
	MaxGlobalRequestPerSecond int    `mapstructure:"max_global_request_per_second"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "json")

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 15)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.log_level", "Warn")

	v.SetDefault("api.port", 8080)
	v.SetDefault("api.session_ttl", 24*time.Hour)
	v.SetDefault("api.session_cookie_name", "stocksense_session")
	v.SetDefault("api.rate_limit_per_second", 10)
	v.SetDefault("api.rate_limit_burst", 30)

	v.SetDefault("cache.default_expiration", 30*time.Minute)
	v.SetDefault("cache.cleanup_interval", 10*time.Minute)
	v.SetDefault("cache.stock_data_expiration", 5*time.Minute)
	v.SetDefault("cache.sys_param_exp_duration", time.Hour)

	v.SetDefault("user_data.recent_searches_limit", 5)
	v.SetDefault("user_data.recent_predictions_limit", 10)

	v.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	v.SetDefault("yahoo_finance.summary_base_url", "https://query2.finance.yahoo.com/v10/finance/quoteSummary")
	v.SetDefault("yahoo_finance.timeout", 15*time.Second)
	v.SetDefault("yahoo_finance.max_request_per_minute", 60)
	v.SetDefault("yahoo_finance.history_range", "5y")

	// keys without defaults are invisible to AutomaticEnv during Unmarshal
	v.SetDefault("openai.api_key", "")
	v.SetDefault("codegpt.api_key", "")
	v.SetDefault("codegpt.api_url", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.timeout", 60*time.Second)

	v.SetDefault("codegpt.health_check_endpoint", "https://example.com/health")
	v.SetDefault("codegpt.timeout", 60*time.Second)

	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("gemini.sdk_base_url", "")
	v.SetDefault("gemini.base_model", "gemini-2.0-flash")
	v.SetDefault("gemini.timeout", 60*time.Second)
	v.SetDefault("gemini.max_request_per_minute", 15)
	v.SetDefault("gemini.max_token_per_minute", 1000000)

	v.SetDefault("chat.max_request_per_minute", 20)
	v.SetDefault("chat.default_provider", "codegpt")

	v.SetDefault("prediction_backfill.enabled", false)
	v.SetDefault("prediction_backfill.cron_expression", "@hourly")
	v.SetDefault("prediction_backfill.max_concurrency", 4)
	v.SetDefault("prediction_backfill.batch_size", 100)
	v.SetDefault("prediction_backfill.timeout", 5*time.Minute)

	v.SetDefault("telegram.max_global_request_per_second", 30)
}

// Load reads config.yaml (if present), a .env file (if present) and the environment.
// Environment keys use "_" instead of ".", so database.url is DATABASE_URL.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file loaded:", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AddConfigPath(".")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrConfiguration, err)
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot start without.
// Missing AI provider credentials are not an error; those providers run degraded.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DB.URL) == "" {
		return fmt.Errorf("%w: DATABASE_URL environment variable is not set", apperror.ErrConfiguration)
	}
	if !c.DB.IsPostgres() && !c.DB.IsSQLite() {
		return fmt.Errorf("%w: unsupported database url scheme", apperror.ErrConfiguration)
	}
	if c.API.Port <= 0 {
		return fmt.Errorf("%w: invalid api port %d", apperror.ErrConfiguration, c.API.Port)
	}
	return nil
}
