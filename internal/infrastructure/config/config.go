package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Log           LogConfig           `mapstructure:"log"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Aggregation   AggregationConfig   `mapstructure:"aggregation"`
	Collaborators CollaboratorsConfig `mapstructure:"collaborators"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	MaxBodyBytes  int64               `mapstructure:"max_body_bytes"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	Mode  string `mapstructure:"mode"`
}

// 單位目錄來源
const (
	CatalogSourceStatic = "static"
	CatalogSourceFile   = "file"
	CatalogSourceRedis  = "redis"
)

// CatalogConfig 單位目錄設定
type CatalogConfig struct {
	Source          string        `mapstructure:"source"`
	Path            string        `mapstructure:"path"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	RedisKey        string        `mapstructure:"redis_key"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefreshCooldown time.Duration `mapstructure:"refresh_cooldown"`
}

// AggregationConfig 彙總引擎的門檻與預設選項
type AggregationConfig struct {
	MealWindowDays           int               `mapstructure:"meal_window_days"`
	ExpiryWindowDays         int               `mapstructure:"expiry_window_days"`
	ExpiryCriticalDays       int               `mapstructure:"expiry_critical_days"`
	LargeQuantityThreshold   float64           `mapstructure:"large_quantity_threshold"`
	MediumQuantityThreshold  float64           `mapstructure:"medium_quantity_threshold"`
	MediumRequirementCount   int               `mapstructure:"medium_requirement_count"`
	RecipeNoteThreshold      int               `mapstructure:"recipe_note_threshold"`
	SplitMismatchedUnits     bool              `mapstructure:"split_mismatched_units"`
	IncludePantryCheck       bool              `mapstructure:"include_pantry_check"`
	MinimumQuantityThreshold float64           `mapstructure:"minimum_quantity_threshold"`
	CategoryOverrides        map[string]string `mapstructure:"category_overrides"`
}

// CollaboratorsConfig 外部協作服務設定
type CollaboratorsConfig struct {
	RequirementsURL string        `mapstructure:"requirements_url"`
	PantryURL       string        `mapstructure:"pantry_url"`
	PantryDSN       string        `mapstructure:"pantry_dsn"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Retries         int           `mapstructure:"retries"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig 載入設定，APP_CONFIG_FILE 可指定額外的設定檔
func LoadConfig() (*Config, error) {
	// .env 不存在時只用環境變數與預設值
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(os.Getenv("APP_CONFIG_FILE"))
}

// Load 從設定檔（可為空）與 APP_ 前綴環境變數載入設定
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.mode", "LOG_MODE")
	v.BindEnv("catalog.redis_addr", "REDIS_ADDR")
	v.BindEnv("catalog.redis_password", "REDIS_PASSWORD")
	v.BindEnv("collaborators.pantry_dsn", "PANTRY_DSN")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.Catalog.Source = strings.ToLower(strings.TrimSpace(config.Catalog.Source))
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "grocery-aggregator")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "30s")

	// 日誌設定
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.mode", "")

	// 單位目錄
	v.SetDefault("catalog.source", CatalogSourceStatic)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.redis_addr", "localhost:6379")
	v.SetDefault("catalog.redis_password", "")
	v.SetDefault("catalog.redis_db", 0)
	v.SetDefault("catalog.redis_key", "grocery:units")
	v.SetDefault("catalog.refresh_interval", "0s")
	v.SetDefault("catalog.refresh_cooldown", "5s")

	// 彙總引擎
	v.SetDefault("aggregation.meal_window_days", 3)
	v.SetDefault("aggregation.expiry_window_days", 7)
	v.SetDefault("aggregation.expiry_critical_days", 3)
	v.SetDefault("aggregation.large_quantity_threshold", 10.0)
	v.SetDefault("aggregation.medium_quantity_threshold", 2.0)
	v.SetDefault("aggregation.medium_requirement_count", 2)
	v.SetDefault("aggregation.recipe_note_threshold", 3)
	v.SetDefault("aggregation.split_mismatched_units", false)
	v.SetDefault("aggregation.include_pantry_check", true)
	v.SetDefault("aggregation.minimum_quantity_threshold", 0.0)
	v.SetDefault("aggregation.category_overrides", map[string]string{})

	// 外部協作服務
	v.SetDefault("collaborators.requirements_url", "")
	v.SetDefault("collaborators.pantry_url", "")
	v.SetDefault("collaborators.pantry_dsn", "")
	v.SetDefault("collaborators.timeout", "10s")
	v.SetDefault("collaborators.retries", 2)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("max_body_bytes", 2<<20) // 2MB
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Catalog.Source {
	case CatalogSourceStatic:
	case CatalogSourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required for file source")
		}
	case CatalogSourceRedis:
		if config.Catalog.RedisAddr == "" || config.Catalog.RedisKey == "" {
			return fmt.Errorf("catalog redis address and key are required for redis source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
	}
	if config.Catalog.RefreshInterval < 0 || config.Catalog.RefreshCooldown < 0 {
		return fmt.Errorf("invalid catalog refresh interval")
	}

	agg := config.Aggregation
	if agg.MealWindowDays < 0 || agg.ExpiryWindowDays < 0 || agg.ExpiryCriticalDays < 0 {
		return fmt.Errorf("aggregation windows must not be negative")
	}
	if agg.ExpiryCriticalDays > agg.ExpiryWindowDays {
		return fmt.Errorf("expiry critical days must not exceed expiry window days")
	}
	if agg.LargeQuantityThreshold < 0 || agg.MediumQuantityThreshold < 0 || agg.MinimumQuantityThreshold < 0 {
		return fmt.Errorf("aggregation thresholds must not be negative")
	}

	if config.Collaborators.Retries < 0 {
		return fmt.Errorf("invalid collaborator retries")
	}

	if config.RateLimit.Enabled {
		if config.RateLimit.Requests <= 0 {
			return fmt.Errorf("invalid rate limit requests")
		}
		if config.RateLimit.Window <= 0 {
			return fmt.Errorf("invalid rate limit window")
		}
	}

	if config.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes")
	}

	return nil
}
