package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"learnpulse_backend/internal/engine"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	AI        AIConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Log       LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool   `mapstructure:"-"` // 强制执行数据库迁移
	MigrateOnly  bool   `mapstructure:"-"` // 仅迁移模式（迁移后退出）
	File         string `mapstructure:"-"` // 实际读取的配置文件
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type AIConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Driver    string `mapstructure:"driver"` // mysql | sqlite
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Host     string
	Port     int
	Password string
	DB       int
}

// EngineConfig 引擎阈值与服务层参数，阈值支持热更新
type EngineConfig struct {
	engine.Thresholds `mapstructure:",squash"`

	MaxHistory       int `mapstructure:"max_history"`
	BatchConcurrency int `mapstructure:"batch_concurrency"`
	CacheTTLMinutes  int `mapstructure:"cache_ttl_minutes"`
}

func (e EngineConfig) CacheTTL() time.Duration {
	return time.Duration(e.CacheTTLMinutes) * time.Minute
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("tracing.service_name", "learnpulse")
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window_minutes", 1)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)

	th := engine.DefaultThresholds()
	v.SetDefault("engine.risk_threshold", th.RiskThreshold)
	v.SetDefault("engine.high_risk_probability", th.HighRiskProbability)
	v.SetDefault("engine.medium_risk_probability", th.MediumRiskProbability)
	v.SetDefault("engine.strength_mastery", th.StrengthMastery)
	v.SetDefault("engine.weakness_mastery", th.WeaknessMastery)
	v.SetDefault("engine.strong_concept_mastery", th.StrongConceptMastery)
	v.SetDefault("engine.target_mastery_min", th.TargetMasteryMin)
	v.SetDefault("engine.target_mastery_max", th.TargetMasteryMax)
	v.SetDefault("engine.max_next_targets", th.MaxNextTargets)
	v.SetDefault("engine.mistake_score", th.MistakeScore)
	v.SetDefault("engine.low_score", th.LowScore)
	v.SetDefault("engine.stagnation_rate", th.StagnationRate)
	v.SetDefault("engine.min_records", th.MinRecords)
	v.SetDefault("engine.struggling_score", th.StrugglingScore)
	v.SetDefault("engine.fatigue_session_seconds", th.FatigueSessionSeconds)
	v.SetDefault("engine.rush_seconds", th.RushSeconds)
	v.SetDefault("engine.max_history", 500)
	v.SetDefault("engine.batch_concurrency", 4)
	v.SetDefault("engine.cache_ttl_minutes", 10)
}

// LoadConfig path 可以是配置目录（读取其中的 config.yaml）或具体的 yaml 文件
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigFile(path)
	default:
		v.AddConfigPath(path)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("LEARNPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.enabled", "REDIS_ENABLED")
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// AI
	v.BindEnv("ai.enabled", "AI_ENABLED")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.api_key", "AI_API_KEY")
	v.BindEnv("ai.model", "AI_MODEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if err := cfg.Engine.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (e EngineConfig) validate() error {
	th := e.Thresholds
	if th.MediumRiskProbability > th.HighRiskProbability {
		return fmt.Errorf("engine: medium_risk_probability (%.2f) must not exceed high_risk_probability (%.2f)",
			th.MediumRiskProbability, th.HighRiskProbability)
	}
	if th.TargetMasteryMin > th.TargetMasteryMax {
		return fmt.Errorf("engine: target_mastery_min (%.2f) must not exceed target_mastery_max (%.2f)",
			th.TargetMasteryMin, th.TargetMasteryMax)
	}
	if e.MaxHistory <= 0 {
		return fmt.Errorf("engine: max_history must be positive, got %d", e.MaxHistory)
	}
	return nil
}
