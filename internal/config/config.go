package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Alerts    AlertConfig     `mapstructure:"alerts"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
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

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AlertConfig holds the class alert policy. The thresholds are configuration,
// not constants; pkg/configwatcher reloads them at runtime.
type AlertConfig struct {
	InactiveDays     int     `mapstructure:"inactive_days"`
	FailingThreshold float64 `mapstructure:"failing_threshold"`
	QuizWindow       int     `mapstructure:"quiz_window"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("EDU_PLATFORM")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Alerts
	viper.BindEnv("alerts.inactive_days", "ALERTS_INACTIVE_DAYS")
	viper.BindEnv("alerts.failing_threshold", "ALERTS_FAILING_THRESHOLD")
	viper.BindEnv("alerts.quiz_window", "ALERTS_QUIZ_WINDOW")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	cfg.Alerts.applyDefaults()

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}

func (a *AlertConfig) applyDefaults() {
	if a.InactiveDays <= 0 {
		a.InactiveDays = 7
	}
	if a.FailingThreshold <= 0 {
		a.FailingThreshold = 60
	}
	if a.QuizWindow <= 0 {
		a.QuizWindow = 3
	}
}

// ReloadAlerts re-reads the config file and returns the fresh alert policy.
// Only the alert section is expected to change while the server runs.
func ReloadAlerts() (AlertConfig, error) {
	if err := viper.ReadInConfig(); err != nil {
		return AlertConfig{}, err
	}

	var fresh Config
	if err := viper.Unmarshal(&fresh); err != nil {
		return AlertConfig{}, err
	}

	fresh.Alerts.applyDefaults()
	return fresh.Alerts, nil
}
