// Package config provides application configuration management using Viper.
// Configuration is loaded from an optional .env file, YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends.
const (
	CacheBackendPostgres = "postgres"
	CacheBackendRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Provider ProviderConfig `mapstructure:"provider"`
	Resolve  ResolveConfig  `mapstructure:"resolve"`
	Report   ReportConfig   `mapstructure:"report"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name  string `mapstructure:"name"`
	Env   string `mapstructure:"env"` // development, staging, production
	Port  int    `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Name         string        `mapstructure:"name"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// ProviderConfig holds the extraction API endpoints. An endpoint without a
// base URL is treated as not configured.
type ProviderConfig struct {
	Tiklydown  ProviderEndpoint `mapstructure:"tiklydown"`
	Tikwm      ProviderEndpoint `mapstructure:"tikwm"`
	Vishavideo ProviderEndpoint `mapstructure:"vishavideo"`
	IGPost     ProviderEndpoint `mapstructure:"igpost"`
	IGReel     ProviderEndpoint `mapstructure:"igreel"`
	Facebook   ProviderEndpoint `mapstructure:"facebook"`
}

// ProviderEndpoint holds a single provider's configuration.
type ProviderEndpoint struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retry   RetryConfig   `mapstructure:"retry"`
	CB      CBConfig      `mapstructure:"circuit_breaker"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// ResolveConfig holds orchestrator settings.
type ResolveConfig struct {
	Cooldown time.Duration `mapstructure:"cooldown"` // pause after each successful provider call
	Caption  string        `mapstructure:"caption"`  // stored with every cache entry
}

// ReportConfig holds usage report job settings.
type ReportConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	Window    time.Duration `mapstructure:"window"`
	OnStartup bool          `mapstructure:"on_startup"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// RedisConfig holds Redis connection settings for locking and the redis cache backend.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns host:port.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds resolution cache settings.
type CacheConfig struct {
	Backend   string `mapstructure:"backend"` // postgres, redis
	KeyPrefix string `mapstructure:"key_prefix"`
}

// legacyEnv maps config keys to the variable names used by earlier
// deployments of the bot. APP_-prefixed names take precedence.
var legacyEnv = map[string]string{
	"provider.tiklydown.base_url":  "apitiktok",
	"provider.tiklydown.api_key":   "apikeytiklydown",
	"provider.tikwm.base_url":      "apitiktok2",
	"provider.vishavideo.base_url": "apitiktok3",
	"provider.igpost.base_url":     "igpost",
	"provider.igreel.base_url":     "igreels",
}

// Load reads configuration from file and environment variables.
// Priority: env vars > .env file > config file > defaults
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Config file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	// Environment variable settings
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		if err := v.BindEnv(key, envName(key), legacy); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendPostgres, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid cache backend %q", c.Cache.Backend)
	}

	if c.Resolve.Cooldown < 0 {
		return fmt.Errorf("resolve cooldown must not be negative, got %s", c.Resolve.Cooldown)
	}

	return nil
}

// envName returns the APP_-prefixed variable name of a config key.
func envName(key string) string {
	return "APP_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "media-fetch-bot")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "media_fetch")
	v.SetDefault("database.user", "app")
	v.SetDefault("database.password", "secret")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")

	// Provider defaults
	for _, name := range []string{"tiklydown", "tikwm", "vishavideo", "igpost", "igreel", "facebook"} {
		prefix := "provider." + name
		v.SetDefault(prefix+".base_url", "")
		v.SetDefault(prefix+".api_key", "")
		v.SetDefault(prefix+".timeout", "20s")
		v.SetDefault(prefix+".retry.max_attempts", 1)
		v.SetDefault(prefix+".retry.wait_time", "500ms")
		v.SetDefault(prefix+".retry.max_wait_time", "2s")
		v.SetDefault(prefix+".circuit_breaker.max_requests", 3)
		v.SetDefault(prefix+".circuit_breaker.interval", "60s")
		v.SetDefault(prefix+".circuit_breaker.timeout", "30s")
		v.SetDefault(prefix+".circuit_breaker.failure_ratio", 0.6)
	}
	v.SetDefault("provider.facebook.base_url", "https://fb.bdbots.xyz/dl?url=")
	v.SetDefault("provider.facebook.timeout", "30s")

	// Resolve defaults
	v.SetDefault("resolve.cooldown", "2s")
	v.SetDefault("resolve.caption", "Diunduh melalui: @iniuntukdonlotvidiotiktokbot")

	// Report defaults
	v.SetDefault("report.enabled", true)
	v.SetDefault("report.interval", "1h")
	v.SetDefault("report.window", "168h")
	v.SetDefault("report.on_startup", true)

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Cache defaults
	v.SetDefault("cache.backend", CacheBackendPostgres)
	v.SetDefault("cache.key_prefix", "media-fetch")
}
