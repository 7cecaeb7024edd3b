package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	SQLitePath       string `mapstructure:"SQLITE_PATH"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	FetchTimeoutSeconds int    `mapstructure:"FETCH_TIMEOUT_SECONDS"`
	FetchUserAgent      string `mapstructure:"FETCH_USER_AGENT"`
	FetchProxies        string `mapstructure:"FETCH_PROXIES"`

	SessionCookie   string `mapstructure:"SESSION_COOKIE"`
	FlashTTLSeconds int    `mapstructure:"FLASH_TTL_SECONDS"`
}

// Storage backends returned by DatabaseDSN.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var defaults = map[string]any{
	"SERVER_PORT":           "8080",
	"LOG_LEVEL":             "info",
	"DATABASE_URL":          "",
	"POSTGRES_HOST":         "",
	"POSTGRES_PORT":         "5432",
	"POSTGRES_USER":         "postgres",
	"POSTGRES_PASSWORD":     "",
	"POSTGRES_DB":           "page_analyzer",
	"SQLITE_PATH":           "page-analyzer.db",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"FETCH_TIMEOUT_SECONDS": 10,
	"FETCH_USER_AGENT":      "",
	"FETCH_PROXIES":         "",
	"SESSION_COOKIE":        "page_analyzer_session",
	"FLASH_TTL_SECONDS":     3600,
}

// Load reads configuration from an optional .env file and the environment.
// Environment variables win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env file is fine; production is configured purely through the environment.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.FetchTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive, got %d", cfg.FetchTimeoutSeconds)
	}
	return &cfg, nil
}

// DatabaseDSN picks the storage backend: DATABASE_URL first, then the
// POSTGRES_* variables when POSTGRES_HOST is set, then the SQLite file.
func (c *Config) DatabaseDSN() (driver, dsn string) {
	if c.DatabaseURL != "" {
		if strings.HasPrefix(c.DatabaseURL, "sqlite:") {
			return DriverSQLite, strings.TrimPrefix(strings.TrimPrefix(c.DatabaseURL, "sqlite:"), "//")
		}
		return DriverPostgres, c.DatabaseURL
	}
	if c.PostgresHost != "" {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
			Host:     c.PostgresHost + ":" + c.PostgresPort,
			Path:     "/" + c.PostgresDB,
			RawQuery: "sslmode=disable",
		}
		return DriverPostgres, u.String()
	}
	return DriverSQLite, c.SQLitePath
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RequestTimeout bounds one HTTP request. It leaves room above the fetch
// timeout for storage and rendering around a check.
func (c *Config) RequestTimeout() time.Duration {
	return c.FetchTimeout() + 10*time.Second
}

func (c *Config) FlashTTL() time.Duration {
	return time.Duration(c.FlashTTLSeconds) * time.Second
}

// ProxyURLs parses FETCH_PROXIES, a comma-separated list of proxy URLs.
func (c *Config) ProxyURLs() ([]*url.URL, error) {
	var proxies []*url.URL
	for _, raw := range strings.Split(c.FetchProxies, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q in FETCH_PROXIES", raw)
		}
		proxies = append(proxies, u)
	}
	return proxies, nil
}

// UserAgents returns the configured fetch user agent, if any.
func (c *Config) UserAgents() []string {
	if c.FetchUserAgent == "" {
		return nil
	}
	return []string{c.FetchUserAgent}
}
