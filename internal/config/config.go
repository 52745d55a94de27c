package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	LockModeNone  = "none"
	LockModeLocal = "local"
	LockModeRedis = "redis"
)

type Config struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// dates of summaries are calendar days in this zone
	Timezone string `toml:"timezone"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// per (user, date) write lock: none | local | redis
	SummaryLockMode string `toml:"summary_lock_mode"`

	// extractor / coach
	LLMBaseURL    string `toml:"llm_base_url"`
	LLMModel      string `toml:"llm_model"`
	LLMTimeoutSec int    `toml:"llm_timeout_sec"`

	InsightsCacheSizeMB int `toml:"insights_cache_size_mb"`
	InsightsTTLMinutes  int `toml:"insights_ttl_minutes"`

	LogRateLimitAllowedPerMin int `toml:"log_rate_limit_allowed_per_min"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file and returns the section for env with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config %s has no section for env %s", path, env)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 9000
	}
	if c.Timezone == "" {
		c.Timezone = "Europe/Madrid"
	}
	if c.SummaryLockMode == "" {
		c.SummaryLockMode = LockModeNone
	}
	if c.LLMTimeoutSec == 0 {
		c.LLMTimeoutSec = 30
	}
	if c.InsightsCacheSizeMB == 0 {
		c.InsightsCacheSizeMB = 8
	}
	if c.InsightsTTLMinutes == 0 {
		c.InsightsTTLMinutes = 60
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
}

func (c *Config) Validate() error {
	switch c.SummaryLockMode {
	case LockModeNone, LockModeLocal, LockModeRedis:
	default:
		return fmt.Errorf("invalid summary_lock_mode %q: use none, local or redis", c.SummaryLockMode)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	if c.LogRateLimitAllowedPerMin < 0 {
		return fmt.Errorf("log_rate_limit_allowed_per_min cannot be negative")
	}
	return nil
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSec) * time.Second
}

func (c *Config) InsightsTTL() time.Duration {
	return time.Duration(c.InsightsTTLMinutes) * time.Minute
}
