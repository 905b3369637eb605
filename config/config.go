package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Model     ModelConfig     `yaml:"model" mapstructure:"model"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	SMTP      SMTPConfig      `yaml:"smtp" mapstructure:"smtp"`
	Advisor   AdvisorConfig   `yaml:"advisor" mapstructure:"advisor"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int `yaml:"port" mapstructure:"port"`
	ReadTimeoutSecs int `yaml:"read_timeout_secs" mapstructure:"read_timeout_secs"`
	IdleTimeoutSecs int `yaml:"idle_timeout_secs" mapstructure:"idle_timeout_secs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ModelConfig points at the scoring artifact loaded at startup.
type ModelConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ReportConfig controls report presentation.
type ReportConfig struct {
	CurrencySymbol string `yaml:"currency_symbol" mapstructure:"currency_symbol"`
}

// CacheConfig configures the score cache. Driver is memory, redis or none.
type CacheConfig struct {
	Driver    string `yaml:"driver" mapstructure:"driver"`
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
	TTLMins   int    `yaml:"ttl_mins" mapstructure:"ttl_mins"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMins) * time.Minute
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Burst             int `yaml:"burst" mapstructure:"burst"`
}

// SMTPConfig holds the relay used to email reports.
type SMTPConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// AdvisorConfig configures the optional LLM explanation in report emails.
type AdvisorConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	APIURL      string `yaml:"api_url" mapstructure:"api_url"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LOANRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout_secs", 15)
	v.SetDefault("server.idle_timeout_secs", 60)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("model.path", "models/loan_default_v1.json")
	v.SetDefault("report.currency_symbol", "€")
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.prefix", "loanrisk:")
	v.SetDefault("cache.ttl_mins", 60)
	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("advisor.enabled", false)
	v.SetDefault("advisor.api_url", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("advisor.api_key", "")
	v.SetDefault("advisor.model", "gpt-4o-mini")
	v.SetDefault("advisor.timeout_secs", 30)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "memory", "redis", "none":
	default:
		return eris.Errorf("config: unknown cache driver %q", c.Cache.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: invalid server port %d", c.Server.Port)
	}
	if c.RateLimit.RequestsPerMinute < 0 || c.RateLimit.Burst < 0 {
		return eris.New("config: rate limit must not be negative")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
