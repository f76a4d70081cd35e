package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/mediflow/hms-gateway/internal/email"
	"github.com/mediflow/hms-gateway/internal/repository/postgres"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port" envconfig:"SERVER_PORT"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" envconfig:"SERVER_REQUEST_TIMEOUT"`
}

type RemoteAPIConfig struct {
	BaseURL string        `mapstructure:"base_url" envconfig:"REMOTE_API_BASE_URL"`
	Timeout time.Duration `mapstructure:"timeout" envconfig:"REMOTE_API_TIMEOUT"`
}

type SessionConfig struct {
	RedisURL  string        `mapstructure:"redis_url" envconfig:"SESSION_REDIS_URL"`
	Secret    string        `mapstructure:"secret" envconfig:"SESSION_SECRET"`
	CipherKey string        `mapstructure:"cipher_key" envconfig:"SESSION_CIPHER_KEY"`
	TTL       time.Duration `mapstructure:"ttl" envconfig:"SESSION_TTL"`
}

type RateLimitConfig struct {
	RPS   float64       `mapstructure:"rps" envconfig:"RATE_LIMIT_RPS"`
	Burst int           `mapstructure:"burst" envconfig:"RATE_LIMIT_BURST"`
	TTL   time.Duration `mapstructure:"ttl" envconfig:"RATE_LIMIT_TTL"`
}

type AuditConfig struct {
	RetentionDays   int           `mapstructure:"retention_days" envconfig:"AUDIT_RETENTION_DAYS"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" envconfig:"AUDIT_CLEANUP_INTERVAL"`
}

type MonitoringConfig struct {
	MetricsPrefix string `mapstructure:"metrics_prefix" envconfig:"METRICS_PREFIX"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	RemoteAPI  RemoteAPIConfig  `mapstructure:"remote_api"`
	Session    SessionConfig    `mapstructure:"session"`
	Database   postgres.Config  `mapstructure:"database"`
	SMTP       email.Config     `mapstructure:"smtp"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Audit      AuditConfig      `mapstructure:"audit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Security   SecurityConfig   `mapstructure:"security"`
}

// LoadConfig reads config.yaml and overlays environment variables, which win.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.RemoteAPI.BaseURL == "" {
		return fmt.Errorf("remote_api.base_url is required")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("session.secret is required")
	}
	if len(c.Session.CipherKey) != 32 {
		return fmt.Errorf("session.cipher_key must be exactly 32 bytes, got %d", len(c.Session.CipherKey))
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	return nil
}
