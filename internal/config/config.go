package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// storage
	RedisHost        string `toml:"redis_host"`
	RedisPort        string `toml:"redis_port"`
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresUser     string `toml:"postgres_user"`
	PostgresSSLMode  string `toml:"postgres_ssl_mode"`
	ContentPath      string `toml:"content_path"`
	BlogCacheSizeMiB int    `toml:"blog_cache_size_mib"`
	// admin session
	SessionTTL        string `toml:"session_ttl"`
	SessionRevocation bool   `toml:"session_revocation"`
	// abuse protection
	LoginRateLimitAllowedPerMin   int      `toml:"login_rate_limit_per_min"`
	ContactRateLimitAllowedPerMin int      `toml:"contact_rate_limit_per_min"`
	AllowedOrigins                []string `toml:"allowed_origins"`
	// contact form
	CaptchaRequired  bool   `toml:"captcha_required"`
	CaptchaVerifyURL string `toml:"captcha_verify_url"`
	SMTPHost         string `toml:"smtp_host"`
	SMTPPort         int    `toml:"smtp_port"`
	ContactMailFrom  string `toml:"contact_mail_from"`
	ContactMailTo    string `toml:"contact_mail_to"`

	sessionTTL time.Duration
}

// Secrets are never kept in the TOML file, they come from the process environment.
type Secrets struct {
	AdminUsername     string `env:"ADMIN_USERNAME"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string `env:"JWT_SECRET"`
	RedisPassword     string `env:"REDIS_PASS"`
	PostgresPassword  string `env:"POSTGRES_PASSWORD"`
	SMTPUsername      string `env:"SMTP_USERNAME"`
	SMTPPassword      string `env:"SMTP_PASSWORD"`
	CaptchaSecret     string `env:"CAPTCHA_SECRET"`
	SentryDSN         string `env:"SENTRY_DSN"`
	HoneycombEnabled  bool   `env:"HONEYCOMB_ENABLED, default=false"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		env = EnvDevelopment
	case "prod", "production":
		cfg = t.Production
		env = EnvProduction
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	cfg.Environment = env
	return cfg, nil
}

// Load reads the TOML config file and returns the (validated) section for the given env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s config: %w", cfg.Environment, err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}

	if c.SessionTTL == "" {
		c.SessionTTL = "24h"
	}
	ttl, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return fmt.Errorf("session ttl: %w", err)
	}
	if ttl <= 0 {
		return errors.New("session ttl must be positive")
	}
	c.sessionTTL = ttl

	if c.LoginRateLimitAllowedPerMin <= 0 {
		c.LoginRateLimitAllowedPerMin = 10
	}
	if c.ContactRateLimitAllowedPerMin <= 0 {
		c.ContactRateLimitAllowedPerMin = 5
	}
	if c.BlogCacheSizeMiB <= 0 {
		c.BlogCacheSizeMiB = 10
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.PostgresSSLMode == "" {
		c.PostgresSSLMode = "disable"
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}

	return nil
}

func (c *Config) SessionTTLDuration() time.Duration {
	if c.sessionTTL == 0 {
		return 24 * time.Hour
	}
	return c.sessionTTL
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// LoadSecrets reads secrets from the process environment.
func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return LoadSecretsWith(ctx, envconfig.OsLookuper())
}

func LoadSecretsWith(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}

// Missing returns the names of the secrets the admin gate cannot work without.
func (s *Secrets) Missing() []string {
	var missing []string
	if s.AdminUsername == "" {
		missing = append(missing, "ADMIN_USERNAME")
	}
	if s.AdminPassword == "" && s.AdminPasswordHash == "" {
		missing = append(missing, "ADMIN_PASSWORD or ADMIN_PASSWORD_HASH")
	}
	if s.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	return missing
}
