package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the dashboard backend.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Engines  EnginesConfig  `yaml:"engines"`
	ROI      ROIConfig      `yaml:"roi"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host. Containers listen on all interfaces.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the relational store connection settings.
type DatabaseConfig struct {
	URL             string `yaml:"url"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	ConnMaxLifeMins int    `yaml:"conn_max_life_mins"`
}

// ConnMaxLifetime returns the connection max lifetime as a duration.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifeMins) * time.Minute
}

// RedisConfig holds Redis settings for the optional dashboard cache.
// A zero CacheTTLSeconds disables caching entirely: every request recomputes
// its aggregates from fresh rows.
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// CacheTTL returns the cache TTL as a duration. Zero means caching is off.
func (c RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// AuthConfig holds Google OAuth authentication configuration.
type AuthConfig struct {
	Enabled            bool   `yaml:"enabled"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	AllowedDomain      string `yaml:"allowed_domain"`
	SessionSecret      string `yaml:"session_secret"`
	CookieName         string `yaml:"cookie_name"`
	CookieMaxAge       int    `yaml:"cookie_max_age"`
}

// EngineEndpoint holds the webhook URLs for one external automation engine.
type EngineEndpoint struct {
	Name       string `yaml:"name"`
	StatusURL  string `yaml:"status_url"`
	TriggerURL string `yaml:"trigger_url"`
}

// EnginesConfig holds settings for the external n8n engine integrations.
type EnginesConfig struct {
	Enabled             bool             `yaml:"enabled"`
	PollIntervalSeconds int              `yaml:"poll_interval_seconds"`
	TimeoutSeconds      int              `yaml:"timeout_seconds"`
	Endpoints           []EngineEndpoint `yaml:"endpoints"`
}

// PollInterval returns the engine status poll interval as a duration.
func (c EnginesConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Timeout returns the per-request webhook timeout as a duration.
func (c EnginesConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ROIConfig is the conversion-funnel assumption table for the ROI calculator.
// The current and projected funnels deliberately use different meeting/close
// rates: the projected side models the product's claimed uplift. Product owns
// these numbers; tune them here, not in code.
type ROIConfig struct {
	CurrentMeetingRate    float64 `yaml:"current_meeting_rate"`   // fraction of replies that book
	CurrentCloseRate      float64 `yaml:"current_close_rate"`     // fraction of meetings that close
	ProjectedReplyRate    float64 `yaml:"projected_reply_rate"`   // percent, product's claimed reply rate
	ProjectedMeetingRate  float64 `yaml:"projected_meeting_rate"` // fraction of replies that book
	ProjectedCloseRate    float64 `yaml:"projected_close_rate"`   // fraction of meetings that close
	MonthlyInvestment     float64 `yaml:"monthly_investment"`     // product subscription, USD/month
	RampMonths            int     `yaml:"ramp_months"`            // added to sales cycle for first deal
}

// Load reads and parses the configuration file, backfilling defaults for
// zero values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifeMins == 0 {
		cfg.Database.ConnMaxLifeMins = 30
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "qr_session"
	}
	if cfg.Auth.CookieMaxAge == 0 {
		cfg.Auth.CookieMaxAge = 86400
	}
	if cfg.Engines.PollIntervalSeconds == 0 {
		cfg.Engines.PollIntervalSeconds = 60
	}
	if cfg.Engines.TimeoutSeconds == 0 {
		cfg.Engines.TimeoutSeconds = 15
	}

	// ROI funnel defaults mirror the marketing site's calculator assumptions.
	if cfg.ROI.CurrentMeetingRate == 0 {
		cfg.ROI.CurrentMeetingRate = 0.20
	}
	if cfg.ROI.CurrentCloseRate == 0 {
		cfg.ROI.CurrentCloseRate = 0.15
	}
	if cfg.ROI.ProjectedReplyRate == 0 {
		cfg.ROI.ProjectedReplyRate = 3.5
	}
	if cfg.ROI.ProjectedMeetingRate == 0 {
		cfg.ROI.ProjectedMeetingRate = 0.30
	}
	if cfg.ROI.ProjectedCloseRate == 0 {
		cfg.ROI.ProjectedCloseRate = 0.20
	}
	if cfg.ROI.MonthlyInvestment == 0 {
		cfg.ROI.MonthlyInvestment = 2497
	}
	if cfg.ROI.RampMonths == 0 {
		cfg.ROI.RampMonths = 1
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It loads a .env file (if present) before reading env vars, so secrets can
// live in .env locally and in real env vars in deployment.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Auth.SessionSecret = v
	}
	if v := os.Getenv("AUTH_ALLOWED_DOMAIN"); v != "" {
		cfg.Auth.AllowedDomain = v
	}

	return cfg, nil
}
