package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  host: "0.0.0.0"

database:
  url: "postgres://localhost/outreach_test?sslmode=disable"
  max_open_conns: 10

redis:
  addr: "localhost:6379"
  cache_ttl_seconds: 120

engines:
  enabled: true
  poll_interval_seconds: 30
  timeout_seconds: 10
  endpoints:
    - name: "email-engine"
      status_url: "https://hooks.example.com/email/status"
      trigger_url: "https://hooks.example.com/email/trigger"

roi:
  monthly_investment: 2497
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/outreach_test?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)

	assert.Equal(t, 2*time.Minute, cfg.Redis.CacheTTL())

	assert.True(t, cfg.Engines.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Engines.PollInterval())
	require.Len(t, cfg.Engines.Endpoints, 1)
	assert.Equal(t, "email-engine", cfg.Engines.Endpoints[0].Name)

	assert.Equal(t, 2497.0, cfg.ROI.MonthlyInvestment)
}

func TestLoad_DefaultsBackfillZeroValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.20, cfg.ROI.CurrentMeetingRate)
	assert.Equal(t, 0.15, cfg.ROI.CurrentCloseRate)
	assert.Equal(t, 3.5, cfg.ROI.ProjectedReplyRate)
	assert.Equal(t, 0.30, cfg.ROI.ProjectedMeetingRate)
	assert.Equal(t, 0.20, cfg.ROI.ProjectedCloseRate)
	assert.Equal(t, 2497.0, cfg.ROI.MonthlyInvestment)
	assert.Equal(t, 1, cfg.ROI.RampMonths)

	assert.Equal(t, 60*time.Second, cfg.Engines.PollInterval())
	assert.Equal(t, 15*time.Second, cfg.Engines.Timeout())

	// TTL stays zero unless configured: caching is opt-in.
	assert.Equal(t, time.Duration(0), cfg.Redis.CacheTTL())

	assert.Equal(t, "qr_session", cfg.Auth.CookieName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://file-value/db"
`)

	t.Setenv("DATABASE_URL", "postgres://env-value/db")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("AUTH_ALLOWED_DOMAIN", "quantumreach.io")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env-value/db", cfg.Database.URL)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, "quantumreach.io", cfg.Auth.AllowedDomain)
}

func TestGetHost_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_HOST", "10.0.0.5")
	c := ServerConfig{Host: "localhost"}
	assert.Equal(t, "10.0.0.5", c.GetHost())
}
