package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("ROTATR_AUTH_JWT_SECRET", "0123456789abcdef")
	t.Setenv("ROTATR_STAFFING_WORKERS", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 3, cfg.Staffing.Workers)
	assert.Equal(t, 30, cfg.Staffing.NextWorkingDayHorizon)
	assert.Equal(t, "0 5 * * *", cfg.Staffing.AlertCron)
	assert.Equal(t, 5*time.Minute, cfg.Staffing.OverviewCacheTTL)
	assert.Equal(t, "Europe/London", cfg.Staffing.Timezone)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
auth:
  jwt_secret: file-secret-0123456789
staffing:
  workers: 2
  alert_job_enabled: false
  timezone: UTC
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Staffing.Workers)
	assert.False(t, cfg.Staffing.AlertJobEnabled)
	assert.Equal(t, time.UTC, cfg.Staffing.Location())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{Port: 8080},
			Auth:     AuthConfig{JWTSecret: "0123456789abcdef"},
			Staffing: StaffingConfig{Workers: 1, NextWorkingDayHorizon: 30},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }, true},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero workers", func(c *Config) { c.Staffing.Workers = 0 }, true},
		{"zero horizon", func(c *Config) { c.Staffing.NextWorkingDayHorizon = 0 }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"bad cron", func(c *Config) { c.Staffing.AlertJobEnabled = true; c.Staffing.AlertCron = "every morning" }, true},
		{"cron ignored when job disabled", func(c *Config) { c.Staffing.AlertCron = "every morning" }, false},
		{"good cron", func(c *Config) { c.Staffing.AlertJobEnabled = true; c.Staffing.AlertCron = "30 4 * * 1-5" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := Config{}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "staffing.workers")
}

func TestStaffingLocation_Fallback(t *testing.T) {
	c := StaffingConfig{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.UTC, c.Location())
}

func TestStaffingAlertRunTimeout(t *testing.T) {
	assert.Equal(t, 4*time.Minute, (&StaffingConfig{}).AlertRunTimeout())
	assert.Equal(t, 90*time.Second, (&StaffingConfig{AlertJobTimeout: 90 * time.Second}).AlertRunTimeout())
}
