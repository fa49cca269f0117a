package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// Defaults
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: simulador\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "simulador", cfg.App.Name)
	assert.Equal(t, EngineRules, cfg.Engine.Mode)
	assert.Equal(t, ProtocolDirect, cfg.Engine.Remote.Protocol)
	assert.Equal(t, 500, cfg.Engine.Remote.PollInterval)
	assert.Equal(t, 10, cfg.Engine.Remote.MaxPolls)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "simulacoes", cfg.Database.Redis.KeyPrefix)
	assert.Equal(t, "X-Candidate-ID", cfg.Server.OwnerHeader)
	assert.Equal(t, 1000, cfg.Server.MaxSessions)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 12*60*60*1000, cfg.Session.TTL)
	assert.Empty(t, cfg.Session.Path)
}

func TestLoadFromFile_ReadsSections(t *testing.T) {
	path := writeConfig(t, `
engine:
  mode: remote
  remote:
    protocol: two_step
    poll_interval: 250
    max_polls: 3
backend:
  base_url: http://backend:8000
  timeout: 2000
store:
  driver: redis
  demo_mode: true
database:
  redis:
    address: localhost:6379
simulation:
  min_processing: 1500
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, EngineRemote, cfg.Engine.Mode)
	assert.Equal(t, ProtocolTwoStep, cfg.Engine.Remote.Protocol)
	assert.Equal(t, 3, cfg.Engine.Remote.MaxPolls)
	assert.Equal(t, "http://backend:8000", cfg.Backend.BaseURL)
	assert.Equal(t, StoreRedis, cfg.Store.Driver)
	assert.True(t, cfg.Store.DemoMode)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(cfg.Simulation.MinProcessing))
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("ENGINE_MODE", "remote")
	t.Setenv("BACKEND_BASE_URL", "http://override:9000")
	path := writeConfig(t, "engine:\n  mode: rules\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, EngineRemote, cfg.Engine.Mode)
	assert.Equal(t, "http://override:9000", cfg.Backend.BaseURL)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("PG_PASS", "s3cret")
	path := writeConfig(t, `
store:
  driver: postgres
database:
  postgres:
    host: db
    database: prouni
    user: app
    password: ${PG_PASS}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "dbname=prouni")
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "sslmode=disable")
}

// ==========================
// Validation
// ==========================

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"unknown engine", func(c *Config) { c.Engine.Mode = "ml" }, "engine.mode"},
		{"unknown protocol", func(c *Config) { c.Engine.Remote.Protocol = "grpc" }, "engine.remote.protocol"},
		{"postgres without host", func(c *Config) { c.Store.Driver = StorePostgres }, "database.postgres.host"},
		{"redis without address", func(c *Config) { c.Store.Driver = StoreRedis }, "database.redis.address"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "store.driver"},
		{"negative pacing", func(c *Config) { c.Simulation.MinProcessing = -1 }, "min_processing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
