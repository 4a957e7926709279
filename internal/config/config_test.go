package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/planforge/rackplan/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "rackplan.db", cfg.DB.DSN)
	require.Equal(t, config.Duration(5*time.Second), cfg.DB.PrimaryTimeout)
	require.Equal(t, config.Duration(15*time.Second), cfg.DB.ProbeInterval)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RACKPLAN_SERVER_PORT", "9090")
	t.Setenv("RACKPLAN_DB_DRIVER", "pgx")
	t.Setenv("RACKPLAN_DB_DSN", "postgres://localhost/rackplan")
	t.Setenv("RACKPLAN_DB_PROBE_INTERVAL", "30s")
	t.Setenv("RACKPLAN_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "pgx", cfg.DB.Driver)
	require.Equal(t, "postgres://localhost/rackplan", cfg.DB.DSN)
	require.Equal(t, config.Duration(30*time.Second), cfg.DB.ProbeInterval)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7070
db:
  driver: pgx
  dsn: postgres://db/rackplan
  probe_interval: 1m
`), 0o644))
	t.Setenv("RACKPLAN_CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "pgx", cfg.DB.Driver)
	require.Equal(t, config.Duration(time.Minute), cfg.DB.ProbeInterval)

	// Environment still wins over the file.
	t.Setenv("RACKPLAN_SERVER_PORT", "7071")
	cfg, err = config.Load()
	require.NoError(t, err)
	require.Equal(t, 7071, cfg.Server.Port)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("RACKPLAN_SERVER_PORT", "not-a-port")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("RACKPLAN_DB_DRIVER", "oracle")
	_, err := config.Load()
	require.Error(t, err)
}
