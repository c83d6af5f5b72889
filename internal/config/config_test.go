package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: ":9090"
database:
  driver: memory
`), 0o600))

	cfg := Default()
	require.NoError(t, LoadFromFile(path, &cfg))
	assert.Equal(t, ":9090", cfg.App.Port)
	assert.Equal(t, StorageDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.App.ShutdownTimeout, "unset keys keep defaults")
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("APP_PORT", ":7000")
	t.Setenv("SHUTDOWN_TIMEOUT", "3")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/segments")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, ":7000", cfg.App.Port)
	assert.Equal(t, 3, cfg.App.ShutdownTimeout)
	assert.False(t, cfg.Database.RunMigrations)
	assert.Equal(t, slog.LevelDebug, cfg.App.SlogLevel())
	require.NoError(t, cfg.Validate())
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	cfg := Default()
	require.Error(t, ApplyEnv(&cfg))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "postgres needs a DSN")

	cfg.Database.Driver = "sqlite"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Database.Driver = StorageDriverMemory
	cfg.App.Port = ""
	assert.Error(t, cfg.Validate())
}
