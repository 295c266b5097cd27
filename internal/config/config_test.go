package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Chdir(dir)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, filepath.Join(dir, "dayboard.db"), cfg.SQLitePath)
	assert.Equal(t, ChangefeedMemory, cfg.Changefeed)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 30*time.Second, cfg.Session.Refresh)
	assert.Equal(t, "sqlite3://"+filepath.Join(dir, "dayboard.db"), cfg.MigrationURL())
	assert.NotEmpty(t, cfg.SessionSecret())
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("LOG_LEVEL", "debug")
	t.Chdir(dir)
	yaml := "backend: postgres\ndatabase_uri: postgres://db/dayboard\nlog_level: warn\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(yaml), 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, "postgres://db/dayboard", cfg.MigrationURL())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	// Restored on cleanup; unset so the .env value applies.
	t.Setenv("HTTP_ADDRESS", "")
	require.NoError(t, os.Unsetenv("HTTP_ADDRESS"))
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTTP_ADDRESS=127.0.0.1:9999\n"), 0o600))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTP.Address)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"BACKEND": "mysql"}},
		{name: "postgres without uri", env: map[string]string{"BACKEND": "postgres"}},
		{name: "unknown feed", env: map[string]string{"CHANGEFEED": "kafka"}},
		{name: "unknown env", env: map[string]string{"APP_ENV": "staging"}},
		{name: "prod without secret", env: map[string]string{"APP_ENV": "prod"}},
		{name: "zero ttl", env: map[string]string{"SESSION_TTL_HOURS": "0"}},
		{name: "zero refresh", env: map[string]string{"SESSION_REFRESH_SECONDS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("CONFIG_DIR", dir)
			t.Chdir(dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
