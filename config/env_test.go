package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/logitrack/config"
)

func TestLoadFrom_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "logitrack.db", cfg.DatabaseDSN)
	assert.Equal(t, "memory", cfg.CacheDriver)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, int64(1024), cfg.CacheSizeLimit)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "manager@logitrack.local", cfg.ManagerEmail)
}

func TestLoadFrom_Precedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "app.yaml")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(yamlPath, []byte("db_driver: postgres\napp_port: 9000\ncache_ttl_seconds: 10\n"), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("APP_PORT=9100\nJWT_ISSUER=\"from-dotenv\"\n"), 0o644))
	t.Setenv("JWT_ISSUER", "from-env")

	cfg, err := config.LoadFrom(yamlPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Contains(t, cfg.DatabaseDSN, "dbname=logitrack")
	assert.Equal(t, "9100", cfg.AppPort)
	assert.Equal(t, 10*time.Second, cfg.CacheTTL)
	assert.Equal(t, "from-env", cfg.JWTIssuer)
}

func TestValidate_RequiresSigningSecrets(t *testing.T) {
	cfg := &config.Config{}
	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrMissingJWTKey)
	assert.ErrorIs(t, err, config.ErrMissingJWTIssuer)

	cfg.JWTKey = "too-short"
	cfg.JWTIssuer = "LogiTrack"
	assert.ErrorIs(t, cfg.Validate(), config.ErrShortJWTKey)

	cfg.JWTKey = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_UnknownDriverFallsBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.env"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoadFrom_ZeroDisablesLimits(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	t.Setenv("CACHE_SIZE_LIMIT", "0")
	t.Setenv("CACHE_TTL_SECONDS", "0")
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.env"))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.RateLimitPerMinute)
	assert.Equal(t, int64(0), cfg.CacheSizeLimit)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
}

func TestLoadFrom_NegativeOrGarbageFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-5")
	t.Setenv("CACHE_SIZE_LIMIT", "lots")
	dir := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.env"))
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.RateLimitPerMinute)
	assert.Equal(t, int64(1024), cfg.CacheSizeLimit)
}
