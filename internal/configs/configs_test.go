package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"CONFIG_FILE", "APP_HOST", "APP_PORT", "PUBLIC_URL", "CLIENT_URL", "STORE_DRIVER",
	"DATABASE_DSN", "MONGO_URI", "MONGO_DATABASE", "JWT_SECRET", "TOKEN_TTL_HOURS",
	"ADMIN_INVITE_TOKEN", "BCRYPT_COST", "RATE_LIMIT_PER_MINUTE", "REDIS_ADDR",
	"REDIS_KEY_PREFIX", "UPLOAD_DIR", "UPLOAD_MAX_BYTES", "SHUTDOWN_TIMEOUT_SECONDS",
	"LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.AppURL)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.PublicURL)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "taskmind.db", cfg.DatabaseDSN)
	assert.Equal(t, 168, cfg.TokenTTLHours)
	assert.Equal(t, "", cfg.RedisAddr)
	assert.Equal(t, int64(5<<20), cfg.UploadMaxBytes)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestLoad_RejectsInvalidInteger(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_PER_MINUTE")
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "taskmind.yaml")
	content := "jwt_secret: file-secret-0123456789\napp_port: 9090\nstore_driver: mongo\nmongo_database: fromfile\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MONGO_DATABASE", "fromenv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-secret-0123456789", cfg.JWTSecret)
	assert.Equal(t, "127.0.0.1:9090", cfg.AppURL)
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.Equal(t, "fromenv", cfg.MongoDatabase)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "read config file")
}
