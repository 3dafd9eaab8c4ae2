package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/blog.db", cfg.Database.Path)
	assert.Equal(t, "blog", cfg.Database.MongoDatabase)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.Equal(t, 30, cfg.Log.MaxAgeDays)
	assert.Equal(t, "admin@example.com", cfg.Seed.Email)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOG_AUTH_JWTSECRET", "s3cret")
	t.Setenv("BLOG_DATABASE_DRIVER", "MONGO")
	t.Setenv("BLOG_DATABASE_MONGOURI", "mongodb://localhost:27017")
	t.Setenv("BLOG_RATELIMIT_RPS", "5")
	t.Setenv("BLOG_SERVER_TRUSTEDPROXIES", "10.0.0.1,10.0.0.0/8")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.MongoURI)
	assert.InDelta(t, 5.0, cfg.RateLimit.RPS, 0.0001)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/8"}, cfg.Server.TrustedProxies)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "# comment\nBLOG_AUTH_JWTSECRET=\"from-file\"\nBLOG_SERVER_ADDR=127.0.0.1:9999\nbroken-line\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("BLOG_SERVER_ADDR", "127.0.0.1:7777")
	// registered for cleanup so values written by the loader do not leak
	t.Setenv("BLOG_AUTH_JWTSECRET", "")
	require.NoError(t, os.Unsetenv("BLOG_AUTH_JWTSECRET"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, "127.0.0.1:7777", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.Database.Driver = DriverSQLite
	cfg.Database.Path = "x.db"
	assert.Error(t, cfg.Validate(), "missing secret")

	cfg.Auth.JWTSecret = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Database.Driver = DriverMongo
	assert.Error(t, cfg.Validate(), "missing mongo uri")

	cfg.Database.Driver = "postgres"
	assert.Error(t, cfg.Validate())
}
