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

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_TTL", "LOGIN_RATE_LIMIT", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Server.Port)
	assert.Equal(t, DriverPostgres, c.Database.Driver)
	assert.Equal(t, 24*time.Hour, c.JWT.TTL)
	assert.Equal(t, 10, c.RateLimit.LoginLimit)
	assert.True(t, c.Metrics.Enabled)
}

func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
database:
  driver: memory
  conn_max_lifetime: 5m
jwt:
  secret: from-file
  ttl: 2h
rate_limit:
  login_window: 30s
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", c.Server.Port)
	assert.Equal(t, DriverMemory, c.Database.Driver)
	assert.Equal(t, 5*time.Minute, c.Database.ConnMaxLifetime)
	assert.Equal(t, "from-file", c.JWT.Secret)
	assert.Equal(t, 2*time.Hour, c.JWT.TTL)
	assert.Equal(t, 30*time.Second, c.RateLimit.LoginWindow)
	// untouched keys keep their defaults
	assert.Equal(t, "localhost", c.Database.Host)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "7000")
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("METRICS_ENABLED", "false")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, "7000", c.Server.Port)
	assert.Equal(t, DriverMemory, c.Database.Driver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.Server.CORSAllowedOrigins)
	assert.Equal(t, 3, c.RateLimit.LoginLimit)
	assert.False(t, c.Metrics.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "server: [not, a, map"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c := Default()
	c.JWT.Secret = "s3cret"
	require.NoError(t, c.Validate())

	c.JWT.Secret = " "
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET")

	c = Default()
	c.JWT.Secret = "s3cret"
	c.Database.Driver = "mysql"
	assert.ErrorContains(t, c.Validate(), "unknown database driver")

	c = Default()
	c.JWT.Secret = "s3cret"
	c.JWT.TTL = 0
	assert.ErrorContains(t, c.Validate(), "jwt.ttl")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}
