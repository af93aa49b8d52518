package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/socialhub.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, bcrypt.DefaultCost, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLTTL)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SOCIALHUB_AUTH_JWTSECRET", "s3cret")
	t.Setenv("SOCIALHUB_AUTH_TOKENTTL", "24h")
	t.Setenv("SOCIALHUB_AUTH_COOKIESECURE", "true")
	t.Setenv("SOCIALHUB_DATABASE_DRIVER", "postgres")
	t.Setenv("SOCIALHUB_DATABASE_DSN", "postgres://localhost/socialhub")
	t.Setenv("SOCIALHUB_SERVER_ALLOWORIGINS", "http://localhost:3000,https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Server.AllowOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "# comment\nSOCIALHUB_AUTH_JWTSECRET=\"from-file\"\nSOCIALHUB_LOG_LEVEL=debug\n" +
		"SOCIALHUB_DATABASE_DSN=postgres://u:p@localhost/db?sslmode=disable\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Setenv("SOCIALHUB_LOG_LEVEL", "warn")
	// make sure the variable is unset even when the host defines it
	t.Setenv("SOCIALHUB_AUTH_JWTSECRET", "")
	require.NoError(t, os.Unsetenv("SOCIALHUB_AUTH_JWTSECRET"))
	t.Setenv("SOCIALHUB_DATABASE_DSN", "")
	require.NoError(t, os.Unsetenv("SOCIALHUB_DATABASE_DSN"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "postgres://u:p@localhost/db?sslmode=disable", cfg.Database.DSN)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Auth.JWTSecret = "secret"
		c.Auth.TokenTTL = time.Hour
		c.Auth.BcryptCost = bcrypt.MinCost
		c.Database.Driver = DriverSQLite
		c.Database.Path = "data/test.db"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "  " }, wantErr: "jwt secret"},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: "ttl"},
		{name: "sub-second ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 500 * time.Millisecond }, wantErr: "ttl"},
		{name: "one second ttl", mutate: func(c *Config) { c.Auth.TokenTTL = time.Second }},
		{name: "bad cost", mutate: func(c *Config) { c.Auth.BcryptCost = 99 }, wantErr: "bcrypt cost"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: "dsn"},
		{name: "half tls", mutate: func(c *Config) { c.Server.TLSCert = "cert.pem" }, wantErr: "tls"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
