package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr    string
		TLSCert string
		TLSKey  string
		Mode    string

		// AllowOrigins lists browser origins allowed to make credentialed requests.
		AllowOrigins []string
	}
	Database struct {
		Driver       string
		Path         string
		DSN          string
		MaxOpenConns int
	}
	Auth struct {
		JWTSecret    string
		TokenTTL     time.Duration
		CookieSecure bool
		BcryptCost   int
	}
	Storage struct {
		Bucket    string
		Region    string
		Endpoint  string
		AccessKey string
		SecretKey string
		URLTTL    time.Duration
	}
	AWS struct {
		Profile string
	}
	Log struct {
		Level  string
		Format string
	}
}

// TLSEnabled reports whether the server terminates TLS itself.
func (c Config) TLSEnabled() bool {
	return c.Server.TLSCert != "" && c.Server.TLSKey != ""
}

// Validate rejects configurations the server must not start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required")
	}
	if c.Auth.TokenTTL < time.Second {
		return fmt.Errorf("auth token ttl must be at least 1s, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("auth bcrypt cost must be within [%d, %d]", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("database dsn is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if (c.Server.TLSCert == "") != (c.Server.TLSKey == "") {
		return errors.New("server tls cert and key must be set together")
	}
	return nil
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("SOCIALHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("server.tlscert", "")
	v.SetDefault("server.tlskey", "")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.alloworigins", []string{})
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/socialhub.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxopenconns", 10)
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", time.Hour)
	v.SetDefault("auth.cookiesecure", false)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.urlttl", 15*time.Minute)
	v.SetDefault("aws.profile", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv exports the entries of ./.env that the environment does not
// already define, so real environment variables always win.
func loadDotEnv() {
	dotenv := viper.New()
	dotenv.SetConfigFile(".env")
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return
	}

	for _, key := range dotenv.AllKeys() {
		name := strings.ToUpper(key)
		if _, exists := os.LookupEnv(name); !exists {
			_ = os.Setenv(name, dotenv.GetString(key))
		}
	}
}
