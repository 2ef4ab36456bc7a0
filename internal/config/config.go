package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"clientback/pkg/utils"

	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the server.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config is the full runtime configuration. Every field can come from the YAML file
// and most can be overridden from the environment.
type Config struct {
	Server struct {
		Port               string        `yaml:"port"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Database DatabaseConfig `yaml:"database"`

	JWT struct {
		Secret string        `yaml:"secret"`
		Issuer string        `yaml:"issuer"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"jwt"`

	Log struct {
		Level  string        `yaml:"level"`
		Format string        `yaml:"format"`
		File   string        `yaml:"file"`
		MaxAge time.Duration `yaml:"max_age"`
	} `yaml:"log"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		LoginLimit  int           `yaml:"login_limit"`
		LoginWindow time.Duration `yaml:"login_window"`
	} `yaml:"rate_limit"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// DatabaseConfig holds the storage driver choice and the Postgres connection settings.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"`
}

// DSN renders the lib/pq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	c := &Config{}
	c.Server.Port = "8080"
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORSAllowedOrigins = []string{"*"}

	c.Database.Driver = DriverPostgres
	c.Database.Host = "localhost"
	c.Database.Port = "5432"
	c.Database.User = "postgres"
	c.Database.Name = "clientback"
	c.Database.SSLMode = "disable"
	c.Database.MaxOpenConns = 25
	c.Database.MaxIdleConns = 5
	c.Database.ConnMaxLifetime = 30 * time.Minute

	c.JWT.Issuer = utils.DefaultTokenIssuer
	c.JWT.TTL = 24 * time.Hour

	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.MaxAge = 7 * 24 * time.Hour

	c.RateLimit.LoginLimit = 10
	c.RateLimit.LoginWindow = time.Minute

	c.Metrics.Enabled = true
	return c
}

// Load builds the configuration: defaults, then the YAML file at path (skipped when
// path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	c.applyEnvOverrides()
	return c, nil
}

func (c *Config) applyEnvOverrides() {
	c.Server.Port = utils.Getenv("PORT", c.Server.Port)
	c.Server.ShutdownTimeout = utils.GetenvDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.CORSAllowedOrigins = utils.GetenvCSV("CORS_ALLOWED_ORIGINS", c.Server.CORSAllowedOrigins)

	c.Database.Driver = strings.ToLower(utils.Getenv("DB_DRIVER", c.Database.Driver))
	c.Database.Host = utils.Getenv("DB_HOST", c.Database.Host)
	c.Database.Port = utils.Getenv("DB_PORT", c.Database.Port)
	c.Database.User = utils.Getenv("DB_USER", c.Database.User)
	c.Database.Password = utils.Getenv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = utils.Getenv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = utils.Getenv("DB_SSLMODE", c.Database.SSLMode)
	c.Database.MigrateOnStart = utils.GetenvBool("MIGRATE_ON_START", c.Database.MigrateOnStart)

	c.JWT.Secret = utils.Getenv("JWT_SECRET", c.JWT.Secret)
	c.JWT.Issuer = utils.Getenv("JWT_ISSUER", c.JWT.Issuer)
	c.JWT.TTL = utils.GetenvDuration("JWT_TTL", c.JWT.TTL)

	c.Log.Level = utils.Getenv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.Getenv("LOG_FORMAT", c.Log.Format)
	c.Log.File = utils.Getenv("LOG_FILE", c.Log.File)

	c.Redis.Addr = utils.Getenv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = utils.Getenv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = utils.GetenvInt("REDIS_DB", c.Redis.DB)

	c.RateLimit.LoginLimit = utils.GetenvInt("LOGIN_RATE_LIMIT", c.RateLimit.LoginLimit)
	c.RateLimit.LoginWindow = utils.GetenvDuration("LOGIN_RATE_WINDOW", c.RateLimit.LoginWindow)

	c.Metrics.Enabled = utils.GetenvBool("METRICS_ENABLED", c.Metrics.Enabled)
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.Secret) == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) must be set"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, fmt.Errorf("jwt.ttl must be positive, got %s", c.JWT.TTL))
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q (want %q or %q)", c.Database.Driver, DriverPostgres, DriverMemory))
	}
	if c.RateLimit.LoginLimit < 0 {
		errs = append(errs, fmt.Errorf("rate_limit.login_limit must not be negative, got %d", c.RateLimit.LoginLimit))
	}
	if c.RateLimit.LoginLimit > 0 && c.RateLimit.LoginWindow <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.login_window must be positive, got %s", c.RateLimit.LoginWindow))
	}
	return errors.Join(errs...)
}
