package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// InsecureDevSecret signs tokens when JWT_SECRET is unset outside
	// production. It is public and must never protect real accounts.
	InsecureDevSecret = "change_this_dev_secret"
)

type Config struct {
	Port     string `env:"PORT,      default=4000"`
	Env      string `env:"APP_ENV,   default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// LogPretty switches the logger to human-friendly console output.
	LogPretty bool `env:"LOG_PRETTY, default=false"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_EXPIRES_IN, default=1h"`
	BcryptCost int           `env:"BCRYPT_COST,    default=10"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173"`
	FrontendURL    string   `env:"FRONTEND_URL"`
	StaticDir      string   `env:"STATIC_DIR"`

	SessionReapInterval time.Duration `env:"SESSION_REAP_INTERVAL, default=0s"`

	MySQL MySQLConfig
	Redis RedisConfig
	Login LoginConfig
	Audit AuditConfig

	// InsecureSecret is set by Validate when the development fallback secret is in use.
	InsecureSecret bool
}

type MySQLConfig struct {
	URL             string        `env:"DATABASE_URL, required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE,      default=true"`
}

// RedisConfig is optional; an empty Addr disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

// AuditConfig is optional; an empty URI disables the audit trail.
type AuditConfig struct {
	MongoURI string `env:"AUDIT_MONGO_URI"`
	Database string `env:"AUDIT_MONGO_DB, default=kodbank"`
	Workers  int    `env:"AUDIT_WORKERS,  default=2"`
}

// Load reads configuration from environment variables using go-envconfig and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalises derived fields and rejects unsafe combinations.
func (c *Config) Validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env == "" {
		c.Env = EnvDevelopment
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET is required in production")
		}
		c.JWTSecret = InsecureDevSecret
		c.InsecureSecret = true
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: JWT_EXPIRES_IN must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}

	if c.FrontendURL != "" {
		c.AllowedOrigins = append(c.AllowedOrigins, strings.TrimSpace(c.FrontendURL))
	}
	return nil
}

// IsProduction reports whether the process runs as a production-style deployment behind TLS.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsDevelopment reports whether APP_ENV is exactly development. Staging and
// other environments are treated like production for error detail.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c *Config) HTTPAddress() string {
	return ":" + c.Port
}
