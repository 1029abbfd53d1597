package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const minSecretLength = 32

type Config struct {
	Port        string `env:"PORT,      default=8080"`
	Env         string `env:"ENV,       default=development"`
	LogLevel    string `env:"LOG_LEVEL, default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"` // mongo | memory

	JWT      JWTConfig
	Password PasswordConfig
	Login    LoginConfig
	Audit    AuditConfig

	Mongo MongoConfig
	Redis RedisConfig
}

type JWTConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL,    default=1h"`
	Issuer string        `env:"JWT_ISSUER, default=saam-backend"`
}

type PasswordConfig struct {
	Algorithm      string `env:"PASSWORD_ALGORITHM, default=bcrypt"` // bcrypt | argon2id
	BcryptCost     int    `env:"BCRYPT_COST,        default=10"`
	Argon2MemoryKB uint32 `env:"ARGON2_MEMORY_KIB,  default=65536"`
	Argon2Time     uint32 `env:"ARGON2_ITERATIONS,  default=3"`
	Argon2Threads  uint8  `env:"ARGON2_PARALLELISM, default=1"`
}

type LoginConfig struct {
	// GenericErrors hides whether a failed login hit an unknown email.
	GenericErrors bool          `env:"AUTH_GENERIC_LOGIN_ERRORS, default=false"`
	MaxFailures   int           `env:"LOGIN_MAX_FAILURES,        default=5"`
	FailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW,      default=15m"`
}

type AuditConfig struct {
	Enabled bool `env:"AUDIT_ENABLED, default=true"`
	Workers int  `env:"AUDIT_WORKERS, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=saam"`
}

// RedisConfig is optional: with an empty address login throttling is off.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", minSecretLength)
	}
	if c.JWT.TTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	switch c.StoreDriver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "local"
}
