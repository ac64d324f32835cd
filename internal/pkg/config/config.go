package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devJWTSecret signs tokens when ENV=development is set explicitly and
// JWT_SECRET is unset. The ENV default never selects it.
const devJWTSecret = "scholarhub-development-secret"

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`

	// AdminEmails lists the emails that receive the admin role at registration.
	AdminEmails []string `env:"ADMIN_EMAILS"`

	AuditWorkers   int      `env:"AUDIT_WORKERS,    default=4"`
	MaxUploadBytes int64    `env:"MAX_UPLOAD_BYTES, default=20971520"`
	CORSOrigins    []string `env:"CORS_ORIGINS,     default=*"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	// URL and Database fall back to the legacy MONGO_URI and MONGO_DB names.
	URL       string `env:"MONGO_URL"`
	LegacyURI string `env:"MONGO_URI"`
	Database  string `env:"DB_NAME"`
	LegacyDB  string `env:"MONGO_DB"`

	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT, default=10s"`
	SocketTimeout  time.Duration `env:"MONGO_SOCKET_TIMEOUT,  default=45s"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL,        default=10"`
	RetryWrites    bool          `env:"MONGO_RETRY_WRITES,    default=true"`
	HealthInterval time.Duration `env:"MONGO_HEALTH_INTERVAL, default=5s"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Password string `env:"REDIS_PASSWORD"`
}

const (
	defaultMongoURL = "mongodb://localhost:27017"
	defaultDatabase = "scholarhub"
)

// IsDevelopment reports whether ENV selects the development profile.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	env, _ := lookuper.Lookup("ENV")
	if err := cfg.resolve(strings.TrimSpace(env) == "development"); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) resolve(explicitDevelopment bool) error {
	c.Mongo.URL = firstNonEmpty(c.Mongo.URL, c.Mongo.LegacyURI, defaultMongoURL)
	c.Mongo.Database = firstNonEmpty(c.Mongo.Database, c.Mongo.LegacyDB, defaultDatabase)

	if c.JWTSecret == "" {
		if !explicitDevelopment {
			return errors.New("JWT_SECRET is required unless ENV=development is set")
		}
		c.JWTSecret = devJWTSecret
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
