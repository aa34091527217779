package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,       default=5000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000"`
	SentryDSN string `env:"SENTRY_DSN"`

	// StoreBackend selects where users and scores live: mongo or memory.
	StoreBackend string `env:"STORE_BACKEND, default=mongo"`

	Session   SessionConfig
	RateLimit RateLimitConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Google    GoogleConfig
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET, default=snakegame_secret"`
	TTL    time.Duration `env:"SESSION_TTL,    default=168h"`
	Store  string        `env:"SESSION_STORE,  default=redis"`
}

type RateLimitConfig struct {
	Max    int           `env:"RATE_LIMIT_MAX,    default=100"`
	Window time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`
	Store  string        `env:"RATE_LIMIT_STORE,  default=memory"`
}

type MongoConfig struct {
	URI          string `env:"MONGO_URI,          default=mongodb://localhost:27017"`
	Database     string `env:"MONGO_DATABASE,     default=snake_game"`
	Transactions bool   `env:"MONGO_TRANSACTIONS, default=false"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	CallbackURL  string `env:"GOOGLE_CALLBACK_URL, default=http://localhost:5000/api/auth/google/callback"`
}

// Enabled reports whether Google login can be offered.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// NeedsRedis reports whether any component is configured to use Redis.
func (c *Config) NeedsRedis() bool {
	return c.Session.Store == BackendRedis || c.RateLimit.Store == BackendRedis
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendMemory, c.StoreBackend)
	}
	for name, v := range map[string]string{"SESSION_STORE": c.Session.Store, "RATE_LIMIT_STORE": c.RateLimit.Store} {
		if v != BackendRedis && v != BackendMemory {
			return fmt.Errorf("config: %s must be %q or %q, got %q", name, BackendRedis, BackendMemory, v)
		}
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("config: rate limit must be positive")
	}
	if c.IsProduction() && c.Session.Secret == "snakegame_secret" {
		return fmt.Errorf("config: SESSION_SECRET must be set in production")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
