package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every variable, e.g. LICENSEHUB_SERVER_ADDR.
const envPrefix = "LICENSEHUB"

// Config is the full process configuration.
type Config struct {
	Server    Server
	Logging   Logging
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string        `envconfig:"ADDR" default:":8080"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout       time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	RequestTimeout    time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Logging selects the slog handler.
type Logging struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// DatabaseConfig points at Postgres. An empty URL selects the in-memory stores.
type DatabaseConfig struct {
	URL             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"30m"`
	TxTimeout       time.Duration `envconfig:"TX_TIMEOUT" default:"5s"`
}

// RedisConfig configures the license view cache. An empty URL disables it.
type RedisConfig struct {
	URL          string        `envconfig:"URL"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"2s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"500ms"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"500ms"`
	ViewTTL      time.Duration `envconfig:"VIEW_TTL" default:"5m"`
}

// KafkaConfig configures audit event publishing. No brokers means log-only audit.
type KafkaConfig struct {
	Brokers []string `envconfig:"BROKERS"`
	Topic   string   `envconfig:"TOPIC" default:"license-audit"`
}

// AuthConfig holds the admin bearer-token verification key.
type AuthConfig struct {
	JWTSigningKey string `envconfig:"JWT_SIGNING_KEY" default:"dev-secret-key-change-in-production"`
	JWTIssuer     string `envconfig:"JWT_ISSUER" default:"medsim-portal"`
}

// RateLimitConfig caps state-changing admin requests per actor. Counters are
// kept in Redis when it is configured.
type RateLimitConfig struct {
	Disabled bool          `envconfig:"DISABLED" default:"false"`
	Writes   int           `envconfig:"WRITES" default:"60"`
	Window   time.Duration `envconfig:"WINDOW" default:"1m"`
}

// FromEnv builds a Config from LICENSEHUB_* environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("load config: unsupported log format %q", c.Logging.Format)
	}
	if c.Auth.JWTSigningKey == "" {
		return fmt.Errorf("load config: jwt signing key is required")
	}
	if !c.RateLimit.Disabled && c.RateLimit.Window <= 0 {
		return fmt.Errorf("load config: rate limit window must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("load config: server shutdown timeout must be positive")
	}
	if c.Redis.ViewTTL <= 0 {
		return fmt.Errorf("load config: redis view ttl must be positive")
	}
	return nil
}
