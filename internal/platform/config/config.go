package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces environment overrides: FLOWMINT_SERVER_ADDR -> server.addr.
const EnvPrefix = "FLOWMINT_"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the full service configuration.
type Config struct {
	Server   Server         `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Store    StoreConfig    `koanf:"store"`
	Redis    RedisConfig    `koanf:"redis"`
	Postgres PostgresConfig `koanf:"postgres"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Wallet   WalletConfig   `koanf:"wallet"`
	Audit    AuditConfig    `koanf:"audit"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type StoreConfig struct {
	Backend string `koanf:"backend"` // memory, redis, postgres
}

// RedisConfig configures the Redis registry backend.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// PostgresConfig configures the Postgres registry backend.
type PostgresConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

// KafkaConfig enables streaming of audit events. Empty Brokers disables it.
type KafkaConfig struct {
	Brokers string `koanf:"brokers"` // comma separated
	Topic   string `koanf:"topic"`

	// DeliveryTimeout bounds how long a produce may retry before failing.
	DeliveryTimeout time.Duration `koanf:"delivery_timeout"`
}

// BrokerList splits Brokers into addresses.
func (k KafkaConfig) BrokerList() []string {
	var out []string
	for _, b := range strings.Split(k.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type WalletConfig struct {
	// StrictNotFound answers lookup misses with 404 instead of 200.
	StrictNotFound bool `koanf:"strict_not_found"`
}

type AuditConfig struct {
	Buffer int `koanf:"buffer"`

	// Consecutive sink failures before the circuit opens, and how long it stays open.
	CircuitThreshold int           `koanf:"circuit_threshold"`
	CircuitCooldown  time.Duration `koanf:"circuit_cooldown"`
}

func defaults(k *koanf.Koanf) {
	k.Set("server.addr", ":8000")
	k.Set("server.read_header_timeout", 5*time.Second)
	k.Set("server.request_timeout", 30*time.Second)
	k.Set("server.shutdown_timeout", 10*time.Second)

	k.Set("log.level", "info")
	k.Set("log.format", "json")

	k.Set("store.backend", BackendMemory)

	k.Set("redis.pool_size", 10)
	k.Set("redis.min_idle_conns", 2)
	k.Set("redis.dial_timeout", 5*time.Second)
	k.Set("redis.read_timeout", 3*time.Second)
	k.Set("redis.write_timeout", 3*time.Second)

	k.Set("postgres.max_open_conns", 10)
	k.Set("postgres.max_idle_conns", 5)

	k.Set("kafka.topic", "wallet-registry-audit")
	k.Set("kafka.delivery_timeout", 10*time.Second)

	k.Set("wallet.strict_not_found", false)
	k.Set("audit.buffer", 256)
	k.Set("audit.circuit_threshold", 5)
	k.Set("audit.circuit_cooldown", 30*time.Second)
}

// Load layers defaults, an optional YAML file and FLOWMINT_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	defaults(k)

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Keys are section.key; only the first underscore separates them.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects backend selections missing their connection settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for the redis store backend")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("postgres.dsn is required for the postgres store backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Audit.Buffer < 0 {
		return fmt.Errorf("audit.buffer must not be negative")
	}
	return nil
}
