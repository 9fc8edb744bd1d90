package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Engine    EngineConfig
}

// ServerConfig selects and configures the transport.
type ServerConfig struct {
	Transport string `envconfig:"TRANSPORT" default:"stdio"`
	Addr      string `envconfig:"HTTP_ADDR" default:"127.0.0.1:8765"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds HTTP rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// EngineConfig tunes the JavaScript engine. Request bounds are not here;
// they are fixed by the sandbox package.
type EngineConfig struct {
	PoolSize     int           `envconfig:"ENGINE_POOL_SIZE" default:"2"`
	MaxCallStack int           `envconfig:"ENGINE_MAX_CALL_STACK" default:"1024"`
	MemoryPoll   time.Duration `envconfig:"ENGINE_MEMORY_POLL" default:"10ms"`
	AbandonGrace time.Duration `envconfig:"ENGINE_ABANDON_GRACE" default:"250ms"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			Addr:      "127.0.0.1:8765",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
		Engine: EngineConfig{
			PoolSize:     2,
			MaxCallStack: 1024,
			MemoryPoll:   10 * time.Millisecond,
			AbandonGrace: 250 * time.Millisecond,
		},
	}
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q: must be %s or %s", c.Server.Transport, TransportStdio, TransportHTTP)
	}
	if c.Server.Transport == TransportHTTP && c.Server.Addr == "" {
		return fmt.Errorf("http transport requires an address")
	}
	if c.Engine.PoolSize < 0 {
		return fmt.Errorf("invalid engine pool size %d", c.Engine.PoolSize)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit requires positive rps and burst")
	}
	return nil
}
