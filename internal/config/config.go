// Package config loads the ServerConfig contract the reactor core
// consumes from environment variables, following the same
// caarlos0/env + godotenv pattern used across the teacher repo's
// server variants.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"aerox/internal/aeroxerr"
)

// ServerConfig is the external contract described in spec §6: the
// reactor core only ever reads these fields, never how they were
// produced.
type ServerConfig struct {
	BindAddress           string `env:"AEROX_BIND_ADDRESS" envDefault:"0.0.0.0"`
	Port                  int    `env:"AEROX_PORT" envDefault:"7777"`
	WorkerThreads         int    `env:"AEROX_WORKER_THREADS" envDefault:"0"`    // 0 = logical CPU count
	MaxConnections        int    `env:"AEROX_MAX_CONNECTIONS" envDefault:"0"`   // validated only; the reactor applies no connection cap
	ReactorBufferSize     int    `env:"AEROX_REACTOR_BUFFER_SIZE" envDefault:"1024"`
	ConnectionTimeoutSecs int    `env:"AEROX_CONNECTION_TIMEOUT_SECS" envDefault:"300"`

	LogLevel  string `env:"AEROX_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"AEROX_LOG_FORMAT" envDefault:"json"`
}

// Addr returns the bind_address:port pair net.Listen expects.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddress, c.Port)
}

// Load reads .env (if it cannot be loaded, an info line is logged
// through logger when non-nil and loading goes on) then
// environment variables into a ServerConfig, validates it, and
// returns it.
func Load(logger *zerolog.Logger) (*ServerConfig, error) {
	if err := godotenv.Load(); err != nil {
		if logger != nil {
			logger.Info().Msg("no .env file found, using environment variables only")
		}
	}

	cfg := &ServerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, aeroxerr.Wrap(aeroxerr.Config, err, "failed to parse environment configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces spec §6's rules: port > 0; worker_threads and
// max_connections, if present (non-zero), > 0; bind_address non-empty.
func (c *ServerConfig) Validate() error {
	if c.BindAddress == "" {
		return aeroxerr.ValidationErr("bind_address must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return aeroxerr.ValidationErr("port must be in 1..=65535, got %d", c.Port)
	}
	if c.WorkerThreads < 0 {
		return aeroxerr.ValidationErr("worker_threads must be > 0 when set, got %d", c.WorkerThreads)
	}
	if c.MaxConnections < 0 {
		return aeroxerr.ValidationErr("max_connections must be > 0 when set, got %d", c.MaxConnections)
	}
	if c.ReactorBufferSize <= 0 {
		return aeroxerr.ValidationErr("reactor_buffer_size must be > 0, got %d", c.ReactorBufferSize)
	}
	return nil
}
