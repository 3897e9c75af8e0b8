package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the server configuration, loaded from an optional yaml
// file with environment variable overrides
type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPHost string `yaml:"http-host" env:"HTTP_HOST" env-default:""`
	HTTPPort int    `yaml:"http-port" env:"HTTP_PORT" env-default:"8080"`

	// Storage selects the backend: "memory" or "redis"
	Storage string `yaml:"storage" env:"STORAGE_TYPE" env-default:"memory"`
	Redis   Redis  `yaml:"redis"`

	SessionLifetime time.Duration `yaml:"session-lifetime" env:"SESSION_LIFETIME" env-default:"168h"`
}

// Redis holds connection settings for the redis storage backend
type Redis struct {
	URL          string `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379"`
	PoolSize     int    `yaml:"pool-size" env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int    `yaml:"min-idle-conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
}

// Load reads the configuration from the given yaml file, falling back
// to environment variables alone when the path is empty
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}
	return cfg, nil
}
