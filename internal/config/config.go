package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargegrid/libs/config"
)

// Config defines the management service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"MGMT_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN          string `yaml:"dsn" env:"MGMT_POSTGRES_DSN"`
		MaxOpenConns int    `yaml:"maxOpenConns" env:"MGMT_POSTGRES_MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"maxIdleConns" env:"MGMT_POSTGRES_MAX_IDLE_CONNS"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"MGMT_REDIS_ADDR"`
		Password string `yaml:"password" env:"MGMT_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"MGMT_REDIS_DB"`
		ScopeTTL int    `yaml:"scopeTtlSeconds" env:"MGMT_REDIS_SCOPE_TTL"`
	} `yaml:"redis"`
	BcryptCost int `yaml:"bcryptCost" env:"MGMT_BCRYPT_COST"`
}

// Load reads configuration via the shared helper. The redis address is
// optional: without it the scope cache is disabled.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8086"
	cfg.Redis.ScopeTTL = 300

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8086"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// ScopeTTL returns the scope cache ttl as duration.
func (c *Config) ScopeTTL() time.Duration {
	if c.Redis.ScopeTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Redis.ScopeTTL) * time.Second
}
