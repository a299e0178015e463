package config

import (
	"fmt"
	"strings"
	"time"
)

// Store backends
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Store   StoreConfig   `yaml:"store" envconfig:"STORE"`
	Redis   RedisConfig   `yaml:"redis" envconfig:"REDIS"`
	Session SessionConfig `yaml:"session" envconfig:"SESSION"`
	Log     LogConfig     `yaml:"log" envconfig:"LOG"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr string `yaml:"addr" envconfig:"ADDR"`
}

// StoreConfig selects the key-value backend
type StoreConfig struct {
	Backend string `yaml:"backend" envconfig:"BACKEND"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string `yaml:"url" envconfig:"URL"`
}

// SessionConfig holds navigation session settings
type SessionConfig struct {
	TTL time.Duration `yaml:"ttl" envconfig:"TTL"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string `yaml:"level" envconfig:"LEVEL"`
	Format     string `yaml:"format" envconfig:"FORMAT"`           // json, console
	Output     string `yaml:"output" envconfig:"OUTPUT"`           // stdout, stderr, file
	FilePath   string `yaml:"file_path" envconfig:"FILE_PATH"`     // used when Output is file
	TimeFormat string `yaml:"time_format" envconfig:"TIME_FORMAT"` // rfc3339, unix, iso8601
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Store:   StoreConfig{Backend: BackendRedis},
		Session: SessionConfig{TTL: 30 * time.Minute},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			FilePath:   "logs/navsession.log",
			TimeFormat: "rfc3339",
		},
	}
}

// Validate checks the settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendRedis:
		if strings.TrimSpace(c.Redis.URL) == "" {
			return fmt.Errorf("REDIS_URL is required for the %s backend", BackendRedis)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid store backend %q: want %s or %s", c.Store.Backend, BackendRedis, BackendMemory)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	return nil
}
