// Package config loads server configuration from defaults, a YAML file, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jzx17/gothreadpool/pkg/types"
)

// Environment variables read by ApplyEnv
const (
	EnvAddr           = "HTTPSERVER_ADDR"
	EnvWorkers        = "HTTPSERVER_WORKERS"
	EnvSleepDelay     = "HTTPSERVER_SLEEP_DELAY"
	EnvReadBufferSize = "HTTPSERVER_READ_BUFFER_SIZE"
	EnvPagesDir       = "HTTPSERVER_PAGES_DIR"
	EnvLogLevel       = "HTTPSERVER_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Addr           string        `yaml:"addr"`
	Workers        int           `yaml:"workers"`
	SleepDelay     time.Duration `yaml:"sleep_delay"`
	ReadBufferSize int           `yaml:"read_buffer_size"`
	PagesDir       string        `yaml:"pages_dir"`
	LogLevel       string        `yaml:"log_level"`
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		Addr:           "127.0.0.1:7878",
		Workers:        5,
		SleepDelay:     5 * time.Second,
		ReadBufferSize: 512,
		LogLevel:       "info",
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the file keep their values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from HTTPSERVER_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvAddr); ok {
		c.Addr = v
	}
	if v, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	if v, ok := os.LookupEnv(EnvSleepDelay); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvSleepDelay, v, err)
		}
		c.SleepDelay = d
	}
	if v, ok := os.LookupEnv(EnvReadBufferSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvReadBufferSize, v, err)
		}
		c.ReadBufferSize = n
	}
	if v, ok := os.LookupEnv(EnvPagesDir); ok {
		c.PagesDir = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	return nil
}

// Load builds a configuration from defaults, the optional YAML file at path,
// any .env file in the working directory, and the environment, in that order.
func Load(path string) (*Config, error) {
	cfg := New()
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}
	if err := types.ValidatePoolSize(c.Workers); err != nil {
		return fmt.Errorf("invalid workers: %w", err)
	}
	if c.SleepDelay < 0 {
		return fmt.Errorf("sleep delay must not be negative, got %v", c.SleepDelay)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("read buffer size must be positive, got %d", c.ReadBufferSize)
	}
	if c.PagesDir != "" {
		info, err := os.Stat(c.PagesDir)
		if err != nil {
			return fmt.Errorf("invalid pages dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("pages dir %s is not a directory", c.PagesDir)
		}
	}
	return nil
}
