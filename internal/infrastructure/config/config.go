package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	OTLP    OTLPConfig    `yaml:"otlp"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

type OTLPConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver:     StorageMemory,
			SQLitePath: "data/warehouse.db",
		},
		OTLP: OTLPConfig{
			Enabled:     true,
			Endpoint:    "localhost:4317",
			ServiceName: "warehouse-api",
			Environment: "development",
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}

// LoadConfig loads configuration from the defaults, then the YAML file named
// by CONFIG_FILE if set, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.SQLitePath = getEnv("SQLITE_PATH", cfg.Storage.SQLitePath)
	cfg.OTLP.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLP.Endpoint)
	cfg.OTLP.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTLP.ServiceName)
	cfg.OTLP.Environment = getEnv("OTEL_ENVIRONMENT", cfg.OTLP.Environment)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	var err error
	if cfg.OTLP.Enabled, err = getEnvBool("OTEL_EXPORT_ENABLED", cfg.OTLP.Enabled); err != nil {
		return nil, err
	}
	if cfg.Server.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
