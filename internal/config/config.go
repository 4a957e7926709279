package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings in
// Go's notation ("500ms", "15s", "1m").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	// Driver selects the durable backend: "sqlite" or "pgx".
	Driver string `yaml:"driver"`
	// DSN is the connection string: a file path for sqlite, a
	// postgres URL for pgx.
	DSN string `yaml:"dsn"`
	// PrimaryTimeout bounds each call to the durable backend.
	PrimaryTimeout Duration `yaml:"primary_timeout"`
	// ProbeInterval is how often to ping a degraded backend to detect
	// recovery. Zero disables the probe.
	ProbeInterval Duration `yaml:"probe_interval"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver:         "sqlite",
			DSN:            "rackplan.db",
			PrimaryTimeout: Duration(5 * time.Second),
			ProbeInterval:  Duration(15 * time.Second),
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("RACKPLAN_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("RACKPLAN_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("RACKPLAN_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RACKPLAN_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if driver := os.Getenv("RACKPLAN_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if dsn := os.Getenv("RACKPLAN_DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if timeoutStr := os.Getenv("RACKPLAN_DB_PRIMARY_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RACKPLAN_DB_PRIMARY_TIMEOUT: %w", err)
		}
		cfg.DB.PrimaryTimeout = Duration(timeout)
	}
	if intervalStr := os.Getenv("RACKPLAN_DB_PROBE_INTERVAL"); intervalStr != "" {
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RACKPLAN_DB_PROBE_INTERVAL: %w", err)
		}
		cfg.DB.ProbeInterval = Duration(interval)
	}
	if level := os.Getenv("RACKPLAN_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.DB.Driver != "sqlite" && cfg.DB.Driver != "pgx" {
		return Config{}, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
