// Package config loads server settings from defaults, an optional YAML file
// named by CONFIG_FILE, and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/carson-networks/ledger-server/internal/storage/sqlconfig"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Postgres  PostgresConfig  `koanf:"postgres"`
	HTTP      HTTPConfig      `koanf:"http"`
	Operator  OperatorConfig  `koanf:"operator"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Storage   StorageConfig   `koanf:"storage"`
	Log       LogConfig       `koanf:"log"`
}

type PostgresConfig struct {
	Address  string `koanf:"address"`
	Port     string `koanf:"port"`
	DB       string `koanf:"db"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"sslmode"`
}

type HTTPConfig struct {
	Port string `koanf:"port"`
}

type OperatorConfig struct {
	Workers   int `koanf:"workers"`
	QueueSize int `koanf:"queue_size"`
}

type SchedulerConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

type StorageConfig struct {
	Driver string `koanf:"driver"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// defaults match the docker compose setup.
var defaults = map[string]interface{}{
	"postgres.address":    "localhost",
	"postgres.port":       "5433",
	"postgres.db":         "postgres",
	"postgres.username":   "postgres",
	"postgres.password":   "testpassword",
	"postgres.sslmode":    "disable",
	"http.port":           "9446",
	"operator.workers":    4,
	"operator.queue_size": 1000,
	"scheduler.enabled":   true,
	"scheduler.interval":  "1h",
	"storage.driver":      DriverPostgres,
	"log.level":           "info",
}

var sections = []string{"postgres", "http", "operator", "scheduler", "storage", "log"}

// envKey maps POSTGRES_ADDRESS to postgres.address and OPERATOR_QUEUE_SIZE to
// operator.queue_size. Variables outside the known sections are ignored.
func envKey(name string) string {
	key := strings.ToLower(name)
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return ""
}

// ProcessEnvironmentVariables loads the configuration, reading CONFIG_FILE if set.
func ProcessEnvironmentVariables() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"))
}

// Load builds the configuration. An empty path skips the YAML layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Storage.Driver)
	}
	if c.Operator.Workers < 1 {
		return fmt.Errorf("operator.workers must be positive, got %d", c.Operator.Workers)
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be positive, got %s", c.Scheduler.Interval)
	}
	return nil
}

func (c *Config) ConnectionDetails() sqlconfig.ConnectionDetails {
	return sqlconfig.ConnectionDetails{
		Username: c.Postgres.Username,
		Password: c.Postgres.Password,
		Address:  c.Postgres.Address,
		Port:     c.Postgres.Port,
		DB:       c.Postgres.DB,
		SSLMode:  c.Postgres.SSLMode,
	}
}
