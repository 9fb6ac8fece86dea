package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/nemanja-m/gopool/internal/shared/logging"
	"github.com/nemanja-m/gopool/pkg/pool"
)

// Config contains all configuration for the gopool command.
type Config struct {
	Pool    PoolConfig    `mapstructure:"pool"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// PoolConfig contains worker pool configuration. Zero workers selects the
// number of usable CPUs; zero queue capacity leaves the queue unbounded.
type PoolConfig struct {
	Workers       int    `mapstructure:"workers"`
	QueueCapacity int    `mapstructure:"queue_capacity"`
	FullPolicy    string `mapstructure:"full_policy"`
}

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Namespace string `mapstructure:"namespace"`
}

// Load loads the configuration from the given path.
// If configPath is empty, it looks for gopool.yaml in the config/ directory.
// Environment variables with GOPOOL_ prefix override config file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("pool.workers", 0)
	v.SetDefault("pool.queue_capacity", 0)
	v.SetDefault("pool.full_policy", "block")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9100")
	v.SetDefault("metrics.namespace", "gopool")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("gopool")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("GOPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Pool.Workers < 0 {
		return fmt.Errorf("pool.workers must be non-negative")
	}
	if c.Pool.QueueCapacity < 0 {
		return fmt.Errorf("pool.queue_capacity must be non-negative")
	}
	if _, err := pool.ParseFullPolicy(c.Pool.FullPolicy); err != nil {
		return fmt.Errorf("pool.full_policy: %w", err)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required when metrics are enabled")
	}
	return nil
}

// PoolOptions converts the pool section into pool options.
func (c *Config) PoolOptions() []pool.Option {
	policy, _ := pool.ParseFullPolicy(c.Pool.FullPolicy)
	return []pool.Option{
		pool.WithWorkers(c.Pool.Workers),
		pool.WithQueueCapacity(c.Pool.QueueCapacity),
		pool.WithFullPolicy(policy),
	}
}
