package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Directory struct {
		SnapshotPath string `yaml:"snapshot_path"`
		SearchLimit  int    `yaml:"search_limit"`
	} `yaml:"directory"`
	NSE struct {
		BaseURL     string        `yaml:"base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		MaxAttempts int           `yaml:"max_attempts"`
		RetryDelay  time.Duration `yaml:"retry_delay"`
	} `yaml:"nse"`
	Dashboard struct {
		Symbols         []string      `yaml:"symbols"`
		RefreshInterval time.Duration `yaml:"refresh_interval"`
	} `yaml:"dashboard"`
	Redis struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db"`
		PoolSize     int           `yaml:"pool_size"`
		PoolTimeout  time.Duration `yaml:"pool_timeout"`
		MinIdleConns int           `yaml:"min_idle_conns"`
		Prefix       string        `yaml:"prefix"`
	} `yaml:"redis"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	History struct {
		Days     int           `yaml:"days"`
		MaxStale time.Duration `yaml:"max_stale"`
	} `yaml:"history"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		QuotesTopic  string   `yaml:"quotes_topic"`
		AlertsTopic  string   `yaml:"alerts_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id"`
			Workers    int           `yaml:"workers"`
			BufferSize int           `yaml:"buffer_size"`
			RetryMax   int           `yaml:"retry_max"`
			BackoffMin time.Duration `yaml:"backoff_min"`
			BackoffMax time.Duration `yaml:"backoff_max"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("NSE_BASE_URL"); v != "" {
		c.NSE.BaseURL = v
	}
	if v := os.Getenv("DASHBOARD_SYMBOLS"); v != "" {
		c.Dashboard.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Directory.SearchLimit == 0 {
		c.Directory.SearchLimit = 11
	}
	if c.NSE.MaxAttempts == 0 {
		c.NSE.MaxAttempts = 3
	}
	if c.NSE.RetryDelay == 0 {
		c.NSE.RetryDelay = 500 * time.Millisecond
	}
	if c.Dashboard.RefreshInterval == 0 {
		c.Dashboard.RefreshInterval = 10 * time.Minute
	}
	if c.History.Days == 0 {
		c.History.Days = 365
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Directory.SnapshotPath == "" {
		return fmt.Errorf("directory.snapshot_path is required")
	}
	if c.NSE.BaseURL == "" {
		return fmt.Errorf("nse.base_url is required")
	}
	if c.NSE.MaxAttempts < 1 {
		return fmt.Errorf("nse.max_attempts must be at least 1")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.QuotesTopic == "" {
		return fmt.Errorf("kafka.quotes_topic is required when brokers are set")
	}
	return nil
}
