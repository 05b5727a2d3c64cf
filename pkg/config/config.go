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
	Logging     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Server struct {
		Enabled         bool          `yaml:"enabled"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Storage struct {
		Driver string `yaml:"driver"`
		SQLite struct {
			Path        string        `yaml:"path"`
			BusyTimeout time.Duration `yaml:"busy_timeout"`
		} `yaml:"sqlite"`
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
	} `yaml:"storage"`
	DataSource struct {
		BaseURL        string        `yaml:"base_url"`
		ResearchSeries string        `yaml:"research_series"`
		MomentumSeries string        `yaml:"momentum_series"`
		Timeout        time.Duration `yaml:"timeout"`
		Cache          struct {
			TTL   time.Duration `yaml:"ttl"`
			Redis struct {
				Enabled  bool   `yaml:"enabled"`
				Addr     string `yaml:"addr"`
				Password string `yaml:"password"`
				DB       int    `yaml:"db"`
			} `yaml:"redis"`
		} `yaml:"cache"`
	} `yaml:"datasource"`
	Publish struct {
		Enabled bool `yaml:"enabled"`
		Kafka   struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
	} `yaml:"publish"`
	Regression struct {
		Tickers []string `yaml:"tickers"`
		Start   string   `yaml:"start"`
		Carhart bool     `yaml:"carhart"`
		Workers int      `yaml:"workers"`
	} `yaml:"regression"`
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

	if v := os.Getenv("FACTORLAB_DB"); v != "" {
		c.Storage.SQLite.Path = v
	}
	if v := os.Getenv("FACTORLAB_TICKERS"); v != "" {
		c.Regression.Tickers = strings.Split(v, ",")
	}
	if v := os.Getenv("FACTORLAB_START"); v != "" {
		c.Regression.Start = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Publish.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "sqlite"
	}
	if c.Storage.SQLite.Path == "" {
		c.Storage.SQLite.Path = "data/market.db"
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://mba.tuck.dartmouth.edu/pages/faculty/ken.french/ftp"
	}
	if c.DataSource.ResearchSeries == "" {
		c.DataSource.ResearchSeries = "F-F_Research_Data_Factors"
	}
	if c.DataSource.MomentumSeries == "" {
		c.DataSource.MomentumSeries = "F-F_Momentum_Factor"
	}
	if c.DataSource.Timeout <= 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if len(c.Regression.Tickers) == 0 {
		c.Regression.Tickers = []string{"SPY"}
	}
	if c.Regression.Start == "" {
		c.Regression.Start = "2015-01-01"
	}
	if c.Regression.Workers <= 0 {
		c.Regression.Workers = 1
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Storage.Driver != "sqlite" && c.Storage.Driver != "clickhouse" {
		return fmt.Errorf("storage.driver must be 'sqlite' or 'clickhouse', got '%s'", c.Storage.Driver)
	}
	if c.Storage.Driver == "clickhouse" && c.Storage.ClickHouse.Host == "" {
		return fmt.Errorf("storage.clickhouse.host is required")
	}
	if c.Publish.Enabled {
		if len(c.Publish.Kafka.Brokers) == 0 {
			return fmt.Errorf("publish.kafka.brokers cannot be empty")
		}
		if c.Publish.Kafka.Topic == "" {
			return fmt.Errorf("publish.kafka.topic is required")
		}
	}
	return nil
}
