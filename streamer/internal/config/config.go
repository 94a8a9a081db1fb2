package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config.default.yaml
var defaultConfigYAML []byte

type Config struct {
	HTTPAddr       string        `yaml:"http_addr"`
	ReloadInterval time.Duration `yaml:"reload_interval"`

	Stream    Stream    `yaml:"stream"`
	History   History   `yaml:"history"`
	WebSocket WebSocket `yaml:"websocket"`
	Log       Log       `yaml:"log"`
}

// Stream configures the simulated response.
type Stream struct {
	Text     Text          `yaml:"text"`
	Interval time.Duration `yaml:"interval"`
}

type History struct {
	LogSize   int `yaml:"log_size"`
	EventSize int `yaml:"event_size"`
}

type WebSocket struct {
	MinFlushInterval time.Duration `yaml:"min_flush_interval"`
	MaxFlushInterval time.Duration `yaml:"max_flush_interval"`
	BatchSize        int           `yaml:"batch_size"`
}

type Log struct {
	Format LogFormat `yaml:"format"`
	File   string    `yaml:"file"`
}

func (c *Config) init() {
	c.setDefaults()
}

func (c *Config) setDefaults() {
	if c.WebSocket.MaxFlushInterval < c.WebSocket.MinFlushInterval {
		c.WebSocket.MaxFlushInterval = c.WebSocket.MinFlushInterval
	}
	if c.WebSocket.BatchSize <= 0 {
		c.WebSocket.BatchSize = 1000
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.Stream.Interval < 0 {
		errs = append(errs, fmt.Errorf("stream.interval must not be negative: %v", c.Stream.Interval))
	}
	if c.History.LogSize <= 0 {
		errs = append(errs, fmt.Errorf("history.log_size must be positive: %d", c.History.LogSize))
	}
	if c.History.EventSize <= 0 {
		errs = append(errs, fmt.Errorf("history.event_size must be positive: %d", c.History.EventSize))
	}
	return errors.Join(errs...)
}

func DefaultConfig() *Config {
	cfg := defaultConfig()
	cfg.init()
	return cfg
}

func LoadConfig(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := defaultConfig()
	if err = yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.init()
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		panic(fmt.Errorf("failed to load default config: %w", err))
	}
	return &cfg
}
