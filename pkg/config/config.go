package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	pkgch "StabTrade/pkg/clickhouse"
	pkgkafka "StabTrade/pkg/kafka"
	"StabTrade/pkg/logger"
)

const (
	SinkXLSX       = "xlsx"
	SinkClickHouse = "clickhouse"
	SinkKafka      = "kafka"
)

type Config struct {
	Environment string        `yaml:"environment" default:"development" validate:"required"`
	Logger      logger.Config `yaml:"logger"`
	Strategy    struct {
		InvestThresh   float64 `yaml:"invest_thresh" default:"0.005"`
		StopLossThresh float64 `yaml:"stop_loss_thresh" default:"-0.05" validate:"lte=0"`
		Window         int     `yaml:"window" default:"50" validate:"gte=1"`
		Workers        int     `yaml:"workers" default:"4" validate:"gte=1,lte=256"`
		OnError        string  `yaml:"on_error" default:"skip" validate:"oneof=skip fail"`
		Timezone       string  `yaml:"timezone" default:"UTC"`
		Symbol         string  `yaml:"symbol"`
	} `yaml:"strategy"`
	Input struct {
		Type string `yaml:"type" default:"csv" validate:"oneof=csv clickhouse"`
		Path string `yaml:"path"`
		From string `yaml:"from"` // inclusive day key, optional
		To   string `yaml:"to"`   // inclusive day key, optional
	} `yaml:"input"`
	Output struct {
		Sinks     []string `yaml:"sinks" default:"[\"xlsx\"]" validate:"min=1,dive,oneof=xlsx clickhouse kafka"`
		XLSXPath  string   `yaml:"xlsx_path" default:"annual_yield.xlsx"`
		SheetName string   `yaml:"sheet" default:"annual yield"`
		Detailed  bool     `yaml:"detailed"`
	} `yaml:"output"`
	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CacheTTL        time.Duration `yaml:"cache_ttl" default:"1m"`
		RateLimit       float64       `yaml:"rate_limit" default:"20"` // requests per second per client
		RateBurst       float64       `yaml:"rate_burst" default:"40"`
		CORSOrigins     []string      `yaml:"cors_origins" default:"[\"*\"]"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Kafka      pkgkafka.Config `yaml:"kafka"`
	ClickHouse pkgch.Config    `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"stabtrade"`
	} `yaml:"redis"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file. An empty path yields
// defaults. Defaults are applied first so that explicit zero values in the
// file survive.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, then a .env file if present, then
// overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("STABTRADE_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("STABTRADE_INVEST_THRESH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STABTRADE_INVEST_THRESH: %w", err)
		}
		c.Strategy.InvestThresh = f
	}
	if v := os.Getenv("STABTRADE_STOP_LOSS_THRESH"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("STABTRADE_STOP_LOSS_THRESH: %w", err)
		}
		c.Strategy.StopLossThresh = f
	}
	if v := os.Getenv("STABTRADE_WINDOW"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STABTRADE_WINDOW: %w", err)
		}
		c.Strategy.Window = n
	}
	if v := os.Getenv("STABTRADE_INPUT"); v != "" {
		c.Input.Path = v
	}
	if v := os.Getenv("STABTRADE_OUTPUT"); v != "" {
		c.Output.XLSXPath = v
	}
	if v := os.Getenv("STABTRADE_SINKS"); v != "" {
		c.Output.Sinks = splitList(v)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	return nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Strategy.Timezone); err != nil {
		return fmt.Errorf("strategy.timezone: %w", err)
	}
	for _, k := range []struct{ name, v string }{{"input.from", c.Input.From}, {"input.to", c.Input.To}} {
		if k.v == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", k.v); err != nil {
			return fmt.Errorf("%s must be YYYY-MM-DD, got '%s'", k.name, k.v)
		}
	}
	if c.Input.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for input.type 'clickhouse'")
	}
	if c.Input.Type == "clickhouse" && c.Strategy.Symbol == "" {
		return fmt.Errorf("strategy.symbol is required for input.type 'clickhouse'")
	}
	if c.HasSink(SinkClickHouse) && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required for the clickhouse sink")
	}
	if (c.HasSink(SinkKafka) || c.Kafka.Consumer.Enabled) && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is used")
	}
	return nil
}

// HasSink reports whether name is among the configured output sinks.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Output.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// Location returns the time zone used to bucket bars into days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Strategy.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
