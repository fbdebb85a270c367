// Package config resolves settings from defaults, a YAML file, a .env file
// and EDA_* environment variables, in that order. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/peekknuf/eda/internal/profiler"
)

// FileName is looked up in the home directory when no config path is given.
const FileName = ".eda.yaml"

type Config struct {
	MissingLimit  float64      `yaml:"missing_limit"`
	Bins          int          `yaml:"bins"`
	MissingTokens []string     `yaml:"missing_tokens"`
	Color         string       `yaml:"color"`
	LogLevel      string       `yaml:"log_level"`
	Chart         ChartConfig  `yaml:"chart"`
	Server        ServerConfig `yaml:"server"`
	SQL           SQLConfig    `yaml:"sql"`
}

// ChartConfig sizes distribution figures, in inches.
type ChartConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type SQLConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

func Default() *Config {
	return &Config{
		MissingLimit: 10,
		Bins:         30,
		Color:        "auto",
		LogLevel:     "warn",
		Chart:        ChartConfig{Width: 10, Height: 8},
		Server:       ServerConfig{Addr: ":8080"},
	}
}

// Load builds the configuration. An empty path means $HOME/.eda.yaml, which
// may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, FileName)
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.MissingLimit, err = envFloat("EDA_MISSING_LIMIT", c.MissingLimit); err != nil {
		return err
	}
	if c.Bins, err = envInt("EDA_BINS", c.Bins); err != nil {
		return err
	}
	if v := os.Getenv("EDA_MISSING_TOKENS"); v != "" {
		c.MissingTokens = strings.Split(v, ",")
	}
	c.Color = envString("EDA_COLOR", c.Color)
	c.LogLevel = envString("EDA_LOG_LEVEL", c.LogLevel)
	c.Server.Addr = envString("EDA_ADDR", c.Server.Addr)
	c.SQL.Driver = envString("EDA_SQL_DRIVER", c.SQL.Driver)
	c.SQL.DSN = envString("EDA_SQL_DSN", c.SQL.DSN)
	return nil
}

// Validate rejects values no command could work with.
func (c *Config) Validate() error {
	if math.IsNaN(c.MissingLimit) || math.IsInf(c.MissingLimit, 0) || c.MissingLimit < 0 {
		return fmt.Errorf("missing_limit must be a non-negative percentage, got %v", c.MissingLimit)
	}
	if c.Bins <= 0 || c.Bins > profiler.MaxBins {
		return fmt.Errorf("bins must be between 1 and %d, got %d", profiler.MaxBins, c.Bins)
	}
	switch strings.ToLower(c.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %vx%v", c.Chart.Width, c.Chart.Height)
	}
	if (c.SQL.Driver == "") != (c.SQL.DSN == "") {
		return errors.New("sql driver and dsn must be set together")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
