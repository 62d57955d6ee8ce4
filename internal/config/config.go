package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/core/source"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// EnvPrefix is prepended to every environment override, e.g. SALES_CHART_SOURCE_URL
const EnvPrefix = "SALES_CHART"

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Chart   ChartConfig   `mapstructure:"chart"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig selects where sales records come from
type SourceConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Fixture string        `mapstructure:"fixture"`
	Static  bool          `mapstructure:"static"`
}

// ChartConfig holds chart presentation settings
type ChartConfig struct {
	Granularity string `mapstructure:"granularity"`
	Title       string `mapstructure:"title"`
}

// UIConfig holds interactive view settings
type UIConfig struct {
	ErrorTTL time.Duration `mapstructure:"error_ttl"`
	Timezone string        `mapstructure:"timezone"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from defaults, an optional .env file, the optional
// config file at path, and SALES_CHART_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("source.url", source.DefaultRemoteURL)
	v.SetDefault("source.timeout", source.DefaultTimeout.String())
	v.SetDefault("source.fixture", "")
	v.SetDefault("source.static", false)

	v.SetDefault("chart.granularity", string(model.DefaultGranularity))
	v.SetDefault("chart.title", "Sales Data")

	v.SetDefault("ui.error_ttl", "6s")
	v.SetDefault("ui.timezone", "Local")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", DefaultLogFile())
}

// DefaultLogFile returns ~/.go-sales-chart/logs/app.log
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "go-sales-chart", "logs", "app.log")
	}
	return filepath.Join(home, ".go-sales-chart", "logs", "app.log")
}

// Validate fills empty values and rejects invalid ones
func (c *Config) Validate() error {
	if c.Source.URL == "" {
		c.Source.URL = source.DefaultRemoteURL
	}
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = source.DefaultTimeout
	}
	if c.Source.Fixture != "" {
		c.Source.Fixture = expandHome(c.Source.Fixture)
	}

	if c.Chart.Granularity == "" {
		c.Chart.Granularity = string(model.DefaultGranularity)
	}
	g, err := model.ParseGranularity(c.Chart.Granularity)
	if err != nil {
		return fmt.Errorf("chart.granularity: %w", err)
	}
	c.Chart.Granularity = string(g)

	if c.Chart.Title == "" {
		c.Chart.Title = "Sales Data"
	}
	if c.UI.ErrorTTL <= 0 {
		c.UI.ErrorTTL = 6 * time.Second
	}
	if c.UI.Timezone == "" {
		c.UI.Timezone = "Local"
	}
	if err := util.ValidateTimezone(c.UI.Timezone); err != nil {
		return fmt.Errorf("ui.timezone: %w", err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "":
		c.Logging.Level = "info"
	case "debug", "info", "warn", "warning", "error":
		c.Logging.Level = strings.ToLower(c.Logging.Level)
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "":
		c.Logging.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	if c.Logging.File == "" {
		c.Logging.File = DefaultLogFile()
	}
	c.Logging.File = expandHome(c.Logging.File)

	return nil
}

// Granularity returns the validated default granularity
func (c *Config) Granularity() model.Granularity {
	g, err := model.ParseGranularity(c.Chart.Granularity)
	if err != nil {
		return model.DefaultGranularity
	}
	return g
}

// SourceSettings converts the source section to the adapter's settings
func (c *Config) SourceSettings() *source.SourceConfig {
	return &source.SourceConfig{
		URL:         c.Source.URL,
		Timeout:     c.Source.Timeout,
		FixturePath: c.Source.Fixture,
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
