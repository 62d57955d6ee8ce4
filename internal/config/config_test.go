package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/core/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, source.DefaultRemoteURL, cfg.Source.URL)
	assert.Equal(t, source.DefaultTimeout, cfg.Source.Timeout)
	assert.False(t, cfg.Source.Static)
	assert.Equal(t, model.GranularityDay, cfg.Granularity())
	assert.Equal(t, "Sales Data", cfg.Chart.Title)
	assert.Equal(t, 6*time.Second, cfg.UI.ErrorTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, DefaultLogFile(), cfg.Logging.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SALES_CHART_SOURCE_URL", "http://localhost:9999/sales")
	t.Setenv("SALES_CHART_SOURCE_TIMEOUT", "2s")
	t.Setenv("SALES_CHART_CHART_GRANULARITY", "Month")
	t.Setenv("SALES_CHART_UI_ERROR_TTL", "500ms")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:9999/sales", cfg.Source.URL)
	assert.Equal(t, 2*time.Second, cfg.Source.Timeout)
	assert.Equal(t, model.GranularityMonth, cfg.Granularity())
	assert.Equal(t, "month", cfg.Chart.Granularity)
	assert.Equal(t, 500*time.Millisecond, cfg.UI.ErrorTTL)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source:
  fixture: /tmp/sales.json
  static: true
chart:
  granularity: year
  title: Regional Sales
logging:
  level: DEBUG
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/sales.json", cfg.Source.Fixture)
	assert.True(t, cfg.Source.Static)
	assert.Equal(t, model.GranularityYear, cfg.Granularity())
	assert.Equal(t, "Regional Sales", cfg.Chart.Title)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	settings := cfg.SourceSettings()
	assert.Equal(t, "/tmp/sales.json", settings.FixturePath)
	assert.Equal(t, source.DefaultRemoteURL, settings.URL)
}

func TestLoadMissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadDotEnv(t *testing.T) {
	const key = "SALES_CHART_CHART_TITLE"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=From Dotenv\n"), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "From Dotenv", cfg.Chart.Title)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
		check   func(t *testing.T, cfg Config)
	}{
		{
			name: "fills_empty_values",
			cfg:  Config{},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, source.DefaultRemoteURL, cfg.Source.URL)
				assert.Equal(t, source.DefaultTimeout, cfg.Source.Timeout)
				assert.Equal(t, "day", cfg.Chart.Granularity)
				assert.Equal(t, "Sales Data", cfg.Chart.Title)
				assert.Equal(t, 6*time.Second, cfg.UI.ErrorTTL)
				assert.Equal(t, "text", cfg.Logging.Format)
				assert.Equal(t, "Local", cfg.UI.Timezone)
			},
		},
		{
			name:    "bad_timezone",
			cfg:     Config{UI: UIConfig{Timezone: "Mars/Olympus"}},
			wantErr: "ui.timezone",
		},
		{
			name:    "bad_granularity",
			cfg:     Config{Chart: ChartConfig{Granularity: "week"}},
			wantErr: "chart.granularity",
		},
		{
			name:    "bad_level",
			cfg:     Config{Logging: LoggingConfig{Level: "verbose"}},
			wantErr: "logging.level",
		},
		{
			name:    "bad_format",
			cfg:     Config{Logging: LoggingConfig{Format: "xml"}},
			wantErr: "logging.format",
		},
		{
			name: "expands_home",
			cfg:  Config{Source: SourceConfig{Fixture: "~/sales.json"}},
			check: func(t *testing.T, cfg Config) {
				home, err := os.UserHomeDir()
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(home, "sales.json"), cfg.Source.Fixture)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
