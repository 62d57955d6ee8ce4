package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-sales-chart/internal/config"
	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/core/source"
	"github.com/penwyp/go-sales-chart/internal/presentation/chart"
	"github.com/penwyp/go-sales-chart/internal/presentation/formatter"
	"github.com/penwyp/go-sales-chart/internal/presentation/render"
	"github.com/penwyp/go-sales-chart/internal/util"
)

var (
	// Logging related
	debug bool

	// Configuration
	configFile string

	// Data source
	useStatic   bool
	sourceURL   string
	timeout     time.Duration
	fixturePath string

	// Chart and output
	granularity   string
	timezone      string
	outputFormat  string
	outPath       string
	activateIndex int

	rootCmd = &cobra.Command{
		Use:   "go-sales-chart [flags]",
		Short: "Sales bar chart by day, month or year",
		Long: `go-sales-chart fetches nested year/month/day sales records, aggregates them at the
selected granularity and renders a bar chart.

Records come from the remote endpoint by default, or from the bundled static dataset
with --static (or from a JSON file given with --fixture).

Examples:
  go-sales-chart --static                           # Day bars from the bundled data
  go-sales-chart --static -g month -o table         # Monthly totals as a table
  go-sales-chart -g year -o png --out sales.png     # Yearly PNG chart from the remote endpoint
  go-sales-chart --static -g year --activate 0      # Select the first year bar
  go-sales-chart watch --static                     # Interactive view`,
		SilenceUsage: true,
		RunE:         runChart,
	}
)

const (
	defaultPNGPath = "sales-chart.png"
	outputBars     = "bars"
	outputPNG      = "png"
)

func init() {
	// Data source
	rootCmd.PersistentFlags().BoolVar(&useStatic, "static", false,
		"Use the bundled static dataset instead of the remote endpoint")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "source-url", source.DefaultRemoteURL,
		"Remote endpoint returning the sales records")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", source.DefaultTimeout,
		"Remote request timeout")
	rootCmd.PersistentFlags().StringVar(&fixturePath, "fixture", "",
		"JSON file used as the static dataset")

	// Chart
	rootCmd.PersistentFlags().StringVarP(&granularity, "granularity", "g", string(model.DefaultGranularity),
		"Time granularity ("+granularityNames()+")")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "Local",
		"Timezone for displayed timestamps (e.g., UTC, America/New_York)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", outputBars,
		"Output format (bars, png, table, json, csv, summary)")
	rootCmd.Flags().StringVar(&outPath, "out", defaultPNGPath,
		"PNG file path for --output png")
	rootCmd.Flags().IntVar(&activateIndex, "activate", -1,
		"Select the bar at this zero-based index and print the selection")

	// System and debugging
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Config file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runChart(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	out := cmd.OutOrStdout()
	factory, err := surfaceFactory(outputFormat, outPath, out)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter := source.CreateAdapter(cfg.SourceSettings())
	result := adapter.Load(ctx, cfg.Source.Static)
	if result.Err != nil {
		return errors.New(result.Message())
	}
	util.LogInfof("Loaded %d records from %s", len(result.Records), result.Provider)

	presenter := chart.NewPresenter(factory, chart.WithTitle(cfg.Chart.Title))
	defer presenter.Close()

	if _, err := presenter.Render(result.Records, cfg.Granularity()); err != nil {
		return err
	}
	if strings.EqualFold(outputFormat, outputPNG) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Chart written to %s\n", outPath)
	}

	if activateIndex >= 0 {
		return printActivation(out, presenter, activateIndex)
	}
	return nil
}

// setup loads the configuration, applies explicit flags over it and starts logging
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("static") {
		cfg.Source.Static = useStatic
	}
	if flags.Changed("source-url") {
		cfg.Source.URL = sourceURL
	}
	if flags.Changed("timeout") {
		cfg.Source.Timeout = timeout
	}
	if flags.Changed("fixture") {
		cfg.Source.Fixture = fixturePath
	}
	if flags.Changed("granularity") {
		cfg.Chart.Granularity = granularity
	}
	if flags.Changed("timezone") {
		cfg.UI.Timezone = timezone
	}
	if debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Source.Fixture != "" {
		cfg.Source.Fixture = expandPath(cfg.Source.Fixture)
	}

	if err := initLogging(cfg); err != nil {
		return nil, err
	}
	if err := util.InitClock(cfg.UI.Timezone); err != nil {
		return nil, err
	}
	util.LogDebugf("Configuration: static=%t granularity=%s url=%s fixture=%q",
		cfg.Source.Static, cfg.Chart.Granularity, cfg.Source.URL, cfg.Source.Fixture)
	return cfg, nil
}

func initLogging(cfg *config.Config) error {
	logFile := expandPath(cfg.Logging.File)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return util.InitLogger(cfg.Logging.Level, logFile, util.LogFormat(cfg.Logging.Format), debug)
}

// surfaceFactory picks the drawing target for an output format
func surfaceFactory(format, pngPath string, out io.Writer) (chart.SurfaceFactory, error) {
	switch strings.ToLower(format) {
	case outputBars:
		return render.NewTerminalFactory(out, render.WithColor(isTerminal(out))), nil
	case outputPNG:
		return render.NewPNGFactory(expandPath(pngPath)), nil
	}

	if !slices.Contains(formatter.Formats(), strings.ToLower(format)) {
		return nil, fmt.Errorf("unknown output format %q (valid: %s, %s, %s)",
			format, outputBars, outputPNG, strings.Join(formatter.Formats(), ", "))
	}
	return chart.SurfaceFactoryFunc(func() (chart.Surface, error) {
		f, err := formatter.New(format, out)
		if err != nil {
			return nil, err
		}
		return &formatterSurface{formatter: f}, nil
	}), nil
}

// formatterSurface draws a chart by writing its points through a formatter
type formatterSurface struct {
	formatter formatter.Formatter
	destroyed bool
}

func (s *formatterSurface) Draw(data chart.ChartData) error {
	if s.destroyed {
		return render.ErrSurfaceDestroyed
	}
	return s.formatter.Format(data.Points)
}

func (s *formatterSurface) Destroy() error {
	s.destroyed = true
	return nil
}

func printActivation(out io.Writer, presenter *chart.Presenter, index int) error {
	activation, err := presenter.Activate(index)
	if err != nil {
		return err
	}
	data, err := sonic.ConfigStd.MarshalIndent(activation, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode activation: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func granularityNames() string {
	names := make([]string, 0, len(model.Granularities()))
	for _, g := range model.Granularities() {
		names = append(names, g.String())
	}
	return strings.Join(names, ", ")
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && util.IsTerminal(f.Fd())
}
