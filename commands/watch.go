package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-sales-chart/internal/application/viewer"
	"github.com/penwyp/go-sales-chart/internal/core/source"
	"github.com/penwyp/go-sales-chart/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Interactive sales chart",
	Long: `Shows the sales chart full-screen and redraws it on every change.

Keys:
  d / m / y   day, month or year granularity
  s           toggle static and remote data (reloads)
  r           reload
  x, Esc      dismiss the error notice
  1-9         select a bar
  q, Ctrl-C   quit

With --fixture the file is watched and the chart reloads when it changes
while static data is selected.`,
	SilenceUsage: true,
	RunE:         runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	defer util.CloseLogger()

	if !util.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("watch needs an interactive terminal; use the root command for one-shot output")
	}

	viewerConfig := &viewer.ViewerConfig{
		Granularity: cfg.Granularity(),
		UseStatic:   cfg.Source.Static,
		FixturePath: cfg.Source.Fixture,
		Title:       cfg.Chart.Title,
		ErrorTTL:    cfg.UI.ErrorTTL,
		Color:       util.IsTerminal(os.Stdout.Fd()),
	}

	adapter := source.CreateAdapter(cfg.SourceSettings())
	orchestrator, err := viewer.NewOrchestrator(viewerConfig, adapter, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return orchestrator.Run(ctx)
}
