package viewer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sales-chart/internal/application/state"
	"github.com/penwyp/go-sales-chart/internal/core/source"
	"github.com/penwyp/go-sales-chart/internal/presentation/chart"
	"github.com/penwyp/go-sales-chart/internal/presentation/interaction"
	"github.com/penwyp/go-sales-chart/internal/presentation/render"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// Loader runs one load of the sales records.
type Loader interface {
	LoadAsync(ctx context.Context, useStatic bool) <-chan source.Result
}

// KeySource yields key presses.
type KeySource interface {
	Events() <-chan interaction.KeyEvent
	Close() error
}

type loadResult struct {
	token  uint64
	result source.Result
}

// Orchestrator coordinates state, loading, rendering and input for the watch command
type Orchestrator struct {
	config *ViewerConfig
	out    io.Writer

	loader    Loader
	store     *state.Store
	presenter *chart.Presenter
	keyboard  KeySource
	watcher   *source.FixtureWatcher

	results chan loadResult
	// notice is the last activation message shown under the chart
	notice string
}

// NewOrchestrator creates a new Orchestrator drawing to out
func NewOrchestrator(config *ViewerConfig, loader Loader, out io.Writer) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store := state.NewStore(config.ErrorTTL)
	store.SetGranularity(config.Granularity)
	store.SetUseStatic(config.UseStatic)

	opts := []render.TerminalOption{render.WithColor(config.Color)}
	if config.Width > 0 {
		opts = append(opts, render.WithWidth(config.Width))
	}
	presenter := chart.NewPresenter(render.NewTerminalFactory(out, opts...), chart.WithTitle(config.Title))

	return &Orchestrator{
		config:    config,
		out:       out,
		loader:    loader,
		store:     store,
		presenter: presenter,
		results:   make(chan loadResult, 8),
	}, nil
}

// SetKeySource replaces the raw-mode keyboard, mainly for tests
func (o *Orchestrator) SetKeySource(keys KeySource) {
	o.keyboard = keys
}

// Store exposes the view state
func (o *Orchestrator) Store() *state.Store {
	return o.store
}

// Run starts the main loop and returns when the user quits or ctx is done
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting sales chart viewer...")
	defer o.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if o.keyboard == nil {
		keyboard, err := interaction.NewKeyboardReader()
		if err != nil {
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
		o.keyboard = keyboard
	}

	var fixtureEvents <-chan source.FixtureEvent
	if o.config.FixturePath != "" {
		watcher, err := source.NewFixtureWatcher(o.config.FixturePath)
		if err != nil {
			return fmt.Errorf("failed to start fixture watcher: %w", err)
		}
		o.watcher = watcher
		fixtureEvents = watcher.Events()
	}

	changes := o.store.Subscribe()

	fmt.Fprint(o.out, util.AltScreenOn, util.HideCursor)
	defer fmt.Fprint(o.out, util.ShowCursor, util.AltScreenOff)

	o.startLoad(ctx)
	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down sales chart viewer...")
			return nil

		case r := <-o.results:
			o.handleResult(r)

		case <-changes:
			o.updateDisplay()

		case event, ok := <-fixtureEvents:
			if !ok {
				fixtureEvents = nil
				continue
			}
			o.handleFixtureChange(ctx, event)

		case keyEvent := <-o.keyboard.Events():
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

// startLoad begins a load for the current source toggle. Results of older loads
// are dropped by the store.
func (o *Orchestrator) startLoad(ctx context.Context) {
	useStatic := o.store.Snapshot().UseStatic
	token := o.store.BeginLoad()
	util.LogDebugf("Starting load %d (static=%t)", token, useStatic)

	ch := o.loader.LoadAsync(ctx, useStatic)
	go func() {
		result, ok := <-ch
		if !ok {
			return
		}
		select {
		case o.results <- loadResult{token: token, result: result}:
		case <-ctx.Done():
		}
	}()
}

func (o *Orchestrator) handleResult(r loadResult) {
	applied := o.store.CompleteLoad(r.token, r.result.Records, r.result.Message())
	if applied && r.result.Err == nil {
		util.LogInfof("Loaded %d records from %s", len(r.result.Records), r.result.Provider)
	}
}

func (o *Orchestrator) handleFixtureChange(ctx context.Context, event source.FixtureEvent) {
	util.LogDebugf("Fixture changed: %s (%s)", event.Path, event.Operation)
	if o.store.Snapshot().UseStatic {
		o.startLoad(ctx)
	}
}

// handleKeyboard applies a key press and reports whether the user asked to quit
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	action := interaction.ActionFor(event)

	switch action.Kind {
	case interaction.ActionQuit:
		return true
	case interaction.ActionSetGranularity:
		if o.store.SetGranularity(action.Granularity) {
			o.notice = ""
		}
	case interaction.ActionToggleStatic:
		o.store.SetUseStatic(!o.store.Snapshot().UseStatic)
		o.startLoad(ctx)
	case interaction.ActionReload:
		o.startLoad(ctx)
	case interaction.ActionDismissError:
		o.store.DismissError()
	case interaction.ActionActivate:
		o.activate(action.Index)
	}
	return false
}

func (o *Orchestrator) activate(index int) {
	activation, err := o.presenter.Activate(index)
	if err != nil {
		o.notice = fmt.Sprintf("No bar %d", index+1)
		return
	}
	o.notice = fmt.Sprintf("Selected %s", activation.Label)
	if activation.Matches != nil {
		o.notice += fmt.Sprintf(" (%d matching records)", len(activation.Matches))
	}
}

// updateDisplay redraws the whole screen from the current state
func (o *Orchestrator) updateDisplay() {
	snap := o.store.Snapshot()

	var header strings.Builder
	header.WriteString(util.ClearScreen + util.MoveCursorHome)

	sourceName := "remote"
	if snap.UseStatic {
		sourceName = "static"
	}
	fmt.Fprintf(&header, "Granularity: %s  Source: %s", snap.Granularity, sourceName)
	if !snap.LastUpdate.IsZero() {
		fmt.Fprintf(&header, "  Updated: %s", util.GetClock().Stamp(snap.LastUpdate))
	}
	header.WriteString("\n")
	header.WriteString(o.style(util.ColorDim, "[d]ay [m]onth [y]ear  [s]tatic  [r]eload  [x] dismiss  [1-9] select  [q]uit"))
	header.WriteString("\n")

	if snap.Loading {
		header.WriteString(o.style(util.ColorCyan, "Loading..."))
		header.WriteString("\n")
	}
	if snap.Error != "" {
		header.WriteString(o.style(util.ColorRed, "Error: "+snap.Error))
		header.WriteString("\n")
	}
	header.WriteString("\n")

	if _, err := io.WriteString(o.out, header.String()); err != nil {
		util.LogErrorf("Failed to write display: %v", err)
		return
	}

	if snap.Loading && len(snap.Records) == 0 {
		return
	}

	if _, err := o.presenter.Render(snap.Records, snap.Granularity); err != nil {
		util.LogErrorf("Failed to render chart: %v", err)
	}

	if o.notice != "" {
		fmt.Fprintf(o.out, "\n%s\n", o.notice)
	}
}

func (o *Orchestrator) style(code, text string) string {
	if !o.config.Color {
		return text
	}
	return code + text + util.ColorReset
}

// Close releases the surface, the watcher and the keyboard
func (o *Orchestrator) Close() error {
	o.store.Close()
	err := o.presenter.Close()
	if o.watcher != nil {
		if werr := o.watcher.Close(); werr != nil {
			util.LogErrorf("Failed to close fixture watcher: %v", werr)
		}
	}
	if o.keyboard != nil {
		if kerr := o.keyboard.Close(); kerr != nil {
			util.LogErrorf("Failed to restore terminal: %v", kerr)
		}
	}
	return err
}
