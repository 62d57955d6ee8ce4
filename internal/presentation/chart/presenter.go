package chart

import (
	"fmt"
	"sync"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/data/aggregator"
	"github.com/penwyp/go-sales-chart/internal/presentation/palette"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// Presenter owns one chart: it prepares the series, keeps the single live
// surface, and maps activation indexes back to labels.
type Presenter struct {
	mu sync.Mutex

	factory SurfaceFactory
	colors  *palette.ColorCache
	title   string
	options Options

	surface     Surface
	granularity model.Granularity
	labels      []string
	records     []model.RawRecord
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithTitle overrides the chart title
func WithTitle(title string) PresenterOption {
	return func(p *Presenter) {
		if title != "" {
			p.title = title
		}
	}
}

// WithColorCache injects the color cache, mainly for deterministic tests
func WithColorCache(colors *palette.ColorCache) PresenterOption {
	return func(p *Presenter) {
		p.colors = colors
	}
}

// NewPresenter creates a presenter drawing on surfaces from factory.
func NewPresenter(factory SurfaceFactory, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		factory: factory,
		colors:  palette.NewColorCache(),
		title:   DefaultTitle,
		options: DefaultOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render destroys the previous surface, rebuilds the series for g and draws it
// on a new surface. The returned data is valid even when drawing fails.
func (p *Presenter) Render(records []model.RawRecord, g model.Granularity) (*ChartData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.destroyLocked()

	if g != p.granularity {
		p.colors.Reset()
	}

	flattened := aggregator.Flatten(records, g)
	points := make([]model.ColoredPoint, len(flattened))
	labels := make([]string, len(flattened))
	for i, fp := range flattened {
		points[i] = model.ColoredPoint{
			Date:  fp.Date,
			Value: fp.Value,
			Color: p.colors.ColorFor(fp.Date, g),
		}
		labels[i] = fp.Date
	}

	p.granularity = g
	p.labels = labels
	p.records = records

	data := &ChartData{
		Title:        p.title,
		DatasetLabel: DefaultDatasetLabel,
		Granularity:  g,
		Points:       points,
		Options:      p.options,
	}

	surface, err := p.factory.NewSurface()
	if err != nil {
		return data, fmt.Errorf("failed to create chart surface: %w", err)
	}
	p.surface = surface

	if err := surface.Draw(*data); err != nil {
		return data, fmt.Errorf("failed to draw chart: %w", err)
	}

	util.LogDebugf("Rendered %d points at %s granularity", len(points), g)
	return data, nil
}

// Activate maps a bar index to its label. At year granularity it also collects
// the records holding that year; nothing else is changed.
func (p *Presenter) Activate(index int) (Activation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if index < 0 || index >= len(p.labels) {
		return Activation{}, fmt.Errorf("%w: %d (have %d labels)", ErrIndexOutOfRange, index, len(p.labels))
	}

	activation := Activation{
		Index:       index,
		Label:       p.labels[index],
		Granularity: p.granularity,
	}

	if p.granularity == model.GranularityYear {
		matches := make([]model.RawRecord, 0)
		for _, record := range p.records {
			if record.HasYear(activation.Label) {
				matches = append(matches, record)
			}
		}
		activation.Matches = matches
		util.LogWith("Year activated",
			util.F("year", activation.Label),
			util.F("matches", len(matches)))
	}

	return activation, nil
}

// Labels returns a copy of the current label sequence
func (p *Presenter) Labels() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	labels := make([]string, len(p.labels))
	copy(labels, p.labels)
	return labels
}

// Close destroys the live surface. Calling it again is a no-op.
func (p *Presenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.destroyLocked()
}

func (p *Presenter) destroyLocked() error {
	if p.surface == nil {
		return nil
	}
	surface := p.surface
	p.surface = nil
	if err := surface.Destroy(); err != nil {
		util.LogWarnf("Failed to destroy chart surface: %v", err)
		return err
	}
	return nil
}
