package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/penwyp/go-sales-chart/internal/presentation/chart"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// ErrSurfaceDestroyed is returned when drawing on a destroyed surface
var ErrSurfaceDestroyed = errors.New("surface destroyed")

const (
	pngMinWidth   = 1024
	pngHeight     = 600
	pngBarWidth   = 24
	pngBarSpacing = 8
)

var borderColor = drawing.Color{R: 75, G: 192, B: 192, A: 255}

// PNGSurface renders the chart as a PNG file, overwriting it on every draw.
type PNGSurface struct {
	mu        sync.Mutex
	path      string
	destroyed bool
}

// NewPNGSurface creates a surface writing to path.
func NewPNGSurface(path string) *PNGSurface {
	return &PNGSurface{path: path}
}

// NewPNGFactory returns a factory handing out PNG surfaces for path.
func NewPNGFactory(path string) chart.SurfaceFactory {
	return chart.SurfaceFactoryFunc(func() (chart.Surface, error) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		return NewPNGSurface(path), nil
	})
}

func (s *PNGSurface) Draw(data chart.ChartData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrSurfaceDestroyed
	}

	var buf bytes.Buffer
	if err := EncodePNG(data, &buf); err != nil {
		return err
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	util.LogDebugf("Wrote chart PNG to %s (%d bytes)", s.path, buf.Len())
	return nil
}

// Destroy marks the surface unusable. The written file is kept.
func (s *PNGSurface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	return nil
}

// EncodePNG renders data as a bar chart PNG into buf.
func EncodePNG(data chart.ChartData, buf *bytes.Buffer) error {
	if len(data.Points) == 0 {
		return errors.New("no data points to render")
	}

	bars := make([]gochart.Value, 0, len(data.Points))
	minValue, maxValue := 0.0, 0.0
	for _, p := range data.Points {
		fill := borderColor
		if r, g, b, err := util.ParseHexColor(p.Color); err == nil {
			fill = drawing.Color{R: r, G: g, B: b, A: 255}
		}
		bars = append(bars, gochart.Value{
			Label: p.Date,
			Value: p.Value,
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: borderColor,
				StrokeWidth: float64(data.Options.BorderWidth),
			},
		})
		if p.Value > maxValue {
			maxValue = p.Value
		}
		if p.Value < minValue {
			minValue = p.Value
		}
	}
	if maxValue == minValue {
		maxValue = minValue + 1
	}

	width := len(bars)*(pngBarWidth+pngBarSpacing) + 160
	if width < pngMinWidth {
		width = pngMinWidth
	}

	bc := gochart.BarChart{
		Title:  data.Title,
		Width:  width,
		Height: pngHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 80},
		},
		BarWidth:   pngBarWidth,
		BarSpacing: pngBarSpacing,
		XAxis: gochart.Style{
			FontSize:            float64(data.Options.TickFontSize),
			TextRotationDegrees: float64(data.Options.MinTickRotation),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: minValue, Max: maxValue * 1.1},
		},
		Bars: bars,
	}

	if err := bc.Render(gochart.PNG, buf); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}
