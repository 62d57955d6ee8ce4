package chart

import (
	"errors"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

const (
	DefaultTitle        = "Sales Data"
	DefaultDatasetLabel = "Sales"
)

// ErrIndexOutOfRange is returned when an activation index has no rendered label
var ErrIndexOutOfRange = errors.New("activation index out of range")

// Options are the display options handed to a surface.
type Options struct {
	MinTickRotation int    `json:"minTickRotation"`
	MaxTickRotation int    `json:"maxTickRotation"`
	TickFontSize    int    `json:"tickFontSize"`
	AutoSkip        bool   `json:"autoSkip"`
	LegendPosition  string `json:"legendPosition"`
	BorderColor     string `json:"borderColor"`
	BorderWidth     int    `json:"borderWidth"`
}

// DefaultOptions returns the bar chart options used for every render.
func DefaultOptions() Options {
	return Options{
		MinTickRotation: 45,
		MaxTickRotation: 90,
		TickFontSize:    10,
		AutoSkip:        false,
		LegendPosition:  "top",
		BorderColor:     "rgba(75, 192, 192, 1)",
		BorderWidth:     1,
	}
}

// ChartData is everything a surface needs to draw one chart.
type ChartData struct {
	Title        string               `json:"title"`
	DatasetLabel string               `json:"datasetLabel"`
	Granularity  model.Granularity    `json:"granularity"`
	Points       []model.ColoredPoint `json:"points"`
	Options      Options              `json:"options"`
}

// Labels returns the x-axis labels in render order.
func (d *ChartData) Labels() []string {
	labels := make([]string, len(d.Points))
	for i, p := range d.Points {
		labels[i] = p.Date
	}
	return labels
}

// Surface is a drawing target. A destroyed surface must not be drawn on again.
type Surface interface {
	Draw(data ChartData) error
	Destroy() error
}

// SurfaceFactory creates a fresh surface for each render.
type SurfaceFactory interface {
	NewSurface() (Surface, error)
}

// SurfaceFactoryFunc adapts a function to SurfaceFactory.
type SurfaceFactoryFunc func() (Surface, error)

func (f SurfaceFactoryFunc) NewSurface() (Surface, error) {
	return f()
}

// Activation describes a click on one bar.
type Activation struct {
	Index       int               `json:"index"`
	Label       string            `json:"label"`
	Granularity model.Granularity `json:"granularity"`
	// Matches is only filled for year granularity: the records containing the year
	Matches []model.RawRecord `json:"matches,omitempty"`
}
