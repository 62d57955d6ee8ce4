package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/penwyp/go-sales-chart/internal/presentation/chart"
	"github.com/penwyp/go-sales-chart/internal/util"
)

const barGlyph = "█"

// TerminalSurface draws one horizontal bar per point, colored with the point's color.
type TerminalSurface struct {
	mu        sync.Mutex
	out       io.Writer
	width     int
	color     bool
	destroyed bool
}

// TerminalOption configures a TerminalSurface.
type TerminalOption func(*TerminalSurface)

// WithWidth fixes the drawing width instead of asking the terminal
func WithWidth(width int) TerminalOption {
	return func(s *TerminalSurface) {
		s.width = width
	}
}

// WithColor toggles ANSI colors
func WithColor(enabled bool) TerminalOption {
	return func(s *TerminalSurface) {
		s.color = enabled
	}
}

// NewTerminalSurface creates a surface writing to out.
func NewTerminalSurface(out io.Writer, opts ...TerminalOption) *TerminalSurface {
	s := &TerminalSurface{out: out, color: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTerminalFactory returns a factory handing out terminal surfaces for out.
func NewTerminalFactory(out io.Writer, opts ...TerminalOption) chart.SurfaceFactory {
	return chart.SurfaceFactoryFunc(func() (chart.Surface, error) {
		return NewTerminalSurface(out, opts...), nil
	})
}

func (s *TerminalSurface) Draw(data chart.ChartData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrSurfaceDestroyed
	}

	width := s.width
	if width <= 0 {
		width = util.TerminalWidth()
	}

	var b strings.Builder

	b.WriteString(s.style(util.ColorBold, data.Title))
	b.WriteString("\n")
	if data.Options.LegendPosition == "top" {
		legend := fmt.Sprintf("%s %s (%s)", barGlyph, data.DatasetLabel, data.Granularity)
		b.WriteString(s.style(util.HexToANSI(cssToHex(data.Options.BorderColor)), legend))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(data.Points) == 0 {
		b.WriteString(s.style(util.ColorDim, "No data"))
		b.WriteString("\n")
		_, err := io.WriteString(s.out, b.String())
		return err
	}

	labelWidth, valueWidth := 0, 0
	maxValue := 0.0
	for _, p := range data.Points {
		labelWidth = max(labelWidth, util.GetDisplayWidth(p.Date))
		valueWidth = max(valueWidth, util.GetDisplayWidth(util.FormatAmount(p.Value)))
		maxValue = math.Max(maxValue, p.Value)
	}

	// label | bar value
	barSpace := width - labelWidth - valueWidth - 5
	if barSpace < 1 {
		barSpace = 1
	}

	for _, p := range data.Points {
		n := 0
		if maxValue > 0 && p.Value > 0 {
			n = int(math.Round(p.Value / maxValue * float64(barSpace)))
			if n == 0 {
				n = 1
			}
		}
		bar := strings.Repeat(barGlyph, n)

		b.WriteString(util.PadString(p.Date, labelWidth, true))
		b.WriteString(" │ ")
		b.WriteString(s.style(util.HexToANSI(p.Color), bar))
		b.WriteString(strings.Repeat(" ", barSpace-n+1))
		b.WriteString(util.PadString(util.FormatAmount(p.Value), valueWidth, false))
		b.WriteString("\n")
	}

	_, err := io.WriteString(s.out, b.String())
	return err
}

// Destroy marks the surface unusable.
func (s *TerminalSurface) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyed = true
	return nil
}

func (s *TerminalSurface) style(code, text string) string {
	if !s.color || code == "" {
		return text
	}
	return code + text + util.ColorReset
}

// cssToHex converts "rgba(r, g, b, a)" to "#RRGGBB"; anything else is returned unchanged.
func cssToHex(css string) string {
	var r, g, b int
	var a float64
	if _, err := fmt.Sscanf(css, "rgba(%d, %d, %d, %g)", &r, &g, &b, &a); err != nil {
		return css
	}
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
