package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

// Formatter writes a rendered series in one output format.
type Formatter interface {
	Format(points []model.ColoredPoint) error
}

// Formats lists the names accepted by New
func Formats() []string {
	return []string{"table", "json", "csv", "summary"}
}

// New returns the formatter registered under name, writing to w.
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "table":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: %s)", name, strings.Join(Formats(), ", "))
	}
}
