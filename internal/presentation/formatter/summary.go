package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/data/aggregator"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// SummaryFormatter writes totals and extremes of a series.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

// Format writes the bucket count, the total, the average and the highest and lowest buckets.
func (f *SummaryFormatter) Format(points []model.ColoredPoint) error {
	var b strings.Builder

	b.WriteString("=== Sales Summary ===\n")
	fmt.Fprintf(&b, "Buckets: %d\n", len(points))

	if len(points) == 0 {
		b.WriteString("Total:   0\n")
		_, err := io.WriteString(f.w, b.String())
		return err
	}

	highest, lowest := points[0], points[0]
	for _, p := range points[1:] {
		if p.Value > highest.Value {
			highest = p
		}
		if p.Value < lowest.Value {
			lowest = p
		}
	}

	sum := aggregator.Totals(points)
	average := decimal.NewFromFloat(sum).Div(decimal.NewFromInt(int64(len(points)))).Round(2).InexactFloat64()

	fmt.Fprintf(&b, "Total:   %s\n", util.FormatAmount(sum))
	fmt.Fprintf(&b, "Average: %s\n", util.FormatAmount(average))
	fmt.Fprintf(&b, "Highest: %s (%s)\n", highest.Date, util.FormatAmount(highest.Value))
	fmt.Fprintf(&b, "Lowest:  %s (%s)\n", lowest.Date, util.FormatAmount(lowest.Value))

	_, err := io.WriteString(f.w, b.String())
	return err
}
