package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/data/aggregator"
	"github.com/penwyp/go-sales-chart/internal/util"
)

type TableFormatter struct {
	w       io.Writer
	headers []string
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w:       w,
		headers: []string{"Date", "Sales", "Color"},
	}
}

func (f *TableFormatter) Format(points []model.ColoredPoint) error {
	var b strings.Builder

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date, util.FormatAmount(p.Value), p.Color})
	}
	totalRow := []string{"Total", util.FormatAmount(aggregator.Totals(points)), ""}

	widths := f.calculateColumnWidths(rows, totalRow)

	f.writeBorder(&b, widths, "top")
	f.writeRow(&b, f.headers, widths)
	f.writeBorder(&b, widths, "middle")
	for _, row := range rows {
		f.writeRow(&b, row, widths)
	}
	f.writeBorder(&b, widths, "middle")
	f.writeRow(&b, totalRow, widths)
	f.writeBorder(&b, widths, "bottom")

	_, err := io.WriteString(f.w, b.String())
	return err
}

// calculateColumnWidths determines the width of each column from its content
func (f *TableFormatter) calculateColumnWidths(rows [][]string, total []string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}

	for _, row := range append(rows, total) {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	// Minimum width for readability
	for i := range widths {
		if widths[i] < 8 {
			widths[i] = 8
		}
	}
	return widths
}

// writeBorder writes a top, middle or bottom border
func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// writeRow writes one row; the Sales column is right-aligned
func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		fmt.Fprintf(b, " %s │", util.PadString(value, widths[i], i != 1))
	}
	b.WriteString("\n")
}
