package formatter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: w}
}

func (f *CSVFormatter) Format(points []model.ColoredPoint) error {
	w := csv.NewWriter(f.w)

	if err := w.Write([]string{"Date", "Sales", "Color"}); err != nil {
		return err
	}

	for _, p := range points {
		record := []string{
			p.Date,
			strconv.FormatFloat(p.Value, 'f', -1, 64),
			p.Color,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
