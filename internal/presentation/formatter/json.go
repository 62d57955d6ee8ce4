package formatter

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

type JSONFormatter struct {
	w io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{w: w}
}

func (f *JSONFormatter) Format(points []model.ColoredPoint) error {
	if points == nil {
		points = []model.ColoredPoint{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(points, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = f.w.Write(data)
	return err
}
