package fixtures

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

// DayLabelFormat is the composite label used by the sales payload
const DayLabelFormat = "%s/%s/%02d , 00:00:00"

// SalesDataGenerator generates sales payload files for tests
type SalesDataGenerator struct {
	baseDir string
}

// NewSalesDataGenerator creates a generator writing under baseDir
func NewSalesDataGenerator(baseDir string) *SalesDataGenerator {
	return &SalesDataGenerator{
		baseDir: baseDir,
	}
}

// YearRecord builds a record for one year. Every month in months gets days
// entries; values start at start and grow by step per entry.
func YearRecord(year string, months []string, days int, start, step float64) model.RawRecord {
	entry := model.YearEntry{Year: year}
	value := start
	for _, month := range months {
		m := model.MonthEntry{Month: month}
		for d := 1; d <= days; d++ {
			m.Days = append(m.Days, model.DayGroup{Entries: []model.DayEntry{{
				Label: fmt.Sprintf(DayLabelFormat, year, month, d),
				Value: value,
			}}})
			value += step
		}
		entry.Months = append(entry.Months, model.MonthGroup{Entries: []model.MonthEntry{m}})
	}
	return model.RawRecord{Years: []model.YearEntry{entry}}
}

// Encode renders records as a sales payload
func Encode(records []model.RawRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		data, err := rec.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// WriteFixture writes records to name under the base directory and returns the path
func (g *SalesDataGenerator) WriteFixture(name string, records ...model.RawRecord) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}

	data, err := Encode(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode fixture: %w", err)
	}

	path := filepath.Join(g.baseDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// GenerateQuarter writes a single-year fixture covering January to March,
// three days per month, values 100, 110, 120, ...
func (g *SalesDataGenerator) GenerateQuarter(name, year string) (string, error) {
	return g.WriteFixture(name, YearRecord(year, []string{"01", "02", "03"}, 3, 100, 10))
}

// GenerateMultiYear writes one record per year in the given (possibly unsorted) order
func (g *SalesDataGenerator) GenerateMultiYear(name string, years ...string) (string, error) {
	records := make([]model.RawRecord, 0, len(years))
	for i, year := range years {
		records = append(records, YearRecord(year, []string{"06"}, 2, float64(1000*(i+1)), 1))
	}
	return g.WriteFixture(name, records...)
}
