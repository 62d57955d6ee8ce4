package formatter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/data/aggregator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []model.ColoredPoint {
	return []model.ColoredPoint{
		{Date: "2021-01", Value: 1200.5, Color: "#112233"},
		{Date: "2021-02", Value: 300, Color: "#445566"},
		{Date: "2022-01", Value: 0.1, Color: "#778899"},
	}
}

func TestNew(t *testing.T) {
	for _, name := range Formats() {
		t.Run(name, func(t *testing.T) {
			f, err := New(strings.ToUpper(name), &bytes.Buffer{})
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}

	_, err := New("xml", &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown output format")
}

func TestTableFormatter(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewTableFormatter(&out).Format(samplePoints()))

	text := out.String()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	// border, header, separator, 3 rows, separator, total, border
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[1], "Date")
	assert.Contains(t, lines[3], "2021-01")
	assert.Contains(t, lines[3], "1,200.50")
	assert.Contains(t, lines[3], "#112233")
	assert.Contains(t, lines[7], "Total")
	assert.Contains(t, lines[7], "1,500.60")
	assert.True(t, strings.HasPrefix(lines[8], "└"))

	// Every line has the same display width
	for _, line := range lines[1:] {
		assert.Equal(t, len([]rune(lines[0])), len([]rune(line)), line)
	}
}

func TestTableFormatterEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewTableFormatter(&out).Format(nil))
	assert.Contains(t, out.String(), "Total")
}

func TestJSONFormatter(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewJSONFormatter(&out).Format(samplePoints()))

	var decoded []model.ColoredPoint
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, samplePoints(), decoded)
	assert.Contains(t, out.String(), `"date": "2021-01"`)

	out.Reset()
	require.NoError(t, NewJSONFormatter(&out).Format(nil))
	assert.Equal(t, "[]\n", out.String())
}

func TestCSVFormatter(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewCSVFormatter(&out).Format(samplePoints()))

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"Date", "Sales", "Color"}, records[0])
	assert.Equal(t, []string{"2021-01", "1200.5", "#112233"}, records[1])
	assert.Equal(t, []string{"2022-01", "0.1", "#778899"}, records[3])
}

func TestSummaryFormatter(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewSummaryFormatter(&out).Format(samplePoints()))

	text := out.String()
	assert.Contains(t, text, "Buckets: 3")
	assert.Contains(t, text, "Total:   1,500.60")
	assert.Contains(t, text, "Average: 500.20")
	assert.Contains(t, text, "Highest: 2021-01 (1,200.50)")
	assert.Contains(t, text, "Lowest:  2022-01 (0.10)")

	out.Reset()
	require.NoError(t, NewSummaryFormatter(&out).Format(nil))
	assert.Contains(t, out.String(), "Buckets: 0")
}

func TestTableAndSummaryTotalsAreExact(t *testing.T) {
	points := []model.ColoredPoint{
		{Date: "2021", Value: 0.1, Color: "#000001"},
		{Date: "2022", Value: 0.2, Color: "#000002"},
	}

	var table, summary bytes.Buffer
	require.NoError(t, NewTableFormatter(&table).Format(points))
	require.NoError(t, NewSummaryFormatter(&summary).Format(points))

	// Footers use the shared decimal sum
	assert.Equal(t, 0.3, aggregator.Totals(points))
	assert.Contains(t, table.String(), "0.30")
	assert.Contains(t, summary.String(), "Total:   0.30")
	assert.Contains(t, summary.String(), "Average: 0.15")
}
