package aggregator

import (
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when ordering flattened labels.
var dateLayouts = []string{
	"2006",
	"2006-01",
	"2006/01",
	"2006/01/02",
	"2006-01-02",
	time.RFC3339,
}

// Flatten reshapes nested year→month→day records into one point per bucket of g,
// sorted ascending by date. Repeated years across records are not merged. An
// unknown granularity yields an empty series.
func Flatten(records []model.RawRecord, g model.Granularity) []model.FlattenedPoint {
	flattened := make([]model.FlattenedPoint, 0)

	for _, record := range records {
		for _, year := range record.Years {
			switch g {
			case model.GranularityYear:
				flattened = append(flattened, model.FlattenedPoint{
					Date:  year.Year,
					Value: sumYear(year),
				})
			case model.GranularityMonth:
				for _, group := range year.Months {
					for _, month := range group.Entries {
						flattened = append(flattened, model.FlattenedPoint{
							Date:  year.Year + "-" + month.Month,
							Value: sumDays(month.Days).InexactFloat64(),
						})
					}
				}
			case model.GranularityDay:
				for _, group := range year.Months {
					for _, month := range group.Entries {
						for _, day := range month.Days {
							for _, entry := range day.Entries {
								flattened = append(flattened, model.FlattenedPoint{
									Date:  DayLabel(entry.Label),
									Value: entry.Value,
								})
							}
						}
					}
				}
			}
		}
	}

	SortByDate(flattened)
	return flattened
}

// DayLabel returns the date portion of a composite "YYYY/MM/DD , HH:MM:SS" key.
func DayLabel(label string) string {
	return strings.Split(label, model.DayLabelSeparator)[0]
}

func sumYear(year model.YearEntry) float64 {
	total := decimal.Zero
	for _, group := range year.Months {
		for _, month := range group.Entries {
			total = total.Add(sumDays(month.Days))
		}
	}
	return total.InexactFloat64()
}

func sumDays(days []model.DayGroup) decimal.Decimal {
	total := decimal.Zero
	for _, day := range days {
		for _, entry := range day.Entries {
			total = total.Add(decimal.NewFromFloat(entry.Value))
		}
	}
	return total
}

// ParseLabelDate parses a flattened label; year and year-month labels resolve to
// the first day of the period in UTC.
func ParseLabelDate(label string) (time.Time, bool) {
	label = strings.TrimSpace(label)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByDate orders points ascending by parsed date. The sort is stable, and labels
// that do not parse go after every parseable one in their input order.
func SortByDate(points []model.FlattenedPoint) {
	type sortKey struct {
		t  time.Time
		ok bool
	}
	keys := make(map[string]sortKey, len(points))
	for _, p := range points {
		if _, seen := keys[p.Date]; !seen {
			t, ok := ParseLabelDate(p.Date)
			keys[p.Date] = sortKey{t: t, ok: ok}
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		a, b := keys[points[i].Date], keys[points[j].Date]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		return a.t.Before(b.t)
	})
}

// Totals returns the exact sum of all point values.
func Totals[P model.Valued](points []P) float64 {
	total := decimal.Zero
	for _, p := range points {
		total = total.Add(decimal.NewFromFloat(p.Amount()))
	}
	return total.InexactFloat64()
}
