package model

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// RawRecord is one top-level element of the sales payload:
//
//	{"2021": [{"01": [{"2021/01/01 , 00:00:00": 100}, ...]}, ...]}
//
// Object keys keep their input order at every level.
type RawRecord struct {
	Years []YearEntry
}

// YearEntry is a single year key with its month groups.
type YearEntry struct {
	Year   string
	Months []MonthGroup
}

// MonthGroup is one element of a year's array; it maps month keys to day groups.
type MonthGroup struct {
	Entries []MonthEntry
}

// MonthEntry is a single month key with its day groups.
type MonthEntry struct {
	Month string
	Days  []DayGroup
}

// DayGroup is one element of a month's array; it maps day labels to values.
type DayGroup struct {
	Entries []DayEntry
}

// DayEntry is a single composite date-time label and its sale amount.
type DayEntry struct {
	Label string
	Value float64
}

// FlattenedPoint is one aggregated bar.
type FlattenedPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ColoredPoint is a flattened point with its assigned bar color.
type ColoredPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Valued is any series point carrying a sale amount.
type Valued interface {
	Amount() float64
}

func (p FlattenedPoint) Amount() float64 { return p.Value }

func (p ColoredPoint) Amount() float64 { return p.Value }

// HasYear reports whether any top-level key of the record equals year.
func (r RawRecord) HasYear(year string) bool {
	for _, y := range r.Years {
		if y.Year == year {
			return true
		}
	}
	return false
}

// DayCount returns the number of day-level entries in the record.
func (r RawRecord) DayCount() int {
	n := 0
	for _, y := range r.Years {
		for _, mg := range y.Months {
			for _, m := range mg.Entries {
				for _, dg := range m.Days {
					n += len(dg.Entries)
				}
			}
		}
	}
	return n
}

// DecodeRecords parses a sales payload. Only invalid JSON is an error; nodes of
// the wrong shape are skipped so a malformed payload yields partial or empty records.
func DecodeRecords(data []byte) ([]RawRecord, error) {
	if !sonic.Valid(data) {
		return nil, fmt.Errorf("invalid JSON payload (%d bytes)", len(data))
	}

	root, err := sonic.Get(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}
	if root.Type() != ast.V_ARRAY {
		util.LogDebugf("Records payload is not an array (type %d), treating as empty", root.Type())
		return []RawRecord{}, nil
	}

	records := make([]RawRecord, 0)
	eachElement(&root, func(n *ast.Node) {
		var rec RawRecord
		eachProperty(n, func(year string, months *ast.Node) {
			entry := YearEntry{Year: year}
			eachElement(months, func(mn *ast.Node) {
				entry.Months = append(entry.Months, decodeMonthGroup(mn))
			})
			rec.Years = append(rec.Years, entry)
		})
		records = append(records, rec)
	})

	return records, nil
}

func decodeMonthGroup(n *ast.Node) MonthGroup {
	var group MonthGroup
	eachProperty(n, func(month string, days *ast.Node) {
		entry := MonthEntry{Month: month}
		eachElement(days, func(dn *ast.Node) {
			var day DayGroup
			eachProperty(dn, func(label string, v *ast.Node) {
				if v.Type() != ast.V_NUMBER {
					util.LogDebugf("Skipping non-numeric value for %s", label)
					return
				}
				value, err := v.Float64()
				if err != nil {
					util.LogDebugf("Skipping unreadable value for %s: %v", label, err)
					return
				}
				day.Entries = append(day.Entries, DayEntry{Label: label, Value: value})
			})
			entry.Days = append(entry.Days, day)
		})
		group.Entries = append(group.Entries, entry)
	})
	return group
}

// eachElement visits array elements in order; non-arrays are skipped.
func eachElement(n *ast.Node, fn func(*ast.Node)) {
	if n == nil || n.Type() != ast.V_ARRAY {
		return
	}
	it, err := n.Values()
	if err != nil {
		util.LogDebugf("Failed to iterate array: %v", err)
		return
	}
	var elem ast.Node
	for it.HasNext() {
		if !it.Next(&elem) {
			break
		}
		e := elem
		fn(&e)
	}
}

// eachProperty visits object members in input order, duplicates included.
func eachProperty(n *ast.Node, fn func(string, *ast.Node)) {
	if n == nil || n.Type() != ast.V_OBJECT {
		return
	}
	it, err := n.Properties()
	if err != nil {
		util.LogDebugf("Failed to iterate object: %v", err)
		return
	}
	var pair ast.Pair
	for it.HasNext() {
		if !it.Next(&pair) {
			break
		}
		v := pair.Value
		fn(pair.Key, &v)
	}
}

// MarshalJSON writes the record back in its nested-object shape, keeping key order.
func (r RawRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, y := range r.Years {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, y.Year); err != nil {
			return nil, err
		}
		buf.WriteByte('[')
		for j, mg := range y.Months {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeMonthGroup(&buf, mg); err != nil {
				return nil, err
			}
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMonthGroup(buf *bytes.Buffer, mg MonthGroup) error {
	buf.WriteByte('{')
	for i, m := range mg.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(buf, m.Month); err != nil {
			return err
		}
		buf.WriteByte('[')
		for j, dg := range m.Days {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('{')
			for k, d := range dg.Entries {
				if k > 0 {
					buf.WriteByte(',')
				}
				if err := writeKey(buf, d.Label); err != nil {
					return err
				}
				buf.WriteString(strconv.FormatFloat(d.Value, 'f', -1, 64))
			}
			buf.WriteByte('}')
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	quoted, err := sonic.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to encode key %q: %w", key, err)
	}
	buf.Write(quoted)
	buf.WriteByte(':')
	return nil
}
