package model

import (
	"errors"
	"fmt"
	"strings"
)

// Granularity is the time bucket used when flattening records for display.
type Granularity string

// Granularity levels
const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"

	DefaultGranularity = GranularityDay
)

// DayLabelSeparator splits a composite day key ("2021/01/01 , 00:00:00") into date and time.
const DayLabelSeparator = " , "

// ErrUnknownGranularity is returned when a granularity string is not day, month or year
var ErrUnknownGranularity = errors.New("unknown granularity")

// Granularities lists the selectable levels in selector order.
func Granularities() []Granularity {
	return []Granularity{GranularityYear, GranularityMonth, GranularityDay}
}

// ParseGranularity parses a case-insensitive granularity name.
func ParseGranularity(s string) (Granularity, error) {
	want := Granularity(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, 0, 3)
	for _, g := range Granularities() {
		if g == want {
			return g, nil
		}
		names = append(names, string(g))
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownGranularity, s, strings.Join(names, ", "))
}

// Valid reports whether g is one of the three known levels.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

func (g Granularity) String() string {
	return string(g)
}
