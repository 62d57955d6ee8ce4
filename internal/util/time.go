package util

import (
	"fmt"
	"sync"
	"time"
)

// StampLayout is used for "last updated" stamps in the viewer
const StampLayout = "15:04:05"

// Clock formats timestamps in a configured time zone
type Clock struct {
	mu       sync.RWMutex
	location *time.Location
}

var (
	globalClock   *Clock
	globalClockMu sync.Mutex
)

// InitClock replaces the global clock. "" and "Local" select the local zone.
func InitClock(timezone string) error {
	clock := &Clock{}
	if err := clock.SetTimezone(timezone); err != nil {
		return err
	}

	globalClockMu.Lock()
	globalClock = clock
	globalClockMu.Unlock()
	return nil
}

// GetClock returns the global clock, initializing it to the local zone on first use
func GetClock() *Clock {
	globalClockMu.Lock()
	defer globalClockMu.Unlock()
	if globalClock == nil {
		globalClock = &Clock{location: time.Local}
	}
	return globalClock
}

// ValidateTimezone reports whether timezone can be loaded
func ValidateTimezone(timezone string) error {
	_, err := loadLocation(timezone)
	return err
}

// SetTimezone changes the clock's zone
func (c *Clock) SetTimezone(timezone string) error {
	loc, err := loadLocation(timezone)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.location = loc
	c.mu.Unlock()
	return nil
}

// Location returns the configured zone
func (c *Clock) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.location
}

// Stamp formats t with StampLayout; the zero time renders as "never"
func (c *Clock) Stamp(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.In(c.Location()).Format(StampLayout)
}

func loadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w (examples: Local, UTC, Europe/London)", timezone, err)
	}
	return loc, nil
}
