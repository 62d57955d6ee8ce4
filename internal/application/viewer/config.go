package viewer

import (
	"fmt"
	"time"

	"github.com/penwyp/go-sales-chart/internal/application/state"
	"github.com/penwyp/go-sales-chart/internal/core/model"
)

// ViewerConfig contains configuration for the interactive chart view
type ViewerConfig struct {
	// Initial selector values
	Granularity model.Granularity
	UseStatic   bool

	// Fixture file to watch for changes; empty disables watching
	FixturePath string

	// Display settings
	Title    string
	ErrorTTL time.Duration
	Color    bool
	Width    int
}

// Validate checks if the configuration is valid
func (c *ViewerConfig) Validate() error {
	if c.Granularity == "" {
		c.Granularity = model.DefaultGranularity
	}
	if !c.Granularity.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownGranularity, c.Granularity)
	}
	if c.ErrorTTL <= 0 {
		c.ErrorTTL = state.DefaultErrorTTL
	}
	return nil
}
