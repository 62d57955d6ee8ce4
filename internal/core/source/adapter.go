package source

import (
	"context"
	"time"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/util"
)

// SourceConfig selects the endpoint and fixture used by an Adapter.
type SourceConfig struct {
	URL         string        `json:"url"`
	Timeout     time.Duration `json:"timeout"`
	FixturePath string        `json:"fixturePath"`
}

// Result is the outcome of one load. Exactly one of Records or Err is meaningful.
type Result struct {
	Records  []model.RawRecord
	Err      error
	Provider string
}

// Message returns the user-facing error text, or "" on success.
func (r Result) Message() string {
	return UserMessage(r.Err)
}

// Adapter picks the static or remote provider per load and normalizes failures.
type Adapter struct {
	static Provider
	remote Provider
}

// NewAdapter creates an adapter over explicit providers.
func NewAdapter(static, remote Provider) *Adapter {
	return &Adapter{static: static, remote: remote}
}

// CreateAdapter builds the providers described by cfg.
func CreateAdapter(cfg *SourceConfig) *Adapter {
	var static Provider = NewStaticProvider()
	if cfg.FixturePath != "" {
		static = NewFileProvider(cfg.FixturePath)
	}
	remote := NewRemoteProvider(cfg.URL, cfg.Timeout)

	util.LogDebugf("Created source adapter: static=%s, remote=%s, timeout=%s",
		static.Name(), remote.URL(), cfg.Timeout)
	return NewAdapter(static, remote)
}

// Load runs one load and always returns. Errors are *NetworkError or *UnknownError.
func (a *Adapter) Load(ctx context.Context, useStatic bool) (result Result) {
	provider := a.remote
	if useStatic {
		provider = a.static
	}
	result.Provider = provider.Name()

	defer func() {
		if r := recover(); r != nil {
			util.LogErrorf("Provider %s panicked: %v", result.Provider, r)
			result = Result{Err: panicError(r), Provider: result.Provider}
		}
	}()

	records, err := provider.Load(ctx)
	if err != nil {
		result.Err = normalize(err)
		util.LogWarnf("Load from %s failed: %v", result.Provider, err)
		return result
	}

	result.Records = records
	return result
}

// LoadAsync runs Load on its own goroutine. The channel yields one Result and is closed.
func (a *Adapter) LoadAsync(ctx context.Context, useStatic bool) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- a.Load(ctx, useStatic)
	}()
	return ch
}
