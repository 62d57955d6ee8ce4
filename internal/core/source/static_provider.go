package source

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/util"
)

//go:embed fixture.json
var embeddedFixture []byte

// StaticProvider serves the embedded sales fixture, or a fixture file from disk
// when one is configured. The file is re-read on every load so edits show up.
type StaticProvider struct {
	fixturePath string
}

// NewStaticProvider creates a provider for the embedded fixture.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// NewFileProvider creates a static provider reading path instead of the embedded fixture.
func NewFileProvider(path string) *StaticProvider {
	return &StaticProvider{fixturePath: path}
}

// Load decodes the fixture. It never touches the network.
func (p *StaticProvider) Load(ctx context.Context) ([]model.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := embeddedFixture
	if p.fixturePath != "" {
		fileData, err := os.ReadFile(p.fixturePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read fixture %s: %w", p.fixturePath, err)
		}
		data = fileData
	}

	records, err := model.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	util.LogDebugf("Loaded %d records from %s", len(records), p.Name())
	return records, nil
}

// FixturePath returns the on-disk fixture, or "" for the embedded one.
func (p *StaticProvider) FixturePath() string {
	return p.fixturePath
}

func (p *StaticProvider) Name() string {
	if p.fixturePath != "" {
		return "file"
	}
	return "static"
}
