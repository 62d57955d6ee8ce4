//go:build e2e
// +build e2e

package commands

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-sales-chart/internal/testing/e2e"
	"github.com/penwyp/go-sales-chart/internal/testing/fixtures"
)

// buildBinary compiles the CLI into a temp dir
func buildBinary(t *testing.T) string {
	t.Helper()
	binaryPath := filepath.Join(t.TempDir(), "go-sales-chart")
	buildCmd := exec.Command("go", "build", "-o", binaryPath, "..")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, output)
	}
	return binaryPath
}

func startWatch(t *testing.T, binaryPath string, args ...string) *e2e.TUITestSession {
	t.Helper()
	session, err := e2e.NewTUITestSession(&e2e.TUITestConfig{
		Command: binaryPath,
		Args:    append([]string{"watch"}, args...),
		Env:     []string{fmt.Sprintf("HOME=%s", t.TempDir())},
		Timeout: 15 * time.Second,
		Rows:    40,
		Cols:    100,
	})
	require.NoError(t, err, "Failed to start TUI session")
	t.Cleanup(session.ForceStop)
	return session
}

func TestWatchStaticSwitchesGranularity(t *testing.T) {
	session := startWatch(t, buildBinary(t), "--static")

	require.NoError(t, session.ExpectScreen("Granularity: day  Source: static", 5*time.Second))
	require.NoError(t, session.ExpectScreen("2021/01/01", 5*time.Second))

	require.NoError(t, session.SendKey('y'))
	require.NoError(t, session.ExpectScreen("Granularity: year", 5*time.Second))

	screen := session.Screenshot()
	assert.Contains(t, screen, "2021 │")
	assert.Contains(t, screen, "2024 │")
	assert.NotContains(t, screen, "2021/01/01")

	require.NoError(t, session.SendKey('2'))
	require.NoError(t, session.ExpectScreen("Selected 2022 (1 matching records)", 5*time.Second))

	assert.NoError(t, session.Stop(5*time.Second))
}

func TestWatchReloadsChangedFixture(t *testing.T) {
	gen := fixtures.NewSalesDataGenerator(t.TempDir())
	path, err := gen.GenerateQuarter("sales.json", "2030")
	require.NoError(t, err)

	session := startWatch(t, buildBinary(t), "--static", "--fixture", path, "-g", "year")
	require.NoError(t, session.ExpectScreen("2030 │", 5*time.Second))

	_, err = gen.GenerateMultiYear("sales.json", "2031")
	require.NoError(t, err)
	require.NoError(t, session.ExpectScreen("2031 │", 5*time.Second))
	assert.NotContains(t, session.Screenshot(), "2030 │")

	assert.NoError(t, session.Stop(5*time.Second))
}
