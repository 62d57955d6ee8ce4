package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tinyPayload = `[{"2021": [{"01": [{"2021/01/01 , 00:00:00": 100}, {"2021/01/02 , 00:00:00": 200}]}]}]`

func countingServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestStaticProviderEmbeddedFixture(t *testing.T) {
	provider := NewStaticProvider()
	assert.Equal(t, "static", provider.Name())

	records, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)

	years := make([]string, 0, len(records))
	days := 0
	for _, r := range records {
		require.Len(t, r.Years, 1)
		years = append(years, r.Years[0].Year)
		days += r.DayCount()
	}
	assert.Equal(t, []string{"2023", "2021", "2024", "2022"}, years)
	assert.Equal(t, 24, days)
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyPayload), 0644))

	provider := NewFileProvider(path)
	assert.Equal(t, "file", provider.Name())
	assert.Equal(t, path, provider.FixturePath())

	records, err := provider.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].DayCount())

	_, err = NewFileProvider(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)
}

func TestRemoteProviderSuccess(t *testing.T) {
	server, hits := countingServer(t, http.StatusOK, tinyPayload)

	provider := NewRemoteProvider(server.URL, 5*time.Second)
	records, err := provider.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2021", records[0].Years[0].Year)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestRemoteProviderDefaults(t *testing.T) {
	provider := NewRemoteProvider("", 0)
	assert.Equal(t, DefaultRemoteURL, provider.URL())
	assert.Equal(t, DefaultTimeout, provider.httpClient.Timeout)
	assert.Equal(t, "remote", provider.Name())
}

func TestRemoteProviderStatusError(t *testing.T) {
	server, _ := countingServer(t, http.StatusInternalServerError, `{"detail":"boom"}`)

	_, err := NewRemoteProvider(server.URL, 5*time.Second).Load(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, http.StatusInternalServerError, netErr.StatusCode)
	assert.Equal(t, NetworkFailureMessage, netErr.Error())
	assert.Equal(t, NetworkFailureMessage, UserMessage(err))
}

func TestRemoteProviderMalformedShapeAccepted(t *testing.T) {
	server, _ := countingServer(t, http.StatusOK, `{"unexpected": true}`)

	records, err := NewRemoteProvider(server.URL, 5*time.Second).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRemoteProviderInvalidJSON(t *testing.T) {
	server, _ := countingServer(t, http.StatusOK, `<html>`)

	_, err := NewRemoteProvider(server.URL, 5*time.Second).Load(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
}

func TestRemoteProviderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	_, err := NewRemoteProvider(server.URL, 50*time.Millisecond).Load(context.Background())

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Zero(t, netErr.StatusCode)
	assert.NotEmpty(t, netErr.Message)
}

func TestAdapterLoadStaticSkipsNetwork(t *testing.T) {
	server, hits := countingServer(t, http.StatusOK, tinyPayload)
	adapter := CreateAdapter(&SourceConfig{URL: server.URL, Timeout: time.Second})

	result := adapter.Load(context.Background(), true)

	require.NoError(t, result.Err)
	assert.Equal(t, "static", result.Provider)
	assert.Len(t, result.Records, 4)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestAdapterLoadRemoteFailure(t *testing.T) {
	server, hits := countingServer(t, http.StatusInternalServerError, "")
	adapter := CreateAdapter(&SourceConfig{URL: server.URL, Timeout: time.Second})

	result := adapter.Load(context.Background(), false)

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	assert.Nil(t, result.Records)
	var netErr *NetworkError
	require.ErrorAs(t, result.Err, &netErr)
	assert.Equal(t, "Network response was not ok", result.Message())
}

func TestAdapterNormalizesUnknownErrors(t *testing.T) {
	server, _ := countingServer(t, http.StatusOK, `not json`)
	adapter := CreateAdapter(&SourceConfig{URL: server.URL, Timeout: time.Second})

	result := adapter.Load(context.Background(), false)

	var unknownErr *UnknownError
	require.ErrorAs(t, result.Err, &unknownErr)
	assert.Equal(t, UnknownFailureMessage, result.Message())
	assert.NotNil(t, errors.Unwrap(unknownErr))
}

type panickingProvider struct{}

func (panickingProvider) Load(context.Context) ([]model.RawRecord, error) {
	panic("fixture exploded")
}

func (panickingProvider) Name() string { return "panicking" }

func TestAdapterRecoversFromPanic(t *testing.T) {
	adapter := NewAdapter(panickingProvider{}, panickingProvider{})

	result := adapter.Load(context.Background(), true)

	assert.Equal(t, "panicking", result.Provider)
	assert.ErrorIs(t, result.Err, ErrProviderPanicked)
	assert.Equal(t, UnknownFailureMessage, result.Message())
}

func TestAdapterLoadAsync(t *testing.T) {
	adapter := CreateAdapter(&SourceConfig{})

	ch := adapter.LoadAsync(context.Background(), true)

	select {
	case result, ok := <-ch:
		require.True(t, ok)
		require.NoError(t, result.Err)
		assert.Len(t, result.Records, 4)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not resolve")
	}

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after the single result")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "boom", UserMessage(&NetworkError{Message: "boom"}))
	assert.Equal(t, UnknownFailureMessage, UserMessage(errors.New("anything")))
}

func TestFixtureWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyPayload), 0644))

	watcher, err := NewFixtureWatcher(path)
	require.NoError(t, err)
	defer watcher.Close()

	// Unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("[]"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	select {
	case event := <-watcher.Events():
		assert.Equal(t, "fixture.json", filepath.Base(event.Path))
	case <-time.After(5 * time.Second):
		t.Fatal("no fixture event received")
	}

	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close())
}
