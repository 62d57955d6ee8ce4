package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-sales-chart/internal/core/model"
	"github.com/penwyp/go-sales-chart/internal/util"
)

const (
	// DefaultRemoteURL is the sales endpoint the chart reads from
	DefaultRemoteURL = "https://django-dev.aakscience.com/candidate_test/fronted"
	// DefaultTimeout bounds a single remote request
	DefaultTimeout = 30 * time.Second
)

// RemoteProvider fetches the sales records with a single HTTP GET.
type RemoteProvider struct {
	url        string
	httpClient *http.Client
}

// NewRemoteProvider creates a provider for url; an empty url uses DefaultRemoteURL
// and a non-positive timeout uses DefaultTimeout.
func NewRemoteProvider(url string, timeout time.Duration) *RemoteProvider {
	if url == "" {
		url = DefaultRemoteURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RemoteProvider{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Load performs the request. Status and transport failures come back as *NetworkError.
func (p *RemoteProvider) Load(ctx context.Context) ([]model.RawRecord, error) {
	requestID := uuid.NewString()
	log := util.F("request_id", requestID)
	util.LogWith("Fetching sales data", log, util.F("url", p.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		util.LogDebugf("Sales request %s failed: %v", requestID, err)
		return nil, &NetworkError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		util.LogWarnf("Sales request %s returned status %d", requestID, resp.StatusCode)
		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			Message:    NetworkFailureMessage,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Err:        err,
		}
	}

	records, err := model.DecodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sales data: %w", err)
	}

	util.LogWith("Fetched sales data", log,
		util.F("records", len(records)),
		util.F("bytes", len(body)),
		util.F("elapsed", time.Since(start).String()))
	return records, nil
}

// URL returns the endpoint this provider reads.
func (p *RemoteProvider) URL() string {
	return p.url
}

func (p *RemoteProvider) Name() string {
	return "remote"
}
