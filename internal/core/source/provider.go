package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/penwyp/go-sales-chart/internal/core/model"
)

// Provider loads the nested sales records from one place.
type Provider interface {
	// Load returns the raw records; shapes are not validated beyond JSON syntax
	Load(ctx context.Context) ([]model.RawRecord, error)

	// Name returns the name of this provider
	Name() string
}

const (
	// NetworkFailureMessage is shown for a non-success HTTP status
	NetworkFailureMessage = "Network response was not ok"
	// UnknownFailureMessage is shown when the failure is not a recognized error
	UnknownFailureMessage = "Error occurred while fetching data"
)

// NetworkError is a non-success status or transport failure on the remote path.
type NetworkError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	return e.Message
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UnknownError wraps any failure that is not a NetworkError.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	return UnknownFailureMessage
}

func (e *UnknownError) Unwrap() error {
	return e.Err
}

// ErrProviderPanicked is wrapped into an UnknownError when a provider panics
var ErrProviderPanicked = errors.New("provider panicked")

// UserMessage returns the text surfaced to the user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Message
	}
	return UnknownFailureMessage
}

// normalize converts any provider error into a NetworkError or UnknownError.
func normalize(err error) error {
	if err == nil {
		return nil
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	var unknownErr *UnknownError
	if errors.As(err, &unknownErr) {
		return unknownErr
	}
	return &UnknownError{Err: err}
}

func panicError(v interface{}) error {
	return &UnknownError{Err: fmt.Errorf("%w: %v", ErrProviderPanicked, v)}
}
