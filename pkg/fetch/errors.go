package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinels matched by the typed errors below, for use with errors.Is.
var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrFetch is matched by every *FetchError.
	ErrFetch = errors.New("could not get data from webservice")

	// ErrMalformedResponse is matched by every *MalformedResponseError.
	ErrMalformedResponse = errors.New("response JSON object was invalid or malformed")
)

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 404.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassNotFound represents 404 responses. These never fall back to stale data.
	ErrorClassNotFound ErrorClass = "not_found"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents connection errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassTimeout represents requests that exceeded their deadline.
	ErrorClassTimeout ErrorClass = "timeout"
)

// ConfigurationError is returned by client constructors for invalid options.
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return e.Message
}

// Is matches ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// FetchError is returned when upstream data could not be retrieved and no
// stale copy was available, or when upstream answered 404.
type FetchError struct {
	Service    string
	URL        string
	StatusCode int
	ErrorClass ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("invalid %s response: %s", e.Service, ErrFetch)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (%s error, status %d)", e.ErrorClass, e.StatusCode)
	} else {
		msg += fmt.Sprintf(" (%s error)", e.ErrorClass)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// NotFound reports whether upstream answered 404.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// MalformedResponseError is returned when upstream answered but the payload is
// not JSON or lacks required fields. Cached data never masks it.
type MalformedResponseError struct {
	Service string
	URL     string
	Reason  string
	Err     error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("invalid %s response: %s", e.Service, ErrMalformedResponse)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is matches ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// classifyStatus categorizes a non-2xx HTTP status.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusNotFound:
		return ErrorClassNotFound
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		// 1xx/3xx that the transport did not follow
		return ErrorClassServer
	}
}

// classifyErr categorizes a transport error.
func classifyErr(err error) ErrorClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}

	return ErrorClassNetwork
}
