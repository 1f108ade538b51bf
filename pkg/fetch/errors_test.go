package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &FetchError{
		Service:    "branding",
		URL:        "https://branding.files.bbci.co.uk/branding/live/projects/br-123.json",
		ErrorClass: ErrorClassNetwork,
		Err:        cause,
	}

	if !errors.Is(err, ErrFetch) {
		t.Error("FetchError should match ErrFetch")
	}
	if !errors.Is(err, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Error("FetchError should not match ErrMalformedResponse")
	}

	want := "invalid branding response: could not get data from webservice (network error): connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	wrapped := fmt.Errorf("get content: %w", err)
	var fetchErr *FetchError
	if !errors.As(wrapped, &fetchErr) {
		t.Fatal("errors.As should find FetchError through wrapping")
	}
}

func TestFetchError_NotFound(t *testing.T) {
	err := &FetchError{Service: "orbit", StatusCode: http.StatusNotFound, ErrorClass: ErrorClassNotFound}
	if !err.NotFound() {
		t.Error("NotFound() should be true for 404")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("Error() = %q, want status in message", err.Error())
	}

	err.StatusCode = http.StatusInternalServerError
	if err.NotFound() {
		t.Error("NotFound() should be false for 500")
	}
}

func TestMalformedResponseError(t *testing.T) {
	err := &MalformedResponseError{Service: "orbit", Reason: "(root): head is required"}

	if !errors.Is(err, ErrMalformedResponse) {
		t.Error("MalformedResponseError should match ErrMalformedResponse")
	}
	if errors.Is(err, ErrFetch) {
		t.Error("MalformedResponseError should not match ErrFetch")
	}

	want := "invalid orbit response: response JSON object was invalid or malformed: (root): head is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{status: 400, want: ErrorClassClient},
		{status: 403, want: ErrorClassClient},
		{status: 404, want: ErrorClassNotFound},
		{status: 429, want: ErrorClassClient},
		{status: 500, want: ErrorClassServer},
		{status: 503, want: ErrorClassServer},
		{status: 304, want: ErrorClassServer},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.want {
				t.Errorf("classifyStatus(%d) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: ErrorClassTimeout},
		{name: "wrapped deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: ErrorClassTimeout},
		{name: "net timeout", err: timeoutErr{}, want: ErrorClassTimeout},
		{name: "connection refused", err: errors.New("connection refused"), want: ErrorClassNetwork},
		{name: "cancelled", err: context.Canceled, want: ErrorClassNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyErr(tt.err); got != tt.want {
				t.Errorf("classifyErr() = %s, want %s", got, tt.want)
			}
		})
	}
}
