// Package testutil provides testing utilities for the branding and orbit clients.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock upstream response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockUpstream is a configurable mock of the branding and orbit web services.
type MockUpstream struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	requestCount      int
	lastRequestPath   string
	lastRequestHeader http.Header
}

// NewMockUpstream creates a new mock upstream server.
func NewMockUpstream() *MockUpstream {
	mock := &MockUpstream{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.lastRequestPath = r.URL.Path
		mock.lastRequestHeader = r.Header.Clone()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUpstream) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockUpstream) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.lastRequestPath = ""
	m.lastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockUpstream) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockUpstream) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			select {
			case <-time.After(resp.Delay):
			case <-r.Context().Done():
				return
			}
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns the number of requests made to the server.
func (m *MockUpstream) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// LastRequestPath returns the path of the most recent request.
func (m *MockUpstream) LastRequestPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestPath
}

// LastRequestHeader returns the headers of the most recent request.
func (m *MockUpstream) LastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastRequestHeader.Clone()
}

// Client returns an http.Client that sends every request, whatever its host,
// to the mock server.
func (m *MockUpstream) Client() *http.Client {
	return &http.Client{Transport: &RedirectTransport{Target: m.server.URL}}
}

// RedirectTransport rewrites request scheme and host to Target.
type RedirectTransport struct {
	Target string

	// Base performs the rewritten request (nil uses http.DefaultTransport)
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *RedirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target, err := url.Parse(t.Target)
	if err != nil {
		return nil, err
	}

	req = req.Clone(req.Context())
	req.URL.Scheme = target.Scheme
	req.URL.Host = target.Host
	req.Host = target.Host

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewBrandingResponse creates a 200 response carrying a branding payload.
func NewBrandingResponse(body string, maxAge int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Cache-Control": "max-age=" + strconv.Itoa(maxAge),
		},
	}
}

// NewOrbitResponse creates a 200 response carrying an orbit payload.
func NewOrbitResponse(body string) MockResponse {
	now := time.Now().UTC()
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/ld+json",
			"Date":         now.Format(http.TimeFormat),
			"Expires":      now.Add(5 * time.Minute).Format(http.TimeFormat),
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "Not found"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewMalformedResponse creates a 200 response whose body is not JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `<html>Service Unavailable</html>`,
		Headers:    map[string]string{"Content-Type": "text/html"},
	}
}

// BrandingPayload is a complete branding web service body.
const BrandingPayload = `{
	"head": "<link rel=\"stylesheet\" href=\"branding.css\"/>",
	"bodyFirst": "<div class=\"br-masthead\"></div>",
	"bodyLast": "<script src=\"branding.js\"></script>",
	"colours": {"body": {"bg": "#1e1e1e", "text": "#ffffff"}, "highlight": {"bg": "#f54997"}},
	"options": {"language": "cy_GB", "orb_header": "white", "mastheadServiceId": "bbc_radio_cymru", "showNavBar": "radio"}
}`

// OrbitPayload is a complete orbit web service body.
const OrbitPayload = `{
	"head": {"template": "HEAD {{skipLinkTarget}}", "html": "HEAD"},
	"bodyFirst": {"template": "BODYFIRST {{skipLinkTarget}}", "html": "BODYFIRST"},
	"bodyLast": {"template": "BODYLAST", "html": "BODYLAST"}
}`
