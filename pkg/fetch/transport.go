package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

// DefaultTimeout bounds every upstream request.
const DefaultTimeout = 3 * time.Second

// maxBodyBytes caps decoded upstream payloads.
const maxBodyBytes = 10 << 20

// ErrBodyTooLarge is returned for upstream bodies over the size cap.
var ErrBodyTooLarge = errors.New("response body too large")

// Response is an upstream reply with its body fully read and decoded.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs upstream GET requests. Any HTTP status is returned as a
// Response; errors are reserved for requests that got no reply.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) (*Response, error)
	GetAsync(ctx context.Context, url string, header http.Header) *Future[*Response]
}

// HTTPTransport is a Transport backed by net/http.
type HTTPTransport struct {
	client  *http.Client
	timeout time.Duration
	maxBody int64
}

// NewHTTPTransport wraps client. A nil client uses a fresh http.Client and a
// non-positive timeout falls back to DefaultTimeout.
func NewHTTPTransport(client *http.Client, timeout time.Duration) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{
		client:  client,
		timeout: timeout,
		maxBody: maxBodyBytes,
	}
}

// Timeout returns the per-request timeout.
func (t *HTTPTransport) Timeout() time.Duration {
	return t.timeout
}

// Get performs a GET request bounded by the transport timeout.
func (t *HTTPTransport) Get(ctx context.Context, url string, header http.Header) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp, t.maxBody)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// GetAsync performs Get in the background.
func (t *HTTPTransport) GetAsync(ctx context.Context, url string, header http.Header) *Future[*Response] {
	return Go(ctx, func(ctx context.Context) (*Response, error) {
		return t.Get(ctx, url, header)
	})
}

// readBody decodes gzip bodies. Setting Accept-Encoding ourselves disables
// net/http's transparent decompression.
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	var r io.Reader = resp.Body

	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
		resp.Header.Del("Content-Encoding")
		resp.Header.Del("Content-Length")
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, limit)
	}
	return body, nil
}

var _ Transport = (*HTTPTransport)(nil)
