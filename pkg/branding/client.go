package branding

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/branding-client/pkg/cache"
	"github.com/Sternrassler/branding-client/pkg/fetch"
	"github.com/rs/zerolog"
)

// PreviewParam is the query parameter consumers read a theme version id from.
const PreviewParam = "branding-theme-version"

const service = "branding"

const (
	liveHost = "branding.files.bbci.co.uk"
	devHost  = "branding.test.files.bbci.co.uk"
)

// Contenter is implemented by Client and StubClient.
type Contenter interface {
	GetContent(ctx context.Context, projectID, themeVersionID string) (*Branding, error)
	GetContentAsync(ctx context.Context, projectID, themeVersionID string) *fetch.Future[*Branding]
	GetContentWithOptions(ctx context.Context, opts RequestOptions) (*Branding, error)
}

// RequestOptions identifies one branding request.
type RequestOptions struct {
	ProjectID string

	// ThemeVersionID requests a preview instead of the published project
	ThemeVersionID string

	// ForceRefresh evicts any cached copy and goes upstream
	ForceRefresh bool
}

// Config holds the client configuration.
type Config struct {
	// Env is one of int, test or live (empty means live)
	Env fetch.Environment

	// CacheKeyPrefix namespaces cache keys
	CacheKeyPrefix string

	// CacheTime overrides header-derived freshness in seconds (nil derives it)
	CacheTime *int

	// Timeout bounds upstream requests when New builds the transport
	Timeout time.Duration

	// Logger (nil uses the "branding-client" component logger)
	Logger *zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Env:            fetch.EnvLive,
		CacheKeyPrefix: "branding",
		Timeout:        fetch.DefaultTimeout,
	}
}

// Client fetches branding from the branding web service.
type Client struct {
	fetcher *fetch.Fetcher
	config  Config
}

// NewClient creates a branding client. A nil transport uses an HTTPTransport
// with cfg.Timeout; a nil store caches nothing.
func NewClient(transport fetch.Transport, store cache.Store, cfg Config) (*Client, error) {
	env, err := fetch.ParseEnvironment(string(cfg.Env))
	if err != nil {
		return nil, err
	}
	cfg.Env = env

	if cfg.CacheKeyPrefix == "" {
		cfg.CacheKeyPrefix = DefaultConfig().CacheKeyPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = fetch.DefaultTimeout
	}
	if transport == nil {
		transport = fetch.NewHTTPTransport(nil, cfg.Timeout)
	}

	fetcher, err := fetch.NewFetcher(fetch.FetcherConfig{
		Service:   service,
		Transport: transport,
		Store:     store,
		Validator: validator,
		Check:     checkPayload,
		CacheTime: cfg.CacheTime,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.CacheTime != nil {
		v := *cfg.CacheTime
		cfg.CacheTime = &v
	}

	return &Client{
		fetcher: fetcher,
		config:  cfg,
	}, nil
}

var validator = fetch.MustValidator(schema)

// Options returns the effective configuration.
func (c *Client) Options() Config {
	cfg := c.config
	if cfg.CacheTime != nil {
		v := *cfg.CacheTime
		cfg.CacheTime = &v
	}
	return cfg
}

// URL returns the web service URL for a project, or for a theme version
// preview when themeVersionID is set.
func (c *Client) URL(projectID, themeVersionID string) string {
	host := liveHost
	if !c.config.Env.IsLive() {
		host = devHost
	}

	if themeVersionID != "" {
		return fmt.Sprintf("https://%s/branding/%s/previews/%s.json", host, c.config.Env, themeVersionID)
	}
	return fmt.Sprintf("https://%s/branding/%s/projects/%s.json", host, c.config.Env, projectID)
}

// GetContent returns the branding for a project, or for a theme version
// preview when themeVersionID is set.
func (c *Client) GetContent(ctx context.Context, projectID, themeVersionID string) (*Branding, error) {
	return c.GetContentWithOptions(ctx, RequestOptions{ProjectID: projectID, ThemeVersionID: themeVersionID})
}

// GetContentWithOptions is GetContent with per-request options.
func (c *Client) GetContentWithOptions(ctx context.Context, opts RequestOptions) (*Branding, error) {
	req := c.request(opts)

	data, err := c.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.mapResult(req.URL, data)
}

// GetContentAsync is the non-blocking form of GetContent.
func (c *Client) GetContentAsync(ctx context.Context, projectID, themeVersionID string) *fetch.Future[*Branding] {
	req := c.request(RequestOptions{ProjectID: projectID, ThemeVersionID: themeVersionID})

	return fetch.Then(c.fetcher.FetchAsync(ctx, req), func(data []byte, err error) (*Branding, error) {
		if err != nil {
			return nil, err
		}
		return c.mapResult(req.URL, data)
	})
}

func (c *Client) request(opts RequestOptions) fetch.Request {
	url := c.URL(opts.ProjectID, opts.ThemeVersionID)

	params := map[string]string{"projectId": opts.ProjectID}
	if opts.ThemeVersionID != "" {
		params["themeVersionId"] = opts.ThemeVersionID
	}

	header := http.Header{}
	header.Set("Accept-Encoding", "gzip")

	return fetch.Request{
		URL:    url,
		Header: header,
		Key: cache.CacheKey{
			Namespace: c.config.CacheKeyPrefix,
			URL:       url,
			Params:    params,
		},
		ForceRefresh: opts.ForceRefresh,
	}
}

func (c *Client) mapResult(url string, data []byte) (*Branding, error) {
	b, err := decode(data)
	if err != nil {
		return nil, &fetch.MalformedResponseError{
			Service: service,
			URL:     url,
			Reason:  "could not map payload",
			Err:     err,
		}
	}
	return b, nil
}

var _ Contenter = (*Client)(nil)
